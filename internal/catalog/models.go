package catalog

import (
	"encoding/json"
	"fmt"
)

type SceneCharacter struct {
	Name string `json:"name" validate:"required"`
}

type Scene struct {
	SceneStart  string           `json:"sceneStart"`
	SceneEnd    string           `json:"sceneEnd"`
	Location    string           `json:"location"`
	SubLocation string           `json:"subLocation,omitempty"`
	Characters  []SceneCharacter `json:"characters" validate:"dive"`
}

type Episode struct {
	SeasonNum    int     `json:"seasonNum" validate:"gte=1"`
	EpisodeNum   int     `json:"episodeNum" validate:"gte=1"`
	EpisodeTitle string  `json:"episodeTitle"`
	Scenes       []Scene `json:"scenes" validate:"dive"`
}

type EpisodesDocument struct {
	Episodes []Episode `json:"episodes" validate:"required,dive"`
}

// Houses accepts both `"houseName": "Stark"` and `"houseName": ["Stark", "Tully"]`.
type Houses []string

func (h *Houses) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*h = nil
		} else {
			*h = Houses{single}
		}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("houseName must be a string or a list of strings: %w", err)
	}
	*h = list

	return nil
}

type Character struct {
	CharacterName       string `json:"characterName" validate:"required"`
	CharacterImageThumb string `json:"characterImageThumb,omitempty"`
	CharacterImageFull  string `json:"characterImageFull,omitempty"`
	ActorName           string `json:"actorName,omitempty"`
	ActorLink           string `json:"actorLink,omitempty"`
	HouseName           Houses `json:"houseName,omitempty"`
	CharacterLink       string `json:"characterLink,omitempty"`
}

// Image prefers the thumbnail over the full-size picture.
func (c *Character) Image() string {
	if c.CharacterImageThumb != "" {
		return c.CharacterImageThumb
	}

	return c.CharacterImageFull
}

type CharactersDocument struct {
	Characters []Character `json:"characters" validate:"required,dive"`
}

type Coordinate struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Match string  `json:"match"`
}

// LocationCoordinates maps a location or sub-location name to its map point.
type LocationCoordinates map[string]Coordinate
