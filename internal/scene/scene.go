// Package scene resolves the active scene of an episode for a playback
// position and derives what a display surface shows for it.
package scene

import (
	"github.com/louismahl/got-companion/internal/catalog"
	"github.com/louismahl/got-companion/pkg/timecode"
)

// Resolve returns the first scene whose inclusive [start, end] interval
// contains t. Scenes are scanned in declaration order, so on overlapping data
// the earliest declared scene wins. Nil means no active scene.
func Resolve(ep *catalog.Episode, t float64) *catalog.Scene {
	if ep == nil {
		return nil
	}

	for i := range ep.Scenes {
		start := timecode.ParseSeconds(ep.Scenes[i].SceneStart)
		end := timecode.ParseSeconds(ep.Scenes[i].SceneEnd)
		if t >= start && t <= end {
			return &ep.Scenes[i]
		}
	}

	return nil
}

// LocationName is the name a scene is displayed under: sub-location when set,
// location otherwise.
func LocationName(sc *catalog.Scene) string {
	if sc == nil {
		return ""
	}

	if sc.SubLocation != "" {
		return sc.SubLocation
	}

	return sc.Location
}

type Center struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

type coordinateLookup interface {
	Coordinate(name string) (catalog.Coordinate, bool)
}

// MapCenter looks the sub-location up first and falls back to the location.
func MapCenter(sc *catalog.Scene, coords coordinateLookup) *Center {
	if sc == nil {
		return nil
	}

	for _, name := range []string{sc.SubLocation, sc.Location} {
		if name == "" {
			continue
		}
		if c, ok := coords.Coordinate(name); ok {
			return &Center{Lat: c.Lat, Lng: c.Lng, Name: name}
		}
	}

	return nil
}

type CastMember struct {
	Name          string   `json:"name"`
	Image         string   `json:"image,omitempty"`
	ActorName     string   `json:"actor_name,omitempty"`
	Houses        []string `json:"houses,omitempty"`
	CharacterLink string   `json:"character_link,omitempty"`
}

type characterLookup interface {
	Character(name string) (*catalog.Character, bool)
}

// Cast keeps the scene's order and duplicates. Names missing from the roster
// come back with only the name set.
func Cast(sc *catalog.Scene, characters characterLookup) []CastMember {
	if sc == nil {
		return []CastMember{}
	}

	cast := make([]CastMember, 0, len(sc.Characters))
	for _, ref := range sc.Characters {
		member := CastMember{Name: ref.Name}
		if ch, ok := characters.Character(ref.Name); ok {
			member.Image = ch.Image()
			member.ActorName = ch.ActorName
			member.Houses = ch.HouseName
			member.CharacterLink = ch.CharacterLink
		}
		cast = append(cast, member)
	}

	return cast
}
