package catalog

// Snapshot is the immutable view of the three data documents. It is built
// once per load and shared read-only.
type Snapshot struct {
	episodes   []Episode
	characters map[string]*Character
	coords     LocationCoordinates
}

func NewSnapshot(episodes []Episode, characters []Character, coords LocationCoordinates) *Snapshot {
	index := make(map[string]*Character, len(characters))
	for i := range characters {
		// later entries win, like rebuilding a name index in declaration order
		index[characters[i].CharacterName] = &characters[i]
	}

	if coords == nil {
		coords = LocationCoordinates{}
	}

	return &Snapshot{
		episodes:   episodes,
		characters: index,
		coords:     coords,
	}
}

// FindEpisode looks an episode up by (season, episode) equality. Non-positive
// numbers never match.
func (s *Snapshot) FindEpisode(season, episode int) (*Episode, bool) {
	if s == nil || season <= 0 || episode <= 0 {
		return nil, false
	}

	for i := range s.episodes {
		if s.episodes[i].SeasonNum == season && s.episodes[i].EpisodeNum == episode {
			return &s.episodes[i], true
		}
	}

	return nil, false
}

func (s *Snapshot) Character(name string) (*Character, bool) {
	if s == nil {
		return nil, false
	}

	c, ok := s.characters[name]
	return c, ok
}

// Coordinate is an exact-match lookup, no normalization.
func (s *Snapshot) Coordinate(name string) (Coordinate, bool) {
	if s == nil || name == "" {
		return Coordinate{}, false
	}

	c, ok := s.coords[name]
	return c, ok
}

func (s *Snapshot) Episodes() []Episode {
	if s == nil {
		return nil
	}

	return s.episodes
}

type Stats struct {
	Episodes   int `json:"episodes"`
	Characters int `json:"characters"`
	Locations  int `json:"locations"`
}

func (s *Snapshot) Stats() Stats {
	if s == nil {
		return Stats{}
	}

	return Stats{
		Episodes:   len(s.episodes),
		Characters: len(s.characters),
		Locations:  len(s.coords),
	}
}
