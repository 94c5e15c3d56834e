package scene

import (
	"github.com/louismahl/got-companion/internal/catalog"
	"github.com/louismahl/got-companion/pkg/timecode"
)

type ActiveScene struct {
	Index        int     `json:"index"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Duration     float64 `json:"duration"`
	Location     string  `json:"location"`
	SubLocation  string  `json:"sub_location,omitempty"`
	Label        string  `json:"label"`
}

// State is what a display surface renders for one playback position. Waiting
// is set whenever no scene is active, so stale data is never shown.
type State struct {
	Season       int          `json:"season"`
	Episode      int          `json:"episode"`
	EpisodeTitle string       `json:"episode_title,omitempty"`
	CurrentTime  float64      `json:"current_time"`
	Waiting      bool         `json:"waiting"`
	Scene        *ActiveScene `json:"scene"`
	Cast         []CastMember `json:"cast"`
	Center       *Center      `json:"center"`
}

// View resolves the state for (season, episode) at t. An unknown episode is
// not resolved at all and yields a waiting state.
func View(snapshot *catalog.Snapshot, season, episode int, t float64) State {
	state := Idle(snapshot, season, episode)
	state.CurrentTime = t

	ep, ok := snapshot.FindEpisode(season, episode)
	if !ok {
		return state
	}

	sc := Resolve(ep, t)
	if sc == nil {
		return state
	}

	start := timecode.ParseSeconds(sc.SceneStart)
	end := timecode.ParseSeconds(sc.SceneEnd)
	state.Waiting = false
	state.Scene = &ActiveScene{
		Index:        indexOf(ep, sc),
		Start:        sc.SceneStart,
		End:          sc.SceneEnd,
		StartSeconds: start,
		EndSeconds:   end,
		Duration:     end - start,
		Location:     sc.Location,
		SubLocation:  sc.SubLocation,
		Label:        LocationName(sc),
	}
	state.Cast = Cast(sc, snapshot)
	state.Center = MapCenter(sc, snapshot)

	return state
}

// Idle is the state of a display before any playback time is known.
func Idle(snapshot *catalog.Snapshot, season, episode int) State {
	state := State{
		Season:  season,
		Episode: episode,
		Waiting: true,
		Cast:    []CastMember{},
	}
	if ep, ok := snapshot.FindEpisode(season, episode); ok {
		state.EpisodeTitle = ep.EpisodeTitle
	}

	return state
}

func indexOf(ep *catalog.Episode, sc *catalog.Scene) int {
	for i := range ep.Scenes {
		if &ep.Scenes[i] == sc {
			return i
		}
	}

	return -1
}
