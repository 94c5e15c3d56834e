package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louismahl/got-companion/internal/catalog"
)

func snapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(
		[]catalog.Episode{{
			SeasonNum: 1, EpisodeNum: 3, EpisodeTitle: "Lord Snow",
			Scenes: []catalog.Scene{
				{SceneStart: "0:00", SceneEnd: "1:59", Location: "The Wall", Characters: []catalog.SceneCharacter{{Name: "Jon Snow"}}},
				{SceneStart: "2:00", SceneEnd: "2:20", Location: "The Crownlands", SubLocation: "King's Landing", Characters: []catalog.SceneCharacter{{Name: "Cersei Lannister"}}},
				{SceneStart: "3:00", SceneEnd: "4:00", Location: "Essos"},
			},
		}},
		[]catalog.Character{{CharacterName: "Cersei Lannister", CharacterImageThumb: "cersei.jpg"}},
		catalog.LocationCoordinates{
			"King's Landing": {Lat: -20, Lng: 15.75, Match: "King's Landing"},
			"The Crownlands": {Lat: -18, Lng: 14, Match: "The Crownlands"},
		},
	)
}

func TestViewActiveScene(t *testing.T) {
	state := View(snapshot(), 1, 3, 125.4)

	assert.False(t, state.Waiting)
	assert.Equal(t, "Lord Snow", state.EpisodeTitle)
	assert.Equal(t, 125.4, state.CurrentTime)
	require.NotNil(t, state.Scene)
	assert.Equal(t, 1, state.Scene.Index)
	assert.Equal(t, 120.0, state.Scene.StartSeconds)
	assert.Equal(t, 140.0, state.Scene.EndSeconds)
	assert.Equal(t, 20.0, state.Scene.Duration)
	assert.Equal(t, "King's Landing", state.Scene.Label)
	require.NotNil(t, state.Center)
	assert.Equal(t, Center{Lat: -20, Lng: 15.75, Name: "King's Landing"}, *state.Center)
	assert.Equal(t, []CastMember{{Name: "Cersei Lannister", Image: "cersei.jpg"}}, state.Cast)
}

func TestViewSceneWithoutCoordinates(t *testing.T) {
	state := View(snapshot(), 1, 3, 200)

	assert.False(t, state.Waiting)
	require.NotNil(t, state.Scene)
	assert.Equal(t, "Essos", state.Scene.Label)
	assert.Nil(t, state.Center)
	assert.Empty(t, state.Cast)
}

func TestViewGapIsWaiting(t *testing.T) {
	state := View(snapshot(), 1, 3, 150)

	assert.True(t, state.Waiting)
	assert.Nil(t, state.Scene)
	assert.Nil(t, state.Center)
	assert.Empty(t, state.Cast)
	assert.Equal(t, "Lord Snow", state.EpisodeTitle)
}

func TestViewUnknownEpisodeIsWaiting(t *testing.T) {
	state := View(snapshot(), 9, 9, 10)

	assert.True(t, state.Waiting)
	assert.Nil(t, state.Scene)
	assert.Empty(t, state.EpisodeTitle)

	state = View(nil, 1, 3, 10)
	assert.True(t, state.Waiting)
}

func TestIdleKeepsEpisodeTitle(t *testing.T) {
	state := Idle(snapshot(), 1, 3)

	assert.True(t, state.Waiting)
	assert.Nil(t, state.Scene)
	assert.Nil(t, state.Center)
	assert.Empty(t, state.Cast)
	assert.Equal(t, "Lord Snow", state.EpisodeTitle)
	assert.Zero(t, state.CurrentTime)

	assert.Empty(t, Idle(nil, 1, 3).EpisodeTitle)
}
