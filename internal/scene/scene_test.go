package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louismahl/got-companion/internal/catalog"
)

func episode(scenes ...catalog.Scene) *catalog.Episode {
	return &catalog.Episode{SeasonNum: 1, EpisodeNum: 3, EpisodeTitle: "Lord Snow", Scenes: scenes}
}

func TestResolveInclusiveBounds(t *testing.T) {
	ep := episode(
		catalog.Scene{SceneStart: "0:00", SceneEnd: "0:10", Location: "A"},
		catalog.Scene{SceneStart: "0:20", SceneEnd: "0:30", Location: "B"},
	)

	assert.Equal(t, "A", Resolve(ep, 0).Location)
	assert.Equal(t, "A", Resolve(ep, 10).Location)
	assert.Equal(t, "B", Resolve(ep, 20).Location)
	assert.Equal(t, "B", Resolve(ep, 30).Location)
	assert.Nil(t, Resolve(ep, 30.01))
}

func TestResolveGapReturnsNoScene(t *testing.T) {
	ep := episode(
		catalog.Scene{SceneStart: "0:00", SceneEnd: "0:10"},
		catalog.Scene{SceneStart: "0:20", SceneEnd: "0:30"},
	)

	assert.Nil(t, Resolve(ep, 15))
}

func TestResolveOverlapFirstDeclaredWins(t *testing.T) {
	ep := episode(
		catalog.Scene{SceneStart: "0:00", SceneEnd: "0:10", Location: "first"},
		catalog.Scene{SceneStart: "0:05", SceneEnd: "0:08", Location: "tighter"},
	)

	assert.Equal(t, "first", Resolve(ep, 6).Location)
}

func TestResolveIsIdempotentAndHandlesBackwardSeeks(t *testing.T) {
	ep := episode(
		catalog.Scene{SceneStart: "0:00", SceneEnd: "0:10", Location: "A"},
		catalog.Scene{SceneStart: "0:11", SceneEnd: "0:30", Location: "B"},
	)

	first := Resolve(ep, 25)
	assert.Same(t, first, Resolve(ep, 25))
	assert.Equal(t, "A", Resolve(ep, 3).Location)
	assert.Equal(t, "B", Resolve(ep, 25).Location)
}

func TestResolveAbsentInputs(t *testing.T) {
	assert.Nil(t, Resolve(nil, 5))
	assert.Nil(t, Resolve(episode(), 5))
}

func TestResolveMalformedTimestampsDegradeToZero(t *testing.T) {
	ep := episode(catalog.Scene{SceneStart: "garbage", SceneEnd: "also garbage", Location: "A"})

	assert.NotNil(t, Resolve(ep, 0))
	assert.Nil(t, Resolve(ep, 1))
}

func TestMapCenter(t *testing.T) {
	coords := catalog.NewSnapshot(nil, nil, catalog.LocationCoordinates{
		"King's Landing": {Lat: 1, Lng: 2, Match: "King's Landing"},
		"The Crownlands": {Lat: 3, Lng: 4, Match: "The Crownlands"},
	})

	center := MapCenter(&catalog.Scene{Location: "The Crownlands", SubLocation: "King's Landing"}, coords)
	require.NotNil(t, center)
	assert.Equal(t, Center{Lat: 1, Lng: 2, Name: "King's Landing"}, *center)

	center = MapCenter(&catalog.Scene{Location: "The Crownlands", SubLocation: "Red Keep"}, coords)
	require.NotNil(t, center)
	assert.Equal(t, "The Crownlands", center.Name)

	center = MapCenter(&catalog.Scene{Location: "The Crownlands"}, coords)
	require.NotNil(t, center)
	assert.Equal(t, 3.0, center.Lat)

	assert.Nil(t, MapCenter(&catalog.Scene{Location: "Essos", SubLocation: "Meereen"}, coords))
	assert.Nil(t, MapCenter(nil, coords))
}

func TestLocationName(t *testing.T) {
	assert.Equal(t, "Red Keep", LocationName(&catalog.Scene{Location: "King's Landing", SubLocation: "Red Keep"}))
	assert.Equal(t, "King's Landing", LocationName(&catalog.Scene{Location: "King's Landing"}))
	assert.Equal(t, "", LocationName(nil))
}

func TestCastKeepsOrderAndDuplicates(t *testing.T) {
	roster := catalog.NewSnapshot(nil, []catalog.Character{
		{CharacterName: "Arya Stark", CharacterImageFull: "arya-full.jpg", HouseName: catalog.Houses{"Stark"}},
		{CharacterName: "Sansa Stark", CharacterImageThumb: "sansa.jpg", ActorName: "Sophie Turner"},
	}, nil)

	cast := Cast(&catalog.Scene{Characters: []catalog.SceneCharacter{
		{Name: "Sansa Stark"}, {Name: "Nymeria"}, {Name: "Arya Stark"}, {Name: "Sansa Stark"},
	}}, roster)

	require.Len(t, cast, 4)
	assert.Equal(t, CastMember{Name: "Sansa Stark", Image: "sansa.jpg", ActorName: "Sophie Turner"}, cast[0])
	assert.Equal(t, CastMember{Name: "Nymeria"}, cast[1])
	assert.Equal(t, CastMember{Name: "Arya Stark", Image: "arya-full.jpg", Houses: []string{"Stark"}}, cast[2])
	assert.Equal(t, cast[0], cast[3])

	assert.Empty(t, Cast(nil, roster))
}
