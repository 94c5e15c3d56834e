package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louismahl/got-companion/pkg/timecode"
)

const episodesJSON = `{"episodes":[
	{"seasonNum":1,"episodeNum":3,"episodeTitle":"Lord Snow","scenes":[
		{"sceneStart":"0:00:00","sceneEnd":"0:01:59","location":"The Wall","characters":[{"name":"Jon Snow"}]},
		{"sceneStart":"0:02:00","sceneEnd":"0:02:20","location":"The Crownlands","subLocation":"King's Landing","characters":[{"name":"Cersei Lannister"},{"name":"Unknown Guard"}]}
	]}
]}`

const charactersJSON = `{"characters":[
	{"characterName":"Jon Snow","characterImageThumb":"thumb.jpg","characterImageFull":"full.jpg","houseName":"Stark","actorName":"Kit Harington"},
	{"characterName":"Cersei Lannister","characterImageFull":"cersei.jpg","houseName":["Lannister","Baratheon"]}
]}`

const locationsJSON = `{
	"The Wall":{"lat":10.5,"lng":-3.2,"match":"The Wall"},
	"King's Landing":{"lat":-20,"lng":15.75,"match":"King's Landing"}
}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		EpisodesPath:   {Data: []byte(episodesJSON)},
		CharactersPath: {Data: []byte(charactersJSON)},
		LocationsPath:  {Data: []byte(locationsJSON)},
	}
}

func TestLoadFromDir(t *testing.T) {
	loader := NewLoader(NewFSSource(testFS()), slog.Default())

	snapshot, err := loader.Load(context.Background())
	require.NoError(t, err)

	ep, ok := snapshot.FindEpisode(1, 3)
	require.True(t, ok)
	assert.Equal(t, "Lord Snow", ep.EpisodeTitle)
	assert.Len(t, ep.Scenes, 2)
	assert.Equal(t, "King's Landing", ep.Scenes[1].SubLocation)

	jon, ok := snapshot.Character("Jon Snow")
	require.True(t, ok)
	assert.Equal(t, Houses{"Stark"}, jon.HouseName)
	assert.Equal(t, "thumb.jpg", jon.Image())

	cersei, ok := snapshot.Character("Cersei Lannister")
	require.True(t, ok)
	assert.Equal(t, Houses{"Lannister", "Baratheon"}, cersei.HouseName)
	assert.Equal(t, "cersei.jpg", cersei.Image())

	wall, ok := snapshot.Coordinate("The Wall")
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 10.5, Lng: -3.2, Match: "The Wall"}, wall)
}

func TestFindEpisodeByEquality(t *testing.T) {
	snapshot := NewSnapshot([]Episode{
		{SeasonNum: 2, EpisodeNum: 1, EpisodeTitle: "The North Remembers"},
		{SeasonNum: 1, EpisodeNum: 1, EpisodeTitle: "Winter Is Coming"},
	}, nil, nil)

	ep, ok := snapshot.FindEpisode(1, 1)
	require.True(t, ok)
	assert.Equal(t, "Winter Is Coming", ep.EpisodeTitle)

	_, ok = snapshot.FindEpisode(1, 2)
	assert.False(t, ok)
	_, ok = snapshot.FindEpisode(0, 1)
	assert.False(t, ok)

	var nilSnapshot *Snapshot
	_, ok = nilSnapshot.FindEpisode(1, 1)
	assert.False(t, ok)
}

func TestCoordinateIsExactMatch(t *testing.T) {
	snapshot := NewSnapshot(nil, nil, LocationCoordinates{"Winterfell": {Lat: 1, Lng: 2, Match: "Winterfell"}})

	_, ok := snapshot.Coordinate("winterfell")
	assert.False(t, ok)
	_, ok = snapshot.Coordinate("Winterfell ")
	assert.False(t, ok)
	_, ok = snapshot.Coordinate("Winterfell")
	assert.True(t, ok)
}

func TestLoadMissingDocument(t *testing.T) {
	fsys := testFS()
	delete(fsys, CharactersPath)

	_, err := NewLoader(NewFSSource(fsys), slog.Default()).Load(context.Background())

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "characters", loadErr.Resource)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.Contains(t, err.Error(), "failed to load characters")
}

func TestLoadInvalidShape(t *testing.T) {
	fsys := testFS()
	fsys[EpisodesPath] = &fstest.MapFile{Data: []byte(`{"episodes":[{"seasonNum":0,"episodeNum":1,"scenes":[]}]}`)}

	_, err := NewLoader(NewFSSource(fsys), slog.Default()).LoadEpisodes(context.Background())

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "episodes", loadErr.Resource)
	assert.Contains(t, err.Error(), "episodes[0].seasonNum must be at least 1")
}

func TestLoadToleratesMalformedTimestamps(t *testing.T) {
	fsys := testFS()
	fsys[EpisodesPath] = &fstest.MapFile{Data: []byte(`{"episodes":[{"seasonNum":1,"episodeNum":1,"scenes":[
		{"sceneStart":"0:00:00","sceneEnd":"0:00:10","location":"The Wall","characters":[]},
		{"sceneStart":"","sceneEnd":"soon","location":"Winterfell","characters":[]},
		{"sceneEnd":"0:01:00","location":"Pyke","characters":[]}
	]}]}`)}

	doc, err := NewLoader(NewFSSource(fsys), slog.Default()).LoadEpisodes(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Episodes, 1)
	scenes := doc.Episodes[0].Scenes
	require.Len(t, scenes, 3)
	assert.Equal(t, "", scenes[1].SceneStart)
	assert.Equal(t, 0.0, timecode.ParseSeconds(scenes[1].SceneStart))
	assert.Equal(t, 0.0, timecode.ParseSeconds(scenes[1].SceneEnd))
	assert.Equal(t, 0.0, timecode.ParseSeconds(scenes[2].SceneStart))
}

func TestLoadMalformedJSON(t *testing.T) {
	fsys := testFS()
	fsys[LocationsPath] = &fstest.MapFile{Data: []byte(`{"The Wall":`)}

	_, err := NewLoader(NewFSSource(fsys), slog.Default()).LoadLocationCoordinates(context.Background())

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "location mapping", loadErr.Resource)
}

func TestHousesRejectsOtherTypes(t *testing.T) {
	var h Houses
	assert.Error(t, h.UnmarshalJSON([]byte(`42`)))
	require.NoError(t, h.UnmarshalJSON([]byte(`""`)))
	assert.Nil(t, h)
}

func TestHTTPSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data/"+EpisodesPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(episodesJSON))
	})
	mux.HandleFunc("/data/"+CharactersPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(charactersJSON))
	})
	mux.HandleFunc("/data/"+LocationsPath, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source, err := NewHTTPSource(server.URL+"/data", server.Client())
	require.NoError(t, err)
	loader := NewLoader(source, slog.Default())

	doc, err := loader.LoadEpisodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Episodes, 1)

	_, err = loader.Load(context.Background())
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "location mapping", loadErr.Resource)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestHTTPSourceNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	source, err := NewHTTPSource(server.URL, server.Client())
	require.NoError(t, err)

	_, err = source.Open(context.Background(), EpisodesPath)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
}

func TestNewHTTPSourceRejectsScheme(t *testing.T) {
	_, err := NewHTTPSource("ftp://example.com/data", nil)
	assert.Error(t, err)
}
