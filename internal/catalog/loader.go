package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/maps"

	"github.com/louismahl/got-companion/pkg/validator"
)

const (
	EpisodesPath   = "episodes.json"
	CharactersPath = "characters.json"
	LocationsPath  = "location-mapping-with-coords.json"
)

const (
	resourceEpisodes   = "episodes"
	resourceCharacters = "characters"
	resourceLocations  = "location mapping"
)

// LoadError names the document that could not be fetched, decoded or
// validated.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type Loader struct {
	source   Source
	validate *validator.Validator
	logger   *slog.Logger
}

func NewLoader(source Source, logger *slog.Logger) *Loader {
	return &Loader{
		source:   source,
		validate: validator.NewValidator(),
		logger:   logger,
	}
}

func (l *Loader) LoadEpisodes(ctx context.Context) (*EpisodesDocument, error) {
	var doc EpisodesDocument
	if err := l.fetch(ctx, resourceEpisodes, EpisodesPath, &doc); err != nil {
		return nil, err
	}

	if err := l.check(resourceEpisodes, doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func (l *Loader) LoadCharacters(ctx context.Context) (*CharactersDocument, error) {
	var doc CharactersDocument
	if err := l.fetch(ctx, resourceCharacters, CharactersPath, &doc); err != nil {
		return nil, err
	}

	if err := l.check(resourceCharacters, doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func (l *Loader) LoadLocationCoordinates(ctx context.Context) (LocationCoordinates, error) {
	var coords LocationCoordinates
	if err := l.fetch(ctx, resourceLocations, LocationsPath, &coords); err != nil {
		return nil, err
	}

	if coords == nil {
		return nil, &LoadError{Resource: resourceLocations, Err: fmt.Errorf("document is null")}
	}

	names := maps.Keys(coords)
	sort.Strings(names)
	l.logger.DebugContext(ctx, "detected locations", "count", len(names), "locations", names)

	return coords, nil
}

// Load fetches the three documents concurrently and builds a snapshot. The
// first failure cancels the remaining fetches.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		episodes   *EpisodesDocument
		characters *CharactersDocument
		coords     LocationCoordinates
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		episodes, err = l.LoadEpisodes(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		characters, err = l.LoadCharacters(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		coords, err = l.LoadLocationCoordinates(ctx)
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	snapshot := NewSnapshot(episodes.Episodes, characters.Characters, coords)
	l.logger.InfoContext(ctx, "catalog loaded",
		"episodes", len(snapshot.episodes),
		"characters", len(snapshot.characters),
		"locations", len(snapshot.coords),
	)

	return snapshot, nil
}

func (l *Loader) fetch(ctx context.Context, resource, path string, dst any) error {
	body, err := l.source.Open(ctx, path)
	if err != nil {
		return &LoadError{Resource: resource, Err: err}
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return &LoadError{Resource: resource, Err: fmt.Errorf("decode %s: %w", path, err)}
	}

	return nil
}

func (l *Loader) check(resource string, doc any) error {
	if errs, ok := l.validate.Validate(doc); !ok {
		return &LoadError{Resource: resource, Err: validator.Join(errs)}
	}

	return nil
}
