// Package fixture loads the seed data coursecoach works from: courses,
// suggestions, the course outline, the strategy plan and pedagogy checks.
//
// The data ships embedded in the binary. A directory may override any of
// the files; files missing from it fall back to the embedded copy.
package fixture

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
	"github.com/blackwell-systems/coursecoach/internal/outline"
	"github.com/blackwell-systems/coursecoach/internal/pedagogy"
	"github.com/blackwell-systems/coursecoach/internal/strategy"
)

//go:embed data/*.json
var embedded embed.FS

// File names inside a fixture directory.
const (
	CoursesFile     = "courses.json"
	SuggestionsFile = "suggestions.json"
	OutlineFile     = "outline.json"
	StrategyFile    = "strategy.json"
	PedagogyFile    = "pedagogy.json"
)

// ErrInvalid is wrapped by every fixture validation failure.
var ErrInvalid = errors.New("invalid fixture")

// Courses holds the three course listings.
type Courses struct {
	RecentlyVisited []catalog.Course `json:"recentlyVisited"`
	All             []catalog.Course `json:"all"`
	Filtered        []catalog.Course `json:"filtered"`
}

// Set is a complete, validated collection of seed data. It is read-only
// once loaded.
type Set struct {
	Courses     Courses
	Suggestions []catalog.Suggestion
	Outline     outline.Outline
	Strategy    strategy.Plan
	Pedagogy    pedagogy.Report
}

// Load reads the seed data, overriding embedded files with those found in
// dir when dir is not empty.
func Load(ctx context.Context, dir string) (*Set, error) {
	base, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return LoadFS(ctx, base, nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixtures dir %s is not a directory", dir)
	}
	return LoadFS(ctx, os.DirFS(dir), base)
}

// LoadFS reads every fixture file from fsys, falling back to fallback for
// files fsys does not have. The files are decoded concurrently.
func LoadFS(ctx context.Context, fsys, fallback fs.FS) (*Set, error) {
	var set Set
	targets := []struct {
		name string
		dst  any
	}{
		{CoursesFile, &set.Courses},
		{SuggestionsFile, &set.Suggestions},
		{OutlineFile, &set.Outline},
		{StrategyFile, &set.Strategy},
		{PedagogyFile, &set.Pedagogy},
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, tgt := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := readFile(fsys, fallback, tgt.name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", tgt.name, err)
			}
			if err := json.Unmarshal(data, tgt.dst); err != nil {
				return fmt.Errorf("decoding %s: %w", tgt.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := set.validate(); err != nil {
		return nil, err
	}
	for i := range set.Suggestions {
		set.Suggestions[i] = set.Suggestions[i].Normalize()
	}
	return &set, nil
}

func readFile(fsys, fallback fs.FS, name string) ([]byte, error) {
	data, err := fs.ReadFile(fsys, name)
	if err == nil || fallback == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	return fs.ReadFile(fallback, name)
}

func (s *Set) validate() error {
	lists := map[string][]catalog.Course{
		"recentlyVisited": s.Courses.RecentlyVisited,
		"all":             s.Courses.All,
		"filtered":        s.Courses.Filtered,
	}
	for list, courses := range lists {
		seen := make(map[int]bool, len(courses))
		for _, c := range courses {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%w: %s %s: %w", ErrInvalid, CoursesFile, list, err)
			}
			if seen[c.ID] {
				return fmt.Errorf("%w: %s %s: duplicate course id %d", ErrInvalid, CoursesFile, list, c.ID)
			}
			seen[c.ID] = true
		}
	}

	seen := make(map[int]bool, len(s.Suggestions))
	for _, sg := range s.Suggestions {
		if err := sg.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, SuggestionsFile, err)
		}
		if seen[sg.ID] {
			return fmt.Errorf("%w: %s: duplicate suggestion id %d", ErrInvalid, SuggestionsFile, sg.ID)
		}
		seen[sg.ID] = true
	}

	for _, it := range s.Strategy.Items {
		if !it.Type.Valid() {
			return fmt.Errorf("%w: %s: module %d has unknown type %q", ErrInvalid, StrategyFile, it.Module, it.Type)
		}
	}
	return nil
}

// Course finds a course by id, looking at the filtered list first and then
// at all courses.
func (s *Set) Course(id int) (catalog.Course, bool) {
	for _, list := range [][]catalog.Course{s.Courses.Filtered, s.Courses.All, s.Courses.RecentlyVisited} {
		for _, c := range list {
			if c.ID == id {
				return c, true
			}
		}
	}
	return catalog.Course{}, false
}

// SuggestionsFor returns a copy of the seed suggestions to mount for a
// course. The prototype data carries one suggestion set shared by every
// course.
func (s *Set) SuggestionsFor(catalog.Course) []catalog.Suggestion {
	out := make([]catalog.Suggestion, len(s.Suggestions))
	copy(out, s.Suggestions)
	return out
}
