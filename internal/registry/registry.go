// Package registry lists and loads the schemas a viewer can show.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrNotFound is returned when no source has a schema by the requested name.
var ErrNotFound = errors.New("schema not found")

// Entry describes a catalog schema without reading it.
type Entry struct {
	Name        string `toml:"name"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	File        string `toml:"-"`
}

// Schema is the raw document behind an entry.
type Schema struct {
	Name string
	File string
	Data []byte
}

// Source is anything schemas can be listed and loaded from.
type Source interface {
	Entries(ctx context.Context) ([]Entry, error)
	Load(ctx context.Context, name string) (Schema, error)
}

// Names returns the schema names of src, newest first.
func Names(ctx context.Context, src Source) ([]string, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return Sort(names), nil
}

// Lookup finds the entry for name.
func Lookup(ctx context.Context, src Source, name string) (Entry, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return Entry{}, err
	}
	i := slices.IndexFunc(entries, func(e Entry) bool { return e.Name == name })
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return entries[i], nil
}

// Initial picks the schema to show first: requested when the catalog has
// it, otherwise the first of names. names is expected newest first.
func Initial(names []string, requested string) (string, bool) {
	if requested != "" && slices.Contains(names, requested) {
		return requested, true
	}
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// Layered resolves names against each source in order. An earlier source
// shadows a later one with the same schema name.
type Layered []Source

func (l Layered) Entries(ctx context.Context) ([]Entry, error) {
	seen := map[string]bool{}
	var out []Entry
	for _, src := range l {
		entries, err := src.Entries(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			out = append(out, e)
		}
	}
	return out, nil
}

func (l Layered) Load(ctx context.Context, name string) (Schema, error) {
	for _, src := range l {
		s, err := src.Load(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return s, err
	}
	return Schema{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}
