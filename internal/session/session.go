// Package session loads schemas by name and keeps the one currently shown.
// A newer selection always wins over a slower older one.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/msalah0e/schemaview/internal/obs"
	"github.com/msalah0e/schemaview/internal/registry"
	"github.com/msalah0e/schemaview/internal/schema"
)

// ErrSuperseded is returned to a Select call whose result was dropped
// because another selection started after it. Callers ignore it.
var ErrSuperseded = errors.New("schema load superseded")

// Snapshot is a parsed schema ready to be shown.
type Snapshot struct {
	Name     string
	File     string
	Root     *schema.Node
	Raw      []byte // pretty-printed JSON, for download
	Nodes    int
	LoadedAt time.Time
	Elapsed  time.Duration
}

// Load reads and parses one schema from src.
func Load(ctx context.Context, src registry.Source, name string) (*Snapshot, error) {
	ctx, rec := obs.Start(ctx, "schema.load", obs.SchemaName.String(name))
	s, err := src.Load(ctx, name)
	if err != nil {
		rec.End(err)
		return nil, err
	}
	rec.Add(obs.SchemaBytes.Int(len(s.Data)))

	snap, err := parse(ctx, s)
	elapsed := rec.End(err)
	if err != nil {
		return nil, err
	}
	snap.Elapsed = elapsed
	return snap, nil
}

func parse(ctx context.Context, s registry.Schema) (*Snapshot, error) {
	_, rec := obs.Start(ctx, "schema.parse", obs.SchemaName.String(s.Name))
	doc, err := schema.Decode(s.File, s.Data)
	if err != nil {
		err = fmt.Errorf("decoding %s: %w", s.Name, err)
		rec.End(err)
		return nil, err
	}
	root, err := schema.Parse(doc)
	if err != nil {
		err = fmt.Errorf("parsing %s: %w", s.Name, err)
		rec.End(err)
		return nil, err
	}
	raw, err := doc.Pretty()
	if err != nil {
		rec.End(err)
		return nil, err
	}
	nodes := root.Count()
	rec.Add(obs.SchemaNodes.Int(nodes))
	rec.End(nil)
	return &Snapshot{
		Name:     s.Name,
		File:     s.File,
		Root:     root,
		Raw:      raw,
		Nodes:    nodes,
		LoadedAt: time.Now(),
	}, nil
}

// Loader serializes schema selections. Every Select takes a new token;
// a load only becomes current if its token is still the latest when it
// finishes.
type Loader struct {
	src      registry.Source
	onChange func(*Snapshot)

	mu      sync.Mutex
	token   uint64
	current *Snapshot
}

// NewLoader returns a loader over src. onChange, if set, is called with nil
// when a selection starts and with the snapshot when it commits. It runs
// with the loader's lock held and must not call back into the loader.
func NewLoader(src registry.Source, onChange func(*Snapshot)) *Loader {
	return &Loader{src: src, onChange: onChange}
}

// Select switches to the schema called name. The previous tree is dropped
// before loading starts, so a failed load leaves nothing selected.
func (l *Loader) Select(ctx context.Context, name string) (*Snapshot, error) {
	l.mu.Lock()
	l.token++
	token := l.token
	l.set(nil)
	l.mu.Unlock()

	snap, err := Load(ctx, l.src, name)

	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.token {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	l.set(snap)
	return snap, nil
}

// Current returns the committed snapshot, nil while loading or after a
// failed load.
func (l *Loader) Current() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Loader) set(s *Snapshot) {
	l.current = s
	if l.onChange != nil {
		l.onChange(s)
	}
}
