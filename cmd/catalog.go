package cmd

import (
	"context"
	"os"

	"github.com/msalah0e/schemaview/internal/registry"
	"github.com/msalah0e/schemaview/internal/session"
	"github.com/msalah0e/schemaview/internal/ui"
)

// catalog layers the configured directory over the embedded samples.
func catalog() registry.Source {
	var l registry.Layered
	if dir := settings().Catalog.Dir; dir != "" {
		l = append(l, registry.Dir(dir))
	}
	if samplesFS != nil {
		l = append(l, registry.NewFS(samplesFS, "schemas"))
	}
	return l
}

// resolve maps a command argument to a source and a schema name. An
// existing file is read directly; anything else is a catalog name.
func resolve(arg string) (registry.Source, string, error) {
	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return catalog(), arg, nil
	}
	src, err := registry.File(arg)
	if err != nil {
		return nil, "", err
	}
	return src, src.Name(), nil
}

func loadSchema(ctx context.Context, arg string) (*session.Snapshot, error) {
	src, name, err := resolve(arg)
	if err != nil {
		return nil, err
	}
	return session.Load(ctx, src, name)
}

// mustLoad loads arg or exits with the error.
func mustLoad(ctx context.Context, arg string) *session.Snapshot {
	snap, err := loadSchema(ctx, arg)
	if err != nil {
		ui.Bad.Printf("  Failed to load schema %s: %v\n", arg, err)
		os.Exit(1)
	}
	return snap
}
