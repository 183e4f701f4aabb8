package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestFile optionally sits next to the schemas and adds a title and a
// description to entries.
const ManifestFile = "catalog.toml"

var extensions = []string{".json", ".yaml", ".yml"}

type manifest struct {
	Schemas []Entry `toml:"schemas"`
}

// FSSource serves the schema files found directly in one directory of an fs.FS.
type FSSource struct {
	fsys fs.FS
	dir  string
}

// NewFS returns a source over dir inside fsys.
func NewFS(fsys fs.FS, dir string) *FSSource {
	return &FSSource{fsys: fsys, dir: dir}
}

// Dir returns a source over a directory on disk. A missing directory is an
// empty catalog.
func Dir(dir string) *FSSource {
	return NewFS(os.DirFS(dir), ".")
}

// SchemaName strips a schema file extension from file, reporting whether
// file had one.
func SchemaName(file string) (string, bool) {
	base := path.Base(file)
	ext := strings.ToLower(path.Ext(base))
	for _, e := range extensions {
		if ext == e {
			return strings.TrimSuffix(base, path.Ext(base)), true
		}
	}
	return "", false
}

// Entries lists the schema files in name order. When a name exists with
// several extensions, the first file wins.
func (s *FSSource) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := fs.ReadDir(s.fsys, s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	meta, err := s.manifest()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var entries []Entry
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name, ok := SchemaName(f.Name())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		e := meta[name]
		e.Name = name
		e.File = path.Join(s.dir, f.Name())
		entries = append(entries, e)
	}
	return entries, nil
}

// Load reads the file behind name.
func (s *FSSource) Load(ctx context.Context, name string) (Schema, error) {
	e, err := Lookup(ctx, s, name)
	if err != nil {
		return Schema{}, err
	}
	data, err := fs.ReadFile(s.fsys, e.File)
	if err != nil {
		return Schema{}, fmt.Errorf("reading %s: %w", e.File, err)
	}
	return Schema{Name: name, File: e.File, Data: data}, nil
}

func (s *FSSource) manifest() (map[string]Entry, error) {
	data, err := fs.ReadFile(s.fsys, path.Join(s.dir, ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	out := make(map[string]Entry, len(m.Schemas))
	for _, e := range m.Schemas {
		out[e.Name] = e
	}
	return out, nil
}

// FileSource serves a single schema file on disk.
type FileSource struct {
	name string
	file string
}

// File returns a source holding only file, named after it.
func File(file string) (*FileSource, error) {
	name, ok := SchemaName(filepath.ToSlash(file))
	if !ok {
		return nil, fmt.Errorf("%s: not a .json, .yaml or .yml file", file)
	}
	return &FileSource{name: name, file: file}, nil
}

// Name is the schema name of the file.
func (s *FileSource) Name() string { return s.name }

func (s *FileSource) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Entry{{Name: s.name, File: s.file}}, nil
}

func (s *FileSource) Load(ctx context.Context, name string) (Schema, error) {
	if err := ctx.Err(); err != nil {
		return Schema{}, err
	}
	if name != s.name {
		return Schema{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	data, err := os.ReadFile(s.file)
	if err != nil {
		return Schema{}, fmt.Errorf("reading %s: %w", s.file, err)
	}
	return Schema{Name: s.name, File: s.file, Data: data}, nil
}
