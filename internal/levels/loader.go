// Package levels loads level descriptors from a directory or an embedded
// file system and turns them into grids.
// This package depends on grid and formats; the simulation never imports it.
package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Jean-Jawed/Patternia/internal/levels/formats"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no level carries the requested id.
var ErrNotFound = errors.New("levels: level not found")

// indexNames are the play-order files looked up at the loader root.
var indexNames = []string{"index.json", "index.yaml", "index.yml"}

// Level is a parsed descriptor together with where it came from.
type Level struct {
	formats.Descriptor
	FilePath string // relative to the loader's file system
}

// Loader reads levels from a file system.
type Loader struct {
	FS   fs.FS
	Root string // on-disk directory, "" for embedded sets

	logger *log.Logger

	mu    sync.Mutex
	paths map[int]string
}

// NewLoader creates a loader over an on-disk directory.
func NewLoader(root string) *Loader {
	return &Loader{
		FS:     os.DirFS(root),
		Root:   root,
		logger: log.New(io.Discard),
	}
}

// NewFSLoader creates a loader over an arbitrary file system.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{
		FS:     fsys,
		logger: log.New(io.Discard),
	}
}

// SetLogger replaces the loader's logger. A nil logger discards.
func (l *Loader) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	l.logger = logger
}

// Watchable reports whether the loader reads from disk.
func (l *Loader) Watchable() bool {
	return l.Root != ""
}

// AbsPath returns the on-disk path of a level, or "" for embedded sets.
func (l *Loader) AbsPath(lvl Level) string {
	if l.Root == "" {
		return ""
	}
	p, err := filepath.Abs(filepath.Join(l.Root, filepath.FromSlash(lvl.FilePath)))
	if err != nil {
		return filepath.Join(l.Root, filepath.FromSlash(lvl.FilePath))
	}
	return p
}

// LoadAll scans the file system and loads every level file.
// Invalid files are skipped with a warning. Levels are returned in
// index order when an index file exists, otherwise sorted by id.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[int]string)

	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isIndexFile(p) {
			return nil
		}
		if !formats.IsSupported(path.Ext(p)) {
			return nil
		}

		lvl, err := l.LoadFile(p)
		if err != nil {
			l.logger.Warn("skipping level file", "path", p, "err", err)
			return nil
		}
		if prev, dup := seen[lvl.ID]; dup {
			l.logger.Warn("duplicate level id", "id", lvl.ID, "path", p, "kept", prev)
			return nil
		}
		seen[lvl.ID] = p
		levels = append(levels, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking %s: %w", l.describe(), err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	l.mu.Lock()
	l.paths = seen
	l.mu.Unlock()

	order, ok := l.readIndex()
	if !ok {
		return levels, nil
	}
	byID := make(map[int]Level, len(levels))
	for _, lvl := range levels {
		byID[lvl.ID] = lvl
	}
	ordered := make([]Level, 0, len(order))
	for _, id := range order {
		lvl, ok := byID[id]
		if !ok {
			l.logger.Warn("index lists a missing level", "id", id)
			continue
		}
		ordered = append(ordered, lvl)
	}
	return ordered, nil
}

// LoadFile loads a single level file, path relative to the file system.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading %s: %w", p, err)
	}
	desc, err := formats.Parse(data, path.Ext(p))
	if err != nil {
		return Level{}, fmt.Errorf("levels: parsing %s: %w", p, err)
	}
	return Level{Descriptor: desc, FilePath: p}, nil
}

// LoadByID loads the level with the given id, re-reading its file so
// edits on disk are picked up.
func (l *Loader) LoadByID(id int) (Level, error) {
	l.mu.Lock()
	p, ok := l.paths[id]
	l.mu.Unlock()

	if ok {
		lvl, err := l.LoadFile(p)
		if err == nil && lvl.ID == id {
			return lvl, nil
		}
	}

	// Cache miss or the file changed identity: rescan.
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// ListIDs returns level ids in play order.
func (l *Loader) ListIDs() ([]int, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// readIndex reads the first index file present at the root.
func (l *Loader) readIndex() ([]int, bool) {
	for _, name := range indexNames {
		data, err := fs.ReadFile(l.FS, name)
		if err != nil {
			continue
		}
		var ids []int
		if strings.HasSuffix(name, ".json") {
			err = json.Unmarshal(data, &ids)
		} else {
			err = yaml.Unmarshal(data, &ids)
		}
		if err != nil {
			l.logger.Warn("ignoring level index", "file", name, "err", err)
			return nil, false
		}
		if len(ids) == 0 {
			return nil, false
		}
		return ids, true
	}
	return nil, false
}

func (l *Loader) describe() string {
	if l.Root != "" {
		return l.Root
	}
	return "embedded levels"
}

func isIndexFile(p string) bool {
	for _, name := range indexNames {
		if p == name {
			return true
		}
	}
	return false
}
