package kit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	gtfont "github.com/go-text/typesetting/font"
)

// World is a read-only handle giving the paragraph layout engine access to
// fonts and to the paragraph defaults resolved from a configuration file.
// Accesses are safe for concurrent callers: the cache is guarded by a
// RWMutex and faces, once loaded, are never mutated.
type World struct {
	root string

	mu        sync.RWMutex
	faceCache map[string][]*gtfont.Face

	Config Config
}

// NewWorld creates a World rooted at the given directory. Font files are
// resolved relative to root unless given as absolute paths.
func NewWorld(root string) (*World, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve world root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("world root does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("world root is not a directory: %s", absRoot)
	}
	return &World{
		root:      absRoot,
		faceCache: make(map[string][]*gtfont.Face),
		Config:    DefaultConfig(),
	}, nil
}

// LoadConfigFile loads paragraph defaults from a TOML file at path
// (relative paths resolve against the world root) and merges them onto the
// current defaults.
func (w *World) LoadConfigFile(path string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	cfg := w.Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &FileNotFoundError{Path: path}
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	w.Config = cfg
	return nil
}

// Faces returns the font faces loaded from a font file, from cache if
// already loaded. TrueType collections yield more than one face.
func (w *World) Faces(path string) ([]*gtfont.Face, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}

	w.mu.RLock()
	if faces, ok := w.faceCache[path]; ok {
		w.mu.RUnlock()
		return faces, nil
	}
	w.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read font file %s: %w", path, err)
	}

	faces, err := parseFaces(data)
	if err != nil {
		return nil, fmt.Errorf("parse font file %s: %w", path, err)
	}

	w.mu.Lock()
	w.faceCache[path] = faces
	w.mu.Unlock()

	return faces, nil
}

// InvalidateFace removes a font file from the cache, forcing it to be
// re-read and re-parsed on next access.
func (w *World) InvalidateFace(path string) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.faceCache, path)
}

// Root returns the world's root directory.
func (w *World) Root() string { return w.root }

func parseFaces(data []byte) ([]*gtfont.Face, error) {
	if len(data) >= 4 && string(data[:4]) == "ttcf" {
		return gtfont.ParseTTC(bytes.NewReader(data))
	}
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return []*gtfont.Face{face}, nil
}

// FileNotFoundError is returned when a resource cannot be found on disk.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}
