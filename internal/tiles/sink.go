package tiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// TileSink persists extracted tiles. Implementations must be safe for
// concurrent use; WriteTile returns where the tile ended up.
type TileSink interface {
	WriteTile(t Tile) (string, error)
}

// DefaultFormat is the file format tiles are written in when none is given.
const DefaultFormat = "png"

// ParseFormat normalises a tile file format. Only formats that keep an alpha
// channel are accepted: "png" and "tiff" ("tif" is an alias).
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "png":
		return "png", nil
	case "tif", "tiff":
		return "tiff", nil
	}
	return "", fmt.Errorf("unsupported tile format %q: use png or tiff", s)
}

// DirSink writes each tile to <Dir>/<id>.<Format>.
type DirSink struct {
	Dir    string
	Format string
}

// NewDirSink creates dir if needed and validates format.
func NewDirSink(dir, format string) (*DirSink, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &DirSink{Dir: dir, Format: f}, nil
}

// Path is the file a tile with the given id is written to.
func (s *DirSink) Path(id string) string {
	return filepath.Join(s.Dir, id+"."+s.Format)
}

// WriteTile saves t and returns its path.
func (s *DirSink) WriteTile(t Tile) (string, error) {
	path := s.Path(t.ID)
	if err := imaging.Save(t.Image, path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}

// MemorySink keeps tiles in memory, keyed by id.
type MemorySink struct {
	mu    sync.Mutex
	tiles map[string]Tile
}

// WriteTile stores t and returns its id.
func (s *MemorySink) WriteTile(t Tile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tiles == nil {
		s.tiles = make(map[string]Tile)
	}
	s.tiles[t.ID] = t
	return t.ID, nil
}

// Tile returns the stored tile with the given id.
func (s *MemorySink) Tile(id string) (Tile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tiles[id]
	return t, ok
}

// Len is the number of stored tiles.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tiles)
}
