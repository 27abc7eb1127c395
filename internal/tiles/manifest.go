package tiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
)

// ManifestFile is the name of the manifest written next to the tiles.
const ManifestFile = "manifest.json"

// Manifest records one extraction run.
type Manifest struct {
	RunID      string             `json:"run_id"`
	Source     string             `json:"source"`
	CreatedAt  time.Time          `json:"created_at"`
	Manual     bool               `json:"manual"`
	OffsetMode hexgrid.OffsetMode `json:"offset_mode"`
	Params     hexgrid.GridParams `json:"params"`
	Tiles      []ManifestTile     `json:"tiles"`
}

// ManifestTile is one written tile.
type ManifestTile struct {
	ID      string  `json:"id"`
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	File    string  `json:"file"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(source string, p hexgrid.GridParams, mode hexgrid.OffsetMode, manual bool) *Manifest {
	return &Manifest{
		RunID:      uuid.NewString(),
		Source:     source,
		CreatedAt:  time.Now().UTC(),
		Manual:     manual,
		OffsetMode: mode,
		Params:     p,
		Tiles:      []ManifestTile{},
	}
}

// AddFiles records the files written for cells. Files are matched to cells
// by their base name, so cells that were skipped are simply absent.
func (m *Manifest) AddFiles(cells []hexgrid.HexCell, files []string) {
	byID := make(map[string]hexgrid.HexCell, len(cells))
	for _, c := range cells {
		byID[c.ID()] = c
	}
	for _, f := range files {
		base := filepath.Base(f)
		id := strings.TrimSuffix(base, filepath.Ext(base))
		c, ok := byID[id]
		if !ok {
			continue
		}
		m.Tiles = append(m.Tiles, ManifestTile{
			ID:      id,
			Row:     c.Row,
			Col:     c.Col,
			CenterX: c.CenterX,
			CenterY: c.CenterY,
			File:    base,
		})
	}
}

// WriteFile writes the manifest to dir/manifest.json and returns its path.
func (m *Manifest) WriteFile(dir string) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteFile.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
