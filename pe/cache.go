package pe

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"

	"github.com/lynxkite/lynxkite/posenc/feature"
	"github.com/lynxkite/lynxkite/posenc/table"
)

const inprogressSuffix = ".inprogress"

//go:generate mockgen -destination=mock_computer_test.go -package=pe . Computer

// Computer produces the encoding for an adjacency table on a cache miss.
type Computer interface {
	Compute(ctx context.Context, adjacencyPath string) (feature.Matrix, error)
}

type ComputerFunc func(ctx context.Context, adjacencyPath string) (feature.Matrix, error)

func (f ComputerFunc) Compute(ctx context.Context, adjacencyPath string) (feature.Matrix, error) {
	return f(ctx, adjacencyPath)
}

// CachePath puts the encoding next to the adjacency table. The file name is
// "pe_dim{dim}_" followed by the parts of the adjacency file name after its
// first underscore. For "data/adj_cora.parquet" and 178 dimensions this is
// "data/pe_dim178_cora.parquet".
func CachePath(adjacencyPath string, dim int) string {
	parts := strings.Split(filepath.Base(adjacencyPath), "_")
	name := fmt.Sprintf("pe_dim%d_%v", dim, strings.Join(parts[1:], "_"))
	return filepath.Join(filepath.Dir(adjacencyPath), name)
}

// Cache keeps encodings on disk next to their adjacency tables.
// Entries are only checked for existence, never for staleness.
type Cache struct {
	// When false, existing entries are ignored and overwritten.
	UseCached bool
}

func (c *Cache) LoadOrCompute(ctx context.Context, adjacencyPath string, dim int, compute Computer) (feature.Matrix, error) {
	path := CachePath(adjacencyPath, dim)
	if c.UseCached {
		m, hit := c.load(path)
		if hit {
			return m, nil
		}
	}
	m, err := compute.Compute(ctx, adjacencyPath)
	if err != nil {
		return feature.Matrix{}, err
	}
	if m.Cols == 0 {
		log.Printf("Encoding of %v has no columns. Not caching it.", adjacencyPath)
		return m, nil
	}
	if err := save(path, m); err != nil {
		return feature.Matrix{}, errors.Annotatef(err, "caching %v", adjacencyPath)
	}
	return m, nil
}

func (c *Cache) load(path string) (feature.Matrix, bool) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Cannot check %v: %v", path, err)
		}
		return feature.Matrix{}, false
	}
	log.Printf("Reading PE from %v", path)
	m, err := table.ReadMatrix(path)
	if err != nil {
		log.Printf("Could not read %v, recomputing: %v", path, err)
		return feature.Matrix{}, false
	}
	return m, true
}

// HasOnDisk reports whether the entry for adjacencyPath exists.
func HasOnDisk(adjacencyPath string, dim int) (bool, error) {
	_, err := os.Stat(CachePath(adjacencyPath, dim))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes the entry for adjacencyPath. Removing a missing entry is not an error.
func Remove(adjacencyPath string, dim int) error {
	err := os.Remove(CachePath(adjacencyPath, dim))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// save writes next to the final path and renames, so readers never see a partial file.
func save(path string, m feature.Matrix) error {
	tmp := path + inprogressSuffix
	if err := table.WriteAs(tmp, table.FormatOf(path), table.FromMatrix(m)); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
