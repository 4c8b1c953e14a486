// Package gdb implements the geodatabase: a directory container of
// FlatGeobuf feature classes guarded by a schema lock.
package gdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Common errors returned by this package.
var (
	// ErrWorkspaceLocked is returned when another process holds the
	// geodatabase schema lock. The condition is transient and callers
	// are expected to retry.
	ErrWorkspaceLocked = errors.New("gdb: workspace is locked")

	// ErrNoFeatureClass is returned when reading a feature class that
	// does not exist in the geodatabase.
	ErrNoFeatureClass = errors.New("gdb: feature class does not exist")

	// ErrNoIndex is returned when a feature class file carries no
	// spatial index and cannot be scanned.
	ErrNoIndex = errors.New("gdb: feature class has no spatial index")
)

const lockName = ".lock"

// Geodatabase is a directory of feature classes, one FlatGeobuf file per
// class.
type Geodatabase struct {
	Root string
	SRID int // stamped into written feature classes; 0 disables the CRS record
}

// Ensure opens the geodatabase under workspace, creating the container
// when it is missing. The second return reports whether it was created.
func Ensure(workspace, name string) (*Geodatabase, bool, error) {
	root := filepath.Join(workspace, name)

	if info, err := os.Stat(root); err == nil {
		if !info.IsDir() {
			return nil, false, fmt.Errorf("gdb: %s exists and is not a directory", root)
		}
		return &Geodatabase{Root: root, SRID: 4326}, false, nil
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, false, err
	}

	return &Geodatabase{Root: root, SRID: 4326}, true, nil
}

// Path returns the file backing a feature class.
func (g *Geodatabase) Path(name string) string {
	return filepath.Join(g.Root, name+".fgb")
}

// Exists reports whether a feature class is present and non-empty.
func (g *Geodatabase) Exists(name string) bool {
	info, err := os.Stat(g.Path(name))
	return err == nil && info.Size() > 0
}

// lock acquires the schema lock. A second holder gets ErrWorkspaceLocked,
// mirroring the transient lock failure of desktop GIS engines.
func (g *Geodatabase) lock() (func(), error) {
	path := filepath.Join(g.Root, lockName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s held", ErrWorkspaceLocked, path)
		}
		return nil, err
	}
	_ = f.Close()

	return func() { _ = os.Remove(path) }, nil
}
