// Package cache keeps challenge images on disk so re-rendering a challenge does not refetch them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/atsume-cli/atsume/log"
)

// TTL bounds how long an image stays valid.
const TTL = 24 * time.Hour

// Dir is a flat directory of cached blobs.
type Dir struct {
	path string
}

// New returns a cache rooted at path. The directory must exist.
func New(path string) *Dir {
	return &Dir{path: path}
}

// GenerateKey generates a deterministic SHA-256 hash of an identifier for use as a file name.
func GenerateKey(id string) string {
	hash := sha256.Sum256([]byte(id))
	return hex.EncodeToString(hash[:])
}

// Path returns where the blob for id is stored.
func (d *Dir) Path(id string) string {
	return filepath.Join(d.path, GenerateKey(id))
}

// Read returns the cached blob for id if it exists and has not exceeded its TTL.
func (d *Dir) Read(id string) ([]byte, bool) {
	path := d.Path(id)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return nil, false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, false
	}

	return data, true
}

// Write persists a blob using a temporary file and a rename so readers never see a partial file.
func (d *Dir) Write(id string, data []byte) error {
	path := d.Path(id)
	tmpPath := path + ".tmp"

	if err := filesystem.API().WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage prunes expired entries in the background.
func (d *Dir) CollectGarbage() {
	go func() {
		_ = filesystem.API().Walk(d.path, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if time.Since(info.ModTime()) > TTL {
				if err := filesystem.API().Remove(path); err != nil {
					log.Warnf("remove expired cache entry %s: %s", path, err)
				}
			}
			return nil
		})
	}()
}
