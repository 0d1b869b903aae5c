//go:build !windows

package store

import "os"

// fsyncDir requests a durability flush of a directory's own metadata
// (e.g. the new directory entry from an atomic rename). Unix platforms
// support fsync on a directory file descriptor directly.
func fsyncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
