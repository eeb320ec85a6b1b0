//go:build !windows

package storage

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// GetDiskSpace returns disk space information for the volume holding path.
// A path that does not exist yet is resolved to its nearest existing parent.
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	path = existingAncestor(path)

	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", path, err)
	}

	return &DiskSpaceInfo{
		Path:       path,
		TotalBytes: stat.Blocks * uint64(stat.Bsize),
		FreeBytes:  stat.Bavail * uint64(stat.Bsize),
	}, nil
}

func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

func isDiskFullError(err error) bool {
	return stderrors.Is(err, syscall.ENOSPC)
}
