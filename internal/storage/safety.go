package storage

import (
	"fmt"

	"github.com/manav03panchal/glowtrack/internal/errors"
)

// DiskSpaceInfo contains information about available disk space.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
}

// FreePercent returns the percentage of free space.
func (d *DiskSpaceInfo) FreePercent() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.FreeBytes) / float64(d.TotalBytes) * 100
}

// CheckDiskSpace returns a disk-full SystemError when fewer than min bytes are
// free at path. If free space cannot be determined the write is allowed.
func CheckDiskSpace(path string, min uint64) error {
	info, err := GetDiskSpace(path)
	if err != nil {
		return nil
	}

	if info.FreeBytes < min {
		return errors.NewSystemError(
			fmt.Sprintf("insufficient disk space: %d MB free, need at least %d MB",
				info.FreeBytes/(1024*1024), min/(1024*1024)),
			errors.ErrDiskFull,
		)
	}
	return nil
}
