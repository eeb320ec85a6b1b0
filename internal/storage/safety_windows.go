//go:build windows

package storage

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"unsafe"
)

var (
	kernel32            = syscall.NewLazyDLL("kernel32.dll")
	getDiskFreeSpaceExW = kernel32.NewProc("GetDiskFreeSpaceExW")
)

// errDiskFull is ERROR_DISK_FULL.
const errDiskFull = syscall.Errno(112)

// GetDiskSpace returns disk space information for the volume holding path.
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	for {
		if _, err := os.Stat(path); err == nil {
			break
		}
		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}

	pathPtr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("convert path %s: %w", path, err)
	}

	var available, total, totalFree uint64
	ret, _, callErr := getDiskFreeSpaceExW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(unsafe.Pointer(&available)),
		uintptr(unsafe.Pointer(&total)),
		uintptr(unsafe.Pointer(&totalFree)),
	)
	if ret == 0 {
		return nil, fmt.Errorf("GetDiskFreeSpaceExW %s: %w", path, callErr)
	}

	return &DiskSpaceInfo{Path: path, TotalBytes: total, FreeBytes: available}, nil
}

func isDiskFullError(err error) bool {
	return stderrors.Is(err, errDiskFull) || stderrors.Is(err, syscall.ENOSPC)
}
