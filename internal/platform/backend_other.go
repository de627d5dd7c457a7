//go:build !linux && !windows

package platform

import (
	"fmt"
	"runtime"
)

// OpenNative is unavailable on this OS; use `backend: memory` instead.
func OpenNative(display string) (Native, error) {
	return nil, fmt.Errorf("no native window backend for %s", runtime.GOOS)
}
