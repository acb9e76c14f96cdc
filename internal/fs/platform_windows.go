//go:build windows

package fs

import (
	"os"
	"syscall"
)

const (
	fileAttributeHidden       = 0x02
	fileAttributeSystem       = 0x04
	fileAttributeReparsePoint = 0x0400
)

// IsHidden checks the hidden attribute, falling back to the dotfile rule when
// attributes are unavailable.
func IsHidden(fullPath, name string) bool {
	attrs, err := fileAttributes(fullPath, name)
	if err != nil {
		return len(name) > 0 && name[0] == '.'
	}
	return attrs&fileAttributeHidden != 0
}

// ShouldHideFromListing hides protected system junctions even when hidden
// files are shown.
func ShouldHideFromListing(fullPath, name string) bool {
	if fullPath == "" && name == "" {
		return false
	}
	attrs, err := fileAttributes(fullPath, name)
	if err != nil {
		return false
	}
	const protected = fileAttributeSystem | fileAttributeReparsePoint
	return attrs&protected == protected
}

func fileAttributes(fullPath, name string) (uint32, error) {
	candidates := []string{fullPath}
	if name != "" && name != fullPath {
		candidates = append(candidates, name)
	}

	lastErr := error(os.ErrInvalid)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		ptr, err := syscall.UTF16PtrFromString(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		attrs, err := syscall.GetFileAttributes(ptr)
		if err == nil {
			return attrs, nil
		}
		lastErr = err
		if !os.IsNotExist(err) {
			break
		}
	}
	return 0, lastErr
}
