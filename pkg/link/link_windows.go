//go:build windows

// pkg/link/link_windows.go
package link

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Microsoft/go-winio"
	"golang.org/x/sys/windows"
)

const linkKind = "junction"

// FSCTL_SET_REPARSE_POINT
const fsctlSetReparsePoint = 0x000900A4

// createLink creates a directory junction. Junctions need no privilege,
// unlike directory symlinks.
func createLink(target, destination string) error {
	if err := os.Mkdir(destination, 0755); err != nil {
		return err
	}

	p, err := windows.UTF16PtrFromString(destination)
	if err != nil {
		os.Remove(destination)
		return err
	}

	h, err := windows.CreateFile(p,
		windows.GENERIC_WRITE,
		0,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_OPEN_REPARSE_POINT|windows.FILE_FLAG_BACKUP_SEMANTICS,
		0)
	if err != nil {
		os.Remove(destination)
		return fmt.Errorf("opening junction directory: %w", err)
	}

	data := winio.EncodeReparsePoint(&winio.ReparsePoint{
		Target:       target,
		IsMountPoint: true,
	})

	var returned uint32
	err = windows.DeviceIoControl(h, fsctlSetReparsePoint, &data[0], uint32(len(data)), nil, 0, &returned, nil)
	windows.CloseHandle(h)
	if err != nil {
		os.Remove(destination)
		return fmt.Errorf("setting reparse point: %w", err)
	}
	return nil
}

// isLink accepts both encodings of a junction: ModeSymlink before Go 1.23,
// ModeIrregular after. Other irregular entries such as dedup or cloud
// placeholders only count when their reparse tag says junction or symlink.
func isLink(path string, fi os.FileInfo) bool {
	mode := fi.Mode()
	if mode&os.ModeSymlink != 0 {
		return true
	}
	if mode&os.ModeIrregular == 0 {
		return false
	}
	tag, err := reparseTag(path)
	if err != nil {
		return false
	}
	return isLinkTag(tag)
}

func isLinkTag(tag uint32) bool {
	return tag == windows.IO_REPARSE_TAG_MOUNT_POINT || tag == windows.IO_REPARSE_TAG_SYMLINK
}

// reparseTag reads the reparse tag FindFirstFile reports in Reserved0.
func reparseTag(path string) (uint32, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	var data windows.Win32finddata
	h, err := windows.FindFirstFile(p, &data)
	if err != nil {
		return 0, err
	}
	windows.FindClose(h)
	if data.FileAttributes&windows.FILE_ATTRIBUTE_REPARSE_POINT == 0 {
		return 0, nil
	}
	return data.Reserved0, nil
}

func trimDevicePrefix(path string) string {
	for _, prefix := range []string{`\\?\`, `\??\`} {
		if strings.HasPrefix(path, prefix) {
			return path[len(prefix):]
		}
	}
	return path
}

func samePath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}
