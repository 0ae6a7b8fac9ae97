// pkg/link/link.go
package link

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Linker makes destination paths point at installed package payloads
type Linker interface {
	// ReplaceLink makes destination a link to target, whatever occupies destination now
	ReplaceLink(target, destination string) error

	// RemoveLink clears destination. A real directory there is deleted.
	RemoveLink(destination string) error

	// RemoveDanglingLink removes destination only if it is a link
	RemoveDanglingLink(destination string) error

	// Resolves reports whether destination is a link pointing at target
	Resolves(destination, target string) (bool, error)
}

// Manager is the Linker for the host platform: junctions on Windows,
// symbolic links elsewhere
type Manager struct {
	logger *log.Logger
}

// New creates a link manager
func New(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{logger: logger}
}

// Kind names the link flavour created on this platform
func Kind() string {
	return linkKind
}

// ReplaceLink implements Linker
func (m *Manager) ReplaceLink(target, destination string) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving link target %s: %w", target, err)
	}
	absDest, err := filepath.Abs(destination)
	if err != nil {
		return fmt.Errorf("resolving link destination %s: %w", destination, err)
	}

	info, err := os.Stat(absTarget)
	if err != nil {
		return fmt.Errorf("linking %s to %s: target: %w", absTarget, absDest, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("linking %s to %s: target is not a directory", absTarget, absDest)
	}

	if err := m.clear(absDest, true); err != nil {
		return fmt.Errorf("clearing link destination %s: %w", absDest, err)
	}

	if err := os.MkdirAll(filepath.Dir(absDest), 0755); err != nil {
		return fmt.Errorf("creating link parent for %s: %w", absDest, err)
	}

	if err := createLink(absTarget, absDest); err != nil {
		return fmt.Errorf("creating %s from %s to %s: %w", linkKind, absTarget, absDest, err)
	}

	m.logger.Debug("link created", "kind", linkKind, "target", absTarget, "destination", absDest)
	return nil
}

// RemoveLink implements Linker
func (m *Manager) RemoveLink(destination string) error {
	absDest, err := filepath.Abs(destination)
	if err != nil {
		return fmt.Errorf("resolving link destination %s: %w", destination, err)
	}
	if err := m.clear(absDest, true); err != nil {
		return fmt.Errorf("removing %s: %w", absDest, err)
	}
	return nil
}

// RemoveDanglingLink implements Linker
func (m *Manager) RemoveDanglingLink(destination string) error {
	absDest, err := filepath.Abs(destination)
	if err != nil {
		return fmt.Errorf("resolving link destination %s: %w", destination, err)
	}
	if err := m.clear(absDest, false); err != nil {
		return fmt.Errorf("removing link %s: %w", absDest, err)
	}
	return nil
}

// Resolves implements Linker
func (m *Manager) Resolves(destination, target string) (bool, error) {
	absDest, err := filepath.Abs(destination)
	if err != nil {
		return false, err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, err
	}

	fi, err := os.Lstat(absDest)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !isLink(absDest, fi) {
		return false, nil
	}

	dest, err := os.Readlink(absDest)
	if err != nil {
		return false, fmt.Errorf("reading link %s: %w", absDest, err)
	}
	dest = trimDevicePrefix(dest)
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(absDest), dest)
	}

	if !samePath(dest, absTarget) {
		return false, nil
	}

	// A link into a deleted payload does not count.
	if _, err := os.Stat(absDest); err != nil {
		return false, nil
	}
	return true, nil
}

// clear empties destination. Only links are removed unless destructive is
// set, in which case real directories and files go too.
func (m *Manager) clear(destination string, destructive bool) error {
	fi, err := os.Lstat(destination)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case isLink(destination, fi):
		m.logger.Debug("removing link", "path", destination)
		return os.Remove(destination)
	case !destructive:
		m.logger.Debug("leaving real data in place", "path", destination)
		return nil
	case fi.IsDir():
		m.logger.Warn("purging real directory at link destination", "path", destination)
		return os.RemoveAll(destination)
	default:
		m.logger.Debug("removing file", "path", destination)
		return os.Remove(destination)
	}
}
