package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/pkg/logger"
)

// ─── Manager ──────────────────────────────────────────────────────────────────

// Manager holds the configured disks and names the default one.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultDisk string
}

// NewManager returns an empty manager whose default disk is defaultDisk.
func NewManager(defaultDisk string) *Manager {
	return &Manager{disks: map[string]Disk{}, defaultDisk: defaultDisk}
}

// FromConfig boots the local disk, plus the s3 disk when S3_BUCKET is set.
// An s3 disk that fails to build is logged and skipped unless it is the
// configured default.
func FromConfig(ctx context.Context) (*Manager, error) {
	m := NewManager(config.StorageDefault())

	local, err := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	if err != nil {
		return nil, err
	}
	m.Register("local", local)

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("s3 disk disabled", "error", err)
		} else {
			m.Register("s3", d)
		}
	}

	if _, err := m.Disk(m.defaultDisk); err != nil {
		return nil, fmt.Errorf("storage: default disk: %w", err)
	}
	logger.Info("storage ready", "default", m.defaultDisk, "disks", m.Names())
	return m, nil
}

// Register adds or replaces a disk.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}

// Disk returns the named disk.
func (m *Manager) Disk(name string) (Disk, error) {
	m.mu.RLock()
	d, ok := m.disks[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDisk, name)
	}
	return d, nil
}

// Default returns the default disk. FromConfig guarantees it exists; a
// manager built by hand must register it before use.
func (m *Manager) Default() Disk {
	d, err := m.Disk(m.defaultDisk)
	if err != nil {
		panic(err)
	}
	return d
}

// Local returns the local disk when one is registered.
func (m *Manager) Local() (*LocalDisk, bool) {
	d, err := m.Disk("local")
	if err != nil {
		return nil, false
	}
	l, ok := d.(*LocalDisk)
	return l, ok
}

// Names lists the registered disks.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.disks))
	for n := range m.disks {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
