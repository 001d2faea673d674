package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/cwbudde/airbloom/plugin/params"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned for names that are neither factory nor user presets.
	ErrNotFound = errors.New("preset: not found")
	// ErrReadOnly is returned when saving over or deleting a factory preset.
	ErrReadOnly = errors.New("preset: factory presets are read-only")
	// ErrInvalidName is returned for empty or whitespace-only names.
	ErrInvalidName = errors.New("preset: invalid name")
	// ErrUnsupportedVersion is returned when importing a newer export format.
	ErrUnsupportedVersion = errors.New("preset: unsupported export version")
)

const exportVersion = 1

// Preset is a named parameter set.
type Preset struct {
	Name    string          `json:"name"`
	Params  params.Snapshot `json:"params"`
	Factory bool            `json:"-"`
}

// Factory returns the built-in presets in menu order.
func Factory() []Preset {
	return []Preset{
		{Name: "Flat", Factory: true, Params: params.Snapshot{}},
		{Name: "Subtle", Factory: true, Params: params.Snapshot{Bloom: 0.25, ReverbWet: 0.15}},
		{Name: "Extreme", Factory: true, Params: params.Snapshot{Bloom: 1, ReverbWet: 0.6, Oversample: 2}},
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for preset operations.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager applies and stores presets for one parameter store. It is safe
// for concurrent use but must not be called from the audio thread.
type Manager struct {
	mu      sync.RWMutex
	store   *params.Store
	factory []Preset
	user    map[string]params.Snapshot
	log     logrus.FieldLogger
}

// NewManager returns a manager bound to store with the factory presets.
func NewManager(store *params.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		factory: Factory(),
		user:    make(map[string]params.Snapshot),
		log:     logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Names lists factory presets in menu order followed by user presets
// sorted by name.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.factory)+len(m.user))
	for _, p := range m.factory {
		names = append(names, p.Name)
	}

	user := make([]string, 0, len(m.user))
	for name := range m.user {
		user = append(user, name)
	}
	sort.Strings(user)

	return append(names, user...)
}

// Get returns the preset called name.
func (m *Manager) Get(name string) (Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lookup(name)
}

func (m *Manager) lookup(name string) (Preset, error) {
	for _, p := range m.factory {
		if p.Name == name {
			return p, nil
		}
	}

	if snap, ok := m.user[name]; ok {
		return Preset{Name: name, Params: snap}, nil
	}

	return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Apply writes the preset's parameters to the store. The bypass state is
// host-owned and kept as is.
func (m *Manager) Apply(name string) error {
	p, err := m.Get(name)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"function": "Manager.Apply",
			"preset":   name,
		}).Warn("Preset not found")

		return err
	}

	snap := p.Params
	snap.Bypass = m.store.Load().Bypass
	m.store.Store(snap)

	m.log.WithFields(logrus.Fields{
		"function": "Manager.Apply",
		"preset":   name,
		"factory":  p.Factory,
	}).Info("Preset applied")

	return nil
}

// SaveAs stores the current parameters as a user preset, replacing any
// user preset with the same name.
func (m *Manager) SaveAs(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isFactory(name) {
		return fmt.Errorf("%w: %q", ErrReadOnly, name)
	}

	snap := m.store.Load()
	snap.Bypass = false
	m.user[name] = snap

	m.log.WithFields(logrus.Fields{
		"function": "Manager.SaveAs",
		"preset":   name,
	}).Info("User preset saved")

	return nil
}

// Delete removes a user preset.
func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isFactory(name) {
		return fmt.Errorf("%w: %q", ErrReadOnly, name)
	}

	if _, ok := m.user[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	delete(m.user, name)

	m.log.WithFields(logrus.Fields{
		"function": "Manager.Delete",
		"preset":   name,
	}).Info("User preset deleted")

	return nil
}

func (m *Manager) isFactory(name string) bool {
	return slices.ContainsFunc(m.factory, func(p Preset) bool { return p.Name == name })
}

// Dump formats the current parameters one per line.
func (m *Manager) Dump() string {
	snap := m.store.Load()

	var b strings.Builder
	for _, d := range params.Descriptors() {
		v, _ := snap.Value(d.ID)

		switch d.Kind {
		case params.KindBool:
			fmt.Fprintf(&b, "%s: %t\n", d.ID, v != 0)
		case params.KindChoice:
			fmt.Fprintf(&b, "%s: %s\n", d.ID, d.Choices[int(v)])
		default:
			fmt.Fprintf(&b, "%s: %.3f%s\n", d.ID, v, unitSuffix(d.Unit))
		}
	}

	return b.String()
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}

	return " " + unit
}

type exportFile struct {
	Version int      `json:"version"`
	Presets []Preset `json:"presets"`
}

// Export encodes every user preset as JSON, sorted by name.
func (m *Manager) Export() ([]byte, error) {
	m.mu.RLock()
	presets := make([]Preset, 0, len(m.user))
	for name, snap := range m.user {
		presets = append(presets, Preset{Name: name, Params: snap})
	}
	m.mu.RUnlock()

	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })

	data, err := json.Marshal(exportFile{Version: exportVersion, Presets: presets})
	if err != nil {
		return nil, fmt.Errorf("preset: export: %w", err)
	}

	return data, nil
}

// Import adds the user presets in data, replacing same-named ones, and
// returns how many were added. Entries named like factory presets or with
// empty names are skipped.
func (m *Manager) Import(data []byte) (int, error) {
	var file exportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("preset: import: %w", err)
	}

	if file.Version > exportVersion {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for _, p := range file.Presets {
		name := strings.TrimSpace(p.Name)
		if name == "" || m.isFactory(name) {
			m.log.WithFields(logrus.Fields{
				"function": "Manager.Import",
				"preset":   p.Name,
			}).Warn("Skipping preset with reserved or empty name")

			continue
		}

		snap := p.Params.Sanitize()
		snap.Bypass = false
		m.user[name] = snap
		added++
	}

	m.log.WithFields(logrus.Fields{
		"function": "Manager.Import",
		"count":    added,
	}).Info("User presets imported")

	return added, nil
}
