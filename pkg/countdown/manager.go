package countdown

import (
	"sort"
	"sync"
	"time"
)

// Manager runs a set of countdowns keyed by name.
type Manager struct {
	mu   sync.RWMutex
	opts Options

	// Registered countdowns by name
	countdowns map[string]Countdown

	// Callback when a countdown completes
	onCompleted func(name string, s Snapshot)
}

// completer is implemented by Engine and, through embedding, NumberCountdown.
type completer interface {
	setOnCompleted(fn func(Snapshot))
}

// NewManager creates a manager. opts is the template for every countdown it
// creates; Name is overwritten per countdown.
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:       opts,
		countdowns: make(map[string]Countdown),
	}
}

// Options returns the template options for countdowns created by m.
func (m *Manager) Options() Options {
	return m.opts
}

// OptionsFor returns the template options with Name set.
func (m *Manager) OptionsFor(name string) Options {
	opts := m.opts
	opts.Name = name
	return opts
}

// Add creates and starts a date countdown named name, replacing and
// stopping any countdown already registered under that name.
func (m *Manager) Add(name string, target time.Time, interval time.Duration, mode Mode) (*Engine, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	e := NewEngine(m.OptionsFor(name))
	if err := m.Put(name, e); err != nil {
		return nil, err
	}
	e.Start(target, interval, mode)
	return e, nil
}

// AddNumber creates and starts a countdown of d named name, replacing and
// stopping any countdown already registered under that name. An invalid d
// is registered but stays Idle.
func (m *Manager) AddNumber(name string, d time.Duration) (*NumberCountdown, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	nc := NewNumberCountdown(d, m.OptionsFor(name))
	if err := m.Put(name, nc); err != nil {
		return nil, err
	}
	nc.Start()
	return nc, nil
}

// Put registers an already built countdown under name without starting it.
// A previous countdown with the same name is stopped; its completion is not
// reported. A countdown holds one name at a time: putting it under a second
// name returns ErrRegistered.
func (m *Manager) Put(name string, cd Countdown) error {
	if name == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	for other, c := range m.countdowns {
		if c == cd && other != name {
			m.mu.Unlock()
			return ErrRegistered
		}
	}
	if c, ok := cd.(completer); ok {
		c.setOnCompleted(func(s Snapshot) {
			m.completed(name, cd, s)
		})
	}
	existing := m.countdowns[name]
	m.countdowns[name] = cd
	m.mu.Unlock()

	if existing != nil && existing != cd {
		existing.Stop()
	}
	return nil
}

// Get returns the countdown registered under name.
func (m *Manager) Get(name string) (Countdown, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cd, ok := m.countdowns[name]
	return cd, ok
}

// Remove stops and unregisters the countdown named name.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	cd, ok := m.countdowns[name]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.countdowns, name)
	m.mu.Unlock()

	cd.Stop()
	return nil
}

// Restart restarts the number countdown named name.
func (m *Manager) Restart(name string) error {
	cd, ok := m.Get(name)
	if !ok {
		return ErrNotFound
	}
	nc, ok := cd.(*NumberCountdown)
	if !ok || !nc.Restartable() {
		return ErrNotRestartable
	}
	nc.Restart()
	return nil
}

// Names returns the registered names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.countdowns))
	for name := range m.countdowns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered countdowns.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.countdowns)
}

// Snapshots returns a snapshot of every countdown, sorted by name.
func (m *Manager) Snapshots() []Snapshot {
	names := m.Names()
	result := make([]Snapshot, 0, len(names))
	for _, name := range names {
		if cd, ok := m.Get(name); ok {
			result = append(result, cd.Snapshot())
		}
	}
	return result
}

// StopAll stops every countdown. They stay registered.
func (m *Manager) StopAll() {
	m.mu.RLock()
	all := make([]Countdown, 0, len(m.countdowns))
	for _, cd := range m.countdowns {
		all = append(all, cd)
	}
	m.mu.RUnlock()

	for _, cd := range all {
		cd.Stop()
	}
}

// OnCompleted sets the callback for countdown completion, whether natural,
// by Stop, or immediate because of an invalid target.
func (m *Manager) OnCompleted(fn func(name string, s Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCompleted = fn
}

func (m *Manager) completed(name string, cd Countdown, s Snapshot) {
	m.mu.RLock()
	current := m.countdowns[name]
	callback := m.onCompleted
	m.mu.RUnlock()

	// Replaced or removed countdowns are not reported.
	if current != cd {
		return
	}
	if callback != nil {
		callback(name, s)
	}
}
