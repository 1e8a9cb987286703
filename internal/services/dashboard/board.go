package dashboard

import (
	"slices"
	"sort"
	"sync"
)

// Listener observes applied stat updates.
type Listener func(key string, value Value)

type statRef struct {
	role int
	stat int
}

// Board holds the role table and the currently displayed values.
// It is safe for concurrent use. Listeners and bindings run synchronously in
// the updating goroutine after the board lock is released.
type Board struct {
	mu        sync.RWMutex
	config    Config
	index     map[string]statRef
	listeners []Listener
	bindings  map[string][]func(Value)
}

// NewBoard validates cfg and returns a board holding a copy of it.
func NewBoard(cfg Config) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	index := make(map[string]statRef)
	for i, role := range cfg.Roles {
		for j, stat := range role.Stats {
			index[stat.Key] = statRef{role: i, stat: j}
		}
	}
	return &Board{
		config:   cfg,
		index:    index,
		bindings: make(map[string][]func(Value)),
	}, nil
}

// UpdateStat replaces the value behind key. Unknown keys are ignored and
// report false.
func (b *Board) UpdateStat(key string, value Value) bool {
	b.mu.Lock()
	ref, ok := b.index[key]
	if !ok {
		b.mu.Unlock()
		return false
	}
	b.config.Roles[ref.role].Stats[ref.stat].Value = value
	listeners := slices.Clone(b.listeners)
	bound := slices.Clone(b.bindings[key])
	b.mu.Unlock()

	for _, fn := range bound {
		fn(value)
	}
	for _, fn := range listeners {
		fn(key, value)
	}
	return true
}

// UpdateStats applies UpdateStat for every entry and returns how many keys
// were known. Entries are applied one at a time in key order.
func (b *Board) UpdateStats(updates map[string]Value) int {
	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	applied := 0
	for _, key := range keys {
		if b.UpdateStat(key, updates[key]) {
			applied++
		}
	}
	return applied
}

// RoleConfig returns a copy of the configuration for role id.
func (b *Board) RoleConfig(id string) (RoleConfig, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, role := range b.config.Roles {
		if role.ID == id {
			return role.RoleConfig.clone(), true
		}
	}
	return RoleConfig{}, false
}

// RoleIDs returns every role identifier in display order.
func (b *Board) RoleIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, len(b.config.Roles))
	for i, role := range b.config.Roles {
		ids[i] = role.ID
	}
	return ids
}

// Snapshot returns a copy of the role table with current values.
func (b *Board) Snapshot() Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.Clone()
}

// Values returns the current value of every stat.
func (b *Board) Values() map[string]Value {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.Values()
}

// Value returns the current value for key.
func (b *Board) Value(key string) (Value, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ref, ok := b.index[key]
	if !ok {
		return Value{}, false
	}
	return b.config.Roles[ref.role].Stats[ref.stat].Value, true
}

// Bind registers fn to run whenever key changes. Binding an unknown key
// registers nothing and reports false.
func (b *Board) Bind(key string, fn func(Value)) bool {
	if fn == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.index[key]; !ok {
		return false
	}
	b.bindings[key] = append(b.bindings[key], fn)
	return true
}

// OnUpdate registers fn to run after every applied update.
func (b *Board) OnUpdate(fn Listener) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}
