// Package install tracks where the bot is installed and what it was granted.
package install

import (
	"sync"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/logging"
)

// Registry is the in-memory map of active installations, keyed by location
// key. Installs and uninstalls are rare and idempotent, so last-writer-wins
// map semantics are sufficient. Insertion order is preserved so "pick first"
// fallbacks are deterministic.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]domain.Installation
	order   []string
	log     *logging.Logger
}

// NewRegistry creates an empty installation registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		entries: make(map[string]domain.Installation),
		log:     log.Sub("install"),
	}
}

// RecordInstallation stores an installation for the given location,
// unconditionally overwriting any existing entry. Installing over an
// existing key is a permission update, not an error.
func (r *Registry) RecordInstallation(loc domain.InstallationLocation, rec domain.InstallationRecord) {
	key := loc.Key()

	r.mu.Lock()
	if _, exists := r.entries[key]; !exists {
		r.order = append(r.order, key)
	}
	r.entries[key] = domain.Installation{
		Location: loc,
		Scope:    loc.Scope(),
		Record:   rec,
	}
	r.mu.Unlock()

	r.log.Info().
		Str("location", key).
		Uint32("messagePermissions", rec.GrantedAutonomousPermissions.Message).
		Msg("installation recorded")
}

// RecordUninstallation removes the installation at the given location.
// Removing an absent key is a silent no-op.
func (r *Registry) RecordUninstallation(loc domain.InstallationLocation) {
	key := loc.Key()

	r.mu.Lock()
	if _, exists := r.entries[key]; exists {
		delete(r.entries, key)
		for i, k := range r.order {
			if k == key {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		r.mu.Unlock()
		r.log.Info().Str("location", key).Msg("installation removed")
		return
	}
	r.mu.Unlock()
}

// Get returns the installation at a location key.
func (r *Registry) Get(key string) (domain.Installation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.entries[key]
	return inst, ok
}

// GetByChat derives the governing location for a chat and looks it up.
func (r *Registry) GetByChat(chat domain.Chat) (domain.Installation, bool) {
	return r.Get(chat.Location().Key())
}

// Installations returns a snapshot of all installations in insertion order.
func (r *Registry) Installations() []domain.Installation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Installation, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}

// Count returns the number of active installations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
