// Package session keeps track of authenticated browser sessions.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
)

// Record is the server side state of an authenticated session.
type Record struct {
	SessionID     string
	UserID        uint
	Username      string
	IsAdmin       bool
	Authenticated bool
	LastSeen      time.Time
}

// Directory maps opaque session ids to session records.
// Entries idle for longer than the timeout are treated as absent and removed by Sweep.
type Directory struct {
	mu          sync.RWMutex
	records     map[string]*Record
	idleTimeout time.Duration
	clock       clockwork.Clock
}

// NewDirectory creates an empty directory. A nil clock uses the real clock.
func NewDirectory(idleTimeout time.Duration, clock clockwork.Clock) *Directory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Directory{
		records:     make(map[string]*Record),
		idleTimeout: idleTimeout,
		clock:       clock,
	}
}

// Login stores an authenticated record under id, replacing any previous one.
func (d *Directory) Login(id string, rec Record) {
	rec.SessionID = id
	rec.Authenticated = true
	rec.LastSeen = d.clock.Now()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[id] = &rec
}

// Lookup returns a copy of the record for id and refreshes its last seen time.
// Unknown and stale ids report false.
func (d *Directory) Lookup(id string) (Record, bool) {
	if id == "" {
		return Record{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.records[id]
	if !ok || !rec.Authenticated {
		return Record{}, false
	}
	now := d.clock.Now()
	if d.stale(rec, now) {
		return Record{}, false
	}
	rec.LastSeen = now
	return *rec, true
}

// Logout removes id. Removing an unknown id is a no-op.
func (d *Directory) Logout(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.records, id)
}

// LogoutUser removes every session of a user and returns how many were removed.
func (d *Directory) LogoutUser(userID uint) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for id, rec := range d.records {
		if rec.UserID == userID {
			delete(d.records, id)
			removed++
		}
	}
	return removed
}

// Sweep removes every stale record and returns how many were removed.
func (d *Directory) Sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	removed := 0
	for id, rec := range d.records {
		if d.stale(rec, now) {
			delete(d.records, id)
			removed++
		}
	}
	return removed
}

// SweepJob runs Sweep as a scheduled job.
func (d *Directory) SweepJob(_ context.Context) error {
	if removed := d.Sweep(); removed > 0 {
		log.Info("Removed idle sessions", "count", removed, "remaining", d.Len())
	}
	return nil
}

func (d *Directory) stale(rec *Record, now time.Time) bool {
	return now.Sub(rec.LastSeen) > d.idleTimeout
}

// Len returns the number of stored records, stale ones included.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// Snapshot returns copies of all records without refreshing them.
func (d *Directory) Snapshot() []Record {
	d.mu.RLock()
	defer d.mu.RUnlock()

	records := make([]Record, 0, len(d.records))
	for _, rec := range d.records {
		records = append(records, *rec)
	}
	return records
}

// IdleTimeout returns the configured idle timeout.
func (d *Directory) IdleTimeout() time.Duration {
	return d.idleTimeout
}
