// Package prefs implements the notification preference store: a durable,
// total mapping from category to setting, persisted as a single record.
package prefs

import (
	"encoding/json"
	"sync"

	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
)

// recordVersion is the layout version written with every record.
const recordVersion = 1

// RecordStore is the durable key/value medium. Writes replace a whole record.
type RecordStore interface {
	ReadRecord(key string) ([]byte, bool, error)
	WriteRecord(key string, data []byte) error
}

// record is the persisted layout of a PreferenceSet.
type record struct {
	Version    int                 `json:"version"`
	Categories model.PreferenceSet `json:"categories"`
}

// Mutator transforms the setting of a single category.
type Mutator func(model.CategorySetting) model.CategorySetting

// Store owns the PreferenceSet. All mutations go through Update or Save and
// are serialized, so concurrent updates of different categories never lose
// each other's change.
type Store struct {
	records RecordStore
	key     string

	mu      sync.Mutex
	current model.PreferenceSet
	// dirty is set while the in-memory set is newer than the persisted one.
	dirty bool

	subsMu sync.Mutex
	subs   map[int]chan model.PreferenceSet
	nextID int
}

// NewStore creates a preference store over records.
func NewStore(records RecordStore) *Store {
	return &Store{
		records: records,
		key:     model.KeyPreferences,
		subs:    make(map[int]chan model.PreferenceSet),
	}
}

// Load returns the current preference set. It never fails: a missing or
// unreadable record yields the defaults, and after a failed save it yields
// the last-known in-memory set.
func (s *Store) Load() model.PreferenceSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked().Clone()
}

func (s *Store) loadLocked() model.PreferenceSet {
	if s.dirty && s.current != nil {
		return s.current
	}

	data, found, err := s.records.ReadRecord(s.key)
	switch {
	case err != nil:
		logging.Warn("preferences unreadable, using last known set", logging.KeyKey, s.key, logging.KeyError, err)
		if s.current == nil {
			s.current = model.DefaultPreferenceSet()
		}
		return s.current
	case !found:
		s.current = model.DefaultPreferenceSet()
		return s.current
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		logging.Warn("preferences record corrupt, using defaults", logging.KeyKey, s.key, logging.KeyError, err)
		s.current = model.DefaultPreferenceSet()
		return s.current
	}

	s.current = rec.Categories.Normalize()
	return s.current
}

// Save atomically replaces the whole persisted set. On a PersistError the set
// is still adopted in memory and the write is retried with the next mutation.
func (s *Store) Save(set model.PreferenceSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(set.Normalize())
}

func (s *Store) saveLocked(set model.PreferenceSet) error {
	changed := s.current == nil || !s.current.Equal(set)
	s.current = set

	err := s.persistLocked(set)
	if err != nil {
		s.dirty = true
		logging.Warn("preferences kept in memory", logging.KeyKey, s.key, logging.KeyError, err)
	} else {
		s.dirty = false
	}

	if changed {
		s.publish(set.Clone())
	}
	return err
}

func (s *Store) persistLocked(set model.PreferenceSet) error {
	data, err := json.Marshal(record{Version: recordVersion, Categories: set})
	if err != nil {
		return errors.NewPersistError(s.key, err)
	}
	if err := s.records.WriteRecord(s.key, data); err != nil {
		return errors.NewPersistError(s.key, err)
	}
	return nil
}

// Update applies mutate to category c only and writes back the full set.
// The returned set is the new in-memory set even when err is a PersistError.
func (s *Store) Update(c model.Category, mutate Mutator) (model.PreferenceSet, error) {
	if !c.IsValid() {
		return nil, errors.NewUserErrorWithField("category", string(c), "unknown notification category", errors.Suggestions[errors.ErrUnknownCategory])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.loadLocked()
	setting := mutate(base.Get(c))
	if !setting.Frequency.IsValid() {
		return base.Clone(), errors.NewUserErrorWithField("frequency", string(setting.Frequency), "unknown frequency", errors.Suggestions[errors.ErrUnknownFrequency])
	}

	next := base.With(c, setting)
	err := s.saveLocked(next)

	logging.DebugLog("preference updated",
		logging.KeyCategory, c,
		"enabled", setting.Enabled,
		logging.KeyFrequency, setting.Frequency,
		"persisted", err == nil)

	return next.Clone(), err
}

// Dirty reports whether the in-memory set has not been persisted yet.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Subscribe returns a channel that receives the new set after every change,
// and a cancel func that closes it. A slow subscriber misses intermediate
// sets but always receives the latest one.
func (s *Store) Subscribe() (<-chan model.PreferenceSet, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan model.PreferenceSet, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) publish(set model.PreferenceSet) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- set:
			continue
		default:
		}
		// Replace the stale pending value.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- set:
		default:
		}
	}
}

// Convenience mutators.

// SetEnabled returns a Mutator that sets Enabled.
func SetEnabled(enabled bool) Mutator {
	return func(s model.CategorySetting) model.CategorySetting {
		s.Enabled = enabled
		return s
	}
}

// SetFrequency returns a Mutator that sets Frequency.
func SetFrequency(f model.Frequency) Mutator {
	return func(s model.CategorySetting) model.CategorySetting {
		s.Frequency = f
		return s
	}
}
