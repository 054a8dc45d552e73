// Package playlist owns the two ordered station collections the
// listener curates: the active list shown in the player and the
// excluded list of hidden stations. Every mutation is persisted
// immediately so the arrangement survives restarts.
package playlist

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/qwer999/radio/internal/station"
	"github.com/qwer999/radio/internal/storage"
)

const (
	keyActive   = "activeStations"
	keyExcluded = "excludedStations"
)

// List names one of the two collections.
type List string

const (
	ListActive   List = "active"
	ListExcluded List = "excluded"
)

// SelectionGuard is notified before a station leaves the active list,
// while the store's view of the remaining active stations is already
// final. The playback session uses this to move its selection off a
// station that is about to disappear.
type SelectionGuard interface {
	WillExclude(stationID string, remaining []station.Station)
}

// Store holds the active and excluded station lists. The two lists are
// disjoint and each is persisted under its own key as a full ordered
// snapshot on every mutation.
type Store struct {
	mu       sync.RWMutex
	store    storage.Store
	guard    SelectionGuard
	active   []station.Station
	excluded []station.Station
}

// NewStore loads both lists from storage. A missing or unreadable
// active list falls back to the built-in defaults; a missing or
// unreadable excluded list falls back to empty.
func NewStore(st storage.Store) *Store {
	s := &Store{store: st}

	var active []station.Station
	if ok, err := st.Get(keyActive, &active); err != nil || !ok || len(active) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load active stations, using defaults")
		}
		active = station.Defaults()
	}

	var excluded []station.Station
	if ok, err := st.Get(keyExcluded, &excluded); err != nil || !ok {
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load excluded stations, starting empty")
		}
		excluded = nil
	}

	s.active = active
	s.excluded = excluded
	return s
}

// SetSelectionGuard registers the guard consulted on exclusions. Pass
// nil to remove it.
func (s *Store) SetSelectionGuard(g SelectionGuard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guard = g
}

// Active returns a copy of the active list in order.
func (s *Store) Active() []station.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.active)
}

// Excluded returns a copy of the excluded list in order.
func (s *Store) Excluded() []station.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.excluded)
}

// ApplyPrograms copies current-program annotations from enriched onto
// the matching active stations by ID. Annotations are in-memory only;
// they are stripped again before any list is persisted.
func (s *Store) ApplyPrograms(enriched []station.Station) {
	byID := make(map[string]*station.CurrentProgram, len(enriched))
	for _, st := range enriched {
		byID[st.ID] = st.CurrentProgram
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.active {
		if cp, ok := byID[s.active[i].ID]; ok {
			s.active[i].CurrentProgram = cp
		}
	}
}

// ReorderWithin moves fromID to the position currently occupied by
// toID inside the named list. Membership is unchanged and all other
// elements keep their relative order.
func (s *Store) ReorderWithin(list List, fromID, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := &s.active
	if list == ListExcluded {
		target = &s.excluded
	}

	from := indexOf(*target, fromID)
	to := indexOf(*target, toID)
	if from < 0 || to < 0 {
		return fmt.Errorf("reorder %s: station not found (from=%q to=%q)", list, fromID, toID)
	}
	if from == to {
		return nil
	}

	moved := (*target)[from]
	*target = append((*target)[:from], (*target)[from+1:]...)
	*target = append((*target)[:to], append([]station.Station{moved}, (*target)[to:]...)...)

	return s.persistList(list)
}

// MoveToExcluded removes the station from the active list and inserts
// it into the excluded list at the position of atID, or appends when
// atID is empty or unknown. The selection guard runs before the move
// is visible so playback never points at an excluded station.
func (s *Store) MoveToExcluded(stationID, atID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.active, stationID)
	if idx < 0 {
		return fmt.Errorf("exclude: station %q not in active list", stationID)
	}

	moved := s.active[idx]
	moved.CurrentProgram = nil
	s.active = append(s.active[:idx], s.active[idx+1:]...)

	if s.guard != nil {
		s.guard.WillExclude(stationID, copyList(s.active))
	}

	s.excluded = insertAt(s.excluded, moved, atID)
	return s.persistBoth()
}

// MoveToActive removes the station from the excluded list and inserts
// it into the active list at the position of atID, or appends.
func (s *Store) MoveToActive(stationID, atID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.excluded, stationID)
	if idx < 0 {
		return fmt.Errorf("restore: station %q not in excluded list", stationID)
	}

	moved := s.excluded[idx]
	s.excluded = append(s.excluded[:idx], s.excluded[idx+1:]...)
	s.active = insertAt(s.active, moved, atID)

	return s.persistBoth()
}

// Restore returns an excluded station to the end of the active list.
func (s *Store) Restore(stationID string) error {
	return s.MoveToActive(stationID, "")
}

// Reset replaces both lists with the seed defaults and persists them.
// Calling it repeatedly is harmless.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = station.Defaults()
	s.excluded = nil
	return s.persistBoth()
}

func (s *Store) persistList(list List) error {
	if list == ListExcluded {
		return s.store.Put(keyExcluded, stripped(s.excluded))
	}
	return s.store.Put(keyActive, stripped(s.active))
}

func (s *Store) persistBoth() error {
	if err := s.store.Put(keyActive, stripped(s.active)); err != nil {
		return fmt.Errorf("persisting active list: %w", err)
	}
	if err := s.store.Put(keyExcluded, stripped(s.excluded)); err != nil {
		return fmt.Errorf("persisting excluded list: %w", err)
	}
	return nil
}

func indexOf(list []station.Station, id string) int {
	for i, st := range list {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func insertAt(list []station.Station, st station.Station, atID string) []station.Station {
	idx := indexOf(list, atID)
	if atID == "" || idx < 0 {
		return append(list, st)
	}
	return append(list[:idx], append([]station.Station{st}, list[idx:]...)...)
}

func copyList(list []station.Station) []station.Station {
	out := make([]station.Station, len(list))
	copy(out, list)
	return out
}

// stripped drops the transient program annotation from each entry so
// stale schedule data never reaches storage.
func stripped(list []station.Station) []station.Station {
	out := make([]station.Station, len(list))
	for i, st := range list {
		st.CurrentProgram = nil
		out[i] = st
	}
	return out
}
