// Package session tracks which station is selected and drives stream
// resolution when the selection changes.
package session

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/qwer999/radio/internal/resolver"
	"github.com/qwer999/radio/internal/station"
)

// State is the resolution lifecycle of the current selection. Play and
// pause flags are tracked separately because they follow the audio
// engine, not the resolver.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamResolver resolves a station to its live stream URL.
type StreamResolver interface {
	Resolve(st station.Station) (resolver.Result, error)
}

// ActiveLister supplies the ordered active station list that next and
// previous navigate over.
type ActiveLister interface {
	Active() []station.Station
}

// Engine is the slice of the audio engine the session needs: toggling
// play/pause when the listener re-selects the current station.
type Engine interface {
	TogglePause()
}

// Snapshot is the observable session state handed to the change
// callback and returned by Current.
type Snapshot struct {
	State      State
	Station    *station.Station
	StreamURL  string
	NowPlaying *resolver.Hint
	Err        error
	IsPlaying  bool
	IsPaused   bool
}

// Controller owns the current selection. All operations are safe for
// concurrent use; resolution runs in a background goroutine and a
// result for a superseded selection is discarded.
type Controller struct {
	lists    ActiveLister
	resolver StreamResolver
	engine   Engine

	mu         sync.Mutex
	closed     bool
	state      State
	selected   *station.Station
	streamURL  string
	nowPlaying *resolver.Hint
	err        error
	isPlaying  bool
	isPaused   bool
	onChange   func(Snapshot)
}

func NewController(lists ActiveLister, res StreamResolver, engine Engine) *Controller {
	return &Controller{
		lists:    lists,
		resolver: res,
		engine:   engine,
		state:    StateIdle,
	}
}

// OnChange registers the callback invoked after every state change.
// The callback receives a snapshot and must not call back into the
// controller from the same goroutine it is invoked on.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Current returns a snapshot of the session.
func (c *Controller) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Select makes st the current station and resolves its stream. If st
// is already selected the audio engine's play/pause is toggled instead
// of re-resolving. With an empty active list this is a no-op.
func (c *Controller) Select(st station.Station) {
	if len(c.lists.Active()) == 0 {
		c.goIdle()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.selected != nil && c.selected.ID == st.ID {
		engine := c.engine
		c.mu.Unlock()
		if engine != nil {
			engine.TogglePause()
		}
		return
	}
	c.beginLoadingLocked(st)
	snap := c.snapshotLocked()
	cb := c.onChange
	c.mu.Unlock()

	c.notify(cb, snap)
	go c.resolve(st)
}

// Next advances the selection to the following active station,
// wrapping at the end of the list.
func (c *Controller) Next() {
	c.step(1)
}

// Previous moves the selection to the preceding active station,
// wrapping at the start of the list.
func (c *Controller) Previous() {
	c.step(-1)
}

// SelectFirst selects the first active station, or goes idle when the
// active list is empty.
func (c *Controller) SelectFirst() {
	active := c.lists.Active()
	if len(active) == 0 {
		c.goIdle()
		return
	}
	c.Select(active[0])
}

// WillExclude keeps the selection valid while a station leaves the
// active list. It deliberately reads only the remaining snapshot it is
// handed, never the list source, because the list source is mid-update
// when this runs.
func (c *Controller) WillExclude(stationID string, remaining []station.Station) {
	c.mu.Lock()
	if c.selected == nil || c.selected.ID != stationID {
		c.mu.Unlock()
		return
	}
	if len(remaining) == 0 {
		c.resetToIdleLocked()
		snap := c.snapshotLocked()
		cb := c.onChange
		c.mu.Unlock()
		c.notify(cb, snap)
		return
	}

	next := remaining[0]
	c.beginLoadingLocked(next)
	snap := c.snapshotLocked()
	cb := c.onChange
	c.mu.Unlock()

	c.notify(cb, snap)
	go c.resolve(next)
}

// HandleEngineState records the audio engine's reported play/pause
// flags. These are independent of the resolution state.
func (c *Controller) HandleEngineState(playing, paused bool) {
	c.mu.Lock()
	c.isPlaying = playing
	c.isPaused = paused
	snap := c.snapshotLocked()
	cb := c.onChange
	c.mu.Unlock()
	c.notify(cb, snap)
}

// Close stops the controller. In-flight resolutions are discarded and
// no further callbacks fire.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.onChange = nil
	c.resetToIdleLocked()
}

func (c *Controller) step(delta int) {
	active := c.lists.Active()
	if len(active) == 0 {
		c.goIdle()
		return
	}

	c.mu.Lock()
	var target station.Station
	if c.selected == nil {
		target = active[0]
	} else if idx := indexOf(active, c.selected.ID); idx < 0 {
		target = active[0]
	} else {
		target = active[(idx+delta+len(active))%len(active)]
	}
	if c.selected != nil && c.selected.ID == target.ID {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.Select(target)
}

func (c *Controller) resolve(st station.Station) {
	result, err := c.resolver.Resolve(st)

	c.mu.Lock()
	if c.closed || c.selected == nil || c.selected.ID != st.ID {
		c.mu.Unlock()
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("id", st.ID).Msg("Stream resolution failed")
		c.state = StateError
		c.err = err
		c.streamURL = ""
		c.nowPlaying = nil
	} else {
		c.state = StateReady
		c.err = nil
		c.streamURL = result.URL
		c.nowPlaying = result.NowPlaying
	}
	snap := c.snapshotLocked()
	cb := c.onChange
	c.mu.Unlock()

	c.notify(cb, snap)
}

func (c *Controller) goIdle() {
	c.mu.Lock()
	if c.state == StateIdle && c.selected == nil {
		c.mu.Unlock()
		return
	}
	c.resetToIdleLocked()
	snap := c.snapshotLocked()
	cb := c.onChange
	c.mu.Unlock()
	c.notify(cb, snap)
}

func (c *Controller) beginLoadingLocked(st station.Station) {
	c.selected = &st
	c.state = StateLoading
	c.err = nil
	c.streamURL = ""
	c.nowPlaying = nil
	c.isPlaying = false
	c.isPaused = false
}

func (c *Controller) resetToIdleLocked() {
	c.selected = nil
	c.state = StateIdle
	c.err = nil
	c.streamURL = ""
	c.nowPlaying = nil
	c.isPlaying = false
	c.isPaused = false
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      c.state,
		StreamURL:  c.streamURL,
		NowPlaying: c.nowPlaying,
		Err:        c.err,
		IsPlaying:  c.isPlaying,
		IsPaused:   c.isPaused,
	}
	if c.selected != nil {
		st := *c.selected
		snap.Station = &st
	}
	return snap
}

func (c *Controller) notify(cb func(Snapshot), snap Snapshot) {
	if cb != nil {
		cb(snap)
	}
}

func indexOf(list []station.Station, id string) int {
	for i, st := range list {
		if st.ID == id {
			return i
		}
	}
	return -1
}
