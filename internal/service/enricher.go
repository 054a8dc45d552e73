// Package service provides the enrichment layer that annotates stations
// with their currently airing program.
package service

import (
	"sync"
	"time"

	"github.com/qwer999/radio/internal/schedule"
	"github.com/qwer999/radio/internal/station"
	"github.com/rs/zerolog/log"
)

// DefaultRefreshInterval matches the broadcaster guidance of at most a
// few schedule polls per hour.
const DefaultRefreshInterval = 15 * time.Minute

type mbcSource interface {
	FetchSchedule(channel station.MBCChannel, date string) []schedule.MBCProgram
	CurrentProgram(programs []schedule.MBCProgram, ref time.Time) *station.CurrentProgram
}

type kbsSource interface {
	FetchSchedule(channel station.KBSChannel, date string) []schedule.KBSProgram
	CurrentProgram(programs []schedule.KBSProgram, ref time.Time) *station.CurrentProgram
}

type sbsSource interface {
	FetchSchedule(channel station.SBSChannel, day time.Time) []schedule.SBSProgram
	CurrentProgram(channel station.SBSChannel, programs []schedule.SBSProgram, ref time.Time) *station.CurrentProgram
}

// Enricher fans station lists out to the broadcaster schedule adapters
// and annotates each station with its current program. Enrichment is
// always best-effort: a failed lookup leaves the station unchanged.
type Enricher struct {
	mbc mbcSource
	kbs kbsSource
	sbs sbsSource
	now func() time.Time

	mu            sync.Mutex
	refreshTicker *time.Ticker
	stopRefresh   chan struct{}
}

func NewEnricher(mbc *schedule.MBCClient, kbs *schedule.KBSClient, sbs *schedule.SBSClient) *Enricher {
	return &Enricher{
		mbc: mbc,
		kbs: kbs,
		sbs: sbs,
		now: time.Now,
	}
}

// EnrichStation returns the station annotated with its currently airing
// program. Static and unrecognized types pass through unmodified, as
// does any station whose schedule lookup fails or has no current entry.
func (e *Enricher) EnrichStation(st station.Station) station.Station {
	switch st.Type {
	case station.TypeMBC:
		channel := st.MBCChannelOrDefault()
		programs := e.mbc.FetchSchedule(channel, "")
		if cp := e.mbc.CurrentProgram(programs, e.now()); cp != nil {
			st.CurrentProgram = cp
		}
		st.MBCChannel = channel
	case station.TypeKBS:
		channel := st.KBSChannelOrDefault()
		programs := e.kbs.FetchSchedule(channel, "")
		if cp := e.kbs.CurrentProgram(programs, e.now()); cp != nil {
			st.CurrentProgram = cp
		}
		st.KBSChannel = channel
	case station.TypeSBS:
		channel := st.SBSChannelOrDefault()
		programs := e.sbs.FetchSchedule(channel, time.Time{})
		if cp := e.sbs.CurrentProgram(channel, programs, e.now()); cp != nil {
			st.CurrentProgram = cp
		}
		st.SBSChannel = channel
	case station.TypeStatic:
		// No schedule source.
	default:
		log.Debug().Str("id", st.ID).Str("type", string(st.Type)).
			Msg("Skipping enrichment for unknown station type")
	}
	return st
}

// EnrichAll annotates every station concurrently and returns the
// results in input order. One station's failure never blocks or aborts
// the others; the schedule cache deduplicates repeated fetches for
// stations sharing a channel.
func (e *Enricher) EnrichAll(stations []station.Station) []station.Station {
	result := make([]station.Station, len(stations))

	var wg sync.WaitGroup
	for i, st := range stations {
		wg.Add(1)
		go func(i int, st station.Station) {
			defer wg.Done()
			result[i] = e.EnrichStation(st)
		}(i, st)
	}
	wg.Wait()

	return result
}

// StartPeriodicRefresh re-enriches the stations produced by source on
// the given interval, handing each result to apply. A second call
// replaces the previous schedule.
func (e *Enricher) StartPeriodicRefresh(interval time.Duration, source func() []station.Station, apply func([]station.Station)) {
	e.StopPeriodicRefresh()

	e.mu.Lock()
	e.stopRefresh = make(chan struct{})
	e.refreshTicker = time.NewTicker(interval)
	ticker := e.refreshTicker
	stopCh := e.stopRefresh
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				apply(e.EnrichAll(source()))
			case <-stopCh:
				ticker.Stop()
				return
			}
		}
	}()

	log.Debug().Dur("interval", interval).Msg("Started periodic program refresh")
}

// StopPeriodicRefresh cancels the refresh loop. Safe to call when no
// refresh is running.
func (e *Enricher) StopPeriodicRefresh() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopRefresh != nil {
		close(e.stopRefresh)
		e.stopRefresh = nil
	}
}
