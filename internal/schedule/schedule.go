// Package schedule fetches and caches the daily program listings of the
// three broadcasters and derives the normalized "on air now" snapshot
// from them. Raw upstream payload shapes stay inside this package.
package schedule

import (
	"time"

	"github.com/qwer999/radio/internal/station"
)

// Broadcaster keys used in cache entries.
const (
	BroadcasterMBC = "mbc"
	BroadcasterKBS = "kbs"
	BroadcasterSBS = "sbs"
)

const requestTimeout = 15 * time.Second

// DailySchedule is a full-day program listing for one channel, already
// normalized for display.
type DailySchedule struct {
	ChannelName string
	DateDisplay string
	Programs    []station.CurrentProgram
}
