package service

import (
	"time"

	"github.com/qwer999/radio/internal/schedule"
	"github.com/qwer999/radio/internal/station"
	"github.com/qwer999/radio/internal/timeutil"
)

// Listings produces the full-day program listing for a station, used
// by the schedule view.
type Listings struct {
	mbc *schedule.MBCClient
	kbs *schedule.KBSClient
	sbs *schedule.SBSClient
	now func() time.Time
}

func NewListings(mbc *schedule.MBCClient, kbs *schedule.KBSClient, sbs *schedule.SBSClient) *Listings {
	return &Listings{
		mbc: mbc,
		kbs: kbs,
		sbs: sbs,
		now: time.Now,
	}
}

// For returns today's listing for the station. Stations without a
// schedule source get an empty listing under their own name.
func (l *Listings) For(st station.Station) schedule.DailySchedule {
	switch st.Type {
	case station.TypeMBC:
		return l.mbc.Daily(st.MBCChannelOrDefault(), "")
	case station.TypeKBS:
		return l.kbs.Daily(st.KBSChannelOrDefault(), "")
	case station.TypeSBS:
		return l.sbs.Daily(st.SBSChannelOrDefault(), l.now())
	default:
		return schedule.DailySchedule{
			ChannelName: st.Name,
			DateDisplay: timeutil.FormatDateDisplay(timeutil.DateKey(l.now())),
		}
	}
}
