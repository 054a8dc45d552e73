package service

import (
	"testing"
	"time"

	"github.com/qwer999/radio/internal/schedule"
	"github.com/qwer999/radio/internal/station"
)

type fakeMBC struct {
	calls    int
	current  *station.CurrentProgram
	lastChan station.MBCChannel
}

func (f *fakeMBC) FetchSchedule(channel station.MBCChannel, date string) []schedule.MBCProgram {
	f.calls++
	f.lastChan = channel
	return nil
}

func (f *fakeMBC) CurrentProgram(programs []schedule.MBCProgram, ref time.Time) *station.CurrentProgram {
	return f.current
}

type fakeKBS struct {
	calls    int
	current  *station.CurrentProgram
	lastChan station.KBSChannel
}

func (f *fakeKBS) FetchSchedule(channel station.KBSChannel, date string) []schedule.KBSProgram {
	f.calls++
	f.lastChan = channel
	return nil
}

func (f *fakeKBS) CurrentProgram(programs []schedule.KBSProgram, ref time.Time) *station.CurrentProgram {
	return f.current
}

type fakeSBS struct {
	calls    int
	current  *station.CurrentProgram
	lastChan station.SBSChannel
}

func (f *fakeSBS) FetchSchedule(channel station.SBSChannel, day time.Time) []schedule.SBSProgram {
	f.calls++
	f.lastChan = channel
	return nil
}

func (f *fakeSBS) CurrentProgram(channel station.SBSChannel, programs []schedule.SBSProgram, ref time.Time) *station.CurrentProgram {
	return f.current
}

func newTestEnricher(mbc *fakeMBC, kbs *fakeKBS, sbs *fakeSBS) *Enricher {
	return &Enricher{
		mbc: mbc,
		kbs: kbs,
		sbs: sbs,
		now: func() time.Time { return time.Date(2025, 9, 23, 10, 15, 0, 0, time.Local) },
	}
}

func TestEnrichStationMBC(t *testing.T) {
	mbc := &fakeMBC{current: &station.CurrentProgram{Title: "굿모닝FM"}}
	e := newTestEnricher(mbc, &fakeKBS{}, &fakeSBS{})

	got := e.EnrichStation(station.Station{ID: "mbc_fm4u", Type: station.TypeMBC, MBCChannel: station.MBCFM4U})

	if got.CurrentProgram == nil || got.CurrentProgram.Title != "굿모닝FM" {
		t.Errorf("CurrentProgram = %+v, want 굿모닝FM", got.CurrentProgram)
	}
	if mbc.lastChan != station.MBCFM4U {
		t.Errorf("fetched channel = %q, want %q", mbc.lastChan, station.MBCFM4U)
	}
	if got.MBCChannel != station.MBCFM4U {
		t.Errorf("MBCChannel = %q, want %q", got.MBCChannel, station.MBCFM4U)
	}
}

func TestEnrichStationResolvesChannelFromID(t *testing.T) {
	kbs := &fakeKBS{current: &station.CurrentProgram{Title: "출발 FM과 함께"}}
	e := newTestEnricher(&fakeMBC{}, kbs, &fakeSBS{})

	got := e.EnrichStation(station.Station{ID: "kbs1fm", Type: station.TypeKBS})

	if kbs.lastChan != station.KBSClassicFM {
		t.Errorf("fetched channel = %q, want %q", kbs.lastChan, station.KBSClassicFM)
	}
	if got.KBSChannel != station.KBSClassicFM {
		t.Errorf("KBSChannel = %q, want %q", got.KBSChannel, station.KBSClassicFM)
	}
}

func TestEnrichStationNoCurrentProgram(t *testing.T) {
	e := newTestEnricher(&fakeMBC{}, &fakeKBS{}, &fakeSBS{current: nil})

	got := e.EnrichStation(station.Station{ID: "sbs_powerfm", Type: station.TypeSBS, SBSChannel: station.SBSPowerFM})

	if got.CurrentProgram != nil {
		t.Errorf("CurrentProgram = %+v, want nil", got.CurrentProgram)
	}
}

func TestEnrichStationStaticPassThrough(t *testing.T) {
	mbc := &fakeMBC{}
	e := newTestEnricher(mbc, &fakeKBS{}, &fakeSBS{})

	st := station.Station{ID: "cbs_musicfm", Type: station.TypeStatic, API: "https://aac.cbs.co.kr/cbs939/_definst_/cbs939.stream/playlist.m3u8"}
	got := e.EnrichStation(st)

	if got != st {
		t.Errorf("static station changed: %+v", got)
	}
	if mbc.calls != 0 {
		t.Errorf("mbc calls = %d, want 0", mbc.calls)
	}
}

func TestEnrichAllPreservesOrder(t *testing.T) {
	e := newTestEnricher(
		&fakeMBC{current: &station.CurrentProgram{Title: "엠비씨"}},
		&fakeKBS{current: &station.CurrentProgram{Title: "케이비에스"}},
		&fakeSBS{current: &station.CurrentProgram{Title: "에스비에스"}},
	)

	in := []station.Station{
		{ID: "sbs_powerfm", Type: station.TypeSBS, SBSChannel: station.SBSPowerFM},
		{ID: "cbs_musicfm", Type: station.TypeStatic},
		{ID: "mbc_fm4u", Type: station.TypeMBC, MBCChannel: station.MBCFM4U},
		{ID: "kbs1", Type: station.TypeKBS, KBSChannel: station.KBSRadio1},
	}

	got := e.EnrichAll(in)

	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i].ID != in[i].ID {
			t.Errorf("position %d: ID = %q, want %q", i, got[i].ID, in[i].ID)
		}
	}
	if got[0].CurrentProgram == nil || got[0].CurrentProgram.Title != "에스비에스" {
		t.Errorf("sbs program = %+v", got[0].CurrentProgram)
	}
	if got[1].CurrentProgram != nil {
		t.Errorf("static program = %+v, want nil", got[1].CurrentProgram)
	}
	if got[2].CurrentProgram == nil || got[2].CurrentProgram.Title != "엠비씨" {
		t.Errorf("mbc program = %+v", got[2].CurrentProgram)
	}
}

func TestEnrichAllEmpty(t *testing.T) {
	e := newTestEnricher(&fakeMBC{}, &fakeKBS{}, &fakeSBS{})

	got := e.EnrichAll(nil)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestPeriodicRefresh(t *testing.T) {
	e := newTestEnricher(&fakeMBC{}, &fakeKBS{}, &fakeSBS{current: &station.CurrentProgram{Title: "두시탈출 컬투쇼"}})

	applied := make(chan []station.Station, 4)
	source := func() []station.Station {
		return []station.Station{{ID: "sbs_powerfm", Type: station.TypeSBS, SBSChannel: station.SBSPowerFM}}
	}

	e.StartPeriodicRefresh(10*time.Millisecond, source, func(stations []station.Station) {
		select {
		case applied <- stations:
		default:
		}
	})
	defer e.StopPeriodicRefresh()

	select {
	case stations := <-applied:
		if len(stations) != 1 || stations[0].CurrentProgram == nil {
			t.Errorf("refreshed stations = %+v", stations)
		}
	case <-time.After(time.Second):
		t.Fatal("refresh did not fire")
	}
}

func TestStopPeriodicRefreshIdempotent(t *testing.T) {
	e := newTestEnricher(&fakeMBC{}, &fakeKBS{}, &fakeSBS{})

	e.StopPeriodicRefresh()
	e.StartPeriodicRefresh(time.Hour, func() []station.Station { return nil }, func([]station.Station) {})
	e.StopPeriodicRefresh()
	e.StopPeriodicRefresh()
}
