package schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/qwer999/radio/internal/station"
	"github.com/qwer999/radio/internal/storage"
)

func newTestKBSClient(handler http.HandlerFunc) (*httptest.Server, *KBSClient) {
	server := httptest.NewServer(handler)
	client := &KBSClient{
		client: resty.New().SetBaseURL(server.URL),
		cache:  NewCache(storage.NewMemStore()),
		now:    func() time.Time { return time.Date(2025, 9, 23, 10, 15, 0, 0, time.Local) },
	}
	return server, client
}

func TestKBSFetchScheduleExtractsRequestedDay(t *testing.T) {
	week := []kbsScheduleDay{
		{Date: "20250922", Schedules: []KBSProgram{{Title: "어제 방송", StartTime: "060000", EndTime: "080000"}}},
		{Date: "20250923", Schedules: []KBSProgram{
			{Title: "아침 방송", StartTime: "060000", EndTime: "100000"},
			{Title: "낮 방송", StartTime: "100000", EndTime: "140000"},
		}},
	}

	server, client := newTestKBSClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mediafactory/v1/schedule/weekly" {
			t.Errorf("Expected path /mediafactory/v1/schedule/weekly, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("channel_code") != "22" {
			t.Errorf("channel_code = %q, want 22", q.Get("channel_code"))
		}
		if q.Get("rtype") != "json" || q.Get("local_station_code") != "00" {
			t.Errorf("unexpected query params: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(week)
	})
	defer server.Close()

	got := client.FetchSchedule(station.KBSHappyFM, "")
	if len(got) != 2 {
		t.Fatalf("FetchSchedule() returned %d programs, want 2 (today's day only)", len(got))
	}
	if got[0].Title != "아침 방송" {
		t.Errorf("programs[0].Title = %q", got[0].Title)
	}
}

func TestKBSFetchScheduleNoMatchingDay(t *testing.T) {
	server, client := newTestKBSClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]kbsScheduleDay{
			{Date: "20250101", Schedules: []KBSProgram{{Title: "옛날 방송"}}},
		})
	})
	defer server.Close()

	if got := client.FetchSchedule(station.KBSHappyFM, ""); len(got) != 0 {
		t.Errorf("FetchSchedule() = %d programs, want empty when no day matches", len(got))
	}
}

func TestKBSFetchScheduleInvalidChannel(t *testing.T) {
	server, client := newTestKBSClient(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("request must not be sent for an invalid channel code")
	})
	defer server.Close()

	if got := client.FetchSchedule(station.KBSChannel("99"), ""); len(got) != 0 {
		t.Errorf("FetchSchedule() = %d programs, want empty", len(got))
	}
}

func TestKBSFetchScheduleUsesCache(t *testing.T) {
	var calls int
	server, client := newTestKBSClient(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]kbsScheduleDay{
			{Date: "20250923", Schedules: []KBSProgram{{Title: "방송", StartTime: "060000", EndTime: "080000"}}},
		})
	})
	defer server.Close()

	client.FetchSchedule(station.KBSHappyFM, "")
	client.FetchSchedule(station.KBSHappyFM, "")

	if calls != 1 {
		t.Errorf("upstream called %d times, want 1", calls)
	}
}

func TestKBSCurrentProgramSecondGranularity(t *testing.T) {
	programs := []KBSProgram{
		{Title: "정오 방송", StartTime: "100000", EndTime: "103000",
			Actor: "진행자", ChannelCodeName: "해피FM"},
	}
	client := &KBSClient{cache: NewCache(storage.NewMemStore())}

	tests := []struct {
		name  string
		ref   time.Time
		match bool
	}{
		{"mid program", time.Date(2025, 9, 23, 10, 15, 0, 0, time.Local), true},
		{"start second is inclusive", time.Date(2025, 9, 23, 10, 0, 0, 0, time.Local), true},
		{"last second inside", time.Date(2025, 9, 23, 10, 29, 59, 0, time.Local), true},
		{"end second is exclusive", time.Date(2025, 9, 23, 10, 30, 0, 0, time.Local), false},
		{"before start", time.Date(2025, 9, 23, 9, 59, 59, 0, time.Local), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.CurrentProgram(programs, tt.ref)
			if tt.match && got == nil {
				t.Fatal("CurrentProgram() = nil, want a program")
			}
			if !tt.match && got != nil {
				t.Fatalf("CurrentProgram() = %+v, want nil", got)
			}
		})
	}
}

func TestKBSCurrentProgramNormalization(t *testing.T) {
	programs := []KBSProgram{
		{Title: "정오 방송", StartTime: "100000", EndTime: "103000",
			TableTitle: "가을 개편", Actor: "진행자", Staff: "피디", Intention: "소개"},
	}
	client := &KBSClient{cache: NewCache(storage.NewMemStore())}

	got := client.CurrentProgram(programs, time.Date(2025, 9, 23, 10, 15, 0, 0, time.Local))
	if got == nil {
		t.Fatal("CurrentProgram() = nil")
	}
	if got.StartTime != "10:00" || got.EndTime != "10:30" {
		t.Errorf("times = %q-%q, want 10:00-10:30", got.StartTime, got.EndTime)
	}
	if got.Subtitle != "가을 개편" {
		t.Errorf("empty subtitle should fall back to the table title, got %q", got.Subtitle)
	}
	if got.Producer != "피디" || got.Players != "진행자" {
		t.Errorf("staff mapping wrong: %+v", got)
	}
}

func TestKBSCurrentProgramSkipsIncompleteEntries(t *testing.T) {
	programs := []KBSProgram{
		{StartTime: "100000", EndTime: "110000"},       // no title
		{Title: "시작 없음", EndTime: "110000"},            // no start
		{Title: "진짜 방송", StartTime: "100000", EndTime: "110000"},
	}
	client := &KBSClient{cache: NewCache(storage.NewMemStore())}

	got := client.CurrentProgram(programs, time.Date(2025, 9, 23, 10, 30, 0, 0, time.Local))
	if got == nil || got.Title != "진짜 방송" {
		t.Errorf("CurrentProgram() = %+v, want the first complete entry", got)
	}
}
