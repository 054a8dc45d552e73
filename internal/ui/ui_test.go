package ui

import (
	"strings"
	"testing"

	"github.com/qwer999/radio/internal/resolver"
	"github.com/qwer999/radio/internal/schedule"
	"github.com/qwer999/radio/internal/station"
)

func TestNewPlayingSpinner(t *testing.T) {
	spinner := NewPlayingSpinner()

	if spinner == nil {
		t.Fatal("NewPlayingSpinner() returned nil")
	}

	if len(spinner.Frames) < 2 {
		t.Errorf("expected at least 2 frames, got %d", len(spinner.Frames))
	}

	if spinner.FPS <= 0 {
		t.Error("PlayingSpinner.FPS should be positive")
	}

	for i, frame := range spinner.Frames {
		if frame == "" {
			t.Errorf("Frame[%d] is empty", i)
		}
	}
}

func TestProgramLine(t *testing.T) {
	tests := []struct {
		name string
		cp   *station.CurrentProgram
		want string
	}{
		{"nil", nil, ""},
		{"empty title", &station.CurrentProgram{StartTime: "07:00"}, ""},
		{"title only", &station.CurrentProgram{Title: "뉴스"}, "뉴스"},
		{
			"title with times",
			&station.CurrentProgram{Title: "굿모닝FM", StartTime: "07:00", EndTime: "09:00"},
			"굿모닝FM (07:00~09:00)",
		},
		{
			"full line",
			&station.CurrentProgram{Title: "굿모닝FM", StartTime: "07:00", EndTime: "09:00", Players: "김제동"},
			"굿모닝FM (07:00~09:00) · 김제동",
		},
		{
			"missing end time omits range",
			&station.CurrentProgram{Title: "뉴스", StartTime: "07:00"},
			"뉴스",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := programLine(tt.cp); got != tt.want {
				t.Errorf("programLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHintLine(t *testing.T) {
	tests := []struct {
		name string
		hint *resolver.Hint
		want string
	}{
		{"nil", nil, ""},
		{"empty", &resolver.Hint{}, ""},
		{"title only", &resolver.Hint{Title: "정규방송"}, "정규방송"},
		{
			"all fields",
			&resolver.Hint{Title: "정규방송", Host: "진행자", Time: "10:00-12:00"},
			"정규방송 · 진행자 · 10:00-12:00",
		},
		{
			"missing host",
			&resolver.Hint{Title: "정규방송", Time: "10:00-12:00"},
			"정규방송 · 10:00-12:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hintLine(tt.hint); got != tt.want {
				t.Errorf("hintLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgramCell(t *testing.T) {
	if got := programCell(nil); got != "-" {
		t.Errorf("programCell(nil) = %q, want -", got)
	}
	cp := &station.CurrentProgram{Title: "뉴스", StartTime: "07:00", EndTime: "07:20"}
	if got := programCell(cp); got != "뉴스 07:00~07:20" {
		t.Errorf("programCell() = %q", got)
	}
}

func TestStationTitle(t *testing.T) {
	if got := stationTitle(nil); got != "" {
		t.Errorf("stationTitle(nil) = %q, want empty", got)
	}

	st := &station.Station{ID: "mbc_fm4u", Name: "MBC FM4U", Type: station.TypeMBC, MBCChannel: station.MBCFM4U}
	got := stationTitle(st)
	if !strings.HasPrefix(got, "MBC FM4U") {
		t.Errorf("stationTitle() = %q, want prefix with station name", got)
	}

	static := &station.Station{ID: "cbs", Name: "CBS 음악FM", Type: station.TypeStatic}
	if got := stationTitle(static); got != "CBS 음악FM" {
		t.Errorf("stationTitle(static) = %q, want plain name", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a long message that exceeds", 10, "a long ..."},
		{"한글은 바이트가 아니라 룬으로 자릅니다", 8, "한글은 바..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestRenderVolumeBar(t *testing.T) {
	tests := []struct {
		percent int
		muted   bool
		want    string
	}{
		{0, false, "▯▯▯▯▯▯▯▯▯▯ 0%"},
		{50, false, "▮▮▮▮▮▯▯▯▯▯ 50%"},
		{100, false, "▮▮▮▮▮▮▮▮▮▮ 100%"},
		{-10, false, "▯▯▯▯▯▯▯▯▯▯ 0%"},
		{130, false, "▮▮▮▮▮▮▮▮▮▮ 100%"},
		{70, true, "▯▯▯▯▯▯▯▯▯▯ 음소거"},
	}

	for _, tt := range tests {
		if got := renderVolumeBar(tt.percent, tt.muted); got != tt.want {
			t.Errorf("renderVolumeBar(%d, %v) = %q, want %q", tt.percent, tt.muted, got, tt.want)
		}
	}
}

func TestFormatDailySchedule(t *testing.T) {
	daily := schedule.DailySchedule{
		ChannelName: "MBC FM4U",
		DateDisplay: "2025년 09월 23일 (화)",
		Programs: []station.CurrentProgram{
			{Title: "굿모닝FM", StartTime: "07:00", EndTime: "09:00", Players: "김제동"},
			{Title: "정오의 희망곡", StartTime: "12:00", EndTime: "14:00"},
		},
	}

	got := formatDailySchedule(daily, "red")

	for _, want := range []string{"2025년 09월 23일 (화)", "07:00~09:00  굿모닝FM · 김제동", "12:00~14:00  정오의 희망곡"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatDailySchedule() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatDailyScheduleEmpty(t *testing.T) {
	daily := schedule.DailySchedule{ChannelName: "CBS 음악FM", DateDisplay: "2025년 09월 23일 (화)"}

	got := formatDailySchedule(daily, "red")
	if !strings.Contains(got, "편성표 정보가 없습니다") {
		t.Errorf("formatDailySchedule() = %q, want empty-listing message", got)
	}
}
