package ui

import (
	"fmt"
	"strings"

	"github.com/qwer999/radio/internal/resolver"
	"github.com/qwer999/radio/internal/session"
	"github.com/qwer999/radio/internal/station"
)

const idleText = " 채널을 선택하세요"

func (ui *UI) renderNowPlaying(snap session.Snapshot) {
	hl := ui.colors.highlight.String()
	fg := ui.colors.foreground.String()

	switch snap.State {
	case session.StateIdle:
		ui.nowPlaying.SetText(idleText)
	case session.StateLoading:
		ui.nowPlaying.SetText(fmt.Sprintf(" [%s]%s[-]\n 연결 중...", hl, stationTitle(snap.Station)))
	case session.StateError:
		message := "스트림 URL을 가져오지 못했습니다"
		if snap.Err != nil {
			message = snap.Err.Error()
		}
		ui.nowPlaying.SetText(fmt.Sprintf(" [%s]%s[-]\n [%s]%s[-]",
			hl, stationTitle(snap.Station), fg, truncate(message, 80)))
	case session.StateReady:
		var b strings.Builder
		fmt.Fprintf(&b, " [%s]%s[-]", hl, stationTitle(snap.Station))
		if snap.Station != nil {
			if line := programLine(snap.Station.CurrentProgram); line != "" {
				fmt.Fprintf(&b, "\n [%s]%s[-]", fg, line)
			}
		}
		if line := hintLine(snap.NowPlaying); line != "" {
			fmt.Fprintf(&b, "\n [%s]%s[-]", fg, line)
		}
		ui.nowPlaying.SetText(b.String())
	}
}

func stationTitle(st *station.Station) string {
	if st == nil {
		return ""
	}
	if name := st.ChannelName(); name != "" && name != st.Name {
		return st.Name + " · " + name
	}
	return st.Name
}

// programLine formats the schedule-derived current program, e.g.
// "굿모닝FM 김제동입니다 (07:00~09:00) · 김제동".
func programLine(cp *station.CurrentProgram) string {
	if cp == nil || cp.Title == "" {
		return ""
	}

	line := cp.Title
	if cp.StartTime != "" && cp.EndTime != "" {
		line += fmt.Sprintf(" (%s~%s)", cp.StartTime, cp.EndTime)
	}
	if cp.Players != "" {
		line += " · " + cp.Players
	}
	return line
}

// hintLine formats the lightweight now-playing hint some live
// endpoints return alongside the stream URL.
func hintLine(h *resolver.Hint) string {
	if h == nil {
		return ""
	}

	parts := make([]string, 0, 3)
	if h.Title != "" {
		parts = append(parts, h.Title)
	}
	if h.Host != "" {
		parts = append(parts, h.Host)
	}
	if h.Time != "" {
		parts = append(parts, h.Time)
	}
	return strings.Join(parts, " · ")
}

func programCell(cp *station.CurrentProgram) string {
	if cp == nil || cp.Title == "" {
		return "-"
	}
	if cp.StartTime != "" && cp.EndTime != "" {
		return fmt.Sprintf("%s %s~%s", cp.Title, cp.StartTime, cp.EndTime)
	}
	return cp.Title
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
