package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/qwer999/radio/internal/schedule"
)

func (ui *UI) dismissModal() {
	ui.pages.RemovePage("modal")
	if ui.isExcludedPageVisible() {
		ui.app.SetFocus(ui.excludedTable)
		return
	}
	ui.app.SetFocus(ui.stationTable)
}

func (ui *UI) presentModal(frame tview.Primitive, width, height int) {
	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(frame, height, 0, true).
			AddItem(nil, 0, 1, false),
			width, 0, true).
		AddItem(nil, 0, 1, false)
	modal.SetBackgroundColor(ui.colors.background)

	ui.pages.AddPage("modal", modal, true, true)
	ui.app.SetFocus(modal)
}

func (ui *UI) showHelpModal() {
	keyColor := ui.colors.helpHotkey.String()

	helpText := fmt.Sprintf(`[::b]단축키[::-]

[%s]재생[-]
  [%s]Enter[-]      선택한 채널 재생 / 일시정지
  [%s]Space[-]      일시정지 / 다시 재생
  [%s]p[-] / [%s]<[-]      이전 채널
  [%s]n[-] / [%s]>[-]      다음 채널

[%s]채널 관리[-]
  [%s]K[-] / [%s]J[-]      채널 위로 / 아래로 이동
  [%s]x[-]          선택한 채널 제외
  [%s]e[-]          제외 목록 보기 / 닫기
  [%s]u[-]          (제외 목록에서) 채널 복원
  [%s]R[-]          채널 목록 초기화

[%s]기타[-]
  [%s]s[-]          오늘의 편성표
  [%s]+[-] / [%s]-[-]      음량 조절
  [%s]m[-]          음소거
  [%s]q[-]          종료`,
		keyColor,
		keyColor, keyColor, keyColor, keyColor, keyColor, keyColor,
		keyColor,
		keyColor, keyColor, keyColor, keyColor, keyColor, keyColor,
		keyColor,
		keyColor, keyColor, keyColor, keyColor, keyColor)

	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetText(helpText)
	textView.SetTextColor(ui.colors.helpForeground)
	textView.SetBackgroundColor(ui.colors.modalBackground)

	frame := tview.NewFrame(textView).
		SetBorders(0, 0, 1, 1, 2, 2)
	frame.SetBorder(true).
		SetBorderColor(ui.colors.borders).
		SetBackgroundColor(ui.colors.modalBackground).
		SetTitle(" 도움말 ").
		SetTitleColor(ui.colors.foreground)

	frame.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyEnter:
			ui.dismissModal()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' || event.Rune() == '?' {
				ui.dismissModal()
				return nil
			}
		}
		return event
	})

	ui.presentModal(frame, 50, 26)
}

// showScheduleModal displays today's full program listing for the
// highlighted station. The listing is fetched off the UI goroutine;
// the cache makes repeat views instant.
func (ui *UI) showScheduleModal() {
	st, ok := ui.highlightedStation()
	if !ok {
		return
	}

	go func() {
		daily := ui.listings.For(st)
		ui.app.QueueUpdateDraw(func() {
			ui.presentScheduleModal(daily)
		})
	}()
}

func (ui *UI) presentScheduleModal(daily schedule.DailySchedule) {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetText(formatDailySchedule(daily, ui.colors.highlight.String()))
	textView.SetTextColor(ui.colors.foreground)
	textView.SetBackgroundColor(ui.colors.modalBackground)

	frame := tview.NewFrame(textView).
		SetBorders(0, 0, 1, 1, 2, 2)
	frame.SetBorder(true).
		SetBorderColor(ui.colors.borders).
		SetBackgroundColor(ui.colors.modalBackground).
		SetTitle(fmt.Sprintf(" %s 편성표 ", daily.ChannelName)).
		SetTitleColor(ui.colors.foreground)

	frame.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			ui.dismissModal()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' || event.Rune() == 's' {
				ui.dismissModal()
				return nil
			}
		}
		return event
	})

	ui.presentModal(frame, 64, 30)
}

// formatDailySchedule renders a day's programs as one line per entry.
func formatDailySchedule(daily schedule.DailySchedule, highlightColor string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]%s[-]\n\n", highlightColor, daily.DateDisplay)

	if len(daily.Programs) == 0 {
		b.WriteString("편성표 정보가 없습니다")
		return b.String()
	}

	for _, p := range daily.Programs {
		fmt.Fprintf(&b, "%s~%s  %s", p.StartTime, p.EndTime, p.Title)
		if p.Players != "" {
			fmt.Fprintf(&b, " · %s", p.Players)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// showResetConfirmModal asks before wiping the curated lists back to
// the defaults.
func (ui *UI) showResetConfirmModal() {
	doReset := func() {
		ui.dismissModal()
		if err := ui.store.Reset(); err != nil {
			log.Error().Err(err).Msg("Failed to reset station lists")
			return
		}
		ui.controller.SelectFirst()
		ui.renderStationRows()
		ui.renderExcludedRows()
		ui.stationTable.Select(1, 0)
		log.Debug().Msg("Station lists reset to defaults")
	}

	messageView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText("\n[::b]채널 목록 초기화[::-]\n\n채널 목록과 제외 목록을\n기본값으로 되돌릴까요?")
	messageView.SetTextColor(ui.colors.foreground)
	messageView.SetBackgroundColor(ui.colors.modalBackground)

	hintView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText("[::d]Enter[::-] 초기화  ·  [::d]Esc[::-] 취소")
	hintView.SetTextColor(tcell.ColorDarkGray)
	hintView.SetBackgroundColor(ui.colors.modalBackground)

	content := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(messageView, 0, 1, false).
		AddItem(hintView, 1, 0, false).
		AddItem(nil, 1, 0, false)
	content.SetBackgroundColor(ui.colors.modalBackground)

	frame := tview.NewFrame(content).
		SetBorders(0, 0, 1, 1, 1, 1)
	frame.SetBorder(true).
		SetBorderColor(ui.colors.highlight).
		SetBackgroundColor(ui.colors.modalBackground).
		SetTitle(" 초기화 ").
		SetTitleColor(ui.colors.highlight).
		SetTitleAlign(tview.AlignCenter)

	frame.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			doReset()
			return nil
		case tcell.KeyEscape:
			ui.dismissModal()
			return nil
		}
		return event
	})

	ui.presentModal(frame, 44, 11)
}
