package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

const volumeBarWidth = 10

func (ui *UI) createFooter() *tview.TextView {
	footer := tview.NewTextView()
	footer.SetDynamicColors(true)
	footer.SetTextAlign(tview.AlignLeft)
	footer.SetTextColor(ui.colors.helpForeground)
	footer.SetBackgroundColor(ui.colors.helpBackground)
	return footer
}

func (ui *UI) renderFooter() {
	ui.mu.Lock()
	volume := ui.currentVolume
	muted := ui.isMuted
	ui.mu.Unlock()

	hotkey := ui.colors.helpHotkey.String()
	keys := []string{
		fmt.Sprintf("[%s]⏎[-] 재생", hotkey),
		fmt.Sprintf("[%s]n/p[-] 채널", hotkey),
		fmt.Sprintf("[%s]s[-] 편성표", hotkey),
		fmt.Sprintf("[%s]x[-] 제외", hotkey),
		fmt.Sprintf("[%s]e[-] 제외 목록", hotkey),
		fmt.Sprintf("[%s]?[-] 도움말", hotkey),
		fmt.Sprintf("[%s]q[-] 종료", hotkey),
	}

	bar := renderVolumeBar(volume, muted)
	barColor := ui.colors.highlight.String()
	if muted {
		barColor = ui.config.Theme.MutedVolume
	}

	ui.footer.SetText(fmt.Sprintf("\n %s   [%s]%s[-]", strings.Join(keys, "  "), barColor, bar))
}

// renderVolumeBar draws the footer volume gauge, e.g. "▮▮▮▮▮▮▯▯▯▯ 60%".
func renderVolumeBar(percent int, muted bool) string {
	if muted {
		return strings.Repeat("▯", volumeBarWidth) + " 음소거"
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := (percent * volumeBarWidth) / 100
	return strings.Repeat("▮", filled) + strings.Repeat("▯", volumeBarWidth-filled) + fmt.Sprintf(" %d%%", percent)
}
