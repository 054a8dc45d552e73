package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/qwer999/radio/internal/playlist"
	"github.com/qwer999/radio/internal/session"
	"github.com/qwer999/radio/internal/station"
)

func (ui *UI) createStationTable() *tview.Table {
	table := tview.NewTable().
		SetBorders(false).
		SetSeparator(' ').
		SetSelectable(true, false).
		SetFixed(1, 0)

	table.SetBorder(true).
		SetTitle(fmt.Sprintf(" 채널 (%d) ", len(ui.store.Active()))).
		SetBorderColor(ui.colors.borders).
		SetTitleColor(ui.colors.foreground).
		SetBackgroundColor(ui.colors.background).
		SetBorderPadding(1, 0, 1, 1)

	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(ui.colors.background).
		Background(ui.colors.highlight))

	ui.setHeaderRow(table, "방송국", "채널", "지금 방송중")
	return table
}

func (ui *UI) createExcludedTable() *tview.Table {
	table := tview.NewTable().
		SetBorders(false).
		SetSeparator(' ').
		SetSelectable(true, false).
		SetFixed(1, 0)

	table.SetBorder(true).
		SetTitle(" 제외된 채널 ").
		SetBorderColor(ui.colors.borders).
		SetTitleColor(ui.colors.foreground).
		SetBackgroundColor(ui.colors.background).
		SetBorderPadding(1, 0, 1, 1)

	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(ui.colors.background).
		Background(ui.colors.highlight))

	ui.setHeaderRow(table, "방송국", "채널", "")
	return table
}

func (ui *UI) setHeaderRow(table *tview.Table, names ...string) {
	table.SetCell(0, 0, tview.NewTableCell(" ").
		SetTextColor(ui.colors.foreground).
		SetMaxWidth(2).
		SetSelectable(false))
	for i, name := range names {
		table.SetCell(0, i+1, tview.NewTableCell(name).
			SetTextColor(ui.colors.programFg).
			SetExpansion(1).
			SetSelectable(false))
	}
}

func (ui *UI) renderStationRows() {
	active := ui.store.Active()

	ui.mu.Lock()
	snap := ui.lastSnapshot
	ui.mu.Unlock()

	selectedID := ""
	if snap.Station != nil {
		selectedID = snap.Station.ID
	}

	for i, st := range active {
		row := i + 1

		icon := " "
		if st.ID == selectedID {
			switch {
			case snap.State == session.StateLoading:
				icon = ui.playingIndicator()
			case ui.engine.IsPaused():
				icon = "⏸"
			case ui.engine.IsPlaying():
				icon = "➤"
			default:
				icon = "·"
			}
		}
		ui.stationTable.SetCell(row, 0, tview.NewTableCell(icon).
			SetTextColor(ui.colors.highlight).
			SetMaxWidth(2))

		ui.stationTable.SetCell(row, 1, tview.NewTableCell(st.Name).
			SetTextColor(ui.colors.foreground).
			SetMaxWidth(24).
			SetExpansion(1))

		ui.stationTable.SetCell(row, 2, tview.NewTableCell(st.ChannelName()).
			SetTextColor(ui.colors.foreground).
			SetMaxWidth(20).
			SetExpansion(1))

		ui.stationTable.SetCell(row, 3, tview.NewTableCell(programCell(st.CurrentProgram)).
			SetTextColor(ui.colors.programFg).
			SetExpansion(2))
	}

	// Drop rows left over after an exclusion.
	for row := ui.stationTable.GetRowCount() - 1; row > len(active); row-- {
		ui.stationTable.RemoveRow(row)
	}

	ui.stationTable.SetTitle(fmt.Sprintf(" 채널 (%d) ", len(active)))
}

func (ui *UI) renderExcludedRows() {
	excluded := ui.store.Excluded()

	for i, st := range excluded {
		row := i + 1
		ui.excludedTable.SetCell(row, 0, tview.NewTableCell(" ").SetMaxWidth(2))
		ui.excludedTable.SetCell(row, 1, tview.NewTableCell(st.Name).
			SetTextColor(ui.colors.foreground).
			SetExpansion(1))
		ui.excludedTable.SetCell(row, 2, tview.NewTableCell(st.ChannelName()).
			SetTextColor(ui.colors.foreground).
			SetExpansion(1))
		ui.excludedTable.SetCell(row, 3, tview.NewTableCell("").SetExpansion(1))
	}

	for row := ui.excludedTable.GetRowCount() - 1; row > len(excluded); row-- {
		ui.excludedTable.RemoveRow(row)
	}

	ui.excludedTable.SetTitle(fmt.Sprintf(" 제외된 채널 (%d) ", len(excluded)))
}

// highlightedStation returns the station under the cursor in the
// active table.
func (ui *UI) highlightedStation() (station.Station, bool) {
	active := ui.store.Active()
	row, _ := ui.stationTable.GetSelection()
	index := row - 1
	if index < 0 || index >= len(active) {
		return station.Station{}, false
	}
	return active[index], true
}

func (ui *UI) selectHighlighted() {
	st, ok := ui.highlightedStation()
	if !ok {
		return
	}
	ui.controller.Select(st)
}

// moveHighlighted reorders the highlighted station one position up or
// down, keeping the cursor on it.
func (ui *UI) moveHighlighted(delta int) {
	active := ui.store.Active()
	row, _ := ui.stationTable.GetSelection()
	from := row - 1
	to := from + delta
	if from < 0 || from >= len(active) || to < 0 || to >= len(active) {
		return
	}

	if err := ui.store.ReorderWithin(playlist.ListActive, active[from].ID, active[to].ID); err != nil {
		log.Error().Err(err).Msg("Failed to reorder station")
		return
	}
	ui.renderStationRows()
	ui.stationTable.Select(to+1, 0)
}

func (ui *UI) excludeHighlighted() {
	st, ok := ui.highlightedStation()
	if !ok {
		return
	}

	if err := ui.store.MoveToExcluded(st.ID, ""); err != nil {
		log.Error().Err(err).Msg("Failed to exclude station")
		return
	}
	log.Debug().Str("id", st.ID).Msg("Station excluded")
	ui.renderStationRows()
}

func (ui *UI) restoreHighlighted() {
	excluded := ui.store.Excluded()
	row, _ := ui.excludedTable.GetSelection()
	index := row - 1
	if index < 0 || index >= len(excluded) {
		return
	}

	if err := ui.store.Restore(excluded[index].ID); err != nil {
		log.Error().Err(err).Msg("Failed to restore station")
		return
	}
	log.Debug().Str("id", excluded[index].ID).Msg("Station restored")
	ui.renderExcludedRows()
	ui.renderStationRows()
}
