// Package ui renders the terminal interface: the station list, the
// now-playing panel, the excluded list and the schedule view.
package ui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/qwer999/radio/internal/config"
	"github.com/qwer999/radio/internal/player"
	"github.com/qwer999/radio/internal/playlist"
	"github.com/qwer999/radio/internal/service"
	"github.com/qwer999/radio/internal/session"
	"github.com/qwer999/radio/internal/station"
)

const (
	VolumeStep       = 5
	HeaderHeight     = 3
	NowPlayingHeight = 6
	FooterHeight     = 3
)

type UI struct {
	app        *tview.Application
	store      *playlist.Store
	enricher   *service.Enricher
	listings   *service.Listings
	controller *session.Controller
	engine     *player.Engine
	config     *config.Config

	pages         *tview.Pages
	stationTable  *tview.Table
	excludedTable *tview.Table
	nowPlaying    *tview.TextView
	footer        *tview.TextView
	mainLayout    *tview.Flex

	mu             sync.Mutex
	currentVolume  int
	isMuted        bool
	animationFrame int
	spinner        *PlayingSpinner
	lastSnapshot   session.Snapshot
	stopUpdates    chan struct{}

	colors struct {
		background       tcell.Color
		foreground       tcell.Color
		borders          tcell.Color
		highlight        tcell.Color
		headerBackground tcell.Color
		programFg        tcell.Color
		helpBackground   tcell.Color
		helpForeground   tcell.Color
		helpHotkey       tcell.Color
		modalBackground  tcell.Color
	}
}

func NewUI(cfg *config.Config, store *playlist.Store, enricher *service.Enricher, listings *service.Listings, controller *session.Controller, engine *player.Engine) *UI {
	ui := &UI{
		app:           tview.NewApplication(),
		store:         store,
		enricher:      enricher,
		listings:      listings,
		controller:    controller,
		engine:        engine,
		config:        cfg,
		currentVolume: cfg.Volume,
		stopUpdates:   make(chan struct{}),
	}

	ui.colors.background = config.GetColor(cfg.Theme.Background)
	ui.colors.foreground = config.GetColor(cfg.Theme.Foreground)
	ui.colors.borders = config.GetColor(cfg.Theme.Borders)
	ui.colors.highlight = config.GetColor(cfg.Theme.Highlight)
	ui.colors.headerBackground = config.GetColor(cfg.Theme.HeaderBackground)
	ui.colors.programFg = config.GetColor(cfg.Theme.ProgramForeground)
	ui.colors.helpBackground = config.GetColor(cfg.Theme.HelpBackground)
	ui.colors.helpForeground = config.GetColor(cfg.Theme.HelpForeground)
	ui.colors.helpHotkey = config.GetColor(cfg.Theme.HelpHotkey)
	ui.colors.modalBackground = config.GetColor(cfg.Theme.ModalBackground)

	engine.SetVolume(cfg.Volume)

	return ui
}

func (ui *UI) Run() error {
	ui.setupUI()
	ui.configureScreen()

	ui.controller.OnChange(ui.onSessionChange)

	go ui.initAsync()
	ui.startAnimation()

	return ui.app.Run()
}

// Shutdown stops the UI gracefully from external callers (e.g., signal handlers).
func (ui *UI) Shutdown() {
	ui.app.QueueUpdateDraw(func() {
		ui.stop()
	})
}

func (ui *UI) stop() {
	ui.SaveConfig()
	ui.enricher.StopPeriodicRefresh()
	ui.controller.Close()
	ui.engine.Stop()

	ui.mu.Lock()
	if ui.stopUpdates != nil {
		close(ui.stopUpdates)
		ui.stopUpdates = nil
	}
	ui.mu.Unlock()

	ui.app.Stop()
}

func (ui *UI) SaveConfig() {
	ui.mu.Lock()
	if !ui.isMuted {
		ui.config.Volume = ui.currentVolume
	}
	if ui.lastSnapshot.Station != nil {
		ui.config.LastStation = ui.lastSnapshot.Station.ID
	}
	ui.mu.Unlock()

	if err := ui.config.Save(); err != nil {
		log.Error().Err(err).Msg("Failed to save config")
	}
}

func (ui *UI) configureScreen() {
	bgStyle := tcell.StyleDefault.Background(ui.colors.background)
	ui.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		screen.SetStyle(bgStyle)
		screen.Clear()
		return false
	})

	var titleSet sync.Once
	ui.app.SetAfterDrawFunc(func(screen tcell.Screen) {
		titleSet.Do(func() { screen.SetTitle(config.AppName) })
	})
}

// initAsync runs the first enrichment pass and restores the last
// station once program data is in.
func (ui *UI) initAsync() {
	enriched := ui.enricher.EnrichAll(ui.store.Active())
	ui.store.ApplyPrograms(enriched)

	ui.enricher.StartPeriodicRefresh(ui.config.RefreshInterval(), ui.store.Active, func(stations []station.Station) {
		ui.store.ApplyPrograms(stations)
		ui.app.QueueUpdateDraw(func() {
			ui.renderStationRows()
		})
	})

	ui.app.QueueUpdateDraw(func() {
		ui.renderStationRows()
		ui.restoreLastStation()
	})
}

func (ui *UI) restoreLastStation() {
	active := ui.store.Active()
	if len(active) == 0 {
		return
	}

	index := 0
	if ui.config.LastStation != "" {
		for i, st := range active {
			if st.ID == ui.config.LastStation {
				index = i
				break
			}
		}
	}
	ui.stationTable.Select(index+1, 0)

	if ui.config.Autoplay {
		log.Debug().Str("id", active[index].ID).Msg("Autoplay enabled, selecting last station")
		ui.controller.Select(active[index])
	}
}

func (ui *UI) setupUI() {
	header := ui.createHeader()

	ui.nowPlaying = tview.NewTextView()
	ui.nowPlaying.SetDynamicColors(true)
	ui.nowPlaying.SetBorder(true).
		SetTitle(" 지금 방송중 ").
		SetBorderColor(ui.colors.borders).
		SetTitleColor(ui.colors.foreground).
		SetBackgroundColor(ui.colors.background)
	ui.nowPlaying.SetText(idleText)

	ui.stationTable = ui.createStationTable()
	ui.excludedTable = ui.createExcludedTable()
	ui.footer = ui.createFooter()

	ui.mainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, HeaderHeight, 0, false).
		AddItem(ui.nowPlaying, NowPlayingHeight, 0, false).
		AddItem(ui.stationTable, 0, 1, true).
		AddItem(ui.footer, FooterHeight, 0, false)
	ui.mainLayout.SetBackgroundColor(ui.colors.background)

	excludedLayout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, HeaderHeight, 0, false).
		AddItem(ui.excludedTable, 0, 1, true).
		AddItem(ui.footer, FooterHeight, 0, false)
	excludedLayout.SetBackgroundColor(ui.colors.background)

	ui.pages = tview.NewPages().
		AddPage("main", ui.mainLayout, true, true).
		AddPage("excluded", excludedLayout, true, false)
	ui.pages.SetBackgroundColor(ui.colors.background)

	ui.app.SetRoot(ui.pages, true).EnableMouse(true)
	ui.app.SetFocus(ui.stationTable)

	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if ui.pages.HasPage("modal") {
			return event
		}
		return ui.globalInputHandler(event)
	})

	ui.renderStationRows()
	ui.renderFooter()
}

func (ui *UI) createHeader() tview.Primitive {
	titleView := tview.NewTextView()
	titleView.SetText(" " + config.AppName + " · " + config.AppTagline)
	titleView.SetTextAlign(tview.AlignLeft)
	titleView.SetTextColor(ui.colors.foreground)
	titleView.SetBackgroundColor(ui.colors.headerBackground)

	versionView := tview.NewTextView()
	versionView.SetText("v" + config.AppVersion + " ")
	versionView.SetTextAlign(tview.AlignRight)
	versionView.SetTextColor(ui.colors.foreground)
	versionView.SetBackgroundColor(ui.colors.headerBackground)

	textFlex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(titleView, 0, 1, false).
		AddItem(versionView, 10, 0, false)
	textFlex.SetBackgroundColor(ui.colors.headerBackground)

	topSpacer := tview.NewBox().SetBackgroundColor(ui.colors.headerBackground)
	bottomSpacer := tview.NewBox().SetBackgroundColor(ui.colors.headerBackground)

	headerFlex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topSpacer, 1, 0, false).
		AddItem(textFlex, 1, 0, false).
		AddItem(bottomSpacer, 1, 0, false)
	headerFlex.SetBackgroundColor(ui.colors.headerBackground)

	return headerFlex
}

func (ui *UI) onSessionChange(snap session.Snapshot) {
	ui.mu.Lock()
	autoplayURL := ""
	if snap.State == session.StateReady && snap.StreamURL != "" &&
		(ui.lastSnapshot.State != session.StateReady || ui.lastSnapshot.StreamURL != snap.StreamURL) {
		autoplayURL = snap.StreamURL
	}
	ui.lastSnapshot = snap
	ui.mu.Unlock()

	if autoplayURL != "" {
		go func() {
			if err := ui.engine.Play(autoplayURL); err != nil {
				log.Error().Err(err).Msg("Failed to start playback")
			}
		}()
	}

	ui.app.QueueUpdateDraw(func() {
		ui.renderNowPlaying(snap)
		ui.renderStationRows()
		ui.renderFooter()
	})
}

func (ui *UI) startAnimation() {
	ui.spinner = NewPlayingSpinner()

	ui.mu.Lock()
	stopCh := ui.stopUpdates
	ui.mu.Unlock()

	go func() {
		ticker := time.NewTicker(ui.spinner.FPS)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				ui.mu.Lock()
				ui.animationFrame++
				playing := ui.engine.IsPlaying()
				ui.mu.Unlock()
				if playing {
					ui.app.QueueUpdateDraw(func() {
						ui.renderStationRows()
					})
				}
			}
		}
	}()
}

type PlayingSpinner struct {
	Frames []string
	FPS    time.Duration
}

func NewPlayingSpinner() *PlayingSpinner {
	return &PlayingSpinner{
		Frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
		FPS:    time.Second / 10,
	}
}

func (ui *UI) playingIndicator() string {
	if ui.spinner == nil {
		ui.spinner = NewPlayingSpinner()
	}
	return ui.spinner.Frames[ui.animationFrame%len(ui.spinner.Frames)]
}

func (ui *UI) adjustVolume(delta int) {
	ui.mu.Lock()
	ui.isMuted = false
	ui.currentVolume = config.ClampVolume(ui.currentVolume + delta)
	volume := ui.currentVolume
	ui.mu.Unlock()

	ui.engine.SetVolume(volume)
	ui.renderFooter()
}

func (ui *UI) toggleMute() {
	ui.mu.Lock()
	ui.isMuted = !ui.isMuted
	muted := ui.isMuted
	volume := ui.currentVolume
	ui.mu.Unlock()

	if muted {
		ui.engine.SetVolume(0)
	} else {
		ui.engine.SetVolume(volume)
	}
	ui.renderFooter()
}

func (ui *UI) globalInputHandler(event *tcell.EventKey) *tcell.EventKey {
	onExcluded := ui.isExcludedPageVisible()

	switch event.Key() {
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q', 'Q':
			ui.stop()
			return nil
		case ' ':
			if ui.engine.IsPlaying() || ui.engine.IsPaused() {
				ui.engine.TogglePause()
			} else if !onExcluded {
				ui.selectHighlighted()
			}
			return nil
		case 'n', '>':
			ui.controller.Next()
			return nil
		case 'p', '<':
			ui.controller.Previous()
			return nil
		case 'J':
			if !onExcluded {
				ui.moveHighlighted(1)
			}
			return nil
		case 'K':
			if !onExcluded {
				ui.moveHighlighted(-1)
			}
			return nil
		case 'x', 'X':
			if !onExcluded {
				ui.excludeHighlighted()
			}
			return nil
		case 'u', 'U':
			if onExcluded {
				ui.restoreHighlighted()
			}
			return nil
		case 'e', 'E':
			ui.toggleExcludedPage()
			return nil
		case 's', 'S':
			if !onExcluded {
				ui.showScheduleModal()
			}
			return nil
		case 'R':
			ui.showResetConfirmModal()
			return nil
		case '+', '=':
			ui.adjustVolume(VolumeStep)
			return nil
		case '-', '_':
			ui.adjustVolume(-VolumeStep)
			return nil
		case 'm', 'M':
			ui.toggleMute()
			return nil
		case '?':
			ui.showHelpModal()
			return nil
		}
	case tcell.KeyEnter:
		if onExcluded {
			ui.restoreHighlighted()
		} else {
			ui.selectHighlighted()
		}
		return nil
	case tcell.KeyEscape:
		if onExcluded {
			ui.toggleExcludedPage()
		} else {
			ui.stop()
		}
		return nil
	case tcell.KeyRight:
		ui.adjustVolume(VolumeStep)
		return nil
	case tcell.KeyLeft:
		ui.adjustVolume(-VolumeStep)
		return nil
	}
	return event
}

func (ui *UI) isExcludedPageVisible() bool {
	name, _ := ui.pages.GetFrontPage()
	return name == "excluded"
}

func (ui *UI) toggleExcludedPage() {
	if ui.isExcludedPageVisible() {
		ui.pages.SwitchToPage("main")
		ui.app.SetFocus(ui.stationTable)
		return
	}
	ui.renderExcludedRows()
	ui.pages.SwitchToPage("excluded")
	ui.app.SetFocus(ui.excludedTable)
}
