package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/qwer999/radio/internal/config"
	"github.com/qwer999/radio/internal/player"
	"github.com/qwer999/radio/internal/playlist"
	"github.com/qwer999/radio/internal/resolver"
	"github.com/qwer999/radio/internal/schedule"
	"github.com/qwer999/radio/internal/service"
	"github.com/qwer999/radio/internal/session"
	"github.com/qwer999/radio/internal/storage"
	"github.com/qwer999/radio/internal/ui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	debugFlag   = flag.Bool("debug", false, "Enable debug logging")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s - %s\n\n", config.AppName, config.AppVersion, config.AppTagline)
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()

		configPath, err := config.GetConfigPath()
		if err == nil {
			if _, statErr := os.Stat(configPath); statErr == nil {
				fmt.Fprintf(os.Stderr, "\nConfig file: %s\n", configPath)
			} else {
				fmt.Fprintf(os.Stderr, "\nConfig file will be created on first use.\n")
			}
		}
	}
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		fmt.Println(config.AppTagline)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir, err = storage.DefaultDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not get data dir: %v\n", err)
			dataDir = os.TempDir()
		}
	}

	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)

		if err := os.MkdirAll(dataDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log dir: %v\n", err)
		}
		logPath := filepath.Join(dataDir, "debug.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log file: %v\n", err)
			logFile = os.Stderr
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, TimeFormat: "15:04:05"})
		fmt.Printf("Debug log: %s\n", logPath)
		log.Info().Msgf("Starting %s v%s (debug mode)", config.AppName, config.AppVersion)
	} else {
		// Avoid TUI corruption by only logging errors to /dev/null
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		logFile, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0644)
		if err == nil {
			log.Logger = log.Output(logFile)
		}
	}

	if *debugFlag {
		if configPath, err := config.GetConfigPath(); err == nil {
			log.Debug().Msgf("Config: %s", configPath)
		}
		log.Debug().Msgf("Data: %s", dataDir)
	}

	store := storage.NewFileStore(dataDir)
	cache := schedule.NewCache(store)
	mbc := schedule.NewMBCClient(cache)
	kbs := schedule.NewKBSClient(cache)
	sbs := schedule.NewSBSClient(cache)

	lists := playlist.NewStore(store)
	enricher := service.NewEnricher(mbc, kbs, sbs)
	listings := service.NewListings(mbc, kbs, sbs)

	engine := player.NewEngine()
	controller := session.NewController(lists, resolver.New(cfg.RelayURL), engine)
	lists.SetSelectionGuard(controller)
	engine.OnStateChange(controller.HandleEngineState)

	radioUI := ui.NewUI(cfg, lists, enricher, listings, controller, engine)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	uiDone := make(chan error, 1)

	go func() {
		<-sigChan
		if *debugFlag {
			log.Info().Msg("Received shutdown signal, cleaning up...")
		}
		radioUI.Shutdown()
	}()

	if *debugFlag {
		log.Info().Msg("Starting UI...")
	}

	// Run UI in a goroutine so we can handle signals properly
	go func() {
		uiDone <- radioUI.Run()
	}()

	if err := <-uiDone; err != nil {
		if *debugFlag {
			log.Error().Err(err).Msg("Error running UI")
		}
		engine.Stop()
		os.Exit(1)
	}

	// Ensure playback is fully stopped before exiting
	engine.Stop()
	if *debugFlag {
		log.Info().Msg("KRadio stopped")
	}
}
