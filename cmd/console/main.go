package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jwebster45206/awakening/internal/audio"
	"github.com/jwebster45206/awakening/internal/config"
	"github.com/jwebster45206/awakening/internal/logger"
	"github.com/jwebster45206/awakening/internal/services/events"
	"github.com/jwebster45206/awakening/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the TUI; without LOG_FILE logs are discarded.
	log := logger.Discard()
	if cfg.LogFile != "" {
		l, closer, err := logger.Setup(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = closer.Close() // Ignore error in defer
		}()
		log = l
	}

	mixer := audio.NewMixer()
	mixer.SetMaster(cfg.Audio.MasterVolume)
	mixer.SetMusic(cfg.Audio.MusicVolume)
	mixer.SetSFX(cfg.Audio.SFXVolume)
	mixer.SetVoice(cfg.Audio.VoiceVolume)

	d := &deps{
		storage:  storage.NewFileStorage(cfg.DataDir, log),
		logger:   log,
		mixer:    mixer,
		player:   audio.BellPlayer{Out: os.Stderr},
		distance: cfg.InteractionDistance,
		copyText: copyToClipboard,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	if cfg.RedisURL != "" {
		rdb, err := events.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not connect to Redis at REDIS_URL: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = rdb.Close() // Ignore error in defer
		}()

		sessionID := uuid.New()
		d.sessionID = sessionID.String()
		d.logger = logger.WithSession(log, d.sessionID)

		bc := events.NewBroadcaster(rdb, sessionID, d.logger)
		d.bus = bc
		wg.Add(1)
		go func() {
			defer wg.Done()
			bc.Run(ctx)
		}()
		d.logger.Info("Publishing cues", "channel", events.ChannelFor(sessionID))
	}

	p := tea.NewProgram(NewConsoleUI(d, cfg.ContentFile),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	_, runErr := p.Run()

	cancel()
	wg.Wait()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", runErr)
		os.Exit(1)
	}
}
