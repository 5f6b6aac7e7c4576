package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/awakening/internal/audio"
	"github.com/jwebster45206/awakening/internal/config"
	"github.com/jwebster45206/awakening/internal/logger"
	"github.com/jwebster45206/awakening/internal/services/events"
	"github.com/jwebster45206/awakening/internal/storage"
	"github.com/jwebster45206/awakening/pkg/story"
)

// cues listens on the cue bus and plays what a game session emits. Pass a
// session ID to follow one session; with no argument every session is heard.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = closer.Close() // Ignore error in defer
	}()

	if cfg.RedisURL == "" {
		log.Error("REDIS_URL is required")
		os.Exit(1)
	}

	sessionID := uuid.Nil
	if len(os.Args) > 1 {
		sessionID, err = uuid.Parse(os.Args[1])
		if err != nil {
			log.Error("Invalid session ID", "arg", os.Args[1], "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	content, err := resolveContent(ctx, storage.NewFileStorage(cfg.DataDir, log), cfg.ContentFile)
	if err != nil {
		log.Error("Failed to load content for audio bank", "error", err)
		os.Exit(1)
	}

	mixer := audio.NewMixer()
	mixer.SetMaster(cfg.Audio.MasterVolume)
	mixer.SetMusic(cfg.Audio.MusicVolume)
	mixer.SetSFX(cfg.Audio.SFXVolume)
	mixer.SetVoice(cfg.Audio.VoiceVolume)
	router := audio.NewRouter(content.Audio, mixer, audio.LogPlayer{Logger: log}, log)

	rdb, err := events.WaitForConnection(ctx, cfg.RedisURL, log, 10, 2*time.Second)
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}()

	sub, err := events.Subscribe(ctx, rdb, sessionID, log)
	if err != nil {
		log.Error("Failed to subscribe", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = sub.Close() // Ignore error in defer
	}()

	if sessionID == uuid.Nil {
		log.Info("Listening for cues from all sessions", "content", content.FileName)
	} else {
		log.Info("Listening for cues", "channel", events.ChannelFor(sessionID), "content", content.FileName)
	}

	if err := sub.Run(ctx, router); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Cue subscription ended", "error", err)
		os.Exit(1)
	}
	log.Info("Cue listener exited")
}

// resolveContent picks CONTENT_FILE, or the only content file when there is
// exactly one.
func resolveContent(ctx context.Context, s storage.Storage, file string) (*story.Content, error) {
	if file != "" {
		return s.GetContent(ctx, file)
	}

	files, err := s.ListContent(ctx)
	if err != nil {
		return nil, err
	}
	switch len(files) {
	case 0:
		return nil, storage.ErrContentNotFound
	case 1:
		for _, f := range files {
			return s.GetContent(ctx, f)
		}
	}

	return nil, fmt.Errorf("%d content files found, set CONTENT_FILE to choose one", len(files))
}
