package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/crowdstage/live/clients/stageapi"
	"github.com/crowdstage/live/internal/live/timerview"
	"github.com/crowdstage/live/internal/models"
	"github.com/crowdstage/live/internal/queue"
	"github.com/crowdstage/live/internal/roster"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	config, err := loadConfig(getEnv("CROWDSTAGE_CONFIG", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := stageapi.NewClient(config.BackendURL)

	orchestrator := queue.New(api, config.SessionID, config.UserToken)
	orchestrator.Start(ctx)
	defer orchestrator.Stop()

	tracker := roster.New(api, config.SessionID, config.UserToken)
	tracker.Start(ctx)
	defer tracker.Stop()

	log.Info().Str("session_id", config.SessionID).Msg("presenter console started")

	board := &board{api: api, config: config}
	defer board.closeTimer()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case <-ticker.C:
			board.print(ctx, orchestrator, tracker)
		}
	}
}

// board renders the console view and keeps a timer view alive for
// whichever timer module is currently on stage.
type board struct {
	api    *stageapi.Client
	config *Config

	timer       *timerview.View
	timerModule string
}

func (b *board) print(ctx context.Context, orchestrator *queue.Orchestrator, tracker *roster.Tracker) {
	fmt.Printf("=== %d participants active ===\n", tracker.ActiveCount())
	active, ok := orchestrator.ActiveModule()
	b.syncTimer(ctx, active, ok)
	if ok {
		fmt.Printf("on stage: %s\n", describe(active))
		if b.timer != nil {
			fmt.Printf("  timer: %s, %s remaining\n", b.timer.Phase(), b.timer.Remaining().Round(time.Second))
		}
	} else {
		fmt.Println("on stage: (nothing)")
	}
	for i, module := range orchestrator.QueueModules() {
		fmt.Printf("  %d. %s\n", i+1, describe(module))
	}
}

// syncTimer starts or stops the timer view as timer modules move on
// and off stage.
func (b *board) syncTimer(ctx context.Context, active models.SessionModule, ok bool) {
	wantTimer := ok && active.Type == models.ModuleTimer
	if wantTimer && active.ID == b.timerModule {
		return
	}
	b.closeTimer()
	if !wantTimer {
		return
	}
	b.timer = timerview.NewView(b.api, b.config.SessionID, active.ID, b.config.UserToken)
	b.timer.Start(ctx)
	b.timerModule = active.ID
}

func (b *board) closeTimer() {
	if b.timer == nil {
		return
	}
	b.timer.Stop()
	b.timer = nil
	b.timerModule = ""
}

func describe(module models.SessionModule) string {
	if module.Name != "" {
		return fmt.Sprintf("%s [%s]", module.Name, module.Type)
	}
	return string(module.Type)
}
