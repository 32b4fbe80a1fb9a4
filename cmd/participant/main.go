package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/crowdstage/live/clients/stageapi"
	"github.com/crowdstage/live/internal/credentials"
	"github.com/crowdstage/live/internal/join"
	"github.com/crowdstage/live/internal/live/questions"
	"github.com/crowdstage/live/internal/models"
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

	store, err := credentials.OpenFile(config.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credentials store")
	}

	api := stageapi.NewClient(config.BackendURL)
	negotiator := join.New(api, store, join.WithOnChange(func(s join.State) {
		log.Info().Str("state", string(s.Kind)).Msg("join state changed")
	}))
	defer negotiator.Close()

	state, err := completeJoin(ctx, negotiator, config)
	if err != nil {
		log.Fatal().Err(err).Str("code", config.SessionCode).Msg("failed to join session")
	}
	log.Info().
		Str("session_id", state.SessionID).
		Str("participant_id", state.ParticipantID).
		Str("entry_mode", string(state.Mode)).
		Msg("joined session")

	if err := negotiator.StartHeartbeat(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start heartbeat")
	}

	if config.ModuleID == "" {
		log.Info().Msg("no module_id configured, idling until interrupted")
		<-ctx.Done()
		return
	}

	token, err := credentials.Authoritative(store, state.Mode)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve credential")
	}
	view := questions.NewView(api, state.SessionID, config.ModuleID, token)
	view.Start(ctx)
	defer view.Stop()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case <-ticker.C:
			printQuestions(view.Questions())
		}
	}
}

// completeJoin drives the negotiator from session load to the joined
// state, handling whichever entry mode the session advertises.
func completeJoin(ctx context.Context, negotiator *join.Negotiator, config *Config) (join.State, error) {
	state := negotiator.LoadSession(ctx, config.SessionCode)
	for {
		switch state.Kind {
		case join.KindJoined:
			return state, nil
		case join.KindFailed:
			return state, errors.New(state.Message)
		case join.KindLoginRedirect:
			return state, fmt.Errorf("login required, visit %s and set a user token", state.ReturnPath)
		case join.KindNotAvailable:
			return state, errors.New("this entry mode has no flow here, join from the web app")
		case join.KindSessionInfo:
			switch state.Session.EntryMode {
			case models.EntryAnonymous:
				state = negotiator.JoinAnonymous(ctx, config.DisplayName)
			case models.EntryEmailCode:
				email, err := promptLine("email: ")
				if err != nil {
					return state, err
				}
				state = negotiator.RequestEmailCode(ctx, email)
			default:
				return state, fmt.Errorf("cannot drive entry mode %q from here", state.Session.EntryMode)
			}
			if state.Kind == join.KindSessionInfo && state.Message != "" {
				return state, errors.New(state.Message)
			}
		case join.KindEmailRequest:
			prompt := fmt.Sprintf("code sent to %s: ", state.Email)
			if state.DevCode != "" {
				prompt = fmt.Sprintf("code sent to %s (dev code: %s): ", state.Email, state.DevCode)
			}
			code, err := promptLine(prompt)
			if err != nil {
				return state, err
			}
			next := negotiator.VerifyEmailCode(ctx, code, config.DisplayName)
			if next.Kind == join.KindEmailRequest && next.Message != "" {
				log.Warn().Str("reason", next.Message).Msg("code rejected, try again")
			}
			state = next
		default:
			return state, fmt.Errorf("unexpected join state %q", state.Kind)
		}
	}
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printQuestions(list []models.Question) {
	fmt.Printf("--- %d questions ---\n", len(list))
	for _, q := range list {
		marker := " "
		if q.PinnedAt != nil {
			marker = "*"
		}
		author := "anonymous"
		if q.AuthorDisplayName != nil {
			author = *q.AuthorDisplayName
		}
		fmt.Printf("%s [%3d] %s (%s)\n", marker, q.LikesCount, q.Content, author)
		for _, reply := range q.Children {
			fmt.Printf("      > %s\n", reply.Content)
		}
	}
}
