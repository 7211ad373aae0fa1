package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/appealtrack/portal/internal/config"
	"github.com/appealtrack/portal/internal/evidence"
	"github.com/appealtrack/portal/internal/hearing"
	"github.com/appealtrack/portal/internal/idam"
	"github.com/appealtrack/portal/internal/notify"
	"github.com/appealtrack/portal/internal/session"
	"github.com/appealtrack/portal/internal/session/storage/inmem"
	"github.com/appealtrack/portal/internal/session/storage/postgres"
	"github.com/appealtrack/portal/internal/task"
	"github.com/appealtrack/portal/internal/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", fmt.Sprintf("%+v", cfg)).Msg("")

	// Initialize the session storage driver
	log.Info().Str("driver", cfg.SessionStorageDriver).Msg("initializing session storage...")
	var sessions session.Storage
	switch cfg.SessionStorageDriver {
	case "postgres":
		driver := postgres.New(cfg.PostgresDSN)
		if err := driver.Initialize(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("could not initialize the session database connection")
		}
		defer driver.Close()
		sessions = driver
	default:
		driver, err := inmem.New()
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialize the in-memory session storage")
		}
		sessions = driver
	}

	// Schedule a task that sweeps expired sessions
	sweepingTask := task.NewRepeating(func() {
		n, err := sessions.TerminateExpired(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("could not terminate expired sessions")
		} else if n > 0 {
			log.Info().Int("amount", n).Msg("terminated expired sessions")
		}
	}, time.Minute)
	sweepingTask.Start()
	defer sweepingTask.Stop(true)

	// Start up the portal web service
	log.Info().Str("address", cfg.ListenAddress).Msg("starting up the portal...")
	service := &web.Service{
		Config:   cfg,
		Sessions: sessions,
		Idam: idam.NewClient(idam.Options{
			APIURL:       cfg.IdamAPIURL,
			WebURL:       cfg.IdamWebURL,
			ClientID:     cfg.IdamClientID,
			ClientSecret: cfg.IdamClientSecret,
			CallbackPath: web.PathIdamCallback,
			Timeout:      cfg.RequestTimeout,
		}),
		Hearings:      hearing.NewClient(cfg.CaseAPIURL, cfg.ServiceAuthToken, cfg.RequestTimeout),
		Evidence:      evidence.NewClient(cfg.CaseAPIURL, cfg.ServiceAuthToken, cfg.RequestTimeout),
		Subscriptions: notify.NewClient(cfg.TribunalsAPIURL, cfg.RequestTimeout),
		Tokens:        notify.NewTokenCodec(cfg.NotificationTokenSecret, 14*24*time.Hour),
	}
	serviceErrs := make(chan error, 1)
	go func() {
		if err := service.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceErrs <- err
		}
	}()
	go func() {
		err := <-serviceErrs
		log.Fatal().Err(err).Msg("the portal raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the portal...")
		service.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
