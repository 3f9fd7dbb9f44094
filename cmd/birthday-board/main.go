package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cwkr/birthday-board/internal/birthdays"
	"github.com/cwkr/birthday-board/internal/fileutil"
	"github.com/cwkr/birthday-board/internal/logger"
	"github.com/cwkr/birthday-board/internal/oauth2"
	"github.com/cwkr/birthday-board/internal/people"
	"github.com/cwkr/birthday-board/internal/server"
	"github.com/joho/godotenv"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

var version = "v0.0.0-dev"

func main() {
	var (
		settingsFilename string
		saveSettings     bool
		once             bool
		printVersion     bool
	)

	pflag.StringVarP(&settingsFilename, "config", "c", "", "settings file name")
	pflag.BoolVar(&saveSettings, "save", false, "save settings and exit")
	pflag.BoolVar(&once, "once", false, "refresh once, print the result as json and exit")
	pflag.BoolVar(&printVersion, "version", false, "print version and exit")
	pflag.Parse()

	if printVersion {
		fmt.Printf("birthday-board %s %s\n", version, runtime.Version())
		return
	}

	// a missing .env is fine
	_ = godotenv.Load()

	settingsFilename = fileutil.ProbeSettingsFilename(settingsFilename, ".", "birthday-board")

	var settings = server.NewDefaultSettings()
	if err := settings.Load(settingsFilename); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errors.ErrorStack(err))
		os.Exit(2)
	}

	if saveSettings {
		fmt.Printf("Saving settings file %s\n", settingsFilename)
		var settingsJSON, _ = json.MarshalIndent(settings, "", "  ")
		if err := os.WriteFile(settingsFilename, settingsJSON, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		return
	}

	settings.ApplyEnvironment()

	var log = logger.New(settings.Log)

	if err := run(settings, server.SettingsDir(settingsFilename), once, log); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}

func run(settings *server.Settings, basePath string, once bool, log *logrus.Logger) error {
	if err := settings.Validate(); err != nil {
		return errors.Trace(err)
	}

	var httpClient = &http.Client{Timeout: settings.HTTPClientTimeout()}

	var store, err = people.NewStore(settings.PeopleStore, basePath, settings.People, httpClient, log)
	if err != nil {
		return errors.Trace(err)
	}

	var finderConfig = settings.FinderConfig()
	finderConfig.Log = log
	var finder = birthdays.NewFinder(store, finderConfig)

	var boardConfig = settings.BoardConfig()
	boardConfig.Log = log
	var board = birthdays.NewBoard(finder, boardConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once {
		result, err := board.Refresh(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		var encoder = json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return errors.Trace(encoder.Encode(server.NewResultResponse(result, settings.BasePath)))
	}

	var tokenVerifier oauth2.TokenVerifier
	if settings.RequireJWT {
		if err := settings.LoadKeys(basePath); err != nil {
			return errors.Trace(err)
		}
		tokenVerifier = oauth2.NewTokenVerifier(settings.PublicKeys())
	}

	var router = server.NewRouter(settings.BasePath, version, board, tokenVerifier, log)

	go board.Run(ctx, settings.RefreshEvery())

	var srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", settings.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var done = make(chan error, 1)
	go func() {
		log.Infof("Listening on http://localhost:%d%s/", settings.Port, settings.BasePath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			done <- errors.Trace(err)
		}
		close(done)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Trace(srv.Shutdown(shutdownCtx))
}
