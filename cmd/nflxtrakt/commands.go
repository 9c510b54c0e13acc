package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/nflxtrakt/internal/api"
	"github.com/amaumene/nflxtrakt/internal/config"
	"github.com/amaumene/nflxtrakt/internal/controllers"
	"github.com/amaumene/nflxtrakt/internal/models"
	"github.com/amaumene/nflxtrakt/internal/scheduler"
	"github.com/amaumene/nflxtrakt/internal/services/netflix"
	"github.com/amaumene/nflxtrakt/internal/services/tmdb"
	"github.com/amaumene/nflxtrakt/internal/services/trakt"
	"github.com/amaumene/nflxtrakt/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newParseCommand() *cobra.Command {
	var file, output string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse the viewing history and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if file != "" {
				cfg.HistoryFile = file
			}

			entries, err := netflix.ReadFile(cfg.HistoryFile, cfg.Delimiter)
			if err != nil {
				return fmt.Errorf("failed to read viewing history: %w", err)
			}

			importCtrl := controllers.NewImportController(cfg, loadIgnoreList(cfg, logger), logger)
			h, _ := importCtrl.Import(entries)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			encoder := json.NewEncoder(w)
			encoder.SetIndent("", "  ")
			return encoder.Encode(h.Export())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "viewing history CSV (defaults to NETFLIX_HISTORY_FILE)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to this file instead of stdout")
	return cmd
}

func newSyncCommand() *cobra.Command {
	var file string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one import, TMDB lookup and Trakt sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if file != "" {
				cfg.HistoryFile = file
			}
			if dryRun {
				cfg.TraktDryRun = true
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.close()

			summary, err := app.pipeline.Run(ctx)
			if err != nil {
				return err
			}

			logger.WithFields(logrus.Fields{
				"lines":          summary.Import.Lines,
				"episodes":       summary.Sync.Episodes,
				"movies":         summary.Sync.Movies,
				"already_synced": summary.Sync.AlreadySynced,
				"added":          summary.Sync.Added,
			}).Info("Sync finished")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "viewing history CSV (defaults to NETFLIX_HISTORY_FILE)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "look everything up but do not send anything to Trakt")
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Sync on a schedule and serve status endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			logger.Info("Starting nflxtrakt")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			app, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.close()

			sched := scheduler.NewScheduler(app.pipeline, cfg.SyncSchedule, logger)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer sched.Stop()

			server := api.NewServer(cfg, api.Dependencies{
				Runs:      app.pipeline,
				Snapshots: app.importCtrl,
				Ledger:    app.db,
				Syncing:   sched.Running,
			}, logger)

			serverErrChan := make(chan error, 1)
			go func() {
				if err := server.Start(ctx); err != nil {
					serverErrChan <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			logger.Info("nflxtrakt is running")

			select {
			case err := <-serverErrChan:
				return fmt.Errorf("server error: %w", err)
			case sig := <-sigChan:
				logger.WithField("signal", sig).Info("Received shutdown signal")
				cancel()
				if err := server.Shutdown(context.Background()); err != nil {
					logger.WithError(err).Error("Error during server shutdown")
				}
			}

			logger.Info("nflxtrakt stopped")
			return nil
		},
	}
}

func newAuthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize nflxtrakt with Trakt",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			if err := cfg.ValidateSync(); err != nil {
				return err
			}

			traktClient, err := trakt.NewClient(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize Trakt client: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return authenticate(ctx, traktClient, cmd.OutOrStdout())
		},
	}
}

func newFixDatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-dates <input> <output>",
		Short: "Rewrite ISO and DD/MM/YYYY dates of an export to MM/DD/YY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer in.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("failed to create output: %w", err)
			}
			defer out.Close()

			n, err := netflix.FixDates(in, out, cfg.Delimiter)
			if err != nil {
				return err
			}

			logger.WithField("rewritten", n).Info("Dates fixed")
			return nil
		},
	}
}

// app holds the long-lived pieces shared by sync and serve
type app struct {
	db         *models.Database
	importCtrl *controllers.ImportController
	pipeline   *controllers.Pipeline
}

func newApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*app, error) {
	if err := cfg.ValidateSync(); err != nil {
		return nil, err
	}

	traktClient, err := trakt.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Trakt client: %w", err)
	}
	if !traktClient.HasToken() && !cfg.TraktDryRun {
		logger.Info("Trakt authentication required")
		if err := authenticate(ctx, traktClient, os.Stdout); err != nil {
			return nil, err
		}
	}

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Database initialized")

	importCtrl := controllers.NewImportController(cfg, loadIgnoreList(cfg, logger), logger)
	reconcileCtrl := controllers.NewReconcileController(tmdb.NewClient(cfg, logger), cfg.TMDBStrict, cfg.TMDBEpisodeLanguage, logger)
	syncCtrl := controllers.NewSyncController(db, traktClient, cfg.TraktPageSize, cfg.TraktDryRun, logger)

	return &app{
		db:         db,
		importCtrl: importCtrl,
		pipeline:   controllers.NewPipeline(cfg.HistoryFile, cfg.Delimiter, importCtrl, reconcileCtrl, syncCtrl, logger),
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

func authenticate(ctx context.Context, client *trakt.Client, w io.Writer) error {
	err := client.Authenticate(ctx, func(verificationURL, userCode string) {
		fmt.Fprintf(w, "Open %s and enter the code %s\n", verificationURL, userCode)
	})
	if err != nil {
		return fmt.Errorf("failed to authenticate with Trakt: %w", err)
	}
	return nil
}

func loadIgnoreList(cfg *config.Config, logger *logrus.Logger) *utils.IgnoreList {
	ignoreList, err := utils.LoadIgnoreList(cfg.IgnoreFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load ignore list, continuing without it")
		return utils.NewIgnoreList()
	}
	logger.WithField("terms", ignoreList.Len()).Debug("Ignore list loaded")
	return ignoreList
}
