package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/coresync-labs/pushlog/internal/cliconfig"
	"github.com/coresync-labs/pushlog/internal/history"
	"github.com/coresync-labs/pushlog/internal/repwatch"
	"github.com/coresync-labs/pushlog/pkg/coresync"
)

const helpBanner = `
 ______ _     _ _______ _     _        _____   ______
|_____] |     | |______ |_____| |     |     | |  ____
|       |_____| ______| |     | |_____|_____| |_____|
`

const helpDescription = `
Report your workout sessions to CoreSync from the terminal.

Highlights:
  - Posts rep counts to the CoreSync API with your pre-issued token.
  - Keeps a local SQLite history of every workout the service accepted.
  - Watches your rep-log CSV and auto-logs sessions as they finish.
  - Configure via file, environment (PUSHLOG_*), or flags.

Generate a token in CoreSync settings (starts with cs_) before first use.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  pushlog test --api-token cs_...
  pushlog log --reps 30 --exercise Squats --sets 3
  pushlog watch --csv ~/notebooks/pushup_log.csv
  pushlog history --limit 10
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	// Load config file first (default $HOME/.pushlog/config.toml), then
	// env, then flag overrides.
	resolve := func(cmd *cobra.Command) error {
		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		// Build set of changed flags
		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}

		// Environment variables override file config but lose to flags
		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		// Log configuration (masking the token)
		logCfg := cfg
		if len(logCfg.APIToken) > 0 {
			logCfg.APIToken = "*****"
		}
		log.Debug().Interface("config", logCfg).Msg("configuration")
		return nil
	}

	// record writes accepted workouts to the local history database.
	// History failures never fail the log itself.
	record := func(w coresync.Workout, res *coresync.LogResult) {
		db, err := history.Open(cfg.HistoryDB, log)
		if err != nil {
			log.Warn().Err(err).Msg("history unavailable")
			return
		}
		defer db.Close()

		entry := history.Entry{
			WorkoutID: res.WorkoutID,
			Exercise:  w.ExerciseName,
			Reps:      w.Reps,
			Sets:      w.Sets,
			Calories:  res.Calories,
		}
		if err := db.Record(entry); err != nil {
			log.Warn().Err(err).Msg("record history")
		}
	}

	newClient := func() (*coresync.Client, error) {
		return coresync.NewClient(coresync.Config{
			ServiceURL:      cfg.ServiceURL,
			APIToken:        cfg.APIToken,
			DefaultExercise: cfg.Exercise,
		},
			coresync.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
			coresync.WithLogger(log),
			coresync.WithResultHook(record),
		)
	}

	root := &cobra.Command{
		Use:           "pushlog",
		Short:         "Report your workout sessions to CoreSync from the terminal",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.pushlog/config.toml)")
	root.PersistentFlags().StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, fmt.Sprintf("base service URL (defaults to %s)", cliconfig.DefaultServiceURL))
	root.PersistentFlags().StringVar(&cfg.APIToken, "api-token", cfg.APIToken, "CoreSync API token")
	root.PersistentFlags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	root.PersistentFlags().StringVar(&cfg.Exercise, "exercise", cfg.Exercise, "default exercise name")
	root.PersistentFlags().StringVar(&cfg.HistoryDB, "history-db", cfg.HistoryDB, "path to local history database (default: $HOME/.pushlog/history.db)")

	var (
		reps  int
		sets  int
		notes string
	)
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Log a single workout to CoreSync",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}

			w := coresync.Workout{
				ExerciseName: cfg.Exercise,
				Reps:         reps,
				Sets:         sets,
				Notes:        notes,
			}
			result, err := c.LogWorkout(cmd.Context(), w)
			if err != nil {
				return fmt.Errorf("log workout: %w", err)
			}
			fmt.Printf("Logged %d reps of %s (workout %s, %.1f kcal)\n", reps, cfg.Exercise, result.WorkoutID, result.Calories)
			return nil
		},
	}
	logCmd.Flags().IntVar(&reps, "reps", 0, "total repetitions completed")
	logCmd.Flags().IntVar(&sets, "sets", 1, "number of sets")
	logCmd.Flags().StringVar(&notes, "notes", "", "optional workout notes")
	_ = logCmd.MarkFlagRequired("reps")

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Check that your token and connection work",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}

			if !c.TestConnection(cmd.Context()) {
				fmt.Println("Connection failed. Check your API token and internet connection.")
				return errors.New("connection test failed")
			}
			fmt.Println("Connection successful! You're ready to go.")
			return nil
		},
	}

	var sessionReps int
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Log the total reps of a finished session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}

			if sessionReps <= 0 {
				// Matches the tracker's behavior: an empty session is a no-op.
				fmt.Println("No reps recorded in this session")
				return nil
			}
			if !c.LogSessionSummary(cmd.Context(), sessionReps) {
				return errors.New("session not logged")
			}
			return nil
		},
	}
	sessionCmd.Flags().IntVar(&sessionReps, "reps", 0, "total repetitions in the session")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a rep-log CSV and auto-log sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}

			w := repwatch.New(cfg.WatchCSV, cfg.Debounce, c, log)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Info().Msg("received signal, stopping...")
				cancel()
			}()

			return w.Run(ctx)
		},
	}
	watchCmd.Flags().StringVar(&cfg.WatchCSV, "csv", cfg.WatchCSV, "rep-log CSV file to watch")
	watchCmd.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period before a session counts as finished")

	var historyLimit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently logged workouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}

			db, err := history.Open(cfg.HistoryDB, log)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer db.Close()

			entries, err := db.Recent(historyLimit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("No workouts logged yet")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %-12s %4d reps x %d  %6.1f kcal  %s\n",
					e.LoggedAt.Local().Format(time.RFC3339), e.Exercise, e.Reps, e.Sets, e.Calories, e.WorkoutID)
			}
			return nil
		},
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")

	root.AddCommand(logCmd, testCmd, sessionCmd, watchCmd, historyCmd)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("pushlog")
		os.Exit(1)
	}
}
