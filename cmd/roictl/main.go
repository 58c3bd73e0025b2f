package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"roictl/internal/bootstrap"
	predictiondto "roictl/internal/modules/prediction/dto"
	"roictl/internal/platform/config"
	"roictl/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	backendURL string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "roictl",
		Short:         "ROI selection and live prediction console for the edge inference backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "roictl.yaml", "config file (optional)")
	root.PersistentFlags().StringVar(&flags.backendURL, "backend", "", "backend base URL (overrides config)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: trace|debug|info|warn|error")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newCropCmd(flags))
	root.AddCommand(newPredictCmd(flags))
	root.AddCommand(newModelCmd(flags))
	root.AddCommand(newFilterCmd(flags))
	root.AddCommand(newJournalCmd(flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flags.backendURL != "" {
		cfg.BackendURL = flags.backendURL
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadApp builds the app logging to logPath, or to stderr when it is empty.
func loadApp(flags *rootFlags, logToFile bool) (*bootstrap.App, io.Closer, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	logPath := ""
	if logToFile {
		logPath = cfg.LogPath
	}
	logger, logCloser, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}
	return app, logCloser, nil
}

// withApp runs fn against a fresh app and tears it down afterwards.
func withApp(flags *rootFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, logCloser, err := loadApp(flags, false)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	ctx := context.Background()
	runErr := fn(ctx, app)
	if closeErr := app.Close(ctx); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return runErr
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the operator console",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, logCloser, err := loadApp(flags, true)
			if err != nil {
				return err
			}
			defer logCloser.Close()
			runErr := bootstrap.RunTUI(app)
			if closeErr := app.Close(context.Background()); closeErr != nil && runErr == nil {
				runErr = closeErr
			}
			return runErr
		},
	}
}

func newCropCmd(flags *rootFlags) *cobra.Command {
	crop := &cobra.Command{Use: "crop", Short: "Region of interest commands"}

	crop.AddCommand(&cobra.Command{
		Use:   "drag <from-x> <from-y> <to-x> <to-y>",
		Short: "Replay a drag in display pixels and persist the resulting crop",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords := make([]float64, len(args))
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("coordinate %q: %w", arg, err)
				}
				coords[i] = v
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ROICLI.Drag(ctx, coords[0], coords[1], coords[2], coords[3])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				r := out.Selection.Rect
				_, _ = fmt.Fprintf(w, "verdict: %s\n", out.Verdict)
				_, _ = fmt.Fprintf(w, "rect: x=%.2f y=%.2f side=%.2f\n", r.X, r.Y, r.Width)
				_, _ = fmt.Fprintf(w, "crop: %s\n", out.Selection.CropText)
				if out.Warning != "" {
					_, _ = fmt.Fprintf(w, "warning: %s\n", out.Warning)
				}
				return nil
			})
		},
	})

	crop.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the last persisted crop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ROICLI.Last(ctx)
				if err != nil {
					return err
				}
				if !out.Found {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no crop recorded")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "crop: %s\n", out.CropText)
				return nil
			})
		},
	})
	return crop
}

func newPredictCmd(flags *rootFlags) *cobra.Command {
	predict := &cobra.Command{Use: "predict", Short: "Continuous inference commands"}

	predict.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the backend inference loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.PredictionCLI.Start(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "inference started")
				return nil
			})
		},
	})

	predict.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the backend inference loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.PredictionCLI.Stop(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "inference stopped")
				return nil
			})
		},
	})

	predict.AddCommand(&cobra.Command{
		Use:   "once",
		Short: "Run a single inference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				res, err := app.PredictionCLI.Once(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
				return nil
			})
		},
	})

	var start, asJSON bool
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Stream classifications until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				printer := &watchPrinter{w: cmd.OutOrStdout(), json: asJSON}
				return app.PredictionCLI.Watch(ctx, start, printer)
			})
		},
	}
	watch.Flags().BoolVar(&start, "start", false, "start a prediction session and stop it on exit")
	watch.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per result")

	predict.AddCommand(watch)
	return predict
}

type watchPrinter struct {
	w    io.Writer
	json bool
}

func (p *watchPrinter) OnClassification(c predictiondto.ClassificationOutput) {
	if p.json {
		_ = json.NewEncoder(p.w).Encode(map[string]any{
			"classification":   c.Label,
			"confidence-score": c.Confidence,
			"at":               c.At,
		})
		return
	}
	_, _ = fmt.Fprintf(p.w, "%s  %s\n", c.At.Local().Format("15:04:05"), c.Text)
}

func (p *watchPrinter) OnState(predictiondto.StateOutput) {}

func newModelCmd(flags *rootFlags) *cobra.Command {
	model := &cobra.Command{Use: "model", Short: "Model management commands"}

	model.AddCommand(&cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a model file to the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.PredictionCLI.UploadModel(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "model loaded: %s\n", state.ModelLabel)
				return nil
			})
		},
	})

	model.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the model the backend has loaded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.PredictionCLI.ModelStatus(ctx)
				if err != nil {
					return err
				}
				if !status.Loaded {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no model loaded")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "model loaded: %s\n", status.Label)
				return nil
			})
		},
	})
	return model
}

func newFilterCmd(flags *rootFlags) *cobra.Command {
	filter := &cobra.Command{Use: "filter", Short: "Result filter commands"}
	filter.AddCommand(&cobra.Command{
		Use:   "set <value>",
		Short: "Set how many consecutive agreeing results the backend requires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("filter value %q: must be an integer", args[0])
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.PredictionCLI.SetFilter(ctx, value); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "filter set to %d\n", value)
				return nil
			})
		},
	})
	return filter
}

func newJournalCmd(flags *rootFlags) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Local activity journal"}

	var kind string
	var limit int
	var asJSON bool
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show the most recent journal entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				entries, err := app.JournalCLI.Tail(ctx, kind, limit)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(entries)
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(w, "no entries")
					return nil
				}
				for _, e := range entries {
					session := ""
					if e.SessionID != "" {
						session = " [" + e.SessionID + "]"
					}
					_, _ = fmt.Fprintf(w, "%s  %-16s %s%s\n", e.At.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Detail, session)
				}
				return nil
			})
		},
	}
	tail.Flags().StringVar(&kind, "kind", "", "filter by kind: crop|model|filter|prediction-start|prediction-stop|classification")
	tail.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	tail.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	journal.AddCommand(tail)
	return journal
}
