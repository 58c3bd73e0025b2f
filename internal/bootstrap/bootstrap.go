package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"
	"go.uber.org/multierr"

	journalinadapter "roictl/internal/modules/journal/adapter/in"
	journaloutadapter "roictl/internal/modules/journal/adapter/out"
	journalout "roictl/internal/modules/journal/port/out"
	journalservice "roictl/internal/modules/journal/service"
	journalusecase "roictl/internal/modules/journal/usecase"
	predictioninadapter "roictl/internal/modules/prediction/adapter/in"
	predictionoutadapter "roictl/internal/modules/prediction/adapter/out"
	predictionin "roictl/internal/modules/prediction/port/in"
	predictionservice "roictl/internal/modules/prediction/service"
	predictionusecase "roictl/internal/modules/prediction/usecase"
	roiinadapter "roictl/internal/modules/roi/adapter/in"
	roioutadapter "roictl/internal/modules/roi/adapter/out"
	roidomain "roictl/internal/modules/roi/domain"
	roiservice "roictl/internal/modules/roi/service"
	roiusecase "roictl/internal/modules/roi/usecase"
	"roictl/internal/platform/clock"
	"roictl/internal/platform/config"
	"roictl/internal/platform/httpapi"
	"roictl/internal/platform/id"
	uiapp "roictl/internal/ui/app"
)

type App struct {
	Config config.Config
	Logger hclog.Logger

	ROICLI        roiinadapter.CLIHandler
	ROITUI        roiinadapter.TUIHandler
	PredictionCLI predictioninadapter.CLIHandler
	PredictionTUI predictioninadapter.TUIHandler
	JournalCLI    journalinadapter.CLIHandler

	prediction   predictionin.Usecase
	journalStore journalout.Store
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	clk := clock.NewSystemClock()
	ids := id.RandomHex{}
	backend := httpapi.New(cfg.BackendURL, nil)

	journalStore, err := journaloutadapter.NewSQLiteStore(cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("new journal store: %w", err)
	}
	journalUC := journalusecase.NewInteractor(journalservice.NewJournalService(clk, journalStore))

	channel := predictionservice.NewChannel(
		predictionoutadapter.NewWSDialer(cfg.ChannelURL(), nil),
		clk,
		predictionservice.ChannelOptions{
			Delay:  cfg.Channel.ReconnectDelay,
			Policy: predictionservice.ReconnectPolicy(cfg.Channel.Reconnect),
		},
		logger.Named("prediction"),
	)
	predictionUC := predictionusecase.NewInteractor(predictionservice.NewController(predictionservice.ControllerDeps{
		Channel:  channel,
		Control:  predictionoutadapter.NewHTTPControl(backend),
		Models:   predictionoutadapter.NewHTTPModelStore(backend),
		Recorder: predictionoutadapter.NewJournalRecorder(journalUC),
		IDs:      ids,
		Clock:    clk,
		Logger:   logger.Named("prediction"),

		JournalEvery: cfg.Channel.JournalEvery,
	}))

	frame := roidomain.Frame{
		DisplayWidth:  cfg.Display.Width,
		DisplayHeight: cfg.Display.Height,
		NativeWidth:   cfg.Video.NativeWidth,
		NativeHeight:  cfg.Video.NativeHeight,
	}
	selectionSvc := roiservice.NewSelectionService(
		frame,
		cfg.Selection.DefaultSide,
		roidomain.Thresholds{ResetBelow: cfg.Selection.ResetBelow, MinSide: cfg.Selection.MinSide},
		predictionUC,
	)
	if cfg.Selection.StartsDisabled {
		selectionSvc.SetDisabled(true)
	}
	roiUC := roiusecase.NewInteractor(
		selectionSvc,
		roioutadapter.NewHTTPCropStore(backend),
		roioutadapter.NewJournalRecorder(journalUC),
		logger.Named("roi"),
	)

	return &App{
		Config:        cfg,
		Logger:        logger,
		ROICLI:        roiinadapter.NewCLIHandler(roiUC),
		ROITUI:        roiinadapter.NewTUIHandler(roiUC),
		PredictionCLI: predictioninadapter.NewCLIHandler(predictionUC),
		PredictionTUI: predictioninadapter.NewTUIHandler(predictionUC),
		JournalCLI:    journalinadapter.NewCLIHandler(journalUC),
		prediction:    predictionUC,
		journalStore:  journalStore,
	}, nil
}

// Close stops the prediction controller and releases the journal.
func (a *App) Close(ctx context.Context) error {
	err := a.prediction.Shutdown(ctx)
	if a.journalStore != nil {
		err = multierr.Append(err, a.journalStore.Close())
	}
	return err
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Config.BackendURL, app.ROITUI, app.PredictionTUI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	unsubscribe := app.PredictionTUI.Subscribe(uiapp.NewListener(program.Send))
	defer unsubscribe()
	_, err := program.Run()
	return err
}
