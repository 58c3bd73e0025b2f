package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"go.uber.org/multierr"

	"roictl/internal/modules/prediction/domain"
	predout "roictl/internal/modules/prediction/port/out"
	"roictl/internal/platform/clock"
	apperrors "roictl/internal/platform/errors"
	"roictl/internal/platform/id"
)

const (
	kindModel          = "model"
	kindFilter         = "filter"
	kindStart          = "prediction-start"
	kindStop           = "prediction-stop"
	kindClassification = "classification"

	recordTimeout = 2 * time.Second

	// journalQueueSize bounds classification writes waiting on the journal.
	journalQueueSize = 64
)

// DefaultJournalEvery is the minimum gap between journaled classifications
// that repeat the previous label.
const DefaultJournalEvery = time.Second

// Observer receives controller events outside the state lock.
type Observer interface {
	Classified(c domain.Classification, at time.Time)
	StateChanged(state domain.SessionState)
}

type Controller struct {
	mu        sync.Mutex
	state     domain.SessionState
	channel   *Channel
	control   predout.Control
	models    predout.ModelStore
	recorder  predout.Recorder
	ids       id.Generator
	clock     clock.Clock
	logger    hclog.Logger
	observers map[int]Observer
	nextObs   int

	journalEvery  time.Duration
	journalQ      chan classificationEntry
	journalDone   chan struct{}
	journalOnce   sync.Once
	journalClosed bool
	lastLabel     string
	lastJournaled time.Time
	dropped       int
}

type ControllerDeps struct {
	Channel  *Channel
	Control  predout.Control
	Models   predout.ModelStore
	Recorder predout.Recorder
	IDs      id.Generator
	Clock    clock.Clock
	Logger   hclog.Logger
	// JournalEvery samples repeated classifications; zero means the default.
	JournalEvery time.Duration
}

type classificationEntry struct {
	result    domain.Classification
	sessionID string
}

// NewController binds itself to the channel; video is assumed live at start.
func NewController(deps ControllerDeps) *Controller {
	if deps.IDs == nil {
		deps.IDs = id.RandomHex{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewSystemClock()
	}
	if deps.Logger == nil {
		deps.Logger = hclog.NewNullLogger()
	}
	if deps.JournalEvery <= 0 {
		deps.JournalEvery = DefaultJournalEvery
	}
	c := &Controller{
		state:     domain.SessionState{VideoPlaying: true},
		channel:   deps.Channel,
		control:   deps.Control,
		models:    deps.Models,
		recorder:  deps.Recorder,
		ids:       deps.IDs,
		clock:     deps.Clock,
		logger:    deps.Logger,
		observers: map[int]Observer{},

		journalEvery: deps.JournalEvery,
		journalQ:     make(chan classificationEntry, journalQueueSize),
		journalDone:  make(chan struct{}),
	}
	if c.channel != nil {
		c.channel.Bind(c)
	}
	return c
}

func (c *Controller) Observe(o Observer) func() {
	c.mu.Lock()
	key := c.nextObs
	c.nextObs++
	c.observers[key] = o
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.observers, key)
		c.mu.Unlock()
	}
}

func (c *Controller) Connect() {
	if c.channel != nil {
		c.channel.Open()
	}
}

func (c *Controller) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) PredictionActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Predicting
}

func (c *Controller) QuitNeedsConfirm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ExitGuard
}

// Toggle starts or stops prediction. The transition is committed before the
// backend is signalled, so a failed signal leaves the new state in place.
func (c *Controller) Toggle(ctx context.Context) (domain.SessionState, error) {
	c.mu.Lock()
	if c.state.Predicting {
		sessionID := c.state.StopPredicting()
		snap := c.state
		c.mu.Unlock()
		return snap, c.finishStop(ctx, sessionID)
	}
	if !c.state.CanPredict() {
		snap := c.state
		c.mu.Unlock()
		return snap, apperrors.ErrPredictUnavailable
	}
	sessionID := c.ids.New()
	c.state.StartPredicting(sessionID)
	snap := c.state
	c.mu.Unlock()

	c.logger.Info("prediction started", "session", sessionID)
	c.notifyState(snap)
	var err error
	if c.control != nil {
		if err = c.control.StartInference(ctx); err != nil {
			err = fmt.Errorf("start inference: %w", err)
		}
	}
	if c.channel != nil {
		c.channel.SetDesired(true)
		c.channel.Open()
	}
	c.record(kindStart, "prediction started", nil, sessionID)
	return snap, err
}

// SetVideo force-stops a running prediction when the video goes away.
func (c *Controller) SetVideo(ctx context.Context, playing bool) (domain.SessionState, error) {
	c.mu.Lock()
	stopped := ""
	wasPredicting := c.state.Predicting
	if !playing && wasPredicting {
		stopped = c.state.StopPredicting()
	}
	c.state.VideoPlaying = playing
	snap := c.state
	c.mu.Unlock()

	if !playing && wasPredicting {
		return snap, c.finishStop(ctx, stopped)
	}
	c.notifyState(snap)
	return snap, nil
}

// UploadModel swaps the backend model. An empty name unloads it locally.
func (c *Controller) UploadModel(ctx context.Context, name string, content io.Reader) (domain.SessionState, error) {
	c.mu.Lock()
	if c.state.Predicting {
		snap := c.state
		c.mu.Unlock()
		return snap, apperrors.ErrModelLocked
	}
	if name == "" {
		c.state.UnloadModel("")
		snap := c.state
		c.mu.Unlock()
		c.notifyState(snap)
		return snap, nil
	}
	c.mu.Unlock()

	if err := c.models.Upload(ctx, name, content); err != nil {
		c.mu.Lock()
		wasPredicting := c.state.Predicting
		stopped := ""
		if wasPredicting {
			stopped = c.state.StopPredicting()
		}
		c.state.UnloadModel(err.Error())
		snap := c.state
		c.mu.Unlock()

		c.logger.Warn("model upload failed", "model", name, "error", err)
		stopErr := error(nil)
		if wasPredicting {
			stopErr = c.finishStop(ctx, stopped)
		} else {
			c.notifyState(snap)
		}
		return snap, multierr.Append(fmt.Errorf("upload model %s: %w", name, err), stopErr)
	}

	c.mu.Lock()
	c.state.CommitModel(name)
	snap := c.state
	c.mu.Unlock()

	c.logger.Info("model loaded", "model", name)
	c.record(kindModel, name, map[string]string{"model": name}, "")
	c.notifyState(snap)
	return snap, nil
}

// RefreshModel mirrors the backend's loaded model. A running prediction keeps
// its model even when the backend reports none.
func (c *Controller) RefreshModel(ctx context.Context) (domain.SessionState, error) {
	label, err := c.models.LoadedModel(ctx)
	if err != nil {
		return c.State(), fmt.Errorf("check loaded model: %w", err)
	}
	c.mu.Lock()
	switch {
	case label != "":
		c.state.CommitModel(label)
	case !c.state.Predicting:
		c.state.UnloadModel("")
	}
	snap := c.state
	c.mu.Unlock()
	c.notifyState(snap)
	return snap, nil
}

func (c *Controller) LoadedModel(ctx context.Context) (string, error) {
	label, err := c.models.LoadedModel(ctx)
	if err != nil {
		return "", fmt.Errorf("check loaded model: %w", err)
	}
	return label, nil
}

func (c *Controller) SetFilter(ctx context.Context, value int) error {
	if value < 1 {
		return fmt.Errorf("%w: filter value must be a positive integer, got %d", apperrors.ErrInvalidInput, value)
	}
	if err := c.control.SetFilter(ctx, value); err != nil {
		return fmt.Errorf("set filter: %w", err)
	}
	c.record(kindFilter, fmt.Sprintf("filter_value=%d", value), map[string]int{"filter_value": value}, "")
	return nil
}

// Signal sends a raw start or stop to the backend loop without touching the
// console state.
func (c *Controller) Signal(ctx context.Context, start bool) error {
	if start {
		if err := c.control.StartInference(ctx); err != nil {
			return fmt.Errorf("start inference: %w", err)
		}
		c.record(kindStart, "start signal", nil, "")
		return nil
	}
	if err := c.control.StopInference(ctx); err != nil {
		return fmt.Errorf("stop inference: %w", err)
	}
	c.record(kindStop, "stop signal", nil, "")
	return nil
}

func (c *Controller) InferOnce(ctx context.Context) (domain.Classification, time.Time, error) {
	result, err := c.control.InferNow(ctx)
	if err != nil {
		return domain.Classification{}, time.Time{}, fmt.Errorf("infer now: %w", err)
	}
	at := c.clock.Now()
	c.record(kindClassification, result.String(), result, "")
	return result, at, nil
}

// Shutdown tears the controller down, stopping a running prediction.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	wasPredicting := c.state.Predicting
	sessionID := ""
	if wasPredicting {
		sessionID = c.state.StopPredicting()
	}
	c.mu.Unlock()

	var err error
	if c.channel != nil {
		err = multierr.Append(err, c.channel.Shutdown())
	}
	if wasPredicting && c.control != nil {
		if stopErr := c.control.StopInference(ctx); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("stop inference: %w", stopErr))
		}
		c.record(kindStop, "prediction stopped on shutdown", nil, sessionID)
	}
	if drainErr := c.closeJournal(ctx); drainErr != nil {
		err = multierr.Append(err, drainErr)
	}
	return err
}

// OnSocketState implements ChannelEvents.
func (c *Controller) OnSocketState(s domain.SocketState) {
	c.mu.Lock()
	c.state.Socket = s
	snap := c.state
	c.mu.Unlock()
	c.notifyState(snap)
}

// OnFrame implements ChannelEvents. Any valid result means the backend is
// predicting, so the display mode follows it when a model and video are up.
// It runs on the channel's read loop, so journal writes are queued.
func (c *Controller) OnFrame(raw []byte) {
	res := domain.ParseClassification(raw)
	if !res.OK() {
		c.logger.Warn("dropping classification frame", "error", res.Err)
		return
	}
	at := c.clock.Now()
	c.mu.Lock()
	c.state.Observe(res.Classification, at)
	if c.state.CanPredict() {
		c.state.Predicting = true
	}
	snap := c.state
	observers := c.snapshotObservers()
	journal := c.sampleLocked(res.Classification, at)
	c.mu.Unlock()

	if journal {
		c.enqueueClassification(classificationEntry{result: res.Classification, sessionID: snap.SessionID})
	}
	for _, o := range observers {
		o.Classified(res.Classification, at)
		o.StateChanged(snap)
	}
}

// sampleLocked journals a label change at once and a repeated label at most
// once per journalEvery.
func (c *Controller) sampleLocked(result domain.Classification, at time.Time) bool {
	if c.recorder == nil {
		return false
	}
	if result.Label == c.lastLabel && !c.lastJournaled.IsZero() && at.Sub(c.lastJournaled) < c.journalEvery {
		return false
	}
	c.lastLabel = result.Label
	c.lastJournaled = at
	return true
}

func (c *Controller) enqueueClassification(entry classificationEntry) {
	c.journalOnce.Do(c.startJournal)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.journalClosed {
		return
	}
	select {
	case c.journalQ <- entry:
	default:
		c.dropped++
		c.logger.Warn("journal queue full, classification dropped", "dropped", c.dropped)
	}
}

func (c *Controller) startJournal() {
	go func() {
		defer close(c.journalDone)
		for entry := range c.journalQ {
			c.record(kindClassification, entry.result.String(), entry.result, entry.sessionID)
		}
	}()
}

// closeJournal stops accepting classifications and waits for queued writes.
func (c *Controller) closeJournal(ctx context.Context) error {
	c.journalOnce.Do(c.startJournal)
	c.mu.Lock()
	if !c.journalClosed {
		c.journalClosed = true
		close(c.journalQ)
	}
	c.mu.Unlock()
	select {
	case <-c.journalDone:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain journal: %w", ctx.Err())
	}
}

func (c *Controller) finishStop(ctx context.Context, sessionID string) error {
	var err error
	if c.channel != nil {
		c.channel.SetDesired(false)
		if closeErr := c.channel.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close channel: %w", closeErr))
		}
	}
	if c.control != nil {
		if stopErr := c.control.StopInference(ctx); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("stop inference: %w", stopErr))
		}
	}
	c.logger.Info("prediction stopped", "session", sessionID)
	c.record(kindStop, "prediction stopped", nil, sessionID)
	c.notifyState(c.State())
	return err
}

func (c *Controller) record(kind, detail string, payload any, sessionID string) {
	if c.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := c.recorder.Record(ctx, kind, detail, payload, sessionID); err != nil {
		c.logger.Warn("journal record failed", "kind", kind, "error", err)
	}
}

func (c *Controller) notifyState(snap domain.SessionState) {
	c.mu.Lock()
	observers := c.snapshotObservers()
	c.mu.Unlock()
	for _, o := range observers {
		o.StateChanged(snap)
	}
}

func (c *Controller) snapshotObservers() []Observer {
	out := make([]Observer, 0, len(c.observers))
	for _, o := range c.observers {
		out = append(out, o)
	}
	return out
}
