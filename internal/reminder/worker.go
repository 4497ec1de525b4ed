package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/engine"
	"github.com/tartampluch/hellodays/internal/model"
	"github.com/tartampluch/hellodays/internal/notify"
)

// DueSource pops notifications whose trigger time has passed.
type DueSource interface {
	Due(ctx context.Context, now time.Time) ([]notify.Notification, error)
}

// FeedPublisher receives freshly built calendar feeds.
type FeedPublisher interface {
	Update(data []byte)
}

// Worker re-arms reminders on a schedule, dispatches due notifications and
// keeps the published feed current.
type Worker struct {
	Service        *Service
	Due            DueSource
	Publisher      FeedPublisher // optional
	Clock          engine.Clock
	RescheduleSpec string
	DispatchSpec   string

	// Deliver hands a due notification to the platform. Nil only logs it.
	Deliver func(notify.Notification)

	configChan chan struct{}
}

// NewWorker uses the default cron schedules.
func NewWorker(svc *Service, due DueSource, pub FeedPublisher) *Worker {
	return &Worker{
		Service:        svc,
		Due:            due,
		Publisher:      pub,
		Clock:          engine.RealClock{},
		RescheduleSpec: config.DefaultRescheduleCron,
		DispatchSpec:   config.DefaultDispatchCron,
	}
}

// Run refreshes once, then serves the cron jobs until ctx is cancelled.
// Saved settings trigger an immediate refresh.
func (w *Worker) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	c := cron.New()
	if _, err := c.AddFunc(w.RescheduleSpec, func() { w.Refresh(ctx) }); err != nil {
		return fmt.Errorf("%s %q: %w", config.ErrCronSpec, w.RescheduleSpec, err)
	}
	if _, err := c.AddFunc(w.DispatchSpec, func() { w.Dispatch(ctx) }); err != nil {
		return fmt.Errorf("%s %q: %w", config.ErrCronSpec, w.DispatchSpec, err)
	}

	w.configChan = make(chan struct{}, config.ChannelBufferSize)
	unsubscribe := w.Service.Settings.Subscribe(func(model.AppSettings) {
		select {
		case w.configChan <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	w.Refresh(ctx)
	c.Start()
	defer func() { <-c.Stop().Done() }()

	log.Info(config.MsgWorkerStart,
		config.LogKeySpec, w.RescheduleSpec,
	)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return nil
		case <-w.configChan:
			w.Refresh(ctx)
		}
	}
}

// Refresh delivers whatever is already due, reschedules every contact and
// republishes the feed. Rescheduling moves past triggers to next year, so
// due notifications must be popped first.
func (w *Worker) Refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	w.Dispatch(ctx)
	if _, err := w.Service.RescheduleAll(ctx); err != nil {
		slog.Error(config.ErrSchedule,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err,
		)
	}
	if w.Publisher == nil {
		return
	}
	data, err := w.Service.Feed(ctx)
	if err != nil {
		slog.Error(config.MsgFeedFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err,
		)
		return
	}
	w.Publisher.Update(data)
	slog.Debug(config.MsgFeedBuilt,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
}

// Dispatch pops due notifications and delivers them.
func (w *Worker) Dispatch(ctx context.Context) {
	if ctx.Err() != nil || w.Due == nil {
		return
	}
	due, err := w.Due.Due(ctx, w.Clock.Now())
	if err != nil {
		slog.Error(config.MsgDispatchFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err,
		)
		return
	}
	for _, n := range due {
		slog.Info(config.MsgReminderDue,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyNotifID, n.ID,
			config.LogKeyContactID, n.ContactID,
			config.LogKeyTrigger, n.TriggerAt,
			config.LogKeyValue, n.Body,
		)
		if w.Deliver != nil {
			w.Deliver(n)
		}
	}
}
