package worker

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"multivendor-client/internal/broker"
	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// Replay results
const (
	ResultApplied = "applied"
	ResultSkipped = "skipped"
	ResultInvalid = "invalid"
)

// ReplayWorker re-dispatches journaled events into a mirror store, so a
// session recorded on a device can be inspected elsewhere
type ReplayWorker struct {
	consumer *broker.Consumer
	mirror   *store.Store
	deviceID string
	logger   *zap.Logger
}

// NewReplayWorker creates a replay worker. A non-empty deviceID limits the
// replay to that device's records.
func NewReplayWorker(consumer *broker.Consumer, mirror *store.Store, deviceID string) *ReplayWorker {
	return &ReplayWorker{
		consumer: consumer,
		mirror:   mirror,
		deviceID: deviceID,
		logger:   util.GetLogger(),
	}
}

// Start consumes until ctx is cancelled
func (w *ReplayWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting replay worker")
	return w.consumer.StartConsuming(ctx, w.HandleMessage)
}

// Stop stops the worker
func (w *ReplayWorker) Stop() error {
	w.logger.Info("Stopping replay worker")
	return w.consumer.Close()
}

// HandleMessage applies one journaled event. Unknown event types and records
// of other devices are skipped.
func (w *ReplayWorker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	e, rec, err := broker.DecodeMessage(msg)
	switch {
	case errors.Is(err, models.ErrUnknownEventType):
		util.JournalReplayedTotal.WithLabelValues(ResultSkipped).Inc()
		w.logger.Debug("Skipping unknown event type", zap.String("event_type", rec.EventType))
		return nil
	case err != nil:
		util.JournalReplayedTotal.WithLabelValues(ResultInvalid).Inc()
		return err
	}

	if w.deviceID != "" && rec.DeviceID != w.deviceID {
		util.JournalReplayedTotal.WithLabelValues(ResultSkipped).Inc()
		return nil
	}

	w.mirror.Dispatch(e)
	util.JournalReplayedTotal.WithLabelValues(ResultApplied).Inc()
	return nil
}
