package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// Publisher accepts journal records
type Publisher interface {
	PublishRecord(ctx context.Context, rec models.Record) error
}

// SensitiveEventTypes carry session tokens and stay out of the journal
var SensitiveEventTypes = []string{
	models.EventTypeAuthLoginSuccess,
	models.EventTypeRegistrationSuccess,
	models.EventTypeRestoreState,
}

// Journal returns a store middleware that publishes every dispatched event
// except the excluded types, after it has been reduced. deviceID is read
// after the reduce so the record of DEVICE_ID_ASSIGNED already carries the
// new id.
func Journal(pub Publisher, deviceID func() string, exclude ...string) store.Middleware {
	logger := util.GetLogger()
	skip := make(map[string]struct{}, len(exclude))
	for _, t := range exclude {
		skip[t] = struct{}{}
	}
	return func(next store.DispatchFunc) store.DispatchFunc {
		return func(e models.Event) {
			next(e)
			if _, ok := skip[e.EventType]; ok {
				return
			}

			rec, err := models.NewRecord(e, deviceID())
			if err != nil {
				util.JournalPublishFailed.Inc()
				logger.Warn("Failed to journal event", zap.String("event_type", e.EventType), zap.Error(err))
				return
			}
			if err := pub.PublishRecord(context.Background(), rec); err != nil {
				util.JournalPublishFailed.Inc()
				logger.Warn("Failed to journal event", zap.String("event_type", e.EventType), zap.Error(err))
			}
		}
	}
}

// DecodeMessage rebuilds the event journaled in msg. Events of unknown types
// fail with models.ErrUnknownEventType.
func DecodeMessage(msg kafka.Message) (models.Event, models.Record, error) {
	var rec models.Record
	if err := json.Unmarshal(msg.Value, &rec); err != nil {
		return models.Event{}, rec, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	e, err := rec.Event()
	if err != nil {
		return models.Event{}, rec, err
	}
	return e, rec, nil
}
