package store

import (
	"go.uber.org/zap"

	"multivendor-client/internal/models"
	"multivendor-client/internal/util"
)

// Logging logs every dispatched event at debug level
func Logging(logger *zap.Logger) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(e models.Event) {
			fields := []zap.Field{
				zap.String("event_type", e.EventType),
				zap.String("event_id", e.EventID),
			}
			if e.Err != nil {
				fields = append(fields, zap.Error(e.Err))
			}
			logger.Debug("dispatch", fields...)
			next(e)
		}
	}
}

// Metrics counts dispatched events by type
func Metrics() Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(e models.Event) {
			util.ActionsDispatchedTotal.WithLabelValues(e.EventType).Inc()
			next(e)
		}
	}
}
