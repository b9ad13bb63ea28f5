package actions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/i18n"
	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// API is the part of the commerce API client action creators use
type API interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
	SetToken(token string)
	AwaitOrder(ctx context.Context, orderID int64, settled func(models.Order) bool) (models.Order, error)
}

// Snapshots reads and drops the persisted durable state
type Snapshots interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Clear(ctx context.Context) error
}

// Options carries device facts action creators send to the API
type Options struct {
	Platform  string
	PushToken string
}

// Actions builds the thunks screens dispatch. Every thunk dispatches a
// *_REQUEST event, calls the API, then dispatches *_SUCCESS or *_FAIL and
// returns the failure.
type Actions struct {
	api       API
	tr        *i18n.Translator
	snapshots Snapshots
	opts      Options
	logger    *zap.Logger

	popMu sync.Mutex
}

func New(api API, tr *i18n.Translator, snapshots Snapshots, opts Options) *Actions {
	return &Actions{
		api:       api,
		tr:        tr,
		snapshots: snapshots,
		opts:      opts,
		logger:    util.GetLogger(),
	}
}

// fail dispatches the failure event for op and returns err wrapped
func (a *Actions) fail(d store.Dispatcher, eventType, op string, err error) error {
	util.ThunkFailuresTotal.WithLabelValues(op).Inc()
	a.logger.Warn("Action failed",
		zap.String("operation", op),
		zap.Int("status", apiclient.StatusOf(err)),
		zap.Error(err),
	)
	d.Dispatch(models.FailEvent(eventType, err))
	return fmt.Errorf("%s: %w", op, err)
}

func (a *Actions) notify(d store.Dispatcher, kind, title, text string, closeLastModal bool) {
	d.Dispatch(models.NewEvent(models.EventTypeNotificationShow, models.Notification{
		ID:             uuid.NewString(),
		Type:           kind,
		Title:          a.tr.T(title),
		Text:           text,
		CloseLastModal: closeLastModal,
	}))
}

// errorText is what a failure notification shows: the server's error list
// when it sent one, its message otherwise
func errorText(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		return strings.Join(apiErr.Errors, "\n")
	}
	return apiclient.MessageOf(err)
}

func statusConflict(err error) bool {
	return apiclient.StatusOf(err) == http.StatusConflict
}
