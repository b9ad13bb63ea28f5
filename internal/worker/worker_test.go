package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multivendor-client/internal/models"
	"multivendor-client/internal/reducers"
	"multivendor-client/internal/store"
)

func message(t *testing.T, e models.Event, deviceID string) kafka.Message {
	t.Helper()
	rec, err := models.NewRecord(e, deviceID)
	require.NoError(t, err)
	value, err := json.Marshal(rec)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(deviceID), Value: value}
}

func TestReplayWorker_AppliesRecordsToMirror(t *testing.T) {
	mirror := store.New(reducers.Root, reducers.Initial())
	w := NewReplayWorker(nil, mirror, "")
	ctx := context.Background()

	loaded := models.CartLoaded{Carts: map[string]models.Cart{
		models.GeneralCartKey: {Amount: 2, Products: models.Dict[models.CartProduct]{"11": {ProductID: 5, Amount: 2}}},
	}}
	require.NoError(t, w.HandleMessage(ctx, message(t, models.NewEvent(models.EventTypeCartSuccess, loaded), "d1")))
	require.NoError(t, w.HandleMessage(ctx, message(t, models.NewEvent(models.EventTypeChangeAmount,
		models.AmountChange{CartID: "11", Amount: 4}), "d1")))

	general := mirror.State().Cart.Carts[models.GeneralCartKey]
	assert.Equal(t, models.FlexInt(4), general.Products["11"].Amount)
}

func TestReplayWorker_SkipsUnknownAndForeignRecords(t *testing.T) {
	mirror := store.New(reducers.Root, reducers.Initial())
	w := NewReplayWorker(nil, mirror, "d1")
	ctx := context.Background()

	unknown := kafka.Message{Value: []byte(`{"event_type":"LEGACY_ACTION","payload":{}}`)}
	require.NoError(t, w.HandleMessage(ctx, unknown))

	foreign := message(t, models.NewEvent(models.EventTypeDeviceIDAssigned, "d2"), "d2")
	require.NoError(t, w.HandleMessage(ctx, foreign))
	assert.Empty(t, mirror.State().Auth.UUID)

	own := message(t, models.NewEvent(models.EventTypeDeviceIDAssigned, "d1"), "d1")
	require.NoError(t, w.HandleMessage(ctx, own))
	assert.Equal(t, "d1", mirror.State().Auth.UUID)
}

func TestReplayWorker_RejectsMalformedRecord(t *testing.T) {
	w := NewReplayWorker(nil, store.New(reducers.Root, reducers.Initial()), "")
	assert.Error(t, w.HandleMessage(context.Background(), kafka.Message{Value: []byte(`not json`)}))
}
