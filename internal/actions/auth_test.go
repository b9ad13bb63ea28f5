package actions

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multivendor-client/internal/models"
	"multivendor-client/internal/persist"
)

func TestLogin_SuccessSignsInAndLoadsFollowUps(t *testing.T) {
	h := newHarness(t)
	h.backend.json("POST /auth_tokens", http.StatusOK, `{"token":"tok","ttl":3600,"user_id":"7"}`)
	h.stubSignedInFollowUps()

	var cartAuth recorded[string]
	h.backend.handle("GET /sra_cart_content", func(w http.ResponseWriter, r *http.Request) {
		cartAuth.set(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"amount":0,"products":{}}`))
	})

	require.NoError(t, h.do(h.actions.Login(Credentials{Email: "a@b.c", Password: "secret"})))

	auth := h.store.State().Auth
	assert.True(t, auth.Logged)
	assert.Equal(t, "tok", auth.Token)
	assert.Equal(t, int64(7), auth.UserID)
	assert.Empty(t, auth.Error)
	assert.False(t, auth.Fetching)

	assert.Equal(t, "tok", h.client.Token())
	assert.Equal(t, "Bearer tok", cartAuth.get())
	assert.Equal(t, 1, h.backend.called("GET /sra_wish_list"))
	assert.Equal(t, 1, h.backend.called("GET /sra_profile"))
	assert.Len(t, h.store.State().Layouts.Blocks, 1)
	// no push token is known, so the device is not registered
	assert.Zero(t, h.backend.called("POST /sra_notifications"))
}

func TestLogin_RegistersDeviceWhenPushTokenKnown(t *testing.T) {
	h := newHarness(t)
	h.actions.opts.PushToken = "push-1"
	h.backend.json("POST /auth_tokens", http.StatusOK, `{"token":"tok","ttl":3600}`)
	h.stubSignedInFollowUps()

	var got recorded[models.DeviceRegistration]
	h.backend.handle("POST /sra_notifications", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(r, &got)
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, h.do(h.actions.Login(Credentials{Email: "a@b.c", Password: "secret"})))

	reg := got.get()
	assert.Equal(t, "push-1", reg.Token)
	assert.Equal(t, "android", reg.Platform)
	assert.Equal(t, "en", reg.Locale)
	assert.Equal(t, "push-1", h.store.State().Auth.DeviceToken)
}

func TestLogin_FailureRecordsServerMessage(t *testing.T) {
	h := newHarness(t)
	h.backend.json("POST /auth_tokens", http.StatusUnauthorized, `{"message":"Wrong password","status":401}`)

	err := h.do(h.actions.Login(Credentials{Email: "a@b.c", Password: "nope"}))
	require.Error(t, err)

	auth := h.store.State().Auth
	assert.False(t, auth.Logged)
	assert.Empty(t, auth.Token)
	assert.Equal(t, "Wrong password", auth.Error)
	assert.Equal(t, http.StatusUnauthorized, auth.ErrorStatus)
	assert.Zero(t, h.backend.called("GET /sra_cart_content"))
}

func TestLogout_ClearsSessionAndSnapshot(t *testing.T) {
	h := newHarness(t)
	h.backend.json("POST /auth_tokens", http.StatusOK, `{"token":"tok","ttl":3600}`)
	h.stubSignedInFollowUps()
	require.NoError(t, h.do(h.actions.Login(Credentials{Email: "a@b.c", Password: "secret"})))

	_, err := h.storage.Load(context.Background(), testStateKey)
	require.NoError(t, err)

	require.NoError(t, h.do(h.actions.Logout()))

	assert.False(t, h.store.State().Auth.Logged)
	assert.Empty(t, h.client.Token())
	_, err = h.storage.Load(context.Background(), testStateKey)
	assert.ErrorIs(t, err, persist.ErrNotFound)
}

func TestLogout_KeepsDeviceIDForNextSignIn(t *testing.T) {
	h := newHarness(t)
	h.actions.opts.PushToken = "push-1"
	h.backend.json("POST /auth_tokens", http.StatusOK, `{"token":"tok","ttl":3600}`)
	h.stubSignedInFollowUps()

	var got recorded[models.DeviceRegistration]
	h.backend.handle("POST /sra_notifications", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(r, &got)
		_, _ = w.Write([]byte(`{}`))
	})

	h.store.Dispatch(models.NewEvent(models.EventTypeDeviceIDAssigned, "device-1"))
	require.NoError(t, h.do(h.actions.Login(Credentials{Email: "a@b.c", Password: "secret"})))
	require.NoError(t, h.do(h.actions.Logout()))
	assert.Equal(t, "device-1", h.store.State().Auth.UUID)

	got.set(models.DeviceRegistration{})
	require.NoError(t, h.do(h.actions.Login(Credentials{Email: "a@b.c", Password: "secret"})))

	assert.Equal(t, 2, h.backend.called("POST /sra_notifications"))
	assert.Equal(t, "device-1", got.get().DeviceID)
}

func TestCreateProfile_FormatsDatesAndDropsEmptyValues(t *testing.T) {
	h := newHarness(t)
	h.backend.json("GET /sra_cart_content", http.StatusOK, `{"amount":0}`)

	var body recorded[map[string]interface{}]
	h.backend.handle("POST /sra_profile", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(r, &body)
		_, _ = w.Write([]byte(`{"auth":{"token":"new","ttl":60},"profile_id":"4","user_id":"9"}`))
	})

	values := map[string]interface{}{
		"email":    "a@b.c",
		"birthday": mustDate(t, "1990-03-15"),
		"phone":    "",
		"company":  nil,
	}
	require.NoError(t, h.do(h.actions.CreateProfile(values)))

	assert.Equal(t, map[string]interface{}{"email": "a@b.c", "birthday": "03/15/1990"}, body.get())

	state := h.store.State()
	assert.True(t, state.Auth.Logged)
	assert.Equal(t, int64(9), state.Auth.UserID)
	require.Len(t, state.Notifications.Items, 1)
	assert.Equal(t, models.NotificationSuccess, state.Notifications.Items[0].Type)
	assert.Equal(t, 1, h.backend.called("GET /sra_cart_content"))
}

func TestCreateProfile_FailureShowsServerErrors(t *testing.T) {
	h := newHarness(t)
	h.backend.json("POST /sra_profile", http.StatusBadRequest,
		`{"status":400,"errors":["E-mail is already taken"]}`)

	err := h.do(h.actions.CreateProfile(map[string]interface{}{"email": "a@b.c"}))
	require.Error(t, err)

	items := h.store.State().Notifications.Items
	require.Len(t, items, 1)
	assert.Equal(t, models.NotificationWarning, items[0].Type)
	assert.Equal(t, "E-mail is already taken", items[0].Text)
	assert.False(t, h.store.State().Auth.Logged)
}

func TestUpdateProfile_CopiesShippingToBilling(t *testing.T) {
	h := newHarness(t)
	h.backend.json("GET /sra_cart_content", http.StatusOK, `{"amount":0}`)

	var body recorded[map[string]interface{}]
	h.backend.handle("PUT /sra_profile/3", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(r, &body)
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, h.do(h.actions.UpdateProfile(3, map[string]interface{}{
		"s_city":    "Riga",
		"s_zipcode": "LV-1010",
	})))

	sent := body.get()
	assert.Equal(t, "Riga", sent["b_city"])
	assert.Equal(t, "LV-1010", sent["b_zipcode"])
	assert.NotContains(t, sent, "b_address")
}

func TestProfileFields_RegistrationFormUsesSeparateEndpoint(t *testing.T) {
	h := newHarness(t)
	h.backend.json("GET /sra_profile_fields", http.StatusOK, `{"fields":{"C":{"description":"Contact","fields":{}}}}`)

	require.NoError(t, h.do(h.actions.ProfileFields("", "")))

	profile := h.store.State().Profile
	assert.Equal(t, "profile", profile.Location)
	assert.Equal(t, "add", profile.Action)
	assert.Contains(t, profile.Sections, "C")
}
