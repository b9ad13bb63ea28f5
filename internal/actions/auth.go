package actions

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// profileDateLayout is how the backend expects dates in profile forms
const profileDateLayout = "01/02/2006"

// Credentials is the body of POST /auth_tokens
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registrationResponse struct {
	Auth      models.AuthToken `json:"auth"`
	ProfileID models.FlexInt   `json:"profile_id"`
	UserID    models.FlexInt   `json:"user_id"`
}

// Login exchanges credentials for a session token and then loads what a
// signed-in user sees: cart, wish list, profile, home layout, and the push
// device registration.
func (a *Actions) Login(creds Credentials) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AuthActions.Login")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeAuthLoginRequest, nil))

		var token models.AuthToken
		if err := a.api.Post(ctx, "/auth_tokens", creds, &token); err != nil {
			util.ThunkFailuresTotal.WithLabelValues("AuthActions.Login").Inc()
			e := models.NewEvent(models.EventTypeAuthLoginFail, loginFailure(err))
			e.Err = err
			d.Dispatch(e)
			return fmt.Errorf("AuthActions.Login: %w", err)
		}

		a.api.SetToken(token.Token)
		d.Dispatch(models.NewEvent(models.EventTypeAuthLoginSuccess, token))
		a.logger.Info("Signed in", zap.Int64("user_id", int64(token.UserID)))

		var g errgroup.Group
		g.Go(func() error { return d.Do(ctx, a.FetchCart(CalculateShippingAll)) })
		g.Go(func() error { return d.Do(ctx, a.FetchWishList()) })
		g.Go(func() error { return d.Do(ctx, a.FetchProfile()) })
		g.Go(func() error { return d.Do(ctx, a.FetchLayouts()) })
		g.Go(func() error {
			reg, ok := a.deviceRegistration(d.State().Auth)
			if !ok {
				return nil
			}
			return d.Do(ctx, a.DeviceInfo(reg))
		})
		if err := g.Wait(); err != nil {
			a.logger.Warn("Sign-in follow-up failed", zap.Error(err))
		}
		return nil
	}
}

func (a *Actions) deviceRegistration(session models.Session) (models.DeviceRegistration, bool) {
	token := session.DeviceToken
	if token == "" {
		token = a.opts.PushToken
	}
	if token == "" {
		return models.DeviceRegistration{}, false
	}
	return models.DeviceRegistration{
		Token:    token,
		Platform: a.opts.Platform,
		Locale:   a.tr.Lang(),
		DeviceID: session.UUID,
	}, true
}

// CreateProfile registers a new customer. Dates are sent as MM/DD/YYYY and
// empty values are left out.
func (a *Actions) CreateProfile(values map[string]interface{}) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AuthActions.CreateProfile")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeRegistrationRequest, nil))

		var resp registrationResponse
		if err := a.api.Post(ctx, "/sra_profile", compactValues(formatDates(values)), &resp); err != nil {
			err = a.fail(d, models.EventTypeRegistrationFail, "AuthActions.CreateProfile", err)
			a.notify(d, models.NotificationWarning, "Registration fail", errorText(err), false)
			return err
		}

		token := resp.Auth
		token.ProfileID = resp.ProfileID
		token.UserID = resp.UserID
		a.api.SetToken(token.Token)
		d.Dispatch(models.NewEvent(models.EventTypeRegistrationSuccess, token))
		a.notify(d, models.NotificationSuccess, "Registration", a.tr.T("Registration complete."), true)

		return d.Do(ctx, a.FetchCart(CalculateShippingAll))
	}
}

// Registration signs in with a token obtained by a completed registration
func (a *Actions) Registration(token string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AuthActions.Registration")
		defer span.End()

		a.api.SetToken(token)
		d.Dispatch(models.NewEvent(models.EventTypeRegistrationSuccess, models.AuthToken{Token: token}))
		a.notify(d, models.NotificationSuccess, "Registration", a.tr.T("Registration complete."), true)
		return d.Do(ctx, a.FetchCart(CalculateShippingAll))
	}
}

func (a *Actions) FetchProfile() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AuthActions.FetchProfile")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeFetchProfileRequest, nil))

		var profile models.Profile
		if err := a.api.Get(ctx, "/sra_profile", nil, &profile); err != nil {
			return a.fail(d, models.EventTypeFetchProfileFail, "AuthActions.FetchProfile", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeFetchProfileSuccess, profile))
		return nil
	}
}

// ProfileFields loads form definitions. The registration form (location
// "profile", action "add") is served by a separate endpoint because the
// profile itself is not readable before sign-in.
func (a *Actions) ProfileFields(location, action string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AuthActions.ProfileFields")
		defer span.End()

		if location == "" {
			location = "profile"
		}
		if action == "" {
			action = "add"
		}
		path := "/sra_profile"
		if location == "profile" && action == "add" {
			path = "/sra_profile_fields"
		}

		d.Dispatch(models.NewEvent(models.EventTypeFetchProfileFieldsReq, nil))

		var profile models.Profile
		query := url.Values{"location": {location}, "action": {action}}
		if err := a.api.Get(ctx, path, query, &profile); err != nil {
			return a.fail(d, models.EventTypeFetchProfileFieldsFail, "AuthActions.ProfileFields", err)
		}
		profile.Location = location
		profile.Action = action
		d.Dispatch(models.NewEvent(models.EventTypeFetchProfileFieldsOK, profile))
		return nil
	}
}

// UpdateProfile saves profile values. Billing fields mirror the shipping
// ones.
func (a *Actions) UpdateProfile(id int64, values map[string]interface{}) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AuthActions.UpdateProfile")
		defer span.End()

		data := formatDates(values)
		for _, f := range []string{"address", "address_2", "city", "country", "firstname", "lastname", "phone", "state", "zipcode"} {
			if v, ok := data["s_"+f]; ok {
				data["b_"+f] = v
			}
		}

		d.Dispatch(models.NewEvent(models.EventTypeUpdateProfileRequest, nil))

		if err := a.api.Put(ctx, fmt.Sprintf("/sra_profile/%d", id), data, nil); err != nil {
			err = a.fail(d, models.EventTypeUpdateProfileFail, "AuthActions.UpdateProfile", err)
			a.notify(d, models.NotificationWarning, "Profile update fail", errorText(err), false)
			return err
		}

		d.Dispatch(models.NewEvent(models.EventTypeUpdateProfileSuccess, nil))
		a.notify(d, models.NotificationSuccess, "Profile", a.tr.T("The profile data has been updated successfully"), true)
		return d.Do(ctx, a.FetchCart(CalculateShippingAll))
	}
}

// DeviceInfo registers the push notification token of this device
func (a *Actions) DeviceInfo(reg models.DeviceRegistration) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AuthActions.DeviceInfo")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeRegisterDeviceRequest, nil))
		if err := a.api.Post(ctx, "/sra_notifications", reg, nil); err != nil {
			return a.fail(d, models.EventTypeRegisterDeviceFail, "AuthActions.DeviceInfo", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeRegisterDeviceSuccess, reg))
		return nil
	}
}

// Logout clears the session everywhere: state, API client, outstanding
// request tags and the persisted snapshot
func (a *Actions) Logout() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AuthActions.Logout")
		defer span.End()

		d.Sequencer().Reset()
		d.Dispatch(models.NewEvent(models.EventTypeAuthLogout, nil))
		a.api.SetToken("")

		if a.snapshots == nil {
			return nil
		}
		if err := a.snapshots.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear persisted state: %w", err)
		}
		return nil
	}
}

func (a *Actions) ResetState() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeAuthResetState, nil))
		return nil
	}
}

func loginFailure(err error) models.AuthFailure {
	return models.AuthFailure{Message: errorText(err), Status: apiclient.StatusOf(err)}
}

func formatDates(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		switch t := v.(type) {
		case time.Time:
			out[k] = t.Format(profileDateLayout)
		case *time.Time:
			if t != nil {
				out[k] = t.Format(profileDateLayout)
			}
		default:
			out[k] = v
		}
	}
	return out
}

// compactValues drops nil, empty and zero values
func compactValues(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if t == "" {
				continue
			}
		case bool:
			if !t {
				continue
			}
		case int:
			if t == 0 {
				continue
			}
		case int64:
			if t == 0 {
				continue
			}
		case float64:
			if t == 0 {
				continue
			}
		}
		out[k] = v
	}
	return out
}
