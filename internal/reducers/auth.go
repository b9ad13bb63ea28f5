package reducers

import "multivendor-client/internal/models"

func InitialAuth() models.Session {
	return models.Session{}
}

// Auth reduces the session slice. A failed login keeps any previous token.
func Auth(state models.Session, e models.Event) models.Session {
	switch e.EventType {
	case models.EventTypeAuthLoginRequest, models.EventTypeRegistrationRequest:
		state.Fetching = true
		state.Error = ""
		state.ErrorStatus = 0
		return state

	case models.EventTypeAuthLoginSuccess, models.EventTypeRegistrationSuccess:
		p, ok := e.Payload.(models.AuthToken)
		if !ok {
			return state
		}
		state.Token = p.Token
		state.TTL = int64(p.TTL)
		state.Logged = true
		state.Fetching = false
		state.Error = ""
		state.ErrorStatus = 0
		if p.ProfileID != 0 {
			state.ProfileID = int64(p.ProfileID)
		}
		if p.UserID != 0 {
			state.UserID = int64(p.UserID)
		}
		return state

	case models.EventTypeAuthLoginFail:
		state.Fetching = false
		if p, ok := e.Payload.(models.AuthFailure); ok {
			state.Error = p.Message
			state.ErrorStatus = p.Status
		} else if e.Err != nil {
			state.Error = e.Err.Error()
		}
		return state

	case models.EventTypeRegistrationFail:
		state.Fetching = false
		return state

	case models.EventTypeRegisterDeviceSuccess:
		if p, ok := e.Payload.(models.DeviceRegistration); ok {
			state.DeviceToken = p.Token
		}
		return state

	case models.EventTypeDeviceIDAssigned:
		if id, ok := e.Payload.(string); ok {
			state.UUID = id
		}
		return state

	// The device id belongs to the install, not the session.
	case models.EventTypeAuthResetState, models.EventTypeAuthLogout:
		next := InitialAuth()
		next.UUID = state.UUID
		return next

	case models.EventTypeRestoreState:
		if snap, ok := e.Payload.(models.Snapshot); ok && snap.Auth != nil {
			restored := *snap.Auth
			restored.Fetching = false
			return restored
		}
		return state

	default:
		return state
	}
}
