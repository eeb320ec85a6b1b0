package model

// AuthorizationState is whether the process may deliver local notifications.
type AuthorizationState string

// Authorization states.
const (
	NotDetermined AuthorizationState = "not_determined"
	Authorized    AuthorizationState = "authorized"
	Denied        AuthorizationState = "denied"
)

// IsValid reports whether s is a known state.
func (s AuthorizationState) IsValid() bool {
	switch s {
	case NotDetermined, Authorized, Denied:
		return true
	}
	return false
}

// Label returns a human-readable label.
func (s AuthorizationState) Label() string {
	switch s {
	case Authorized:
		return "Authorized"
	case Denied:
		return "Denied"
	default:
		return "Not determined"
	}
}
