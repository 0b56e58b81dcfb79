package domain

// SessionState is the client-side view of the server-held session.
type SessionState string

// Session states. Unknown holds until the first status probe is issued;
// Checking covers the probe itself; Authenticated and Anonymous are the
// terminal states and may flip into each other via login/logout.
const (
	SessionUnknown       SessionState = "unknown"
	SessionChecking      SessionState = "checking"
	SessionAuthenticated SessionState = "authenticated"
	SessionAnonymous     SessionState = "anonymous"
)

// User is the identity record returned by the auth endpoints.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the display copy of authentication state. It is advisory:
// the server-side cookie session is the only authority, and the copy is
// never trusted after a failed call.
type Session struct {
	User            *User
	State           SessionState
	IsAuthenticated bool
	IsLoading       bool
}

// LoginResult is the typed outcome of a login attempt. Bad credentials are
// not an error: the form renders Reason inline instead of raising.
type LoginResult struct {
	OK     bool
	Reason string
	User   *User
}
