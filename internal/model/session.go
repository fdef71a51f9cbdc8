package model

// Credentials are the username and password sent to the auth endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthToken is the body returned by a successful login.
type AuthToken struct {
	Token string `json:"token"`
}

// SessionStatus is the derived authentication state of the client.
type SessionStatus int

const (
	// StatusAnonymous means no token is held.
	StatusAnonymous SessionStatus = iota
	// StatusAuthenticated means a bearer token is held.
	StatusAuthenticated
)

func (s SessionStatus) String() string {
	if s == StatusAuthenticated {
		return "authenticated"
	}
	return "anonymous"
}
