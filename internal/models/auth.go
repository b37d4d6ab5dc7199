package models

// User is the identity record returned by the backend.
// Opaque from the client's perspective and mirrored to durable storage
// so a returning visitor is recognized before any network call completes.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse is the body of successful login/register calls.
// The refresh token never appears here: it travels only as an
// httpOnly cookie set by the backend.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// SessionState is the aggregate the session store exposes.
// IsAuthenticated is true iff both User and AccessToken are present.
type SessionState struct {
	User            *User
	AccessToken     string
	IsAuthenticated bool
	Loading         bool
	Persist         bool
}
