package models

import "time"

// Token is one OAuth credential set for the upstream API. ExpiresAt is the
// absolute expiry of the access token as reported by the token endpoint.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (t Token) IsZero() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}
