package auth

import (
	"golang.org/x/oauth2"
)

const (
	// Concept2 Logbook OAuth endpoints
	AuthURL  = "https://log.concept2.com/oauth/authorize"
	TokenURL = "https://log.concept2.com/oauth/access_token"
)

// Scopes required for our app (the logbook uses comma-separated scopes)
var Scopes = []string{
	"user:read,results:read",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8089/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}
