package types

import "fmt"

// Settings is the plugin configuration consumed by the HubSpot service.
// It is stored by a SettingsStore (DynamoDB, Redis, env or memory) and cached in-process.
// Token is the HubSpot private app token sent as a Bearer credential.
// PortalID is the HubSpot account the token belongs to; it is only checked for presence.
// Limit is the page size requested from the forms endpoint. 0 means DefaultPageLimit.
// MaxPages bounds the number of pages followed in one listing. 0 means DefaultMaxPages.
type Settings struct {
	Token    string `json:"token" yaml:"token" dynamodbav:"token"`
	PortalID string `json:"portal_id" yaml:"portal_id" dynamodbav:"portal_id"`
	Limit    int    `json:"limit,omitempty" yaml:"limit" dynamodbav:"limit"`
	MaxPages int    `json:"max_pages,omitempty" yaml:"max_pages" dynamodbav:"max_pages"`
}

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
	DefaultMaxPages  = 1000

	DefaultAPIBase = "https://api.hubapi.com"
	DefaultAppBase = "https://app.hubspot.com"
)

// Valid reports whether both the token and the portal id are set.
func (s Settings) Valid() bool {
	return s.Token != "" && s.PortalID != ""
}

// PageLimit returns the configured page size, or DefaultPageLimit when unset.
func (s Settings) PageLimit() int {
	if s.Limit <= 0 {
		return DefaultPageLimit
	}
	return s.Limit
}

// PageCap returns the maximum number of pages to follow in one listing.
func (s Settings) PageCap() int {
	if s.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return s.MaxPages
}

// Validate checks the ranges of the numeric fields. Presence of the credentials is
// not required here; partially configured settings can be stored and are reported
// through Valid.
func (s Settings) Validate() error {
	if s.Limit < 0 || s.Limit > MaxPageLimit {
		return Err(ErrInvalidSettings, nil, "limit must be between 0 and %d. 0 for default", MaxPageLimit)
	}
	if s.MaxPages < 0 {
		return Err(ErrInvalidSettings, nil, "max_pages must be non-negative. 0 for default")
	}
	return nil
}

// Redacted returns a copy safe for printing.
func (s Settings) Redacted() Settings {
	if len(s.Token) > 8 {
		s.Token = s.Token[:4] + "..." + s.Token[len(s.Token)-4:]
	} else if s.Token != "" {
		s.Token = "***"
	}
	return s
}

func (s Settings) String() string {
	r := s.Redacted()
	return fmt.Sprintf("token=%q portal_id=%q limit=%d max_pages=%d", r.Token, r.PortalID, r.Limit, r.MaxPages)
}
