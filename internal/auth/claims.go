package auth

import "strconv"

// UserClaims is the authenticated caller identity attached to each request.
// The bot authenticates with the shared API key and forwards the acting
// member in headers; moderator dashboard links carry a signed token instead.
type UserClaims interface {
	ActorID() int64
	IsAdmin() bool
	Source() string
}

// APIKeyClaims is the identity derived from the bot's API key plus the
// forwarded actor headers.
type APIKeyClaims struct {
	ActorIDVal int64
	AdminVal   bool
}

func (c *APIKeyClaims) ActorID() int64 { return c.ActorIDVal }
func (c *APIKeyClaims) IsAdmin() bool  { return c.AdminVal }
func (c *APIKeyClaims) Source() string { return "API_KEY" }

// TokenClaims is the identity carried by a signed moderator link.
type TokenClaims struct {
	ActorIDVal int64
	ReportID   string
}

func (c *TokenClaims) ActorID() int64 { return c.ActorIDVal }
func (c *TokenClaims) IsAdmin() bool  { return true }
func (c *TokenClaims) Source() string { return "MOD_TOKEN" }

// MakeClaimsFromHeaders builds claims from the actor headers the bot
// forwards with an API-key request.
func MakeClaimsFromHeaders(actorIDHeader, adminHeader string) *APIKeyClaims {
	actorID, _ := strconv.ParseInt(actorIDHeader, 10, 64)
	return &APIKeyClaims{
		ActorIDVal: actorID,
		AdminVal:   adminHeader == "true",
	}
}
