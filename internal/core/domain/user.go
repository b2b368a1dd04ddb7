package domain

// Role values persisted on user records. RoleAnonymous is never stored; it is
// assigned to callers that present no credential.
const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleAnonymous = "non-authenticated"
)

// AnonymousUsername is the sentinel identity for callers without a credential.
const AnonymousUsername = "N/A"

// MinSecretPhraseLen is enforced at registration and on every secret-phrase
// update, REST and realtime alike.
const MinSecretPhraseLen = 8

// User models an account in the credential store.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Roles        string `json:"roles"`
	SecretPhrase string `json:"secret_phrase"`
	IsActive     bool   `json:"is_active"`
}

// AccessContext is the request-scoped caller identity derived from a verified
// credential, or the anonymous sentinel when none was presented. It lives for
// one HTTP request or one socket message.
type AccessContext struct {
	Username string
	Role     string
}

// Anonymous returns the caller identity used when no credential is present.
func Anonymous() AccessContext {
	return AccessContext{Username: AnonymousUsername, Role: RoleAnonymous}
}

// IsAnonymous reports whether the caller presented no credential.
func (a AccessContext) IsAnonymous() bool {
	return a.Role == RoleAnonymous
}
