package constants

// ContextKeyAuthUserID is the gin context key holding the caller's auth user ID.
const ContextKeyAuthUserID = "auth_user_id"

// HeaderAuthUserID carries the caller identity. The value is trusted as-is:
// the upstream auth provider has already validated the session before the
// request reaches this API.
const HeaderAuthUserID = "X-Auth-User-Id"

// DefaultBoardColor is applied when a board is created without a color.
const DefaultBoardColor = "#e0e0e0"

// DefaultYallaPriority is applied when a yalla is created without a priority.
const DefaultYallaPriority = 1

// DefaultNotificationLimit caps notification list reads when no limit is given.
const DefaultNotificationLimit = 50

// Default user preferences assigned on first sync from the auth provider.
const (
	DefaultTheme    = "light"
	DefaultLanguage = "en"
)
