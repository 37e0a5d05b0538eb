package common

// AccessTokenCookieName is the cookie that carries the access token for
// browser sessions.
const AccessTokenCookieName = "access_token"

// AuthorizationHeaderName carries "Bearer <token>" for API clients.
const AuthorizationHeaderName = "Authorization"

// AdminTokenHeaderName carries the operator token for /api/admin.
const AdminTokenHeaderName = "X-Admin-Token"
