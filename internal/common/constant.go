package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName is propagated on every request and response.
const RequestIDHeaderName = "X-Request-Id"
