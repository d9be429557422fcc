package common

// AuthorizationHeaderName is the HTTP header that carries the access token
// on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the expected prefix of the Authorization header value.
const BearerScheme = "Bearer"
