package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer
// access token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix prefixes the access token inside the Authorization header.
const BearerPrefix = "Bearer "
