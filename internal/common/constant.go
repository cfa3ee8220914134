package common

// AuthHeaderName is the HTTP header carrying the bearer access token.
const AuthHeaderName = "Authorization"

// SessionIDBytes is the entropy, in bytes, of a seal session identifier.
// The hex form is twice as long.
const SessionIDBytes = 16
