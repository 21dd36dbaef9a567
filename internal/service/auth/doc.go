// Package auth issues and validates the JWT access and refresh tokens used by
// the HTTP API, hashes passwords with PBKDF2, and defines the optional session
// store that lets logout revoke an access token before it expires.
package auth
