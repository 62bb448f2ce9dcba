package auth

import "errors"

// ErrAuthFailed wraps every user-facing authentication failure: ownership
// check failure, missing code/state on the loopback redirect, a missing
// refresh token, or any token exchange rejected by the upstream provider.
var ErrAuthFailed = errors.New("authentication failed")
