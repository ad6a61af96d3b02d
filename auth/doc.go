// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the credentials of a consensus session.

# Admin Keys

Admin keys use HMAC-SHA256 over the session ID:

	adminKey := auth.GenerateAdminKey(sessionID, salt)
	err := auth.ValidateAdminKey(sessionID, adminKey, salt)

The key is URL-safe base64 without padding. It is never stored; validation
recomputes it.

# Expert Tokens

Expert tokens are random 24-byte secrets handed out on join:

	token, err := auth.GenerateExpertToken()

The token is sent as X-Expert-Token with every ballot and is the only
thing tying a submission to an expert.

# Session Codes

Join codes are short alphanumeric strings derived from the session ID:

	code := auth.GenerateSessionCode(sessionID, salt)
*/
package auth
