package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/follysitou/sygpress-console/internal/apierr"
)

// errorEnvelope is the backend's error body convention.
type errorEnvelope struct {
	Message string `json:"message"`
}

// classifyStatus maps a non-2xx response onto the error taxonomy.
//
// A 401 on an authenticated call means the token is dead: the auth-failure
// hook fires so the session store clears itself and the user lands back on
// the login page. The login endpoint is exempt; there a 401 is just a
// wrong password. A 403 surfaces as Forbidden and the console redirects to
// the unauthorized page without dropping the session.
func (c *Client) classifyStatus(status int, body []byte, opts requestOptions) error {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)
	msg := env.Message

	switch {
	case status == http.StatusUnauthorized && opts.loginCall:
		return apierr.InvalidCredentials(msg)
	case status == http.StatusUnauthorized:
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return apierr.Unauthorized(msg)
	case status == http.StatusForbidden:
		return apierr.Forbidden(msg)
	case status == http.StatusNotFound:
		return apierr.NotFound(msg)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apierr.Validation(status, msg)
	case status >= 500:
		return apierr.Server(status, msg)
	default:
		return apierr.Server(status, msg)
	}
}

// classifyTransport maps request-level failures. Context cancellation is
// passed through untouched so callers can distinguish a superseded
// navigation from a dead backend.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apierr.Unreachable(err)
}
