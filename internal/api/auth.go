package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/follysitou/sygpress-console/internal/session"
)

// authResponse is the login endpoint's payload.
type authResponse struct {
	Token              string `json:"token"`
	Type               string `json:"type"`
	PublicID           string `json:"publicId"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	FullName           string `json:"fullName"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

// Auth exposes the authentication endpoints. It satisfies session.Backend.
type Auth struct {
	client *Client
}

// Auth returns the auth surface.
func (c *Client) Auth() *Auth {
	return &Auth{client: c}
}

// Login exchanges credentials for a session. A 401 here is a wrong
// password, never a dead session, so the auth-failure hook stays quiet.
func (a *Auth) Login(ctx context.Context, creds session.Credentials) (session.Session, error) {
	body := map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	}

	data, err := a.client.do(ctx, http.MethodPost, "/auth/login", nil, body, requestOptions{loginCall: true})
	if err != nil {
		return session.Session{}, err
	}

	var resp authResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return session.Session{}, fmt.Errorf("decode login response: %w", err)
	}

	role, err := session.ParseRole(resp.Role)
	if err != nil {
		return session.Session{}, fmt.Errorf("login response: %w", err)
	}

	return session.Session{
		Token:              resp.Token,
		UserID:             resp.PublicID,
		Username:           resp.Username,
		Email:              resp.Email,
		FullName:           resp.FullName,
		Role:               role,
		MustChangePassword: resp.MustChangePassword,
	}, nil
}

// ChangePassword rotates the current user's password.
func (a *Auth) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}
	return a.client.send(ctx, http.MethodPost, "/auth/change-password", body)
}
