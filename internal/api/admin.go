package api

import (
	"context"
	"net/http"
)

// Companies exposes the company profile endpoints.
type Companies struct {
	client *Client
}

// Company returns the company surface.
func (c *Client) Company() *Companies {
	return &Companies{client: c}
}

// Get fetches the business profile.
func (r *Companies) Get(ctx context.Context) (Company, error) {
	return getJSON[Company](ctx, r.client, "/company", nil)
}

// Update modifies the business profile.
func (r *Companies) Update(ctx context.Context, req CompanyRequest) (Company, error) {
	return sendJSON[Company](ctx, r.client, http.MethodPut, "/company", req)
}

// Users exposes the account administration endpoints.
type Users struct {
	client *Client
}

// Users returns the user administration surface.
func (c *Client) Users() *Users {
	return &Users{client: c}
}

// List returns a page of accounts.
func (r *Users) List(ctx context.Context, q PageQuery) (Page[User], error) {
	return getJSON[Page[User]](ctx, r.client, "/users", q.Values())
}

// Create registers an account. The backend issues a temporary password and
// flags the account for a forced change on first login.
func (r *Users) Create(ctx context.Context, req UserRequest) (User, error) {
	return sendJSON[User](ctx, r.client, http.MethodPost, "/users", req)
}

// Update modifies an account.
func (r *Users) Update(ctx context.Context, publicID string, req UserRequest) (User, error) {
	return sendJSON[User](ctx, r.client, http.MethodPut, "/users/"+publicID, req)
}

// Deactivate disables an account without deleting its history.
func (r *Users) Deactivate(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodPatch, "/users/"+publicID+"/deactivate", nil)
}

// ResetPassword issues a new temporary password for an account.
func (r *Users) ResetPassword(ctx context.Context, publicID string) (PasswordResetResult, error) {
	return sendJSON[PasswordResetResult](ctx, r.client, http.MethodPost, "/users/"+publicID+"/reset-password", nil)
}

// Contacts exposes the landing page contact message endpoints.
type Contacts struct {
	client *Client
}

// Contacts returns the contact message surface.
func (c *Client) Contacts() *Contacts {
	return &Contacts{client: c}
}

// ContactMessageRequest is the public contact form payload.
type ContactMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// Submit posts a message from the public landing page. The endpoint is the
// one unauthenticated write the backend accepts.
func (r *Contacts) Submit(ctx context.Context, req ContactMessageRequest) error {
	return r.client.send(ctx, http.MethodPost, "/contact-messages", req)
}

// List returns a page of contact messages.
func (r *Contacts) List(ctx context.Context, q PageQuery) (Page[ContactMessage], error) {
	return getJSON[Page[ContactMessage]](ctx, r.client, "/contact-messages", q.Values())
}

// MarkRead flags a message as handled.
func (r *Contacts) MarkRead(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodPatch, "/contact-messages/"+publicID+"/read", nil)
}

// Delete removes a message.
func (r *Contacts) Delete(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodDelete, "/contact-messages/"+publicID, nil)
}
