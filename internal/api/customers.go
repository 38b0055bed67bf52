package api

import (
	"context"
	"net/http"
)

// Customers exposes the customer endpoints.
type Customers struct {
	client *Client
}

// Customers returns the customer surface.
func (c *Client) Customers() *Customers {
	return &Customers{client: c}
}

// List returns a page of customers, optionally filtered by search text.
func (r *Customers) List(ctx context.Context, q PageQuery) (Page[Customer], error) {
	return getJSON[Page[Customer]](ctx, r.client, "/customers", q.Values())
}

// Get fetches one customer.
func (r *Customers) Get(ctx context.Context, publicID string) (Customer, error) {
	return getJSON[Customer](ctx, r.client, "/customers/"+publicID, nil)
}

// Create adds a customer.
func (r *Customers) Create(ctx context.Context, req CustomerRequest) (Customer, error) {
	return sendJSON[Customer](ctx, r.client, http.MethodPost, "/customers", req)
}

// Update modifies a customer.
func (r *Customers) Update(ctx context.Context, publicID string, req CustomerRequest) (Customer, error) {
	return sendJSON[Customer](ctx, r.client, http.MethodPut, "/customers/"+publicID, req)
}

// Delete removes a customer. The console asks for confirmation first.
func (r *Customers) Delete(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodDelete, "/customers/"+publicID, nil)
}
