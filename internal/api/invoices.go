package api

import (
	"context"
	"net/http"
	"net/url"
)

// Invoices exposes the invoice lifecycle endpoints.
type Invoices struct {
	client *Client
}

// Invoices returns the invoice surface.
func (c *Client) Invoices() *Invoices {
	return &Invoices{client: c}
}

// InvoiceQuery extends paging with the workflow stage filter.
type InvoiceQuery struct {
	PageQuery
	Status ProcessingStatus
}

// Values renders the query parameters.
func (q InvoiceQuery) Values() url.Values {
	v := q.PageQuery.Values()
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

// List returns a page of invoices.
func (r *Invoices) List(ctx context.Context, q InvoiceQuery) (Page[Invoice], error) {
	return getJSON[Page[Invoice]](ctx, r.client, "/invoices", q.Values())
}

// Get fetches one invoice with lines, fees and computed amounts.
func (r *Invoices) Get(ctx context.Context, publicID string) (Invoice, error) {
	return getJSON[Invoice](ctx, r.client, "/invoices/"+publicID, nil)
}

// Create opens a new invoice at the deposit stage.
func (r *Invoices) Create(ctx context.Context, req InvoiceRequest) (Invoice, error) {
	return sendJSON[Invoice](ctx, r.client, http.MethodPost, "/invoices", req)
}

// Update replaces the invoice's editable content. The backend refuses the
// change once the invoice is locked.
func (r *Invoices) Update(ctx context.Context, publicID string, req InvoiceRequest) (Invoice, error) {
	return sendJSON[Invoice](ctx, r.client, http.MethodPut, "/invoices/"+publicID, req)
}

// Delete removes an invoice.
func (r *Invoices) Delete(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodDelete, "/invoices/"+publicID, nil)
}

// UpdateStatus advances the invoice to the given workflow stage.
func (r *Invoices) UpdateStatus(ctx context.Context, publicID string, status ProcessingStatus) (Invoice, error) {
	body := map[string]string{"status": string(status)}
	return sendJSON[Invoice](ctx, r.client, http.MethodPatch, "/invoices/"+publicID+"/status", body)
}

// AddPayment records a payment; the backend recomputes the remaining
// amount and the settled flag.
func (r *Invoices) AddPayment(ctx context.Context, publicID string, req PaymentRequest) (Invoice, error) {
	return sendJSON[Invoice](ctx, r.client, http.MethodPost, "/invoices/"+publicID+"/payments", req)
}

// Print downloads the backend-rendered PDF.
func (r *Invoices) Print(ctx context.Context, publicID string) ([]byte, error) {
	return r.client.do(ctx, http.MethodGet, "/invoices/"+publicID+"/print", nil, nil, requestOptions{})
}
