package api

import (
	"context"
	"net/url"
)

// Dashboards exposes the role-specific landing view data.
type Dashboards struct {
	client *Client
}

// Dashboard returns the dashboard surface.
func (c *Client) Dashboard() *Dashboards {
	return &Dashboards{client: c}
}

// Admin fetches the admin dashboard.
func (r *Dashboards) Admin(ctx context.Context) (AdminDashboard, error) {
	return getJSON[AdminDashboard](ctx, r.client, "/dashboard/admin", nil)
}

// User fetches the non-admin dashboard.
func (r *Dashboards) User(ctx context.Context) (UserDashboard, error) {
	return getJSON[UserDashboard](ctx, r.client, "/dashboard/user", nil)
}

// Reports exposes the administrative report endpoints.
type Reports struct {
	client *Client
}

// Reports returns the report surface.
func (c *Client) Reports() *Reports {
	return &Reports{client: c}
}

// ReportQuery bounds a report to a date range (ISO dates, inclusive).
type ReportQuery struct {
	From string
	To   string
}

// Values renders the query parameters.
func (q ReportQuery) Values() url.Values {
	v := url.Values{}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	return v
}

// Sales fetches revenue per period.
func (r *Reports) Sales(ctx context.Context, q ReportQuery) ([]SalesReportRow, error) {
	return getJSON[[]SalesReportRow](ctx, r.client, "/reports/sales", q.Values())
}

// Customers fetches billing totals per customer.
func (r *Reports) Customers(ctx context.Context, q ReportQuery) ([]CustomerReportRow, error) {
	return getJSON[[]CustomerReportRow](ctx, r.client, "/reports/customers", q.Values())
}

// Services fetches revenue per treatment.
func (r *Reports) Services(ctx context.Context, q ReportQuery) ([]ServiceReportRow, error) {
	return getJSON[[]ServiceReportRow](ctx, r.client, "/reports/services", q.Values())
}
