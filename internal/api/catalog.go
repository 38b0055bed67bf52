package api

import (
	"context"
	"net/http"
	"net/url"
)

// Catalog exposes the pricing catalog: articles, categories, services and
// the (article, service) price grid.
type Catalog struct {
	client *Client
}

// Catalog returns the catalog surface.
func (c *Client) Catalog() *Catalog {
	return &Catalog{client: c}
}

// Articles lists all garment types. The catalog is small; these endpoints
// return full lists rather than pages.
func (r *Catalog) Articles(ctx context.Context) ([]Article, error) {
	return getJSON[[]Article](ctx, r.client, "/articles", nil)
}

// ArticleRequest is the article payload.
type ArticleRequest struct {
	Name             string `json:"name"`
	CategoryPublicID string `json:"categoryPublicId"`
}

// CreateArticle adds a garment type.
func (r *Catalog) CreateArticle(ctx context.Context, req ArticleRequest) (Article, error) {
	return sendJSON[Article](ctx, r.client, http.MethodPost, "/articles", req)
}

// UpdateArticle renames or recategorizes a garment type.
func (r *Catalog) UpdateArticle(ctx context.Context, publicID string, req ArticleRequest) (Article, error) {
	return sendJSON[Article](ctx, r.client, http.MethodPut, "/articles/"+publicID, req)
}

// DeleteArticle removes a garment type.
func (r *Catalog) DeleteArticle(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodDelete, "/articles/"+publicID, nil)
}

// Categories lists article categories.
func (r *Catalog) Categories(ctx context.Context) ([]Category, error) {
	return getJSON[[]Category](ctx, r.client, "/categories", nil)
}

// CategoryRequest is the category payload.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory adds a category.
func (r *Catalog) CreateCategory(ctx context.Context, req CategoryRequest) (Category, error) {
	return sendJSON[Category](ctx, r.client, http.MethodPost, "/categories", req)
}

// UpdateCategory renames a category.
func (r *Catalog) UpdateCategory(ctx context.Context, publicID string, req CategoryRequest) (Category, error) {
	return sendJSON[Category](ctx, r.client, http.MethodPut, "/categories/"+publicID, req)
}

// DeleteCategory removes a category.
func (r *Catalog) DeleteCategory(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodDelete, "/categories/"+publicID, nil)
}

// Services lists treatments.
func (r *Catalog) Services(ctx context.Context) ([]Service, error) {
	return getJSON[[]Service](ctx, r.client, "/services", nil)
}

// ServiceRequest is the service payload.
type ServiceRequest struct {
	Name string `json:"name"`
}

// CreateService adds a treatment.
func (r *Catalog) CreateService(ctx context.Context, req ServiceRequest) (Service, error) {
	return sendJSON[Service](ctx, r.client, http.MethodPost, "/services", req)
}

// UpdateService renames a treatment.
func (r *Catalog) UpdateService(ctx context.Context, publicID string, req ServiceRequest) (Service, error) {
	return sendJSON[Service](ctx, r.client, http.MethodPut, "/services/"+publicID, req)
}

// DeleteService removes a treatment.
func (r *Catalog) DeleteService(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodDelete, "/services/"+publicID, nil)
}

// PricingQuery filters the price grid.
type PricingQuery struct {
	PageQuery
	ArticlePublicID string
	ServicePublicID string
}

// Values renders the query parameters.
func (q PricingQuery) Values() url.Values {
	v := q.PageQuery.Values()
	if q.ArticlePublicID != "" {
		v.Set("articleId", q.ArticlePublicID)
	}
	if q.ServicePublicID != "" {
		v.Set("serviceId", q.ServicePublicID)
	}
	return v
}

// Pricing lists the price grid.
func (r *Catalog) Pricing(ctx context.Context, q PricingQuery) (Page[Pricing], error) {
	return getJSON[Page[Pricing]](ctx, r.client, "/pricing", q.Values())
}

// PricingRequest is the price grid payload.
type PricingRequest struct {
	ArticlePublicID string `json:"articlePublicId"`
	ServicePublicID string `json:"servicePublicId"`
	Price           int64  `json:"price"`
}

// CreatePricing adds a price grid entry.
func (r *Catalog) CreatePricing(ctx context.Context, req PricingRequest) (Pricing, error) {
	return sendJSON[Pricing](ctx, r.client, http.MethodPost, "/pricing", req)
}

// UpdatePricing changes a price grid entry.
func (r *Catalog) UpdatePricing(ctx context.Context, publicID string, req PricingRequest) (Pricing, error) {
	return sendJSON[Pricing](ctx, r.client, http.MethodPut, "/pricing/"+publicID, req)
}

// DeletePricing removes a price grid entry.
func (r *Catalog) DeletePricing(ctx context.Context, publicID string) error {
	return r.client.send(ctx, http.MethodDelete, "/pricing/"+publicID, nil)
}
