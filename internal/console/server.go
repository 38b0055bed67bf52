// Package console serves the management console: server-rendered screens
// over the typed backend client. Navigation passes through the access
// guard; every user action maps to a single backend call chain.
package console

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/follysitou/sygpress-console/internal/api"
	"github.com/follysitou/sygpress-console/internal/config"
	"github.com/follysitou/sygpress-console/internal/guard"
	"github.com/follysitou/sygpress-console/internal/logging"
	"github.com/follysitou/sygpress-console/internal/notify"
	"github.com/follysitou/sygpress-console/internal/session"
)

// Server wires the console together.
type Server struct {
	cfg       *config.Config
	log       *logging.Logger
	store     *session.Store
	client    *api.Client
	toasts    *notify.Center
	templates *templateSet

	invoiceList *api.Loader[api.Page[api.Invoice]]
}

// New builds the console server.
func New(cfg *config.Config, log *logging.Logger, store *session.Store, client *api.Client) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:         cfg,
		log:         log,
		store:       store,
		client:      client,
		toasts:      notify.NewCenter(),
		templates:   templates,
		invoiceList: api.NewLoader[api.Page[api.Invoice]](),
	}, nil
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	// Public surface.
	r.HandleFunc("/", s.handleLanding).Methods(http.MethodGet)
	r.HandleFunc(guard.LoginPath, s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc(guard.LoginPath, s.handleLoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/contact", s.handleContactSubmit).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc(guard.UnauthorizedPath, s.handleUnauthorized).Methods(http.MethodGet)

	// Change password: authenticated, reachable even when the session is
	// pinned to it.
	pw := r.PathPrefix(guard.ChangePasswordPath).Subrouter()
	pw.Use(mux.MiddlewareFunc(guard.Middleware(s.store, guard.Authenticated(guard.ChangePasswordPath))))
	pw.HandleFunc("", s.handleChangePasswordPage).Methods(http.MethodGet)
	pw.HandleFunc("", s.handleChangePasswordSubmit).Methods(http.MethodPost)

	// Authenticated application surface.
	app := r.PathPrefix("/app").Subrouter()
	app.Use(mux.MiddlewareFunc(guard.Middleware(s.store, guard.Authenticated("/app"))))

	app.HandleFunc("", s.redirectTo("/app/dashboard")).Methods(http.MethodGet)
	app.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)

	app.HandleFunc("/customers", s.handleCustomerList).Methods(http.MethodGet)
	app.HandleFunc("/customers/new", s.handleCustomerForm).Methods(http.MethodGet)
	app.HandleFunc("/customers/new", s.handleCustomerCreate).Methods(http.MethodPost)
	app.HandleFunc("/customers/{id}/edit", s.handleCustomerForm).Methods(http.MethodGet)
	app.HandleFunc("/customers/{id}/edit", s.handleCustomerUpdate).Methods(http.MethodPost)
	app.HandleFunc("/customers/{id}/delete", s.handleCustomerDelete).Methods(http.MethodPost)

	app.HandleFunc("/invoices", s.handleInvoiceList).Methods(http.MethodGet)
	app.HandleFunc("/invoices/new", s.handleInvoiceForm).Methods(http.MethodGet)
	app.HandleFunc("/invoices/new", s.handleInvoiceCreate).Methods(http.MethodPost)
	app.HandleFunc("/invoices/preview", s.handleInvoicePreview).Methods(http.MethodPost)
	app.HandleFunc("/invoices/{id}", s.handleInvoiceDetail).Methods(http.MethodGet)
	app.HandleFunc("/invoices/{id}/edit", s.handleInvoiceForm).Methods(http.MethodGet)
	app.HandleFunc("/invoices/{id}/edit", s.handleInvoiceUpdate).Methods(http.MethodPost)
	app.HandleFunc("/invoices/{id}/status", s.handleInvoiceStatus).Methods(http.MethodPost)
	app.HandleFunc("/invoices/{id}/payments", s.handleInvoicePayment).Methods(http.MethodPost)
	app.HandleFunc("/invoices/{id}/print", s.handleInvoicePrint).Methods(http.MethodGet)
	app.HandleFunc("/invoices/{id}/delete", s.handleInvoiceDelete).Methods(http.MethodPost)

	// Admin-only surface.
	admin := app.PathPrefix("/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(guard.Middleware(s.store, guard.AdminOnly("/app/admin"))))

	admin.HandleFunc("", s.redirectTo("/app/admin/company")).Methods(http.MethodGet)
	admin.HandleFunc("/company", s.handleCompanyPage).Methods(http.MethodGet)
	admin.HandleFunc("/company", s.handleCompanyUpdate).Methods(http.MethodPost)

	admin.HandleFunc("/users", s.handleUserList).Methods(http.MethodGet)
	admin.HandleFunc("/users/new", s.handleUserCreate).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/deactivate", s.handleUserDeactivate).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/reset-password", s.handleUserResetPassword).Methods(http.MethodPost)

	admin.HandleFunc("/categories", s.handleCategoryList).Methods(http.MethodGet)
	admin.HandleFunc("/categories/new", s.handleCategoryCreate).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id}/delete", s.handleCategoryDelete).Methods(http.MethodPost)

	admin.HandleFunc("/articles", s.handleArticleList).Methods(http.MethodGet)
	admin.HandleFunc("/articles/new", s.handleArticleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/articles/{id}/delete", s.handleArticleDelete).Methods(http.MethodPost)

	admin.HandleFunc("/services", s.handleServiceList).Methods(http.MethodGet)
	admin.HandleFunc("/services/new", s.handleServiceCreate).Methods(http.MethodPost)
	admin.HandleFunc("/services/{id}/delete", s.handleServiceDelete).Methods(http.MethodPost)

	admin.HandleFunc("/pricing", s.handlePricingList).Methods(http.MethodGet)
	admin.HandleFunc("/pricing/new", s.handlePricingCreate).Methods(http.MethodPost)
	admin.HandleFunc("/pricing/{id}/delete", s.handlePricingDelete).Methods(http.MethodPost)

	admin.HandleFunc("/reports", s.handleReports).Methods(http.MethodGet)
	admin.HandleFunc("/reports/export", s.handleReportExport).Methods(http.MethodGet)

	admin.HandleFunc("/messages", s.handleContactList).Methods(http.MethodGet)
	admin.HandleFunc("/messages/{id}/read", s.handleContactMarkRead).Methods(http.MethodPost)
	admin.HandleFunc("/messages/{id}/delete", s.handleContactDelete).Methods(http.MethodPost)

	var handler http.Handler = r
	handler = s.identityMiddleware(handler)
	handler = tracingMiddleware(s.log)(handler)
	return handler
}

func (s *Server) redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func contextWithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, logging.UserIDKey, userID)
	return context.WithValue(ctx, logging.RoleKey, role)
}
