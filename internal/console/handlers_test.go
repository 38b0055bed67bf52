package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/follysitou/sygpress-console/internal/api"
	"github.com/follysitou/sygpress-console/internal/config"
	"github.com/follysitou/sygpress-console/internal/logging"
	"github.com/follysitou/sygpress-console/internal/session"
)

// backendState records side-effecting calls the fake backend received.
type backendState struct {
	customerDeletes int
}

// newBackend fakes the sygpress API for handler tests.
func newBackend(t *testing.T) (*httptest.Server, *backendState) {
	t.Helper()

	state := &backendState{}
	mux := http.NewServeMux()

	mux.HandleFunc("DELETE /customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		state.customerDeletes++
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid username or password"})
			return
		}
		role := "USER"
		if body["username"] == "admin" {
			role = "ADMIN"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":              "opaque-token",
			"publicId":           "u-1",
			"username":           body["username"],
			"email":              body["username"] + "@example.com",
			"fullName":           "Test User",
			"role":               role,
			"mustChangePassword": body["username"] == "fresh",
		})
	})

	mux.HandleFunc("GET /pricing", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"publicId": "p-shirt-wash", "price": 1000,
					"article": map[string]any{"publicId": "a-1", "name": "Shirt"},
					"service": map[string]any{"publicId": "s-1", "name": "Washing"}},
				{"publicId": "p-suit-clean", "price": 5000,
					"article": map[string]any{"publicId": "a-2", "name": "Suit"},
					"service": map[string]any{"publicId": "s-2", "name": "Dry cleaning"}},
			},
			"totalElements": 2, "totalPages": 1, "size": 500, "number": 0,
		})
	})

	mux.HandleFunc("GET /customers", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"publicId": "c-1", "name": "Awa Diop", "phoneNumber": "770000000"},
			},
			"totalElements": 1, "totalPages": 1, "size": 10, "number": 0,
		})
	})

	mux.HandleFunc("GET /reports/sales", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"period": "2026-08", "invoiceCount": 3, "revenue": 15000, "vatCollected": 2700, "outstanding": 5000},
		})
	})
	mux.HandleFunc("GET /reports/customers", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"customerName": "Awa Diop", "invoiceCount": 3, "totalBilled": 15000, "totalPaid": 10000, "outstanding": 5000},
		})
	})
	mux.HandleFunc("GET /reports/services", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"serviceName": "Washing", "articleCount": 12, "revenue": 9000},
		})
	})

	mux.HandleFunc("GET /invoices", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":       []map[string]any{},
			"totalElements": 0, "totalPages": 0, "size": 10, "number": 0,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, state
}

// newConsole wires a console server against the fake backend.
func newConsole(t *testing.T, backend *httptest.Server) (*Server, *session.Store) {
	t.Helper()

	store := session.NewStore(nil, nil)
	client, err := api.New(api.Config{
		BaseURL: backend.URL,
		Timeout: 5 * time.Second,
		Tokens:  store,
	})
	if err != nil {
		t.Fatalf("api.New() error: %v", err)
	}
	store.SetBackend(client.Auth())
	client.OnAuthFailure(store.Invalidate)

	cfg := &config.Config{BaseURL: backend.URL, ListenAddr: "127.0.0.1:0"}
	srv, err := New(cfg, logging.New("error"), store, client)
	if err != nil {
		t.Fatalf("console.New() error: %v", err)
	}
	return srv, store
}

// newConsoleWithBackend is the common case: a console over a fresh fake
// backend whose side effects the test does not inspect.
func newConsoleWithBackend(t *testing.T) (*Server, *session.Store) {
	t.Helper()
	backend, _ := newBackend(t)
	return newConsole(t, backend)
}

func login(t *testing.T, store *session.Store, username string) {
	t.Helper()
	if _, err := store.Login(context.Background(), session.Credentials{
		Username: username,
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	srv, _ := newConsoleWithBackend(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/app/invoices?page=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	want := "/login?returnUrl=" + url.QueryEscape("/app/invoices?page=2")
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestLoginFormInstallsSessionAndRedirects(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()

	form := url.Values{
		"username":  {"cashier"},
		"password":  {"correct-horse"},
		"returnUrl": {"/app/customers"},
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != "/app/customers" {
		t.Fatalf("Location = %q, want /app/customers", got)
	}
	if !store.IsAuthenticated() {
		t.Fatal("session must be installed after a successful login")
	}
}

func TestLoginRejectsBadCredentialsInline(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()

	form := url.Values{"username": {"cashier"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (form re-render)", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "invalid username or password") {
		t.Fatal("response must carry the backend's rejection message")
	}
	if store.IsAuthenticated() {
		t.Fatal("failed login must leave the console anonymous")
	}
}

func TestForcedPasswordChangePinsNavigation(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()
	login(t, store, "fresh")

	req := httptest.NewRequest(http.MethodGet, "/app/customers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != "/change-password" {
		t.Fatalf("Location = %q, want /change-password", got)
	}
}

func TestUserRoleIsKeptOutOfAdmin(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()
	login(t, store, "cashier")

	req := httptest.NewRequest(http.MethodGet, "/app/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != "/unauthorized" {
		t.Fatalf("Location = %q, want /unauthorized", got)
	}
	if !store.IsAuthenticated() {
		t.Fatal("a role rejection must not drop the session")
	}
}

func TestInvoicePreviewComputesAdvisoryTotals(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()
	login(t, store, "cashier")

	form := url.Values{
		"customerPublicId": {"c-1"},
		"depositDate":      {"2026-08-27"},
		"line_pricing":     {"p-shirt-wash", ""},
		"line_quantity":    {"2", "1"},
		"vatRate":          {"18"},
		"amountPaid":       {"1000"},
	}
	req := httptest.NewRequest(http.MethodPost, "/app/invoices/preview", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got invoicePreview
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if got.LinesTotal != 2000 {
		t.Errorf("LinesTotal = %d, want 2000", got.LinesTotal)
	}
	if got.VATAmount != 360 {
		t.Errorf("VATAmount = %d, want 360", got.VATAmount)
	}
	if got.Total != 2360 {
		t.Errorf("Total = %d, want 2360", got.Total)
	}
	if got.Remaining != 1360 || got.Paid {
		t.Errorf("Remaining = %d, Paid = %v; want 1360, false", got.Remaining, got.Paid)
	}
}

func TestPreviewFlagsUnresolvedPricing(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()
	login(t, store, "cashier")

	form := url.Values{
		"line_pricing":  {"p-gone"},
		"line_quantity": {"3"},
	}
	req := httptest.NewRequest(http.MethodPost, "/app/invoices/preview", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var got invoicePreview
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if got.Total != 0 {
		t.Errorf("Total = %d, want 0 for an unresolved line", got.Total)
	}
	if len(got.Unresolved) != 1 || got.Unresolved[0] != "p-gone" {
		t.Errorf("Unresolved = %v, want [p-gone]", got.Unresolved)
	}
}

func invoiceForm(extra url.Values) url.Values {
	form := url.Values{
		"customerPublicId": {"c-1"},
		"depositDate":      {"2026-08-27"},
		"line_pricing":     {"p-shirt-wash"},
		"line_quantity":    {"1"},
	}
	for key, values := range extra {
		form[key] = values
	}
	return form
}

func TestInvoiceFormVATRateBounds(t *testing.T) {
	cases := []struct {
		name    string
		rate    string
		wantErr bool
	}{
		{name: "zero", rate: "0", wantErr: false},
		{name: "typical", rate: "18", wantErr: false},
		{name: "upper_bound", rate: "100", wantErr: false},
		{name: "negative", rate: "-1", wantErr: true},
		{name: "above_hundred", rate: "150", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := invoiceForm(url.Values{"vatRate": {tc.rate}})
			req := httptest.NewRequest(http.MethodPost, "/app/invoices/new", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			_, errs := parseInvoiceForm(req)
			if _, got := errs["vatRate"]; got != tc.wantErr {
				t.Fatalf("vatRate=%s error presence = %v, want %v", tc.rate, got, tc.wantErr)
			}
		})
	}
}

func TestInvoiceFormRejectsNegativeFeeAmount(t *testing.T) {
	form := invoiceForm(url.Values{
		"fee_title":  {"Express"},
		"fee_amount": {"-500"},
	})
	req := httptest.NewRequest(http.MethodPost, "/app/invoices/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parsed, errs := parseInvoiceForm(req)
	if _, ok := errs["fees"]; !ok {
		t.Fatal("a negative fee amount must produce a validation error")
	}
	if len(parsed.AdditionalFees) != 0 {
		t.Fatalf("AdditionalFees = %+v, want the negative fee dropped", parsed.AdditionalFees)
	}
}

func TestInvoiceFormErrorKeepsSubmittedRows(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()
	login(t, store, "cashier")

	// Missing deposit date fails validation; the entered line and fee must
	// come back in the re-rendered form.
	form := invoiceForm(url.Values{
		"depositDate":   {""},
		"line_quantity": {"2"},
		"fee_title":     {"Express"},
		"fee_amount":    {"500"},
	})
	req := httptest.NewRequest(http.MethodPost, "/app/invoices/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (form re-render)", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "deposit date is required") {
		t.Fatal("validation message must appear inline")
	}
	if !strings.Contains(body, `value="2"`) {
		t.Fatal("the submitted line quantity must survive the re-render")
	}
	if !strings.Contains(body, `value="Express"`) {
		t.Fatal("the submitted fee must survive the re-render")
	}
}

func TestCustomerFormValidationBlocksSubmit(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()
	login(t, store, "cashier")

	form := url.Values{"name": {""}, "phoneNumber": {""}}
	req := httptest.NewRequest(http.MethodPost, "/app/customers/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (form re-render)", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "name is required") || !strings.Contains(body, "phone number is required") {
		t.Fatal("validation messages must appear inline")
	}
}

func TestDeleteWithoutConfirmationIsIgnored(t *testing.T) {
	backend, state := newBackend(t)
	srv, store := newConsole(t, backend)
	handler := srv.Handler()
	login(t, store, "cashier")

	req := httptest.NewRequest(http.MethodPost, "/app/customers/c-1/delete", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if state.customerDeletes != 0 {
		t.Fatal("an unconfirmed delete must never reach the backend")
	}
}

func TestConfirmedDeleteReachesBackend(t *testing.T) {
	backend, state := newBackend(t)
	srv, store := newConsole(t, backend)
	handler := srv.Handler()
	login(t, store, "cashier")

	form := url.Values{"confirm": {"yes"}}
	req := httptest.NewRequest(http.MethodPost, "/app/customers/c-1/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if state.customerDeletes != 1 {
		t.Fatalf("backend deletes = %d, want 1", state.customerDeletes)
	}
}

func TestReportExportStreamsWorkbook(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()
	login(t, store, "admin")

	req := httptest.NewRequest(http.MethodGet, "/app/admin/reports/export?from=2026-08-01&to=2026-08-27", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	wantType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if got := rec.Header().Get("Content-Type"); got != wantType {
		t.Fatalf("Content-Type = %q, want %q", got, wantType)
	}
	body := rec.Body.Bytes()
	// xlsx files are zip archives.
	if len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Fatal("export body must be a zip-packaged workbook")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	srv, store := newConsoleWithBackend(t)
	handler := srv.Handler()
	login(t, store, "cashier")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Location"); got != "/login" {
		t.Fatalf("Location = %q, want /login", got)
	}
	if store.IsAuthenticated() {
		t.Fatal("logout must clear the session")
	}
}
