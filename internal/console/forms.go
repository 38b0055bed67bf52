package console

import (
	"net/http"
	"strconv"
	"strings"
)

// ValidationErrors maps a form field to its error message. A non-empty map
// blocks submission; the form is re-rendered with the messages inline.
type ValidationErrors map[string]string

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v ValidationErrors) OK() bool { return len(v) == 0 }

// formString reads a trimmed form value.
func formString(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// formInt64 parses a whole-unit amount field. Empty means zero.
func formInt64(r *http.Request, name string, errs ValidationErrors) int64 {
	raw := formString(r, name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs.Add(name, "must be a whole number")
		return 0
	}
	return n
}

// formFloat parses a rate field. Empty means zero.
func formFloat(r *http.Request, name string, errs ValidationErrors) float64 {
	raw := formString(r, name)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.Add(name, "must be a number")
		return 0
	}
	return f
}

// parseQuantity parses a line quantity, which must be a positive whole
// number.
func parseQuantity(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// parseAmount parses a whole-unit amount.
func parseAmount(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// formPage parses the zero-based page query parameter.
func formPage(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// confirmed reports whether a destructive action carries the confirmation
// token. Deletes without it are ignored and the user is told to confirm.
func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

// formValues snapshots submitted fields so a rejected form re-renders with
// what the user typed.
func formValues(r *http.Request, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		out[n] = r.FormValue(n)
	}
	return out
}
