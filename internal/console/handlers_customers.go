package console

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/follysitou/sygpress-console/internal/api"
	"github.com/follysitou/sygpress-console/internal/apierr"
)

// customerListView is the customers screen data.
type customerListView struct {
	Page   api.Page[api.Customer]
	Search string
}

func (s *Server) handleCustomerList(w http.ResponseWriter, r *http.Request) {
	q := api.PageQuery{
		Page:   formPage(r),
		Search: r.URL.Query().Get("search"),
	}

	page, err := s.client.Customers().List(r.Context(), q)
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Customers")
	v.Data = customerListView{Page: page, Search: q.Search}
	s.render(w, r, "customers_list", v)
}

// customerFormView carries the customer under edit, zero-valued for the
// create form.
type customerFormView struct {
	Customer api.Customer
	IsEdit   bool
}

func (s *Server) handleCustomerForm(w http.ResponseWriter, r *http.Request) {
	view := customerFormView{}
	title := "New customer"

	if id, ok := mux.Vars(r)["id"]; ok {
		customer, err := s.client.Customers().Get(r.Context(), id)
		if err != nil {
			s.fail(w, r, err, "/app/customers")
			return
		}
		view = customerFormView{Customer: customer, IsEdit: true}
		title = "Edit customer"
	}

	v := s.view(title)
	v.Data = view
	s.render(w, r, "customer_form", v)
}

func parseCustomerForm(r *http.Request) (api.CustomerRequest, ValidationErrors) {
	errs := ValidationErrors{}
	req := api.CustomerRequest{
		Name:        formString(r, "name"),
		PhoneNumber: formString(r, "phoneNumber"),
		Email:       formString(r, "email"),
		Address:     formString(r, "address"),
	}
	if req.Name == "" {
		errs.Add("name", "name is required")
	}
	if req.PhoneNumber == "" {
		errs.Add("phoneNumber", "phone number is required")
	}
	return req, errs
}

func (s *Server) handleCustomerCreate(w http.ResponseWriter, r *http.Request) {
	req, errs := parseCustomerForm(r)
	if !errs.OK() {
		v := s.view("New customer")
		v.Errors = errs
		v.Form = formValues(r, "name", "phoneNumber", "email", "address")
		v.Data = customerFormView{}
		s.render(w, r, "customer_form", v)
		return
	}

	customer, err := s.client.Customers().Create(r.Context(), req)
	if err != nil {
		if apierr.Is(err, apierr.KindValidation) {
			errs.Add("name", apierr.UserMessage(err))
			v := s.view("New customer")
			v.Errors = errs
			v.Form = formValues(r, "name", "phoneNumber", "email", "address")
			v.Data = customerFormView{}
			s.render(w, r, "customer_form", v)
			return
		}
		s.fail(w, r, err, "/app/customers")
		return
	}

	s.toasts.Success("Customer " + customer.Name + " created.")
	http.Redirect(w, r, "/app/customers", http.StatusFound)
}

func (s *Server) handleCustomerUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	req, errs := parseCustomerForm(r)
	if !errs.OK() {
		v := s.view("Edit customer")
		v.Errors = errs
		v.Form = formValues(r, "name", "phoneNumber", "email", "address")
		v.Data = customerFormView{Customer: api.Customer{PublicID: id}, IsEdit: true}
		s.render(w, r, "customer_form", v)
		return
	}

	customer, err := s.client.Customers().Update(r.Context(), id, req)
	if err != nil {
		s.fail(w, r, err, "/app/customers")
		return
	}

	s.toasts.Success("Customer " + customer.Name + " updated.")
	http.Redirect(w, r, "/app/customers", http.StatusFound)
}

func (s *Server) handleCustomerDelete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		s.toasts.Warning("Deletion needs confirmation.")
		http.Redirect(w, r, "/app/customers", http.StatusFound)
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.client.Customers().Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, "/app/customers")
		return
	}

	s.toasts.Success("Customer deleted.")
	http.Redirect(w, r, "/app/customers", http.StatusFound)
}
