package console

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/follysitou/sygpress-console/internal/api"
	"github.com/follysitou/sygpress-console/internal/apierr"
)

// Company profile.

func (s *Server) handleCompanyPage(w http.ResponseWriter, r *http.Request) {
	company, err := s.client.Company().Get(r.Context())
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Company")
	v.Data = company
	s.render(w, r, "admin_company", v)
}

func (s *Server) handleCompanyUpdate(w http.ResponseWriter, r *http.Request) {
	errs := ValidationErrors{}
	req := api.CompanyRequest{
		Name:        formString(r, "name"),
		Address:     formString(r, "address"),
		PhoneNumber: formString(r, "phoneNumber"),
		Email:       formString(r, "email"),
		VATNumber:   formString(r, "vatNumber"),
		Currency:    formString(r, "currency"),
	}
	if req.Name == "" {
		errs.Add("name", "company name is required")
	}
	if !errs.OK() {
		v := s.view("Company")
		v.Errors = errs
		v.Form = formValues(r, "name", "address", "phoneNumber", "email", "vatNumber", "currency")
		v.Data = api.Company{}
		s.render(w, r, "admin_company", v)
		return
	}

	if _, err := s.client.Company().Update(r.Context(), req); err != nil {
		s.fail(w, r, err, "/app/admin/company")
		return
	}

	s.toasts.Success("Company profile updated.")
	http.Redirect(w, r, "/app/admin/company", http.StatusFound)
}

// Account administration.

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	page, err := s.client.Users().List(r.Context(), api.PageQuery{Page: formPage(r)})
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Accounts")
	v.Data = page
	s.render(w, r, "admin_users", v)
}

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	errs := ValidationErrors{}
	req := api.UserRequest{
		Username: formString(r, "username"),
		Email:    formString(r, "email"),
		FullName: formString(r, "fullName"),
		Role:     formString(r, "role"),
	}
	if req.Username == "" {
		errs.Add("username", "username is required")
	}
	if req.Email == "" {
		errs.Add("email", "email is required")
	}
	if req.Role != "ADMIN" && req.Role != "USER" {
		errs.Add("role", "role must be ADMIN or USER")
	}
	if !errs.OK() {
		for _, msg := range errs {
			s.toasts.Error(msg)
		}
		http.Redirect(w, r, "/app/admin/users", http.StatusFound)
		return
	}

	user, err := s.client.Users().Create(r.Context(), req)
	if err != nil {
		if apierr.Is(err, apierr.KindValidation) {
			s.toasts.Error(apierr.UserMessage(err))
			http.Redirect(w, r, "/app/admin/users", http.StatusFound)
			return
		}
		s.fail(w, r, err, "/app/admin/users")
		return
	}

	s.toasts.Success("Account " + user.Username + " created; a temporary password was issued.")
	http.Redirect(w, r, "/app/admin/users", http.StatusFound)
}

func (s *Server) handleUserDeactivate(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		s.toasts.Warning("Deactivation needs confirmation.")
		http.Redirect(w, r, "/app/admin/users", http.StatusFound)
		return
	}

	if err := s.client.Users().Deactivate(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, "/app/admin/users")
		return
	}

	s.toasts.Success("Account deactivated.")
	http.Redirect(w, r, "/app/admin/users", http.StatusFound)
}

func (s *Server) handleUserResetPassword(w http.ResponseWriter, r *http.Request) {
	result, err := s.client.Users().ResetPassword(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, "/app/admin/users")
		return
	}

	// Shown once; the backend flags the account for a forced change.
	s.toasts.Warning("Temporary password: " + result.TemporaryPassword)
	http.Redirect(w, r, "/app/admin/users", http.StatusFound)
}

// Catalog administration.

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.client.Catalog().Categories(r.Context())
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Categories")
	v.Data = categories
	s.render(w, r, "admin_categories", v)
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := formString(r, "name")
	if name == "" {
		s.toasts.Error("Category name is required.")
		http.Redirect(w, r, "/app/admin/categories", http.StatusFound)
		return
	}

	if _, err := s.client.Catalog().CreateCategory(r.Context(), api.CategoryRequest{Name: name}); err != nil {
		s.fail(w, r, err, "/app/admin/categories")
		return
	}

	s.toasts.Success("Category " + name + " created.")
	http.Redirect(w, r, "/app/admin/categories", http.StatusFound)
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		s.toasts.Warning("Deletion needs confirmation.")
		http.Redirect(w, r, "/app/admin/categories", http.StatusFound)
		return
	}

	if err := s.client.Catalog().DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, "/app/admin/categories")
		return
	}

	s.toasts.Success("Category deleted.")
	http.Redirect(w, r, "/app/admin/categories", http.StatusFound)
}

// articlesView pairs the article list with the categories for the select.
type articlesView struct {
	Articles   []api.Article
	Categories []api.Category
}

func (s *Server) handleArticleList(w http.ResponseWriter, r *http.Request) {
	articles, err := s.client.Catalog().Articles(r.Context())
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}
	categories, err := s.client.Catalog().Categories(r.Context())
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Articles")
	v.Data = articlesView{Articles: articles, Categories: categories}
	s.render(w, r, "admin_articles", v)
}

func (s *Server) handleArticleCreate(w http.ResponseWriter, r *http.Request) {
	req := api.ArticleRequest{
		Name:             formString(r, "name"),
		CategoryPublicID: formString(r, "categoryPublicId"),
	}
	if req.Name == "" || req.CategoryPublicID == "" {
		s.toasts.Error("Article name and category are required.")
		http.Redirect(w, r, "/app/admin/articles", http.StatusFound)
		return
	}

	if _, err := s.client.Catalog().CreateArticle(r.Context(), req); err != nil {
		s.fail(w, r, err, "/app/admin/articles")
		return
	}

	s.toasts.Success("Article " + req.Name + " created.")
	http.Redirect(w, r, "/app/admin/articles", http.StatusFound)
}

func (s *Server) handleArticleDelete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		s.toasts.Warning("Deletion needs confirmation.")
		http.Redirect(w, r, "/app/admin/articles", http.StatusFound)
		return
	}

	if err := s.client.Catalog().DeleteArticle(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, "/app/admin/articles")
		return
	}

	s.toasts.Success("Article deleted.")
	http.Redirect(w, r, "/app/admin/articles", http.StatusFound)
}

func (s *Server) handleServiceList(w http.ResponseWriter, r *http.Request) {
	services, err := s.client.Catalog().Services(r.Context())
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Services")
	v.Data = services
	s.render(w, r, "admin_services", v)
}

func (s *Server) handleServiceCreate(w http.ResponseWriter, r *http.Request) {
	name := formString(r, "name")
	if name == "" {
		s.toasts.Error("Service name is required.")
		http.Redirect(w, r, "/app/admin/services", http.StatusFound)
		return
	}

	if _, err := s.client.Catalog().CreateService(r.Context(), api.ServiceRequest{Name: name}); err != nil {
		s.fail(w, r, err, "/app/admin/services")
		return
	}

	s.toasts.Success("Service " + name + " created.")
	http.Redirect(w, r, "/app/admin/services", http.StatusFound)
}

func (s *Server) handleServiceDelete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		s.toasts.Warning("Deletion needs confirmation.")
		http.Redirect(w, r, "/app/admin/services", http.StatusFound)
		return
	}

	if err := s.client.Catalog().DeleteService(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, "/app/admin/services")
		return
	}

	s.toasts.Success("Service deleted.")
	http.Redirect(w, r, "/app/admin/services", http.StatusFound)
}

// pricingView pairs the price grid page with the catalogs for the selects.
type pricingView struct {
	Page     api.Page[api.Pricing]
	Articles []api.Article
	Services []api.Service
}

func (s *Server) handlePricingList(w http.ResponseWriter, r *http.Request) {
	page, err := s.client.Catalog().Pricing(r.Context(), api.PricingQuery{
		PageQuery:       api.PageQuery{Page: formPage(r)},
		ArticlePublicID: r.URL.Query().Get("articleId"),
		ServicePublicID: r.URL.Query().Get("serviceId"),
	})
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}
	articles, err := s.client.Catalog().Articles(r.Context())
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}
	services, err := s.client.Catalog().Services(r.Context())
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Pricing")
	v.Data = pricingView{Page: page, Articles: articles, Services: services}
	s.render(w, r, "admin_pricing", v)
}

func (s *Server) handlePricingCreate(w http.ResponseWriter, r *http.Request) {
	errs := ValidationErrors{}
	req := api.PricingRequest{
		ArticlePublicID: formString(r, "articlePublicId"),
		ServicePublicID: formString(r, "servicePublicId"),
		Price:           formInt64(r, "price", errs),
	}
	if req.ArticlePublicID == "" || req.ServicePublicID == "" {
		errs.Add("pair", "article and service are required")
	}
	if req.Price <= 0 {
		errs.Add("price", "price must be positive")
	}
	if !errs.OK() {
		for _, msg := range errs {
			s.toasts.Error(msg)
		}
		http.Redirect(w, r, "/app/admin/pricing", http.StatusFound)
		return
	}

	if _, err := s.client.Catalog().CreatePricing(r.Context(), req); err != nil {
		s.fail(w, r, err, "/app/admin/pricing")
		return
	}

	s.toasts.Success("Price grid entry created.")
	http.Redirect(w, r, "/app/admin/pricing", http.StatusFound)
}

func (s *Server) handlePricingDelete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		s.toasts.Warning("Deletion needs confirmation.")
		http.Redirect(w, r, "/app/admin/pricing", http.StatusFound)
		return
	}

	if err := s.client.Catalog().DeletePricing(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, "/app/admin/pricing")
		return
	}

	s.toasts.Success("Price grid entry deleted.")
	http.Redirect(w, r, "/app/admin/pricing", http.StatusFound)
}

// Contact messages.

func (s *Server) handleContactList(w http.ResponseWriter, r *http.Request) {
	page, err := s.client.Contacts().List(r.Context(), api.PageQuery{Page: formPage(r)})
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Messages")
	v.Data = page
	s.render(w, r, "admin_messages", v)
}

func (s *Server) handleContactMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Contacts().MarkRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, "/app/admin/messages")
		return
	}
	http.Redirect(w, r, "/app/admin/messages", http.StatusFound)
}

func (s *Server) handleContactDelete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		s.toasts.Warning("Deletion needs confirmation.")
		http.Redirect(w, r, "/app/admin/messages", http.StatusFound)
		return
	}

	if err := s.client.Contacts().Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, "/app/admin/messages")
		return
	}

	s.toasts.Success("Message deleted.")
	http.Redirect(w, r, "/app/admin/messages", http.StatusFound)
}
