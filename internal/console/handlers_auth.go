package console

import (
	"net/http"

	"github.com/follysitou/sygpress-console/internal/api"
	"github.com/follysitou/sygpress-console/internal/apierr"
	"github.com/follysitou/sygpress-console/internal/guard"
	"github.com/follysitou/sygpress-console/internal/session"
)

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if s.store.IsAuthenticated() {
		http.Redirect(w, r, "/app/dashboard", http.StatusFound)
		return
	}
	s.render(w, r, "landing", s.view("Sygpress"))
}

// handleContactSubmit receives the public landing page contact form.
func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	errs := ValidationErrors{}
	req := api.ContactMessageRequest{
		Name:    formString(r, "name"),
		Email:   formString(r, "email"),
		Phone:   formString(r, "phone"),
		Message: formString(r, "message"),
	}
	if req.Name == "" {
		errs.Add("name", "name is required")
	}
	if req.Message == "" {
		errs.Add("message", "message is required")
	}
	if !errs.OK() {
		v := s.view("Sygpress")
		v.Errors = errs
		v.Form = formValues(r, "name", "email", "phone", "message")
		s.render(w, r, "landing", v)
		return
	}

	if err := s.client.Contacts().Submit(r.Context(), req); err != nil {
		s.fail(w, r, err, "/")
		return
	}
	s.toasts.Success("Message sent, we will get back to you.")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.store.IsAuthenticated() {
		if s.store.MustChangePassword() {
			http.Redirect(w, r, guard.ChangePasswordPath, http.StatusFound)
			return
		}
		http.Redirect(w, r, "/app/dashboard", http.StatusFound)
		return
	}

	v := s.view("Sign in")
	v.ReturnURL = r.URL.Query().Get("returnUrl")
	s.render(w, r, "login", v)
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	creds := session.Credentials{
		Username: formString(r, "username"),
		Password: r.FormValue("password"),
	}
	returnURL := r.FormValue("returnUrl")

	errs := ValidationErrors{}
	if creds.Username == "" {
		errs.Add("username", "username is required")
	}
	if creds.Password == "" {
		errs.Add("password", "password is required")
	}
	if !errs.OK() {
		v := s.view("Sign in")
		v.Errors = errs
		v.Form = formValues(r, "username")
		v.ReturnURL = returnURL
		s.render(w, r, "login", v)
		return
	}

	sess, err := s.store.Login(r.Context(), creds)
	if err != nil {
		if apierr.Is(err, apierr.KindInvalidCredentials) {
			errs.Add("password", apierr.UserMessage(err))
			v := s.view("Sign in")
			v.Errors = errs
			v.Form = formValues(r, "username")
			v.ReturnURL = returnURL
			s.render(w, r, "login", v)
			return
		}
		s.fail(w, r, err, guard.LoginPath)
		return
	}

	s.log.WithContext(r.Context()).WithField("username", sess.Username).Info("user logged in")

	if sess.MustChangePassword {
		http.Redirect(w, r, guard.ChangePasswordPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, safeReturnURL(returnURL), http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.Logout()
	s.toasts.Info("You have been signed out.")
	http.Redirect(w, r, guard.LoginPath, http.StatusFound)
}

func (s *Server) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "unauthorized", s.view("Access denied"))
}

func (s *Server) handleChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	v := s.view("Change password")
	v.Data = s.store.MustChangePassword()
	s.render(w, r, "change_password", v)
}

func (s *Server) handleChangePasswordSubmit(w http.ResponseWriter, r *http.Request) {
	oldPassword := r.FormValue("oldPassword")
	newPassword := r.FormValue("newPassword")
	confirm := r.FormValue("confirmPassword")

	errs := ValidationErrors{}
	if oldPassword == "" {
		errs.Add("oldPassword", "current password is required")
	}
	if len(newPassword) < 6 {
		errs.Add("newPassword", "new password must be at least 6 characters")
	}
	if newPassword != confirm {
		errs.Add("confirmPassword", "passwords do not match")
	}
	if !errs.OK() {
		v := s.view("Change password")
		v.Errors = errs
		v.Data = s.store.MustChangePassword()
		s.render(w, r, "change_password", v)
		return
	}

	if err := s.client.Auth().ChangePassword(r.Context(), oldPassword, newPassword); err != nil {
		if apierr.Is(err, apierr.KindValidation) {
			errs.Add("oldPassword", apierr.UserMessage(err))
			v := s.view("Change password")
			v.Errors = errs
			v.Data = s.store.MustChangePassword()
			s.render(w, r, "change_password", v)
			return
		}
		s.fail(w, r, err, guard.ChangePasswordPath)
		return
	}

	s.store.PasswordChanged()
	s.log.WithContext(r.Context()).Info("password changed")
	s.toasts.Success("Password changed.")
	http.Redirect(w, r, "/app/dashboard", http.StatusFound)
}
