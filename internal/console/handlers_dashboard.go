package console

import "net/http"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.store.IsAdmin() {
		data, err := s.client.Dashboard().Admin(r.Context())
		if err != nil {
			s.fail(w, r, err, "/app/invoices")
			return
		}
		v := s.view("Dashboard")
		v.Data = data
		s.render(w, r, "dashboard_admin", v)
		return
	}

	data, err := s.client.Dashboard().User(r.Context())
	if err != nil {
		s.fail(w, r, err, "/app/invoices")
		return
	}
	v := s.view("Dashboard")
	v.Data = data
	s.render(w, r, "dashboard_user", v)
}
