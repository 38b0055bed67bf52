package console

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/follysitou/sygpress-console/internal/api"
)

// reportsView is the reports screen data.
type reportsView struct {
	From      string
	To        string
	Sales     []api.SalesReportRow
	Customers []api.CustomerReportRow
	Services  []api.ServiceReportRow
}

// reportRange reads the date range, defaulting to the current month.
func reportRange(r *http.Request) api.ReportQuery {
	q := api.ReportQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if q.From == "" && q.To == "" {
		now := time.Now()
		q.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
		q.To = now.Format("2006-01-02")
	}
	return q
}

func (s *Server) fetchReports(r *http.Request) (reportsView, error) {
	q := reportRange(r)

	sales, err := s.client.Reports().Sales(r.Context(), q)
	if err != nil {
		return reportsView{}, err
	}
	customers, err := s.client.Reports().Customers(r.Context(), q)
	if err != nil {
		return reportsView{}, err
	}
	services, err := s.client.Reports().Services(r.Context(), q)
	if err != nil {
		return reportsView{}, err
	}

	return reportsView{
		From:      q.From,
		To:        q.To,
		Sales:     sales,
		Customers: customers,
		Services:  services,
	}, nil
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	view, err := s.fetchReports(r)
	if err != nil {
		s.fail(w, r, err, "/app/dashboard")
		return
	}

	v := s.view("Reports")
	v.Data = view
	s.render(w, r, "admin_reports", v)
}

// handleReportExport streams the three reports as one spreadsheet, a sheet
// per report.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	view, err := s.fetchReports(r)
	if err != nil {
		s.fail(w, r, err, "/app/admin/reports")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeReportWorkbook(f, view); err != nil {
		s.log.WithContext(r.Context()).WithError(err).Error("build report workbook")
		s.toasts.Error("Could not build the export file.")
		http.Redirect(w, r, "/app/admin/reports", http.StatusFound)
		return
	}

	filename := fmt.Sprintf("sygpress-reports-%s-%s.xlsx", view.From, view.To)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := f.WriteTo(w); err != nil {
		s.log.WithContext(r.Context()).WithError(err).Error("write report workbook")
	}
}

func writeReportWorkbook(f *excelize.File, view reportsView) error {
	const salesSheet = "Sales"
	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(salesSheet, "A1", &[]any{"Period", "Invoices", "Revenue", "VAT collected", "Outstanding"}); err != nil {
		return err
	}
	for i, row := range view.Sales {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(salesSheet, cell, &[]any{row.Period, row.InvoiceCount, row.Revenue, row.VATCollected, row.Outstanding}); err != nil {
			return err
		}
	}

	const customerSheet = "Customers"
	if _, err := f.NewSheet(customerSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(customerSheet, "A1", &[]any{"Customer", "Invoices", "Billed", "Paid", "Outstanding"}); err != nil {
		return err
	}
	for i, row := range view.Customers {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(customerSheet, cell, &[]any{row.CustomerName, row.InvoiceCount, row.TotalBilled, row.TotalPaid, row.Outstanding}); err != nil {
			return err
		}
	}

	const serviceSheet = "Services"
	if _, err := f.NewSheet(serviceSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(serviceSheet, "A1", &[]any{"Service", "Articles treated", "Revenue"}); err != nil {
		return err
	}
	for i, row := range view.Services {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(serviceSheet, cell, &[]any{row.ServiceName, row.ArticleCount, row.Revenue}); err != nil {
			return err
		}
	}

	return nil
}
