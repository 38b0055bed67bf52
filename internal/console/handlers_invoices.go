package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/follysitou/sygpress-console/internal/api"
	"github.com/follysitou/sygpress-console/internal/apierr"
	"github.com/follysitou/sygpress-console/internal/billing"
)

// invoiceListView is the invoices screen data.
type invoiceListView struct {
	Page     api.Page[api.Invoice]
	Search   string
	Status   api.ProcessingStatus
	Statuses []api.ProcessingStatus
}

func (s *Server) handleInvoiceList(w http.ResponseWriter, r *http.Request) {
	q := api.InvoiceQuery{
		PageQuery: api.PageQuery{
			Page:   formPage(r),
			Search: r.URL.Query().Get("search"),
		},
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status, err := api.ParseStatus(raw); err == nil {
			q.Status = status
		}
	}

	// Loads are sequenced: if the user navigates again while this one is
	// in flight, the superseded result is dropped instead of overwriting
	// the newer page.
	page, err := s.invoiceList.Load(r.Context(), func(ctx context.Context) (api.Page[api.Invoice], error) {
		return s.client.Invoices().List(ctx, q)
	})
	if err != nil {
		if errors.Is(err, api.ErrStale) {
			if latest, ok := s.invoiceList.Latest(); ok {
				page = latest
			}
		} else {
			s.fail(w, r, err, "/app/dashboard")
			return
		}
	}

	v := s.view("Invoices")
	v.Data = invoiceListView{
		Page:     page,
		Search:   q.Search,
		Status:   q.Status,
		Statuses: api.AllStatuses,
	}
	s.render(w, r, "invoices_list", v)
}

// invoiceDetailView is the invoice screen data.
type invoiceDetailView struct {
	Invoice    api.Invoice
	NextStatus api.ProcessingStatus
	HasNext    bool
}

func (s *Server) handleInvoiceDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	invoice, err := s.client.Invoices().Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "/app/invoices")
		return
	}

	next, hasNext := invoice.ProcessingStatus.Next()
	v := s.view("Invoice " + invoice.InvoiceNumber)
	v.Data = invoiceDetailView{Invoice: invoice, NextStatus: next, HasNext: hasNext}
	s.render(w, r, "invoice_detail", v)
}

// invoiceFormView carries everything the creation/edit form needs: the
// invoice under edit plus the customer and pricing catalogs for the selects.
type invoiceFormView struct {
	Invoice   api.Invoice
	IsEdit    bool
	Customers []api.Customer
	Pricing   []api.Pricing
}

func (s *Server) invoiceFormData(r *http.Request) (invoiceFormView, error) {
	customers, err := s.client.Customers().List(r.Context(), api.PageQuery{Size: 200})
	if err != nil {
		return invoiceFormView{}, err
	}
	pricing, err := s.client.Catalog().Pricing(r.Context(), api.PricingQuery{PageQuery: api.PageQuery{Size: 500}})
	if err != nil {
		return invoiceFormView{}, err
	}
	return invoiceFormView{Customers: customers.Content, Pricing: pricing.Content}, nil
}

func (s *Server) handleInvoiceForm(w http.ResponseWriter, r *http.Request) {
	view, err := s.invoiceFormData(r)
	if err != nil {
		s.fail(w, r, err, "/app/invoices")
		return
	}
	title := "New invoice"

	if id, ok := mux.Vars(r)["id"]; ok {
		invoice, err := s.client.Invoices().Get(r.Context(), id)
		if err != nil {
			s.fail(w, r, err, "/app/invoices")
			return
		}
		if invoice.Locked() {
			s.toasts.Warning("Invoice " + invoice.InvoiceNumber + " is settled and closed; it can no longer be edited.")
			http.Redirect(w, r, "/app/invoices/"+id, http.StatusFound)
			return
		}
		view.Invoice = invoice
		view.IsEdit = true
		title = "Edit invoice " + invoice.InvoiceNumber
	}

	v := s.view(title)
	v.Data = view
	s.render(w, r, "invoice_form", v)
}

// parseInvoiceForm reads the invoice form. Lines and fees arrive as parallel
// arrays; blank line rows are skipped so the form can keep empty template
// rows around.
func parseInvoiceForm(r *http.Request) (api.InvoiceRequest, ValidationErrors) {
	errs := ValidationErrors{}
	if err := r.ParseForm(); err != nil {
		errs.Add("form", "malformed form data")
		return api.InvoiceRequest{}, errs
	}

	req := api.InvoiceRequest{
		CustomerPublicID: formString(r, "customerPublicId"),
		DepositDate:      formString(r, "depositDate"),
		DeliveryDate:     formString(r, "deliveryDate"),
		Discount:         formInt64(r, "discount", errs),
		VATRate:          formFloat(r, "vatRate", errs),
		AmountPaid:       formInt64(r, "amountPaid", errs),
		Observations:     formString(r, "observations"),
	}

	pricingIDs := r.PostForm["line_pricing"]
	quantities := r.PostForm["line_quantity"]
	for i, pricingID := range pricingIDs {
		if pricingID == "" {
			continue
		}
		var qty int64 = 1
		if i < len(quantities) && quantities[i] != "" {
			n, err := parseQuantity(quantities[i])
			if err != nil {
				errs.Add("lines", "quantities must be positive whole numbers")
				continue
			}
			qty = n
		}
		req.InvoiceLines = append(req.InvoiceLines, api.InvoiceLineRequest{
			PricingPublicID: pricingID,
			Quantity:        qty,
		})
	}

	titles := r.PostForm["fee_title"]
	descriptions := r.PostForm["fee_description"]
	amounts := r.PostForm["fee_amount"]
	for i, title := range titles {
		if title == "" {
			continue
		}
		fee := api.AdditionalFeeRequest{Title: title}
		if i < len(descriptions) {
			fee.Description = descriptions[i]
		}
		if i < len(amounts) && amounts[i] != "" {
			n, err := parseAmount(amounts[i])
			if err != nil {
				errs.Add("fees", "fee amounts must be whole numbers")
				continue
			}
			if n < 0 {
				errs.Add("fees", "fee amounts cannot be negative")
				continue
			}
			fee.Amount = n
		}
		req.AdditionalFees = append(req.AdditionalFees, fee)
	}

	if req.CustomerPublicID == "" {
		errs.Add("customerPublicId", "a customer is required")
	}
	if req.DepositDate == "" {
		errs.Add("depositDate", "deposit date is required")
	}
	if len(req.InvoiceLines) == 0 {
		errs.Add("lines", "at least one line is required")
	}
	if req.Discount < 0 {
		errs.Add("discount", "discount cannot be negative")
	}
	if req.VATRate < 0 || req.VATRate > 100 {
		errs.Add("vatRate", "VAT rate must be between 0 and 100")
	}
	if req.AmountPaid < 0 {
		errs.Add("amountPaid", "amount paid cannot be negative")
	}

	return req, errs
}

func (s *Server) renderInvoiceFormError(w http.ResponseWriter, r *http.Request, id string, req api.InvoiceRequest, errs ValidationErrors) {
	view, err := s.invoiceFormData(r)
	if err != nil {
		s.fail(w, r, err, "/app/invoices")
		return
	}
	title := "New invoice"
	if id != "" {
		view.Invoice.PublicID = id
		view.IsEdit = true
		title = "Edit invoice"
	}

	// Carry the submitted rows back into the form so one validation slip
	// does not discard the entered items.
	view.Invoice.Customer.PublicID = req.CustomerPublicID
	for _, line := range req.InvoiceLines {
		view.Invoice.InvoiceLines = append(view.Invoice.InvoiceLines, api.InvoiceLine{
			Pricing:  api.Pricing{PublicID: line.PricingPublicID},
			Quantity: line.Quantity,
		})
	}
	for _, fee := range req.AdditionalFees {
		view.Invoice.AdditionalFees = append(view.Invoice.AdditionalFees, api.AdditionalFee{
			Title:       fee.Title,
			Description: fee.Description,
			Amount:      fee.Amount,
		})
	}

	v := s.view(title)
	v.Errors = errs
	v.Form = formValues(r, "customerPublicId", "depositDate", "deliveryDate",
		"discount", "vatRate", "amountPaid", "observations")
	v.Data = view
	s.render(w, r, "invoice_form", v)
}

func (s *Server) handleInvoiceCreate(w http.ResponseWriter, r *http.Request) {
	req, errs := parseInvoiceForm(r)
	if !errs.OK() {
		s.renderInvoiceFormError(w, r, "", req, errs)
		return
	}

	invoice, err := s.client.Invoices().Create(r.Context(), req)
	if err != nil {
		if apierr.Is(err, apierr.KindValidation) {
			errs.Add("form", apierr.UserMessage(err))
			s.renderInvoiceFormError(w, r, "", req, errs)
			return
		}
		s.fail(w, r, err, "/app/invoices")
		return
	}

	s.toasts.Success("Invoice " + invoice.InvoiceNumber + " created.")
	http.Redirect(w, r, "/app/invoices/"+invoice.PublicID, http.StatusFound)
}

func (s *Server) handleInvoiceUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	req, errs := parseInvoiceForm(r)
	if !errs.OK() {
		s.renderInvoiceFormError(w, r, id, req, errs)
		return
	}

	invoice, err := s.client.Invoices().Update(r.Context(), id, req)
	if err != nil {
		if apierr.Is(err, apierr.KindValidation) {
			errs.Add("form", apierr.UserMessage(err))
			s.renderInvoiceFormError(w, r, id, req, errs)
			return
		}
		s.fail(w, r, err, "/app/invoices/"+id)
		return
	}

	s.toasts.Success("Invoice " + invoice.InvoiceNumber + " updated.")
	http.Redirect(w, r, "/app/invoices/"+invoice.PublicID, http.StatusFound)
}

// invoicePreview is the live-totals response for the invoice form. The
// figures are advisory; the backend recomputes on save.
type invoicePreview struct {
	LinesTotal  int64 `json:"linesTotal"`
	FeesTotal   int64 `json:"feesTotal"`
	TaxableBase int64 `json:"taxableBase"`
	VATAmount   int64 `json:"vatAmount"`
	Total       int64 `json:"total"`
	Remaining   int64 `json:"remaining"`
	Paid        bool  `json:"paid"`
	// Unresolved lists pricing IDs that no longer exist in the catalog;
	// they contribute zero and the form shows a warning.
	Unresolved []string `json:"unresolved,omitempty"`
}

func (s *Server) handleInvoicePreview(w http.ResponseWriter, r *http.Request) {
	// Validation errors are ignored here: a half-filled draft still
	// previews, with the missing pieces contributing zero.
	req, _ := parseInvoiceForm(r)

	pricing, err := s.client.Catalog().Pricing(r.Context(), api.PricingQuery{PageQuery: api.PageQuery{Size: 500}})
	if err != nil {
		s.fail(w, r, err, "/app/invoices")
		return
	}
	prices := make(map[string]int64, len(pricing.Content))
	for _, p := range pricing.Content {
		prices[p.PublicID] = p.Price
	}

	draft := billing.Draft{
		Discount:       req.Discount,
		VATRatePercent: req.VATRate,
	}
	var unresolved []string
	for _, line := range req.InvoiceLines {
		price, ok := prices[line.PricingPublicID]
		if !ok {
			unresolved = append(unresolved, line.PricingPublicID)
		}
		draft.Lines = append(draft.Lines, billing.Line{
			PricingID: line.PricingPublicID,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
	}
	for _, fee := range req.AdditionalFees {
		draft.Fees = append(draft.Fees, billing.Fee{Title: fee.Title, Amount: fee.Amount})
	}

	totals := billing.Compute(draft)
	remaining, paid := billing.PaymentState(totals.Total, req.AmountPaid)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(invoicePreview{
		LinesTotal:  totals.LinesTotal,
		FeesTotal:   totals.FeesTotal,
		TaxableBase: totals.TaxableBase,
		VATAmount:   totals.VATAmount,
		Total:       totals.Total,
		Remaining:   remaining,
		Paid:        paid,
		Unresolved:  unresolved,
	})
}

func (s *Server) handleInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	status, err := api.ParseStatus(formString(r, "status"))
	if err != nil {
		s.toasts.Error("Unknown workflow stage.")
		http.Redirect(w, r, "/app/invoices/"+id, http.StatusFound)
		return
	}

	invoice, err := s.client.Invoices().UpdateStatus(r.Context(), id, status)
	if err != nil {
		s.fail(w, r, err, "/app/invoices/"+id)
		return
	}

	s.toasts.Success("Invoice " + invoice.InvoiceNumber + " moved to " + invoice.ProcessingStatus.Label() + ".")
	http.Redirect(w, r, "/app/invoices/"+id, http.StatusFound)
}

func (s *Server) handleInvoicePayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	errs := ValidationErrors{}
	amount := formInt64(r, "amount", errs)
	if amount <= 0 {
		errs.Add("amount", "payment amount must be positive")
	}
	if !errs.OK() {
		s.toasts.Error("Payment amount must be a positive whole number.")
		http.Redirect(w, r, "/app/invoices/"+id, http.StatusFound)
		return
	}

	invoice, err := s.client.Invoices().AddPayment(r.Context(), id, api.PaymentRequest{Amount: amount})
	if err != nil {
		s.fail(w, r, err, "/app/invoices/"+id)
		return
	}

	if invoice.InvoicePaid {
		s.toasts.Success("Invoice " + invoice.InvoiceNumber + " is now fully paid.")
	} else {
		s.toasts.Success("Payment recorded; " + formatMoney(invoice.RemainingAmount) + " remaining.")
	}
	http.Redirect(w, r, "/app/invoices/"+id, http.StatusFound)
}

func (s *Server) handleInvoicePrint(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := s.client.Invoices().Print(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "/app/invoices/"+id)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+id+`.pdf"`)
	_, _ = w.Write(data)
}

func (s *Server) handleInvoiceDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !confirmed(r) {
		s.toasts.Warning("Deletion needs confirmation.")
		http.Redirect(w, r, "/app/invoices/"+id, http.StatusFound)
		return
	}

	if err := s.client.Invoices().Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, "/app/invoices/"+id)
		return
	}

	s.toasts.Success("Invoice deleted.")
	http.Redirect(w, r, "/app/invoices", http.StatusFound)
}
