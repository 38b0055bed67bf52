package api

import "fmt"

// Wire types mirror the backend's response DTOs. Amounts are whole
// currency units; dates travel as ISO strings and are not interpreted
// client-side beyond display.

// Customer is a laundry customer record.
type Customer struct {
	PublicID    string `json:"publicId"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// CustomerRequest is the create/update payload.
type CustomerRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
}

// CustomerSummary is the embedded customer reference on an invoice.
type CustomerSummary struct {
	PublicID    string `json:"publicId"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// Category groups articles.
type Category struct {
	PublicID string `json:"publicId"`
	Name     string `json:"name"`
}

// Article is a garment type (shirt, suit, curtain, ...).
type Article struct {
	PublicID string   `json:"publicId"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Service is a treatment (washing, ironing, dry cleaning, ...).
type Service struct {
	PublicID string `json:"publicId"`
	Name     string `json:"name"`
}

// Pricing maps an (article, service) pair to a unit price.
type Pricing struct {
	PublicID string  `json:"publicId"`
	Article  Article `json:"article"`
	Service  Service `json:"service"`
	Price    int64   `json:"price"`
}

// InvoiceLine is one priced line on an invoice.
type InvoiceLine struct {
	PublicID string  `json:"publicId"`
	Pricing  Pricing `json:"pricing"`
	Quantity int64   `json:"quantity"`
	Amount   int64   `json:"amount"`
}

// AdditionalFee is an extra charge on an invoice.
type AdditionalFee struct {
	PublicID    string `json:"publicId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// ProcessingStatus is the laundry workflow stage of an invoice.
type ProcessingStatus string

const (
	StatusCollected ProcessingStatus = "COLLECTE"
	StatusWashing   ProcessingStatus = "EN_LAVAGE"
	StatusIroning   ProcessingStatus = "EN_REPASSAGE"
	StatusReady     ProcessingStatus = "PRET"
	StatusDelivered ProcessingStatus = "LIVRE"
	StatusPickedUp  ProcessingStatus = "RECUPERE"
)

// AllStatuses lists the workflow stages in order.
var AllStatuses = []ProcessingStatus{
	StatusCollected,
	StatusWashing,
	StatusIroning,
	StatusReady,
	StatusDelivered,
	StatusPickedUp,
}

// Label returns the display name of the stage.
func (s ProcessingStatus) Label() string {
	switch s {
	case StatusCollected:
		return "Collecte"
	case StatusWashing:
		return "En lavage"
	case StatusIroning:
		return "En repassage"
	case StatusReady:
		return "Prêt"
	case StatusDelivered:
		return "Livré"
	case StatusPickedUp:
		return "Récupéré"
	default:
		return string(s)
	}
}

// Next returns the following workflow stage. The console only ever offers
// single forward steps; anything else is rejected server-side anyway.
func (s ProcessingStatus) Next() (ProcessingStatus, bool) {
	for i, st := range AllStatuses {
		if st == s && i+1 < len(AllStatuses) {
			return AllStatuses[i+1], true
		}
	}
	return "", false
}

// ParseStatus validates a status string from a form or query parameter.
func ParseStatus(s string) (ProcessingStatus, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown processing status %q", s)
}

// Invoice is the backend's persisted invoice, including its authoritative
// computed amounts. The console never writes the computed fields back.
type Invoice struct {
	PublicID         string           `json:"publicId"`
	InvoiceNumber    string           `json:"invoiceNumber"`
	Customer         CustomerSummary  `json:"customer"`
	DepositDate      string           `json:"depositDate"`
	DeliveryDate     string           `json:"deliveryDate"`
	ProcessingStatus ProcessingStatus `json:"processingStatus"`
	InvoiceLines     []InvoiceLine    `json:"invoiceLines"`
	AdditionalFees   []AdditionalFee  `json:"additionalFees"`
	Discount         int64            `json:"discount"`
	VATRate          float64          `json:"vatRate"`
	AmountPaid       int64            `json:"amountPaid"`
	RemainingAmount  int64            `json:"remainingAmount"`
	InvoicePaid      bool             `json:"invoicePaid"`
	Observations     string           `json:"observations"`
	SubtotalAmount   int64            `json:"subtotalAmount"`
	VATAmount        int64            `json:"vatAmount"`
	TotalAmount      int64            `json:"totalAmount"`
	CreatedAt        string           `json:"createdAt"`
	UpdatedAt        string           `json:"updatedAt"`
	CreatedBy        string           `json:"createdBy"`
}

// Locked reports whether the invoice may no longer be modified: it has
// left the shop (delivered or picked up) and is fully settled.
func (i Invoice) Locked() bool {
	terminal := i.ProcessingStatus == StatusDelivered || i.ProcessingStatus == StatusPickedUp
	return terminal && (i.InvoicePaid || i.RemainingAmount == 0)
}

// InvoiceLineRequest references a pricing entry by ID; the backend resolves
// the unit price.
type InvoiceLineRequest struct {
	PricingPublicID string `json:"pricingPublicId"`
	Quantity        int64  `json:"quantity"`
}

// AdditionalFeeRequest is the fee payload.
type AdditionalFeeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Amount      int64  `json:"amount"`
}

// InvoiceRequest is the create/update payload. It deliberately carries no
// computed totals: the backend recalculates everything on save.
type InvoiceRequest struct {
	CustomerPublicID string                 `json:"customerPublicId"`
	DepositDate      string                 `json:"depositDate"`
	DeliveryDate     string                 `json:"deliveryDate"`
	InvoiceLines     []InvoiceLineRequest   `json:"invoiceLines"`
	AdditionalFees   []AdditionalFeeRequest `json:"additionalFees,omitempty"`
	Discount         int64                  `json:"discount,omitempty"`
	VATRate          float64                `json:"vatRate,omitempty"`
	AmountPaid       int64                  `json:"amountPaid,omitempty"`
	Observations     string                 `json:"observations,omitempty"`
}

// PaymentRequest records a payment against an invoice.
type PaymentRequest struct {
	Amount int64 `json:"amount"`
}

// Company is the business profile printed on invoices.
type Company struct {
	PublicID    string `json:"publicId"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	VATNumber   string `json:"vatNumber"`
	Currency    string `json:"currency"`
}

// CompanyRequest is the company update payload.
type CompanyRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
	VATNumber   string `json:"vatNumber,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// User is a console account.
type User struct {
	PublicID  string `json:"publicId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// UserRequest creates or updates an account.
type UserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// PasswordResetResult carries the temporary password issued by the backend.
type PasswordResetResult struct {
	TemporaryPassword string `json:"temporaryPassword"`
}

// ContactMessage is a message from the public landing page contact form.
type ContactMessage struct {
	PublicID  string `json:"publicId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

// StatusCount pairs a workflow stage with how many invoices sit in it.
type StatusCount struct {
	Status ProcessingStatus `json:"status"`
	Label  string           `json:"label"`
	Count  int64            `json:"count"`
}

// AdminDashboard is the admin landing view data.
type AdminDashboard struct {
	TotalCustomers     int64         `json:"totalCustomers"`
	TotalInvoices      int64         `json:"totalInvoices"`
	UnpaidInvoices     int64         `json:"unpaidInvoices"`
	RevenueThisMonth   int64         `json:"revenueThisMonth"`
	OutstandingAmount  int64         `json:"outstandingAmount"`
	InvoicesByStatus   []StatusCount `json:"invoicesByStatus"`
	RecentInvoices     []Invoice     `json:"recentInvoices"`
	PendingDeliveries  int64         `json:"pendingDeliveries"`
	UnreadContactCount int64         `json:"unreadContactCount"`
}

// UserDashboard is the non-admin landing view data.
type UserDashboard struct {
	InvoicesToday     int64         `json:"invoicesToday"`
	InvoicesByStatus  []StatusCount `json:"invoicesByStatus"`
	RecentInvoices    []Invoice     `json:"recentInvoices"`
	PendingDeliveries int64         `json:"pendingDeliveries"`
}

// SalesReportRow is one period in the sales report.
type SalesReportRow struct {
	Period       string `json:"period"`
	InvoiceCount int64  `json:"invoiceCount"`
	Revenue      int64  `json:"revenue"`
	VATCollected int64  `json:"vatCollected"`
	Outstanding  int64  `json:"outstanding"`
}

// CustomerReportRow is one customer in the customers report.
type CustomerReportRow struct {
	CustomerName string `json:"customerName"`
	InvoiceCount int64  `json:"invoiceCount"`
	TotalBilled  int64  `json:"totalBilled"`
	TotalPaid    int64  `json:"totalPaid"`
	Outstanding  int64  `json:"outstanding"`
}

// ServiceReportRow is one service in the services report.
type ServiceReportRow struct {
	ServiceName  string `json:"serviceName"`
	ArticleCount int64  `json:"articleCount"`
	Revenue      int64  `json:"revenue"`
}
