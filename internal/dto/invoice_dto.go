package dto

import "github.com/shopspring/decimal"

type InvoiceResponse struct {
	ID           string          `json:"id"`
	SaleID       string          `json:"sale_id"`
	Number       string          `json:"number"`
	CustomerName *string         `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	EmailedTo    *string         `json:"emailed_to"`
	CreatedAt    string          `json:"created_at"`
}

// EmailInvoiceRequest queues an invoice email with the PDF attached.
type EmailInvoiceRequest struct {
	To string `json:"to" validate:"required,email"`
}
