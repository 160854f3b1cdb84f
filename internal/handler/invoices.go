package handler

import (
	"net/http"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

// GetBySale godoc
// @Summary      Facture d'une vente
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la vente"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id}/invoice [get]
func (h *InvoicesHandler) GetBySale(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetBySale(c.Request.Context(), companyID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadPDF godoc
// @Summary      Télécharger le PDF de la facture
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la vente"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id}/invoice/pdf [get]
func (h *InvoicesHandler) DownloadPDF(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), companyID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.FileAttachment(path, "facture.pdf")
}

// Email godoc
// @Summary      Envoyer la facture par email
// @Description  Met le PDF en file d'attente d'envoi vers l'adresse fournie.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la vente"
// @Param        body body dto.EmailInvoiceRequest true "Destinataire"
// @Success      202
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sales/{id}/invoice/email [post]
func (h *InvoicesHandler) Email(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.EmailInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Email(c.Request.Context(), companyID, id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
