package handler

import (
	"net/http"

	"github.com/thiamyoussouph/sasstock-sub000/internal/apierror"
	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/middleware"
	"github.com/thiamyoussouph/sasstock-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct {
	svc      service.SaleService
	payments service.PaymentService
}

func NewSalesHandler(svc service.SaleService, payments service.PaymentService) *SalesHandler {
	return &SalesHandler{svc: svc, payments: payments}
}

// Create godoc
// @Summary      Enregistrer une vente
// @Description  Crée une vente ACID: numérotation séquentielle, décrément du stock par ligne, paiements initiaux, facture asynchrone.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Détail de la vente"
// @Success      201  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError "Stock insuffisant"
// @Failure      422  {object} apierror.APIError "Prix manquant pour le mode de vente"
// @Router       /v1/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Modifier une vente
// @Description  Remplace lignes et paiements; le stock est réconcilié par inversion puis réapplication, tout ou rien.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la vente"
// @Param        body body dto.UpdateSaleRequest true "Nouveau détail"
// @Success      200  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales/{id} [put]
func (h *SalesHandler) Update(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Update(c.Request.Context(), companyID, userID, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Annuler une vente
// @Description  Restaure le stock de chaque ligne, supprime les paiements et marque la vente CANCELLED.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la vente"
// @Success      204
// @Failure      409  {object} apierror.APIError "Vente déjà annulée"
// @Router       /v1/sales/{id} [delete]
func (h *SalesHandler) Cancel(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), companyID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get godoc
// @Summary      Détail d'une vente
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la vente"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), companyID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Lister les ventes
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        date        query string false "Date YYYY-MM-DD"
// @Param        status      query string false "CONFIRMED | PARTIAL | PAID | CANCELLED | all"
// @Param        customer_id query string false "UUID client"
// @Param        page        query int    false "Page (défaut 1)"
// @Param        limit       query int    false "Taille de page (défaut 50)"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), companyID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des ventes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordPayment godoc
// @Summary      Encaisser un paiement
// @Description  Ajoute un paiement sur une vente à crédit ou partielle; calcule la monnaie rendue et le nouveau statut.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la vente"
// @Param        body body dto.RecordPaymentRequest true "Paiement"
// @Success      201  {object} dto.SalePaymentResponse
// @Failure      409  {object} apierror.APIError "Vente déjà entièrement payée"
// @Router       /v1/sales/{id}/payments [post]
func (h *SalesHandler) RecordPayment(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.payments.RecordPayment(c.Request.Context(), companyID, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetBalance godoc
// @Summary      Solde d'une vente
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la vente"
// @Success      200 {object} dto.SaleBalanceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id}/balance [get]
func (h *SalesHandler) GetBalance(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.payments.GetBalance(c.Request.Context(), companyID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
