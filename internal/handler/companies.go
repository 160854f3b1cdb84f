package handler

// Superadmin surface: tenants, plans and subscriptions.

import (
	"net/http"

	"github.com/thiamyoussouph/sasstock-sub000/internal/apierror"
	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CompaniesHandler struct{ svc service.SubscriptionService }

func NewCompaniesHandler(svc service.SubscriptionService) *CompaniesHandler {
	return &CompaniesHandler{svc: svc}
}

// CreateCompany godoc
// @Summary      Créer une entreprise avec son compte admin initial
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCompanyRequest true "Entreprise"
// @Success      201  {object} dto.CompanyResponse
// @Router       /v1/companies [post]
func (h *CompaniesHandler) CreateCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCompany(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetCompany godoc
// @Summary      Détail d'une entreprise
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de l'entreprise"
// @Success      200 {object} dto.CompanyResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/companies/{id} [get]
func (h *CompaniesHandler) GetCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCompany(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCompanies godoc
// @Summary      Lister les entreprises
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CompanyResponse
// @Router       /v1/companies [get]
func (h *CompaniesHandler) ListCompanies(c *gin.Context) {
	resp, err := h.svc.ListCompanies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des entreprises"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCompany godoc
// @Summary      Modifier une entreprise
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de l'entreprise"
// @Param        body body dto.UpdateCompanyRequest true "Champs à modifier"
// @Success      200  {object} dto.CompanyResponse
// @Router       /v1/companies/{id} [put]
func (h *CompaniesHandler) UpdateCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCompany(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateCompany godoc
// @Summary      Désactiver une entreprise
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de l'entreprise"
// @Success      204
// @Router       /v1/companies/{id} [delete]
func (h *CompaniesHandler) DeactivateCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateCompany(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreatePlan godoc
// @Summary      Créer un plan d'abonnement
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PlanRequest true "Plan"
// @Success      201  {object} dto.PlanResponse
// @Router       /v1/plans [post]
func (h *CompaniesHandler) CreatePlan(c *gin.Context) {
	var req dto.PlanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePlan(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPlans godoc
// @Summary      Lister les plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.PlanResponse
// @Router       /v1/plans [get]
func (h *CompaniesHandler) ListPlans(c *gin.Context) {
	resp, err := h.svc.ListPlans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des plans"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePlan godoc
// @Summary      Modifier un plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID du plan"
// @Param        body body dto.PlanRequest true "Plan"
// @Success      200  {object} dto.PlanResponse
// @Router       /v1/plans/{id} [put]
func (h *CompaniesHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.PlanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Subscribe godoc
// @Summary      Abonner une entreprise à un plan
// @Description  Clôt l'abonnement actif éventuel et calcule la date d'expiration depuis la durée du plan.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de l'entreprise"
// @Param        body body dto.SubscribeRequest true "Plan choisi"
// @Success      201  {object} dto.SubscriptionResponse
// @Router       /v1/companies/{id}/subscriptions [post]
func (h *CompaniesHandler) Subscribe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.SubscribeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Subscribe(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSubscriptions godoc
// @Summary      Historique d'abonnement d'une entreprise
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de l'entreprise"
// @Success      200 {array} dto.SubscriptionResponse
// @Router       /v1/companies/{id}/subscriptions [get]
func (h *CompaniesHandler) ListSubscriptions(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListSubscriptions(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des abonnements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
