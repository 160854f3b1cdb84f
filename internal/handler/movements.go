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

type MovementsHandler struct{ svc service.MovementService }

func NewMovementsHandler(svc service.MovementService) *MovementsHandler {
	return &MovementsHandler{svc: svc}
}

// Create godoc
// @Summary      Créer un mouvement de stock
// @Description  ENTREE/REAPPROVISIONNEMENT/INVENTAIRE ajoutent, SORTIE/VENTE retirent; tout ou rien.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateMovementRequest true "Mouvement"
// @Success      201  {object} dto.MovementResponse
// @Failure      409  {object} apierror.APIError "Stock insuffisant"
// @Router       /v1/stock/movements [post]
func (h *MovementsHandler) Create(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	var req dto.CreateMovementRequest
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
// @Summary      Modifier un mouvement de stock
// @Description  Remplace les lignes; le stock est réconcilié par différence (nouvelle − ancienne quantité) par produit.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID du mouvement"
// @Param        body body dto.UpdateMovementRequest true "Nouvelles lignes"
// @Success      200  {object} dto.MovementResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stock/movements/{id} [put]
func (h *MovementsHandler) Update(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), companyID, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Détail d'un mouvement
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du mouvement"
// @Success      200 {object} dto.MovementResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stock/movements/{id} [get]
func (h *MovementsHandler) Get(c *gin.Context) {
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
// @Summary      Lister les mouvements de stock
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        type  query string false "ENTREE | SORTIE | REAPPROVISIONNEMENT | VENTE | INVENTAIRE"
// @Param        page  query int    false "Page (défaut 1)"
// @Param        limit query int    false "Taille de page (défaut 50)"
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/stock/movements [get]
func (h *MovementsHandler) List(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), companyID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des mouvements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListEntries godoc
// @Summary      Journal des variations de stock
// @Description  Trace append-only de toutes les variations de quantité (ventes, annulations, mouvements, modifications).
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "UUID produit"
// @Param        reason     query string false "VENTE | ANNULATION_VENTE | MODIFICATION_VENTE | MOUVEMENT | MODIFICATION_MOUVEMENT"
// @Param        page       query int    false "Page (défaut 1)"
// @Param        limit      query int    false "Taille de page (défaut 50)"
// @Success      200 {object} dto.StockEntryListResponse
// @Router       /v1/stock/entries [get]
func (h *MovementsHandler) ListEntries(c *gin.Context) {
	companyID, ok := tenantCompanyID(c)
	if !ok {
		return
	}
	var filter dto.StockEntryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListEntries(c.Request.Context(), companyID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture du journal de stock"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
