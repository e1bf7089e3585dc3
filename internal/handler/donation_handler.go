package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	donationService service.DonationService
}

func NewDonationHandler(donationService service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

func (h *DonationHandler) RegisterRoutes(router *gin.RouterGroup) {
	donations := router.Group("/api/donations")
	{
		donations.GET("", middleware.RequireAuth(), h.ListDonations)
		donations.GET("/:id", middleware.RequireAuth(), h.GetDonation)
		donations.POST("", middleware.RequirePermission(model.PermCreateDonation), h.CreateDonation)
		donations.PUT("/:id", middleware.RequirePermission(model.PermUpdateDonation), h.UpdateDonation)
		donations.DELETE("/:id", middleware.RequirePermission(model.PermDeleteDonation), h.DeleteDonation)
		donations.POST("/donate", middleware.RequireAuth(), h.MakeDonation)
	}

	pledges := router.Group("/api/pledges")
	{
		pledges.POST("", middleware.RequireAuth(), h.CreatePledge)
		pledges.GET("/my", middleware.RequireAuth(), h.ListMyPledges)
	}
}

// ListDonations returns paginated donation causes
// @Summary      List donations
// @Tags         donations
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/donations [get]
func (h *DonationHandler) ListDonations(c *gin.Context) {
	p := pagination.Parse(c)
	donations, total, err := h.donationService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, donations, total, p.Page, p.Limit))
}

// GetDonation returns one donation cause
// @Summary      Get donation
// @Tags         donations
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Donation ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/donations/{id} [get]
func (h *DonationHandler) GetDonation(c *gin.Context) {
	donation, err := h.donationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, donation))
}

// CreateDonation creates a donation cause
// @Summary      Create donation
// @Tags         donations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateDonationRequest  true  "Donation payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/donations [post]
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req service.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	donation, err := h.donationService.Create(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, donation))
}

// UpdateDonation applies a partial update to a donation cause
// @Summary      Update donation
// @Tags         donations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Donation ID"
// @Param        payload  body  service.UpdateDonationRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/donations/{id} [put]
func (h *DonationHandler) UpdateDonation(c *gin.Context) {
	var req service.UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	donation, err := h.donationService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, donation))
}

// DeleteDonation soft deletes a donation cause
// @Summary      Delete donation
// @Tags         donations
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Donation ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/donations/{id} [delete]
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	if err := h.donationService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "donation deleted"}))
}

// MakeDonation starts a payment toward a donation cause
// @Summary      Donate
// @Tags         donations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.MakeDonationRequest  true  "Donation payment payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/donations/donate [post]
func (h *DonationHandler) MakeDonation(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	var req service.MakeDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.donationService.MakeDonation(c.Request.Context(), userID, req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CreatePledge records a promise to donate by a redeem date
// @Summary      Create pledge
// @Tags         pledges
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePledgeRequest  true  "Pledge payload"
// @Success      201  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/pledges [post]
func (h *DonationHandler) CreatePledge(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	var req service.CreatePledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pledge, err := h.donationService.CreatePledge(c.Request.Context(), userID, req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pledge))
}

// ListMyPledges returns the caller's pledges, newest redeem date first
// @Summary      List my pledges
// @Tags         pledges
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/pledges/my [get]
func (h *DonationHandler) ListMyPledges(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	p := pagination.Parse(c)
	pledges, total, err := h.donationService.ListPledges(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, pledges, total, p.Page, p.Limit))
}
