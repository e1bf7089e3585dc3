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

type JurisdictionHandler struct {
	jurisdictionService service.JurisdictionService
}

func NewJurisdictionHandler(jurisdictionService service.JurisdictionService) *JurisdictionHandler {
	return &JurisdictionHandler{jurisdictionService: jurisdictionService}
}

func (h *JurisdictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	areas := router.Group("/api/areas")
	{
		areas.GET("", middleware.RequirePermission(model.PermViewAreas), h.ListAreas)
		areas.GET("/:id", middleware.RequirePermission(model.PermViewAreas), h.GetArea)
		areas.POST("", middleware.RequirePermission(model.PermAddArea), h.CreateArea)
		areas.PUT("/:id", middleware.RequirePermission(model.PermUpdateArea), h.UpdateArea)
		areas.DELETE("/:id", middleware.RequirePermission(model.PermDeleteArea), h.DeleteArea)
	}

	districts := router.Group("/api/districts")
	{
		districts.GET("", middleware.RequirePermission(model.PermViewDistricts), h.ListDistricts)
		districts.GET("/:id", middleware.RequirePermission(model.PermViewDistricts), h.GetDistrict)
		districts.POST("", middleware.RequirePermission(model.PermAddDistrict), h.CreateDistrict)
		districts.PUT("/:id", middleware.RequirePermission(model.PermUpdateDistrict), h.UpdateDistrict)
		districts.DELETE("/:id", middleware.RequirePermission(model.PermDeleteDistrict), h.DeleteDistrict)
	}

	branches := router.Group("/api/branches")
	{
		branches.GET("", middleware.RequirePermission(model.PermViewBranches), h.ListBranches)
		branches.GET("/:id", middleware.RequirePermission(model.PermViewBranches), h.GetBranch)
		branches.POST("", middleware.RequirePermission(model.PermAddBranch), h.CreateBranch)
		branches.PUT("/:id", middleware.RequirePermission(model.PermUpdateBranch), h.UpdateBranch)
		branches.DELETE("/:id", middleware.RequirePermission(model.PermDeleteBranch), h.DeleteBranch)
	}
}

// --- Areas ---

// ListAreas returns paginated areas with their heads
// @Summary      List areas
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/areas [get]
func (h *JurisdictionHandler) ListAreas(c *gin.Context) {
	p := pagination.Parse(c)
	areas, total, err := h.jurisdictionService.ListAreas(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, areas, total, p.Page, p.Limit))
}

// GetArea returns one area
// @Summary      Get area
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Area ID"
// @Success      200  {object}  response.Response
// @Router       /api/areas/{id} [get]
func (h *JurisdictionHandler) GetArea(c *gin.Context) {
	area, err := h.jurisdictionService.GetArea(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, area))
}

// CreateArea creates an area
// @Summary      Create area
// @Tags         jurisdictions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateAreaRequest  true  "Area payload"
// @Success      201  {object}  response.Response
// @Router       /api/areas [post]
func (h *JurisdictionHandler) CreateArea(c *gin.Context) {
	var req service.CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	area, err := h.jurisdictionService.CreateArea(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, area))
}

// UpdateArea applies a partial update to an area
// @Summary      Update area
// @Tags         jurisdictions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Area ID"
// @Param        payload  body  service.UpdateAreaRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Router       /api/areas/{id} [put]
func (h *JurisdictionHandler) UpdateArea(c *gin.Context) {
	var req service.UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	area, err := h.jurisdictionService.UpdateArea(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, area))
}

// DeleteArea soft deletes an area
// @Summary      Delete area
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Area ID"
// @Success      200  {object}  response.Response
// @Router       /api/areas/{id} [delete]
func (h *JurisdictionHandler) DeleteArea(c *gin.Context) {
	if err := h.jurisdictionService.DeleteArea(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "area deleted"}))
}

// --- Districts ---

// ListDistricts returns paginated districts, optionally per area
// @Summary      List districts
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        page     query  int     false  "Page number (default: 1)"
// @Param        limit    query  int     false  "Items per page (default: 20)"
// @Param        area_id  query  string  false  "Filter by area"
// @Success      200  {object}  response.Response
// @Router       /api/districts [get]
func (h *JurisdictionHandler) ListDistricts(c *gin.Context) {
	p := pagination.Parse(c)

	var areaID *string
	if a := c.Query("area_id"); a != "" {
		areaID = &a
	}

	districts, total, err := h.jurisdictionService.ListDistricts(c.Request.Context(), areaID, p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, districts, total, p.Page, p.Limit))
}

// GetDistrict returns one district
// @Summary      Get district
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "District ID"
// @Success      200  {object}  response.Response
// @Router       /api/districts/{id} [get]
func (h *JurisdictionHandler) GetDistrict(c *gin.Context) {
	district, err := h.jurisdictionService.GetDistrict(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, district))
}

// CreateDistrict creates a district inside an area
// @Summary      Create district
// @Tags         jurisdictions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateDistrictRequest  true  "District payload"
// @Success      201  {object}  response.Response
// @Router       /api/districts [post]
func (h *JurisdictionHandler) CreateDistrict(c *gin.Context) {
	var req service.CreateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	district, err := h.jurisdictionService.CreateDistrict(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, district))
}

// UpdateDistrict applies a partial update to a district
// @Summary      Update district
// @Tags         jurisdictions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "District ID"
// @Param        payload  body  service.UpdateDistrictRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Router       /api/districts/{id} [put]
func (h *JurisdictionHandler) UpdateDistrict(c *gin.Context) {
	var req service.UpdateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	district, err := h.jurisdictionService.UpdateDistrict(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, district))
}

// DeleteDistrict soft deletes a district
// @Summary      Delete district
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "District ID"
// @Success      200  {object}  response.Response
// @Router       /api/districts/{id} [delete]
func (h *JurisdictionHandler) DeleteDistrict(c *gin.Context) {
	if err := h.jurisdictionService.DeleteDistrict(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "district deleted"}))
}

// --- Branches ---

// ListBranches returns paginated branches, optionally per district
// @Summary      List branches
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        page         query  int     false  "Page number (default: 1)"
// @Param        limit        query  int     false  "Items per page (default: 20)"
// @Param        district_id  query  string  false  "Filter by district"
// @Success      200  {object}  response.Response
// @Router       /api/branches [get]
func (h *JurisdictionHandler) ListBranches(c *gin.Context) {
	p := pagination.Parse(c)

	var districtID *string
	if d := c.Query("district_id"); d != "" {
		districtID = &d
	}

	branches, total, err := h.jurisdictionService.ListBranches(c.Request.Context(), districtID, p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, branches, total, p.Page, p.Limit))
}

// GetBranch returns one branch with its district and area
// @Summary      Get branch
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Branch ID"
// @Success      200  {object}  response.Response
// @Router       /api/branches/{id} [get]
func (h *JurisdictionHandler) GetBranch(c *gin.Context) {
	branch, err := h.jurisdictionService.GetBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, branch))
}

// CreateBranch creates a branch inside a district
// @Summary      Create branch
// @Tags         jurisdictions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBranchRequest  true  "Branch payload"
// @Success      201  {object}  response.Response
// @Router       /api/branches [post]
func (h *JurisdictionHandler) CreateBranch(c *gin.Context) {
	var req service.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	branch, err := h.jurisdictionService.CreateBranch(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, branch))
}

// UpdateBranch applies a partial update to a branch
// @Summary      Update branch
// @Tags         jurisdictions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Branch ID"
// @Param        payload  body  service.UpdateBranchRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Router       /api/branches/{id} [put]
func (h *JurisdictionHandler) UpdateBranch(c *gin.Context) {
	var req service.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	branch, err := h.jurisdictionService.UpdateBranch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, branch))
}

// DeleteBranch soft deletes a branch
// @Summary      Delete branch
// @Tags         jurisdictions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Branch ID"
// @Success      200  {object}  response.Response
// @Router       /api/branches/{id} [delete]
func (h *JurisdictionHandler) DeleteBranch(c *gin.Context) {
	if err := h.jurisdictionService.DeleteBranch(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "branch deleted"}))
}
