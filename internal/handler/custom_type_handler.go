package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CustomTypeHandler struct {
	customTypeService service.CustomTypeService
}

func NewCustomTypeHandler(customTypeService service.CustomTypeService) *CustomTypeHandler {
	return &CustomTypeHandler{customTypeService: customTypeService}
}

func (h *CustomTypeHandler) RegisterRoutes(router *gin.RouterGroup) {
	types := router.Group("/api/custom-types")
	{
		types.GET("", middleware.RequirePermission(model.PermViewCustomTypes), h.ListCustomTypes)
		types.GET("/:id", middleware.RequirePermission(model.PermViewCustomTypes), h.GetCustomType)
		types.POST("", middleware.RequirePermission(model.PermAddCustomType), h.CreateCustomType)
		types.PUT("/:id", middleware.RequirePermission(model.PermUpdateCustomType), h.UpdateCustomType)
		types.DELETE("/:id", middleware.RequirePermission(model.PermDeleteCustomType), h.DeleteCustomType)
	}
}

// ListCustomTypes returns lookup values, optionally per category
// @Summary      List custom types
// @Tags         custom-types
// @Security     BearerAuth
// @Produce      json
// @Param        category  query  string  false  "Filter: member_type, member_position, member_title, ministry_group"
// @Success      200  {object}  response.Response
// @Router       /api/custom-types [get]
func (h *CustomTypeHandler) ListCustomTypes(c *gin.Context) {
	types, err := h.customTypeService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, types))
}

// GetCustomType returns one lookup value
// @Summary      Get custom type
// @Tags         custom-types
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Custom type ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/custom-types/{id} [get]
func (h *CustomTypeHandler) GetCustomType(c *gin.Context) {
	ct, err := h.customTypeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ct))
}

// CreateCustomType creates a lookup value in a category
// @Summary      Create custom type
// @Tags         custom-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateCustomTypeRequest  true  "Custom type payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/custom-types [post]
func (h *CustomTypeHandler) CreateCustomType(c *gin.Context) {
	var req service.CreateCustomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ct, err := h.customTypeService.Create(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, ct))
}

// UpdateCustomType renames a lookup value; its category is fixed
// @Summary      Update custom type
// @Tags         custom-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Custom type ID"
// @Param        payload  body  service.UpdateCustomTypeRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/custom-types/{id} [put]
func (h *CustomTypeHandler) UpdateCustomType(c *gin.Context) {
	var req service.UpdateCustomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ct, err := h.customTypeService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ct))
}

// DeleteCustomType soft deletes a lookup value
// @Summary      Delete custom type
// @Tags         custom-types
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Custom type ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/custom-types/{id} [delete]
func (h *CustomTypeHandler) DeleteCustomType(c *gin.Context) {
	if err := h.customTypeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "custom type deleted"}))
}
