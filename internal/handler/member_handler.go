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

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (h *MemberHandler) RegisterRoutes(router *gin.RouterGroup) {
	members := router.Group("/api/members")
	{
		members.GET("", middleware.RequirePermission(model.PermViewMembers), h.ListMembers)
		members.GET("/:id", middleware.RequirePermission(model.PermViewMembers), h.GetMember)
		members.POST("", middleware.RequirePermission(model.PermAddMember), h.CreateMember)
		members.PUT("/:id", middleware.RequirePermission(model.PermUpdateMember), h.UpdateMember)
		members.DELETE("/:id", middleware.RequirePermission(model.PermDeleteMember), h.DeleteMember)
	}
}

// ListMembers returns paginated member records with optional filters
// @Summary      List members
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number (default: 1)"
// @Param        limit      query  int     false  "Items per page (default: 20)"
// @Param        search     query  string  false  "Search by name, phone, email"
// @Param        branch_id  query  string  false  "Filter by branch"
// @Success      200  {object}  response.Response
// @Router       /api/members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	p := pagination.Parse(c)

	var branchID *string
	if b := c.Query("branch_id"); b != "" {
		branchID = &b
	}

	members, total, err := h.memberService.List(c.Request.Context(), c.Query("search"), branchID, p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, members, total, p.Page, p.Limit))
}

// GetMember returns one member record
// @Summary      Get member
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Member ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/members/{id} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	member, err := h.memberService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

// CreateMember creates a member record
// @Summary      Create member
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateMemberRequest  true  "Member payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req service.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, member))
}

// UpdateMember applies a partial update to a member record
// @Summary      Update member
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Member ID"
// @Param        payload  body  service.UpdateMemberRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/members/{id} [put]
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	var req service.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

// DeleteMember soft deletes a member record
// @Summary      Delete member
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Member ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/members/{id} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	if err := h.memberService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "member deleted"}))
}
