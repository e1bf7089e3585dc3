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

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/api/events")
	{
		events.GET("", middleware.RequireAuth(), h.ListEvents)
		events.GET("/:id", middleware.RequireAuth(), h.GetEvent)
		events.POST("", middleware.RequirePermission(model.PermCreateEvent), h.CreateEvent)
		events.PUT("/:id", middleware.RequirePermission(model.PermUpdateEvent), h.UpdateEvent)
		events.DELETE("/:id", middleware.RequirePermission(model.PermDeleteEvent), h.DeleteEvent)
		events.POST("/register", middleware.RequireAuth(), h.Register)
		events.GET("/registrations/my", middleware.RequireAuth(), h.ListMyRegistrations)
	}
}

// ListEvents returns paginated events, newest first
// @Summary      List events
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	p := pagination.Parse(c)
	events, total, err := h.eventService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, events, total, p.Page, p.Limit))
}

// GetEvent returns one event with its fees
// @Summary      Get event
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, event))
}

// CreateEvent creates an event with per-currency fees
// @Summary      Create event
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateEventRequest  true  "Event payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, event))
}

// UpdateEvent applies a partial update, replacing fees when provided
// @Summary      Update event
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Event ID"
// @Param        payload  body  service.UpdateEventRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, event))
}

// DeleteEvent soft deletes an event
// @Summary      Delete event
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "event deleted"}))
}

// Register creates a registration and starts the fee payment
// @Summary      Register for event
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.RegisterForEventRequest  true  "Registration payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/events/register [post]
func (h *EventHandler) Register(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	var req service.RegisterForEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	registration, err := h.eventService.Register(c.Request.Context(), userID, req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, registration))
}

// ListMyRegistrations returns the caller's event registrations
// @Summary      List my registrations
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/events/registrations/my [get]
func (h *EventHandler) ListMyRegistrations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	p := pagination.Parse(c)
	regs, total, err := h.eventService.ListMyRegistrations(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, regs, total, p.Page, p.Limit))
}
