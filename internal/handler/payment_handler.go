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

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/api/payments")
	{
		// The gateway redirects the payer's browser here with only the
		// reference; there is no session to authenticate. Finalize is
		// idempotent and verifies against the gateway before trusting anything.
		payments.GET("/complete-payment", h.CompletePayment)
		payments.GET("/my", middleware.RequireAuth(), h.ListMyPayments)
	}
}

// CompletePayment verifies a payment by its gateway reference
// @Summary      Complete payment
// @Tags         payments
// @Produce      json
// @Param        reference  query  string  true  "Gateway transaction reference"
// @Success      200  {object}  response.Response
// @Failure      402  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/payments/complete-payment [get]
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref") // Paystack sends both
	}

	tx, err := h.paymentService.Finalize(c.Request.Context(), reference)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// ListMyPayments returns the caller's verified transactions
// @Summary      List my payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        page      query  int     false  "Page number (default: 1)"
// @Param        limit     query  int     false  "Items per page (default: 20)"
// @Param        category  query  string  false  "Filter by category: event, donation"
// @Success      200  {object}  response.Response
// @Router       /api/payments/my [get]
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	p := pagination.Parse(c)
	category := model.PaymentCategory(c.Query("category"))

	txs, total, err := h.paymentService.ListVerified(c.Request.Context(), userID, category, p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, txs, total, p.Page, p.Limit))
}
