package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"freight/internal/domain"
	"freight/internal/middleware"
	"freight/internal/service"
)

// PaymentHandler handles HTTP requests for the payment ledger.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterPaymentRequest is the HTTP request body for registering a payment.
type RegisterPaymentRequest struct {
	ShipmentID   string  `json:"shipment_id,omitempty"`
	ShipmentCode string  `json:"shipment_code,omitempty"`
	Amount       float64 `json:"amount"`
	Method       string  `json:"method"`
	Reference    string  `json:"reference,omitempty"`
	Date         string  `json:"date,omitempty"` // RFC 3339 or YYYY-MM-DD
}

// VoidPaymentRequest is the HTTP request body for voiding a payment.
type VoidPaymentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID         string  `json:"id"`
	ShipmentID string  `json:"shipment_id"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	Reference  string  `json:"reference,omitempty"`
	PaidAt     string  `json:"paid_at"`
	Status     string  `json:"status"`
	Note       string  `json:"note,omitempty"`
	VoidedAt   string  `json:"voided_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// PaymentListingResponse is a payment row in the list response.
type PaymentListingResponse struct {
	PaymentResponse
	ShipmentCode string `json:"shipment_code"`
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
}

// ListPaymentsResponse is the HTTP response for the payment listing.
type ListPaymentsResponse struct {
	Payments   []PaymentListingResponse `json:"payments"`
	Total      int                      `json:"total"`
	TotalPages int                      `json:"total_pages"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
}

// Register handles POST /v1/payments
func (h *PaymentHandler) Register(c *gin.Context) {
	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	date, ok := parseDate(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid date"})
		return
	}

	payment, err := h.paymentService.RegisterPayment(c.Request.Context(), middleware.ActorFromContext(c), service.RegisterPaymentRequest{
		ShipmentID:   req.ShipmentID,
		ShipmentCode: req.ShipmentCode,
		Amount:       req.Amount,
		Method:       domain.PaymentMethod(req.Method),
		Reference:    req.Reference,
		Date:         date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, toPaymentResponse(payment))
}

// Void handles POST /v1/payments/:id/void
func (h *PaymentHandler) Void(c *gin.Context) {
	var req VoidPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
			return
		}
	}

	payment, err := h.paymentService.VoidPayment(c.Request.Context(), middleware.ActorFromContext(c), service.VoidPaymentRequest{
		PaymentID: c.Param("id"),
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, toPaymentResponse(payment))
}

// Get handles GET /v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, toPaymentResponse(payment))
}

// List handles GET /v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	dateFrom, ok := parseDate(c.Query("date_from"))
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid date_from"})
		return
	}

	dateTo, ok := parseDate(c.Query("date_to"))
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid date_to"})
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.paymentService.ListPayments(c.Request.Context(), service.ListPaymentsRequest{
		ShipmentID: c.Query("shipment_id"),
		ClientID:   c.Query("client_id"),
		Method:     domain.PaymentMethod(c.Query("method")),
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		Search:     c.Query("search"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ListPaymentsResponse{
		Payments:   make([]PaymentListingResponse, 0, len(result.Payments)),
		Total:      result.Total,
		TotalPages: result.TotalPages,
		Page:       result.Page,
		Limit:      result.Limit,
	}
	for _, listing := range result.Payments {
		resp.Payments = append(resp.Payments, PaymentListingResponse{
			PaymentResponse: toPaymentResponse(&listing.Payment),
			ShipmentCode:    listing.ShipmentCode,
			ClientID:        listing.ClientID,
			ClientName:      listing.ClientName,
		})
	}

	respondData(c, http.StatusOK, resp)
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:         payment.ID,
		ShipmentID: payment.ShipmentID,
		Amount:     payment.Amount,
		Method:     string(payment.Method),
		Reference:  payment.Reference,
		PaidAt:     payment.PaidAt.Format(time.RFC3339),
		Status:     string(payment.Status),
		Note:       payment.Note,
		CreatedAt:  payment.CreatedAt.Format(time.RFC3339),
	}
	if !payment.VoidedAt.IsZero() {
		resp.VoidedAt = payment.VoidedAt.Format(time.RFC3339)
	}
	return resp
}

// parseDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD business date.
// An empty input is valid and yields the zero time.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
