package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freight/internal/domain"
	"freight/internal/middleware"
	"freight/internal/service"
)

// ShipmentHandler handles HTTP requests for shipments.
type ShipmentHandler struct {
	shipmentService *service.ShipmentService
	paymentService  *service.PaymentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(shipmentService *service.ShipmentService, paymentService *service.PaymentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
		paymentService:  paymentService,
	}
}

// CreateShipmentRequest is the HTTP request body for creating a shipment.
type CreateShipmentRequest struct {
	ClientID    string  `json:"client_id"`
	Origin      string  `json:"origin,omitempty"`
	Destination string  `json:"destination,omitempty"`
	Total       float64 `json:"total"`
	Code        string  `json:"code,omitempty"`
}

// ShipmentResponse is the HTTP response for shipment operations.
type ShipmentResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	ClientID    string  `json:"client_id"`
	Origin      string  `json:"origin,omitempty"`
	Destination string  `json:"destination,omitempty"`
	Total       float64 `json:"total"`
	CreatedAt   string  `json:"created_at"`
}

// BalanceResponse is the HTTP response for the balance endpoint.
type BalanceResponse struct {
	Total       float64 `json:"total"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
}

// Create handles POST /v1/shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	shipment, err := h.shipmentService.CreateShipment(c.Request.Context(), middleware.ActorFromContext(c), service.CreateShipmentRequest{
		ClientID:    req.ClientID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Total:       req.Total,
		Code:        req.Code,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, toShipmentResponse(shipment))
}

// Get handles GET /v1/shipments/:id — the path segment may be a shipment ID
// or a guide code.
func (h *ShipmentHandler) Get(c *gin.Context) {
	shipment, err := h.shipmentService.GetShipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, toShipmentResponse(shipment))
}

// GetAll handles GET /v1/shipments
func (h *ShipmentHandler) GetAll(c *gin.Context) {
	shipments, err := h.shipmentService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ShipmentResponse, 0, len(shipments))
	for _, shipment := range shipments {
		resp = append(resp, toShipmentResponse(shipment))
	}

	respondData(c, http.StatusOK, resp)
}

// GetBalance handles GET /v1/shipments/:id/balance
func (h *ShipmentHandler) GetBalance(c *gin.Context) {
	balance, err := h.paymentService.GetBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, BalanceResponse{
		Total:       balance.Total,
		Paid:        balance.Paid,
		Outstanding: balance.Outstanding,
	})
}

// Delete handles DELETE /v1/shipments/:id
func (h *ShipmentHandler) Delete(c *gin.Context) {
	err := h.shipmentService.DeleteShipment(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toShipmentResponse(shipment *domain.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:          shipment.ID,
		Code:        shipment.Code,
		ClientID:    shipment.ClientID,
		Origin:      shipment.Origin,
		Destination: shipment.Destination,
		Total:       shipment.Total,
		CreatedAt:   shipment.CreatedAt.Format(time.RFC3339),
	}
}
