package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"freight/internal/repository"
	"freight/internal/service"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// OverpaymentMeta carries the balance diagnostics of a rejected payment.
type OverpaymentMeta struct {
	Outstanding float64 `json:"outstanding"`
	Total       float64 `json:"total"`
	Paid        float64 `json:"paid"`
}

// respondData sends a success envelope with the given status code.
func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, Response{Success: true, Data: data})
}

// respondError sends a failure envelope with the appropriate HTTP status
// code. Unclassified errors are logged server-side and surface as a generic
// message so internal detail does not leak to the caller.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(code, Response{Success: false, Error: "internal error"})
		return
	}

	resp := Response{Success: false, Error: err.Error()}

	var overpayment *service.OverpaymentError
	if errors.As(err, &overpayment) {
		resp.Meta = OverpaymentMeta{
			Outstanding: overpayment.Outstanding,
			Total:       overpayment.Total,
			Paid:        overpayment.Paid,
		}
	}

	c.JSON(code, resp)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var overpayment *service.OverpaymentError

	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidShipmentRef),
		errors.Is(err, service.ErrInvalidShipmentTotal),
		errors.Is(err, service.ErrInvalidClientID):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrPaymentAlreadyVoided),
		errors.Is(err, repository.ErrCodeTaken),
		errors.As(err, &overpayment):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
