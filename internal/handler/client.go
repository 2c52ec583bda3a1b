package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freight/internal/domain"
	"freight/internal/repository"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	clientRepo repository.ClientRepository
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientRepo repository.ClientRepository) *ClientHandler {
	return &ClientHandler{clientRepo: clientRepo}
}

// CreateClientRequest is the HTTP request body for creating a client.
type CreateClientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ClientResponse is the HTTP response for client operations.
type ClientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Create handles POST /v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "name is required"})
		return
	}

	client := &domain.Client{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Document:  req.Document,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}

	if err := h.clientRepo.Create(c.Request.Context(), client); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, toClientResponse(client))
}

// Get handles GET /v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clientRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, toClientResponse(client))
}

// GetAll handles GET /v1/clients
func (h *ClientHandler) GetAll(c *gin.Context) {
	clients, err := h.clientRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, toClientResponse(client))
	}

	respondData(c, http.StatusOK, resp)
}

func toClientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Document:  client.Document,
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt.Format(time.RFC3339),
	}
}
