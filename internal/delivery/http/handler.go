package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopsense/backend/internal/domain"
	"github.com/shopsense/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers.
// Any service may be nil; its endpoints then answer 501.
type Handler struct {
	comparisonService *usecase.ComparisonService
	suggestionService *usecase.SuggestionService
	wishlistService   *usecase.WishlistService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	comparisonService *usecase.ComparisonService,
	suggestionService *usecase.SuggestionService,
	wishlistService *usecase.WishlistService,
) *Handler {
	return &Handler{
		comparisonService: comparisonService,
		suggestionService: suggestionService,
		wishlistService:   wishlistService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopsense-backend",
		"version": "1.0.0",
	})
}

// Compare handles keyword comparison requests
func (h *Handler) Compare(c *gin.Context) {
	if h.comparisonService == nil {
		notConfigured(c, "Comparison")
		return
	}

	var req domain.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	result, err := h.comparisonService.Compare(c.Request.Context(), req.Keyword)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
			return
		}
		log.Printf("[HANDLER] Compare error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Suggestions returns related search phrases for ?q=, optionally ?count=
func (h *Handler) Suggestions(c *gin.Context) {
	if h.suggestionService == nil {
		notConfigured(c, "Suggestions")
		return
	}

	count := 0
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a non-negative integer"})
			return
		}
		count = n
	}

	query := c.Query("q")
	suggestions, err := h.suggestionService.Suggest(c.Request.Context(), query, count)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}
		log.Printf("[HANDLER] Suggestions error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"suggestions": suggestions,
	})
}

// ListWishlist returns all saved items
func (h *Handler) ListWishlist(c *gin.Context) {
	if h.wishlistService == nil {
		notConfigured(c, "Wishlist")
		return
	}

	items, err := h.wishlistService.List(c.Request.Context())
	if err != nil {
		log.Printf("[HANDLER] Wishlist list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddWishlist saves a product. Re-adding an existing link returns 200
// with the stored item instead of 201.
func (h *Handler) AddWishlist(c *gin.Context) {
	if h.wishlistService == nil {
		notConfigured(c, "Wishlist")
		return
	}

	var req domain.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	item, added, err := h.wishlistService.Add(c.Request.Context(), req.Product, req.Source)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product name and link are required"})
			return
		}
		log.Printf("[HANDLER] Wishlist add error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, item)
}

// RemoveWishlist deletes the item identified by ?link=
func (h *Handler) RemoveWishlist(c *gin.Context) {
	if h.wishlistService == nil {
		notConfigured(c, "Wishlist")
		return
	}

	err := h.wishlistService.Remove(c.Request.Context(), c.Query("link"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "link is required"})
	case errors.Is(err, domain.ErrWishlistItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	default:
		log.Printf("[HANDLER] Wishlist remove error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func notConfigured(c *gin.Context, feature string) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": feature + " service not configured",
	})
}
