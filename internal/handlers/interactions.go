package handlers

import (
	"net/http"

	"corgi/internal/auth"
	"corgi/internal/history"
	"corgi/internal/identity"
	"corgi/internal/models"

	"github.com/gin-gonic/gin"
)

// InteractionsHandler records user interactions for later personalization.
type InteractionsHandler struct {
	store    history.Store
	resolver *identity.Resolver
}

// NewInteractionsHandler creates a new interactions handler
func NewInteractionsHandler(store history.Store, resolver *identity.Resolver) *InteractionsHandler {
	return &InteractionsHandler{store: store, resolver: resolver}
}

type interactionRequest struct {
	UserID           string `json:"user_id"`
	PostID           string `json:"post_id" binding:"required"`
	AuthorID         string `json:"author_id"`
	ActionType       string `json:"action_type" binding:"required"`
	ContextSource    string `json:"context_source"`
	RecommendationID string `json:"recommendation_id"`
}

// Record handles POST /api/interactions. A resolvable bearer wins over the
// user_id in the body so clients cannot log interactions as someone else.
func (h *InteractionsHandler) Record(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interaction payload", "details": err.Error()})
		return
	}

	if !models.ValidActionType(req.ActionType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action type: " + req.ActionType})
		return
	}

	userID := req.UserID
	bearer := auth.ExtractBearer(c.GetHeader("Authorization"))
	if bearer != "" {
		if ident, err := h.resolver.Resolve(c.Request.Context(), bearer); err == nil {
			userID = ident.UserID
		}
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required for unauthenticated interactions"})
		return
	}

	interaction := &models.Interaction{
		UserID:           userID,
		PostID:           req.PostID,
		AuthorID:         req.AuthorID,
		ActionType:       req.ActionType,
		ContextSource:    req.ContextSource,
		RecommendationID: req.RecommendationID,
	}

	if err := h.store.Record(c.Request.Context(), interaction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to record interaction",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}
