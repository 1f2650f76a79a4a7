package handler

import (
	"context"
	"errors"
	"net/http"

	"b2gmatch/internal/model"
	"b2gmatch/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Matcher ranks open opportunities for a contractor
type Matcher interface {
	Match(ctx context.Context, profile *model.ContractorProfile) (*model.MatchResponse, error)
}

// MatchHandler handles opportunity matching HTTP requests
type MatchHandler struct {
	matcher Matcher
	logger  *zap.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matcher Matcher, logger *zap.Logger) *MatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchHandler{
		matcher: matcher,
		logger:  logger,
	}
}

// Match handles POST /api/v1/match-opportunities
func (h *MatchHandler) Match(c *gin.Context) {
	var req model.ContractorProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.matcher.Match(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProfile):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrFetchOpportunities):
			h.logger.Error("match request failed",
				zap.String("request_id", RequestID(c)),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opportunities"})
		default:
			h.logger.Error("match request failed",
				zap.String("request_id", RequestID(c)),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}
