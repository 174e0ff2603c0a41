package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearledger/reconciliation-backend/internal/api/dto"
	"github.com/clearledger/reconciliation-backend/internal/application/service"
	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
)

// MatchingHandler exposes the matching operations on a session.
type MatchingHandler struct {
	service *service.ReconcileService
}

// NewMatchingHandler creates a matching handler.
func NewMatchingHandler(svc *service.ReconcileService) *MatchingHandler {
	return &MatchingHandler{service: svc}
}

// Run scores the session's statement against the supplied ledger entries
// and returns proposed matches without applying them.
// POST /api/sessions/:id/match
func (h *MatchingHandler) Run(c *gin.Context) {
	var req dto.RunMatchingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("we couldn't read that request. Please check the ledger entries payload"))
		return
	}

	var patterns scoring.PatternSet
	if len(req.History) > 0 {
		patterns = scoring.BuildPatterns(req.History)
	}

	result, err := h.service.RunMatching(c.Param("id"), req.Entries, patterns)
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Apply replaces the session's match set with a matching result.
// POST /api/sessions/:id/matches
func (h *MatchingHandler) Apply(c *gin.Context) {
	var req dto.ApplyMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("we couldn't read that request"))
		return
	}

	sess, err := h.service.ApplyMatches(c.Param("id"), &req.Result, req.Entries)
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ManualMatch records one caller-confirmed match.
// POST /api/sessions/:id/matches/manual
func (h *MatchingHandler) ManualMatch(c *gin.Context) {
	var req dto.ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("we couldn't read that request"))
		return
	}

	sess, err := h.service.ManualMatch(c.Param("id"), req.StatementID, req.EntryID)
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Unmatch clears the match on one statement line.
// DELETE /api/sessions/:id/matches
func (h *MatchingHandler) Unmatch(c *gin.Context) {
	var req dto.UnmatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("we couldn't read that request"))
		return
	}

	sess, err := h.service.Unmatch(c.Param("id"), req.StatementID)
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, sess)
}
