package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearledger/reconciliation-backend/internal/api/dto"
	"github.com/clearledger/reconciliation-backend/internal/application/service"
)

// SessionsHandler exposes reconciliation session lifecycle operations.
type SessionsHandler struct {
	service *service.ReconcileService
}

// NewSessionsHandler creates a sessions handler.
func NewSessionsHandler(svc *service.ReconcileService) *SessionsHandler {
	return &SessionsHandler{service: svc}
}

// Create seeds a new session from a parsed statement.
// POST /api/sessions
func (h *SessionsHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("we couldn't read that request. Please check the statement payload"))
		return
	}

	sess, err := h.service.CreateSession(req.CompanyID, req.AccountID, req.Statement, req.OpeningBalance, req.ClosingBalance)
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// Get returns one session by id.
// GET /api/sessions/:id
func (h *SessionsHandler) Get(c *gin.Context) {
	sess, err := h.service.GetSession(c.Param("id"))
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// List returns a company's sessions, newest first.
// GET /api/sessions?company_id=...
func (h *SessionsHandler) List(c *gin.Context) {
	companyID := c.Query("company_id")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("company_id is required"))
		return
	}

	sessions, err := h.service.ListSessions(companyID)
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// Summary returns the session's progress view.
// GET /api/sessions/:id/summary
func (h *SessionsHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Param("id"))
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Complete finishes the reconciliation.
// POST /api/sessions/:id/complete
func (h *SessionsHandler) Complete(c *gin.Context) {
	var req dto.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("we couldn't read that request"))
		return
	}

	sess, err := h.service.Complete(c.Param("id"), req.Notes)
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Abandon discards the reconciliation attempt.
// POST /api/sessions/:id/abandon
func (h *SessionsHandler) Abandon(c *gin.Context) {
	sess, err := h.service.Abandon(c.Param("id"))
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// TransactionsToReconcile returns the ledger entry ids to flag as
// reconciled. Only valid after completion.
// GET /api/sessions/:id/reconcile-ids
func (h *SessionsHandler) TransactionsToReconcile(c *gin.Context) {
	ids, err := h.service.TransactionsToReconcile(c.Param("id"))
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, dto.ReconcileIDsResponse{EntryIDs: ids})
}

// Audit returns the session's match audit trail.
// GET /api/sessions/:id/audit
func (h *SessionsHandler) Audit(c *gin.Context) {
	entries, err := h.service.Audit(c.Param("id"))
	if err != nil {
		status, apiErr := dto.FromDomainError(err)
		c.JSON(status, apiErr)
		return
	}
	c.JSON(http.StatusOK, entries)
}
