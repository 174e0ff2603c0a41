package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearledger/reconciliation-backend/internal/application/service"
	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
	"github.com/clearledger/reconciliation-backend/internal/domain/session"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
	"github.com/clearledger/reconciliation-backend/internal/infrastructure/storage"
)

type testAPI struct {
	server *Server
	repo   *storage.MockRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	repo := storage.NewMockRepository()
	svc := service.NewReconcileService(repo, scoring.DefaultConfig(), nil)
	return &testAPI{
		server: NewServer(DefaultConfig(), svc, nil),
		repo:   repo,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.server.Router().ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) seedSession(t *testing.T) *session.Session {
	t.Helper()
	opening, closing := int64(100000), int64(107000)
	stmt := statement.Statement{
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Transactions: []statement.Transaction{
			{ID: "tx1", Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Description: "Amazon Purchase", Amount: -5000},
		},
	}
	sess := session.New("co1", "acct-bank", stmt, &opening, &closing)
	require.NoError(t, a.repo.SaveSession(sess))
	return sess
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status"`)
}

func TestCreateSession(t *testing.T) {
	api := newTestAPI(t)
	body := map[string]any{
		"company_id": "co1",
		"account_id": "acct-bank",
		"statement": map[string]any{
			"period_start": "2025-06-01T00:00:00Z",
			"period_end":   "2025-06-30T00:00:00Z",
			"transactions": []map[string]any{
				{"id": "tx1", "date": "2025-06-10T00:00:00Z", "description": "Amazon Purchase", "amount": -5000},
			},
		},
	}

	rec := api.do(t, http.MethodPost, "/api/sessions", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, session.StatusDraft, created.Status)
	assert.True(t, created.FirstReconciliation) // no opening balance given
	assert.True(t, api.repo.SaveSessionCalled)
}

func TestCreateSession_MissingFields(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/sessions", map[string]any{"company_id": "co1"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession_NotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/sessions/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "we couldn't find that reconciliation")
}

func TestListSessions_RequiresCompanyID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/sessions", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunMatchingEndpoint(t *testing.T) {
	api := newTestAPI(t)
	sess := api.seedSession(t)

	body := map[string]any{
		"entries": []map[string]any{
			{
				"id":          "e1",
				"date":        "2025-06-10T00:00:00Z",
				"description": "Amazon Purchase",
				"status":      "posted",
				"lines": []map[string]any{
					{"account_id": "acct-bank", "debit": 5000},
					{"account_id": "acct-expense", "credit": 5000},
				},
			},
		},
	}

	rec := api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/match", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Matches []struct {
			StatementID string `json:"statement_id"`
			EntryID     string `json:"entry_id"`
			Confidence  string `json:"confidence"`
		} `json:"matches"`
		Accuracy float64 `json:"accuracy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "tx1", result.Matches[0].StatementID)
	assert.Equal(t, "e1", result.Matches[0].EntryID)
	assert.Equal(t, "exact", result.Matches[0].Confidence)
	assert.Equal(t, 100.0, result.Accuracy)

	// The run alone persists nothing.
	stored, err := api.repo.GetSession(sess.ID)
	require.NoError(t, err)
	assert.False(t, stored.Statement.Transactions[0].Matched)
}

func TestManualMatchFlow(t *testing.T) {
	api := newTestAPI(t)
	sess := api.seedSession(t)
	matchBody := map[string]any{"statement_id": "tx1", "entry_id": "e1"}

	rec := api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/matches/manual", matchBody)
	require.Equal(t, http.StatusOK, rec.Code)

	// Matching the same line again conflicts.
	rec = api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/matches/manual", matchBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already matched")

	// Removing clears the way for a new match.
	rec = api.do(t, http.MethodDelete, "/api/sessions/"+sess.ID+"/matches", map[string]any{"statement_id": "tx1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/matches/manual", map[string]any{"statement_id": "tx1", "entry_id": "e2"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompleteTwiceRejected(t *testing.T) {
	api := newTestAPI(t)
	sess := api.seedSession(t)

	rec := api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/complete", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already been closed")
}

func TestReconcileIDsOnlyAfterCompletion(t *testing.T) {
	api := newTestAPI(t)
	sess := api.seedSession(t)
	require.Equal(t, http.StatusOK,
		api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/matches/manual",
			map[string]any{"statement_id": "tx1", "entry_id": "e1"}).Code)

	rec := api.do(t, http.MethodGet, "/api/sessions/"+sess.ID+"/reconcile-ids", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/complete", nil).Code)

	rec = api.do(t, http.MethodGet, "/api/sessions/"+sess.ID+"/reconcile-ids", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		EntryIDs []string `json:"entry_ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"e1"}, resp.EntryIDs)
}

func TestSummaryEndpoint(t *testing.T) {
	api := newTestAPI(t)
	sess := api.seedSession(t)
	require.Equal(t, http.StatusOK,
		api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/matches/manual",
			map[string]any{"statement_id": "tx1", "entry_id": "e1"}).Code)

	rec := api.do(t, http.MethodGet, fmt.Sprintf("/api/sessions/%s/summary", sess.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary session.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.MatchedTransactions)
	assert.Equal(t, 100.0, summary.MatchRate)
}

func TestAuditEndpoint(t *testing.T) {
	api := newTestAPI(t)
	sess := api.seedSession(t)
	require.Equal(t, http.StatusOK,
		api.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/matches/manual",
			map[string]any{"statement_id": "tx1", "entry_id": "e1"}).Code)

	rec := api.do(t, http.MethodGet, "/api/sessions/"+sess.ID+"/audit", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var trail []storage.AuditEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trail))
	require.Len(t, trail, 1)
	assert.Equal(t, storage.AuditActionManual, trail[0].Action)
	assert.Equal(t, "tx1", trail[0].StatementID)
}
