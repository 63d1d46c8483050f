package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	"github.com/kmwangi/mpesa-gateway/internal/domain/usecase/reconcile"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/logger"
)

// recordingAsyncRepo matches a single conversation id and records the
// timeouts and results applied to it.
type recordingAsyncRepo struct {
	kind           entity.TransactionKind
	conversationID string
	timeoutErr     error

	appliedTimeouts []string
	lastResultCode  *int
	lastResultDesc  string
}

func (r *recordingAsyncRepo) Kind() entity.TransactionKind { return r.kind }

func (r *recordingAsyncRepo) ApplyResult(ctx context.Context, result entity.AsyncResult) (bool, error) {
	return result.ConversationID == r.conversationID, nil
}

func (r *recordingAsyncRepo) ApplyTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) (bool, error) {
	if r.timeoutErr != nil {
		return false, r.timeoutErr
	}
	if conversationID != r.conversationID {
		return false, nil
	}
	r.appliedTimeouts = append(r.appliedTimeouts, conversationID)
	r.lastResultCode = resultCode
	r.lastResultDesc = resultDesc
	return true, nil
}

func newTimeoutRouter(repo *recordingAsyncRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	rec := reconcile.NewReconciler(logger.NewNoopLogger(), repo)
	h := NewCallbackHandler(nil, rec, logger.NewNoopLogger())

	router := gin.New()
	router.POST("/api/payments/timeout", h.Timeout)
	return router
}

func postTimeout(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/timeout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTimeout(t *testing.T) {
	t.Run("flat body marks the transaction timed out", func(t *testing.T) {
		repo := &recordingAsyncRepo{kind: entity.KindB2C, conversationID: "AG_1"}
		router := newTimeoutRouter(repo)

		w := postTimeout(t, router, `{
			"ConversationID": "AG_1",
			"OriginatorConversationID": "orig_1",
			"ResultCode": 1,
			"ResultDesc": "The service request timed out."
		}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, repo.appliedTimeouts, 1)
		assert.Equal(t, "AG_1", repo.appliedTimeouts[0])
		require.NotNil(t, repo.lastResultCode)
		assert.Equal(t, 1, *repo.lastResultCode)
		assert.Equal(t, "The service request timed out.", repo.lastResultDesc)
	})

	t.Run("result-wrapped body is accepted as fallback", func(t *testing.T) {
		repo := &recordingAsyncRepo{kind: entity.KindB2C, conversationID: "AG_1"}
		router := newTimeoutRouter(repo)

		w := postTimeout(t, router, `{
			"Result": {
				"ConversationID": "AG_1",
				"ResultCode": 1,
				"ResultDesc": "The service request timed out."
			}
		}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, repo.appliedTimeouts, 1)
	})

	t.Run("missing conversation id is malformed", func(t *testing.T) {
		repo := &recordingAsyncRepo{kind: entity.KindB2C, conversationID: "AG_1"}
		router := newTimeoutRouter(repo)

		w := postTimeout(t, router, `{"ResultCode": 1, "ResultDesc": "The service request timed out."}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, repo.appliedTimeouts)
	})

	t.Run("result code is optional", func(t *testing.T) {
		repo := &recordingAsyncRepo{kind: entity.KindB2C, conversationID: "AG_1"}
		router := newTimeoutRouter(repo)

		w := postTimeout(t, router, `{"ConversationID": "AG_1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, repo.appliedTimeouts, 1)
		assert.Nil(t, repo.lastResultCode)
	})

	t.Run("store failure answers 500 for redelivery", func(t *testing.T) {
		repo := &recordingAsyncRepo{
			kind:           entity.KindB2C,
			conversationID: "AG_1",
			timeoutErr:     errs.ErrDatabaseConnection,
		}
		router := newTimeoutRouter(repo)

		w := postTimeout(t, router, `{"ConversationID": "AG_1", "ResultCode": 1}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
