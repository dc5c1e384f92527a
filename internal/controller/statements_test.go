package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ivankudrin/finapi/internal/middlewareinternal"
	"github.com/ivankudrin/finapi/internal/model"
	"github.com/ivankudrin/finapi/internal/repository/memory"
	"github.com/ivankudrin/finapi/internal/service"
)

type testEnv struct {
	router  *chi.Mux
	userSvc service.UserService
	userID  uuid.UUID
}

// newTestEnv wires the controllers on in-memory stores with a middleware
// that injects a fixed authenticated user, standing in for the JWT layer.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepository()
	statements := memory.NewStatementRepository()
	statementSvc := service.NewStatementService(users, statements, memory.NewTxRunner())
	balanceSvc := service.NewBalanceService(users, statements)
	userSvc := service.NewUserService(users)

	user, err := userSvc.Register(context.Background(), "User", "user@example.com", "password")
	require.NoError(t, err)

	env := &testEnv{userSvc: userSvc, userID: user.ID}

	logger := zap.NewNop()
	statementController := NewStatementController(statementSvc, logger)
	balanceController := NewBalanceController(balanceSvc)
	userController := NewUserController(userSvc, logger)

	asUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middlewareinternal.WithUserID(r.Context(), env.userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	router := chi.NewRouter()
	router.Post("/api/users", userController.Register)
	router.Group(func(r chi.Router) {
		r.Use(asUser)
		r.Get("/api/statements/balance", balanceController.GetBalance)
		r.Get("/api/statements/{statement_id}", statementController.GetStatementOperation)
		r.Post("/api/statements/deposit", statementController.CreateStatement)
		r.Post("/api/statements/withdraw", statementController.CreateStatement)
		r.Post("/api/statements/transfers/{receiver_id}", statementController.Transfer)
	})

	env.router = router
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateStatementRoutesPickOperationFromPath(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/statements/deposit", `{"amount": 100, "description": "salary"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var deposit model.Statement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deposit))
	require.Equal(t, model.OperationDeposit, deposit.Type)
	require.Equal(t, int64(10000), deposit.Amount)

	rec = env.do(t, http.MethodPost, "/api/statements/withdraw", `{"amount": "30.50", "description": "groceries"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var withdraw model.Statement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withdraw))
	require.Equal(t, model.OperationWithdraw, withdraw.Type)
	require.Equal(t, int64(3050), withdraw.Amount)

	rec = env.do(t, http.MethodGet, "/api/statements/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var balance model.UserBalance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	require.Equal(t, int64(6950), balance.Balance)
	require.Len(t, balance.Statements, 2)
}

func TestCreateStatementErrorStatuses(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/statements/withdraw", `{"amount": 10}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Insufficient funds")

	rec = env.do(t, http.MethodPost, "/api/statements/deposit", `{"amount": 0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid value")

	rec = env.do(t, http.MethodPost, "/api/statements/deposit", `{"amount": "ten"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid amount")
}

func TestTransferEndpoint(t *testing.T) {
	env := newTestEnv(t)

	receiver, err := env.userSvc.Register(context.Background(), "Receiver", "receiver@example.com", "password")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/statements/deposit", `{"amount": 100}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/statements/transfers/%s", receiver.ID), `{"amount": 40, "description": "rent"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var transfer model.Statement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transfer))
	require.Equal(t, model.OperationTransfer, transfer.Type)
	require.Equal(t, receiver.ID, transfer.UserID)
	require.NotNil(t, transfer.SenderID)
	require.Equal(t, env.userID, *transfer.SenderID)

	rec = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/statements/transfers/%s", uuid.New()), `{"amount": 1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/statements/transfers/not-a-uuid", `{"amount": 1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStatementOperationEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/statements/deposit", `{"amount": 10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var deposit model.Statement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deposit))

	rec = env.do(t, http.MethodGet, "/api/statements/"+deposit.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Statement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, deposit.ID, got.ID)

	rec = env.do(t, http.MethodGet, "/api/statements/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterEndpointHidesCredential(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users",
		`{"name": "Bob", "email": "bob@example.com", "password": "hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, rec.Body.String(), "hunter2")
	require.NotContains(t, rec.Body.String(), "password")

	rec = env.do(t, http.MethodPost, "/api/users",
		`{"name": "Bob", "email": "bob@example.com", "password": "hunter2"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}
