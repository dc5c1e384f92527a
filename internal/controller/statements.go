package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudrin/finapi/internal/middlewareinternal"
	"github.com/ivankudrin/finapi/internal/model"
	"github.com/ivankudrin/finapi/internal/service"
)

type StatementController struct {
	statementService service.StatementService
	logger           *zap.Logger
}

func NewStatementController(statementService service.StatementService, logger *zap.Logger) *StatementController {
	return &StatementController{
		statementService: statementService,
		logger:           logger,
	}
}

// statementRequest accepts the amount either as a JSON number or as a
// numeric string; the encoding to minor units happens in the service.
type statementRequest struct {
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
}

func (req *statementRequest) rawAmount() string {
	return strings.Trim(strings.TrimSpace(string(req.Amount)), `"`)
}

// CreateStatement serves both the deposit and the withdraw routes; the
// operation kind is the last segment of the request path.
func (c *StatementController) CreateStatement(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	operation := model.OperationType(path.Base(r.URL.Path))

	var request statementRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	statement, err := c.statementService.Create(r.Context(), service.CreateStatementInput{
		UserID:      userID,
		Type:        operation,
		Amount:      request.rawAmount(),
		Description: request.Description,
	})
	if err != nil {
		c.logger.Warn("Statement creation failed",
			zap.String("user_id", userID.String()),
			zap.String("operation", string(operation)),
			zap.Error(err))
		c.writeError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, statement)
}

func (c *StatementController) Transfer(w http.ResponseWriter, r *http.Request) {
	providerID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	receiverID, err := uuid.Parse(chi.URLParam(r, "receiver_id"))
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var request statementRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	statement, err := c.statementService.Transfer(r.Context(), service.TransferInput{
		ProviderID:  providerID,
		ReceiverID:  receiverID,
		Amount:      request.rawAmount(),
		Description: request.Description,
	})
	if err != nil {
		c.logger.Warn("Transfer failed",
			zap.String("provider_id", providerID.String()),
			zap.String("receiver_id", receiverID.String()),
			zap.Error(err))
		c.writeError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, statement)
}

func (c *StatementController) GetStatementOperation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	statementID, err := uuid.Parse(chi.URLParam(r, "statement_id"))
	if err != nil {
		http.Error(w, "Statement not found", http.StatusNotFound)
		return
	}

	statement, err := c.statementService.GetOperation(r.Context(), userID, statementID)
	if err != nil {
		c.writeError(w, err)
		return
	}

	render.JSON(w, r, statement)
}

func (c *StatementController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, model.ErrStatementNotFound):
		http.Error(w, "Statement not found", http.StatusNotFound)
	case errors.Is(err, model.ErrInsufficientFunds):
		http.Error(w, "Insufficient funds", http.StatusBadRequest)
	case errors.Is(err, model.ErrInvalidValue):
		http.Error(w, "Invalid value", http.StatusBadRequest)
	case errors.Is(err, model.ErrInvalidAmount):
		http.Error(w, "Invalid amount", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
