package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ivankudrin/finapi/internal/middlewareinternal"
	"github.com/ivankudrin/finapi/internal/model"
	"github.com/ivankudrin/finapi/internal/service"
)

type BalanceController struct {
	balanceService service.BalanceService
}

func NewBalanceController(balanceService service.BalanceService) *BalanceController {
	return &BalanceController{balanceService: balanceService}
}

func (c *BalanceController) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	balance, err := c.balanceService.GetBalance(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, r, balance)
}
