package user_api

import (
	"fmt"
	"net/http"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
	"github.com/Parshant679/event-booking/internal/users"
	"github.com/Parshant679/event-booking/internal/utils"
)

type Handler struct {
	UserService *users.UserService
	Logger      *logger.Logger
}

func NewHandler(userService *users.UserService, log *logger.Logger) *Handler {
	return &Handler{UserService: userService, Logger: log}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreate
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, h.Logger, "CreateUser", fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	user, err := h.UserService.CreateUser(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "CreateUser", err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateUser: registered %s", user.ID))
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("User created", user))
}
