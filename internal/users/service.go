package users

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

type UserDBLayer interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type UserService struct {
	DB     UserDBLayer
	Logger *logger.Logger
}

func NewUserService(db UserDBLayer, log *logger.Logger) *UserService {
	return &UserService{DB: db, Logger: log}
}

func (s *UserService) CreateUser(ctx context.Context, req models.UserCreate) (*models.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", models.ErrValidation, req.Email)
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be %q or %q", models.ErrValidation, models.RoleOrganizer, models.RoleCustomer)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.DB.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.Logger.Info("ACTOR", fmt.Sprintf("Registered %s %s", user.Role, user.ID))
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.DB.GetUserByID(ctx, id)
}
