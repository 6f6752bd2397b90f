package menutypes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/logger"
	"go.uber.org/zap"
)

// Service handles menu type business logic
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new menu type service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// CreateMenuType creates a new menu type with a unique name
func (s *Service) CreateMenuType(ctx context.Context, req *CreateMenuTypeRequest) (*MenuType, error) {
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewInternalError("failed to check menu type name", err)
	}
	if existing != nil {
		return nil, common.NewConflictError("a menu type with this name already exists", nil)
	}

	menuType := &MenuType{
		ID:         uuid.New(),
		Name:       req.Name,
		Amount:     req.Amount,
		TemplateID: req.TemplateID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, menuType); err != nil {
		return nil, common.NewInternalError("failed to create menu type", err)
	}

	logger.Info("Menu type created",
		zap.String("menu_type_id", menuType.ID.String()),
		zap.String("name", menuType.Name),
	)

	return menuType, nil
}

// GetMenuType gets a menu type by ID
func (s *Service) GetMenuType(ctx context.Context, id uuid.UUID) (*MenuType, error) {
	menuType, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.NewNotFoundError("menu type not found", err)
	}
	return menuType, nil
}

// ListMenuTypes lists all menu types
func (s *Service) ListMenuTypes(ctx context.Context) ([]MenuType, error) {
	menuTypes, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list menu types", err)
	}
	return menuTypes, nil
}

// UpdateMenuType applies a partial update, keeping stored values for any
// field absent from the request.
func (s *Service) UpdateMenuType(ctx context.Context, id uuid.UUID, req *UpdateMenuTypeRequest) (*MenuType, error) {
	menuType, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.NewNotFoundError("menu type not found", err)
	}

	if req.Name != nil && *req.Name != menuType.Name {
		existing, err := s.repo.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewInternalError("failed to check menu type name", err)
		}
		if existing != nil {
			return nil, common.NewConflictError("a menu type with this name already exists", nil)
		}
		menuType.Name = *req.Name
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, common.NewBadRequestError("amount must be greater than zero", nil)
		}
		menuType.Amount = *req.Amount
	}
	if req.TemplateID != nil {
		menuType.TemplateID = req.TemplateID
	}

	if err := s.repo.Update(ctx, menuType); err != nil {
		return nil, common.NewInternalError("failed to update menu type", err)
	}

	return menuType, nil
}

// DeleteMenuType deletes a menu type unless gift cards still reference it
func (s *Service) DeleteMenuType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return common.NewNotFoundError("menu type not found", err)
	}

	count, err := s.repo.CountGiftCards(ctx, id)
	if err != nil {
		return common.NewInternalError("failed to count gift card references", err)
	}
	if count > 0 {
		return common.NewConflictError("menu type is referenced by existing gift cards", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return common.NewInternalError("failed to delete menu type", err)
	}

	logger.Info("Menu type deleted", zap.String("menu_type_id", id.String()))
	return nil
}
