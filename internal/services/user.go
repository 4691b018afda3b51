package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/user"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo userrepo.UserRepo
}

func NewUserService(gdb *gorm.DB, baseLog *logger.Logger, userRepo userrepo.UserRepo) UserService {
	return &userService{db: gdb, log: baseLog.With("service", "UserService"), userRepo: userRepo}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return users[0], nil
}
