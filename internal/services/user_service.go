package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"salesapi/internal/domain"
	"salesapi/internal/repos"
)

type RegisterInput struct {
	Username  string      `json:"username"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"userEmail"`
	Password  string      `json:"password"`
	RoleID    domain.Role `json:"roleId"`
}

type ProfileInput struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"userEmail"`
	Password  string `json:"password,omitempty"`
}

type UserService struct {
	Users      *repos.UserRepo
	BcryptCost int
	Logger     *zap.Logger
}

func NewUserService(users *repos.UserRepo, cost int, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{Users: users, BcryptCost: cost, Logger: logger}
}

// Register creates a Buyer or Seller account. Admin accounts are never
// self-registered.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if !in.RoleID.Valid() || in.RoleID == domain.RoleAdmin {
		return nil, ErrInvalidRole
	}
	exists, err := s.Users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      in.RoleID,
		Hash:      string(hash),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.Info("user registered", zap.Int64("user_id", u.ID), zap.Stringer("role", u.Role))
	return u, nil
}

// Update changes profile fields of user id. Only the user themself or an
// admin may do so, and the role never changes.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id int64, in ProfileInput) (*domain.User, error) {
	if actor.ID != id && actor.Role != domain.RoleAdmin {
		return nil, ErrNotOwner
	}
	u, err := s.Users.ByID(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Username, u.FirstName, u.LastName, u.Email = in.Username, in.FirstName, in.LastName, in.Email
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
		if err != nil {
			return nil, err
		}
		if err := s.Users.UpdatePassword(ctx, id, string(hash)); err != nil {
			return nil, err
		}
	}
	s.Logger.Info("user updated", zap.Int64("user_id", id), zap.Int64("actor_id", actor.ID))
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.Users.Delete(ctx, id)
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repos.ErrInUse):
		return ErrUserHasSales
	case err != nil:
		return err
	}
	s.Logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func (s *UserService) ListNonAdmin(ctx context.Context) ([]domain.User, error) {
	return s.Users.ListNonAdmin(ctx)
}
