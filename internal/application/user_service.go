package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wheelshare/service-rental/internal/auth"
	"github.com/wheelshare/service-rental/internal/domain"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
)

// RegisterRequest is the request DTO for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the request DTO for authentication.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

// UserDTO is the API response representation of an account. The
// password hash never leaves the service layer.
type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService implements account use cases: registration, login and the
// admin user management surface.
type UserService struct {
	repo userDomain.Repository
	jwt  *auth.JWTManager
	log  *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.Repository, jwt *auth.JWTManager, log *zap.Logger) *UserService {
	return &UserService{repo: repo, jwt: jwt, log: log}
}

// Register creates a new account with the user role. The name has to be
// unique among non-deleted accounts.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	existing, err := s.repo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("user name already taken: " + req.Name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := userDomain.NewUser(req.Name, string(hash), userDomain.RoleUser)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.log.Info("user registered", zap.Int64("user_id", int64(saved.ID())))
	result := toUserDTO(saved)
	return &result, nil
}

// Login verifies the credentials and issues an access token. Failures
// are reported uniformly so the response does not reveal whether the
// account exists.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.jwt.Generate(u.ID(), u.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResponse{AccessToken: token, User: toUserDTO(u)}, nil
}

// GetUser returns a single account by id.
func (s *UserService) GetUser(ctx context.Context, id userDomain.UserID) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// GetUsers returns every non-deleted account (admin).
func (s *UserService) GetUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// DeleteUser soft-deletes an account (admin). Admins cannot delete
// their own account.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id userDomain.UserID) error {
	if actor.UserID == id {
		return domain.NewConflictError("cannot delete your own account")
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	u.MarkDeleted()
	if err := s.repo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info("user deleted", zap.Int64("user_id", int64(id)), zap.Int64("deleted_by", int64(actor.UserID)))
	return nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        int64(u.ID()),
		Name:      u.Name(),
		Role:      u.Role().String(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
