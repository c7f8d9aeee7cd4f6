package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wheelshare/service-rental/internal/database"
	"github.com/wheelshare/service-rental/internal/domain"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null;uniqueIndex;size:100"`
	Password  string    `gorm:"not null;size:255"`
	Role      string    `gorm:"not null;size:20"`
	IsDeleted bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of user.Repository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) conn(ctx context.Context) *gorm.DB {
	if tx := database.FromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByID retrieves a user by id, excluding soft-deleted accounts.
func (r *GormUserRepository) FindByID(ctx context.Context, id userDomain.UserID) (*userDomain.User, error) {
	var model UserModel
	err := r.conn(ctx).Where("id = ? AND is_deleted = ?", int64(id), false).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return toDomainUser(&model)
}

// FindByName retrieves a user by its unique name, or nil if absent.
func (r *GormUserRepository) FindByName(ctx context.Context, name string) (*userDomain.User, error) {
	var model UserModel
	err := r.conn(ctx).Where("name = ? AND is_deleted = ?", name, false).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by name: %w", err)
	}
	return toDomainUser(&model)
}

// FindAll retrieves all non-deleted users.
func (r *GormUserRepository) FindAll(ctx context.Context) ([]*userDomain.User, error) {
	var models []UserModel
	if err := r.conn(ctx).Where("is_deleted = ?", false).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}

	users := make([]*userDomain.User, len(models))
	for i := range models {
		u, err := toDomainUser(&models[i])
		if err != nil {
			return nil, err
		}
		users[i] = u
	}
	return users, nil
}

// Save persists a new user and returns it with the assigned id.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) (*userDomain.User, error) {
	model := toUserModel(u)
	model.ID = 0
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return toDomainUser(model)
}

// Update persists changes to an existing user.
func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	model := toUserModel(u)
	result := r.conn(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"password":   model.Password,
			"role":       model.Role,
			"is_deleted": model.IsDeleted,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("User", fmt.Sprintf("%d", u.ID()))
	}
	return nil
}

// --- Conversion Helpers ---

func toUserModel(u *userDomain.User) *UserModel {
	return &UserModel{
		ID:        int64(u.ID()),
		Name:      u.Name(),
		Password:  u.PasswordHash(),
		Role:      u.Role().String(),
		IsDeleted: u.IsDeleted(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func toDomainUser(m *UserModel) (*userDomain.User, error) {
	role := userDomain.Role(m.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid user role in storage: %s", m.Role)
	}
	return userDomain.Reconstruct(
		userDomain.UserID(m.ID),
		m.Name,
		m.Password,
		role,
		m.IsDeleted,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
