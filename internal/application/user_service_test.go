package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wheelshare/service-rental/internal/auth"
	"github.com/wheelshare/service-rental/internal/domain"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
)

func newUserService(t *testing.T) (*UserService, *memUserRepo, *auth.JWTManager) {
	t.Helper()
	repo := newMemUserRepo()
	jwt := auth.NewJWTManager("test-secret", 15*time.Minute)
	return NewUserService(repo, jwt, zap.NewNop()), repo, jwt
}

func TestRegister(t *testing.T) {
	svc, _, _ := newUserService(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{Name: "lena", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "lena", dto.Name)
	assert.Equal(t, "user", dto.Role)
	assert.NotZero(t, dto.ID)
}

func TestRegister_NameTaken(t *testing.T) {
	svc, _, _ := newUserService(t)
	_, err := svc.Register(context.Background(), RegisterRequest{Name: "lena", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "lena", Password: "other password"})
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestLogin(t *testing.T) {
	svc, _, jwt := newUserService(t)
	registered, err := svc.Register(context.Background(), RegisterRequest{Name: "lena", Password: "correct horse"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{Name: "lena", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)

	claims, err := jwt.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userDomain.UserID(registered.ID), claims.UserID)
	assert.Equal(t, userDomain.RoleUser, claims.Role)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newUserService(t)
	_, err := svc.Register(context.Background(), RegisterRequest{Name: "lena", Password: "correct horse"})
	require.NoError(t, err)

	// Wrong password and unknown account fail identically.
	var unauthorized *domain.UnauthorizedError
	_, err = svc.Login(context.Background(), LoginRequest{Name: "lena", Password: "wrong"})
	require.ErrorAs(t, err, &unauthorized)
	wrongPassword := err.Error()

	_, err = svc.Login(context.Background(), LoginRequest{Name: "nobody", Password: "wrong"})
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, wrongPassword, err.Error())
}

func TestDeleteUser(t *testing.T) {
	svc, _, _ := newUserService(t)
	dto, err := svc.Register(context.Background(), RegisterRequest{Name: "lena", Password: "correct horse"})
	require.NoError(t, err)

	admin := Actor{UserID: 999, Role: userDomain.RoleAdmin}
	require.NoError(t, svc.DeleteUser(context.Background(), admin, userDomain.UserID(dto.ID)))

	// Soft-deleted accounts are gone from reads and cannot log in.
	_, err = svc.GetUser(context.Background(), userDomain.UserID(dto.ID))
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.Login(context.Background(), LoginRequest{Name: "lena", Password: "correct horse"})
	var unauthorized *domain.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorized)
}

func TestDeleteUser_SelfRefused(t *testing.T) {
	svc, repo, _ := newUserService(t)
	u, err := userDomain.NewUser("root", "hash", userDomain.RoleAdmin)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), u)
	require.NoError(t, err)

	self := Actor{UserID: saved.ID(), Role: userDomain.RoleAdmin}
	err = svc.DeleteUser(context.Background(), self, saved.ID())
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestGetUsers_ExcludesDeleted(t *testing.T) {
	svc, _, _ := newUserService(t)
	first, err := svc.Register(context.Background(), RegisterRequest{Name: "lena", Password: "correct horse"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegisterRequest{Name: "ivan", Password: "correct horse"})
	require.NoError(t, err)

	admin := Actor{UserID: 999, Role: userDomain.RoleAdmin}
	require.NoError(t, svc.DeleteUser(context.Background(), admin, userDomain.UserID(first.ID)))

	users, err := svc.GetUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ivan", users[0].Name)
}
