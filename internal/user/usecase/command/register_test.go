package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/user/domain"
	"github.com/tranqv/shopcore/pkg/auth"
)

type memUserRepo struct {
	users  []domain.User
	nextID uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1}
}

func (r *memUserRepo) Create(user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, *user)
	return nil
}

func (r *memUserRepo) FindByID(id uint) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByUsername(username string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByEmail(email string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func validRegister() RegisterCommand {
	return RegisterCommand{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "s3cret-pass",
		FullName: "Alice Tran",
	}
}

func TestRegisterSuccess(t *testing.T) {
	repo := newMemUserRepo()
	handler := NewRegisterHandler(repo)

	user, err := handler.Handle(context.Background(), validRegister())
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "email is lowercased")
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, auth.CheckPassword("s3cret-pass", user.PasswordHash))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newMemUserRepo()
	handler := NewRegisterHandler(repo)

	_, err := handler.Handle(context.Background(), validRegister())
	require.NoError(t, err)

	dup := validRegister()
	dup.Email = "other@example.com"
	_, err = handler.Handle(context.Background(), dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	handler := NewRegisterHandler(repo)

	_, err := handler.Handle(context.Background(), validRegister())
	require.NoError(t, err)

	dup := validRegister()
	dup.Username = "alice2"
	_, err = handler.Handle(context.Background(), dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	handler := NewRegisterHandler(newMemUserRepo())

	tests := []struct {
		name    string
		mutate  func(*RegisterCommand)
		wantErr string
	}{
		{"missing username", func(c *RegisterCommand) { c.Username = "  " }, "username is required"},
		{"bad email", func(c *RegisterCommand) { c.Email = "not-an-email" }, "a valid email is required"},
		{"short password", func(c *RegisterCommand) { c.Password = "short" }, "at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validRegister()
			tt.mutate(&cmd)
			_, err := handler.Handle(context.Background(), cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newMemUserRepo()
	_, err := NewRegisterHandler(repo).Handle(context.Background(), validRegister())
	require.NoError(t, err)

	result, err := NewLoginHandler(repo).Handle(context.Background(), LoginCommand{
		Username: "alice",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)

	claims, err := auth.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	repo := newMemUserRepo()
	_, err := NewRegisterHandler(repo).Handle(context.Background(), validRegister())
	require.NoError(t, err)
	handler := NewLoginHandler(repo)

	_, wrongPass := handler.Handle(context.Background(), LoginCommand{Username: "alice", Password: "wrong-pass"})
	_, noUser := handler.Handle(context.Background(), LoginCommand{Username: "nobody", Password: "s3cret-pass"})

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestLoginEmptyFields(t *testing.T) {
	handler := NewLoginHandler(newMemUserRepo())
	_, err := handler.Handle(context.Background(), LoginCommand{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
