package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuspulse/campus-events-api/internal/domain"
	"github.com/campuspulse/campus-events-api/internal/repository"
)

type fakeUserRepo struct {
	nextID  uint
	byEmail map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID:  1,
		byEmail: make(map[string]domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, exists := f.byEmail[user.Email]; exists {
		return domain.User{}, repository.ErrUserEmailExists
	}

	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestSignup_HashesPasswordAndAssignsStudentRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "alice@campus.edu",
		Password: "Password1",
		Name:     "Alice",
		Role:     domain.RoleAdmin, // must be ignored
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleStudent, created.Role)
	assert.NotEqual(t, "Password1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("Password1")))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), domain.User{Email: "bob@campus.edu", Password: "Password1"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{Email: "bob@campus.edu", Password: "Password2"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), domain.User{Email: "carol@campus.edu", Password: "Password1"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "carol@campus.edu", "Password1")
		require.NoError(t, err)
		assert.Equal(t, "carol@campus.edu", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "carol@campus.edu", "nope")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@campus.edu", "Password1")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
