package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolraise/raffle-api/internal/domain"
	"github.com/schoolraise/raffle-api/internal/repository"
)

type memUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.ID] = user

	return user, nil
}

func (m *memUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func newTestAuthService() (*AuthService, *memUserRepo, *memAuditRepo) {
	userRepo := newMemUserRepo()
	auditRepo := &memAuditRepo{}

	return NewAuthService(userRepo, NewAuditService(auditRepo)), userRepo, auditRepo
}

func TestSignup(t *testing.T) {
	svc, _, auditRepo := newTestAuthService()

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "park@school.edu",
		Password: "correct-horse1",
		Name:     "Ms. Park",
		Role:     "organizer",
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.NotEqual(t, "correct-horse1", created.Password, "password stored in plain text")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct-horse1")))

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, domain.AuditActionUserSignup, auditRepo.entries[0].Action)
	assert.True(t, auditRepo.entries[0].Sensitive)
}

func TestSignup_EmailExists(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "park@school.edu",
		Password: "correct-horse1",
		Role:     "organizer",
	})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{
		Email:    "park@school.edu",
		Password: "another-pass1",
		Role:     "viewer",
	})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "park@school.edu",
		Password: "correct-horse1",
		Role:     "organizer",
	})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "park@school.edu", "correct-horse1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login(context.Background(), "park@school.edu", "wrong-pass")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(context.Background(), "nobody@school.edu", "correct-horse1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
