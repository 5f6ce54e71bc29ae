package service

import (
	"context"
	"testing"

	"github.com/Iphint/Sayurku/config"
	"github.com/Iphint/Sayurku/internal/domain"
	"github.com/Iphint/Sayurku/internal/dto"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[string]domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.users[email], nil
}

func (r *fakeUserRepo) AddUser(ctx context.Context, data domain.User) (int64, error) {
	data.ID = r.nextID
	r.nextID++
	r.users[data.Email] = data
	return data.ID, nil
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

func TestRegister(t *testing.T) {
	testCases := []struct {
		name    string
		payload dto.RegisterRequest
		wantErr error
	}{
		{
			name:    "valid request",
			payload: dto.RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "pw123", ConfirmPassword: "pw123"},
		},
		{
			name:    "missing name",
			payload: dto.RegisterRequest{Email: "a@x.com", Password: "pw123", ConfirmPassword: "pw123"},
			wantErr: errs.ErrClient,
		},
		{
			name:    "missing email",
			payload: dto.RegisterRequest{Name: "Alice", Password: "pw123", ConfirmPassword: "pw123"},
			wantErr: errs.ErrClient,
		},
		{
			name:    "password mismatch",
			payload: dto.RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "pw123", ConfirmPassword: "pw124"},
			wantErr: errs.ErrPasswordMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := CreateUserService(repo, testConfig())

			resp, err := svc.Register(context.Background(), tc.payload)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, repo.users)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, dto.UserResponse{Name: "Alice", Email: "a@x.com"}, resp)

			stored := repo.users["a@x.com"]
			assert.NotZero(t, stored.ID)
			assert.NotEmpty(t, stored.ExternalID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw123")))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := CreateUserService(repo, testConfig())

	payload := dto.RegisterRequest{Name: "Alice", Email: "a@x.com", Password: "pw123", ConfirmPassword: "pw123"}

	_, err := svc.Register(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), payload)
	assert.ErrorIs(t, err, errs.ErrEmailAlreadyUsed)
	assert.Equal(t, "Email already exists", err.Error())
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := CreateUserService(repo, testConfig())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Alice", Email: "a@x.com", Password: "pw123", ConfirmPassword: "pw123",
	})
	require.NoError(t, err)

	testCases := []struct {
		name    string
		payload dto.LoginRequest
		wantErr error
	}{
		{name: "valid credentials", payload: dto.LoginRequest{Email: "a@x.com", Password: "pw123"}},
		{name: "missing fields", payload: dto.LoginRequest{Email: "a@x.com"}, wantErr: errs.ErrClient},
		{name: "unknown email", payload: dto.LoginRequest{Email: "b@x.com", Password: "pw123"}, wantErr: errs.ErrEmailNotFound},
		{name: "wrong password", payload: dto.LoginRequest{Email: "a@x.com", Password: "nope"}, wantErr: errs.ErrWrongPassword},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), tc.payload)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Alice", resp.Name)
			assert.Equal(t, "a@x.com", resp.Email)
			assert.NotEmpty(t, resp.Token)
		})
	}
}
