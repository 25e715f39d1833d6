package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"leadflow/internal/auth"
	"leadflow/internal/errors"
	"leadflow/internal/model"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		wantRole model.Role
	}{
		{name: "first account becomes admin", count: 0, wantRole: model.RoleAdmin},
		{name: "later accounts are agents", count: 3, wantRole: model.RoleAgent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			users.On("FindByEmail", mock.Anything, "new@x.com").Return(nil, gorm.ErrRecordNotFound)
			users.On("Count", mock.Anything).Return(tt.count, nil)
			users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
				return u.Role == tt.wantRole && u.Email == "new@x.com" && u.PasswordHash != "secret123"
			})).Run(func(args mock.Arguments) {
				args.Get(1).(*model.User).ID = uuid.New()
			}).Return(nil)

			jwtService := auth.NewJWTService(testSecret, time.Hour)
			svc := NewAuthService(users, jwtService, new(MockTokenStore))

			user, token, err := svc.Signup(context.Background(), "New", " New@X.com ", "secret123")

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			claims, err := jwtService.ValidateToken(token.Token)
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantRole), claims.Role)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "a1@x.com").Return(agentUser, nil)
	svc := NewAuthService(users, auth.NewJWTService(testSecret, time.Hour), new(MockTokenStore))

	_, _, err := svc.Signup(context.Background(), "A", "a1@x.com", "secret123")

	assert.ErrorIs(t, err, errors.ErrConflict)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	active := &model.User{ID: uuid.New(), Email: "a@x.com", Role: model.RoleManager, Status: model.UserStatusActive, PasswordHash: hashed(t, "pw123456")}
	inactive := &model.User{ID: uuid.New(), Email: "off@x.com", Role: model.RoleAgent, Status: model.UserStatusInactive, PasswordHash: hashed(t, "pw123456")}

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(users *MockUserRepository)
		wantErr  error
	}{
		{
			name:     "success",
			email:    "A@x.com",
			password: "pw123456",
			setup: func(users *MockUserRepository) {
				users.On("FindByEmail", mock.Anything, "a@x.com").Return(active, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "nope",
			setup: func(users *MockUserRepository) {
				users.On("FindByEmail", mock.Anything, "a@x.com").Return(active, nil)
			},
			wantErr: errors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "ghost@x.com",
			password: "pw123456",
			setup: func(users *MockUserRepository) {
				users.On("FindByEmail", mock.Anything, "ghost@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: errors.ErrInvalidCredentials,
		},
		{
			name:     "inactive",
			email:    "off@x.com",
			password: "pw123456",
			setup: func(users *MockUserRepository) {
				users.On("FindByEmail", mock.Anything, "off@x.com").Return(inactive, nil)
			},
			wantErr: errors.ErrAccountInactive,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setup(users)
			svc := NewAuthService(users, auth.NewJWTService(testSecret, time.Hour), new(MockTokenStore))

			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, active.ID, user.ID)
			assert.NotEmpty(t, token.Token)
		})
	}
}

func TestAuthService_LogoutRevokesForRemainingLifetime(t *testing.T) {
	store := new(MockTokenStore)
	svc := NewAuthService(new(MockUserRepository), auth.NewJWTService(testSecret, time.Hour), store).(*authService)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	store.On("Revoke", mock.Anything, "tok-1", 30*time.Minute).Return(nil)

	err := svc.Logout(context.Background(), &Identity{TokenID: "tok-1", ExpiresAt: now.Add(30 * time.Minute)})

	require.NoError(t, err)
	store.AssertExpectations(t)
}
