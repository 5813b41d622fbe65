package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lostfound/internal/auth"
	apperrors "lostfound/internal/errors"
	"lostfound/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ListExcept(ctx context.Context, id uint) ([]model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedEmail string
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedEmail: "test@example.com",
		},
		{
			name:     "email is normalized",
			email:    "  Test@Example.COM ",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedEmail: "test@example.com",
		},
		{
			name:     "user already exists",
			email:    "Existing@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:     "concurrent registration hits unique index",
			email:    "race@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:          "missing email",
			email:         "   ",
			password:      "password123",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrEmailRequired,
		},
		{
			name:          "missing password",
			email:         "test@example.com",
			password:      "",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrPasswordRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			mockTokenStore := new(MockTokenStore)

			service := NewAuthService(mockRepo, jwtService, mockTokenStore)
			user, err := service.Register(context.Background(), tt.email, "555-0100", tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.expectedEmail, user.Email)
				assert.Equal(t, "555-0100", user.Phone)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	stored := &model.User{ID: 7, Email: "test@example.com", PasswordHash: string(hashedPassword)}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "Test@Example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), uint(7), "test@example.com", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore)

			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)

				claims, err := jwtService.ValidateToken(accessToken)
				assert.NoError(t, err)
				assert.Equal(t, uint(7), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "test@example.com")
	assert.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(7), "test@example.com", nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", assert.AnError)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.Equal(t, apperrors.ErrInvalidRefreshToken, err)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(7, "test@example.com")
		assert.NoError(t, err)

		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err = service.RefreshToken(context.Background(), accessToken)
		assert.Equal(t, apperrors.ErrInvalidRefreshToken, err)
	})

		t.Run("malformed refresh token", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := service.RefreshToken(context.Background(), "not-a-jwt")
		assert.Equal(t, apperrors.ErrInvalidRefreshToken, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	refreshID, refreshToken, _ := jwtService.GenerateRefreshToken(7, "test@example.com")
	accessToken, _ := jwtService.GenerateAccessToken(7, "test@example.com")
	accessClaims, _ := jwtService.ValidateToken(accessToken)
	_, otherRefresh, _ := jwtService.GenerateRefreshToken(8, "other@example.com")
	ctx := auth.WithUserID(context.Background(), 7)

	t.Run("revokes own session", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)
		mockTokenStore.On("BlacklistAccessToken", mock.Anything, accessClaims.ID, mock.AnythingOfType("time.Duration")).Return(nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		assert.NoError(t, service.Logout(ctx, accessToken, refreshToken))
		mockTokenStore.AssertExpectations(t)
	})

	tests := []struct {
		name         string
		ctx          context.Context
		refreshToken string
		wantErr      error
	}{
		{name: "malformed refresh token", ctx: ctx, refreshToken: "garbage", wantErr: apperrors.ErrInvalidRefreshToken},
		{name: "access token as refresh token", ctx: ctx, refreshToken: accessToken, wantErr: apperrors.ErrInvalidRefreshToken},
		{name: "another user's refresh token", ctx: ctx, refreshToken: otherRefresh, wantErr: apperrors.ErrInvalidRefreshToken},
		{name: "unauthenticated", ctx: context.Background(), refreshToken: refreshToken, wantErr: apperrors.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokenStore := new(MockTokenStore)
			service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)

			err := service.Logout(tt.ctx, accessToken, tt.refreshToken)
			assert.Equal(t, tt.wantErr, err)
			mockTokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
		})
	}
}
