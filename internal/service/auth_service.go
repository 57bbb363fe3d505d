package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/univ-registry-api/internal/models"
	"github.com/noah-isme/univ-registry-api/pkg/config"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
)

const employeeIDAttempts = 25

type userRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
}

type profileImageStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

// AuthService handles registration, login, token validation and
// profile management.
type AuthService struct {
	repo      userRepository
	images    profileImageStore
	jwtConfig config.JWTConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	randInt   func(n int) int
}

// NewAuthService constructs the auth service.
func NewAuthService(repo userRepository, images profileImageStore, jwtConfig config.JWTConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		repo:      repo,
		images:    images,
		jwtConfig: jwtConfig,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		randInt:   rand.Intn,
	}
}

// Register creates a login account. System Administrators get an
// auto-generated employee ID; other positions do not carry one.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	emailTaken, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if emailTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}
	usernameTaken, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate username")
	}
	if usernameTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Position:     req.Position,
	}
	if req.Position == models.PositionAdmin {
		employeeID, err := s.generateEmployeeID(ctx)
		if err != nil {
			return nil, err
		}
		user.EmployeeID = employeeID
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}
	return user, nil
}

// Login authenticates by email or username and issues a JWT.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// Me returns the account behind the token claims.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	return user, nil
}

// UpdateProfile applies the profile form and recomputes the completion
// flag. A non-nil image stream replaces the stored profile image.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest, image io.Reader, imageName string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}

	user.Name = req.Name
	user.Phone = req.Phone
	user.Address = req.Address
	user.Birthdate = req.Birthdate
	user.Gender = req.Gender

	if image != nil && s.images != nil {
		filename := fmt.Sprintf("profiles/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(imageName)))
		stored, err := s.images.SaveStream(filename, image)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store profile image")
		}
		if user.ProfileImage != "" && user.ProfileImage != stored {
			if err := s.images.Delete(user.ProfileImage); err != nil {
				s.logger.Warn("failed to remove previous profile image", zap.String("file", user.ProfileImage), zap.Error(err))
			}
		}
		user.ProfileImage = stored
	}

	user.ProfileCompleted = profileCompleted(user)

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return user, nil
}

// issueToken signs a JWT for the user with the configured expiration.
func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := models.JWTClaims{
		UserID:   user.ID,
		Position: user.Position,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

// generateEmployeeID produces EMP-<year>-<seq> with a zero-padded
// three digit sequence, retrying on collision.
func (s *AuthService) generateEmployeeID(ctx context.Context) (string, error) {
	year := s.now().Year()
	for attempt := 0; attempt < employeeIDAttempts; attempt++ {
		candidate := fmt.Sprintf("EMP-%d-%03d", year, s.randInt(1000))
		taken, err := s.repo.ExistsByEmployeeID(ctx, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate employee id")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrInternal, "could not allocate a unique employee id")
}

// profileCompleted is true once every required profile field is filled.
func profileCompleted(user *models.User) bool {
	required := []string{user.Name, user.Phone, user.Address, user.Birthdate, user.Gender}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
