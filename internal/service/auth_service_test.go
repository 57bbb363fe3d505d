package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/univ-registry-api/internal/models"
	"github.com/noah-isme/univ-registry-api/pkg/config"
)

type mockUserRepo struct {
	users       map[string]models.User
	byEmployee  map[string]bool
	profileSets int
}

func (m *mockUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == identifier || u.Username == identifier {
			user := u
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	return m.byEmployee[employeeID], nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	m.profileSets++
	m.users[user.ID] = *user
	return nil
}

type mockImageStore struct {
	saved   []string
	deleted []string
}

func (m *mockImageStore) SaveStream(filename string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.saved = append(m.saved, filename)
	return filename, nil
}

func (m *mockImageStore) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "univ-registry"}
}

func newTestAuthService(repo *mockUserRepo, images profileImageStore) *AuthService {
	return NewAuthService(repo, images, testJWTConfig(), validator.New(), zap.NewNop())
}

func TestAuthRegisterAdminGetsEmployeeID(t *testing.T) {
	repo := &mockUserRepo{byEmployee: make(map[string]bool)}
	svc := newTestAuthService(repo, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	svc.randInt = func(n int) int { return 7 }

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Admin One",
		Email:    "admin@example.edu",
		Username: "admin1",
		Password: "secret1",
		Position: models.PositionAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP-2025-007", user.EmployeeID)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestAuthRegisterEmployeeIDRetriesOnCollision(t *testing.T) {
	repo := &mockUserRepo{byEmployee: map[string]bool{"EMP-2025-001": true}}
	svc := newTestAuthService(repo, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	seq := []int{1, 1, 42}
	svc.randInt = func(n int) int {
		next := seq[0]
		if len(seq) > 1 {
			seq = seq[1:]
		}
		return next
	}

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Admin Two",
		Email:    "admin2@example.edu",
		Username: "admin2",
		Password: "secret2",
		Position: models.PositionAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP-2025-042", user.EmployeeID)
}

func TestAuthRegisterStudentHasNoEmployeeID(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newTestAuthService(repo, nil)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Student One",
		Email:    "student@example.edu",
		Username: "student1",
		Password: "secret1",
		Position: models.PositionStudent,
	})
	require.NoError(t, err)
	assert.Empty(t, user.EmployeeID)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{users: map[string]models.User{
		"u1": {ID: "u1", Email: "taken@example.edu", Username: "taken"},
	}}
	svc := newTestAuthService(repo, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "X",
		Email:    "taken@example.edu",
		Username: "fresh",
		Password: "secret1",
		Position: models.PositionStudent,
	})
	require.Error(t, err)
}

func TestAuthLoginByEmailAndUsername(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo := &mockUserRepo{users: map[string]models.User{
		"u1": {ID: "u1", Email: "user@example.edu", Username: "user1", PasswordHash: string(hash), Position: models.PositionAdmin},
	}}
	svc := newTestAuthService(repo, nil)

	for _, identifier := range []string{"user@example.edu", "user1"} {
		resp, err := svc.Login(context.Background(), models.LoginRequest{Identifier: identifier, Password: "secret1"})
		require.NoError(t, err, "identifier %q", identifier)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "u1", resp.User.ID)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo := &mockUserRepo{users: map[string]models.User{
		"u1": {ID: "u1", Email: "user@example.edu", Username: "user1", PasswordHash: string(hash)},
	}}
	svc := newTestAuthService(repo, nil)

	_, err = svc.Login(context.Background(), models.LoginRequest{Identifier: "user1", Password: "wrong"})
	require.Error(t, err)
}

func TestAuthLoginUnknownIdentifier(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "ghost", Password: "whatever"})
	require.Error(t, err)
}

func TestAuthTokenRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo := &mockUserRepo{users: map[string]models.User{
		"u1": {ID: "u1", Email: "user@example.edu", Username: "user1", PasswordHash: string(hash), Position: models.PositionFaculty},
	}}
	svc := newTestAuthService(repo, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "user1", Password: "secret1"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.PositionFaculty, claims.Position)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, nil)

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestAuthUpdateProfileCompletionFlag(t *testing.T) {
	repo := &mockUserRepo{users: map[string]models.User{
		"u1": {ID: "u1", Name: "User", Email: "user@example.edu", Username: "user1"},
	}}
	svc := newTestAuthService(repo, nil)

	user, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{
		Name:  "User Name",
		Phone: "0917-000-0000",
	}, nil, "")
	require.NoError(t, err)
	assert.False(t, user.ProfileCompleted)

	user, err = svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{
		Name:      "User Name",
		Phone:     "0917-000-0000",
		Address:   "123 Campus Drive",
		Birthdate: "1990-01-01",
		Gender:    "F",
	}, nil, "")
	require.NoError(t, err)
	assert.True(t, user.ProfileCompleted)
}

func TestAuthUpdateProfileStoresImageAndDropsOld(t *testing.T) {
	repo := &mockUserRepo{users: map[string]models.User{
		"u1": {ID: "u1", Name: "User", ProfileImage: "profiles/old.png"},
	}}
	images := &mockImageStore{}
	svc := newTestAuthService(repo, images)

	user, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{
		Name: "User Name",
	}, bytes.NewBufferString("fake-image"), "avatar.PNG")
	require.NoError(t, err)

	require.Len(t, images.saved, 1)
	assert.True(t, strings.HasPrefix(images.saved[0], "profiles/"))
	assert.True(t, strings.HasSuffix(images.saved[0], ".png"))
	assert.Equal(t, []string{"profiles/old.png"}, images.deleted)
	assert.Equal(t, images.saved[0], user.ProfileImage)
}

func TestAuthMe(t *testing.T) {
	repo := &mockUserRepo{users: map[string]models.User{
		"u1": {ID: "u1", Name: "User"},
	}}
	svc := newTestAuthService(repo, nil)

	user, err := svc.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "User", user.Name)

	_, err = svc.Me(context.Background(), "missing")
	require.Error(t, err)
}
