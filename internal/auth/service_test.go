package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/internal/users"
	pkgAuth "github.com/lumine-jewelry/lumine-backend/pkg/auth"
	"github.com/lumine-jewelry/lumine-backend/pkg/config"
	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
)

type stubUserRepo struct {
	byID map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[uuid.UUID]*models.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	for _, u := range r.byID {
		if u.Username == dto.Username || u.Email == dto.Email {
			return nil, errors.New(`duplicate key value violates unique constraint "users_email_key"`)
		}
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	r.byID[user.ID] = user
	return user, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, updates map[string]any) error {
	u, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["first_name"].(string); ok {
		u.FirstName = &v
	}
	if v, ok := updates["phone"].(string); ok {
		u.Phone = &v
	}
	if v, ok := updates["gender"].(enums.Gender); ok {
		u.Gender = &v
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "lumine-test",
		ExpirationMinutes: 30,
	}
}

func testPasswordConfig() config.PasswordConfig {
	// small params keep hashing fast in tests
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (Service, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func register(t *testing.T, svc Service, username, email, password string) *RegisterResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	resp := register(t, svc, "maria", "Maria@Example.com", "s3cret-password")
	if resp.User.Email != "maria@example.com" {
		t.Fatalf("email must be normalized, got %q", resp.User.Email)
	}
	if resp.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %q", resp.User.Role)
	}

	stored := repo.byID[resp.User.ID]
	if stored.PasswordHash == "s3cret-password" || stored.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	// login by username
	login, err := svc.Login(ctx, LoginRequest{Identifier: "maria", Password: "s3cret-password"})
	if err != nil {
		t.Fatalf("login by username: %v", err)
	}
	if login.TokenType != "Bearer" || login.AccessToken == "" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// login by email
	if _, err := svc.Login(ctx, LoginRequest{Identifier: "maria@example.com", Password: "s3cret-password"}); err != nil {
		t.Fatalf("login by email: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	register(t, svc, "maria", "maria@example.com", "s3cret-password")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "maria",
		Email:    "other@example.com",
		Password: "s3cret-password",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterInvalidGender(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	bad := "unknown"
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "s3cret-password",
		Gender:   &bad,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, "maria", "maria@example.com", "s3cret-password")

	cases := []LoginRequest{
		{Identifier: "maria", Password: "wrong-password"},
		{Identifier: "nobody", Password: "s3cret-password"},
		{Identifier: "", Password: "s3cret-password"},
		{Identifier: "maria", Password: ""},
	}
	for _, req := range cases {
		_, err := svc.Login(ctx, req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("identifier %q: expected unauthorized, got %v", req.Identifier, err)
		}
		if typed := pkgerrors.As(err); typed != nil && typed.Message() != invalidCredentialsMessage {
			t.Fatalf("credential errors must not leak which field failed: %q", typed.Message())
		}
	}
}

func TestMeAndUpdateProfile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	resp := register(t, svc, "maria", "maria@example.com", "s3cret-password")

	me, err := svc.Me(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Username != "maria" {
		t.Fatalf("unexpected profile: %+v", me)
	}

	first := "Maria"
	gender := "female"
	updated, err := svc.UpdateProfile(ctx, resp.User.ID, UpdateProfileRequest{
		FirstName: &first,
		Gender:    &gender,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FirstName == nil || *updated.FirstName != "Maria" {
		t.Fatalf("first name not applied: %+v", updated)
	}
	if updated.Gender == nil || *updated.Gender != enums.GenderFemale {
		t.Fatalf("gender not applied: %+v", updated)
	}

	if _, err := svc.Me(ctx, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown account, got %v", err)
	}
}
