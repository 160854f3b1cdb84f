package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/thiamyoussouph/sasstock-sub000/internal/config"
	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"
	"github.com/thiamyoussouph/sasstock-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) ListByCompany(_ context.Context, companyID uuid.UUID, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.CompanyID == nil || *u.CompanyID != companyID {
			continue
		}
		if !u.Active && !includeInactive {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) CountByCompany(_ context.Context, companyID uuid.UUID) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.CompanyID != nil && *u.CompanyID == companyID && u.Active {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seedUser(repo *stubUserRepo, companyID uuid.UUID, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		CompanyID:    &companyID,
		Username:     username,
		FullName:     "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	repo.users[u.ID] = u
	return u
}

func TestLogin_OK(t *testing.T) {
	companyID := uuid.New()
	userRepo := newStubUserRepo()
	svc := service.NewAuthService(userRepo, newStubCompanyRepo(companyID), testConfig())
	seedUser(userRepo, companyID, "caissier1", "motdepasse", model.RoleCaissier)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "caissier1",
		Password: "motdepasse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleCaissier, resp.User.Role)
}

func TestLogin_MauvaisMotDePasse(t *testing.T) {
	companyID := uuid.New()
	userRepo := newStubUserRepo()
	svc := service.NewAuthService(userRepo, newStubCompanyRepo(companyID), testConfig())
	seedUser(userRepo, companyID, "caissier1", "motdepasse", model.RoleCaissier)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "caissier1",
		Password: "mauvais",
	})
	assert.ErrorContains(t, err, "identifiants invalides")
}

func TestLogin_CompteDesactive(t *testing.T) {
	companyID := uuid.New()
	userRepo := newStubUserRepo()
	svc := service.NewAuthService(userRepo, newStubCompanyRepo(companyID), testConfig())
	u := seedUser(userRepo, companyID, "parti", "motdepasse", model.RoleCaissier)
	u.Active = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "parti",
		Password: "motdepasse",
	})
	assert.ErrorContains(t, err, "identifiants invalides")
}

func TestRefresh_RenouvelleLesJetons(t *testing.T) {
	companyID := uuid.New()
	userRepo := newStubUserRepo()
	svc := service.NewAuthService(userRepo, newStubCompanyRepo(companyID), testConfig())
	seedUser(userRepo, companyID, "gest1", "motdepasse", model.RoleGestionnaire)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "gest1",
		Password: "motdepasse",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefresh_JetonInvalide(t *testing.T) {
	companyID := uuid.New()
	svc := service.NewAuthService(newStubUserRepo(), newStubCompanyRepo(companyID), testConfig())

	_, err := svc.Refresh(context.Background(), "pas-un-jeton")
	assert.ErrorContains(t, err, "refresh token invalide")
}

func TestCreateUser_QuotaDuPlan(t *testing.T) {
	companyID := uuid.New()
	userRepo := newStubUserRepo()
	companyRepo := newStubCompanyRepo(companyID).withPlan(2, 100)
	svc := service.NewAuthService(userRepo, companyRepo, testConfig())

	req := dto.CreateUserRequest{
		Username: "u1",
		Name:     "Utilisateur Un",
		Password: "motdepasse",
		Role:     model.RoleCaissier,
	}
	_, err := svc.CreateUser(context.Background(), companyID, req)
	require.NoError(t, err)

	req.Username = "u2"
	_, err = svc.CreateUser(context.Background(), companyID, req)
	require.NoError(t, err)

	// Third user exceeds MaxUsers=2
	req.Username = "u3"
	_, err = svc.CreateUser(context.Background(), companyID, req)
	assert.ErrorContains(t, err, "limite d'utilisateurs atteinte")
}

func TestDeactivateUser_AutreEntreprise(t *testing.T) {
	companyID := uuid.New()
	userRepo := newStubUserRepo()
	svc := service.NewAuthService(userRepo, newStubCompanyRepo(companyID), testConfig())
	u := seedUser(userRepo, companyID, "u1", "motdepasse", model.RoleCaissier)

	// A different tenant cannot touch this user
	err := svc.DeactivateUser(context.Background(), uuid.New(), u.ID)
	assert.ErrorContains(t, err, "utilisateur introuvable")
	assert.True(t, userRepo.users[u.ID].Active)
}
