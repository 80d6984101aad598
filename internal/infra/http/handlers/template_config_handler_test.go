package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/usecase"
)

type MockTemplateConfigRepository struct {
	mock.Mock
}

func (m *MockTemplateConfigRepository) Create(ctx context.Context, t *entity.TemplateConfig) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateConfigRepository) Update(ctx context.Context, t *entity.TemplateConfig) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateConfigRepository) FindByID(ctx context.Context, id int64) (*entity.TemplateConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TemplateConfig), args.Error(1)
}

func (m *MockTemplateConfigRepository) FindDefault(ctx context.Context) (*entity.TemplateConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TemplateConfig), args.Error(1)
}

func (m *MockTemplateConfigRepository) ListActive(ctx context.Context) ([]*entity.TemplateConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TemplateConfig), args.Error(1)
}

func (m *MockTemplateConfigRepository) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newTemplateRouter(repo *MockTemplateConfigRepository) http.Handler {
	h := NewTemplateConfigHandler(usecase.NewTemplateConfigUseCase(repo))
	r := chi.NewRouter()
	r.Get("/api/template-configs/{id}", h.Get)
	r.Get("/api/send-template/configs", h.Configs)
	return r
}

func TestTemplateConfigHandler_GetRedactsCredentials(t *testing.T) {
	repo := new(MockTemplateConfigRepository)
	repo.On("FindByID", mock.Anything, int64(5)).Return(&entity.TemplateConfig{
		ID: 5, ConfigName: "Diwali", TemplateName: "diwali_offer", AccessToken: "secret-token", VerifyToken: "vt", IsActive: true,
	}, nil)
	rec := httptest.NewRecorder()

	newTemplateRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/template-configs/5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "diwali_offer")
	assert.NotContains(t, rec.Body.String(), "secret-token")
	assert.NotContains(t, rec.Body.String(), `"verify_token"`)
}

func TestTemplateConfigHandler_GetInvalidAndMissing(t *testing.T) {
	repo := new(MockTemplateConfigRepository)
	repo.On("FindByID", mock.Anything, int64(9)).Return(nil, entity.ErrTemplateConfigNotFound)
	router := newTemplateRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/template-configs/0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/template-configs/9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTemplateConfigHandler_Configs(t *testing.T) {
	repo := new(MockTemplateConfigRepository)
	repo.On("ListActive", mock.Anything).Return([]*entity.TemplateConfig{
		{ID: 1, ConfigName: "Default", TemplateName: "profile_update", AccessToken: "secret-token", IsDefault: true},
	}, nil)
	rec := httptest.NewRecorder()

	newTemplateRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/send-template/configs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"config_name":"Default","template_name":"profile_update","is_default":true}]`, rec.Body.String())
}

func TestDomainStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, domainStatus("VALIDATION_ERROR"))
	assert.Equal(t, http.StatusNotFound, domainStatus("NO_DEFAULT_TEMPLATE"))
	assert.Equal(t, http.StatusConflict, domainStatus("CUSTOMER_EXISTS"))
	assert.Equal(t, http.StatusUnprocessableEntity, domainStatus("TEMPLATE_INACTIVE"))
}
