package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/companies"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/orders"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/users"
	shopifywebhook "github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/webhooks/shopify"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/wishlist"
	pkgAuth "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/auth"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/config"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/pagination"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/shopify"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "b2b-portal", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test"})
	shopifyClient, err := shopify.NewClient(context.Background(), config.ShopifyConfig{
		ShopDomain:    "acme.myshopify.com",
		AccessToken:   "shpat_test",
		WebhookSecret: "shpss_test",
	}, logg)
	if err != nil {
		t.Fatalf("shopify client: %v", err)
	}

	webhookSvc, err := shopifywebhook.NewService(stubOrdersService{}, nil)
	if err != nil {
		t.Fatalf("webhook service: %v", err)
	}
	guard, err := shopifywebhook.NewIdempotencyGuard(newMemoryStore(), time.Minute, "shopify-webhook")
	if err != nil {
		t.Fatalf("webhook guard: %v", err)
	}

	return NewRouter(
		cfg,
		nil,
		stubPinger{},
		nil,
		nil,
		nil,
		nil,
		stubCompaniesService{},
		stubOrdersService{},
		stubWishlistService{},
		shopifyClient,
		webhookSvc,
		guard,
	)
}

func buildToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := pkgAuth.SignAccessToken(cfg.JWT, uuid.New(), "acme.myshopify.com", role)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestPortalGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/mine", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPortalGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/mine", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgAuth.RoleMember))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/companies", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgAuth.RoleMember))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/companies", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgAuth.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestWebhookRouteRejectsUnsignedDelivery(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/shopify", strings.NewReader(`{"id":1}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unsigned webhook got %d", resp.Code)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCompaniesService struct{}

func (stubCompaniesService) Register(ctx context.Context, input companies.RegisterInput) (*companies.CompanyDTO, error) {
	return &companies.CompanyDTO{}, nil
}

func (stubCompaniesService) GetByID(ctx context.Context, id uuid.UUID) (*companies.CompanyDTO, error) {
	return &companies.CompanyDTO{ID: id}, nil
}

func (stubCompaniesService) List(ctx context.Context, shopID string, status *enums.CompanyStatus) ([]companies.CompanyDTO, error) {
	return nil, nil
}

func (stubCompaniesService) Approve(ctx context.Context, id uuid.UUID) (*companies.CompanyDTO, error) {
	return &companies.CompanyDTO{ID: id}, nil
}

func (stubCompaniesService) Reject(ctx context.Context, id uuid.UUID) (*companies.CompanyDTO, error) {
	return &companies.CompanyDTO{ID: id}, nil
}

func (stubCompaniesService) SetCreditLimit(ctx context.Context, id uuid.UUID, limit decimal.Decimal) (*companies.CompanyDTO, error) {
	return &companies.CompanyDTO{ID: id, CreditLimit: limit}, nil
}

func (stubCompaniesService) AssignUser(ctx context.Context, companyID uuid.UUID, input companies.AssignUserInput) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) CreateDraftOrder(ctx context.Context, shopID string, input orders.CreateDraftOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) GetByID(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func (stubOrdersService) ListByCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]orders.OrderDTO, *pagination.Page, error) {
	return nil, nil, nil
}

func (stubOrdersService) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]orders.OrderDTO, *pagination.Page, error) {
	return nil, nil, nil
}

func (stubOrdersService) HandleOrderCreated(ctx context.Context, event orders.OrderEvent) error {
	return nil
}

func (stubOrdersService) HandleOrderPaid(ctx context.Context, event orders.OrderEvent) error {
	return nil
}

func (stubOrdersService) HandleOrderEdited(ctx context.Context, event orders.OrderEvent) error {
	return nil
}

func (stubOrdersService) HandleDraftOrderUpsert(ctx context.Context, event orders.DraftOrderEvent) error {
	return nil
}

func (stubOrdersService) HandleDraftOrderDeleted(ctx context.Context, event orders.DraftOrderEvent) error {
	return nil
}

type stubWishlistService struct{}

func (stubWishlistService) GetWishlist(ctx context.Context, shopID, customerID string) ([]wishlist.ItemDTO, error) {
	return nil, nil
}

func (stubWishlistService) AddItem(ctx context.Context, shopID string, input wishlist.AddItemInput) error {
	return nil
}

func (stubWishlistService) RemoveItem(ctx context.Context, shopID, customerID, variantID string) error {
	return nil
}

type memoryStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: map[string]struct{}{}}
}

func (s *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *memoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func (s *memoryStore) IdempotencyKey(scope, id string) string {
	return strings.Join([]string{"test", scope, id}, ":")
}
