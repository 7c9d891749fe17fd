package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	gormlogger "gorm.io/gorm/logger"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/metrics"
	"salimco/pos/internal/service"
	"salimco/pos/internal/session"
	"salimco/pos/internal/store/sqlstore"
)

const testSecret = "test-secret-test-secret-test-secret"

type harness struct {
	handler http.Handler
	svc     *service.Service
	repo    *sqlstore.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := sqlstore.Open(context.Background(), sqlstore.Config{Driver: "sqlite", DSN: ":memory:", Logger: gormlogger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	log := zaptest.NewLogger(t)
	m := metrics.New()
	svc := service.New(repo, service.Options{ReportsDir: t.TempDir(), Metrics: m, Logger: log})
	require.NoError(t, svc.EnsureDefaultUsers(context.Background(), "admin123", "1234"))

	sessions := session.NewManager(session.NewMemoryStore(), testSecret, time.Hour, false)
	api := New(svc, sessions, Options{ShopName: "Salimco Motorcycle Shop", Metrics: m, Logger: log})
	return &harness{handler: api.Handler(), svc: svc, repo: repo}
}

func (h *harness) seed(t *testing.T, category domain.Category, name string, sell string, stock int) {
	t.Helper()
	ctx := service.WithActor(context.Background(), domain.Actor{Username: "admin", Role: domain.RoleAdmin})
	_, err := h.svc.CreateCatalogItem(ctx, category, domain.CatalogItemInput{
		Name:      name,
		SellPrice: decimal.RequireFromString(sell),
		Stock:     stock,
	})
	require.NoError(t, err)
}

// browser replays cookies between requests the way a real client would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (h *harness) browser(t *testing.T) *browser {
	return &browser{t: t, handler: h.handler, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method string, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return rec
}

func (b *browser) login(username string, password string) {
	b.t.Helper()
	rec := b.do(http.MethodPost, "/", url.Values{"username": {username}, "password": {password}})
	require.Equal(b.t, http.StatusFound, rec.Code)
	require.Equal(b.t, "/pos", rec.Header().Get("Location"))
}

func (b *browser) page(path string) string {
	b.t.Helper()
	rec := b.do(http.MethodGet, path, nil)
	require.Equal(b.t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.browser(t).do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginFlow(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	rec := b.do(http.MethodGet, "/pos", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = b.do(http.MethodPost, "/", url.Values{"username": {"admin"}, "password": {"nope"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")

	b.login("Cashier", "1234")
	body := b.page("/pos")
	assert.Contains(t, body, "Salimco Motorcycle Shop")
	assert.Contains(t, body, "Receipt RCPT-")
	assert.NotContains(t, body, `href="/inventory"`)

	rec = b.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/pos", rec.Header().Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	b.login("admin", "admin123")

	rec := b.do(http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = b.do(http.MethodGet, "/pos", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCashierIsDeniedInventoryAndReports(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	b.login("cashier", "1234")

	for _, path := range []string{"/inventory", "/report/daily"} {
		rec := b.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/pos", rec.Header().Get("Location"), path)
		assert.Contains(t, b.page("/pos"), "Access denied", path)
	}
}

func TestSellOilChangeForCash(t *testing.T) {
	h := newHarness(t)
	h.seed(t, domain.CategoryOil, "5W-30", "15.00", 10)
	b := h.browser(t)
	b.login("cashier", "1234")

	rec := b.do(http.MethodPost, "/pos", url.Values{"action": {"add_oil"}, "oil_name": {"5W-30"}, "quantity": {"3"}})
	require.Equal(t, http.StatusFound, rec.Code)
	body := b.page("/pos")
	assert.Contains(t, body, "Added oil change to receipt")
	assert.Contains(t, body, "Oil Change (5W-30)")
	assert.Contains(t, body, "45.00")

	b.do(http.MethodPost, "/pos", url.Values{"action": {"add_oil"}, "oil_name": {"5W-30"}, "quantity": {"8"}})
	assert.Contains(t, b.page("/pos"), "Only 7 oil in stock")

	b.do(http.MethodPost, "/pos", url.Values{"action": {"finalize_cash"}})
	body = b.page("/pos")
	assert.Contains(t, body, "Saved Receipt #RCPT-")
	assert.Contains(t, body, "(Cash)")
	assert.Contains(t, body, "Receipt is empty.")

	stock, err := h.repo.GetStock(context.Background(), domain.CategoryOil, "5W-30")
	require.NoError(t, err)
	assert.Equal(t, 7, stock)
}

func TestAdHocChargesAndRemoval(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	b.login("cashier", "1234")

	b.do(http.MethodPost, "/pos", url.Values{"action": {"add_service"}, "service_name": {"Valve adjust"}, "service_price": {"abc"}})
	assert.Contains(t, b.page("/pos"), "Invalid service price")

	b.do(http.MethodPost, "/pos", url.Values{"action": {"add_used_part"}, "part_name": {"Mirror"}, "part_price": {"0"}})
	assert.Contains(t, b.page("/pos"), "Part price must be positive")

	b.do(http.MethodPost, "/pos", url.Values{"action": {"add_service"}, "service_name": {"Valve adjust"}, "service_price": {"25"}})
	body := b.page("/pos")
	assert.Contains(t, body, "Added service charge to receipt")
	assert.Contains(t, body, "Service: Valve adjust")

	b.do(http.MethodPost, "/remove_from_cart/5", nil)
	assert.Contains(t, b.page("/pos"), "Invalid item index")

	b.do(http.MethodPost, "/remove_from_cart/0", nil)
	assert.Contains(t, b.page("/pos"), "Removed Service: Valve adjust x1")
}

func TestFinalizeCreditNeedsCustomer(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	b.login("cashier", "1234")

	b.do(http.MethodPost, "/pos", url.Values{"action": {"finalize_credit"}})
	assert.Contains(t, b.page("/pos"), "Receipt empty")

	b.do(http.MethodPost, "/pos", url.Values{"action": {"add_used_part"}, "part_name": {"Bolt"}, "part_price": {"3"}})
	b.do(http.MethodPost, "/pos", url.Values{"action": {"finalize_credit"}, "customer_name": {""}})
	assert.Contains(t, b.page("/pos"), "Customer name required for credit")

	b.do(http.MethodPost, "/pos", url.Values{"action": {"finalize_medgulf"}, "customer_name": {"Omar"}})
	assert.Contains(t, b.page("/pos"), "(MedGulf)")
}

func TestInventoryAddUpdateAndSearch(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	b.login("admin", "admin123")

	form := url.Values{"action": {"add_product"}, "product_name": {"Helmet"}, "buy_price": {"50"}, "sell_price": {"80"}, "stock": {"2"}}
	rec := b.do(http.MethodPost, "/inventory", form)
	assert.Equal(t, "/inventory", rec.Header().Get("Location"))
	body := b.page("/inventory")
	assert.Contains(t, body, "Product &#39;Helmet&#39; added")
	assert.Contains(t, body, "50.00")

	b.do(http.MethodPost, "/inventory", form)
	assert.Contains(t, b.page("/inventory"), "already exists")

	b.do(http.MethodPost, "/inventory", url.Values{"action": {"update_product"}, "product_name": {"Helmet"}, "buy_price": {"50"}, "sell_price": {"85"}, "stock": {"9"}})
	assert.Contains(t, b.page("/inventory"), "Product &#39;Helmet&#39; updated")

	item, err := h.repo.GetCatalogItem(context.Background(), domain.CategoryProduct, "Helmet")
	require.NoError(t, err)
	assert.Equal(t, 9, item.Stock)

	h.seed(t, domain.CategoryWheel, "17 inch", "120", 1)
	body = b.page("/inventory?q=helm")
	assert.Contains(t, body, "Helmet")
	assert.NotContains(t, body, "17 inch")
}

func TestReportDownload(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	b.login("admin", "admin123")

	rec := b.do(http.MethodGet, "/report/medgulf?month=2024-05", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "MedGulf_Report_2024-05.docx")
	assert.Equal(t, "PK", rec.Body.String()[:2])

	rec = b.do(http.MethodGet, "/report/daily?date=yesterday", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, b.page("/pos"), "Invalid report period")

	rec = b.do(http.MethodGet, "/report/debts?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
}

func TestStoreFailureBecomesFlash(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	b.login("admin", "admin123")
	require.NoError(t, h.repo.Close())

	rec := b.do(http.MethodGet, "/inventory", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/pos", rec.Header().Get("Location"))

	rec = b.do(http.MethodGet, "/pos", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong, please try again")
	assert.Contains(t, rec.Body.String(), "Salimco Motorcycle Shop")
}
