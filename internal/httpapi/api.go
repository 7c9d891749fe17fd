package httpapi

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/logger"
	"salimco/pos/internal/metrics"
	"salimco/pos/internal/service"
	"salimco/pos/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionKey = "session"

type Options struct {
	ShopName      string
	AllowedOrigin string
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

type API struct {
	service       *service.Service
	sessions      *session.Manager
	metrics       *metrics.Metrics
	logger        *zap.Logger
	shopName      string
	allowedOrigin string
}

func New(svc *service.Service, sessions *session.Manager, opts Options) *API {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ShopName == "" {
		opts.ShopName = "Salimco Motorcycle Shop"
	}
	return &API{
		service:       svc,
		sessions:      sessions,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		shopName:      opts.ShopName,
		allowedOrigin: opts.AllowedOrigin,
	}
}

func (a *API) Handler() http.Handler {
	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))

	router.Use(logger.Recovery(a.logger), logger.GinMiddleware(a.logger), a.metrics.GinMiddleware(), securityHeaders)
	if a.allowedOrigin != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{a.allowedOrigin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Content-Type", logger.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", logger.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", a.handleHealth)
	if a.metrics != nil {
		router.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	}

	pages := router.Group("/", a.withSession)
	pages.GET("/", a.handleLoginPage)
	pages.POST("/", a.handleLogin)
	pages.GET("/logout", a.handleLogout)

	staff := pages.Group("/", a.requireLogin)
	staff.GET("/pos", a.handlePOS)
	staff.POST("/pos", a.handlePOSAction)
	staff.POST("/remove_from_cart/:index", a.handleRemoveFromCart)

	admin := staff.Group("/", a.requireAdmin)
	admin.GET("/inventory", a.handleInventory)
	admin.POST("/inventory", a.handleInventoryAction)
	admin.GET("/report/daily", a.handleReport(service.ReportDaily))
	admin.GET("/report/debts", a.handleReport(service.ReportDebts))
	admin.GET("/report/medgulf", a.handleReport(service.ReportMedGulf))

	return router
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"field": func(name string, items []domain.CatalogItem) catalogField {
		return catalogField{Field: name, Items: items}
	},
}

type catalogField struct {
	Field string
	Items []domain.CatalogItem
}

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Next()
}

// withSession loads the session before the handler runs and stores it after.
func (a *API) withSession(c *gin.Context) {
	ctx := c.Request.Context()
	sess, err := a.sessions.Load(ctx, c.Writer, c.Request)
	if err != nil {
		logger.FromGin(c, a.logger).Error("session load failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Set(sessionKey, sess)
	if actor, ok := sess.Actor(); ok {
		c.Request = c.Request.WithContext(service.WithActor(ctx, actor))
	}

	c.Next()

	if err := a.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.FromGin(c, a.logger).Error("session save failed", zap.Error(err))
	}
}

func (a *API) requireLogin(c *gin.Context) {
	if _, ok := sessionFrom(c).Actor(); !ok {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	c.Next()
}

func (a *API) requireAdmin(c *gin.Context) {
	sess := sessionFrom(c)
	if actor, _ := sess.Actor(); !actor.IsAdmin() {
		sess.AddFlash(flashDanger, "Access denied")
		c.Redirect(http.StatusFound, "/pos")
		c.Abort()
		return
	}
	c.Next()
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func sessionFrom(c *gin.Context) *session.Session {
	if value, ok := c.Get(sessionKey); ok {
		if sess, ok := value.(*session.Session); ok {
			return sess
		}
	}
	return &session.Session{}
}
