package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salimco/pos/internal/cart"
	"salimco/pos/internal/domain"
	"salimco/pos/internal/logger"
	"salimco/pos/internal/service"
	"salimco/pos/internal/session"
)

const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"
)

type page struct {
	ShopName string
	Actor    domain.Actor
	Flashes  []session.Flash
}

type posPage struct {
	page
	Catalog   domain.CatalogListing
	Lines     []domain.LineItem
	Total     decimal.Decimal
	ReceiptID string
}

func (a *API) newPage(sess *session.Session) page {
	actor, _ := sess.Actor()
	return page{ShopName: a.shopName, Actor: actor, Flashes: sess.PopFlashes()}
}

func (a *API) handleLoginPage(c *gin.Context) {
	sess := sessionFrom(c)
	if _, ok := sess.Actor(); ok {
		c.Redirect(http.StatusFound, "/pos")
		return
	}
	c.HTML(http.StatusOK, "login", a.newPage(sess))
}

func (a *API) handleLogin(c *gin.Context) {
	sess := sessionFrom(c)
	actor, err := a.service.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logger.FromGin(c, a.logger).Error("login failed", zap.Error(err))
		}
		sess.AddFlash(flashDanger, service.ErrInvalidCredentials.Error())
		c.HTML(http.StatusOK, "login", a.newPage(sess))
		return
	}

	sess.SignIn(actor)
	logger.FromGin(c, a.logger).Info("signed in", zap.String("username", actor.Username), zap.String("role", actor.Role))
	c.Redirect(http.StatusFound, "/pos")
}

func (a *API) handleLogout(c *gin.Context) {
	if err := a.sessions.Destroy(c.Request.Context(), c.Writer, sessionFrom(c)); err != nil {
		logger.FromGin(c, a.logger).Warn("session destroy failed", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

// cartFor returns the session's cart, starting one on first use.
func (a *API) cartFor(sess *session.Session) *cart.Cart {
	if sess.Data.Cart == nil {
		sess.Data.Cart = a.service.NewCart()
	}
	return sess.Data.Cart
}

func (a *API) handlePOS(c *gin.Context) {
	sess := sessionFrom(c)
	receipt := a.cartFor(sess)

	status := http.StatusOK
	listing, err := a.service.Catalog(c.Request.Context())
	if err != nil {
		// /pos is where other pages send their errors, so it renders its own
		a.flashError(c, sess, err)
		status = http.StatusInternalServerError
	}
	c.HTML(status, "pos", posPage{
		page:      a.newPage(sess),
		Catalog:   listing,
		Lines:     receipt.Items,
		Total:     receipt.Total(),
		ReceiptID: receipt.ReceiptID,
	})
}

func (a *API) handlePOSAction(c *gin.Context) {
	sess := sessionFrom(c)
	receipt := a.cartFor(sess)
	ctx := c.Request.Context()

	switch action := c.PostForm("action"); action {
	case "add_product", "add_oil", "add_wheel":
		category, _ := domain.ParseCategory(strings.TrimPrefix(action, "add_"))
		qty := 1
		if raw := strings.TrimSpace(c.PostForm("quantity")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				sess.AddFlash(flashDanger, "Invalid quantity")
				break
			}
			qty = parsed
		}
		line, err := a.service.AddCatalogItem(ctx, receipt, category, c.PostForm(string(category)+"_name"), qty)
		if err != nil {
			a.flashError(c, sess, err)
			break
		}
		sess.AddFlash(flashSuccess, addedMessage(line.Kind))

	case "add_service", "add_used_part":
		kind, textField, priceField, noun := domain.LineService, "service_name", "service_price", "service"
		if action == "add_used_part" {
			kind, textField, priceField, noun = domain.LineUsedPart, "part_name", "part_price", "part"
		}
		price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm(priceField)))
		if err != nil {
			sess.AddFlash(flashDanger, fmt.Sprintf("Invalid %s price", noun))
			break
		}
		line, err := a.service.AddAdHocCharge(receipt, kind, c.PostForm(textField), price)
		if err != nil {
			a.flashError(c, sess, err)
			break
		}
		sess.AddFlash(flashSuccess, addedMessage(line.Kind))

	case "finalize_cash", "finalize_credit", "finalize_medgulf":
		kind := domain.LedgerKind(strings.TrimPrefix(action, "finalize_"))
		receiptID, err := a.service.Finalize(ctx, receipt, kind, c.PostForm("customer_name"))
		if err != nil {
			a.flashError(c, sess, err)
			break
		}
		sess.AddFlash(flashSuccess, fmt.Sprintf("Saved Receipt #%s (%s)", receiptID, kind.DisplayName()))

	default:
		sess.AddFlash(flashDanger, "Unknown action")
	}

	c.Redirect(http.StatusFound, "/pos")
}

func (a *API) handleRemoveFromCart(c *gin.Context) {
	sess := sessionFrom(c)
	receipt := a.cartFor(sess)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		index = -1
	}
	removed, err := a.service.RemoveLine(receipt, index)
	if err != nil {
		sess.AddFlash(flashDanger, err.Error())
	} else {
		sess.AddFlash(flashInfo, fmt.Sprintf("Removed %s x%d", removed.Label(), removed.Quantity))
	}
	c.Redirect(http.StatusFound, "/pos")
}

func addedMessage(kind domain.LineKind) string {
	switch kind {
	case domain.LineOilChange:
		return "Added oil change to receipt"
	case domain.LineWheelChange:
		return "Added wheel change to receipt"
	case domain.LineService:
		return "Added service charge to receipt"
	case domain.LineUsedPart:
		return "Added used part to receipt"
	default:
		return "Added product to receipt"
	}
}

// flashError turns a service error into a flash message. Errors without a
// till-facing message are logged and replaced with a generic one.
func (a *API) flashError(c *gin.Context, sess *session.Session, err error) {
	var (
		stockErr *service.InsufficientStockError
		valErr   *service.ValidationError
	)
	switch {
	case errors.As(err, &stockErr), errors.As(err, &valErr):
		sess.AddFlash(flashWarning, err.Error())
	case service.IsUserFacing(err):
		sess.AddFlash(flashDanger, err.Error())
	default:
		logger.FromGin(c, a.logger).Error("request failed", zap.Error(err))
		sess.AddFlash(flashDanger, "Something went wrong, please try again")
	}
}
