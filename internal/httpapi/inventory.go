package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/report"
	"salimco/pos/internal/service"
)

type inventorySection struct {
	Title    string
	Category domain.Category
	Items    []domain.CatalogItem
}

type inventoryPage struct {
	page
	Query    string
	Sections []inventorySection
}

func (a *API) handleInventory(c *gin.Context) {
	sess := sessionFrom(c)
	query := strings.TrimSpace(c.Query("q"))

	listing, err := a.service.Inventory(c.Request.Context(), query)
	if err != nil {
		a.flashError(c, sess, err)
		c.Redirect(http.StatusFound, "/pos")
		return
	}
	c.HTML(http.StatusOK, "inventory", inventoryPage{
		page:  a.newPage(sess),
		Query: query,
		Sections: []inventorySection{
			{Title: "Products", Category: domain.CategoryProduct, Items: listing.Products},
			{Title: "Oils", Category: domain.CategoryOil, Items: listing.Oils},
			{Title: "Wheels", Category: domain.CategoryWheel, Items: listing.Wheels},
		},
	})
}

func (a *API) handleInventoryAction(c *gin.Context) {
	sess := sessionFrom(c)
	ctx := c.Request.Context()

	action := c.PostForm("action")
	verb, rawCategory, _ := strings.Cut(action, "_")
	category, ok := domain.ParseCategory(rawCategory)
	if !ok || (verb != "add" && verb != "update") {
		sess.AddFlash(flashDanger, "Unknown action")
		c.Redirect(http.StatusFound, "/inventory")
		return
	}

	input := domain.CatalogItemInput{
		Name:      strings.TrimSpace(c.PostForm(string(category) + "_name")),
		BuyPrice:  formDecimal(c.PostForm("buy_price")),
		SellPrice: formDecimal(c.PostForm("sell_price")),
		Stock:     formInt(c.PostForm("stock")),
	}

	var err error
	if verb == "add" {
		_, err = a.service.CreateCatalogItem(ctx, category, input)
	} else {
		_, err = a.service.UpdateCatalogItem(ctx, category, input)
	}
	switch {
	case err != nil:
		a.flashError(c, sess, err)
	case verb == "add":
		sess.AddFlash(flashSuccess, fmt.Sprintf("%s '%s' added", category.Title(), input.Name))
	default:
		sess.AddFlash(flashSuccess, fmt.Sprintf("%s '%s' updated", category.Title(), input.Name))
	}

	target := "/inventory"
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		target += "?q=" + url.QueryEscape(q)
	}
	c.Redirect(http.StatusFound, target)
}

func (a *API) handleReport(kind service.ReportKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)

		format, err := report.ParseFormat(c.Query("format"))
		if err != nil {
			sess.AddFlash(flashDanger, fmt.Sprintf("Error generating %s report: %v", kind.DisplayName(), err))
			c.Redirect(http.StatusFound, "/pos")
			return
		}
		period := c.Query("date")
		if kind != service.ReportDaily {
			period = c.Query("month")
		}

		out, err := a.service.GenerateReport(c.Request.Context(), kind, period, format)
		if err != nil {
			a.flashError(c, sess, err)
			c.Redirect(http.StatusFound, "/pos")
			return
		}
		c.Header("Content-Type", out.ContentType)
		c.FileAttachment(out.Path, out.FileName)
	}
}

// formDecimal reads a money field, treating anything unparsable as zero.
func formDecimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func formInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
