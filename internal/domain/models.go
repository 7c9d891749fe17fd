package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Category string

const (
	CategoryProduct Category = "product"
	CategoryOil     Category = "oil"
	CategoryWheel   Category = "wheel"
)

var Categories = []Category{CategoryProduct, CategoryOil, CategoryWheel}

func ParseCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryProduct, CategoryOil, CategoryWheel:
		return Category(raw), true
	default:
		return "", false
	}
}

// Title is the category name as shown to staff, e.g. "Oil".
func (c Category) Title() string {
	return cases.Title(language.English).String(string(c))
}

// LineKind returns the cart line kind that sells an item of this category.
func (c Category) LineKind() LineKind {
	switch c {
	case CategoryOil:
		return LineOilChange
	case CategoryWheel:
		return LineWheelChange
	default:
		return LineProduct
	}
}

type CatalogItem struct {
	Name      string          `json:"name"`
	BuyPrice  decimal.Decimal `json:"buy_price"`
	SellPrice decimal.Decimal `json:"sell_price"`
	Stock     int             `json:"stock"`
}

type CatalogItemInput struct {
	Name      string          `json:"name"`
	BuyPrice  decimal.Decimal `json:"buy_price"`
	SellPrice decimal.Decimal `json:"sell_price"`
	Stock     int             `json:"stock"`
}

type CatalogListing struct {
	Products []CatalogItem `json:"products"`
	Oils     []CatalogItem `json:"oils"`
	Wheels   []CatalogItem `json:"wheels"`
}

func (l *CatalogListing) Set(category Category, items []CatalogItem) {
	switch category {
	case CategoryOil:
		l.Oils = items
	case CategoryWheel:
		l.Wheels = items
	default:
		l.Products = items
	}
}

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

type Actor struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type UserAccount struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LineKind string

const (
	LineProduct     LineKind = "product"
	LineOilChange   LineKind = "oil_change"
	LineWheelChange LineKind = "wheel_change"
	LineService     LineKind = "service"
	LineUsedPart    LineKind = "used_part"
)

// Category reports the stock-bearing category of the line kind. Services and
// used parts have none.
func (k LineKind) Category() (Category, bool) {
	switch k {
	case LineProduct:
		return CategoryProduct, true
	case LineOilChange:
		return CategoryOil, true
	case LineWheelChange:
		return CategoryWheel, true
	default:
		return "", false
	}
}

func (k LineKind) IsAdHoc() bool {
	return k == LineService || k == LineUsedPart
}

func (k LineKind) Label(item string) string {
	switch k {
	case LineOilChange:
		return fmt.Sprintf("Oil Change (%s)", item)
	case LineWheelChange:
		return fmt.Sprintf("Wheel Change (%s)", item)
	case LineService:
		return "Service: " + item
	case LineUsedPart:
		return "Used Part: " + item
	default:
		return item
	}
}

type LineItem struct {
	Kind     LineKind        `json:"kind"`
	Item     string          `json:"item"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (l LineItem) Label() string {
	return l.Kind.Label(l.Item)
}

func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type LedgerKind string

const (
	LedgerCash    LedgerKind = "cash"
	LedgerCredit  LedgerKind = "credit"
	LedgerMedGulf LedgerKind = "medgulf"
)

var LedgerKinds = []LedgerKind{LedgerCash, LedgerCredit, LedgerMedGulf}

func (k LedgerKind) RequiresCustomer() bool {
	return k == LedgerCredit || k == LedgerMedGulf
}

func (k LedgerKind) DisplayName() string {
	switch k {
	case LedgerCredit:
		return "Credit"
	case LedgerMedGulf:
		return "MedGulf"
	default:
		return "Cash"
	}
}

const (
	DayLayout    = "2006-01-02"
	PeriodLayout = "2006-01"
)

type LedgerRecord struct {
	ID            uint            `json:"id"`
	Kind          LedgerKind      `json:"kind"`
	LineKind      LineKind        `json:"line_kind"`
	Item          string          `json:"item"`
	ProductName   string          `json:"product_name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Total         decimal.Decimal `json:"total"`
	SaleDate      time.Time       `json:"sale_date"`
	ReceiptID     string          `json:"receipt_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	BillingPeriod string          `json:"billing_period,omitempty"`
}

type LedgerOrder int

const (
	OrderBySaleDate LedgerOrder = iota
	OrderByCustomer
)

type LedgerFilter struct {
	Day           string
	BillingPeriod string
	LineKinds     []LineKind
	Order         LedgerOrder
}
