package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"

	"salimco/pos/internal/domain"
)

type userRow struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:50;not null;uniqueIndex"`
	Password  string `gorm:"size:255;not null"`
	Role      string `gorm:"size:20;not null"`
	CreatedAt time.Time
}

func (userRow) TableName() string { return "users" }

// catalogRow holds the columns shared by the products, oils and wheels tables.
type catalogRow struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"size:100;not null;uniqueIndex"`
	BuyPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock     int             `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type productRow struct{ catalogRow }

type oilRow struct{ catalogRow }

type wheelRow struct{ catalogRow }

func (productRow) TableName() string { return "products" }
func (oilRow) TableName() string     { return "oils" }
func (wheelRow) TableName() string   { return "wheels" }

func catalogTable(category domain.Category) string {
	switch category {
	case domain.CategoryOil:
		return "oils"
	case domain.CategoryWheel:
		return "wheels"
	default:
		return "products"
	}
}

func (r catalogRow) toDomain() domain.CatalogItem {
	return domain.CatalogItem{
		Name:      r.Name,
		BuyPrice:  r.BuyPrice,
		SellPrice: r.SellPrice,
		Stock:     r.Stock,
	}
}

// ledgerRow holds the columns shared by the sales, credit_sales and
// medgulf_sales tables. Cash rows leave customer_name and month_year empty.
type ledgerRow struct {
	ID           uint            `gorm:"primaryKey"`
	CustomerName string          `gorm:"size:100"`
	ProductName  string          `gorm:"size:150;not null"`
	LineKind     string          `gorm:"size:20;not null"`
	Item         string          `gorm:"size:100;not null"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity     int             `gorm:"not null"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SaleDate     time.Time       `gorm:"not null"`
	SaleDay      string          `gorm:"size:10;not null;index"`
	ReceiptID    string          `gorm:"size:64;not null;index"`
	MonthYear    string          `gorm:"size:7;index"`
}

type saleRow struct{ ledgerRow }

type creditSaleRow struct{ ledgerRow }

type medgulfSaleRow struct{ ledgerRow }

func (saleRow) TableName() string        { return "sales" }
func (creditSaleRow) TableName() string  { return "credit_sales" }
func (medgulfSaleRow) TableName() string { return "medgulf_sales" }

func ledgerTable(kind domain.LedgerKind) string {
	switch kind {
	case domain.LedgerCredit:
		return "credit_sales"
	case domain.LedgerMedGulf:
		return "medgulf_sales"
	default:
		return "sales"
	}
}

func newLedgerRow(rec domain.LedgerRecord) ledgerRow {
	return ledgerRow{
		CustomerName: rec.CustomerName,
		ProductName:  rec.ProductName,
		LineKind:     string(rec.LineKind),
		Item:         rec.Item,
		Price:        rec.Price,
		Quantity:     rec.Quantity,
		Total:        rec.Total,
		SaleDate:     rec.SaleDate,
		SaleDay:      rec.SaleDate.Format(domain.DayLayout),
		ReceiptID:    rec.ReceiptID,
		MonthYear:    rec.BillingPeriod,
	}
}

func (r ledgerRow) toDomain(kind domain.LedgerKind) domain.LedgerRecord {
	return domain.LedgerRecord{
		ID:            r.ID,
		Kind:          kind,
		LineKind:      domain.LineKind(r.LineKind),
		Item:          r.Item,
		ProductName:   r.ProductName,
		Price:         r.Price,
		Quantity:      r.Quantity,
		Total:         r.Total,
		SaleDate:      r.SaleDate,
		ReceiptID:     r.ReceiptID,
		CustomerName:  r.CustomerName,
		BillingPeriod: r.MonthYear,
	}
}
