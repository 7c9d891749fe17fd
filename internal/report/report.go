package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"salimco/pos/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// LedgerTable is one titled block of ledger rows with its subtotal. Empty is
// printed instead of the table when there are no rows.
type LedgerTable struct {
	Heading       string
	SubtotalLabel string
	Empty         string
	WithCustomer  bool
	Records       []domain.LedgerRecord
	Subtotal      decimal.Decimal
}

func newLedgerTable(heading string, subtotalLabel string, empty string, withCustomer bool, records []domain.LedgerRecord) LedgerTable {
	subtotal := decimal.Zero
	for _, rec := range records {
		subtotal = subtotal.Add(rec.Total)
	}
	return LedgerTable{
		Heading:       heading,
		SubtotalLabel: subtotalLabel,
		Empty:         empty,
		WithCustomer:  withCustomer,
		Records:       records,
		Subtotal:      subtotal,
	}
}

type Daily struct {
	Title     string
	Day       string
	Cash      LedgerTable
	Debt      LedgerTable
	MedGulf   LedgerTable
	Services  LedgerTable
	UsedParts LedgerTable
}

type CustomerTotal struct {
	Customer string
	Total    decimal.Decimal
}

type Debts struct {
	Title      string
	Month      string
	Summary    []CustomerTotal
	GrandTotal decimal.Decimal
	Details    LedgerTable
}

type Insurer struct {
	Title   string
	Month   string
	Details LedgerTable
}

type Builder struct {
	ShopName  string
	ShortName string
}

func NewBuilder(shopName string) Builder {
	shopName = strings.TrimSpace(shopName)
	if shopName == "" {
		shopName = "Salimco Motorcycle Shop"
	}
	return Builder{ShopName: shopName, ShortName: strings.Fields(shopName)[0]}
}

func (b Builder) Daily(day string, cash, credit, medgulf []domain.LedgerRecord) Daily {
	var services, usedParts []domain.LedgerRecord
	for _, rec := range cash {
		switch rec.LineKind {
		case domain.LineService:
			services = append(services, rec)
		case domain.LineUsedPart:
			usedParts = append(usedParts, rec)
		}
	}
	sortByLabel(services)
	sortByLabel(usedParts)

	return Daily{
		Title:     fmt.Sprintf("%s - Daily Report - %s", b.ShopName, day),
		Day:       day,
		Cash:      newLedgerTable("Normal Sales (Cash)", "Subtotal (Normal)", "No normal sales for today.", false, cash),
		Debt:      newLedgerTable("Debt Transactions", "Subtotal (Debt)", "No debt transactions for today.", true, credit),
		MedGulf:   newLedgerTable("MedGulf Transactions", "Subtotal (MedGulf)", "No MedGulf transactions for today.", true, medgulf),
		Services:  newLedgerTable("Services", "Subtotal (Services)", "No services for today.", false, services),
		UsedParts: newLedgerTable("Used Parts", "Subtotal (Used Parts)", "No used parts for today.", false, usedParts),
	}
}

func (b Builder) Debts(month string, credit []domain.LedgerRecord) Debts {
	details := append([]domain.LedgerRecord(nil), credit...)
	sort.SliceStable(details, func(i, j int) bool {
		if details[i].CustomerName != details[j].CustomerName {
			return details[i].CustomerName < details[j].CustomerName
		}
		return details[i].SaleDate.Before(details[j].SaleDate)
	})

	totals := make(map[string]decimal.Decimal)
	for _, rec := range details {
		totals[rec.CustomerName] = totals[rec.CustomerName].Add(rec.Total)
	}
	summary := make([]CustomerTotal, 0, len(totals))
	grand := decimal.Zero
	for customer, total := range totals {
		summary = append(summary, CustomerTotal{Customer: customer, Total: total})
		grand = grand.Add(total)
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Customer < summary[j].Customer
	})

	return Debts{
		Title:      fmt.Sprintf("%s - Monthly Debts Report - %s", b.ShortName, month),
		Month:      month,
		Summary:    summary,
		GrandTotal: grand,
		Details:    newLedgerTable("Transaction Details", "", "No debt transactions for this month.", true, details),
	}
}

func (b Builder) Insurer(month string, medgulf []domain.LedgerRecord) Insurer {
	return Insurer{
		Title:   fmt.Sprintf("%s - MedGulf Report - %s", b.ShortName, month),
		Month:   month,
		Details: newLedgerTable("MedGulf Transactions", "Subtotal (MedGulf)", "No MedGulf transactions for this month.", true, medgulf),
	}
}

func sortByLabel(records []domain.LedgerRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ProductName < records[j].ProductName
	})
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func ledgerRows(table LedgerTable) (header []string, rows [][]string) {
	header = []string{"Product", "Price", "Qty", "Total", "Date", "Receipt ID"}
	if table.WithCustomer {
		header = append([]string{"Customer"}, header...)
	}
	rows = make([][]string, 0, len(table.Records))
	for _, rec := range table.Records {
		row := []string{
			rec.ProductName,
			money(rec.Price),
			strconv.Itoa(rec.Quantity),
			money(rec.Total),
			rec.SaleDate.Format(timestampLayout),
			rec.ReceiptID,
		}
		if table.WithCustomer {
			row = append([]string{rec.CustomerName}, row...)
		}
		rows = append(rows, row)
	}
	return header, rows
}
