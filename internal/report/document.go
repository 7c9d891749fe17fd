package report

import (
	"fmt"
	"io"
)

type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockTable
)

type Block struct {
	Kind   BlockKind
	Level  int
	Text   string
	Header []string
	Rows   [][]string
}

// Document is the renderer-neutral form of a report.
type Document struct {
	Title    string
	FileName string
	Blocks   []Block
}

func (d *Document) heading(level int, text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockHeading, Level: level, Text: text})
}

func (d *Document) paragraph(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockParagraph, Text: text})
}

func (d *Document) table(header []string, rows [][]string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockTable, Header: header, Rows: rows})
}

// ledger writes the table and its subtotal, or the placeholder when empty.
func (d *Document) ledger(table LedgerTable) {
	if len(table.Records) == 0 {
		d.paragraph(table.Empty)
		return
	}
	header, rows := ledgerRows(table)
	d.table(header, rows)
	if table.SubtotalLabel != "" {
		d.paragraph(fmt.Sprintf("%s: %s", table.SubtotalLabel, money(table.Subtotal)))
	}
}

func (r Daily) Document() Document {
	doc := Document{Title: r.Title, FileName: fmt.Sprintf("Daily_Report_%s", r.Day)}
	doc.heading(1, r.Title)

	for _, section := range []LedgerTable{r.Cash, r.Debt, r.MedGulf} {
		doc.heading(2, section.Heading)
		doc.ledger(section)
	}

	doc.heading(2, "Services and Used Parts Summary")
	if len(r.Services.Records) == 0 && len(r.UsedParts.Records) == 0 {
		doc.paragraph("No services or used parts for today.")
		return doc
	}
	doc.heading(3, r.Services.Heading)
	doc.ledger(r.Services)
	doc.heading(3, r.UsedParts.Heading)
	doc.ledger(r.UsedParts)
	return doc
}

func (r Debts) Document() Document {
	doc := Document{Title: r.Title, FileName: fmt.Sprintf("Debts_Report_%s", r.Month)}
	doc.heading(1, r.Title)
	if len(r.Details.Records) == 0 {
		doc.paragraph(r.Details.Empty)
		return doc
	}

	doc.heading(2, "Customer Debt Summary")
	rows := make([][]string, 0, len(r.Summary))
	for _, line := range r.Summary {
		rows = append(rows, []string{line.Customer, money(line.Total)})
	}
	doc.table([]string{"Customer", "Total Owed"}, rows)
	doc.paragraph(fmt.Sprintf("Grand Total: %s", money(r.GrandTotal)))

	doc.heading(2, r.Details.Heading)
	doc.ledger(r.Details)
	return doc
}

func (r Insurer) Document() Document {
	doc := Document{Title: r.Title, FileName: fmt.Sprintf("MedGulf_Report_%s", r.Month)}
	doc.heading(1, r.Title)
	doc.ledger(r.Details)
	return doc
}

type Format string

const (
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatDOCX:
		return FormatDOCX, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", raw)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func Render(doc Document, format Format, w io.Writer) error {
	switch format {
	case FormatXLSX:
		return RenderXLSX(doc, w)
	default:
		return RenderDOCX(doc, w)
	}
}
