package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
)

const docxTableStyle = "LightList-Accent4"

// RenderDOCX writes doc as a Word document.
func RenderDOCX(doc Document, w io.Writer) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new docx document: %w", err)
	}

	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockHeading:
			level := block.Level
			if level < 1 || level > 3 {
				level = 1
			}
			if _, err := document.AddHeading(block.Text, uint(level)); err != nil {
				return fmt.Errorf("add heading %q: %w", block.Text, err)
			}
		case BlockParagraph:
			document.AddParagraph(block.Text)
		case BlockTable:
			table := document.AddTable()
			table.Style(docxTableStyle)
			header := table.AddRow()
			for _, cell := range block.Header {
				header.AddCell().AddParagraph(cell)
			}
			for _, row := range block.Rows {
				tr := table.AddRow()
				for _, cell := range row {
					tr.AddCell().AddParagraph(cell)
				}
			}
			// Word rejects a table that is directly followed by the section properties.
			document.AddParagraph("")
		}
	}

	// godocx packages through a file path
	dir, err := os.MkdirTemp("", "salimco-docx-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "report.docx")
	if err := document.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
