package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/nisitaSoni/safR/server/report"
)

type font struct {
	style string
	size  float64
}

var fonts = map[Style]font{
	StyleTitle:    {style: "B", size: 18},
	StyleSubtitle: {style: "B", size: 14},
	StyleHeader:   {style: "B", size: 12},
	StyleBody:     {style: "", size: 11},
	StyleFooter:   {style: "I", size: 9},
}

// PDF draws the paginated document and returns the encoded file.
func PDF(doc report.DocumentSpec, cfg PageConfig) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cfg.PageWidth, Ht: cfg.PageHeight},
	})
	pdf.SetMargins(cfg.MarginLeft, cfg.MarginTop, cfg.MarginLeft)
	pdf.SetAutoPageBreak(false, cfg.MarginBottom)
	pdf.SetTitle(report.TitleLabel, false)
	pdf.SetCreator(report.SystemName, false)
	pdf.SetCatalogSort(true)
	if footer, ok := doc.Footer(); ok && !footer.GeneratedAt.IsZero() {
		pdf.SetCreationDate(footer.GeneratedAt)
		pdf.SetModificationDate(footer.GeneratedAt)
	}

	pages := PaginateSplit(doc, cfg, fontSplitter(pdf))

	// Core fonts are cp1252; translate so accented names survive
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range pages {
		pdf.AddPage()
		for _, line := range page.Lines {
			setFont(pdf, line.Style)
			pdf.SetXY(line.X, line.Y)
			pdf.CellFormat(line.W, line.H, tr(line.Text), "", 0, line.Align, false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func setFont(pdf *fpdf.Fpdf, style Style) {
	f, ok := fonts[style]
	if !ok {
		f = fonts[StyleBody]
	}
	pdf.SetFont("Helvetica", f.style, f.size)
}

// fontSplitter measures text in the font each style is drawn with. Lines that
// already fit inside the cell margins are returned unchanged.
func fontSplitter(pdf *fpdf.Fpdf) SplitFunc {
	return func(text string, style Style, width float64) []string {
		if text == "" {
			return []string{text}
		}
		setFont(pdf, style)
		if pdf.GetStringWidth(text) <= width-2*pdf.GetCellMargin() {
			return []string{text}
		}
		return pdf.SplitText(text, width)
	}
}
