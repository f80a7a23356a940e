// Package render turns a composed report into pages and PDF bytes.
//
// Rendering is split in two: Paginate assigns every rendered line a page and a
// position without touching any drawing library, and PDF draws those pages.
package render

import (
	"time"

	"github.com/nisitaSoni/safR/server/report"
)

// Style selects the font used to draw a line.
type Style string

const (
	StyleTitle    Style = "title"
	StyleSubtitle Style = "subtitle"
	StyleHeader   Style = "header"
	StyleBody     Style = "body"
	StyleFooter   Style = "footer"
)

// Alignment of a line inside its cell
const (
	AlignLeft   = "L"
	AlignCenter = "C"
)

// PageConfig holds page geometry in millimetres.
type PageConfig struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginTop    float64
	MarginBottom float64

	// Indent is applied to key/value lines and paragraph lines
	Indent float64

	TitleHeight     float64
	SubtitleHeight  float64
	HeaderHeight    float64
	KeyValueHeight  float64
	ParagraphHeight float64
	FooterHeight    float64

	// SectionGap is the space left above each section header
	SectionGap float64
}

// DefaultPageConfig returns the A4 portrait layout used for E-FIR documents.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		PageWidth:       210,
		PageHeight:      297,
		MarginLeft:      20,
		MarginTop:       25,
		MarginBottom:    15,
		Indent:          10,
		TitleHeight:     12,
		SubtitleHeight:  10,
		HeaderHeight:    10,
		KeyValueHeight:  8,
		ParagraphHeight: 6,
		FooterHeight:    6,
		SectionGap:      6,
	}
}

// Line is one positioned line of text. Y is the top of the line's cell.
type Line struct {
	Text  string
	Style Style
	Align string
	X     float64
	Y     float64
	W     float64
	H     float64
}

// Page is one page of positioned lines, numbered from 1.
type Page struct {
	Number int
	Lines  []Line
}

type pendingLine struct {
	text   string
	style  Style
	align  string
	height float64
	indent float64
	// gap is the space above the line when it is not the first on its page
	gap float64
	// keepWithNext moves the line to a new page unless the following line also fits
	keepWithNext bool
}

// SplitFunc breaks text drawn in style into lines no wider than width.
type SplitFunc func(text string, style Style, width float64) []string

// Paginate lays out the document on pages without measuring text. Lines flow
// top to bottom and a new page starts when the next line would enter the
// footer area. The footer is pinned to the bottom of the last page.
func Paginate(doc report.DocumentSpec, cfg PageConfig) []Page {
	return PaginateSplit(doc, cfg, nil)
}

// PaginateSplit is Paginate with every body line re-split by split so that it
// fits its cell. A nil split keeps lines as composed.
func PaginateSplit(doc report.DocumentSpec, cfg PageConfig, split SplitFunc) []Page {
	var body []pendingLine
	var footer *report.Block

	for i := range doc.Blocks {
		b := doc.Blocks[i]
		switch b.Kind {
		case report.BlockTitle:
			body = append(body, pendingLine{text: b.Text, style: StyleTitle, align: AlignCenter, height: cfg.TitleHeight})
			if b.Subtitle != "" {
				body = append(body, pendingLine{text: b.Subtitle, style: StyleSubtitle, align: AlignCenter, height: cfg.SubtitleHeight})
			}
		case report.BlockSectionHeader:
			body = append(body, pendingLine{text: b.Text, style: StyleHeader, align: AlignLeft, height: cfg.HeaderHeight, gap: cfg.SectionGap, keepWithNext: true})
		case report.BlockKeyValueLine:
			body = append(body, pendingLine{text: b.Text, style: StyleBody, align: AlignLeft, height: cfg.KeyValueHeight, indent: cfg.Indent})
		case report.BlockWrappedParagraph:
			for _, l := range b.Lines {
				body = append(body, pendingLine{text: l, style: StyleBody, align: AlignLeft, height: cfg.ParagraphHeight, indent: cfg.Indent})
			}
		case report.BlockFooter:
			footer = &doc.Blocks[i]
		}
	}

	footerLines := footerText(footer)
	contentBottom := cfg.PageHeight - cfg.MarginBottom - float64(len(footerLines))*cfg.FooterHeight
	fullWidth := cfg.PageWidth - 2*cfg.MarginLeft

	if split != nil {
		body = fitLines(body, fullWidth, split)
	}

	pages := []Page{{Number: 1}}
	y := cfg.MarginTop

	for i, pl := range body {
		current := &pages[len(pages)-1]
		if len(current.Lines) > 0 {
			y += pl.gap
		}

		needed := pl.height
		if pl.keepWithNext && i+1 < len(body) {
			needed += body[i+1].height
		}
		if len(current.Lines) > 0 && y+needed > contentBottom {
			pages = append(pages, Page{Number: len(pages) + 1})
			current = &pages[len(pages)-1]
			y = cfg.MarginTop
		}

		current.Lines = append(current.Lines, Line{
			Text:  pl.text,
			Style: pl.style,
			Align: pl.align,
			X:     cfg.MarginLeft + pl.indent,
			Y:     y,
			W:     fullWidth - pl.indent,
			H:     pl.height,
		})
		y += pl.height
	}

	last := &pages[len(pages)-1]
	fy := contentBottom
	for _, text := range footerLines {
		last.Lines = append(last.Lines, Line{
			Text:  text,
			Style: StyleFooter,
			Align: AlignCenter,
			X:     cfg.MarginLeft,
			Y:     fy,
			W:     fullWidth,
			H:     cfg.FooterHeight,
		})
		fy += cfg.FooterHeight
	}

	return pages
}

// fitLines replaces each line with the pieces split returns for its cell
// width. Only the first piece keeps the section gap and only the last keeps
// the link to the following line.
func fitLines(body []pendingLine, fullWidth float64, split SplitFunc) []pendingLine {
	out := make([]pendingLine, 0, len(body))
	for _, pl := range body {
		pieces := split(pl.text, pl.style, fullWidth-pl.indent)
		if len(pieces) <= 1 {
			out = append(out, pl)
			continue
		}
		for i, piece := range pieces {
			next := pl
			next.text = piece
			if i > 0 {
				next.gap = 0
			}
			if i < len(pieces)-1 {
				next.keepWithNext = false
			}
			out = append(out, next)
		}
	}
	return out
}

func footerText(footer *report.Block) []string {
	if footer == nil {
		return nil
	}
	lines := []string{footer.Text}
	if !footer.GeneratedAt.IsZero() {
		lines = append(lines, "Generated on: "+footer.GeneratedAt.UTC().Format(time.RFC3339))
	}
	return lines
}
