package report

import "time"

// BlockKind identifies how a block is laid out by a renderer.
type BlockKind string

const (
	BlockTitle            BlockKind = "title"
	BlockSectionHeader    BlockKind = "section_header"
	BlockKeyValueLine     BlockKind = "key_value_line"
	BlockWrappedParagraph BlockKind = "wrapped_paragraph"
	BlockFooter           BlockKind = "footer"
)

// Block is one typed unit of document content. Text always holds the literal
// text to render; the other fields carry the structured parts of it.
type Block struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text"`

	// Subtitle is set on title blocks
	Subtitle string `json:"subtitle,omitempty"`

	// Key and Value are set on key/value lines, Text is "Key: Value"
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`

	// Lines holds the wrapped lines of a paragraph
	Lines []string `json:"lines,omitempty"`

	// GeneratedAt is set on the footer only. It is the single field that
	// differs between two compositions of the same input.
	GeneratedAt time.Time `json:"generatedAt,omitempty"`
}

// DocumentSpec is the ordered block sequence of a composed report.
type DocumentSpec struct {
	Blocks []Block `json:"blocks"`
}

// Footer returns the footer block, if any.
func (d DocumentSpec) Footer() (Block, bool) {
	for i := len(d.Blocks) - 1; i >= 0; i-- {
		if d.Blocks[i].Kind == BlockFooter {
			return d.Blocks[i], true
		}
	}
	return Block{}, false
}

// Section returns the blocks between the named section header and the next
// header or footer.
func (d DocumentSpec) Section(header string) []Block {
	var out []Block
	inSection := false
	for _, b := range d.Blocks {
		switch {
		case b.Kind == BlockSectionHeader && b.Text == header:
			inSection = true
		case b.Kind == BlockSectionHeader, b.Kind == BlockFooter:
			inSection = false
		case inSection:
			out = append(out, b)
		}
	}
	return out
}
