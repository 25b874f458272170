package model

import "time"

// DocumentType selects the pipeline layout
type DocumentType string

const (
	DocumentComparison     DocumentType = "comparison"
	DocumentRecommendation DocumentType = "recommendation"
	DocumentQuote          DocumentType = "quote"
)

// SectionKind is the kind of a document section descriptor
type SectionKind string

const (
	SectionTitle     SectionKind = "title"
	SectionTable     SectionKind = "table"
	SectionParagraph SectionKind = "paragraph"
	SectionPageBreak SectionKind = "page-break"
)

// ParagraphStyle controls how a paragraph is drawn
type ParagraphStyle string

const (
	StyleBody   ParagraphStyle = "body"
	StyleBullet ParagraphStyle = "bullet"
	StyleNote   ParagraphStyle = "note"
	StyleStrong ParagraphStyle = "strong"
)

// Table is a grid of literal cell text. The first column of a "key/value"
// table is drawn as a label column.
type Table struct {
	Header       []string   `json:"header"`
	Rows         [][]string `json:"rows"`
	ColumnWidths []float64  `json:"column_widths,omitempty"` // relative weights
	LabelColumn  bool       `json:"label_column,omitempty"`
	TotalRow     bool       `json:"total_row,omitempty"` // last row highlighted
}

// Section is one descriptor in a DocumentSpec
type Section struct {
	Kind  SectionKind    `json:"kind"`
	Level int            `json:"level,omitempty"` // titles: 1 document, 2 heading, 3 subheading
	Text  string         `json:"text,omitempty"`
	Style ParagraphStyle `json:"style,omitempty"`
	Table *Table         `json:"table,omitempty"`
}

// DocumentSpec is the ordered content handed to the drawing surface
type DocumentSpec struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// Document is the final rendered output of the pipeline
type Document struct {
	Type           DocumentType
	Filename       string
	ContentType    string
	Bytes          []byte
	AnalysisSource AnalysisSource
	FallbackReason FallbackReason
}
