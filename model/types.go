package model

import "encoding/json"

// CellType classifies the structural role of a cell within its table.
type CellType int

const (
	// CellData is a regular data cell.
	CellData CellType = iota
	// CellHeader is a cell belonging to a detected header row.
	CellHeader
	// CellMerged is a cell participating in a merged range.
	CellMerged
	// CellEmpty is a cell whose trimmed content is empty.
	CellEmpty
)

// String returns the string representation of the cell type.
func (c CellType) String() string {
	switch c {
	case CellHeader:
		return "Header"
	case CellMerged:
		return "Merged"
	case CellEmpty:
		return "Empty"
	default:
		return "Data"
	}
}

// MarshalJSON encodes the cell type as its string name.
func (c CellType) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a cell type from its string name.
func (c *CellType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Header":
		*c = CellHeader
	case "Merged":
		*c = CellMerged
	case "Empty":
		*c = CellEmpty
	default:
		*c = CellData
	}
	return nil
}

// DataType classifies the kind of value a cell's content represents.
type DataType int

const (
	// TypeEmpty indicates no content.
	TypeEmpty DataType = iota
	// TypeNumber indicates numeric content, including currency,
	// percentages, and scientific notation.
	TypeNumber
	// TypeDate indicates date, time, or relative-date content.
	TypeDate
	// TypeBoolean indicates boolean-like content.
	TypeBoolean
	// TypeText is the fallback for everything else.
	TypeText
)

// String returns the string representation of the data type.
func (d DataType) String() string {
	switch d {
	case TypeEmpty:
		return "Empty"
	case TypeNumber:
		return "Number"
	case TypeDate:
		return "Date"
	case TypeBoolean:
		return "Boolean"
	default:
		return "Text"
	}
}

// MarshalJSON encodes the data type as its string name.
func (d DataType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Alignment represents horizontal text alignment within a cell.
type Alignment int

const (
	// AlignDefault means no explicit alignment was supplied.
	AlignDefault Alignment = iota
	// AlignLeft aligns content to the left edge.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right edge.
	AlignRight
	// AlignJustify stretches content across the cell.
	AlignJustify
)

// String returns the string representation of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignCenter:
		return "Center"
	case AlignRight:
		return "Right"
	case AlignJustify:
		return "Justify"
	default:
		return "Default"
	}
}
