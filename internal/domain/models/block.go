package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BlockType identifies the kind of content a block holds.
type BlockType string

const (
	BlockTypeParagraph    BlockType = "paragraph"
	BlockTypeHeading1     BlockType = "heading1"
	BlockTypeHeading2     BlockType = "heading2"
	BlockTypeHeading3     BlockType = "heading3"
	BlockTypeBulletList   BlockType = "bulletList"
	BlockTypeNumberedList BlockType = "numberedList"
	BlockTypeTodo         BlockType = "todo"
	BlockTypeQuote        BlockType = "quote"
	BlockTypeCode         BlockType = "code"
	BlockTypeDivider      BlockType = "divider"
	BlockTypeImage        BlockType = "image"
	BlockTypeTable        BlockType = "table"
)

// AllBlockTypes lists every valid block type in display order.
var AllBlockTypes = []BlockType{
	BlockTypeParagraph,
	BlockTypeHeading1,
	BlockTypeHeading2,
	BlockTypeHeading3,
	BlockTypeBulletList,
	BlockTypeNumberedList,
	BlockTypeTodo,
	BlockTypeQuote,
	BlockTypeCode,
	BlockTypeDivider,
	BlockTypeImage,
	BlockTypeTable,
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	for _, known := range AllBlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Properties is the type-specific payload of a block. Only todo, image
// and table blocks carry properties; every other type leaves it nil.
type Properties interface {
	isProperties()
}

// TodoProperties is the payload of a todo block.
type TodoProperties struct {
	Checked bool `json:"checked"`
}

// ImageProperties is the payload of an image block. URL is a displayable
// URI, typically an inline data URI produced from an uploaded file.
type ImageProperties struct {
	URL string `json:"url"`
}

// TableProperties is the payload of a table block. Rows is rectangular:
// every row has the same number of cells.
type TableProperties struct {
	Rows [][]string `json:"rows"`
}

func (*TodoProperties) isProperties()  {}
func (*ImageProperties) isProperties() {}
func (*TableProperties) isProperties() {}

// ColumnCount returns the table width, or 0 when the table has no rows.
func (p *TableProperties) ColumnCount() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return len(p.Rows[0])
}

// Block is a single content unit inside a document. Order is the block's
// zero-based position among its siblings and always equals the block's
// index in the parent document's slice.
type Block struct {
	ID         string
	Type       BlockType
	Content    string
	Properties Properties
	Order      int
}

// blockJSON is the wire shape of a block. Properties stays a single
// object whose fields depend on the block type.
type blockJSON struct {
	ID         string          `json:"id"`
	Type       BlockType       `json:"type"`
	Content    string          `json:"content"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Order      int             `json:"order"`
}

// MarshalJSON implements json.Marshaler.
func (b Block) MarshalJSON() ([]byte, error) {
	props, err := EncodeProperties(b.Properties)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockJSON{
		ID:         b.ID,
		Type:       b.Type,
		Content:    b.Content,
		Properties: props,
		Order:      b.Order,
	})
}

// UnmarshalJSON implements json.Unmarshaler, decoding the properties
// object into the variant matching the block type.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	props, err := DecodeProperties(raw.Type, raw.Properties)
	if err != nil {
		return err
	}
	b.ID = raw.ID
	b.Type = raw.Type
	b.Content = raw.Content
	b.Properties = props
	b.Order = raw.Order
	return nil
}

// EncodeProperties serializes a properties variant. A nil variant
// encodes to nil so callers can omit the field entirely.
func EncodeProperties(p Properties) (json.RawMessage, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode block properties: %w", err)
	}
	return data, nil
}

// DecodeProperties deserializes a properties object into the variant for
// the given block type. Empty objects and types that carry no payload
// decode to nil.
func DecodeProperties(t BlockType, data json.RawMessage) (Properties, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return nil, nil
	}
	switch t {
	case BlockTypeTodo:
		var p TodoProperties
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("decode todo properties: %w", err)
		}
		return &p, nil
	case BlockTypeImage:
		var p ImageProperties
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("decode image properties: %w", err)
		}
		return &p, nil
	case BlockTypeTable:
		var p TableProperties
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("decode table properties: %w", err)
		}
		return &p, nil
	default:
		// Other types carry no payload; leftover data from a previous
		// type is dropped rather than preserved.
		return nil, nil
	}
}

// DefaultProperties returns the payload a freshly retyped block starts
// with: tables get a 3x3 grid of empty cells, images an empty URL, and
// every other type no payload at all.
func DefaultProperties(t BlockType) Properties {
	switch t {
	case BlockTypeTable:
		return &TableProperties{Rows: [][]string{
			{"", "", ""},
			{"", "", ""},
			{"", "", ""},
		}}
	case BlockTypeImage:
		return &ImageProperties{URL: ""}
	default:
		return nil
	}
}
