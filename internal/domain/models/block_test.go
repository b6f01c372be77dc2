package models

import (
	"encoding/json"
	"testing"
)

func TestBlockJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		block Block
	}{
		{
			name:  "paragraph without properties",
			block: Block{ID: "b1", Type: BlockTypeParagraph, Content: "hello", Order: 0},
		},
		{
			name: "todo",
			block: Block{ID: "b2", Type: BlockTypeTodo, Content: "task", Order: 1,
				Properties: &TodoProperties{Checked: true}},
		},
		{
			name: "table",
			block: Block{ID: "b3", Type: BlockTypeTable, Order: 2,
				Properties: &TableProperties{Rows: [][]string{{"a", "b"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.block)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			var got Block
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if got.ID != tt.block.ID || got.Type != tt.block.Type ||
				got.Content != tt.block.Content || got.Order != tt.block.Order {
				t.Errorf("got %+v, want %+v", got, tt.block)
			}

			switch want := tt.block.Properties.(type) {
			case nil:
				if got.Properties != nil {
					t.Errorf("properties = %#v, want nil", got.Properties)
				}
			case *TodoProperties:
				p, ok := got.Properties.(*TodoProperties)
				if !ok || p.Checked != want.Checked {
					t.Errorf("properties = %#v, want %#v", got.Properties, want)
				}
			case *TableProperties:
				p, ok := got.Properties.(*TableProperties)
				if !ok || len(p.Rows) != len(want.Rows) {
					t.Errorf("properties = %#v, want %#v", got.Properties, want)
				}
			}
		})
	}
}

func TestUnmarshalDropsPropertiesOfPropertylessTypes(t *testing.T) {
	// A quote that somehow carries stale todo data loses it on decode.
	data := []byte(`{"id":"b1","type":"quote","content":"q","properties":{"checked":true},"order":0}`)

	var got Block
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Properties != nil {
		t.Errorf("properties = %#v, want nil", got.Properties)
	}
}

func TestDecodePropertiesEmptyVariants(t *testing.T) {
	for _, raw := range []string{"", "null", "{}", "  {} "} {
		p, err := DecodeProperties(BlockTypeTodo, json.RawMessage(raw))
		if err != nil {
			t.Errorf("DecodeProperties(%q): %v", raw, err)
		}
		if p != nil {
			t.Errorf("DecodeProperties(%q) = %#v, want nil", raw, p)
		}
	}
}

func TestDefaultProperties(t *testing.T) {
	table, ok := DefaultProperties(BlockTypeTable).(*TableProperties)
	if !ok || len(table.Rows) != 3 || len(table.Rows[0]) != 3 {
		t.Errorf("table default = %#v, want 3x3 grid", table)
	}

	img, ok := DefaultProperties(BlockTypeImage).(*ImageProperties)
	if !ok || img.URL != "" {
		t.Errorf("image default = %#v, want empty url", img)
	}

	if p := DefaultProperties(BlockTypeParagraph); p != nil {
		t.Errorf("paragraph default = %#v, want nil", p)
	}
}

func TestBlockTypeValid(t *testing.T) {
	for _, bt := range AllBlockTypes {
		if !bt.Valid() {
			t.Errorf("%q not valid", bt)
		}
	}
	if BlockType("spreadsheet").Valid() {
		t.Error("unknown type reported valid")
	}
}
