// Package editor holds the block mutation engine and the editor session
// state machine. Every mutation is a pure function: it takes a block
// sequence and returns a new one, leaving the input untouched, so the
// order invariant (each block's Order equals its index) stays auditable
// in one place.
package editor

import (
	"github.com/google/uuid"

	"crok/internal/domain/models"
)

// NewParagraph creates a fresh empty paragraph block with a new ID.
// Order is assigned when the block lands in a sequence.
func NewParagraph() models.Block {
	return models.Block{
		ID:   uuid.NewString(),
		Type: models.BlockTypeParagraph,
	}
}

// InsertBelow inserts a new empty paragraph immediately after index and
// renumbers. It always succeeds: index len-1 appends, and on an empty
// sequence the new block becomes the head regardless of index.
func InsertBelow(blocks []models.Block, index int) []models.Block {
	if len(blocks) == 0 {
		return renumber([]models.Block{NewParagraph()})
	}
	if index < 0 {
		index = -1
	}
	if index >= len(blocks) {
		index = len(blocks) - 1
	}

	out := make([]models.Block, 0, len(blocks)+1)
	out = append(out, blocks[:index+1]...)
	out = append(out, NewParagraph())
	out = append(out, blocks[index+1:]...)
	return renumber(out)
}

// DeleteAt removes the block at index and renumbers. A sequence is
// never left empty: deleting the last remaining block yields a single
// fresh paragraph, because the editor always needs one block to anchor
// focus.
func DeleteAt(blocks []models.Block, index int) []models.Block {
	if index < 0 || index >= len(blocks) {
		return clone(blocks)
	}
	if len(blocks) == 1 {
		return renumber([]models.Block{NewParagraph()})
	}

	out := make([]models.Block, 0, len(blocks)-1)
	out = append(out, blocks[:index]...)
	out = append(out, blocks[index+1:]...)
	return renumber(out)
}

// Move relocates the block at from to position to and renumbers.
func Move(blocks []models.Block, from, to int) []models.Block {
	if from < 0 || from >= len(blocks) || to < 0 || to >= len(blocks) || from == to {
		return clone(blocks)
	}

	out := clone(blocks)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	rest := make([]models.Block, 0, len(blocks))
	rest = append(rest, out[:to]...)
	rest = append(rest, moved)
	rest = append(rest, out[to:]...)
	return renumber(rest)
}

// UpdateContent replaces the content of the block at index. No other
// field changes.
func UpdateContent(blocks []models.Block, index int, text string) []models.Block {
	if index < 0 || index >= len(blocks) {
		return clone(blocks)
	}
	out := clone(blocks)
	out[index].Content = text
	return out
}

// PropertiesPatch is a partial properties update. Only the fields
// matching the target block's type apply; the rest are ignored. Fields
// left nil keep their current value.
type PropertiesPatch struct {
	Checked *bool
	URL     *string
	Rows    [][]string
}

// UpdateProperties merges a patch into the properties of the block at
// index. A patch against a block that has no properties yet creates the
// variant for its type; a patch with nothing relevant to the type is a
// no-op.
func UpdateProperties(blocks []models.Block, index int, patch PropertiesPatch) []models.Block {
	if index < 0 || index >= len(blocks) {
		return clone(blocks)
	}
	out := clone(blocks)
	b := &out[index]

	switch b.Type {
	case models.BlockTypeTodo:
		if patch.Checked != nil {
			b.Properties = &models.TodoProperties{Checked: *patch.Checked}
		}
	case models.BlockTypeImage:
		if patch.URL != nil {
			b.Properties = &models.ImageProperties{URL: *patch.URL}
		}
	case models.BlockTypeTable:
		if patch.Rows != nil {
			b.Properties = &models.TableProperties{Rows: cloneRows(patch.Rows)}
		}
	}
	return out
}

// ChangeType replaces the type of the block at index, resets its
// content and resets properties to the type's default. Destructive on
// purpose: retyping a text block into a table forfeits the text.
func ChangeType(blocks []models.Block, index int, newType models.BlockType) []models.Block {
	if index < 0 || index >= len(blocks) {
		return clone(blocks)
	}
	out := clone(blocks)
	out[index].Type = newType
	out[index].Content = ""
	out[index].Properties = models.DefaultProperties(newType)
	return out
}

// AddTableRow appends a row of empty cells to the table block at index,
// sized to the current column count (3 when the table has no rows yet).
func AddTableRow(blocks []models.Block, index int) []models.Block {
	return withTable(blocks, index, func(p *models.TableProperties) {
		cols := p.ColumnCount()
		if cols == 0 {
			cols = 3
		}
		p.Rows = append(p.Rows, make([]string, cols))
	})
}

// AddTableColumn appends an empty cell to every row of the table block
// at index.
func AddTableColumn(blocks []models.Block, index int) []models.Block {
	return withTable(blocks, index, func(p *models.TableProperties) {
		for i := range p.Rows {
			p.Rows[i] = append(p.Rows[i], "")
		}
	})
}

// DeleteTableRow removes row rowIndex from the table block at index.
// No-op when the table would drop below one row.
func DeleteTableRow(blocks []models.Block, index, rowIndex int) []models.Block {
	return withTable(blocks, index, func(p *models.TableProperties) {
		if len(p.Rows) <= 1 || rowIndex < 0 || rowIndex >= len(p.Rows) {
			return
		}
		p.Rows = append(p.Rows[:rowIndex], p.Rows[rowIndex+1:]...)
	})
}

// DeleteTableColumn removes column colIndex from every row of the table
// block at index. No-op when the table would drop below one column.
func DeleteTableColumn(blocks []models.Block, index, colIndex int) []models.Block {
	return withTable(blocks, index, func(p *models.TableProperties) {
		if p.ColumnCount() <= 1 || colIndex < 0 || colIndex >= p.ColumnCount() {
			return
		}
		for i := range p.Rows {
			p.Rows[i] = append(p.Rows[i][:colIndex], p.Rows[i][colIndex+1:]...)
		}
	})
}

// SetTableCell writes a single cell of the table block at index.
func SetTableCell(blocks []models.Block, index, rowIndex, colIndex int, value string) []models.Block {
	return withTable(blocks, index, func(p *models.TableProperties) {
		if rowIndex < 0 || rowIndex >= len(p.Rows) {
			return
		}
		if colIndex < 0 || colIndex >= len(p.Rows[rowIndex]) {
			return
		}
		p.Rows[rowIndex][colIndex] = value
	})
}

// withTable runs fn against a deep copy of the table properties of the
// block at index. Non-table blocks and out-of-range indices pass
// through unchanged.
func withTable(blocks []models.Block, index int, fn func(*models.TableProperties)) []models.Block {
	if index < 0 || index >= len(blocks) {
		return clone(blocks)
	}
	if blocks[index].Type != models.BlockTypeTable {
		return clone(blocks)
	}

	out := clone(blocks)
	table, _ := out[index].Properties.(*models.TableProperties)
	copied := &models.TableProperties{}
	if table != nil {
		copied.Rows = cloneRows(table.Rows)
	}
	fn(copied)
	out[index].Properties = copied
	return out
}

// Renumber returns a copy of the sequence with every block's Order
// re-derived from its array position. Callers that restructure a
// sequence outside the engine (the save projection's block filter) use
// this to restore the invariant.
func Renumber(blocks []models.Block) []models.Block {
	return renumber(clone(blocks))
}

// renumber re-derives every block's Order from its array position.
// Called after every structural mutation; Order is never maintained by
// hand.
func renumber(blocks []models.Block) []models.Block {
	for i := range blocks {
		blocks[i].Order = i
	}
	return blocks
}

func clone(blocks []models.Block) []models.Block {
	out := make([]models.Block, len(blocks))
	copy(out, blocks)
	return out
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		copy(out[i], row)
	}
	return out
}
