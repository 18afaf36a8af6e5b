package fixtures

import (
	"github.com/google/uuid"

	"github.com/kosyan62/repka/repository"
)

// ReceiptsTableName is the database table holding Receipt rows.
const ReceiptsTableName = "receipts"

// ReceiptItem is one line item on a receipt, stored as part of a jsonb document.
type ReceiptItem struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

// Receipt represents a purchase receipt with its line items.
type Receipt struct {
	repository.Identity
	PublicID uuid.UUID
	Items    []ReceiptItem
}

// BuildReceipt creates a new Receipt without an identity.
func BuildReceipt(publicID uuid.UUID, items ...ReceiptItem) *Receipt {
	return &Receipt{
		PublicID: publicID,
		Items:    items,
	}
}

// ReceiptsTable maps Receipt onto the receipts table with its line items
// serialized into a jsonb column.
func ReceiptsTable() repository.Table[*Receipt] {
	return repository.Table[*Receipt]{
		Name: ReceiptsTableName,
		Columns: []repository.Column[*Receipt]{
			repository.ColumnOf("public_id", func(m *Receipt) *uuid.UUID { return &m.PublicID }),
			repository.JSONColumnOf("items", func(m *Receipt) *[]ReceiptItem { return &m.Items }),
		},
		NewModel: func() *Receipt { return new(Receipt) },
	}
}
