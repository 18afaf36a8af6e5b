package repository

// Model is the contract every persistable entity fulfills.
//
// A model's identity is its value in the fixed identifier column. The zero
// identity marks a model that was never inserted; repositories assign the
// identity on insert and require it for updates.
//
// Embed Identity to fulfill the contract:
//
//	type Transaction struct {
//		repository.Identity
//		Date  time.Time
//		Price int64
//	}
type Model interface {
	GetID() int64
	SetID(id int64)
}

// Identity is an embeddable implementation of Model.
//
// While its field is exported for struct literals and direct access, the
// identity should only be modified by repositories.
type Identity struct {
	ID int64 `db:"id" json:"id"`
}

// GetID returns the model's identity, 0 if it was never inserted.
func (i *Identity) GetID() int64 {
	return i.ID
}

// SetID sets the model's identity.
func (i *Identity) SetID(id int64) {
	i.ID = id
}
