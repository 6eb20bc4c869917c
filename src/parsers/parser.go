package parsers

import (
	"github.com/username/finanphy/console/src/models"
)

// Adapter maps one origin resource's field schema onto the canonical fields.
// There is exactly one Adapter per TransactionKind.
type Adapter interface {
	Kind() models.TransactionKind
	// IDPrefix is used to synthesize ids for records that carry none.
	IDPrefix() string
	// DateOf returns the name and raw value of the field that dates the record.
	DateOf(raw models.RawTransaction) (field string, value any)
}
