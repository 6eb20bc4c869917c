package parsers

import (
	"github.com/username/finanphy/console/src/models"
)

// expenseAdapter dates an expense by dueDate only. exitDate is ignored even
// when present.
type expenseAdapter struct{}

func (expenseAdapter) Kind() models.TransactionKind { return models.KindExpense }

func (expenseAdapter) IDPrefix() string { return "exp" }

func (expenseAdapter) DateOf(raw models.RawTransaction) (string, any) {
	return "dueDate", raw.DueDate
}
