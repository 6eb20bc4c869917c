package parsers

import (
	"github.com/username/finanphy/console/src/models"
)

// investmentAdapter dates by dueDate, like expenses. Investments are read-only.
type investmentAdapter struct{}

func (investmentAdapter) Kind() models.TransactionKind { return models.KindInvestment }

func (investmentAdapter) IDPrefix() string { return "inv" }

func (investmentAdapter) DateOf(raw models.RawTransaction) (string, any) {
	return "dueDate", raw.DueDate
}
