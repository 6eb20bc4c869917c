package parsers

import (
	"strings"

	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/utils"
)

// incomeAdapter dates an income by exitDate, falling back to dueDate.
type incomeAdapter struct{}

func (incomeAdapter) Kind() models.TransactionKind { return models.KindIncome }

func (incomeAdapter) IDPrefix() string { return "inc" }

func (incomeAdapter) DateOf(raw models.RawTransaction) (string, any) {
	if strings.TrimSpace(utils.ToText(raw.ExitDate)) != "" {
		return "exitDate", raw.ExitDate
	}
	return "dueDate", raw.DueDate
}
