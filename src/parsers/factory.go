package parsers

import (
	"fmt"

	"github.com/username/finanphy/console/src/models"
)

var adapters = map[models.TransactionKind]Adapter{
	models.KindIncome:     incomeAdapter{},
	models.KindExpense:    expenseAdapter{},
	models.KindInvestment: investmentAdapter{},
}

// GetAdapter returns the adapter registered for kind.
func GetAdapter(kind models.TransactionKind) (Adapter, error) {
	adapter, ok := adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for %q", models.ErrUnknownKind, kind)
	}
	return adapter, nil
}
