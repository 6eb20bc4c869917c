package gateway

import (
	"fmt"
	"net/url"

	"github.com/username/finanphy/console/src/models"
)

// Resource is a collection endpoint on the finance API.
type Resource string

const (
	Incomes     Resource = "incomes"
	Expenses    Resource = "expenses"
	Investments Resource = "investments"
	Products    Resource = "products"
	Users       Resource = "api/users"
)

func (r Resource) Path() string {
	return "/" + string(r)
}

// ItemPath is the path of a single record, with the id escaped.
func (r Resource) ItemPath(id string) string {
	return r.Path() + "/" + url.PathEscape(id)
}

// ResourceFor maps a transaction kind to the endpoint that serves it.
func ResourceFor(kind models.TransactionKind) (Resource, error) {
	switch kind {
	case models.KindIncome:
		return Incomes, nil
	case models.KindExpense:
		return Expenses, nil
	case models.KindInvestment:
		return Investments, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
}
