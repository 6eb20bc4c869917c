package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the origin discriminator of a canonical transaction.
type TransactionKind string

const (
	KindIncome     TransactionKind = "income"
	KindExpense    TransactionKind = "expense"
	KindInvestment TransactionKind = "investment"
)

// TransactionKinds lists every kind in ledger display order.
var TransactionKinds = []TransactionKind{KindIncome, KindExpense, KindInvestment}

func (k TransactionKind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindInvestment:
		return true
	}
	return false
}

// ParseTransactionKind accepts the canonical names, case-insensitively.
func ParseTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// RawTransaction is one record as returned by /incomes, /expenses or /investments.
// Values stay untyped until the normalizer coerces them; Kind is set by the
// fetching layer from the endpoint, never decoded from the payload.
type RawTransaction struct {
	Kind     TransactionKind `json:"-"`
	ID       any             `json:"id"`
	LegacyID any             `json:"_id"`
	Amount   any             `json:"amount"`
	Category any             `json:"category"`
	Supplier any             `json:"supplier"`
	ExitDate any             `json:"exitDate"`
	DueDate  any             `json:"dueDate"`
}

// Transaction is the canonical ledger entry. Amount is always a magnitude;
// direction comes from Kind.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"kind"`

	// Origin fields, kept verbatim for detail views.
	Category  string `json:"category"`
	Supplier  string `json:"supplier"`
	ExitDate  string `json:"exitDate"`
	DueDate   string `json:"dueDate"`
	RawAmount string `json:"rawAmount"`
}

// Signed returns the amount with the sign implied by Kind.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Summary holds the ledger aggregates.
type Summary struct {
	IncomeTotal     decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal    decimal.Decimal `json:"expenseTotal"`
	InvestmentTotal decimal.Decimal `json:"investmentTotal"`
	Balance         decimal.Decimal `json:"balance"`

	IncomeCount     int `json:"incomeCount"`
	ExpenseCount    int `json:"expenseCount"`
	InvestmentCount int `json:"investmentCount"`
}

// CategoryAmount is the total of one origin category within a kind.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// TransactionPayload is the body sent to POST/PUT /incomes and /expenses.
type TransactionPayload struct {
	Amount   decimal.Decimal
	Category string
	Supplier string
	ExitDate string
	DueDate  string
}

// MarshalJSON writes amount as a JSON number and omits an empty exitDate.
func (p TransactionPayload) MarshalJSON() ([]byte, error) {
	type wire struct {
		Amount   json.Number `json:"amount"`
		Category string      `json:"category"`
		Supplier string      `json:"supplier"`
		ExitDate string      `json:"exitDate,omitempty"`
		DueDate  string      `json:"dueDate"`
	}
	return json.Marshal(wire{
		Amount:   json.Number(p.Amount.String()),
		Category: p.Category,
		Supplier: p.Supplier,
		ExitDate: p.ExitDate,
		DueDate:  p.DueDate,
	})
}

// UnmarshalJSON accepts amount as a number or a numeric string.
func (p *TransactionPayload) UnmarshalJSON(data []byte) error {
	var wire struct {
		Amount   decimal.NullDecimal `json:"amount"`
		Category string              `json:"category"`
		Supplier string              `json:"supplier"`
		ExitDate string              `json:"exitDate"`
		DueDate  string              `json:"dueDate"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = TransactionPayload{
		Amount:   wire.Amount.Decimal,
		Category: wire.Category,
		Supplier: wire.Supplier,
		ExitDate: wire.ExitDate,
		DueDate:  wire.DueDate,
	}
	return nil
}
