package processors

import (
	"fmt"

	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/parsers"
	"github.com/username/finanphy/console/src/utils"
)

// Normalize maps one raw income, expense or investment record onto the
// canonical Transaction. It is pure: the same (kind, raw, index) always gives
// the same result.
//
// Field fallbacks:
//   - id: id, then _id, then "{inc|exp|inv}-{index}"
//   - date: whatever the kind's adapter selects (income: exitDate then dueDate)
//   - description: supplier, then category, then ""
//
// An absent amount counts as 0. A present amount that is not a finite number,
// a missing or unparsable date, or an unknown kind yields *models.MalformedRecordError.
func Normalize(kind models.TransactionKind, raw models.RawTransaction, index int) (models.Transaction, error) {
	adapter, err := parsers.GetAdapter(kind)
	if err != nil {
		return models.Transaction{}, &models.MalformedRecordError{Kind: kind, Index: index, Err: err}
	}

	id := utils.FirstNonBlank(raw.ID, raw.LegacyID)
	if id == "" {
		id = fmt.Sprintf("%s-%d", adapter.IDPrefix(), index)
	}

	rawAmount := utils.ToText(raw.Amount)
	amount, _, err := utils.ParseFiniteNumber(raw.Amount)
	if err != nil {
		return models.Transaction{}, &models.MalformedRecordError{
			Kind: kind, Index: index, ID: id, Field: "amount", Value: rawAmount, Err: err,
		}
	}

	dateField, dateValue := adapter.DateOf(raw)
	date, err := utils.ToCalendarDate(dateValue)
	if err != nil {
		return models.Transaction{}, &models.MalformedRecordError{
			Kind: kind, Index: index, ID: id, Field: dateField, Value: utils.ToText(dateValue), Err: err,
		}
	}

	return models.Transaction{
		ID:          id,
		Date:        date,
		Description: utils.FirstNonBlank(raw.Supplier, raw.Category),
		Amount:      amount.Abs(),
		Kind:        kind,
		Category:    utils.ToText(raw.Category),
		Supplier:    utils.ToText(raw.Supplier),
		ExitDate:    utils.ToText(raw.ExitDate),
		DueDate:     utils.ToText(raw.DueDate),
		RawAmount:   rawAmount,
	}, nil
}

// NormalizeAll normalizes a batch from one origin, using each record's
// position as its index. Malformed records are returned separately and left
// out of the result.
func NormalizeAll(kind models.TransactionKind, raws []models.RawTransaction) ([]models.Transaction, []*models.MalformedRecordError) {
	indexes := make([]int, len(raws))
	for i := range raws {
		indexes[i] = i
	}
	return NormalizeIndexed(kind, raws, indexes)
}

// NormalizeIndexed is NormalizeAll with explicit indexes, for batches where
// some positions of the original response were already dropped.
func NormalizeIndexed(kind models.TransactionKind, raws []models.RawTransaction, indexes []int) ([]models.Transaction, []*models.MalformedRecordError) {
	txs := make([]models.Transaction, 0, len(raws))
	var rejected []*models.MalformedRecordError
	for i, raw := range raws {
		index := i
		if i < len(indexes) {
			index = indexes[i]
		}
		tx, err := Normalize(kind, raw, index)
		if err != nil {
			if malformed, ok := err.(*models.MalformedRecordError); ok {
				rejected = append(rejected, malformed)
				continue
			}
			rejected = append(rejected, &models.MalformedRecordError{Kind: kind, Index: index, Err: err})
			continue
		}
		txs = append(txs, tx)
	}
	return txs, rejected
}
