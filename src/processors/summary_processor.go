package processors

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/username/finanphy/console/src/models"
)

// UncategorizedLabel groups transactions whose origin category is blank.
const UncategorizedLabel = "Sin categoría"

// Aggregate totals the amounts per kind. Decimal addition keeps the result
// exact, so it does not depend on input order. No rounding is applied.
func Aggregate(transactions []models.Transaction) models.Summary {
	summary := models.Summary{
		IncomeTotal:     decimal.Zero,
		ExpenseTotal:    decimal.Zero,
		InvestmentTotal: decimal.Zero,
	}
	for _, tx := range transactions {
		switch tx.Kind {
		case models.KindIncome:
			summary.IncomeTotal = summary.IncomeTotal.Add(tx.Amount)
			summary.IncomeCount++
		case models.KindExpense:
			summary.ExpenseTotal = summary.ExpenseTotal.Add(tx.Amount)
			summary.ExpenseCount++
		case models.KindInvestment:
			summary.InvestmentTotal = summary.InvestmentTotal.Add(tx.Amount)
			summary.InvestmentCount++
		}
	}
	summary.Balance = summary.IncomeTotal.Sub(summary.ExpenseTotal).Sub(summary.InvestmentTotal)
	return summary
}

// CategoryBreakdown totals one kind's transactions by origin category,
// largest amount first, ties by category name.
func CategoryBreakdown(transactions []models.Transaction, kind models.TransactionKind) []models.CategoryAmount {
	byCategory := make(map[string]*models.CategoryAmount)
	for _, tx := range transactions {
		if tx.Kind != kind {
			continue
		}
		label := tx.Category
		if label == "" {
			label = UncategorizedLabel
		}
		entry, ok := byCategory[label]
		if !ok {
			entry = &models.CategoryAmount{Category: label, Amount: decimal.Zero}
			byCategory[label] = entry
		}
		entry.Amount = entry.Amount.Add(tx.Amount)
		entry.Count++
	}

	result := make([]models.CategoryAmount, 0, len(byCategory))
	for _, entry := range byCategory {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Amount.Cmp(result[j].Amount); c != 0 {
			return c > 0
		}
		return result[i].Category < result[j].Category
	})
	return result
}
