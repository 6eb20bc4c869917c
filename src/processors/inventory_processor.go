package processors

import (
	"fmt"
	"strings"

	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/utils"
)

// FilterProducts keeps products whose name or SKU contains term,
// case-insensitively. A blank term keeps everything. Order is preserved.
func FilterProducts(products []models.Product, term string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(term))
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.SKU), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// QueryInventory filters products and returns one 1-indexed page.
// Pages past the end are clamped to the last page and pages below 1 to the
// first, so a non-empty match never yields an empty page. TotalPages is at
// least 1.
func QueryInventory(products []models.Product, term string, page, pageSize int) (models.InventoryPage, error) {
	if pageSize <= 0 {
		return models.InventoryPage{}, &models.ValidationError{
			Field:   "pageSize",
			Message: fmt.Sprintf("%v: got %d", models.ErrPageSize, pageSize),
		}
	}

	filtered := FilterProducts(products, term)
	total := len(filtered)
	totalPages := utils.MaxInt(1, (total+pageSize-1)/pageSize)

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := utils.MinInt(start+pageSize, total)
	items := make([]models.Product, end-start)
	copy(items, filtered[start:end])

	rangeStart := 0
	if total > 0 {
		rangeStart = start + 1
	}

	return models.InventoryPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: total,
		RangeStart: rangeStart,
		RangeEnd:   end,
	}, nil
}

// LowStock returns the products at or below models.LowStockThreshold.
func LowStock(products []models.Product) []models.Product {
	low := make([]models.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low
}
