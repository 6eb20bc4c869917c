package processors

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/utils"
)

// NormalizeProduct never fails: unparsable numbers become 0 and negative
// amounts are clamped to 0. name and sku are kept verbatim.
func NormalizeProduct(raw models.RawProduct) models.Product {
	return models.Product{
		ID:    utils.FirstNonBlank(raw.LegacyID, raw.ID),
		Name:  utils.ToText(raw.Name),
		SKU:   utils.ToText(raw.SKU),
		Price: nonNegative(utils.ToFiniteNumber(raw.Price, decimal.Zero)),
		Cost:  nonNegative(utils.ToFiniteNumber(raw.Cost, decimal.Zero)),
		Stock: utils.ToCount(raw.Stock),
	}
}

func NormalizeProducts(raws []models.RawProduct) []models.Product {
	products := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		products = append(products, NormalizeProduct(raw))
	}
	return products
}

func NormalizeClient(raw models.RawClient) models.Client {
	return models.Client{
		ID:        utils.FirstNonBlank(raw.ID, raw.LegacyID),
		FirstName: strings.TrimSpace(utils.ToText(raw.FirstName)),
		LastName:  strings.TrimSpace(utils.ToText(raw.LastName)),
		Email:     strings.TrimSpace(utils.ToText(raw.Email)),
	}
}

func NormalizeClients(raws []models.RawClient) []models.Client {
	clients := make([]models.Client, 0, len(raws))
	for _, raw := range raws {
		clients = append(clients, NormalizeClient(raw))
	}
	return clients
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
