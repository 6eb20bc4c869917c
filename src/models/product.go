package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which a product is flagged.
const LowStockThreshold = 5

// RawProduct is one record as returned by GET /products.
type RawProduct struct {
	LegacyID any `json:"_id"`
	ID       any `json:"id"`
	Name     any `json:"name"`
	SKU      any `json:"sku"`
	Price    any `json:"price"`
	Cost     any `json:"cost"`
	Stock    any `json:"stock"`
}

type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
	Stock int             `json:"stock"`
}

func (p Product) LowStock() bool {
	return p.Stock <= LowStockThreshold
}

// MarshalJSON adds the derived lowStock flag.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		LowStock bool `json:"lowStock"`
	}{plain(p), p.LowStock()})
}

// ProductPayload is the body sent to POST/PUT /products.
type ProductPayload struct {
	Name  string
	SKU   string
	Price decimal.Decimal
	Cost  decimal.Decimal
	Stock int
}

// MarshalJSON writes price and cost as JSON numbers.
func (p ProductPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string      `json:"name"`
		SKU   string      `json:"sku"`
		Price json.Number `json:"price"`
		Cost  json.Number `json:"cost"`
		Stock int         `json:"stock"`
	}{p.Name, p.SKU, json.Number(p.Price.String()), json.Number(p.Cost.String()), p.Stock})
}

// UnmarshalJSON accepts numeric fields as numbers or numeric strings.
func (p *ProductPayload) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name  string              `json:"name"`
		SKU   string              `json:"sku"`
		Price decimal.NullDecimal `json:"price"`
		Cost  decimal.NullDecimal `json:"cost"`
		Stock decimal.NullDecimal `json:"stock"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = ProductPayload{
		Name:  wire.Name,
		SKU:   wire.SKU,
		Price: wire.Price.Decimal,
		Cost:  wire.Cost.Decimal,
		Stock: int(wire.Stock.Decimal.IntPart()),
	}
	return nil
}

// InventoryPage is one page of a filtered product list.
type InventoryPage struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
	TotalCount int       `json:"totalCount"`
	// RangeStart and RangeEnd are the 1-based positions shown on this page,
	// both 0 when nothing matched.
	RangeStart int `json:"rangeStart"`
	RangeEnd   int `json:"rangeEnd"`
}

// RawClient is one record as returned by GET /api/users.
type RawClient struct {
	ID        any `json:"id"`
	LegacyID  any `json:"_id"`
	FirstName any `json:"firstName"`
	LastName  any `json:"lastName"`
	Email     any `json:"email"`
}

type Client struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (c Client) DisplayName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
