package exporters

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/processors"
)

func TestToCSVEmpty(t *testing.T) {
	if got := ToCSV(nil); got != "sku,name,price,cost,stock\n" {
		t.Errorf("ToCSV(nil) = %q", got)
	}
}

func TestToCSVEscapesQuotes(t *testing.T) {
	products := []models.Product{
		{SKU: `S"1`, Name: `He said "hi"`, Price: decimal.NewFromInt(1000), Cost: decimal.RequireFromString("750.5"), Stock: 3},
		{SKU: "B", Name: "Plain", Price: decimal.Zero, Cost: decimal.Zero, Stock: 0},
	}
	want := "sku,name,price,cost,stock\n" +
		`"S""1","He said ""hi""",1000,750.5,3` + "\n" +
		`"B","Plain",0,0,0`
	if got := ToCSV(products); got != want {
		t.Errorf("ToCSV =\n%s\nwant\n%s", got, want)
	}
}

func TestToCSVRoundTrip(t *testing.T) {
	products := []models.Product{
		{SKU: "CF-1", Name: "Café, molido", Price: decimal.NewFromInt(12000), Cost: decimal.NewFromInt(8000), Stock: 2},
		{SKU: "TV", Name: `He said "hi"`, Price: decimal.RequireFromString("0.5"), Cost: decimal.Zero, Stock: 0},
		{SKU: "", Name: "Multi\nline", Price: decimal.NewFromInt(1), Cost: decimal.NewFromInt(1), Stock: 9},
		{SKU: " SP ", Name: "  padded  ", Price: decimal.NewFromInt(3), Cost: decimal.NewFromInt(2), Stock: 1},
	}

	records, err := csv.NewReader(strings.NewReader(ToCSV(products))).ReadAll()
	if err != nil {
		t.Fatalf("generated CSV does not parse: %v", err)
	}
	if len(records) != len(products)+1 {
		t.Fatalf("records = %d, want %d", len(records), len(products)+1)
	}
	header := records[0]
	for i, p := range products {
		raw := models.RawProduct{}
		for col, name := range header {
			value := records[i+1][col]
			switch name {
			case "sku":
				raw.SKU = value
			case "name":
				raw.Name = value
			case "price":
				raw.Price = value
			case "cost":
				raw.Cost = value
			case "stock":
				raw.Stock = value
			}
		}
		got := processors.NormalizeProduct(raw)
		if got.SKU != p.SKU || got.Name != p.Name || got.Stock != p.Stock {
			t.Errorf("row %d = %+v, want %+v", i, got, p)
		}
		if !got.Price.Equal(p.Price) || !got.Cost.Equal(p.Cost) {
			t.Errorf("row %d price/cost = %s/%s, want %s/%s", i, got.Price, got.Cost, p.Price, p.Cost)
		}
	}
}

func TestToCSVKeepsInputOrder(t *testing.T) {
	products := []models.Product{{SKU: "Z"}, {SKU: "A"}, {SKU: "M"}}
	lines := strings.Split(ToCSV(products), "\n")
	if len(lines) != 4 || lines[1][:3] != `"Z"` || lines[2][:3] != `"A"` || lines[3][:3] != `"M"` {
		t.Errorf("lines = %q", lines)
	}
}
