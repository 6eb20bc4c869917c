package exporters

import (
	"strconv"
	"strings"

	"github.com/username/finanphy/console/src/models"
)

const (
	CSVFilename    = "inventario.csv"
	CSVContentType = "text/csv;charset=utf-8;"
	csvHeader      = "sku,name,price,cost,stock\n"
)

// ToCSV renders products as the inventory export. The header line always ends
// in "\n"; rows are joined by "\n" with no trailing newline. sku and name are
// always quoted with embedded quotes doubled; numeric columns are bare.
func ToCSV(products []models.Product) string {
	var b strings.Builder
	b.WriteString(csvHeader)

	for i, p := range products {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(quote(p.SKU))
		b.WriteByte(',')
		b.WriteString(quote(p.Name))
		b.WriteByte(',')
		b.WriteString(p.Price.String())
		b.WriteByte(',')
		b.WriteString(p.Cost.String())
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(p.Stock))
	}
	return b.String()
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
