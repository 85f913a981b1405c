package console

import "github.com/mamadbah2/inventory-console/internal/domain/models"

// TableHeaders are the result table columns.
var TableHeaders = []string{"ID", "Name", "Category", "Quantity", "Condition", "Restock_level"}

// Table is the rendered form of a result set.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Row is one record, cells ordered like TableHeaders.
type Row struct {
	Index int      `json:"index"`
	Cells []string `json:"cells"`
}

// ProjectTable renders records in result order. An empty set yields a header-only table.
func ProjectTable(records []models.InventoryRecord) Table {
	table := Table{
		Headers: append([]string(nil), TableHeaders...),
		Rows:    make([]Row, 0, len(records)),
	}
	for i, record := range records {
		table.Rows = append(table.Rows, Row{
			Index: i,
			Cells: []string{
				string(record.ID),
				record.Name,
				record.Category,
				models.FormatInt(record.Quantity),
				record.Condition,
				models.FormatInt(record.RestockLevel),
			},
		})
	}
	return table
}

// Values flattens the table into header plus data rows.
func (t Table) Values() [][]string {
	values := make([][]string, 0, len(t.Rows)+1)
	values = append(values, append([]string(nil), t.Headers...))
	for _, row := range t.Rows {
		values = append(values, append([]string(nil), row.Cells...))
	}
	return values
}
