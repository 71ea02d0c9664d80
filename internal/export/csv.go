// Package export serializes a transaction collection to CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"time"

	"spendwise/internal/core"
)

// MIMEType is the content type of an exported file.
const MIMEType = "text/csv"

var header = []string{"Date", "Type", "Category", "Description", "Amount"}

// ToCSV renders one row per transaction in the collection's current order,
// after a fixed header row. Fields containing the delimiter or a quote are
// quoted with doubled internal quotes; amounts come out as plain decimals.
// An empty collection produces no output at all, not a header-only file.
func ToCSV(txs []core.Transaction) string {
	if len(txs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, tx := range txs {
		_ = w.Write([]string{
			tx.Date,
			string(tx.Type),
			string(tx.Category),
			tx.Description,
			tx.Amount.String(),
		})
	}
	w.Flush()
	return buf.String()
}

// Filename returns the conventional export name for the given export date,
// e.g. spendwise_export_2024-01-31.csv.
func Filename(exportedAt time.Time) string {
	return "spendwise_export_" + exportedAt.Format(core.DateLayout) + ".csv"
}
