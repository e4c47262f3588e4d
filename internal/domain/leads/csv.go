package leads

import (
	"bufio"
	"io"
	"strings"
)

// CSVHeader is the column order of the lead export.
var CSVHeader = []string{"Name", "Email", "Phone", "Business", "Industry", "Status", "Source", "Created"}

// WriteCSV writes the header and one row per lead. Every field is quoted,
// which encoding/csv only does for fields that need it.
func WriteCSV(w io.Writer, list []Lead) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, CSVHeader); err != nil {
		return err
	}
	for _, l := range list {
		row := []string{
			l.Name,
			l.Email,
			l.Phone,
			l.Business,
			l.Industry,
			l.Status,
			l.Source,
			l.CreatedAt.Format("2006-01-02"),
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
