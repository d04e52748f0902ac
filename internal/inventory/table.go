package inventory

import (
	"fmt"
	"io"

	"github.com/saltyorg/fruitstock/internal/database"
)

const (
	tableBorder = "+-------+-----------------+-------------+"
	tableHeader = "| ID    | Name            | Weight (kg) |"
	tableRow    = "| %-5d | %-15s | %8.2f kg |\n"
)

// WriteTable prints fruits between border lines. With no fruits only the
// header and borders are written.
func WriteTable(w io.Writer, fruits []database.Fruit) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", tableBorder, tableHeader, tableBorder); err != nil {
		return err
	}
	for _, f := range fruits {
		if _, err := fmt.Fprintf(w, tableRow, f.ID, f.Name, f.Weight); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, tableBorder)
	return err
}
