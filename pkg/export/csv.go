package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang-sentiment-scryper/internal/entity"
)

// Header is the first record of every export.
var Header = []string{"post_id", "content", "date", "sentiment_score", "sentiment_label"}

// WriteCSV writes rows in order after the header. A missing score is written
// as an empty cell.
func WriteCSV(w io.Writer, rows []entity.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.PostID,
			row.Content,
			row.Date.String(),
			row.SentimentScore.String(),
			row.SentimentLabel,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.PostID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
