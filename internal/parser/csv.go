package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvBatchSize is the number of data rows per block.
const csvBatchSize = 20

// CSVParser handles CSV files. Rows are written as "header: value" pairs,
// grouped into blocks of csvBatchSize rows that each repeat the header list.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]
	if len(dataRows) == 0 {
		return "Headers: " + strings.Join(headers, ", "), nil
	}

	var blocks []string
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		var text strings.Builder
		fmt.Fprintf(&text, "Rows %d-%d\n", i+2, end+1) // 1-indexed, skip header
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}
		blocks = append(blocks, text.String())
	}
	return joinBlocks(blocks), nil
}
