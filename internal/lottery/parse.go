package lottery

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseCSV reads a draw-history CSV export and returns the draws in file
// order (the merseyworld export lists newest first). The export has a title
// line above the real header and a couple of footer lines; rows whose number
// columns don't parse cleanly are skipped, matching how sloppy the feed is.
func ParseCSV(r io.Reader, rules Rules) ([]Draw, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	headerIdx := -1
	for i, line := range lines {
		if containsColumn(line, "N1") {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, fmt.Errorf("parse csv: header row with N1 column not found")
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("parse csv: no data rows")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	mainCols := make([]int, 0, rules.MainCount)
	for i := 1; i <= rules.MainCount; i++ {
		idx, ok := colIdx[fmt.Sprintf("N%d", i)]
		if !ok {
			return nil, fmt.Errorf("parse csv: column N%d missing", i)
		}
		mainCols = append(mainCols, idx)
	}
	specialCols := make([]int, 0, rules.SpecialCount)
	for i := 1; i <= rules.SpecialCount; i++ {
		idx, ok := colIdx[fmt.Sprintf("L%d", i)]
		if !ok {
			return nil, fmt.Errorf("parse csv: column L%d missing", i)
		}
		specialCols = append(specialCols, idx)
	}

	var draws []Draw
	for _, record := range records[1:] {
		main, ok := parseCols(record, mainCols)
		if !ok {
			continue // footer or malformed row
		}
		special, ok := parseCols(record, specialCols)
		if !ok {
			continue
		}
		draws = append(draws, NewDraw(main, special))
	}
	return draws, nil
}

func containsColumn(line, name string) bool {
	for _, field := range strings.Split(line, ",") {
		if strings.TrimSpace(field) == name {
			return true
		}
	}
	return false
}

func parseCols(record []string, cols []int) ([]int, bool) {
	nums := make([]int, 0, len(cols))
	for _, idx := range cols {
		if idx >= len(record) {
			return nil, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(record[idx]))
		if err != nil {
			return nil, false
		}
		nums = append(nums, n)
	}
	return nums, true
}
