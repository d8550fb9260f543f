package catalog

import (
	"fmt"
	"os"
	"strings"
)

// Parse turns raw CSV text into records using a fixed column layout.
//
// The first line is always treated as a header. Empty lines and rows with
// fewer than layout.MinFields fields are skipped; Parse never fails.
func Parse(raw string, layout Layout) []Record {
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return []Record{}
	}

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		f := ParseLine(line)
		if len(f) < layout.MinFields {
			continue
		}
		records = append(records, layout.build(f))
	}
	return records
}

// ParseLine splits one CSV row on commas outside double quotes. A quote
// character only toggles quoting and is dropped; "" is not unescaped.
func ParseLine(line string) []string {
	out := make([]string, 0, 54)
	var b strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	return append(out, b.String())
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string, layout Layout) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(string(raw), layout), nil
}
