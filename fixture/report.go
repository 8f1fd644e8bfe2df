package fixture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/annlab/annfix/persistence"
)

// ReportEntry is one line of a neighbor report: a query item ID and the IDs
// of its nearest neighbors, nearest first.
type ReportEntry struct {
	QueryID   uint32
	Neighbors []uint32
}

// FormatEntry renders an entry in the report line format:
// the query ID, a tab, and the comma-joined neighbor IDs.
func FormatEntry(e ReportEntry) string {
	ids := make([]string, len(e.Neighbors))
	for i, id := range e.Neighbors {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	return fmt.Sprintf("%d\t%s", e.QueryID, strings.Join(ids, ","))
}

// WriteReport writes a neighbor report atomically: the file appears complete
// or not at all, and any existing file is overwritten in one step.
func WriteReport(path string, entries []ReportEntry) error {
	return persistence.SaveToFile(path, func(w io.Writer) error {
		for _, e := range entries {
			if _, err := fmt.Fprintln(w, FormatEntry(e)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadReport parses a neighbor report file.
func ReadReport(path string) ([]ReportEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []ReportEntry
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		entry, err := parseEntry(text)
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, err: err}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseEntry(text string) (ReportEntry, error) {
	queryPart, neighborPart, ok := strings.Cut(text, "\t")
	if !ok {
		return ReportEntry{}, fmt.Errorf("missing tab separator")
	}

	queryID, err := strconv.ParseUint(queryPart, 10, 32)
	if err != nil {
		return ReportEntry{}, fmt.Errorf("query ID: %w", err)
	}

	fields := strings.Split(neighborPart, ",")
	neighbors := make([]uint32, len(fields))
	for i, field := range fields {
		id, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return ReportEntry{}, fmt.Errorf("neighbor %d: %w", i+1, err)
		}
		neighbors[i] = uint32(id)
	}

	return ReportEntry{QueryID: uint32(queryID), Neighbors: neighbors}, nil
}
