package fixture

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseError reports a malformed line in a point or report file.
type ParseError struct {
	Path string
	Line int
	err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.err)
}

func (e *ParseError) Unwrap() error { return e.err }

// ReadPoints reads a point set from a delimited text file: one point per
// line, comma-separated decimal floats, exactly dim fields per line. The
// zero-based line position becomes the item ID.
func ReadPoints(path string, dim int) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points [][]float32
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Split(strings.TrimSpace(scanner.Text()), ",")
		if len(fields) != dim {
			return nil, &ParseError{
				Path: path,
				Line: line,
				err:  fmt.Errorf("got %d fields, want %d", len(fields), dim),
			}
		}

		point := make([]float32, dim)
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
			if err != nil {
				return nil, &ParseError{
					Path: path,
					Line: line,
					err:  fmt.Errorf("field %d: %w", i+1, err),
				}
			}
			point[i] = float32(v)
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
