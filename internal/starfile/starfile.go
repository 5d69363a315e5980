package starfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// File holds the labels and scalar fields found in a STAR file. Only the
// small subset validators need is retained: "_label value" pairs and bare
// loop column labels.
type File struct {
	values map[string]string
	labels map[string]struct{}
}

// Open reads and parses the STAR file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open star file: %w", err)
	}
	defer f.Close()
	parsed, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse star file %s: %w", path, err)
	}
	return parsed, nil
}

// Parse reads STAR content from r.
func Parse(r io.Reader) (*File, error) {
	file := &File{
		values: make(map[string]string),
		labels: make(map[string]struct{}),
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "data_") || line == "loop_" {
			continue
		}
		if !strings.HasPrefix(line, "_") {
			continue
		}
		fields := strings.Fields(line)
		label := fields[0]
		// Loop headers carry a column index comment ("_rlnMaskName #3");
		// treat those as labels, not values.
		if len(fields) == 1 || (len(fields) == 2 && strings.HasPrefix(fields[1], "#")) {
			file.labels[label] = struct{}{}
			continue
		}
		file.labels[label] = struct{}{}
		file.values[label] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read star content: %w", err)
	}
	return file, nil
}

// HasField reports whether the label appears anywhere in the file,
// either as a scalar field or a loop column.
func (f *File) HasField(label string) bool {
	_, ok := f.labels[label]
	return ok
}

// Value returns the scalar value for a "_label value" pair.
func (f *File) Value(label string) (string, bool) {
	value, ok := f.values[label]
	return value, ok
}
