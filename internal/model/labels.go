package model

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseLabels reads a class-label list, one label per line, in class-id
// order. Trailing whitespace is stripped; blank lines are ignored.
func ParseLabels(r io.Reader) ([]string, error) {
	var labels []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label list is empty")
	}
	return labels, nil
}
