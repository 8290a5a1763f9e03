// file: internal/revs.go

package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRevs parses a comma-separated list of revolution bit lengths, as
// passed on the command line ("100000,100000").
func ParseRevs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	revs := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid revolution length %q", p)
		}
		revs = append(revs, n)
	}
	return revs, nil
}
