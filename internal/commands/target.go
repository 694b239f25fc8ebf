package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// Candidate is something a palette target can point at.
type Candidate struct {
	ID    string
	Title string
}

// Resolve maps target onto one candidate id. Targets are tried as a 1-based
// index, an exact id, a case-insensitive title and finally a unique title
// prefix.
func Resolve(target string, candidates []Candidate) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", invalid("target is empty")
	}
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(candidates) {
			return "", &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no item #%d (have %d)", n, len(candidates))}
		}
		return candidates[n-1].ID, nil
	}
	for _, c := range candidates {
		if c.ID == target {
			return c.ID, nil
		}
	}
	for _, c := range candidates {
		if strings.EqualFold(c.Title, target) {
			return c.ID, nil
		}
	}

	lower := strings.ToLower(target)
	match := ""
	for _, c := range candidates {
		if !strings.HasPrefix(strings.ToLower(c.Title), lower) {
			continue
		}
		if match != "" {
			return "", &CommandError{Code: ErrCodeAmbiguous, Message: fmt.Sprintf("%q matches more than one item", target)}
		}
		match = c.ID
	}
	if match == "" {
		return "", &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("nothing matches %q", target)}
	}
	return match, nil
}
