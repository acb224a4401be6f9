package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// SelectIndex maps a 1-based position typed by the user onto an index in
// [0, n). Anything else, including an empty list, is ErrInvalidSelection.
func SelectIndex(n int, token string) (int, error) {
	token = strings.TrimSpace(token)
	pos, err := strconv.Atoi(token)
	if err != nil || pos < 1 || pos > n {
		return 0, fmt.Errorf("%w: %q (expected 1-%d)", ErrInvalidSelection, token, n)
	}
	return pos - 1, nil
}

// Select returns the option at the 1-based position in token.
func Select(options []string, token string) (string, error) {
	i, err := SelectIndex(len(options), token)
	if err != nil {
		return "", err
	}
	return options[i], nil
}

// SelectOptional is Select where blank input means "no choice". The boolean
// reports whether a value was chosen.
func SelectOptional(options []string, token string) (string, bool, error) {
	if strings.TrimSpace(token) == "" {
		return "", false, nil
	}
	v, err := Select(options, token)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
