// Package checks loads the selector list a document is graded against.
package checks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
)

// DefaultFile is the checks file used when none is given.
const DefaultFile = "checks.json"

// ErrNotExist is returned by EnsureExists for a missing path.
var ErrNotExist = fs.ErrNotExist

// EnsureExists returns path unchanged if something exists there.
func EnsureExists(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s does not exist: %w", path, ErrNotExist)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return path, nil
}

// Load reads a JSON array of selectors from path.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checks: %w", err)
	}
	defer f.Close()

	sels, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sels, nil
}

// ErrNotArray is returned for a checks document that is valid JSON but not
// an array, e.g. null.
var ErrNotArray = errors.New("checks must be a JSON array")

// Parse decodes a JSON array of selector strings and returns it sorted with
// duplicates removed. The whole input must be one JSON value.
func Parse(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read checks: %w", err)
	}
	var sels []string
	if err := json.Unmarshal(data, &sels); err != nil {
		return nil, fmt.Errorf("decode checks: %w", err)
	}
	if sels == nil {
		return nil, ErrNotArray
	}
	return Normalize(sels), nil
}

// Normalize sorts sels in place and drops duplicates.
func Normalize(sels []string) []string {
	slices.Sort(sels)
	return slices.Compact(sels)
}
