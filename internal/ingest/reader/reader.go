// Package reader decodes uploaded exports into flat CSV records or a
// navigable JSON tree. All errors here are fatal for the whole import:
// undecodable bytes, malformed JSON or a missing candidates array mean
// nothing is persisted.
package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/charmap"
)

// Separator used by both CSV dialects.
const Separator = ';'

// ReadCSV decodes data as UTF-8, falling back to Latin-1 when the
// bytes are not valid UTF-8, and returns all records after the header
// row with all-blank rows filtered out.
func ReadCSV(data []byte) ([][]string, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = Separator
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	// First row is always a header.
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if !isEmptyRecord(rec) {
			rows = append(rows, rec)
		}
	}
	return rows, nil
}

func decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode file as UTF-8 or ISO-8859-1: %w", err)
	}
	return string(decoded), nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// ParseTree parses the full byte stream into a JSON tree. Malformed
// JSON is a whole-file error; there is no partial recovery.
func ParseTree(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("failed to parse JSON")
	}
	return gjson.ParseBytes(bytes.TrimSpace(data)), nil
}

// candidatePaths are the known provider shapes, probed in order.
// Adding a new shape means appending one entry.
var candidatePaths = []string{
	"candidates",
	"jobPost.candidates",
	"data.candidates",
}

// FindCandidates locates the candidates array in the tree. First
// match wins; when no path matches and the root itself is not an
// array the whole file is rejected.
func FindCandidates(root gjson.Result) (gjson.Result, error) {
	for _, path := range candidatePaths {
		node := root.Get(path)
		if node.IsArray() {
			return node, nil
		}
	}
	if root.IsArray() {
		return root, nil
	}
	return gjson.Result{}, fmt.Errorf("no candidates array found in JSON")
}
