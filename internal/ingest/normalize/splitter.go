package normalize

import (
	"bufio"
	"bytes"
	_ "embed"
	"os"
	"strings"

	"go.uber.org/zap"
)

//go:embed data/first_names.txt
var firstNamesData []byte

// Splitter divides a single display string into first and last name
// using a dictionary of known first names. The dictionary is loaded
// once at startup and never mutated afterwards.
type Splitter struct {
	knownFirstNames map[string]struct{}
	logger          *zap.Logger
}

// NewSplitter builds a Splitter from the bundled word list, falling
// back to the built-in name set when the list yields nothing.
func NewSplitter(logger *zap.Logger) *Splitter {
	s := &Splitter{
		knownFirstNames: make(map[string]struct{}),
		logger:          logger.Named("name_splitter"),
	}
	s.load(firstNamesData)
	if len(s.knownFirstNames) == 0 {
		s.loadDefaults()
	}
	s.logger.Info("Loaded first-name dictionary", zap.Int("names", len(s.knownFirstNames)))
	return s
}

// NewSplitterFromFile loads the dictionary from path instead of the
// bundled list; on read failure it falls back to NewSplitter.
func NewSplitterFromFile(path string, logger *zap.Logger) *Splitter {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to load first-name dictionary, using bundled list",
			zap.String("path", path),
			zap.Error(err),
		)
		return NewSplitter(logger)
	}
	s := &Splitter{
		knownFirstNames: make(map[string]struct{}),
		logger:          logger.Named("name_splitter"),
	}
	s.load(data)
	if len(s.knownFirstNames) == 0 {
		s.loadDefaults()
	}
	s.logger.Info("Loaded first-name dictionary",
		zap.String("path", path),
		zap.Int("names", len(s.knownFirstNames)),
	)
	return s
}

// load reads one name per line; '#' lines are comments. Entries with
// a trailing ",gender" or ";gender" column keep only the name.
func (s *Splitter) load(data []byte) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := line
		if i := strings.IndexAny(line, ",;"); i >= 0 {
			name = line[:i]
		}
		if key := dictionaryKey(name); key != "" {
			s.knownFirstNames[key] = struct{}{}
		}
	}
}

func (s *Splitter) loadDefaults() {
	for _, name := range defaultFirstNames {
		s.knownFirstNames[dictionaryKey(name)] = struct{}{}
	}
	s.logger.Warn("Using built-in first-name fallback list",
		zap.Int("names", len(s.knownFirstNames)))
}

// dictionaryKey lowercases and strips hyphens and apostrophes so that
// compound names compare the same way on both sides of the lookup.
func dictionaryKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "")
	return strings.ReplaceAll(name, "'", "")
}

// Split divides fullName into (firstName, lastName).
//
// A single token becomes both parts. Two tokens map directly. With
// three or more, tokens are consumed left to right while they appear
// in the dictionary; the final token is always reserved for the last
// name. When no token matches, the first token alone is the first
// name.
func (s *Splitter) Split(fullName string) (firstName, lastName string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "Unknown", "Unknown"
	}

	tokens := strings.Fields(fullName)
	switch len(tokens) {
	case 1:
		return tokens[0], tokens[0]
	case 2:
		return tokens[0], tokens[1]
	}

	end := s.firstNameEnd(tokens)
	return strings.Join(tokens[:end+1], " "), strings.Join(tokens[end+1:], " ")
}

// firstNameEnd returns the index of the last token that belongs to
// the first name.
func (s *Splitter) firstNameEnd(tokens []string) int {
	last := -1
	for i := 0; i < len(tokens)-1; i++ {
		if _, ok := s.knownFirstNames[dictionaryKey(tokens[i])]; !ok {
			break
		}
		last = i
	}
	if last >= 0 {
		return last
	}
	return 0
}
