// Package preprocess does textual %include and %define expansion, run
// before the lexer sees the source. Grounded in the tinyvm reference
// preprocessor (original_source/src/preprocessor.rs), reworked as a
// line-oriented Go pass instead of an in-place C-string rewrite.
package preprocess

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokInclude = "%include"
	tokDefine  = "%define"
)

// DuplicateDefineError mirrors the reference implementation's
// PreprocessingError::DuplicateDefine: %define may not redefine a name with
// a different value.
type DuplicateDefineError struct {
	Name          string
	OriginalValue string
	NewValue      string
}

func (e *DuplicateDefineError) Error() string {
	return fmt.Sprintf("%%define %s: already defined as %q, cannot redefine as %q",
		e.Name, e.OriginalValue, e.NewValue)
}

// File reads filename (trying the bare name, then name+".vm") and expands
// %include/%define directives, returning the fully-expanded source text.
func File(filename string) (string, error) {
	data, err := readSourceFile(filename)
	if err != nil {
		return "", err
	}
	return expand(string(data), filepath.Dir(filename), map[string]string{})
}

func readSourceFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err == nil {
		return data, nil
	}
	if _, statErr := os.Stat(filename); statErr == nil {
		return nil, err
	}
	return os.ReadFile(filename + ".vm")
}

func expand(src string, baseDir string, defines map[string]string) (string, error) {
	lines := strings.Split(src, "\n")
	var out []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, tokInclude):
			name := strings.Trim(strings.TrimSpace(trimmed[len(tokInclude):]), `"`)
			if name == "" {
				return "", fmt.Errorf("%%include with no filename")
			}
			path := name
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, name)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("%%include %q: %w", name, err)
			}
			included, err := expand(string(data), filepath.Dir(path), defines)
			if err != nil {
				return "", err
			}
			out = append(out, included)

		case strings.HasPrefix(trimmed, tokDefine):
			rest := strings.TrimSpace(trimmed[len(tokDefine):])
			if rest == "" {
				return "", fmt.Errorf("%%define with no name")
			}
			fields := strings.Fields(rest)
			name := fields[0]
			value := strings.TrimSpace(strings.TrimPrefix(rest, name))
			if existing, ok := defines[name]; ok && existing != value {
				return "", &DuplicateDefineError{Name: name, OriginalValue: existing, NewValue: value}
			}
			defines[name] = value
			out = append(out, "") // keep line numbers stable for diagnostics

		default:
			out = append(out, substituteDefines(line, defines))
		}
	}

	return strings.Join(out, "\n"), nil
}

// substituteDefines replaces bare identifier occurrences of defined names
// with their values. Matching is by whole identifier, so a defined name
// that is a prefix of a longer identifier is not replaced inside it.
func substituteDefines(line string, defines map[string]string) string {
	if len(defines) == 0 {
		return line
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(line))
	scanner.Split(splitIdentsAndRest)
	for scanner.Scan() {
		tok := scanner.Text()
		if val, ok := defines[tok]; ok {
			sb.WriteString(val)
		} else {
			sb.WriteString(tok)
		}
	}
	return sb.String()
}

// splitIdentsAndRest is a bufio.SplitFunc that yields maximal identifier
// runs and single non-identifier bytes, so substituteDefines can replace
// whole-identifier matches without touching surrounding punctuation.
func splitIdentsAndRest(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if len(data) == 0 {
		return 0, nil, nil
	}

	isIdentByte := func(b byte) bool {
		return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
	}

	if isIdentByte(data[0]) {
		i := 1
		for i < len(data) && isIdentByte(data[i]) {
			i++
		}
		if i == len(data) && !atEOF {
			return 0, nil, nil
		}
		return i, data[:i], nil
	}

	return 1, data[:1], nil
}
