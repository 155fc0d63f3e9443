// Package segment handles the per-segment text files that tie narration,
// audio and frame artifacts together by a shared filename stem.
package segment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextExt is the extension of segment text files.
const TextExt = ".txt"

var blankLines = regexp.MustCompile(`\n\s*\n`)

// ReadText reads a UTF-8 segment file. A leading byte order mark is dropped
// and the content is NFC normalised so composed characters measure as one
// glyph.
func ReadText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("segment: open %q: %w", path, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(file, decoder))
	if err != nil {
		return "", fmt.Errorf("segment: read %q: %w", path, err)
	}
	return norm.NFC.String(string(data)), nil
}

// SplitScript breaks a narration script into paragraphs. Paragraphs are
// separated by one or more blank lines; lines holding only whitespace count
// as blank.
func SplitScript(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var paragraphs []string
	for _, part := range blankLines.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		paragraphs = append(paragraphs, part)
	}
	return paragraphs
}

// WriteSegments writes paragraphs to dir as 1.txt, 2.txt, ... and returns
// the written paths in order.
func WriteSegments(dir string, paragraphs []string) ([]string, error) {
	if len(paragraphs) == 0 {
		return nil, errors.New("segment: no paragraphs to write")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("segment: create %q: %w", dir, err)
	}

	paths := make([]string, 0, len(paragraphs))
	for i, paragraph := range paragraphs {
		path := filepath.Join(dir, strconv.Itoa(i+1)+TextExt)
		if err := os.WriteFile(path, []byte(paragraph), 0o644); err != nil {
			return paths, fmt.Errorf("segment: write %q: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// List returns the regular files in dir whose extension (case-insensitive)
// is one of exts, in natural order.
func List(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("segment: list %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	SortNatural(paths)
	return paths, nil
}

// ListStems maps the lower-cased stem of every matching file in dir to its
// path.
func ListStems(dir string, exts ...string) (map[string]string, error) {
	paths, err := List(dir, exts...)
	if err != nil {
		return nil, err
	}
	stems := make(map[string]string, len(paths))
	for _, path := range paths {
		stems[strings.ToLower(Stem(path))] = path
	}
	return stems, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range exts {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}
