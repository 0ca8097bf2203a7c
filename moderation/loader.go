package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"path"
	"strings"

	"streamchat/errors"
)

//go:embed censored/*.txt
var censoredFS embed.FS

// CensoredData carries the result of the loading process including metadata for logging.
type CensoredData struct {
	Words     []string
	Languages []string
}

// Loader reads and parses blacklisted words from a file system, one
// .txt dictionary per language. The same loader serves the embedded
// defaults and on-disk override directories.
type Loader struct {
	fsys fs.FS
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// DefaultLists loads the dictionaries shipped with the binary.
func DefaultLists() (*CensoredData, error) {
	return NewLoader(censoredFS).LoadAll("censored")
}

// LoadAll scans the given directory, identifying .txt files as
// language dictionaries and parsing their contents into a unique list
// of words.
func (l *Loader) LoadAll(dir string) (*CensoredData, error) {
	entries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() {
			return nil, errors.ErrOnlyCensoredFiles
		}
		if !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		// Track the language based on the filename (e.g., "fr.txt" -> "fr")
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(l.fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		// A scanner handles both line endings (\n vs \r\n) correctly
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				uniqueWords[line] = struct{}{}
			}
		}

		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(uniqueWords) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(uniqueWords))
	for w := range uniqueWords {
		words = append(words, w)
	}

	return &CensoredData{
		Words:     words,
		Languages: languages,
	}, nil
}
