package runtime

import (
	"bufio"
	"chat-relay/errors"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const dictionaryExt = ".txt"

// CensoredData is the merged content of every dictionary found.
type CensoredData struct {
	Words     []string
	Languages []string
}

// CensoredLoader reads one word per line from "<lang>.txt" dictionaries.
type CensoredLoader struct {
	fs fs.FS
}

func NewCensoredLoader(fsys fs.FS) *CensoredLoader {
	return &CensoredLoader{fs: fsys}
}

// LoadAll merges the dictionaries of dir. Words are deduplicated and sorted,
// blank lines ignored. It fails when no word at all was found.
func (l *CensoredLoader) LoadAll(dir string) (*CensoredData, error) {
	files, err := fs.Glob(l.fs, path.Join(dir, "*"+dictionaryExt))
	if err != nil {
		return nil, err
	}
	slices.Sort(files)

	data := &CensoredData{}
	for _, file := range files {
		words, err := l.readWords(file)
		if err != nil {
			return nil, err
		}
		data.Languages = append(data.Languages, strings.TrimSuffix(path.Base(file), dictionaryExt))
		data.Words = append(data.Words, words...)
	}

	data.Words = lo.Uniq(data.Words)
	if len(data.Words) == 0 {
		return nil, errors.ErrEmptyWords
	}
	slices.Sort(data.Words)
	return data, nil
}

func (l *CensoredLoader) readWords(file string) ([]string, error) {
	f, err := l.fs.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if word := strings.TrimSpace(scanner.Text()); word != "" {
			words = append(words, word)
		}
	}
	return words, scanner.Err()
}
