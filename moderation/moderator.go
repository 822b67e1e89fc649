// Package moderation censors forbidden words in chat content.
package moderation

import (
	"log/slog"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

// folded is content reduced to lowercase letters, each rune remembering
// its position in the original text.
type folded struct {
	runes     []rune
	positions []int
}

// Review is the outcome of moderating one piece of content.
type Review struct {
	Content  string
	Words    []string
	Language string
}

// NewModerator builds the Aho-Corasick automaton over the normalized censored words.
// Words made only of noise normalize to nothing and are skipped.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		pattern := fold(word).runes
		if len(pattern) == 0 {
			log.Debug("skipping censored word without letters", "word", word)
			continue
		}
		patterns = append(patterns, pattern)
	}

	mod := &Moderator{censoredChar: censoredChar, log: log}
	if len(patterns) == 0 {
		return mod, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	mod.matcher = m
	return mod, nil
}

// Review censors content and detects its language.
func (m *Moderator) Review(content string) Review {
	censored, words := m.Censor(content)
	info := whatlanggo.Detect(content)
	return Review{
		Content:  censored,
		Words:    words,
		Language: info.Lang.Iso6391(),
	}
}

// Censor masks every forbidden word, original spacing and punctuation kept.
// Matches are returned folded, in order of appearance.
func (m *Moderator) Censor(original string) (string, []string) {
	if m.matcher == nil {
		return original, nil
	}
	text := fold(original)
	if len(text.runes) == 0 {
		return original, nil
	}

	hits := m.matcher.MultiPatternSearch(text.runes, false)
	if len(hits) == 0 {
		return original, nil
	}

	out := []rune(original)
	words := make([]string, 0, len(hits))
	for _, hit := range hits {
		last := hit.Pos + len(hit.Word) - 1
		if hit.Pos < 0 || last >= len(text.positions) {
			continue
		}
		for i := text.positions[hit.Pos]; i <= text.positions[last]; i++ {
			out[i] = m.censoredChar
		}
		words = append(words, string(hit.Word))
	}
	return string(out), words
}

func fold(input string) folded {
	var f folded
	for i, r := range []rune(input) {
		r = unleet(r)
		if isNoise(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.positions = append(f.positions, i)
	}
	return f
}

// unleet maps common leet speak characters back to letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
