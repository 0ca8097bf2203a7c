// Package moderation masks censored words in displayed chat lines. The
// matcher is Aho-Corasick over a normalized alphabet, so leet speak and
// punctuation games do not slip through.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"streamchat/errors"
)

type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

type textMapping struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the Aho-Corasick automaton from a normalized
// version of the censored words list. Entries that normalize to
// nothing (pure noise) are dropped, duplicates are collapsed.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (Moderator, error) {
	seen := make(map[string]struct{}, len(censoredWords))
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		normalized := normalizeRunes([]rune(word))
		if len(normalized) == 0 {
			log.Debug("Skipping unsearchable censored entry", "entry", word)
			continue
		}
		key := string(normalized)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		patterns = append(patterns, normalized)
	}
	if len(patterns) == 0 {
		return Moderator{}, errors.ErrEmptyWords
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m, censoredChar: censoredChar, log: log}, nil
}

// Censor replaces every censored span with the replacement character,
// preserving length and spacing, and reports the normalized words that
// matched, in match order.
func (m *Moderator) Censor(original string) (string, []string) {
	mapping := m.normalize(original)
	if len(mapping.normalized) == 0 {
		return original, nil
	}

	origRunes := []rune(original)
	spans := m.matcher.MultiPatternSearch(mapping.normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	var found []string
	for _, span := range spans {
		normStart := span.Pos
		normEnd := normStart + len(span.Word)

		if normStart < 0 || normEnd > len(mapping.origIdx) {
			continue
		}

		origStart := mapping.origIdx[normStart]
		lastCharOrigIdx := mapping.origIdx[normEnd-1]
		origEnd := lastCharOrigIdx + 1

		for i := origStart; i < origEnd; i++ {
			origRunes[i] = m.censoredChar
		}
		found = append(found, string(span.Word))
	}

	return string(origRunes), found
}

// normalize transforms the input string into a searchable format and tracks original rune positions.
func (m *Moderator) normalize(input string) textMapping {
	origRunes := []rune(input)
	norm := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))

	for i, r := range origRunes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		norm = append(norm, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return textMapping{normalized: norm, origIdx: origIdx}
}

// normalizeRunes applies simplification and noise removal to a slice of runes.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common Leet speak characters back to their standard alphabet counterparts.
func simplifyRune(r rune) rune {
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

// isNoise identifies characters that should be ignored during the pattern matching phase.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
