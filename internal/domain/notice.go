package domain

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type Casing int

const (
	// CasingLowerFirst is used for texts already published under a decision id.
	CasingLowerFirst Casing = iota
	CasingUpperFirst
)

const noticeCitation = "(Включён в Федеральный список экстремистских материалов под номером %s)"

func ComposeNotice(link string, qualifier Qualifier, canonicalText string, id DecisionID, casing Casing) string {
	return fmt.Sprintf("%s %s %s"+noticeCitation, link, qualifier.Token(), applyCasing(canonicalText, casing), id)
}

func applyCasing(text string, casing Casing) string {
	first, size := utf8.DecodeRuneInString(text)
	if first == utf8.RuneError {
		return text
	}

	switch casing {
	case CasingUpperFirst:
		first = unicode.ToUpper(first)
	default:
		first = unicode.ToLower(first)
	}

	return string(first) + text[size:]
}
