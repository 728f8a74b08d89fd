package usecase

import (
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/labelscan/backend/internal/logger"
)

// TextNormalizer turns raw OCR output into the form the catalog patterns expect
type TextNormalizer struct {
	enableDebugLogging bool
	log                zerolog.Logger
}

// NewTextNormalizer creates a new text normalizer
func NewTextNormalizer(enableDebugLogging bool) *TextNormalizer {
	return &TextNormalizer{
		enableDebugLogging: enableDebugLogging,
		log:                logger.WithComponent("normalizer"),
	}
}

// Normalize lowercases the text and strips every space character.
// Newlines and tabs are kept.
func (n *TextNormalizer) Normalize(raw string) string {
	normalized := NormalizeText(raw)

	if n.enableDebugLogging {
		n.log.Debug().
			Int("raw_length", len(raw)).
			Int("normalized_length", len(normalized)).
			Str("normalized", normalized).
			Msg("normalized OCR text")
	}

	return normalized
}

// NormalizeText lowercases s with Unicode case rules and removes U+0020 spaces.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	// Caser values are stateful, so one is built per call.
	lowered := cases.Lower(language.Und).String(s)
	return strings.ReplaceAll(lowered, " ", "")
}
