package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/config"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
)

// ErrUnresolved is returned by an oracle that could not produce an answer.
// An unresolved answer must never be written into the answer store.
var ErrUnresolved = errors.New("answer unresolved")

// AnswerOracle produces an answer for a form question when the store has
// none, or when a critical question demands re-resolution. Implementations
// may be model-backed or human-backed; the engine never branches on which.
type AnswerOracle interface {
	// Resolve answers the question. For choice kinds, options holds the
	// selectable option texts and the response may be a 1-based numeric
	// index into them. A failed resolution returns an error wrapping
	// ErrUnresolved.
	Resolve(question, fieldKind string, options []string, job *models.JobContext) (string, error)
}

// NewAnswerOracle builds the oracle selected by the runtime config.
func NewAnswerOracle(cfg *config.Config) AnswerOracle {
	if cfg.Runtime.Oracle == "prompt" {
		return NewPromptOracle()
	}
	return NewLLMOracle()
}

// MapOracleChoice maps an oracle response onto one of the option texts.
// Numeric responses are treated as 1-based indexes; otherwise the match is
// case-folded exact first, then containment in either direction. Returns
// false when nothing matches.
func MapOracleChoice(answer string, options []string) (string, bool) {
	answer = strings.TrimSpace(strings.Trim(strings.TrimSpace(answer), `"'`))
	if answer == "" || len(options) == 0 {
		return "", false
	}

	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}

	folded := normalizeLabel(answer)
	for _, opt := range options {
		if normalizeLabel(opt) == folded {
			return opt, true
		}
	}
	for _, opt := range options {
		optFolded := normalizeLabel(opt)
		if strings.Contains(optFolded, folded) || strings.Contains(folded, optFolded) {
			return opt, true
		}
	}
	return "", false
}
