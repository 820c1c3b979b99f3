package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mnhoang/placement-api/internal/model"
)

// AnswerValueKind tags the variant an answer value carries. The kind is
// determined by the question type, never guessed from delimiters.
type AnswerValueKind string

const (
	AnswerKindSingle     AnswerValueKind = "single"
	AnswerKindSet        AnswerValueKind = "set"
	AnswerKindStructured AnswerValueKind = "structured"
	AnswerKindFreeText   AnswerValueKind = "free_text"
)

// AnswerValue is the typed form of a submitted answer. It is serialized once
// at the storage boundary and decoded once at grading time, keyed by the
// question type.
type AnswerValue struct {
	Kind       AnswerValueKind
	Single     string
	Set        []string
	Structured map[string]string
	FreeText   string
}

// kindForQuestionType maps a question type to the value variant it accepts.
func kindForQuestionType(questionType string) (AnswerValueKind, error) {
	switch questionType {
	case model.QuestionTypeMCQ, model.QuestionTypeShort:
		return AnswerKindSingle, nil
	case model.QuestionTypeCheckbox:
		return AnswerKindSet, nil
	case model.QuestionTypeMixed:
		return AnswerKindStructured, nil
	case model.QuestionTypeLong:
		return AnswerKindFreeText, nil
	default:
		return "", fmt.Errorf("unknown question type %q", questionType)
	}
}

// ParseAnswerValue converts a raw client submission into the typed variant
// for the given question type. Checkbox submissions are comma-separated,
// mixed submissions are a JSON object of part name to part answer.
func ParseAnswerValue(questionType, raw string) (AnswerValue, error) {
	kind, err := kindForQuestionType(questionType)
	if err != nil {
		return AnswerValue{}, err
	}
	switch kind {
	case AnswerKindSingle:
		return AnswerValue{Kind: AnswerKindSingle, Single: strings.TrimSpace(raw)}, nil
	case AnswerKindSet:
		return AnswerValue{Kind: AnswerKindSet, Set: splitTokenSet(raw)}, nil
	case AnswerKindStructured:
		parts := make(map[string]string)
		if strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &parts); err != nil {
				return AnswerValue{}, fmt.Errorf("%w: mixed answers must be a JSON object", ErrInvalidAnswer)
			}
		}
		return AnswerValue{Kind: AnswerKindStructured, Structured: parts}, nil
	default:
		return AnswerValue{Kind: AnswerKindFreeText, FreeText: raw}, nil
	}
}

// DecodeStoredAnswer rebuilds the typed variant from its stored encoding.
// Stored values were produced by Encode, so decoding cannot fail except for
// structured values, which fall back to an empty part map.
func DecodeStoredAnswer(questionType, stored string) AnswerValue {
	kind, err := kindForQuestionType(questionType)
	if err != nil {
		return AnswerValue{Kind: AnswerKindFreeText, FreeText: stored}
	}
	switch kind {
	case AnswerKindSingle:
		return AnswerValue{Kind: AnswerKindSingle, Single: stored}
	case AnswerKindSet:
		return AnswerValue{Kind: AnswerKindSet, Set: splitTokenSet(stored)}
	case AnswerKindStructured:
		parts := make(map[string]string)
		if stored != "" {
			_ = json.Unmarshal([]byte(stored), &parts)
		}
		return AnswerValue{Kind: AnswerKindStructured, Structured: parts}
	default:
		return AnswerValue{Kind: AnswerKindFreeText, FreeText: stored}
	}
}

// Encode serializes the value for storage: sets as a canonical comma join,
// structured values as JSON, everything else verbatim.
func (v AnswerValue) Encode() (string, error) {
	switch v.Kind {
	case AnswerKindSingle:
		return v.Single, nil
	case AnswerKindSet:
		tokens := append([]string(nil), v.Set...)
		sort.Strings(tokens)
		return strings.Join(tokens, ","), nil
	case AnswerKindStructured:
		if len(v.Structured) == 0 {
			return "", nil
		}
		data, err := json.Marshal(v.Structured)
		if err != nil {
			return "", fmt.Errorf("failed to encode structured answer: %w", err)
		}
		return string(data), nil
	case AnswerKindFreeText:
		return v.FreeText, nil
	default:
		return "", fmt.Errorf("unknown answer value kind %q", v.Kind)
	}
}

// IsBlank reports whether nothing was actually submitted.
func (v AnswerValue) IsBlank() bool {
	switch v.Kind {
	case AnswerKindSingle:
		return strings.TrimSpace(v.Single) == ""
	case AnswerKindSet:
		return len(v.Set) == 0
	case AnswerKindStructured:
		return len(v.Structured) == 0
	default:
		return strings.TrimSpace(v.FreeText) == ""
	}
}

// splitTokenSet splits a comma-separated token list, trimming whitespace and
// dropping empty entries.
func splitTokenSet(raw string) []string {
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
