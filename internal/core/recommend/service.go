package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lekturahq/lektura/internal/platform/validate"
)

// FieldInterests is the validation identifier for the interests input.
const FieldInterests = "interests"

// # Service Layer

// Service turns a user's interests into book suggestions via the model.
type Service struct {
	llm    LLMClient
	logger *slog.Logger
}

// NewService constructs a new [Service] around a model client.
func NewService(llm LLMClient, logger *slog.Logger) *Service {
	return &Service{
		llm:    llm,
		logger: logger,
	}
}

/*
Recommend asks the model for suggestions matching the given interests.

Description: The model's answer is expected to be a JSON array of
suggestions; code fences around it are tolerated. Any failure, from
transport errors to an unparseable answer, degrades to a [Result] carrying
[FallbackMessage]. The caller can always render the result.

Parameters:
  - context: context.Context
  - interests: string (Free-form description of what the user enjoys)

Returns:
  - *Result: Suggestions, or the fallback message
  - error: Validation errors only
*/
func (service *Service) Recommend(context context.Context, interests string) (*Result, error) {
	validator := &validate.Validator{}
	validator.Required(FieldInterests, interests).MaxLen(FieldInterests, interests, 2000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Recommend 5 books for a reader interested in: %s", interests)

	answer, err := service.llm.Generate(context, prompt)
	if err != nil {
		service.logger.Warn("recommendation model unavailable", slog.String("error", err.Error()))
		return &Result{Message: FallbackMessage}, nil
	}

	suggestions, err := parseSuggestions(answer)
	if err != nil {
		service.logger.Warn("recommendation answer unparseable", slog.String("error", err.Error()))
		return &Result{Message: FallbackMessage}, nil
	}

	return &Result{Suggestions: suggestions}, nil
}

// parseSuggestions extracts the JSON array from the model's answer.
func parseSuggestions(answer string) ([]Suggestion, error) {
	cleaned := strings.TrimSpace(answer)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	if len(suggestions) == 0 {
		return nil, fmt.Errorf("empty suggestion list")
	}

	return suggestions, nil
}
