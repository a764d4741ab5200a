package recommend_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lekturahq/lektura/internal/core/recommend"
)

type fakeLLM struct {
	answer string
	err    error
}

func (llm *fakeLLM) Generate(_ context.Context, _ string) (string, error) {
	return llm.answer, llm.err
}

func newTestService(llm *fakeLLM) *recommend.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return recommend.NewService(llm, logger)
}

/*
TestService_Recommend verifies a well-formed model answer becomes a
suggestion list.
*/
func TestService_Recommend(t *testing.T) {
	service := newTestService(&fakeLLM{
		answer: `[{"title":"Dune","author":"Frank Herbert","reason":"Desert epic"}]`,
	})

	result, err := service.Recommend(context.Background(), "space opera")
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "Dune", result.Suggestions[0].Title)
	assert.Empty(t, result.Message)
}

/*
TestService_Recommend_CodeFence verifies fenced answers still parse.
*/
func TestService_Recommend_CodeFence(t *testing.T) {
	service := newTestService(&fakeLLM{
		answer: "```json\n[{\"title\":\"Emma\",\"author\":\"Jane Austen\",\"reason\":\"Wit\"}]\n```",
	})

	result, err := service.Recommend(context.Background(), "regency romance")
	require.NoError(t, err)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "Emma", result.Suggestions[0].Title)
}

/*
TestService_Recommend_Fallback verifies model failures degrade to the
fallback message, never to an error.
*/
func TestService_Recommend_Fallback(t *testing.T) {
	// 1. transport failure
	service := newTestService(&fakeLLM{err: errors.New("connection refused")})
	result, err := service.Recommend(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, recommend.FallbackMessage, result.Message)

	// 2. unparseable answer
	service = newTestService(&fakeLLM{answer: "I would suggest reading more."})
	result, err = service.Recommend(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, recommend.FallbackMessage, result.Message)

	// 3. empty list
	service = newTestService(&fakeLLM{answer: "[]"})
	result, err = service.Recommend(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, recommend.FallbackMessage, result.Message)
}

/*
TestService_Recommend_Validation verifies empty interests are rejected
before the model is consulted.
*/
func TestService_Recommend_Validation(t *testing.T) {
	service := newTestService(&fakeLLM{err: errors.New("must not be called")})

	_, err := service.Recommend(context.Background(), "")
	require.Error(t, err)
}
