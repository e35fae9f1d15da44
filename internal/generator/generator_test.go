package generator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/generator"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
)

// scriptedLLM returns a fixed response and records every call.
type scriptedLLM struct {
	response string
	err      error
	calls    int
}

func (s *scriptedLLM) Complete(_ context.Context, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestIdeaReturnsContentVerbatim(t *testing.T) {
	llm := &scriptedLLM{response: "  The Ultimate Chewy Chocolate Chip Cookies \n"}
	gen := generator.NewWithClient(llm, logger.NewNopLogger())

	idea, err := gen.Idea(context.Background())

	require.NoError(t, err)
	// No trimming or length validation is applied.
	assert.Equal(t, "  The Ultimate Chewy Chocolate Chip Cookies \n", idea)
	assert.Equal(t, 1, llm.calls)
}

func TestIdeaPropagatesUpstreamFailure(t *testing.T) {
	llm := &scriptedLLM{err: models.ErrUpstream}
	gen := generator.NewWithClient(llm, logger.NewNopLogger())

	_, err := gen.Idea(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUpstream))
}

func TestArticleEmptyIdeaFailsWithoutNetworkCall(t *testing.T) {
	llm := &scriptedLLM{response: "should never be returned"}
	gen := generator.NewWithClient(llm, logger.NewNopLogger())

	_, err := gen.Article(context.Background(), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
	assert.Zero(t, llm.calls, "no completion call expected for an empty idea")
}

func TestArticleReturnsMarkdown(t *testing.T) {
	llm := &scriptedLLM{response: "# Lemon Bars\n\n## Description\nTangy."}
	gen := generator.NewWithClient(llm, logger.NewNopLogger())

	article, err := gen.Article(context.Background(), "Lemon Bars")

	require.NoError(t, err)
	assert.Equal(t, "# Lemon Bars\n\n## Description\nTangy.", article)
	assert.Equal(t, 1, llm.calls)
}

func TestIdeaMissingAPIKeyFailsAtPointOfUse(t *testing.T) {
	// Construction succeeds without the key; the configuration error
	// surfaces on the first completion call, before any request is sent.
	gen := generator.New(&config.LLMConfig{Model: "glm-4.5-flash"}, logger.NewNopLogger())

	_, err := gen.Idea(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
	assert.Contains(t, err.Error(), "ZAI_API_KEY")
}

func TestArticleMissingModelFailsAtPointOfUse(t *testing.T) {
	gen := generator.New(&config.LLMConfig{APIKey: "key"}, logger.NewNopLogger())

	_, err := gen.Article(context.Background(), "Lemon Bars")

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}
