// Package generator produces post ideas and article bodies through a
// chat-completion endpoint.
package generator

import (
	"context"
	"fmt"

	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
)

// Generator turns prompts into post ideas and Markdown articles.
type Generator struct {
	llm    LLMClient
	logger logger.Logger
}

// New builds a Generator backed by the configured completion endpoint.
// Credential presence is checked per completion call, not here.
func New(cfg *config.LLMConfig, log logger.Logger) *Generator {
	return NewWithClient(NewOpenAILLM(cfg), log)
}

// NewWithClient builds a Generator around an existing LLM client.
func NewWithClient(llm LLMClient, log logger.Logger) *Generator {
	return &Generator{llm: llm, logger: log}
}

// Idea asks the completion endpoint for a single recipe title. The content
// is returned exactly as produced, without trimming or length validation.
func (g *Generator) Idea(ctx context.Context) (string, error) {
	idea, err := g.llm.Complete(ctx, ideaSystemPrompt, ideaUserPrompt)
	if err != nil {
		return "", fmt.Errorf("generate idea: %w", err)
	}

	g.logger.Info("Generated blog post idea", logger.String("idea", idea))
	return idea, nil
}

// Article expands an idea into a Markdown recipe article. An empty idea is
// rejected before any network call; the returned text is treated as opaque
// Markdown with no structural validation.
func (g *Generator) Article(ctx context.Context, idea string) (string, error) {
	if idea == "" {
		return "", fmt.Errorf("%w: idea is empty", models.ErrInvalidInput)
	}

	article, err := g.llm.Complete(ctx, articleSystemPrompt, fmt.Sprintf(articleUserPromptFormat, idea))
	if err != nil {
		return "", fmt.Errorf("generate article: %w", err)
	}

	g.logger.Info("Generated blog post article",
		logger.String("idea", idea),
		logger.Int("length", len(article)),
	)
	return article, nil
}
