// Package hashnode is a client for the Hashnode GraphQL API. It covers the
// three operations the publish pipeline needs: listing the tag catalog,
// creating a draft and publishing it.
package hashnode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
)

const (
	tagCatalogQuery = `
	query {
		tag(first: 20) {
			edges {
				node {
					id
					name
					slug
				}
			}
		}
	}`

	createDraftMutation = `
	mutation createDraft($input: CreateDraftInput!) {
		createDraft(input: $input) {
			draft {
				id
				title
				slug
			}
		}
	}`

	publishDraftMutation = `
	mutation publishDraft($input: PublishDraftInput!) {
		publishDraft(input: $input) {
			post {
				id
				title
				slug
				url
			}
		}
	}`
)

// Client talks to a single Hashnode GraphQL endpoint. The personal access
// token is sent raw in the Authorization header, without a Bearer prefix.
type Client struct {
	endpoint      string
	token         string
	publicationID string
	client        *http.Client
	logger        logger.Logger
}

// DraftRequest carries everything needed to create a draft. Cover and
// banner image URLs are optional and omitted from the mutation when empty.
type DraftRequest struct {
	Title           string
	ContentMarkdown string
	Tags            []models.TagRef
	CoverImageURL   string
	BannerImageURL  string
}

// NewClient creates a Hashnode client. The token and publication id may be
// absent at construction time; Configured reports their presence before
// any draft mutation is attempted.
func NewClient(cfg *config.HashnodeConfig, timeout time.Duration, log logger.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: hashnode endpoint", models.ErrConfiguration)
	}

	return &Client{
		endpoint:      cfg.Endpoint,
		token:         cfg.Token,
		publicationID: cfg.PublicationID,
		client:        &http.Client{Timeout: timeout},
		logger:        log,
	}, nil
}

// Configured reports whether the credentials required for draft creation
// are present. It performs no network call.
func (c *Client) Configured() error {
	if c.token == "" {
		return fmt.Errorf("%w: hashnode personal access token (HASHNODE_PAT)", models.ErrConfiguration)
	}
	if c.publicationID == "" {
		return fmt.Errorf("%w: hashnode publication id (HASHNODE_PUB_ID)", models.ErrConfiguration)
	}
	return nil
}

// AvailableTags fetches up to 20 tags from the platform's catalog.
func (c *Client) AvailableTags(ctx context.Context) ([]models.Tag, error) {
	var result struct {
		Tag struct {
			Edges []struct {
				Node models.Tag `json:"node"`
			} `json:"edges"`
		} `json:"tag"`
	}

	if err := c.do(ctx, tagCatalogQuery, nil, &result); err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}

	tags := make([]models.Tag, 0, len(result.Tag.Edges))
	for _, edge := range result.Tag.Edges {
		tags = append(tags, edge.Node)
	}

	c.logger.Debug("Fetched tag catalog", logger.Int("count", len(tags)))
	return tags, nil
}

// CreateDraft creates an unpublished draft with fixed settings
// (delist false, table of contents enabled).
func (c *Client) CreateDraft(ctx context.Context, req DraftRequest) (*models.Draft, error) {
	tags := req.Tags
	if tags == nil {
		tags = []models.TagRef{}
	}

	input := map[string]any{
		"title":           req.Title,
		"contentMarkdown": req.ContentMarkdown,
		"tags":            tags,
		"publicationId":   c.publicationID,
		"settings": map[string]any{
			"delist":               false,
			"enableTableOfContent": true,
		},
	}
	if req.CoverImageURL != "" {
		input["coverImageOptions"] = map[string]any{"coverImageURL": req.CoverImageURL}
	}
	if req.BannerImageURL != "" {
		input["bannerImageOptions"] = map[string]any{"bannerImageURL": req.BannerImageURL}
	}

	var result struct {
		CreateDraft struct {
			Draft *models.Draft `json:"draft"`
		} `json:"createDraft"`
	}

	if err := c.do(ctx, createDraftMutation, map[string]any{"input": input}, &result); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	if result.CreateDraft.Draft == nil {
		return nil, fmt.Errorf("%w: createDraft response has no draft", models.ErrUnexpectedShape)
	}

	draft := result.CreateDraft.Draft
	c.logger.Info("Draft created",
		logger.String("draft_id", draft.ID),
		logger.String("title", draft.Title),
		logger.String("slug", draft.Slug),
	)
	return draft, nil
}

// PublishDraft transitions an existing draft to a published post.
func (c *Client) PublishDraft(ctx context.Context, draftID string) (*models.Post, error) {
	if draftID == "" {
		return nil, fmt.Errorf("%w: draft id is empty", models.ErrInvalidInput)
	}

	variables := map[string]any{
		"input": map[string]any{"draftId": draftID},
	}

	var result struct {
		PublishDraft struct {
			Post *models.Post `json:"post"`
		} `json:"publishDraft"`
	}

	if err := c.do(ctx, publishDraftMutation, variables, &result); err != nil {
		return nil, fmt.Errorf("publish draft: %w", err)
	}
	if result.PublishDraft.Post == nil {
		return nil, fmt.Errorf("%w: publishDraft response has no post", models.ErrUnexpectedShape)
	}

	post := result.PublishDraft.Post
	c.logger.Info("Post published",
		logger.String("post_id", post.ID),
		logger.String("title", post.Title),
		logger.String("url", post.URL),
	)
	return post, nil
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// do executes one GraphQL request and decodes the data payload into out.
// A top-level errors array is a failure regardless of HTTP status.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.token)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", models.ErrUpstream, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: HTTP %d: %s", models.ErrUpstream, resp.StatusCode, truncate(string(body)))
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: decode response: %v", models.ErrUpstream, err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, gqlErr := range envelope.Errors {
			messages[i] = gqlErr.Message
		}
		return fmt.Errorf("%w: graphql: %s", models.ErrUpstream, strings.Join(messages, "; "))
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: decode data: %v", models.ErrUnexpectedShape, err)
		}
	}

	return nil
}

const maxErrorBodyLen = 200

func truncate(s string) string {
	if len(s) > maxErrorBodyLen {
		return s[:maxErrorBodyLen] + "..."
	}
	return s
}
