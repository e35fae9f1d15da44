package pipeline

import (
	"context"
	"strings"

	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
)

// relevantTagNames is the fixed allow-list used to categorize posts.
var relevantTagNames = map[string]struct{}{
	"desserts": {},
	"baking":   {},
	"cookies":  {},
	"recipes":  {},
}

// maxRelevantTags caps how many tags are attached to a draft.
const maxRelevantTags = 3

// resolveTags fetches the tag catalog and filters it against the
// allow-list. It never fails the run: any error yields an empty list.
func (p *Pipeline) resolveTags(ctx context.Context) []models.TagRef {
	catalog, err := p.platform.AvailableTags(ctx)
	if err != nil {
		p.logger.Warn("Failed to fetch tag catalog, continuing without tags", logger.Error(err))
		return []models.TagRef{}
	}

	return relevantTagRefs(catalog)
}

// relevantTagRefs filters the catalog case-insensitively against the
// allow-list and truncates to the first maxRelevantTags matches in
// catalog order. Name and slug are dropped; the draft mutation only
// needs ids.
func relevantTagRefs(catalog []models.Tag) []models.TagRef {
	refs := []models.TagRef{}
	for _, tag := range catalog {
		if _, ok := relevantTagNames[strings.ToLower(tag.Name)]; !ok {
			continue
		}
		refs = append(refs, models.TagRef{ID: tag.ID})
		if len(refs) == maxRelevantTags {
			break
		}
	}
	return refs
}
