package decisions

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dfw/internal/cli"
	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/models"
)

// findDecision looks a decision up by full id, then by unique id prefix
func findDecision(ctx *cli.Context, id string) (models.Decision, error) {
	if id == "" {
		return models.Decision{}, fmt.Errorf("%w: decision id is required", dfwerrors.ErrInvalidArgument)
	}
	d, err := ctx.Store.GetDecision(id)
	if err == nil {
		return d, nil
	}
	if !dfwerrors.Is(err, dfwerrors.ErrNotFound) {
		return models.Decision{}, err
	}

	all, err := ctx.Store.ListDecisions(models.TimeRange{})
	if err != nil {
		return models.Decision{}, fmt.Errorf("failed to list decisions: %w", err)
	}

	var matches []models.Decision
	for _, candidate := range all {
		if strings.HasPrefix(candidate.ID, id) {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return models.Decision{}, fmt.Errorf("decision %q: %w", id, dfwerrors.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Decision{}, fmt.Errorf("%w: id prefix %q matches %d decisions", dfwerrors.ErrInvalidArgument, id, len(matches))
	}
}
