package catalog

import (
	"context"
	"fmt"

	"github.com/storyhive/storyhive/internal/events"
	"github.com/storyhive/storyhive/pkg/model"
)

// RateNovel records or replaces the user's vote and returns the novel with
// the recomputed aggregate stats. The store performs the replacement and the
// recomputation in one atomic update, so concurrent voters always converge
// on stats matching the final vote set.
func (s *Service) RateNovel(ctx context.Context, novelID, userID string, value int) (*model.Novel, error) {
	if value < model.RatingMin || value > model.RatingMax {
		return nil, model.Validationf("rating must be between %d and %d, got %d", model.RatingMin, model.RatingMax, value)
	}
	if userID == "" {
		return nil, model.Validationf("rating requires a user id")
	}

	novel, err := s.novels.SetRating(ctx, novelID, userID, value)
	if err != nil {
		return nil, err
	}

	s.sync.EnqueueUpsert(novel)
	s.publish(ctx, events.Event{
		Type:    events.RatingChanged,
		NovelID: novelID,
		UserID:  userID,
		Detail:  fmt.Sprintf("set:%d", value),
	})
	return novel, nil
}

// RemoveRating drops the user's vote, if any, and returns the novel with the
// recomputed aggregate stats. Removing an absent vote is a no-op.
func (s *Service) RemoveRating(ctx context.Context, novelID, userID string) (*model.Novel, error) {
	novel, err := s.novels.UnsetRating(ctx, novelID, userID)
	if err != nil {
		return nil, err
	}

	s.sync.EnqueueUpsert(novel)
	s.publish(ctx, events.Event{
		Type:    events.RatingChanged,
		NovelID: novelID,
		UserID:  userID,
		Detail:  "removed",
	})
	return novel, nil
}

// GetUserRating returns the user's vote on a novel and whether one exists.
func (s *Service) GetUserRating(ctx context.Context, novelID, userID string) (int, bool, error) {
	novel, err := s.novels.Get(ctx, novelID)
	if err != nil {
		return 0, false, err
	}
	value, ok := novel.UserRating(userID)
	return value, ok, nil
}

// GetRatingStats returns a novel's aggregate rating stats.
func (s *Service) GetRatingStats(ctx context.Context, novelID string) (model.RatingStats, error) {
	novel, err := s.novels.Get(ctx, novelID)
	if err != nil {
		return model.RatingStats{}, err
	}
	return novel.Stats, nil
}
