package usecase

import (
	"context"
	"fmt"
	"strings"

	"car-finder/internal/repository"
)

type FeedbackUsecase interface {
	RecordFeedback(ctx context.Context, carID int64, preference string) error
}

type FeedbackService struct {
	feedback repository.FeedbackRepository
	listings repository.ListingRepository
}

func NewFeedbackUsecase(feedback repository.FeedbackRepository, listings repository.ListingRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback, listings: listings}
}

func (u *FeedbackService) RecordFeedback(ctx context.Context, carID int64, preference string) error {
	if u == nil || u.feedback == nil {
		return fmt.Errorf("%w: nil repository", ErrStorage)
	}

	preference = strings.ToLower(strings.TrimSpace(preference))
	if carID <= 0 || preference == "" {
		return fmt.Errorf("%w: carId and preference are required", ErrInvalidInput)
	}

	if u.listings != nil {
		exists, err := u.listings.ExistsByID(ctx, carID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if !exists {
			return fmt.Errorf("%w: unknown carId %d", ErrInvalidInput, carID)
		}
	}

	if err := u.feedback.Insert(ctx, carID, preference); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
