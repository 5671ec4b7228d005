package usecase

import (
	"context"
	"errors"
	"fmt"

	"car-finder/internal/domain/listing"
	"car-finder/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
)

type ListingUsecase interface {
	ListCars(ctx context.Context) ([]listing.Listing, error)
}

type ListingService struct {
	repo repository.ListingRepository
}

func NewListingUsecase(repo repository.ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

func (u *ListingService) ListCars(ctx context.Context) ([]listing.Listing, error) {
	if u == nil || u.repo == nil {
		return nil, fmt.Errorf("%w: nil repository", ErrStorage)
	}
	out, err := u.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return out, nil
}
