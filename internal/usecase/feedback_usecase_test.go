package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"car-finder/internal/domain/listing"
)

type mockFeedbackRepo struct {
	inserted []string
	err      error
}

func (m *mockFeedbackRepo) Insert(_ context.Context, carID int64, preference string) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, fmt.Sprintf("%d:%s", carID, preference))
	return nil
}

type mockListingRepo struct {
	items []listing.Listing
	err   error
}

func (m *mockListingRepo) Insert(_ context.Context, l listing.Listing) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, existing := range m.items {
		if existing.URL == l.URL {
			return false, nil
		}
	}
	m.items = append(m.items, l)
	return true, nil
}

func (m *mockListingRepo) GetAll(context.Context) ([]listing.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockListingRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, l := range m.items {
		if l.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func TestRecordFeedback_MissingFields(t *testing.T) {
	uc := NewFeedbackUsecase(&mockFeedbackRepo{}, &mockListingRepo{})

	if err := uc.RecordFeedback(context.Background(), 0, "like"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing carId, got %v", err)
	}
	if err := uc.RecordFeedback(context.Background(), 1, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty preference, got %v", err)
	}
}

func TestRecordFeedback_UnknownCar(t *testing.T) {
	uc := NewFeedbackUsecase(&mockFeedbackRepo{}, &mockListingRepo{})

	err := uc.RecordFeedback(context.Background(), 42, "like")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown car, got %v", err)
	}
}

func TestRecordFeedback_Success(t *testing.T) {
	feedback := &mockFeedbackRepo{}
	listings := &mockListingRepo{items: []listing.Listing{{ID: 7, URL: "https://x/7"}}}
	uc := NewFeedbackUsecase(feedback, listings)

	if err := uc.RecordFeedback(context.Background(), 7, " Like "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feedback.inserted) != 1 || feedback.inserted[0] != "7:like" {
		t.Fatalf("expected normalized insert, got %v", feedback.inserted)
	}
}

func TestRecordFeedback_StorageFailure(t *testing.T) {
	feedback := &mockFeedbackRepo{err: errors.New("disk full")}
	listings := &mockListingRepo{items: []listing.Listing{{ID: 7}}}
	uc := NewFeedbackUsecase(feedback, listings)

	err := uc.RecordFeedback(context.Background(), 7, "dislike")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
