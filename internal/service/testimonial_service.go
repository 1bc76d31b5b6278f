package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/fjod/xpawto-store/internal/repository"
)

type TestimonialService struct {
	repo repository.TestimonialRepository
	now  func() time.Time
}

func NewTestimonialService(repo repository.TestimonialRepository) *TestimonialService {
	return &TestimonialService{
		repo: repo,
		now:  time.Now,
	}
}

// List returns every testimonial, or only those in status when it is set.
func (s *TestimonialService) List(ctx context.Context, status *domain.TestimonialStatus) ([]domain.Testimonial, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *status)
	}
	testimonials, err := s.repo.ListTestimonials(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%w: list testimonials: %w", ErrTransientIO, err)
	}
	return testimonials, nil
}

// Create stores a public submission. New testimonials always start pending.
func (s *TestimonialService) Create(ctx context.Context, draft domain.TestimonialDraft) (domain.Testimonial, error) {
	t := domain.Testimonial{
		Username:  strings.TrimSpace(draft.Username),
		PetName:   strings.TrimSpace(draft.PetName),
		Message:   strings.TrimSpace(draft.Message),
		Status:    domain.TestimonialPending,
		CreatedAt: s.now().UTC(),
	}
	if t.Username == "" || t.PetName == "" || t.Message == "" {
		return domain.Testimonial{}, fmt.Errorf("%w: missing required fields: username, petName, message", ErrValidation)
	}

	created, err := s.repo.CreateTestimonial(ctx, t)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("%w: create testimonial: %w", ErrTransientIO, err)
	}
	log.Printf("testimonial %d submitted by %s", created.ID, created.Username)
	return created, nil
}

func (s *TestimonialService) SetStatus(ctx context.Context, id int64, status domain.TestimonialStatus) (domain.Testimonial, error) {
	if id <= 0 {
		return domain.Testimonial{}, fmt.Errorf("%w: testimonial id is required", ErrValidation)
	}
	if !status.Valid() {
		return domain.Testimonial{}, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}
	t, err := s.repo.SetTestimonialStatus(ctx, id, status)
	if err != nil {
		return domain.Testimonial{}, testimonialError(id, err)
	}
	log.Printf("testimonial %d moderated: %s", id, status)
	return t, nil
}

func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: testimonial id is required", ErrValidation)
	}
	if err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return testimonialError(id, err)
	}
	log.Printf("testimonial %d deleted", id)
	return nil
}

func testimonialError(id int64, err error) error {
	if errors.Is(err, repository.ErrTestimonialNotFound) {
		return fmt.Errorf("testimonial %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("%w: testimonial %d: %w", ErrTransientIO, id, err)
}
