package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type TestimonialStatus string

const (
	TestimonialPending  TestimonialStatus = "pending"
	TestimonialApproved TestimonialStatus = "approved"
	TestimonialRejected TestimonialStatus = "rejected"
)

func (s TestimonialStatus) Valid() bool {
	switch s {
	case TestimonialPending, TestimonialApproved, TestimonialRejected:
		return true
	default:
		return false
	}
}

func ParseTestimonialStatus(s string) (TestimonialStatus, error) {
	st := TestimonialStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("testimonial status %q: %w", s, ErrInvalidEnum)
	}
	return st, nil
}

func (s *TestimonialStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseTestimonialStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Testimonial struct {
	ID        int64             `json:"id"`
	Username  string            `json:"username"`
	PetName   string            `json:"petName"`
	Message   string            `json:"message"`
	Status    TestimonialStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// TestimonialDraft is a public submission. Any status supplied by the caller
// is ignored on create.
type TestimonialDraft struct {
	Username string `json:"username"`
	PetName  string `json:"petName"`
	Message  string `json:"message"`
}
