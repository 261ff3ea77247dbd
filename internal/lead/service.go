package lead

import (
	"context"
	"errors"
	"fmt"
)

// validStatuses is the lifecycle a lead moves through.
var validStatuses = map[string]bool{
	"new":       true,
	"contacted": true,
	"quoted":    true,
	"won":       true,
	"lost":      true,
}

// ErrInvalidStatus is returned for statuses outside the lead lifecycle.
var ErrInvalidStatus = errors.New("invalid lead status")

// Service contains business logic for lead management.
type Service struct {
	repo *Repository
}

// NewService creates a new lead Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new lead.
func (s *Service) Create(ctx context.Context, l *Lead) (*Lead, error) {
	if l.Status != "" && !validStatuses[l.Status] {
		return nil, ErrInvalidStatus
	}
	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return created, nil
}

// GetByID returns a lead by its UUID.
func (s *Service) GetByID(ctx context.Context, id string) (*Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns leads, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]*Lead, error) {
	if status != "" && !validStatuses[status] {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, status)
}

// Update applies a partial update to the lead.
func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Lead, error) {
	if patch.Status != nil && !validStatuses[*patch.Status] {
		return nil, ErrInvalidStatus
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes a lead and, via the database cascade, its file rows. Remote
// copies of those files are intentionally not touched here; reconciliation
// cleans them up out of band.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
