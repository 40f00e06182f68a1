package mapping

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Service validates drafts and persists them to a mapping store.
type Service struct {
	store  core.MappingStore
	bloom  BloomLookup
	logger *slog.Logger
}

// NewService creates a service writing to store. bloom may be nil.
func NewService(store core.MappingStore, bloom BloomLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, bloom: bloom, logger: logger}
}

// Save validates d, expands it into rows and appends them. It returns the number of rows saved.
func (s *Service) Save(ctx context.Context, d Draft) (int, error) {
	if err := Validate(d); err != nil {
		return 0, err
	}

	rows := Rows(d, s.bloom)
	if err := s.store.Append(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to save mapping: %w", err)
	}

	s.logger.Info("learning objective saved",
		slog.String("course", d.CourseName),
		slog.Bool("assessed", d.Assessed()),
		slog.Int("rows", len(rows)))
	return len(rows), nil
}

// List returns saved mappings matching filter.
func (s *Service) List(ctx context.Context, filter core.MappingFilter) ([]core.Mapping, error) {
	return s.store.List(ctx, filter)
}
