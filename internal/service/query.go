package service

import (
	"context"

	"smshub/internal/errors"
	"smshub/internal/models"
)

const (
	// DefaultLimit applies when a listing request carries no limit.
	DefaultLimit = 50
	// MaxLimit bounds one listing page.
	MaxLimit = 100
)

// MessagePage is one listing response: a page of matching messages plus the
// total match count and the echoed paging window.
type MessagePage struct {
	Data   []models.Message `json:"data"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// QueryService serves the listing and statistics paths.
type QueryService struct {
	store MessageStore
}

func NewQueryService(store MessageStore) *QueryService {
	return &QueryService{store: store}
}

// List returns messages matching the filter, ordered by (ts, message_id)
// ascending. Limit is clamped to [1,MaxLimit] (zero means DefaultLimit) and
// negative offsets are treated as zero.
func (s *QueryService) List(ctx context.Context, filter models.QueryFilter) (*MessagePage, error) {
	if filter.Limit == 0 {
		filter.Limit = DefaultLimit
	} else if filter.Limit < 1 {
		filter.Limit = 1
	} else if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	total, page, err := s.store.QueryMessages(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to list messages")
	}

	return &MessagePage{
		Data:   page,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// Stats returns the aggregate summary over all stored messages.
func (s *QueryService) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.store.ComputeStats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to compute stats")
	}
	return stats, nil
}
