// api/audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	Record(ctx context.Context, entry Entry) error
	Query(ctx context.Context, from, to time.Time, eventType, sasAddress string) ([]Entry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, entry Entry) error {
	return s.repo.Index(ctx, entry)
}

func (s *service) Query(ctx context.Context, from, to time.Time, eventType, sasAddress string) ([]Entry, error) {
	return s.repo.Query(ctx, from, to, eventType, sasAddress)
}
