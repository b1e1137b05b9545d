// api/service/monitoring_service.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openspectrum/sas-registry/dao"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
)

const (
	defaultEventLimit = 10
	maxEventLimit     = 100
)

// IMonitoringService defines the interface for registry monitoring
// operations
type IMonitoringService interface {
	Stats(ctx context.Context) (*model.Stats, error)
	RecentEvents(ctx context.Context, limit int) ([]model.Event, error)
	ActivityDump(ctx context.Context) (*model.ActivityDump, error)
}

// MonitoringService assembles registry-wide counters, the recent event
// feed and the full activity dump
type MonitoringService struct {
	cbsdDAO    *dao.CbsdDAO
	grantDAO   *dao.GrantDAO
	sasAuthDAO *dao.SASAuthorizationDAO
	eventDAO   *dao.EventDAO
}

var _ IMonitoringService = &MonitoringService{}

// NewMonitoringService creates a new instance of MonitoringService
func NewMonitoringService(cbsdDAO *dao.CbsdDAO, grantDAO *dao.GrantDAO, sasAuthDAO *dao.SASAuthorizationDAO, eventDAO *dao.EventDAO) *MonitoringService {
	return &MonitoringService{
		cbsdDAO:    cbsdDAO,
		grantDAO:   grantDAO,
		sasAuthDAO: sasAuthDAO,
		eventDAO:   eventDAO,
	}
}

// Stats gathers the registry counters concurrently
func (s *MonitoringService) Stats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.cbsdDAO.Count(ctx)
		stats.TotalCbsds = count
		return err
	})
	g.Go(func() error {
		count, err := s.grantDAO.Count(ctx)
		stats.TotalGrants = count
		return err
	})
	g.Go(func() error {
		count, err := s.eventDAO.Count(ctx)
		stats.TotalEvents = count
		return err
	})
	g.Go(func() error {
		count, err := s.sasAuthDAO.CountAuthorized(ctx)
		stats.AuthorizedSAS = count
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Error gathering registry stats", zap.Error(err))
		return nil, err
	}

	stats.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return &stats, nil
}

// RecentEvents returns the newest events first. A non-positive limit
// falls back to the default; oversized limits are clamped.
func (s *MonitoringService) RecentEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	events, err := s.eventDAO.Recent(ctx, limit)
	if err != nil {
		logger.Error("Error listing recent events", zap.Error(err), zap.Int("limit", limit))
		return nil, err
	}

	return events, nil
}

// ActivityDump assembles the full SAS-SAS activity dump document
func (s *MonitoringService) ActivityDump(ctx context.Context) (*model.ActivityDump, error) {
	var dump model.ActivityDump

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cbsds, err := s.cbsdDAO.List(gctx)
		dump.Cbsds = cbsds
		return err
	})
	g.Go(func() error {
		grants, err := s.grantDAO.List(gctx)
		dump.Grants = grants
		return err
	})
	g.Go(func() error {
		stats, err := s.Stats(gctx)
		if err != nil {
			return err
		}
		dump.Totals = *stats
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Error assembling activity dump", zap.Error(err))
		return nil, err
	}

	dump.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	return &dump, nil
}
