// api/util/cache_service.go

package util

import (
	"context"

	"github.com/openspectrum/sas-registry/db"
	"github.com/openspectrum/sas-registry/model"
)

// CacheService fronts the redis device cache. All operations degrade to
// no-ops when redis is not connected, so the registry keeps working from
// the database alone.
type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetCbsd(ctx context.Context, fccID, serialNumber string) (*model.Cbsd, error) {
	return db.GetCachedCbsd(ctx, fccID, serialNumber)
}

func (c *CacheService) SetCbsd(ctx context.Context, cbsd model.Cbsd) error {
	return db.CacheCbsd(ctx, &cbsd)
}

func (c *CacheService) DeleteCbsd(ctx context.Context, fccID, serialNumber string) error {
	return db.DeleteCachedCbsd(ctx, fccID, serialNumber)
}
