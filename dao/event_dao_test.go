// api/dao/event_dao_test.go
package dao_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openspectrum/sas-registry/dao"
	"github.com/openspectrum/sas-registry/model"
)

var transactionHashPattern = regexp.MustCompile(`^0x[0-9a-f]{32}$`)

func TestEventDAO_RecentOrderAndLedgerFields(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	cbsdDAO := dao.NewCbsdDAO(handle, eventDAO)
	grantDAO := dao.NewGrantDAO(handle, eventDAO)
	ctx := context.Background()

	_, err := cbsdDAO.Register(ctx, testCbsd("FCC001", "SN001"))
	require.NoError(t, err)
	_, err = grantDAO.Create(ctx, testGrant("FCC001", "SN001"))
	require.NoError(t, err)

	events, err := eventDAO.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, model.EventGrantCreated, events[0].EventType)
	assert.Equal(t, model.EventCbsdRegistered, events[1].EventType)
	assert.Greater(t, events[0].ID, events[1].ID)

	for _, event := range events {
		assert.Regexp(t, transactionHashPattern, event.TransactionHash)
		assert.Equal(t, int64(1), event.BlockNumber)
		assert.False(t, event.CreatedAt.IsZero())
	}
}

func TestEventDAO_RecentHonorsLimit(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	sasAuthDAO := dao.NewSASAuthorizationDAO(handle, eventDAO)
	ctx := context.Background()

	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas-a.example.com"))
	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas-b.example.com"))
	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas-c.example.com"))

	events, err := eventDAO.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	count, err := eventDAO.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
