// api/dao/grant_dao_test.go
package dao_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openspectrum/sas-registry/dao"
	sas_errors "github.com/openspectrum/sas-registry/errors"
	"github.com/openspectrum/sas-registry/model"
)

func testGrant(fccID, serialNumber string) model.Grant {
	return model.Grant{
		FccID:                  fccID,
		CbsdSerialNumber:       serialNumber,
		ChannelType:            "GAA",
		MaxEirp:                20,
		LowFrequency:           3550000000,
		HighFrequency:          3560000000,
		RequestedMaxEirp:       25,
		RequestedLowFrequency:  3550000000,
		RequestedHighFrequency: 3560000000,
		GrantExpireTime:        1800000000,
		SASOrigin:              "sas.example.com",
		GrantTimestamp:         1700000000,
	}
}

func TestGrantDAO_CreateForMissingDevice(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	grantDAO := dao.NewGrantDAO(handle, eventDAO)

	_, err := grantDAO.Create(context.Background(), testGrant("FCC404", "SN404"))
	assert.ErrorIs(t, err, sas_errors.ErrCbsdNotFound)
	assert.Empty(t, eventTypes(t, eventDAO))
}

func TestGrantDAO_CreateAndList(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	cbsdDAO := dao.NewCbsdDAO(handle, eventDAO)
	grantDAO := dao.NewGrantDAO(handle, eventDAO)
	ctx := context.Background()

	_, err := cbsdDAO.Register(ctx, testCbsd("FCC001", "SN001"))
	require.NoError(t, err)

	created, err := grantDAO.Create(ctx, testGrant("FCC001", "SN001"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.GrantID, "grant_FCC001_SN001_"))
	assert.Equal(t, model.GrantStateGranted, created.State)
	assert.False(t, created.Terminated)

	grants, err := grantDAO.ListForDevice(ctx, "FCC001", "SN001")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, created.GrantID, grants[0].GrantID)
	assert.Equal(t, "GAA", grants[0].ChannelType)
	assert.Equal(t, int64(20), grants[0].MaxEirp)

	assert.Equal(t,
		[]string{model.EventCbsdRegistered, model.EventGrantCreated},
		eventTypes(t, eventDAO))
}

func TestGrantDAO_DistinctGrantIDs(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	cbsdDAO := dao.NewCbsdDAO(handle, eventDAO)
	grantDAO := dao.NewGrantDAO(handle, eventDAO)
	ctx := context.Background()

	_, err := cbsdDAO.Register(ctx, testCbsd("FCC001", "SN001"))
	require.NoError(t, err)

	first, err := grantDAO.Create(ctx, testGrant("FCC001", "SN001"))
	require.NoError(t, err)
	second, err := grantDAO.Create(ctx, testGrant("FCC001", "SN001"))
	require.NoError(t, err)

	assert.NotEqual(t, first.GrantID, second.GrantID)

	grants, err := grantDAO.ListForDevice(ctx, "FCC001", "SN001")
	require.NoError(t, err)
	assert.Len(t, grants, 2)
}

func TestGrantDAO_Relinquish(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	cbsdDAO := dao.NewCbsdDAO(handle, eventDAO)
	grantDAO := dao.NewGrantDAO(handle, eventDAO)
	ctx := context.Background()

	_, err := cbsdDAO.Register(ctx, testCbsd("FCC001", "SN001"))
	require.NoError(t, err)

	created, err := grantDAO.Create(ctx, testGrant("FCC001", "SN001"))
	require.NoError(t, err)

	err = grantDAO.Relinquish(ctx, created.GrantID, "FCC001", "SN001", "sas.example.com")
	require.NoError(t, err)

	grants, err := grantDAO.ListForDevice(ctx, "FCC001", "SN001")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.True(t, grants[0].Terminated)
	assert.Equal(t, model.GrantStateTerminated, grants[0].State)

	assert.Equal(t,
		[]string{model.EventCbsdRegistered, model.EventGrantCreated, model.EventGrantTerminated},
		eventTypes(t, eventDAO))
}

func TestGrantDAO_RelinquishTerminatedGrant(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	cbsdDAO := dao.NewCbsdDAO(handle, eventDAO)
	grantDAO := dao.NewGrantDAO(handle, eventDAO)
	ctx := context.Background()

	_, err := cbsdDAO.Register(ctx, testCbsd("FCC001", "SN001"))
	require.NoError(t, err)

	created, err := grantDAO.Create(ctx, testGrant("FCC001", "SN001"))
	require.NoError(t, err)

	require.NoError(t, grantDAO.Relinquish(ctx, created.GrantID, "FCC001", "SN001", "sas.example.com"))

	err = grantDAO.Relinquish(ctx, created.GrantID, "FCC001", "SN001", "sas.example.com")
	assert.ErrorIs(t, err, sas_errors.ErrGrantTerminated)

	// Terminated grants stay terminated; no second termination event.
	assert.Equal(t,
		[]string{model.EventCbsdRegistered, model.EventGrantCreated, model.EventGrantTerminated},
		eventTypes(t, eventDAO))
}

func TestGrantDAO_RelinquishUnknownGrant(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	cbsdDAO := dao.NewCbsdDAO(handle, eventDAO)
	grantDAO := dao.NewGrantDAO(handle, eventDAO)
	ctx := context.Background()

	_, err := cbsdDAO.Register(ctx, testCbsd("FCC001", "SN001"))
	require.NoError(t, err)

	err = grantDAO.Relinquish(ctx, "grant_FCC001_SN001_deadbeef", "FCC001", "SN001", "sas.example.com")
	assert.ErrorIs(t, err, sas_errors.ErrGrantNotFound)
}
