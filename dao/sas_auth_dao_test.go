// api/dao/sas_auth_dao_test.go
package dao_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openspectrum/sas-registry/dao"
	"github.com/openspectrum/sas-registry/model"
)

func TestSASAuthorizationDAO_AuthorizeRevokeCycle(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	sasAuthDAO := dao.NewSASAuthorizationDAO(handle, eventDAO)
	ctx := context.Background()

	authorized, err := sasAuthDAO.IsAuthorized(ctx, "sas.example.com")
	require.NoError(t, err)
	assert.False(t, authorized)

	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas.example.com"))

	authorized, err = sasAuthDAO.IsAuthorized(ctx, "sas.example.com")
	require.NoError(t, err)
	assert.True(t, authorized)

	existed, err := sasAuthDAO.Revoke(ctx, "sas.example.com")
	require.NoError(t, err)
	assert.True(t, existed)

	authorized, err = sasAuthDAO.IsAuthorized(ctx, "sas.example.com")
	require.NoError(t, err)
	assert.False(t, authorized)

	// Re-authorization flips the same row back.
	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas.example.com"))
	authorized, err = sasAuthDAO.IsAuthorized(ctx, "sas.example.com")
	require.NoError(t, err)
	assert.True(t, authorized)

	assert.Equal(t,
		[]string{model.EventSASAuthorized, model.EventSASRevoked, model.EventSASAuthorized},
		eventTypes(t, eventDAO))
}

func TestSASAuthorizationDAO_RevokeUnknownAddress(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	sasAuthDAO := dao.NewSASAuthorizationDAO(handle, eventDAO)

	existed, err := sasAuthDAO.Revoke(context.Background(), "sas.unknown.com")
	require.NoError(t, err)
	assert.False(t, existed)

	// A revoke that touched nothing leaves no trace in the log.
	assert.Empty(t, eventTypes(t, eventDAO))
}

func TestSASAuthorizationDAO_AuthorizeIsIdempotentButLogged(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	sasAuthDAO := dao.NewSASAuthorizationDAO(handle, eventDAO)
	ctx := context.Background()

	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas.example.com"))
	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas.example.com"))

	count, err := sasAuthDAO.CountAuthorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.Equal(t,
		[]string{model.EventSASAuthorized, model.EventSASAuthorized},
		eventTypes(t, eventDAO))
}

func TestSASAuthorizationDAO_CountAuthorized(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	sasAuthDAO := dao.NewSASAuthorizationDAO(handle, eventDAO)
	ctx := context.Background()

	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas-a.example.com"))
	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas-b.example.com"))
	_, err := sasAuthDAO.Revoke(ctx, "sas-b.example.com")
	require.NoError(t, err)

	count, err := sasAuthDAO.CountAuthorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSASAuthorizationDAO_EventPayload(t *testing.T) {
	handle := newTestDB(t)
	eventDAO := dao.NewEventDAO(handle)
	sasAuthDAO := dao.NewSASAuthorizationDAO(handle, eventDAO)
	ctx := context.Background()

	require.NoError(t, sasAuthDAO.Authorize(ctx, "sas.example.com"))

	events, err := eventDAO.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "sas.example.com", payload["sas_address"])
}
