// test/mock/services.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openspectrum/sas-registry/model"
)

// MockCbsdService is a mock implementation of service.ICbsdService
type MockCbsdService struct {
	mock.Mock
}

func (m *MockCbsdService) Register(ctx context.Context, req model.RegistrationRequest, sasAddress string) (*model.Cbsd, error) {
	args := m.Called(ctx, req, sasAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cbsd), args.Error(1)
}

func (m *MockCbsdService) Deregister(ctx context.Context, req model.DeregistrationRequest, sasAddress string) error {
	args := m.Called(ctx, req, sasAddress)
	return args.Error(0)
}

func (m *MockCbsdService) Get(ctx context.Context, fccID, serialNumber string) (*model.Cbsd, error) {
	args := m.Called(ctx, fccID, serialNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cbsd), args.Error(1)
}

func (m *MockCbsdService) GetBySerial(ctx context.Context, serialNumber string) (*model.Cbsd, error) {
	args := m.Called(ctx, serialNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cbsd), args.Error(1)
}

func (m *MockCbsdService) Push(ctx context.Context, serialNumber string, record model.CbsdRecord) (bool, error) {
	args := m.Called(ctx, serialNumber, record)
	return args.Bool(0), args.Error(1)
}

// MockGrantService is a mock implementation of service.IGrantService
type MockGrantService struct {
	mock.Mock
}

func (m *MockGrantService) Create(ctx context.Context, req model.GrantRequest, sasAddress string) (*model.Grant, error) {
	args := m.Called(ctx, req, sasAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Grant), args.Error(1)
}

func (m *MockGrantService) Relinquish(ctx context.Context, req model.RelinquishmentRequest, sasAddress string) error {
	args := m.Called(ctx, req, sasAddress)
	return args.Error(0)
}

func (m *MockGrantService) ListForDevice(ctx context.Context, fccID, serialNumber string) ([]model.Grant, error) {
	args := m.Called(ctx, fccID, serialNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Grant), args.Error(1)
}

// MockSASAuthorizationService is a mock implementation of
// service.ISASAuthorizationService
type MockSASAuthorizationService struct {
	mock.Mock
}

func (m *MockSASAuthorizationService) Authorize(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockSASAuthorizationService) Revoke(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockSASAuthorizationService) IsAuthorized(ctx context.Context, address string) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

// MockMonitoringService is a mock implementation of service.IMonitoringService
type MockMonitoringService struct {
	mock.Mock
}

func (m *MockMonitoringService) Stats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

func (m *MockMonitoringService) RecentEvents(ctx context.Context, limit int) ([]model.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockMonitoringService) ActivityDump(ctx context.Context) (*model.ActivityDump, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ActivityDump), args.Error(1)
}
