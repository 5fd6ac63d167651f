package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	recordsRepo "beamhealth/database/repository/records"
	"beamhealth/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *mockRepo) ListPatients(ctx context.Context) ([]models.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Patient), args.Error(1)
}

func (m *mockRepo) ListInsurances(ctx context.Context) ([]models.Insurance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Insurance), args.Error(1)
}

func newTestService(repo recordsRepo.Repository, utcNow time.Time) *DefaultAppointmentService {
	svc := NewAppointmentService(repo, FixedClock{At: utcNow}, FixedOffsetZone(-5), zap.NewNop())
	svc.ServerLocation = time.UTC
	return svc
}

func TestGetActiveAppointment(t *testing.T) {
	ctx := context.Background()
	apts := []models.Appointment{
		booked(1, 7, "2025-12-12T09:00:00", 30),
		booked(2, 8, "2025-12-12T10:00:00", 30),
	}

	t.Run("Found", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("ListAppointments", ctx).Return(apts, nil).Once()

		// 15:10 UTC is 10:10 at UTC-5.
		svc := newTestService(repo, time.Date(2025, 12, 12, 15, 10, 0, 0, time.UTC))
		got, err := svc.GetActiveAppointment(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2, got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("NoneActive", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("ListAppointments", ctx).Return(apts, nil).Once()

		svc := newTestService(repo, time.Date(2025, 12, 12, 20, 0, 0, 0, time.UTC))
		got, err := svc.GetActiveAppointment(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DataUnavailable", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("ListAppointments", ctx).
			Return(nil, fmt.Errorf("%w: data file appointments.json not found", recordsRepo.ErrDataUnavailable)).Once()

		svc := newTestService(repo, time.Now())
		got, err := svc.GetActiveAppointment(ctx)
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, recordsRepo.ErrDataUnavailable))
	})
}

func TestGetUpcomingForPatientUsesServerClock(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("ListAppointments", ctx).Return([]models.Appointment{
		booked(1, 7, "2025-12-12T09:00:00", 30),
		booked(2, 7, "2025-12-12T14:00:00", 30),
	}, nil)

	// 10:00 UTC read without the UTC-5 shift: the 09:00 slot is past.
	svc := newTestService(repo, time.Date(2025, 12, 12, 10, 0, 0, 0, time.UTC))
	got, err := svc.GetUpcomingForPatient(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ID)

	got, err = svc.GetUpcomingForPatient(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDebugSnapshot(t *testing.T) {
	ctx := context.Background()
	apts := []models.Appointment{{ID: 100, Status: models.StatusAvailable, Start: "2025-12-12T08:00:00"}}
	for i := 1; i <= 7; i++ {
		apts = append(apts, booked(i, i, fmt.Sprintf("2025-12-12T%02d:00:00", 8+i), 30))
	}

	repo := new(mockRepo)
	repo.On("ListAppointments", ctx).Return(apts, nil)

	svc := newTestService(repo, time.Date(2025, 12, 12, 14, 30, 0, 0, time.UTC))
	snap, err := svc.DebugSnapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 8, snap.TotalAppointments)
	assert.Equal(t, 7, snap.BookedAppointments)
	assert.Len(t, snap.SampleBooked, 5)
	assert.Equal(t, "2025-12-12T14:30:00", snap.CurrentTime)
	assert.Equal(t, "2025-12-12T09:30:00", snap.LocalTime)
}
