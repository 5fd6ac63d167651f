package patient

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	recordsRepo "beamhealth/database/repository/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFileBackedService(t *testing.T, patientsJSON string) *DefaultPatientService {
	t.Helper()
	dir := t.TempDir()
	if patientsJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, recordsRepo.PatientsFile), []byte(patientsJSON), 0o644))
	}
	return NewPatientService(recordsRepo.NewFileRepository(dir, zap.NewNop()), zap.NewNop())
}

func TestGetPatientByID(t *testing.T) {
	svc := newFileBackedService(t, `[
		{"id": 1, "first_name": "Sarah", "last_name": "Johnson", "dob": "1988-03-15"},
		{"id": 2, "first_name": "Michael", "last_name": "Chen", "preferred_pharmacy": "Main St"}
	]`)
	ctx := context.Background()

	p, err := svc.GetPatientByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Michael Chen", p.FullName())

	_, err = svc.GetPatientByID(ctx, 99)
	var nf NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 99, nf.ID)
	assert.Equal(t, "Patient with ID 99 not found", err.Error())
}

func TestGetAllPatients(t *testing.T) {
	svc := newFileBackedService(t, `[{"id": 1, "first_name": "Sarah", "last_name": "Johnson"}]`)

	patients, err := svc.GetAllPatients(context.Background())
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestPatientStoreUnavailable(t *testing.T) {
	svc := newFileBackedService(t, "")

	_, err := svc.GetPatientByID(context.Background(), 1)
	assert.ErrorIs(t, err, recordsRepo.ErrDataUnavailable)

	_, err = svc.ListInsurances(context.Background())
	assert.ErrorIs(t, err, recordsRepo.ErrDataUnavailable)
}
