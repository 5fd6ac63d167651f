package recordsRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"beamhealth/metrics"
	"beamhealth/models"

	"go.uber.org/zap"
)

const (
	AppointmentsFile = "appointments.json"
	PatientsFile     = "patients.json"
	InsurancesFile   = "insurances.json"
)

// FileRepository reads JSON arrays from a data directory on every call.
type FileRepository struct {
	dir    string
	logger *zap.Logger
}

func NewFileRepository(dir string, logger *zap.Logger) *FileRepository {
	return &FileRepository{dir: dir, logger: logger}
}

func (r *FileRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	apts, skipped, err := loadEach[models.Appointment](r, AppointmentsFile, kindAppointment)
	if err != nil {
		return nil, err
	}
	reportAppointments(apts, skipped)
	return apts, nil
}

func (r *FileRepository) ListPatients(ctx context.Context) ([]models.Patient, error) {
	patients, skipped, err := loadEach[models.Patient](r, PatientsFile, kindPatient)
	if err != nil {
		return nil, err
	}
	metrics.SetMalformedRecords(kindPatient, skipped)
	return patients, nil
}

func (r *FileRepository) ListInsurances(ctx context.Context) ([]models.Insurance, error) {
	insurances, skipped, err := loadEach[models.Insurance](r, InsurancesFile, kindInsurance)
	if err != nil {
		return nil, err
	}
	metrics.SetMalformedRecords(kindInsurance, skipped)
	return insurances, nil
}

func (r *FileRepository) PatientIDs(ctx context.Context) (StoredIDs, error) {
	return r.storedIDs(PatientsFile)
}

func (r *FileRepository) AppointmentIDs(ctx context.Context) (StoredIDs, error) {
	return r.storedIDs(AppointmentsFile)
}

func (r *FileRepository) AppendPatients(ctx context.Context, patients []models.Patient) error {
	return appendEach(r, PatientsFile, patients)
}

func (r *FileRepository) AppendAppointments(ctx context.Context, appointments []models.Appointment) error {
	return appendEach(r, AppointmentsFile, appointments)
}

// loadEach decodes a JSON array element by element so one bad record
// does not take down the whole file. It also returns how many were skipped.
func loadEach[T any](r *FileRepository, name, kind string) ([]T, int, error) {
	var raws []json.RawMessage
	if err := r.load(name, &raws); err != nil {
		return nil, 0, err
	}
	out := make([]T, 0, len(raws))
	skipped := 0
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			skipRecord(r.logger, kind, i, err)
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped, nil
}

// loadRaw returns the stored elements untouched. A missing file is empty.
func (r *FileRepository) loadRaw(name string) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	err := r.load(name, &raws)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return raws, err
}

func (r *FileRepository) storedIDs(name string) (StoredIDs, error) {
	raws, err := r.loadRaw(name)
	if err != nil {
		return StoredIDs{}, err
	}
	ids := StoredIDs{Count: len(raws)}
	for _, raw := range raws {
		var rec struct {
			ID *int `json:"id"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == nil {
			continue
		}
		ids.IDs = append(ids.IDs, *rec.ID)
	}
	return ids, nil
}

// appendEach adds items after the existing elements, which are written
// back byte for byte apart from indentation.
func appendEach[T any](r *FileRepository, name string, items []T) error {
	raws, err := r.loadRaw(name)
	if err != nil {
		return err
	}
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("FileRepository: encode %s: %w", name, err)
		}
		raws = append(raws, b)
	}
	if raws == nil {
		raws = []json.RawMessage{}
	}
	return r.save(name, raws)
}

func (r *FileRepository) load(name string, dst interface{}) error {
	path := filepath.Join(r.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: data file %s not found: %w", ErrDataUnavailable, name, err)
	}
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrDataUnavailable, name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: data file %s is not a JSON array: %v", ErrDataUnavailable, name, err)
	}
	return nil
}

func (r *FileRepository) save(name string, v interface{}) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("FileRepository: create %s: %w", r.dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("FileRepository: encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("FileRepository: write %s: %w", name, err)
	}
	return nil
}
