package patient

import (
	"context"
	"fmt"

	"beamhealth/models"

	"go.uber.org/zap"
)

func (s *DefaultPatientService) GetAllPatients(ctx context.Context) ([]models.Patient, error) {
	patients, err := s.Repo.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAllPatients: %w", err)
	}
	return patients, nil
}

// GetPatientByID returns NotFoundError when the ID is unknown.
func (s *DefaultPatientService) GetPatientByID(ctx context.Context, id int) (*models.Patient, error) {
	patients, err := s.Repo.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetPatientByID: %w", err)
	}
	for i := range patients {
		if patients[i].ID == id {
			p := patients[i]
			return &p, nil
		}
	}
	s.Logger.Debug("Patient lookup missed", zap.Int("patient_id", id), zap.Int("patients", len(patients)))
	return nil, NotFoundError{ID: id}
}

func (s *DefaultPatientService) ListInsurances(ctx context.Context) ([]models.Insurance, error) {
	insurances, err := s.Repo.ListInsurances(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListInsurances: %w", err)
	}
	return insurances, nil
}
