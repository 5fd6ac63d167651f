package patient

import (
	"context"

	recordsRepo "beamhealth/database/repository/records"
	"beamhealth/models"

	"go.uber.org/zap"
)

type PatientService interface {
	GetAllPatients(ctx context.Context) ([]models.Patient, error)
	GetPatientByID(ctx context.Context, id int) (*models.Patient, error)
	ListInsurances(ctx context.Context) ([]models.Insurance, error)
}

// DefaultPatientService is the production implementation.
type DefaultPatientService struct {
	Repo   recordsRepo.Repository
	Logger *zap.Logger
}

func NewPatientService(repo recordsRepo.Repository, logger *zap.Logger) *DefaultPatientService {
	return &DefaultPatientService{Repo: repo, Logger: logger}
}
