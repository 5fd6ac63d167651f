package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the record collections are queried by.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	appointmentIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// booked slots per patient, for upcoming lookups
		{
			Keys:    bson.D{{Key: "patient_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("patient_status_start_idx"),
		},
	}
	if _, err := r.db.Collection(appointmentsCollection).Indexes().CreateMany(ctx, appointmentIndexes); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}

	patientIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	}
	if _, err := r.db.Collection(patientsCollection).Indexes().CreateOne(ctx, patientIndex); err != nil {
		return fmt.Errorf("failed to create patient indexes: %w", err)
	}
	return nil
}
