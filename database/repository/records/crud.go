package recordsRepo

import (
	"context"
	"encoding/json"
	"fmt"

	"beamhealth/metrics"
	"beamhealth/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	appointmentsCollection = "appointments"
	patientsCollection     = "patients"
	insurancesCollection   = "insurances"
)

// rawSetter is implemented by records that echo their stored form.
type rawSetter interface {
	SetRaw(raw json.RawMessage)
}

// MongoRepository serves the same snapshots from MongoDB collections.
type MongoRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewMongoRepository(client *mongo.Client, dbName string, logger *zap.Logger) *MongoRepository {
	return &MongoRepository{db: client.Database(dbName), logger: logger}
}

func (r *MongoRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	apts, skipped, err := findEach[models.Appointment](ctx, r, appointmentsCollection, kindAppointment)
	if err != nil {
		return nil, err
	}
	reportAppointments(apts, skipped)
	return apts, nil
}

func (r *MongoRepository) ListPatients(ctx context.Context) ([]models.Patient, error) {
	patients, skipped, err := findEach[models.Patient](ctx, r, patientsCollection, kindPatient)
	if err != nil {
		return nil, err
	}
	metrics.SetMalformedRecords(kindPatient, skipped)
	return patients, nil
}

func (r *MongoRepository) ListInsurances(ctx context.Context) ([]models.Insurance, error) {
	docs, skipped, err := findEach[bson.M](ctx, r, insurancesCollection, kindInsurance)
	if err != nil {
		return nil, err
	}
	metrics.SetMalformedRecords(kindInsurance, skipped)
	out := make([]models.Insurance, 0, len(docs))
	for _, doc := range docs {
		delete(doc, "_id")
		out = append(out, models.Insurance(doc))
	}
	return out, nil
}

func (r *MongoRepository) PatientIDs(ctx context.Context) (StoredIDs, error) {
	return r.storedIDs(ctx, patientsCollection)
}

func (r *MongoRepository) AppointmentIDs(ctx context.Context) (StoredIDs, error) {
	return r.storedIDs(ctx, appointmentsCollection)
}

func (r *MongoRepository) AppendPatients(ctx context.Context, patients []models.Patient) error {
	docs := make([]interface{}, 0, len(patients))
	for _, p := range patients {
		docs = append(docs, p)
	}
	return r.insert(ctx, patientsCollection, docs)
}

func (r *MongoRepository) AppendAppointments(ctx context.Context, appointments []models.Appointment) error {
	docs := make([]interface{}, 0, len(appointments))
	for _, a := range appointments {
		docs = append(docs, a)
	}
	return r.insert(ctx, appointmentsCollection, docs)
}

func findEach[T any](ctx context.Context, r *MongoRepository, collection, kind string) ([]T, int, error) {
	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying %s: %v", ErrDataUnavailable, collection, err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	skipped := 0
	for i := 0; cursor.Next(ctx); i++ {
		v, err := decodeDocument[T](cursor.Current)
		if err != nil {
			skipRecord(r.logger, kind, i, err)
			skipped++
			continue
		}
		out = append(out, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: reading %s: %v", ErrDataUnavailable, collection, err)
	}
	return out, skipped, nil
}

// decodeDocument fills the typed fields and, for records that echo
// themselves, keeps the whole document minus _id as relaxed extended JSON.
func decodeDocument[T any](doc bson.Raw) (T, error) {
	var v T
	if err := bson.Unmarshal(doc, &v); err != nil {
		return v, err
	}
	if s, ok := any(&v).(rawSetter); ok {
		ext, err := extJSONWithoutID(doc)
		if err != nil {
			return v, err
		}
		s.SetRaw(ext)
	}
	return v, nil
}

func extJSONWithoutID(doc bson.Raw) (json.RawMessage, error) {
	var d bson.D
	if err := bson.Unmarshal(doc, &d); err != nil {
		return nil, err
	}
	kept := make(bson.D, 0, len(d))
	for _, e := range d {
		if e.Key != "_id" {
			kept = append(kept, e)
		}
	}
	return bson.MarshalExtJSON(kept, false, false)
}

func (r *MongoRepository) storedIDs(ctx context.Context, collection string) (StoredIDs, error) {
	opts := options.Find().SetProjection(bson.M{"id": 1})
	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return StoredIDs{}, fmt.Errorf("%w: querying %s: %v", ErrDataUnavailable, collection, err)
	}
	defer cursor.Close(ctx)

	var ids StoredIDs
	for cursor.Next(ctx) {
		ids.Count++
		var rec struct {
			ID *int `bson:"id"`
		}
		if err := cursor.Decode(&rec); err != nil || rec.ID == nil {
			continue
		}
		ids.IDs = append(ids.IDs, *rec.ID)
	}
	if err := cursor.Err(); err != nil {
		return StoredIDs{}, fmt.Errorf("%w: reading %s: %v", ErrDataUnavailable, collection, err)
	}
	return ids, nil
}

func (r *MongoRepository) insert(ctx context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := r.db.Collection(collection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("MongoRepository: insert %s: %w", collection, err)
	}
	return nil
}
