package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deividastamosaitis/objektai/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JobStore persists Job documents.
type JobStore struct {
	col *mongo.Collection
}

func NewJobStore(db *mongo.Database) *JobStore {
	return &JobStore{col: db.Collection(colJobs)}
}

// JobUpdate enumerates every field an edit request may touch. A nil field is
// left untouched; the merge rules live in one place instead of scattered
// presence checks.
type JobUpdate struct {
	Name    *string
	Phone   *string
	Address *string
	Email   *string
	Lat     *string
	Lng     *string
	Status  *string
	WeekDay *string
	Muted   *bool
	Info    *string
	// Images is non-nil only when the request was a media-capable submission
	// that supplied a keep-list or new files; otherwise media is untouched.
	Images *[]string
}

// document translates the update into $set/$unset operations.
//
// Two business rules are enforced here: an empty or unrecognized weekDay
// clears the field, and the "Baigta" status always clears the schedule day no
// matter what was submitted alongside it.
func (u *JobUpdate) document() (bson.M, bson.M, error) {
	set := bson.M{}
	unset := bson.M{}

	if u.Name != nil {
		set["vardas"] = *u.Name
	}
	if u.Phone != nil {
		set["telefonas"] = *u.Phone
	}
	if u.Address != nil {
		set["adresas"] = *u.Address
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Lat != nil {
		set["lat"] = *u.Lat
	}
	if u.Lng != nil {
		set["lng"] = *u.Lng
	}
	if u.Status != nil {
		if !model.ValidJobStatus(*u.Status) {
			return nil, nil, fmt.Errorf("%w: unknown jobStatus %q", ErrValidation, *u.Status)
		}
		set["jobStatus"] = *u.Status
	}
	if u.WeekDay != nil {
		if model.ValidWeekDay(*u.WeekDay) {
			set["weekDay"] = *u.WeekDay
		} else {
			unset["weekDay"] = ""
		}
	}
	if u.Status != nil && *u.Status == model.StatusBaigta {
		delete(set, "weekDay")
		unset["weekDay"] = ""
	}
	if u.Muted != nil {
		set["prislopintas"] = *u.Muted
	}
	if u.Info != nil {
		set["info"] = *u.Info
	}
	if u.Images != nil {
		set["images"] = *u.Images
	}

	set["updatedAt"] = time.Now()
	return set, unset, nil
}

// Create validates required fields and inserts a new job.
func (s *JobStore) Create(ctx context.Context, job *model.Job) (*model.Job, error) {
	if job.Name == "" || job.Phone == "" || job.Address == "" {
		return nil, fmt.Errorf("%w: vardas, telefonas and adresas are required", ErrValidation)
	}
	if !model.ValidJobStatus(job.Status) {
		return nil, fmt.Errorf("%w: unknown jobStatus %q", ErrValidation, job.Status)
	}
	if job.Status == model.StatusBaigta || !model.ValidWeekDay(job.WeekDay) {
		job.WeekDay = ""
	}

	now := time.Now()
	job.ID = primitive.NewObjectID()
	job.CreatedAt = now
	job.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}
	return job, nil
}

// Get fetches a single job by id.
func (s *JobStore) Get(ctx context.Context, id primitive.ObjectID) (*model.Job, error) {
	var job model.Job
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job: %w", err)
	}
	return &job, nil
}

// List returns jobs, optionally narrowed by status, newest first.
func (s *JobStore) List(ctx context.Context, status string) ([]model.Job, error) {
	filter := bson.M{}
	if status != "" {
		filter["jobStatus"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	jobs := []model.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}
	return jobs, nil
}

// Update applies a partial update and returns the updated document.
func (s *JobStore) Update(ctx context.Context, id primitive.ObjectID, upd *JobUpdate) (*model.Job, error) {
	set, unset, err := upd.document()
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var job model.Job
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return &job, nil
}

// Delete removes the job and returns the removed document for confirmation.
func (s *JobStore) Delete(ctx context.Context, id primitive.ObjectID) (*model.Job, error) {
	var job model.Job
	err := s.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete job: %w", err)
	}
	return &job, nil
}

// UpsertInstallation replaces the embedded installation record wholesale.
// The performing user and a default commissioning date are stamped here.
func (s *JobStore) UpsertInstallation(ctx context.Context, jobID primitive.ObjectID, inst *model.Installation, performedBy primitive.ObjectID) (*model.Job, error) {
	if inst.CommissionedAt.IsZero() {
		inst.CommissionedAt = time.Now()
	}
	inst.PerformedBy = performedBy
	inst.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"montavimas": inst,
		"updatedAt":  time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var job model.Job
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": jobID}, update, opts).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert installation: %w", err)
	}
	return &job, nil
}
