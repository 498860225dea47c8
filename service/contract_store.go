package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/deividastamosaitis/objektai/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContractStore persists Contract documents and owns the pending → signed
// transition.
type ContractStore struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewContractStore(db *mongo.Database) *ContractStore {
	return &ContractStore{
		col:      db.Collection(colContracts),
		counters: db.Collection(colCounters),
	}
}

// newSignToken returns a 128-bit random token, hex encoded. Possession of the
// token is the only authorization factor on the public signing page.
func newSignToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate sign token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Create inserts a new pending contract with a fresh signing token.
func (s *ContractStore) Create(ctx context.Context, contract *model.Contract) (*model.Contract, error) {
	if contract.JobID.IsZero() {
		return nil, fmt.Errorf("%w: jobId is required", ErrValidation)
	}
	if contract.CustomerName == "" {
		return nil, fmt.Errorf("%w: customerName is required", ErrValidation)
	}

	token, err := newSignToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	contract.ID = primitive.NewObjectID()
	contract.Status = model.ContractPending
	contract.SignToken = token
	contract.Number = ""
	contract.SignedAt = nil
	contract.PDFFile = ""
	contract.CreatedAt = now
	contract.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to insert contract: %w", err)
	}
	return contract, nil
}

// List returns contracts newest first, optionally limited to one job.
func (s *ContractStore) List(ctx context.Context, jobID *primitive.ObjectID) ([]model.Contract, error) {
	filter := bson.M{}
	if jobID != nil {
		filter["jobId"] = *jobID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer cursor.Close(ctx)

	contracts := []model.Contract{}
	if err := cursor.All(ctx, &contracts); err != nil {
		return nil, fmt.Errorf("failed to decode contracts: %w", err)
	}
	return contracts, nil
}

// GetByToken resolves a pending contract by its signing token. A consumed
// token reads the same as a never-issued one: the field is unset on signing.
func (s *ContractStore) GetByToken(ctx context.Context, token string) (*model.Contract, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var contract model.Contract
	err := s.col.FindOne(ctx, bson.M{"signToken": token}).Decode(&contract)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contract by token: %w", err)
	}
	return &contract, nil
}

// GetByID fetches a contract by id.
func (s *ContractStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Contract, error) {
	var contract model.Contract
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&contract)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contract: %w", err)
	}
	return &contract, nil
}

// NextNumber reserves the next contract number for the given day using an
// atomic counter document keyed by calendar day. Two concurrent signings can
// never observe the same sequence value.
func (s *ContractStore) NextNumber(ctx context.Context, day time.Time) (string, error) {
	prefix := day.Format("20060102")

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "contract-" + prefix},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("failed to reserve contract number: %w", err)
	}

	return formatContractNumber(day, counter.Seq), nil
}

// formatContractNumber renders the day prefix plus the sequence. Two digits
// by business convention; the 100th same-day signing widens the number
// instead of wrapping.
func formatContractNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%02d", day.Format("20060102"), seq)
}

// MarkSigned performs the pending → signed transition as one conditional
// update: status, number, signer, PDF path and timestamp are set and the
// token is unset together. A racing second signer misses the filter.
func (s *ContractStore) MarkSigned(ctx context.Context, id primitive.ObjectID, number, signerName, signatureDataURL, pdfPath string) (*model.Contract, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":           model.ContractSigned,
			"number":           number,
			"signerName":       signerName,
			"signatureDataUrl": signatureDataURL,
			"pdfFile":          pdfPath,
			"signedAt":         now,
			"updatedAt":        now,
		},
		"$unset": bson.M{"signToken": ""},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var contract model.Contract
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": model.ContractPending},
		update,
		opts,
	).Decode(&contract)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// The contract either vanished or was signed underneath us.
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark contract signed: %w", err)
	}
	return &contract, nil
}
