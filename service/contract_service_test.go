package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deividastamosaitis/objektai/config"
	"github.com/deividastamosaitis/objektai/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeContractStore keeps contracts in memory and mimics the conditional
// signing update of the real store.
type fakeContractStore struct {
	contracts map[string]*model.Contract
	seq       map[string]int
}

func newFakeContractStore() *fakeContractStore {
	return &fakeContractStore{
		contracts: make(map[string]*model.Contract),
		seq:       make(map[string]int),
	}
}

func (f *fakeContractStore) add(c *model.Contract) {
	f.contracts[c.ID.Hex()] = c
}

func (f *fakeContractStore) Create(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	if c.JobID.IsZero() {
		return nil, fmt.Errorf("%w: jobId is required", ErrValidation)
	}
	token, err := newSignToken()
	if err != nil {
		return nil, err
	}
	c.ID = primitive.NewObjectID()
	c.Status = model.ContractPending
	c.SignToken = token
	c.CreatedAt = time.Now()
	f.add(c)
	return c, nil
}

func (f *fakeContractStore) List(ctx context.Context, jobID *primitive.ObjectID) ([]model.Contract, error) {
	var out []model.Contract
	for _, c := range f.contracts {
		if jobID != nil && c.JobID != *jobID {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeContractStore) GetByToken(ctx context.Context, token string) (*model.Contract, error) {
	for _, c := range f.contracts {
		if c.SignToken != "" && c.SignToken == token {
			copy := *c
			return &copy, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeContractStore) NextNumber(ctx context.Context, day time.Time) (string, error) {
	prefix := day.Format("20060102")
	f.seq[prefix]++
	return fmt.Sprintf("%s%02d", prefix, f.seq[prefix]), nil
}

func (f *fakeContractStore) MarkSigned(ctx context.Context, id primitive.ObjectID, number, signerName, signatureDataURL, pdfPath string) (*model.Contract, error) {
	c, ok := f.contracts[id.Hex()]
	if !ok || c.Status != model.ContractPending {
		return nil, ErrConflict
	}
	now := time.Now()
	c.Status = model.ContractSigned
	c.Number = number
	c.SignerName = signerName
	c.SignatureDataURL = signatureDataURL
	c.PDFFile = pdfPath
	c.SignToken = ""
	c.SignedAt = &now
	copy := *c
	return &copy, nil
}

type fakeRenderer struct {
	fail    bool
	lastDoc string
}

func (r *fakeRenderer) Render(html string) ([]byte, error) {
	if r.fail {
		return nil, errors.New("renderer exploded")
	}
	r.lastDoc = html
	return []byte("%PDF-1.4 fake"), nil
}

func (r *fakeRenderer) Close() error { return nil }

func newTestService(t *testing.T, store ContractSigningStore, renderer PDFRenderer) *ContractService {
	t.Helper()
	return NewContractService(store, renderer,
		&config.UploadsConfig{Dir: t.TempDir()},
		&config.PublicConfig{AppOrigin: "https://sutartys.example.lt"},
	)
}

func pendingContract(store *fakeContractStore) *model.Contract {
	c := &model.Contract{
		ID:           primitive.NewObjectID(),
		JobID:        primitive.NewObjectID(),
		CustomerName: "Jonas Jonaitis",
		Status:       model.ContractPending,
		SignToken:    "aabbccddeeff00112233445566778899",
		CreatedAt:    time.Now(),
	}
	store.add(c)
	return c
}

func TestSigningURL(t *testing.T) {
	store := newFakeContractStore()
	svc := newTestService(t, store, &fakeRenderer{})

	pending := &model.Contract{Status: model.ContractPending, SignToken: "tok123"}
	if got := svc.SigningURL(pending); got != "https://sutartys.example.lt/sutartis/tok123" {
		t.Errorf("Unexpected signing URL: %s", got)
	}

	signed := &model.Contract{Status: model.ContractSigned}
	if got := svc.SigningURL(signed); got != "" {
		t.Errorf("Signed contract should have no signing URL, got %s", got)
	}
}

func TestSignHappyPath(t *testing.T) {
	store := newFakeContractStore()
	renderer := &fakeRenderer{}
	svc := newTestService(t, store, renderer)
	c := pendingContract(store)

	signed, err := svc.Sign(context.Background(), c.SignToken, "data:image/png;base64,AAAA", "Jonas Jonaitis")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if signed.Status != model.ContractSigned {
		t.Errorf("Expected status signed, got %s", signed.Status)
	}
	if signed.SignToken != "" {
		t.Error("Expected signToken cleared after signing")
	}
	if signed.SignedAt == nil {
		t.Error("Expected signedAt to be stamped")
	}

	wantPrefix := time.Now().Format("20060102")
	if signed.Number != wantPrefix+"01" {
		t.Errorf("Expected first number of the day %s01, got %s", wantPrefix, signed.Number)
	}
	if signed.PDFFile != "/uploads/contracts/sutartis-"+signed.Number+".pdf" {
		t.Errorf("Unexpected pdf path: %s", signed.PDFFile)
	}

	// PDF was written under the uploads dir
	abs := filepath.Join(svc.uploadsDir, "contracts", "sutartis-"+signed.Number+".pdf")
	if _, err := os.Stat(abs); err != nil {
		t.Errorf("Expected PDF on disk at %s: %v", abs, err)
	}

	// Consumed token reads as never issued
	if _, err := svc.GetByToken(context.Background(), c.SignToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for consumed token, got %v", err)
	}
}

func TestSignSecondAttemptFails(t *testing.T) {
	store := newFakeContractStore()
	svc := newTestService(t, store, &fakeRenderer{})
	c := pendingContract(store)
	token := c.SignToken

	first, err := svc.Sign(context.Background(), token, "data:image/png;base64,AAAA", "Jonas")
	if err != nil {
		t.Fatalf("First sign failed: %v", err)
	}

	_, err = svc.Sign(context.Background(), token, "data:image/png;base64,BBBB", "Petras")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second sign, got %v", err)
	}

	// First artifact unchanged
	stored := store.contracts[first.ID.Hex()]
	if stored.SignerName != "Jonas" {
		t.Errorf("First signature was overwritten: %s", stored.SignerName)
	}
}

func TestSignValidation(t *testing.T) {
	store := newFakeContractStore()
	svc := newTestService(t, store, &fakeRenderer{})
	c := pendingContract(store)

	tests := []struct {
		name      string
		token     string
		signature string
		wantErr   error
	}{
		{"unknown token", "nope", "data:image/png;base64,AAAA", ErrNotFound},
		{"missing signature", c.SignToken, "", ErrValidation},
		{"non-image signature", c.SignToken, "javascript:alert(1)", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Sign(context.Background(), tt.token, tt.signature, "X"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Nothing was consumed by the failed attempts
	if _, err := svc.GetByToken(context.Background(), c.SignToken); err != nil {
		t.Errorf("Contract should still be pending: %v", err)
	}
}

func TestSignRendererFailureLeavesPending(t *testing.T) {
	store := newFakeContractStore()
	renderer := &fakeRenderer{fail: true}
	svc := newTestService(t, store, renderer)
	c := pendingContract(store)

	if _, err := svc.Sign(context.Background(), c.SignToken, "data:image/png;base64,AAAA", "Jonas"); err == nil {
		t.Fatal("Expected renderer failure to propagate")
	}

	// Retry succeeds once the renderer recovers
	renderer.fail = false
	if _, err := svc.Sign(context.Background(), c.SignToken, "data:image/png;base64,AAAA", "Jonas"); err != nil {
		t.Fatalf("Retry after renderer failure should succeed: %v", err)
	}
}

func TestSignKeepsExistingNumber(t *testing.T) {
	store := newFakeContractStore()
	svc := newTestService(t, store, &fakeRenderer{})
	c := pendingContract(store)
	c.Number = "2026010577"

	signed, err := svc.Sign(context.Background(), c.SignToken, "data:image/png;base64,AAAA", "Jonas")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if signed.Number != "2026010577" {
		t.Errorf("Pre-assigned number must be kept, got %s", signed.Number)
	}
	if len(store.seq) != 0 {
		t.Error("Counter must not be consumed when a number already exists")
	}
}

func TestSignEmbedsSignatureInDocument(t *testing.T) {
	store := newFakeContractStore()
	renderer := &fakeRenderer{}
	svc := newTestService(t, store, renderer)
	c := pendingContract(store)

	if _, err := svc.Sign(context.Background(), c.SignToken, "data:image/png;base64,QUJD", "Jonas"); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if !strings.Contains(renderer.lastDoc, "data:image/png;base64,QUJD") {
		t.Error("Rendered document should embed the signature data URI")
	}
	if !strings.Contains(renderer.lastDoc, "Jonas Jonaitis") {
		t.Error("Rendered document should carry the customer name")
	}
}
