package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deividastamosaitis/objektai/config"
	"github.com/deividastamosaitis/objektai/model"
	"github.com/deividastamosaitis/objektai/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContractSigningStore is the persistence surface the signing workflow
// needs. *ContractStore satisfies it; tests substitute a fake.
type ContractSigningStore interface {
	Create(ctx context.Context, contract *model.Contract) (*model.Contract, error)
	List(ctx context.Context, jobID *primitive.ObjectID) ([]model.Contract, error)
	GetByToken(ctx context.Context, token string) (*model.Contract, error)
	NextNumber(ctx context.Context, day time.Time) (string, error)
	MarkSigned(ctx context.Context, id primitive.ObjectID, number, signerName, signatureDataURL, pdfPath string) (*model.Contract, error)
}

// ContractService runs the contract lifecycle: creation with a signing URL,
// listing, and the pending → signed transition with PDF generation.
type ContractService struct {
	store      ContractSigningStore
	renderer   PDFRenderer
	uploadsDir string
	origin     string
}

func NewContractService(store ContractSigningStore, renderer PDFRenderer, uploads *config.UploadsConfig, public *config.PublicConfig) *ContractService {
	return &ContractService{
		store:      store,
		renderer:   renderer,
		uploadsDir: uploads.Dir,
		origin:     public.AppOrigin,
	}
}

// SigningURL returns the absolute public signing URL for a contract, or ""
// once the token is consumed. The URL is derived on read, never stored.
func (s *ContractService) SigningURL(c *model.Contract) string {
	if c.Status != model.ContractPending || c.SignToken == "" {
		return ""
	}
	return fmt.Sprintf("%s/sutartis/%s", s.origin, c.SignToken)
}

// Create inserts a pending contract and returns it with its signing URL.
func (s *ContractService) Create(ctx context.Context, contract *model.Contract) (*model.Contract, string, error) {
	created, err := s.store.Create(ctx, contract)
	if err != nil {
		return nil, "", err
	}
	return created, s.SigningURL(created), nil
}

// List returns contracts with signing URLs attached while pending.
func (s *ContractService) List(ctx context.Context, jobID *primitive.ObjectID) ([]model.Contract, []string, error) {
	contracts, err := s.store.List(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	urls := make([]string, len(contracts))
	for i := range contracts {
		urls[i] = s.SigningURL(&contracts[i])
	}
	return contracts, urls, nil
}

// GetByToken resolves the public-safe view of a contract for the sign page.
func (s *ContractService) GetByToken(ctx context.Context, token string) (*model.Contract, error) {
	return s.store.GetByToken(ctx, token)
}

// Sign finalizes a pending contract: reserves a daily sequential number on
// first signing, renders the legal document with the signature embedded,
// rasterizes it to PDF, persists the file, and flips the contract to signed
// in one conditional write. A renderer failure leaves the contract pending,
// so the whole call is safe to retry.
func (s *ContractService) Sign(ctx context.Context, token, signatureDataURL, signerName string) (*model.Contract, error) {
	contract, err := s.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if contract.Status == model.ContractSigned {
		return nil, fmt.Errorf("%w: contract already signed", ErrConflict)
	}
	if signatureDataURL == "" {
		return nil, fmt.Errorf("%w: signature is required", ErrValidation)
	}

	now := time.Now()
	number := contract.Number
	if number == "" {
		number, err = s.store.NextNumber(ctx, now)
		if err != nil {
			return nil, err
		}
	}

	fields, err := FieldsFromContract(contract, number, signatureDataURL, now)
	if err != nil {
		return nil, err
	}
	html, err := RenderContractHTML(fields)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.renderer.Render(html)
	if err != nil {
		return nil, fmt.Errorf("failed to render contract PDF: %w", err)
	}

	fileName := fmt.Sprintf("sutartis-%s.pdf", number)
	outDir := filepath.Join(s.uploadsDir, "contracts")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create contracts dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, fileName), pdfBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write contract PDF: %w", err)
	}
	webPath := "/uploads/contracts/" + fileName

	signed, err := s.store.MarkSigned(ctx, contract.ID, number, signerName, signatureDataURL, webPath)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "contract signed",
		"contract_id", signed.ID.Hex(),
		"number", signed.Number,
		"pdf", signed.PDFFile,
	)
	return signed, nil
}
