package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contract workflow states. A contract is created pending and transitions to
// signed exactly once; there is no un-sign.
const (
	ContractPending = "pending"
	ContractSigned  = "signed"
)

// Contract is a service agreement tied to a Job. Customer fields are
// denormalized at creation time so later job edits do not rewrite history.
type Contract struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	JobID            primitive.ObjectID `bson:"jobId" json:"jobId"`
	CustomerName     string             `bson:"customerName" json:"customerName"`
	CustomerCompany  string             `bson:"customerCompany,omitempty" json:"customerCompany,omitempty"`
	CustomerCode     string             `bson:"customerCode,omitempty" json:"customerCode,omitempty"`
	CustomerVAT      string             `bson:"customerVAT,omitempty" json:"customerVAT,omitempty"`
	CustomerEmail    string             `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	CustomerPhone    string             `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	CustomerAddress  string             `bson:"customerAddress,omitempty" json:"customerAddress,omitempty"`
	ObjectAddress    string             `bson:"objectAddress,omitempty" json:"objectAddress,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Number           string             `bson:"number,omitempty" json:"number,omitempty"`
	Status           string             `bson:"status" json:"status"`
	SignToken        string             `bson:"signToken,omitempty" json:"-"`
	SignerName       string             `bson:"signerName,omitempty" json:"signerName,omitempty"`
	SignedAt         *time.Time         `bson:"signedAt,omitempty" json:"signedAt,omitempty"`
	PDFFile          string             `bson:"pdfFile,omitempty" json:"pdfFile,omitempty"`
	SignatureDataURL string             `bson:"signatureDataUrl,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicContract is the projection served on the unauthenticated signing
// page. It carries only what the page needs to render a preview.
type PublicContract struct {
	ID              primitive.ObjectID `json:"_id"`
	CustomerName    string             `json:"customerName"`
	CustomerCompany string             `json:"customerCompany,omitempty"`
	SignerName      string             `json:"signerName,omitempty"`
	CustomerVAT     string             `json:"customerVAT,omitempty"`
	CustomerEmail   string             `json:"customerEmail,omitempty"`
	CustomerPhone   string             `json:"customerPhone,omitempty"`
	CustomerAddress string             `json:"customerAddress,omitempty"`
	ObjectAddress   string             `json:"objectAddress,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Status          string             `json:"status"`
	Number          string             `json:"number,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Public returns the signing-page projection of c.
func (c *Contract) Public() PublicContract {
	return PublicContract{
		ID:              c.ID,
		CustomerName:    c.CustomerName,
		CustomerCompany: c.CustomerCompany,
		SignerName:      c.SignerName,
		CustomerVAT:     c.CustomerVAT,
		CustomerEmail:   c.CustomerEmail,
		CustomerPhone:   c.CustomerPhone,
		CustomerAddress: c.CustomerAddress,
		ObjectAddress:   c.ObjectAddress,
		Notes:           c.Notes,
		Status:          c.Status,
		Number:          c.Number,
		CreatedAt:       c.CreatedAt,
	}
}
