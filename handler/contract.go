package handler

import (
	"context"
	"net/http"

	"github.com/deividastamosaitis/objektai/model"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// contractLifecycle is the signing workflow surface the handlers need.
// *service.ContractService satisfies it.
type contractLifecycle interface {
	Create(ctx context.Context, contract *model.Contract) (*model.Contract, string, error)
	List(ctx context.Context, jobID *primitive.ObjectID) ([]model.Contract, []string, error)
	GetByToken(ctx context.Context, token string) (*model.Contract, error)
	Sign(ctx context.Context, token, signatureDataURL, signerName string) (*model.Contract, error)
}

type ContractHandler struct {
	contracts contractLifecycle
}

func NewContractHandler(contracts contractLifecycle) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

type createContractRequest struct {
	JobID           primitive.ObjectID `json:"jobId" binding:"required"`
	CustomerName    string             `json:"customerName" binding:"required"`
	CustomerCompany string             `json:"customerCompany"`
	CustomerCode    string             `json:"customerCode"`
	CustomerVAT     string             `json:"customerVAT"`
	CustomerEmail   string             `json:"customerEmail"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerAddress string             `json:"customerAddress"`
	ObjectAddress   string             `json:"objectAddress"`
	Notes           string             `json:"notes"`
}

type contractResponse struct {
	Contract   *model.Contract `json:"contract"`
	SigningURL string          `json:"signingUrl,omitempty"`
}

// Create registers a pending contract for a job and returns the one-time
// signing URL to hand to the customer.
func (h *ContractHandler) Create(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	contract, signingURL, err := h.contracts.Create(c.Request.Context(), &model.Contract{
		JobID:           req.JobID,
		CustomerName:    req.CustomerName,
		CustomerCompany: req.CustomerCompany,
		CustomerCode:    req.CustomerCode,
		CustomerVAT:     req.CustomerVAT,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		ObjectAddress:   req.ObjectAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contractResponse{Contract: contract, SigningURL: signingURL})
}

// List returns contracts, newest first, optionally scoped to one job via
// ?job=<id>. Pending contracts carry their signing URL.
func (h *ContractHandler) List(c *gin.Context) {
	var jobID *primitive.ObjectID
	if raw := c.Query("job"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
			return
		}
		jobID = &id
	}

	contracts, urls, err := h.contracts.List(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]contractResponse, len(contracts))
	for i := range contracts {
		out[i] = contractResponse{Contract: &contracts[i], SigningURL: urls[i]}
	}
	c.JSON(http.StatusOK, gin.H{"contracts": out, "count": len(out)})
}
