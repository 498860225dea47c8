package handler

import (
	"errors"
	"net/http"

	"github.com/deividastamosaitis/objektai/service"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated signing page endpoints. Error
// messages are in Lithuanian because they are shown to the customer as-is.
type PublicHandler struct {
	contracts contractLifecycle
}

func NewPublicHandler(contracts contractLifecycle) *PublicHandler {
	return &PublicHandler{contracts: contracts}
}

// GetContract resolves a signing token to the public-safe contract view.
// A consumed or unknown token reads the same: not found.
func (h *PublicHandler) GetContract(c *gin.Context) {
	contract, err := h.contracts.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ši pasirašymo nuoroda nebegalioja"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.Public()})
}

type signRequest struct {
	SignatureDataURL string `json:"signatureDataUrl"`
	SignerName       string `json:"signerName"`
}

// Sign finalizes the contract behind the token and returns the signed view
// with its PDF path.
func (h *PublicHandler) Sign(c *gin.Context) {
	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Neteisinga užklausa"})
		return
	}

	contract, err := h.contracts.Sign(c.Request.Context(), c.Param("token"), req.SignatureDataURL, req.SignerName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ši pasirašymo nuoroda nebegalioja"})
		case errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Sutartis jau pasirašyta"})
		case errors.Is(err, service.ErrValidation):
			// A missing signature and a malformed one read differently on
			// the signing page.
			if req.SignatureDataURL == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Trūksta parašo"})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Netinkamas parašo formatas"})
			}
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract": contract.Public(),
		"pdf":      contract.PDFFile,
	})
}
