package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/chaintrack-labs/chaintrack-go/pkg/batch"
	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
	"github.com/chaintrack-labs/chaintrack-go/pkg/verification"
)

// maxBodyBytes bounds request bodies. A proof is one digest per tree level.
const maxBodyBytes = 64 << 10

type BatchResponse struct {
	Batch        *types.Batch      `json:"batch"`
	ProductCount int               `json:"productCount"`
	Movements    []*types.Movement `json:"movements"`
}

type ProofResponse struct {
	BatchCode string                 `json:"batchCode"`
	ProductID string                 `json:"productId"`
	Index     int                    `json:"index"`
	VerifyURL string                 `json:"verifyUrl"`
	Proof     *merkle.InclusionProof `json:"proof"`
}

type VerifyProofRequest struct {
	Leaf      string   `json:"leaf"`
	Proof     []string `json:"proof"`
	Root      string   `json:"root"`
	BatchCode string   `json:"batchCode,omitempty"`
}

type VerifyProofResponse struct {
	Valid      bool                `json:"valid"`
	Status     verification.Status `json:"status"`
	Reason     string              `json:"reason,omitempty"`
	LedgerRoot *common.Hash        `json:"ledgerRoot,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID := q.Get("productId")
	batchCode := q.Get("batchCode")
	if productID == "" || batchCode == "" {
		writeError(w, http.StatusBadRequest, "productId and batchCode are required")
		return
	}

	result, err := s.verifier.VerifyProduct(r.Context(), batchCode, productID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.manager.ListBatches()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	details, err := s.manager.GetBatchDetails(mux.Vars(r)["batchCode"])
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	movements := details.Movements
	if movements == nil {
		movements = []*types.Movement{}
	}
	writeJSON(w, http.StatusOK, BatchResponse{
		Batch:        details.Batch,
		ProductCount: len(details.Products),
		Movements:    movements,
	})
}

func (s *Server) handleGetProof(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	batchCode, productID := vars["batchCode"], vars["productId"]

	product, err := s.store.LoadProduct(batchCode, productID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if product == nil || product.MerkleProof == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, ProofResponse{
		BatchCode: batchCode,
		ProductID: productID,
		Index:     product.Index,
		VerifyURL: product.VerifyURL,
		Proof:     product.MerkleProof,
	})
}

func (s *Server) handleVerifyProof(w http.ResponseWriter, r *http.Request) {
	var req VerifyProofRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request: "+err.Error())
		return
	}

	proof, err := merkle.DecodeInclusionProof(req.Leaf, req.Proof, req.Root)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.verifier.VerifyProof(r.Context(), req.BatchCode, proof)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyProofResponse{
		Valid:      result.Verified(),
		Status:     result.Status,
		Reason:     result.Reason,
		LedgerRoot: result.LedgerRoot,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.HealthCheck(); err != nil {
		s.logger.Sugar().Warnw("Health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "persistence unhealthy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeFailure maps domain errors onto status codes
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, batch.ErrBatchNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, verification.ErrInvalidRequest),
		errors.Is(err, merkle.ErrMalformedProof):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contractCaller.ErrLedgerUnavailable):
		s.logger.Sugar().Warnw("Ledger unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "ledger unavailable")
	default:
		s.logger.Sugar().Errorw("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
