/*
handlers.go - HTTP API handlers for the claims adjudication service

PURPOSE:
  Exposes the adjudication engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  POST /api/adjudicate       Run a claim through the decision state machine
  POST /api/ledger/review    Gate-only review of submitted document texts
  POST /api/extract-charges  Heuristic fallback charge extraction
  GET  /api/claims           Recent adjudication records
  GET  /api/claims/{id}      One adjudication record
  GET  /api/health           Liveness check

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (orchestrator, extractor, gate)
  4. Persist the decision record (adjudicate only)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (structural contract violations, bad JSON)
  - 404: Unknown claim id
  - 500: Internal errors
  Business declines (gate failed, estimate only) are 200s - they are
  outcomes, not errors.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - claims/adjudicate.go: The state machine behind POST /api/adjudicate
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harbor/claims-engine/claims"
	"github.com/harbor/claims-engine/extract"
	"github.com/harbor/claims-engine/store/sqlite"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store        *sqlite.Store
	Orchestrator *claims.Orchestrator
	Logger       *zap.Logger
}

// NewHandler creates a handler over the given store and logger, using the
// standard coverage terms.
func NewHandler(store *sqlite.Store, logger *zap.Logger) *Handler {
	return NewHandlerWithCoverage(store, claims.DefaultRulesConfig(), logger)
}

// NewHandlerWithCoverage creates a handler whose rules engine runs explicit
// coverage terms, typically loaded through factory.ParseCoverage.
func NewHandlerWithCoverage(store *sqlite.Store, cfg claims.RulesConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:        store,
		Orchestrator: claims.NewOrchestratorWithConfig(cfg),
		Logger:       logger,
	}
}

// =============================================================================
// ADJUDICATION
// =============================================================================

// Adjudicate runs one claim through the full decision state machine and
// persists the outcome.
func (h *Handler) Adjudicate(w http.ResponseWriter, r *http.Request) {
	var req AdjudicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	charges := make([]claims.Charge, len(req.Charges))
	for i, c := range req.Charges {
		charges[i] = c.toCharge()
	}

	adjReq := claims.AdjudicationRequest{
		TenantName:      req.TenantName,
		PropertyAddress: req.PropertyAddress,
		MonthlyRent:     req.MonthlyRent,
		MaxBenefit:      req.MaxBenefit,
		DepositAmount:   req.DepositAmount,
		MoveOutDate:     req.MoveOutDate,
		Jurisdiction:    req.Jurisdiction,
		LeaseState:      req.LeaseState,
		Documents:       claims.DocumentPresence(req.DocumentsPresent),
		Ledger:          req.LedgerChecks,
		Charges:         charges,
	}

	result, err := h.Orchestrator.Adjudicate(adjReq)
	if err != nil {
		if errors.Is(err, claims.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Invalid adjudication input", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Adjudication failed", err)
		return
	}

	resp := h.toAdjudicateResponse(uuid.NewString(), req, result)
	h.persistDecision(r, req, result, resp)

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) toAdjudicateResponse(id string, req AdjudicateRequest, res *claims.AdjudicationResult) AdjudicateResponse {
	template := OutputTemplateDTO{
		TenantName:                 req.TenantName,
		AssessmentStatus:           res.Gate.Status,
		PropertyAddress:            req.PropertyAddress,
		MonthlyRent:                req.MonthlyRent.InexactFloat64(),
		SubmittedDocuments:         res.SubmittedDocuments,
		ApprovedCharges:            toChargeLineDTOs(res.Decision.Approved),
		ExcludedCharges:            toChargeLineDTOs(res.Decision.Excluded),
		TotalApprovedCharges:       res.Decision.TotalApproved.InexactFloat64(),
		FinalPayoutBasedOnCoverage: res.FinalPayout.InexactFloat64(),
	}

	return AdjudicateResponse{
		ID:                   id,
		Validation:           toValidationDTO(res.Gate),
		FinalPayoutAvailable: res.FinalPayoutAvailable,
		MissingFields:        res.MissingFields,
		OutputTemplate:       template,
		JurisdictionUsed:     res.JurisdictionUsed,
		SummaryOfDecision:    res.Summary,
	}
}

// persistDecision stores the adjudication record. Storage failures are
// logged, not surfaced: the decision already happened and the caller gets
// it either way.
func (h *Handler) persistDecision(r *http.Request, req AdjudicateRequest, res *claims.AdjudicationResult, resp AdjudicateResponse) {
	if h.Store == nil {
		return
	}

	reqJSON, _ := json.Marshal(req)
	respJSON, _ := json.Marshal(resp)

	rec := sqlite.AdjudicationRecord{
		ID:               resp.ID,
		TenantName:       req.TenantName,
		PropertyAddress:  req.PropertyAddress,
		Outcome:          string(res.Outcome),
		GateStatus:       res.Gate.Status,
		TotalApproved:    res.Decision.TotalApproved,
		FinalPayout:      res.FinalPayout,
		PayoutAvailable:  res.FinalPayoutAvailable,
		JurisdictionUsed: res.JurisdictionUsed,
		RequestJSON:      string(reqJSON),
		ResponseJSON:     string(respJSON),
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.Store.SaveAdjudication(r.Context(), rec); err != nil {
		h.Logger.Warn("failed to persist adjudication record",
			zap.String("id", rec.ID), zap.Error(err))
	}
}

// =============================================================================
// LEDGER REVIEW
// =============================================================================

// ReviewLedger validates required documents and ledger evidence without
// evaluating charges. Takes already-extracted document texts.
func (h *Handler) ReviewLedger(w http.ResponseWriter, r *http.Request) {
	var req LedgerReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "No files provided", nil)
		return
	}

	stems := make([]string, len(req.Files))
	ledgerText := ""
	for i, f := range req.Files {
		stems[i] = docStem(f.Filename)
		if ledgerText == "" && strings.Contains(strings.ToLower(f.Filename), "tenant_ledger") {
			ledgerText = f.Text
		}
	}

	docs := claims.DetectDocuments(stems)
	evidence := claims.ExtractLedgerEvidence(ledgerText, req.LeaseStartDate)
	gate := claims.ValidateGate(docs, evidence)

	writeJSON(w, http.StatusOK, LedgerReviewResponse{
		Approved:  gate.Approved,
		Details:   toValidationDTO(gate),
		Formatted: gate.FormatReport(),
	})
}

// docStem lower-cases a filename and strips its extension.
func docStem(filename string) string {
	base := path.Base(filename)
	ext := path.Ext(base)
	return strings.ToLower(strings.TrimSuffix(base, ext))
}

// =============================================================================
// CHARGE EXTRACTION
// =============================================================================

// ExtractCharges runs the heuristic fallback parser over document texts.
func (h *Handler) ExtractCharges(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "No files provided", nil)
		return
	}

	docs := make([]extract.Document, len(req.Files))
	for i, f := range req.Files {
		docs[i] = extract.Document{Filename: f.Filename, Text: f.Text}
	}

	writeJSON(w, http.StatusOK, toExtractResponse(req.Files, extract.Parse(docs)))
}

// =============================================================================
// CLAIM RECORDS
// =============================================================================

// ListClaims returns recent adjudication records, newest first.
func (h *Handler) ListClaims(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.Store.ListAdjudications(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list claims", err)
		return
	}

	dtos := make([]ClaimRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toClaimRecordDTO(rec, false)
	}
	writeJSON(w, http.StatusOK, map[string]any{"claims": dtos})
}

// GetClaim returns one adjudication record with its full response payload.
func (h *Handler) GetClaim(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetAdjudication(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load claim", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Claim not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toClaimRecordDTO(*rec, true))
}

func toClaimRecordDTO(rec sqlite.AdjudicationRecord, includeResponse bool) ClaimRecordDTO {
	dto := ClaimRecordDTO{
		ID:               rec.ID,
		TenantName:       rec.TenantName,
		PropertyAddress:  rec.PropertyAddress,
		Outcome:          rec.Outcome,
		GateStatus:       rec.GateStatus,
		TotalApproved:    rec.TotalApproved.InexactFloat64(),
		FinalPayout:      rec.FinalPayout.InexactFloat64(),
		PayoutAvailable:  rec.PayoutAvailable,
		JurisdictionUsed: rec.JurisdictionUsed,
		CreatedAt:        rec.CreatedAt.Format(time.RFC3339),
	}
	if includeResponse {
		dto.Response = json.RawMessage(rec.ResponseJSON)
	}
	return dto
}

// =============================================================================
// HEALTH
// =============================================================================

// Health is a liveness check.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
