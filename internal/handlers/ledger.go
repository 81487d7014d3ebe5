package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/services/ledger"
	"taxchain/internal/utils"
	"taxchain/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const maxTransactionLimit = 100 // Maximum transactions per listing

// LedgerHandler serves the blockchain ledger endpoints.
type LedgerHandler struct {
	svc ledger.Service
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(svc ledger.Service) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// RecordTransaction handles POST /api/v1/blockchain/transactions.
func (h *LedgerHandler) RecordTransaction(c *fiber.Ctx) error {
	var input struct {
		ReferenceID     string      `json:"reference_id"`
		TransactionType string      `json:"transaction_type"`
		TransactionData models.JSON `json:"transaction_data"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}

	v := validation.New()
	v.LedgerEntry(input.ReferenceID, input.TransactionType)
	if !v.Valid() {
		return utils.BadRequest(c, "Invalid transaction data", v.Errors)
	}

	tx, err := h.svc.Record(c.Context(), input.ReferenceID, input.TransactionType, input.TransactionData)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidTransaction) {
			return utils.BadRequest(c, err.Error(), nil)
		}
		log.Printf("failed to record transaction for %s: %v", input.ReferenceID, err)
		return utils.InternalError(c, "Failed to record transaction")
	}

	return utils.Created(c, fiber.Map{
		"success":          true,
		"transaction_hash": tx.TransactionHash,
		"transaction":      tx,
		"message":          "Transaction recorded on ledger",
	})
}

// VerifyTransaction handles GET /api/v1/blockchain/verify.
func (h *LedgerHandler) VerifyTransaction(c *fiber.Ctx) error {
	hash := c.Query("hash")
	referenceID := c.Query("reference_id")
	if hash == "" && referenceID == "" {
		return utils.BadRequest(c, "Must provide either hash or reference_id", nil)
	}

	var (
		result *ledger.VerifyResult
		err    error
	)
	if hash != "" {
		result, err = h.svc.Verify(c.Context(), hash)
	} else {
		result, err = h.svc.VerifyByReference(c.Context(), referenceID)
	}
	if err != nil {
		if errors.Is(err, errs.ErrChainCorruption) {
			log.Printf("chain corruption detected during verify: %v", err)
			return utils.InternalError(c, "Ledger integrity violation")
		}
		log.Printf("verification failed: %v", err)
		return utils.InternalError(c, "Failed to verify transaction")
	}

	return utils.Success(c, fiber.Map{
		"success":                true,
		"exists":                 result.Exists,
		"valid":                  result.Valid,
		"transaction":            result.Transaction,
		"verification_timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetTransaction handles GET /api/v1/blockchain/transactions/:hash.
func (h *LedgerHandler) GetTransaction(c *fiber.Ctx) error {
	hash := c.Params("hash")

	tx, err := h.svc.GetTransaction(c.Context(), hash)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			return utils.NotFound(c, "Transaction not found")
		}
		log.Printf("transaction lookup failed: %v", err)
		return utils.InternalError(c, "Failed to retrieve transaction")
	}

	return utils.Success(c, fiber.Map{
		"success":     true,
		"transaction": tx,
	})
}

// ListTransactions handles GET /api/v1/blockchain/transactions.
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 {
		limit = 50
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}

	txs, err := h.svc.ListRecent(c.Context(), limit)
	if err != nil {
		log.Printf("transaction listing failed: %v", err)
		return utils.InternalError(c, "Failed to list transactions")
	}
	if txs == nil {
		txs = []models.LedgerTransaction{}
	}

	return utils.Success(c, fiber.Map{
		"success":      true,
		"transactions": txs,
		"total_count":  len(txs),
	})
}
