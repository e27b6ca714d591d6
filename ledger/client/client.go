// Package client defines the ledger collaborator contract the proof service
// depends on, and an Algorand-backed implementation of it. The service only
// ever sees this interface, so tests substitute a fake ledger.
package client

import (
	"context"
	"regexp"
)

// txIDPattern is the shape of an Algorand transaction id: 52 characters of
// unpadded RFC 4648 base32.
var txIDPattern = regexp.MustCompile(`^[A-Z2-7]{52}$`)

// ValidTxID reports whether id is a syntactically valid transaction id.
// Callers check this before spending a network round-trip on a lookup.
func ValidTxID(id string) bool {
	return txIDPattern.MatchString(id)
}

// Transaction is a read-only view of a confirmed ledger transaction, as
// supplied by the indexer. The note bytes are opaque here; the notes package
// interprets them.
type Transaction struct {
	ID             string `json:"id"`
	ConfirmedRound uint64 `json:"confirmed_round"`
	RoundTime      uint64 `json:"round_time"`
	Sender         string `json:"sender"`
	Type           string `json:"tx_type"`
	Note           []byte `json:"note,omitempty"`
	CreatedAssetID uint64 `json:"created_asset_id,omitempty"`
}

// TxResult is the outcome of a confirmed write.
type TxResult struct {
	ID             string
	ConfirmedRound uint64
}

// AssetResult is the outcome of a confirmed asset creation.
type AssetResult struct {
	TxID           string
	AssetID        uint64
	ConfirmedRound uint64
}

// AssetParams names the one-of-one asset minted for a proof.
type AssetParams struct {
	UnitName  string
	AssetName string
	URL       string
}

// Balance is an account's holdings in microalgos. MinBalance is the ledger's
// own locked minimum, not the operator's safety threshold.
type Balance struct {
	Amount     uint64
	MinBalance uint64
}

// LedgerClient is the contract any ledger/indexer backend must satisfy.
// Writes block until the transaction is confirmed and are never retried
// internally; a retried write could double-issue.
type LedgerClient interface {
	// SubmitSelfTransfer submits a zero-value payment from the issuer to
	// itself carrying note, and waits for confirmation.
	SubmitSelfTransfer(ctx context.Context, note []byte) (TxResult, error)

	// CreateUniqueAsset mints a one-unit, zero-decimal asset carrying note,
	// and waits for confirmation.
	CreateUniqueAsset(ctx context.Context, params AssetParams, note []byte) (AssetResult, error)

	// GetTransactionByID looks up a confirmed transaction. Returns nil, nil
	// when the transaction does not exist.
	GetTransactionByID(ctx context.Context, id string) (*Transaction, error)

	// SearchTransactionsByAddress returns up to limit transactions involving
	// address, in the order the indexer supplies them.
	SearchTransactionsByAddress(ctx context.Context, address string, limit uint64) ([]Transaction, error)

	// GetAccountBalance reads the current holdings of address.
	GetAccountBalance(ctx context.Context, address string) (Balance, error)

	// Address returns the issuing identity's address, or "" when no issuer
	// is configured.
	Address() string
}
