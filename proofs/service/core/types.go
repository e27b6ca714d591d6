package core

import (
	ledger "github.com/SagarGupta-30/TrustChain/ledger/client"
)

// Verdict is the outcome of a fingerprint comparison. Both values are
// successful results; a mismatch is an answer, not an error.
type Verdict string

const (
	VerdictVerified Verdict = "VERIFIED"
	VerdictInvalid  Verdict = "INVALID"
)

// ProofRecord is the user-facing unit reconstructed from the ledger: the
// marker transaction paired (best-effort, by fingerprint) with the asset
// minted for the same file. It is derived on every request, never stored.
type ProofRecord struct {
	FileName       string `json:"file_name,omitempty"`
	MimeType       string `json:"mime_type,omitempty"`
	Size           int64  `json:"size,omitempty"`
	Label          string `json:"label,omitempty"`
	Fingerprint    string `json:"fingerprint"`
	TxID           string `json:"tx_id"`
	ConfirmedRound uint64 `json:"confirmed_round"`
	AssetID        uint64 `json:"asset_id,omitempty"`
	IssuedAt       int64  `json:"issued_at,omitempty"`
}

// VerificationResult reports a verification call: the verdict plus both
// fingerprints so callers can render exactly what was compared.
type VerificationResult struct {
	Verdict             Verdict `json:"verdict"`
	TxID                string  `json:"tx_id"`
	ComputedFingerprint string  `json:"computed_fingerprint"`
	OnChainFingerprint  string  `json:"onchain_fingerprint"`
	ConfirmedRound      uint64  `json:"confirmed_round,omitempty"`
	FileName            string  `json:"file_name,omitempty"`
}

// HistoryView is the raw transaction window next to the proof records
// derived from it.
type HistoryView struct {
	Proofs   []ProofRecord        `json:"proofs"`
	Activity []ledger.Transaction `json:"activity"`
}

// IssuerStatus describes whether the configured identity can afford an
// issuance right now. MinimumRequired is the ledger's locked minimum plus
// the operator's spendable threshold.
type IssuerStatus struct {
	Address         string `json:"address"`
	Balance         uint64 `json:"balance"`
	MinimumRequired uint64 `json:"minimum_required"`
	CanIssue        bool   `json:"can_issue"`
}
