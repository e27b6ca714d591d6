package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SagarGupta-30/TrustChain/fingerprint"
	ledger "github.com/SagarGupta-30/TrustChain/ledger/client"
	"github.com/SagarGupta-30/TrustChain/notes"
)

// maxAssetNameLen is Algorand's limit on asset names in bytes.
const maxAssetNameLen = 32

// defaultAssetName is used when the upload carries no file name.
const defaultAssetName = "TrustChain Proof"

// Options tune the service. Zero values fall back to the defaults below.
type Options struct {
	// SpendableThreshold is the minimum spendable balance (microalgos above
	// the ledger's locked minimum) required before an issuance is attempted.
	SpendableThreshold uint64
	// UnitName is the unit name stamped on minted assets.
	UnitName string
	// AssetURL is an optional URL attached to minted assets.
	AssetURL string
	// MaxUploadBytes caps accepted file sizes. Zero means no cap here; the
	// transport layer usually enforces its own.
	MaxUploadBytes int64
	// DefaultHistoryLimit is the window size when the caller supplies none.
	DefaultHistoryLimit uint64
	// MaxHistoryLimit caps the caller-supplied window size.
	MaxHistoryLimit uint64
}

func (o *Options) setDefaults() {
	if o.SpendableThreshold == 0 {
		o.SpendableThreshold = 350000
	}
	if o.UnitName == "" {
		o.UnitName = "PROOF"
	}
	if o.DefaultHistoryLimit == 0 {
		o.DefaultHistoryLimit = 100
	}
	if o.MaxHistoryLimit == 0 {
		o.MaxHistoryLimit = 1000
	}
}

// Service implements the proof protocols over an injected ledger client.
// It holds no mutable state of its own; the ledger is the system of record.
type Service struct {
	ledger ledger.LedgerClient
	opts   Options
	logger *zap.Logger
}

// NewService creates a proof service instance.
func NewService(lc ledger.LedgerClient, opts Options, logger *zap.Logger) *Service {
	opts.setDefaults()
	return &Service{
		ledger: lc,
		opts:   opts,
		logger: logger,
	}
}

// Issue anchors fileBytes on the ledger: a zero-value marker transaction
// carrying a proof note, then a one-of-one asset mint carrying an asset note
// with the same fingerprint. Both writes are irreversible once confirmed and
// neither is retried. If the mint fails after the marker confirmed, the
// failure is reported as-is; the ledger has no multi-transaction rollback.
func (s *Service) Issue(ctx context.Context, fileBytes []byte, meta notes.Metadata) (*ProofRecord, error) {
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if s.opts.MaxUploadBytes > 0 && int64(len(fileBytes)) > s.opts.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.opts.MaxUploadBytes)
	}

	address := s.ledger.Address()
	if address == "" {
		return nil, ErrConfigurationMissing
	}

	// Check funds before touching the network with a write, so a doomed
	// submission never burns fees.
	balance, err := s.ledger.GetAccountBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	spendable := uint64(0)
	if balance.Amount > balance.MinBalance {
		spendable = balance.Amount - balance.MinBalance
	}
	if spendable < s.opts.SpendableThreshold {
		return nil, fmt.Errorf("%w: spendable %d microalgos, need %d",
			ErrInsufficientFunds, spendable, s.opts.SpendableThreshold)
	}

	fp := fingerprint.Compute(fileBytes)

	proofNote, err := notes.Encode(notes.KindProof, fp, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	marker, err := s.ledger.SubmitSelfTransfer(ctx, proofNote)
	if err != nil {
		return nil, fmt.Errorf("%w: submit marker: %v", ErrUpstreamFailure, err)
	}

	assetNote, err := notes.Encode(notes.KindAsset, fp, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	asset, err := s.ledger.CreateUniqueAsset(ctx, ledger.AssetParams{
		UnitName:  s.opts.UnitName,
		AssetName: assetName(meta.FileName),
		URL:       s.opts.AssetURL,
	}, assetNote)
	if err != nil {
		// The marker is already on-ledger; report the partial outcome
		// instead of pretending it can be rolled back.
		s.logger.Error("asset mint failed after marker confirmed",
			zap.String("marker_tx", marker.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: mint asset (marker %s already confirmed): %v",
			ErrUpstreamFailure, marker.ID, err)
	}

	s.logger.Info("proof issued",
		zap.String("fingerprint", fp),
		zap.String("marker_tx", marker.ID),
		zap.Uint64("asset_id", asset.AssetID))

	return &ProofRecord{
		FileName:       meta.FileName,
		MimeType:       meta.MimeType,
		Size:           meta.Size,
		Label:          meta.Label,
		Fingerprint:    fp,
		TxID:           marker.ID,
		ConfirmedRound: marker.ConfirmedRound,
		AssetID:        asset.AssetID,
	}, nil
}

// Verify recomputes the fingerprint of fileBytes and compares it to the one
// embedded in the referenced transaction's note. A mismatch is VerdictInvalid,
// a first-class result; errors are reserved for the cases where no comparison
// could happen at all.
func (s *Service) Verify(ctx context.Context, fileBytes []byte, txID string) (*VerificationResult, error) {
	if !ledger.ValidTxID(txID) {
		return nil, fmt.Errorf("%w: malformed transaction id %q", ErrInvalidInput, txID)
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	tx, err := s.ledger.GetTransactionByID(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, txID)
	}

	note := notes.Decode(tx.Note)
	if note == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoProofData, txID)
	}

	computed := fingerprint.Compute(fileBytes)
	verdict := VerdictInvalid
	if fingerprint.Equal(computed, note.Fingerprint) {
		verdict = VerdictVerified
	}

	return &VerificationResult{
		Verdict:             verdict,
		TxID:                tx.ID,
		ComputedFingerprint: computed,
		OnChainFingerprint:  note.Fingerprint,
		ConfirmedRound:      tx.ConfirmedRound,
		FileName:            note.FileName,
	}, nil
}

// ListProofs reconstructs the issued proofs from a bounded window of the
// issuer's transaction history.
func (s *Service) ListProofs(ctx context.Context, limit uint64) ([]ProofRecord, error) {
	view, err := s.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	return view.Proofs, nil
}

// History returns both the derived proof records and the raw transaction
// window they came from.
func (s *Service) History(ctx context.Context, limit uint64) (*HistoryView, error) {
	address := s.ledger.Address()
	if address == "" {
		return nil, ErrConfigurationMissing
	}

	txs, err := s.ledger.SearchTransactionsByAddress(ctx, address, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	records := Reconstruct(txs)
	if records == nil {
		records = []ProofRecord{}
	}
	return &HistoryView{Proofs: records, Activity: txs}, nil
}

// IssuerStatus reports whether the configured identity can afford an
// issuance right now.
func (s *Service) IssuerStatus(ctx context.Context) (*IssuerStatus, error) {
	address := s.ledger.Address()
	if address == "" {
		return nil, ErrConfigurationMissing
	}

	balance, err := s.ledger.GetAccountBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	required := balance.MinBalance + s.opts.SpendableThreshold
	return &IssuerStatus{
		Address:         address,
		Balance:         balance.Amount,
		MinimumRequired: required,
		CanIssue:        balance.Amount >= required,
	}, nil
}

func (s *Service) clampLimit(limit uint64) uint64 {
	if limit == 0 {
		return s.opts.DefaultHistoryLimit
	}
	if limit > s.opts.MaxHistoryLimit {
		return s.opts.MaxHistoryLimit
	}
	return limit
}

// assetName derives the minted asset's display name from the file name,
// truncated to the ledger's 32-byte limit.
func assetName(fileName string) string {
	if fileName == "" {
		return defaultAssetName
	}
	if len(fileName) > maxAssetNameLen {
		return fileName[:maxAssetNameLen]
	}
	return fileName
}
