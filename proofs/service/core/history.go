package core

import (
	"sort"

	ledger "github.com/SagarGupta-30/TrustChain/ledger/client"
	"github.com/SagarGupta-30/TrustChain/notes"
)

// Reconstruct derives proof records from a window of an address's past
// transactions. Asset-kind notes feed a fingerprint-to-asset lookup; each
// proof-kind note then becomes one record, picking up the asset id when a
// mint with the same fingerprint exists in the window. Transactions whose
// notes do not decode are dropped.
//
// Pairing is by fingerprint value alone: two issuances of identical content
// are indistinguishable here, matching what the ledger actually records.
func Reconstruct(txs []ledger.Transaction) []ProofRecord {
	assetByFingerprint := make(map[string]uint64)
	for _, tx := range txs {
		note := notes.Decode(tx.Note)
		if note == nil || note.Kind != notes.KindAsset {
			continue
		}
		if tx.CreatedAssetID == 0 {
			continue
		}
		// First mint in the window wins.
		if _, ok := assetByFingerprint[note.Fingerprint]; !ok {
			assetByFingerprint[note.Fingerprint] = tx.CreatedAssetID
		}
	}

	var records []ProofRecord
	for _, tx := range txs {
		note := notes.Decode(tx.Note)
		if note == nil || note.Kind != notes.KindProof {
			continue
		}
		records = append(records, ProofRecord{
			FileName:       note.FileName,
			MimeType:       note.MimeType,
			Size:           note.Size,
			Label:          note.Label,
			Fingerprint:    note.Fingerprint,
			TxID:           tx.ID,
			ConfirmedRound: tx.ConfirmedRound,
			AssetID:        assetByFingerprint[note.Fingerprint],
			IssuedAt:       note.Timestamp,
		})
	}

	// Rounds are monotonic and authoritative; note timestamps are
	// client-supplied and are not trusted for ordering.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ConfirmedRound > records[j].ConfirmedRound
	})
	return records
}
