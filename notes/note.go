// Package notes encodes and decodes the structured proof payload carried in a
// ledger transaction's note field.
package notes

// Kind discriminates the two note variants written by the issuance flow.
type Kind string

const (
	// KindProof marks the zero-value self-transfer that anchors a fingerprint.
	KindProof Kind = "proof"
	// KindAsset marks the asset-creation transaction minted for the same file.
	KindAsset Kind = "asset"
)

// AppTag identifies TrustChain notes among arbitrary transaction notes.
const AppTag = "trustchain"

// SchemaVersion is the current note schema version.
const SchemaVersion = 1

// MaxEncodedSize is the ledger's note field capacity in bytes. Algorand
// rejects transactions whose note exceeds 1000 bytes, so the encoder fails
// fast instead of letting the network reject the write.
const MaxEncodedSize = 1000

// ProofNote is the structured payload embedded in a transaction note. Once a
// carrying transaction is confirmed the note is immutable; this type is only
// a serialization vehicle.
type ProofNote struct {
	App         string `json:"app"`
	Version     int    `json:"v"`
	Kind        Kind   `json:"kind"`
	Fingerprint string `json:"hash"`
	FileName    string `json:"name,omitempty"`
	MimeType    string `json:"mime,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Label       string `json:"label,omitempty"`
	Timestamp   int64  `json:"ts,omitempty"`
}

// Metadata is the optional file metadata attached to a note at issuance time.
type Metadata struct {
	FileName string
	MimeType string
	Size     int64
	Label    string
}
