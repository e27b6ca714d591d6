package notes

import (
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/SagarGupta-30/TrustChain/fingerprint"
)

// ErrNoteTooLarge is returned when an encoded note would exceed the ledger's
// note field capacity.
var ErrNoteTooLarge = errors.New("encoded note exceeds ledger note capacity")

// bareFingerprint matches a fingerprint-shaped substring in free text. Used by
// the fallback decode path for hand-written or legacy notes.
var bareFingerprint = regexp.MustCompile(`[0-9a-fA-F]{64}`)

// Encode serializes a note of the given kind for fp and meta. The timestamp
// is taken from the wall clock at encode time.
func Encode(kind Kind, fp string, meta Metadata) ([]byte, error) {
	return encodeAt(kind, fp, meta, time.Now())
}

func encodeAt(kind Kind, fp string, meta Metadata, now time.Time) ([]byte, error) {
	if !fingerprint.Valid(fp) {
		return nil, fmt.Errorf("invalid fingerprint %q", fp)
	}
	note := ProofNote{
		App:         AppTag,
		Version:     SchemaVersion,
		Kind:        kind,
		Fingerprint: fingerprint.Normalize(fp),
		FileName:    meta.FileName,
		MimeType:    meta.MimeType,
		Size:        meta.Size,
		Label:       meta.Label,
		Timestamp:   now.Unix(),
	}
	data, err := json.Marshal(&note)
	if err != nil {
		return nil, fmt.Errorf("marshal note: %w", err)
	}
	if len(data) > MaxEncodedSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrNoteTooLarge, len(data), MaxEncodedSize)
	}
	return data, nil
}

// Decode parses raw note bytes into a ProofNote. It returns nil, never an
// error, for anything that does not carry a recoverable fingerprint: missing
// notes, non-UTF8 bytes, non-JSON text, or JSON without a hash field.
//
// When structured decoding fails but the text contains a bare 64-hex-character
// substring, that substring is accepted as the fingerprint with all other
// fields absent. This keeps verification working for hand-written notes.
func Decode(raw []byte) *ProofNote {
	if len(raw) == 0 || !utf8.Valid(raw) {
		return nil
	}
	if note := decodeStructured(raw); note != nil {
		return note
	}
	return decodeFallback(raw)
}

func decodeStructured(raw []byte) *ProofNote {
	var note ProofNote
	if err := json.Unmarshal(raw, &note); err != nil {
		return nil
	}
	if !fingerprint.Valid(note.Fingerprint) {
		return nil
	}
	note.Fingerprint = fingerprint.Normalize(note.Fingerprint)
	if note.Kind != KindProof && note.Kind != KindAsset {
		note.Kind = KindProof
	}
	return &note
}

func decodeFallback(raw []byte) *ProofNote {
	match := bareFingerprint.Find(raw)
	if match == nil {
		return nil
	}
	return &ProofNote{
		Kind:        KindProof,
		Fingerprint: fingerprint.Normalize(string(match)),
	}
}
