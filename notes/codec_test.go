package notes

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SagarGupta-30/TrustChain/fingerprint"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fp := fingerprint.Compute([]byte("contract.pdf contents"))
	meta := Metadata{
		FileName: "contract.pdf",
		MimeType: "application/pdf",
		Size:     48213,
		Label:    "signed copy",
	}

	raw, err := Encode(KindProof, fp, meta)
	require.NoError(t, err)
	require.LessOrEqual(t, len(raw), MaxEncodedSize)

	note := Decode(raw)
	require.NotNil(t, note)
	assert.Equal(t, AppTag, note.App)
	assert.Equal(t, SchemaVersion, note.Version)
	assert.Equal(t, KindProof, note.Kind)
	assert.Equal(t, fp, note.Fingerprint)
	assert.Equal(t, meta.FileName, note.FileName)
	assert.Equal(t, meta.MimeType, note.MimeType)
	assert.Equal(t, meta.Size, note.Size)
	assert.Equal(t, meta.Label, note.Label)
	assert.NotZero(t, note.Timestamp)
}

func TestEncodeNormalizesFingerprint(t *testing.T) {
	upper := strings.ToUpper(fingerprint.Compute([]byte("x")))

	raw, err := Encode(KindAsset, upper, Metadata{})
	require.NoError(t, err)

	note := Decode(raw)
	require.NotNil(t, note)
	assert.Equal(t, strings.ToLower(upper), note.Fingerprint)
	assert.Equal(t, KindAsset, note.Kind)
}

func TestEncodeRejectsInvalidFingerprint(t *testing.T) {
	_, err := Encode(KindProof, "not-a-digest", Metadata{})
	assert.Error(t, err)
}

func TestEncodeRejectsOversizeNote(t *testing.T) {
	fp := fingerprint.Compute([]byte("big"))
	meta := Metadata{Label: strings.Repeat("x", MaxEncodedSize)}

	_, err := encodeAt(KindProof, fp, meta, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoteTooLarge)
}

func TestDecodeGarbageReturnsNil(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"nil note", nil},
		{"empty note", []byte{}},
		{"non-utf8 bytes", []byte{0xff, 0xfe, 0x80, 0x81}},
		{"plain text without fingerprint", []byte("hello world")},
		{"json without hash field", []byte(`{"app":"trustchain","kind":"proof"}`)},
		{"json with malformed hash", []byte(`{"hash":"abc"}`)},
		{"json array", []byte(`[1,2,3]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Decode(tt.raw))
		})
	}
}

func TestDecodeFallbackRecoversBareFingerprint(t *testing.T) {
	fp := fingerprint.Compute([]byte("legacy file"))
	raw := []byte("anchored by trustchain: " + strings.ToUpper(fp) + " (manual note)")

	note := Decode(raw)
	require.NotNil(t, note)
	assert.Equal(t, fp, note.Fingerprint)
	assert.Empty(t, note.FileName)
	assert.Empty(t, note.Label)
	assert.Zero(t, note.Timestamp)
}

func TestDecodeFallbackOnBrokenJSON(t *testing.T) {
	fp := fingerprint.Compute([]byte("truncated"))
	raw := []byte(`{"app":"trustchain","hash":"` + fp + `"`) // missing closing brace

	note := Decode(raw)
	require.NotNil(t, note)
	assert.Equal(t, fp, note.Fingerprint)
}

func TestDecodeCoercesUnknownKind(t *testing.T) {
	fp := fingerprint.Compute([]byte("y"))
	raw := []byte(`{"hash":"` + fp + `","kind":"mystery"}`)

	note := Decode(raw)
	require.NotNil(t, note)
	assert.Equal(t, KindProof, note.Kind)
}
