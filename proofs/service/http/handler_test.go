package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SagarGupta-30/TrustChain/fingerprint"
	ledger "github.com/SagarGupta-30/TrustChain/ledger/client"
	"github.com/SagarGupta-30/TrustChain/notes"
	"github.com/SagarGupta-30/TrustChain/proofs/service/core"
)

const (
	stubAddress = "STUBISSUERAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	stubTxID    = "STUBTX4444444444444444444444444444444444444444444444"
)

// stubLedger backs the handler tests with canned ledger responses.
type stubLedger struct {
	address string
	balance ledger.Balance
	txByID  map[string]*ledger.Transaction
	txs     []ledger.Transaction
}

func (s *stubLedger) Address() string { return s.address }

func (s *stubLedger) SubmitSelfTransfer(ctx context.Context, note []byte) (ledger.TxResult, error) {
	return ledger.TxResult{ID: stubTxID, ConfirmedRound: 42}, nil
}

func (s *stubLedger) CreateUniqueAsset(ctx context.Context, params ledger.AssetParams, note []byte) (ledger.AssetResult, error) {
	return ledger.AssetResult{TxID: stubTxID, AssetID: 555, ConfirmedRound: 43}, nil
}

func (s *stubLedger) GetTransactionByID(ctx context.Context, id string) (*ledger.Transaction, error) {
	return s.txByID[id], nil
}

func (s *stubLedger) SearchTransactionsByAddress(ctx context.Context, address string, limit uint64) ([]ledger.Transaction, error) {
	return s.txs, nil
}

func (s *stubLedger) GetAccountBalance(ctx context.Context, address string) (ledger.Balance, error) {
	return s.balance, nil
}

func newTestMux(t *testing.T, stub *stubLedger, apiKey string) *http.ServeMux {
	t.Helper()
	svc := core.NewService(stub, core.Options{}, zap.NewNop())
	handler := NewHandler(svc, 1<<20, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, apiKey)
	return mux
}

func fundedStub() *stubLedger {
	return &stubLedger{
		address: stubAddress,
		balance: ledger.Balance{Amount: 1000000, MinBalance: 100000},
		txByID:  map[string]*ledger.Transaction{},
	}
}

func multipartUpload(t *testing.T, target, fileName string, contents []byte, label string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	if label != "" {
		require.NoError(t, writer.WriteField("label", label))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestIssueProof(t *testing.T) {
	mux := newTestMux(t, fundedStub(), "")

	req := multipartUpload(t, "/v1/proofs", "will.pdf", []byte("last will and testament"), "estate")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var record core.ProofRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "will.pdf", record.FileName)
	assert.Equal(t, "estate", record.Label)
	assert.Equal(t, stubTxID, record.TxID)
	assert.Equal(t, uint64(555), record.AssetID)
	assert.Equal(t, fingerprint.Compute([]byte("last will and testament")), record.Fingerprint)
}

func TestIssueProofMissingFileField(t *testing.T) {
	mux := newTestMux(t, fundedStub(), "")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("label", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/proofs", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueProofInsufficientFunds(t *testing.T) {
	stub := fundedStub()
	stub.balance = ledger.Balance{Amount: 100000, MinBalance: 100000}
	mux := newTestMux(t, stub, "")

	req := multipartUpload(t, "/v1/proofs", "a.txt", []byte("x"), "")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestIssueProofWithoutIssuer(t *testing.T) {
	mux := newTestMux(t, &stubLedger{}, "")

	req := multipartUpload(t, "/v1/proofs", "a.txt", []byte("x"), "")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestIssueProofAPIKeyGate(t *testing.T) {
	mux := newTestMux(t, fundedStub(), "tok3n")

	req := multipartUpload(t, "/v1/proofs", "a.txt", []byte("x"), "")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = multipartUpload(t, "/v1/proofs", "a.txt", []byte("x"), "")
	req.Header.Set("X-API-Key", "tok3n")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Reads stay open even when a key is configured.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/proofs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyProofVerdicts(t *testing.T) {
	file := []byte("notarized agreement")
	note, err := notes.Encode(notes.KindProof, fingerprint.Compute(file), notes.Metadata{FileName: "agreement.pdf"})
	require.NoError(t, err)

	stub := fundedStub()
	stub.txByID[stubTxID] = &ledger.Transaction{ID: stubTxID, ConfirmedRound: 42, Note: note}
	mux := newTestMux(t, stub, "")

	req := multipartUpload(t, "/v1/verify/"+stubTxID, "agreement.pdf", file, "")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result core.VerificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, core.VerdictVerified, result.Verdict)

	req = multipartUpload(t, "/v1/verify/"+stubTxID, "agreement.pdf", []byte("tampered agreement"), "")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "a mismatch is still a successful verification")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, core.VerdictInvalid, result.Verdict)
}

func TestVerifyProofErrors(t *testing.T) {
	stub := fundedStub()
	stub.txByID[stubTxID] = &ledger.Transaction{ID: stubTxID, Note: []byte("ordinary memo")}
	mux := newTestMux(t, stub, "")

	tests := []struct {
		name           string
		txID           string
		expectedStatus int
	}{
		{"malformed id", "not-a-txid", http.StatusBadRequest},
		{"unknown transaction", strings.Repeat("B", 52), http.StatusNotFound},
		{"transaction without proof note", stubTxID, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartUpload(t, "/v1/verify/"+tt.txID, "f.txt", []byte("f"), "")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestVerifyProofMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t, fundedStub(), "")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/verify/"+stubTxID, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGetHistory(t *testing.T) {
	file := []byte("anchored file")
	note, err := notes.Encode(notes.KindProof, fingerprint.Compute(file), notes.Metadata{FileName: "anchored.txt"})
	require.NoError(t, err)

	stub := fundedStub()
	stub.txs = []ledger.Transaction{
		{ID: stubTxID, ConfirmedRound: 42, Type: "pay", Note: note},
		{ID: "PLAINTX", ConfirmedRound: 41, Type: "pay"},
	}
	mux := newTestMux(t, stub, "")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/history?limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var view core.HistoryView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Activity, 2, "activity is the raw window")
	require.Len(t, view.Proofs, 1)
	assert.Equal(t, "anchored.txt", view.Proofs[0].FileName)
}

func TestListProofsBadLimit(t *testing.T) {
	mux := newTestMux(t, fundedStub(), "")

	for _, limit := range []string{"abc", "-5", "0"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/proofs?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit %q", limit)
	}
}

func TestGetIssuerStatus(t *testing.T) {
	mux := newTestMux(t, fundedStub(), "")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/issuer/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status core.IssuerStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, stubAddress, status.Address)
	assert.True(t, status.CanIssue)
}
