package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/indexer"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"go.uber.org/zap"
)

// Config carries the connection and identity settings for the Algorand
// client. Mnemonic may be empty, in which case the client is read-only:
// lookups and searches work, writes fail.
type Config struct {
	AlgodURL     string
	AlgodToken   string
	IndexerURL   string
	IndexerToken string
	Mnemonic     string
	WaitRounds   uint64
}

// AlgorandClient implements LedgerClient against an algod node and an
// indexer service via the official SDK.
type AlgorandClient struct {
	algod      *algod.Client
	indexer    *indexer.Client
	account    *crypto.Account
	waitRounds uint64
	logger     *zap.Logger
}

var _ LedgerClient = (*AlgorandClient)(nil)

// NewAlgorandClient connects to algod and the indexer and, when a mnemonic is
// configured, derives the issuing account from it.
func NewAlgorandClient(cfg Config, logger *zap.Logger) (*AlgorandClient, error) {
	algodClient, err := algod.MakeClient(cfg.AlgodURL, cfg.AlgodToken)
	if err != nil {
		return nil, fmt.Errorf("create algod client: %w", err)
	}
	indexerClient, err := indexer.MakeClient(cfg.IndexerURL, cfg.IndexerToken)
	if err != nil {
		return nil, fmt.Errorf("create indexer client: %w", err)
	}

	c := &AlgorandClient{
		algod:      algodClient,
		indexer:    indexerClient,
		waitRounds: cfg.WaitRounds,
		logger:     logger,
	}
	if c.waitRounds == 0 {
		c.waitRounds = 4
	}

	if cfg.Mnemonic != "" {
		key, err := mnemonic.ToPrivateKey(cfg.Mnemonic)
		if err != nil {
			return nil, fmt.Errorf("decode issuer mnemonic: %w", err)
		}
		account, err := crypto.AccountFromPrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("derive issuer account: %w", err)
		}
		c.account = &account
		logger.Info("issuer account configured", zap.String("address", account.Address.String()))
	} else {
		logger.Warn("no issuer mnemonic configured, running read-only")
	}

	return c, nil
}

// Address returns the issuer address, or "" in read-only mode.
func (c *AlgorandClient) Address() string {
	if c.account == nil {
		return ""
	}
	return c.account.Address.String()
}

// SubmitSelfTransfer submits a zero-value payment to self carrying note and
// waits for confirmation.
func (c *AlgorandClient) SubmitSelfTransfer(ctx context.Context, note []byte) (TxResult, error) {
	if c.account == nil {
		return TxResult{}, fmt.Errorf("no issuer account configured")
	}
	addr := c.account.Address.String()

	params, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		return TxResult{}, fmt.Errorf("fetch suggested params: %w", err)
	}

	txn, err := transaction.MakePaymentTxn(addr, addr, 0, note, "", params)
	if err != nil {
		return TxResult{}, fmt.Errorf("build payment transaction: %w", err)
	}

	txID, confirmed, err := c.signAndSubmit(ctx, txn)
	if err != nil {
		return TxResult{}, err
	}
	c.logger.Info("marker transaction confirmed",
		zap.String("tx_id", txID), zap.Uint64("round", confirmed.ConfirmedRound))
	return TxResult{ID: txID, ConfirmedRound: confirmed.ConfirmedRound}, nil
}

// CreateUniqueAsset mints a 1-unit, 0-decimal asset carrying note and waits
// for confirmation. The issuer keeps the manager role; reserve, freeze and
// clawback are left unset.
func (c *AlgorandClient) CreateUniqueAsset(ctx context.Context, assetParams AssetParams, note []byte) (AssetResult, error) {
	if c.account == nil {
		return AssetResult{}, fmt.Errorf("no issuer account configured")
	}
	addr := c.account.Address.String()

	params, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		return AssetResult{}, fmt.Errorf("fetch suggested params: %w", err)
	}

	txn, err := transaction.MakeAssetCreateTxn(
		addr, note, params,
		1,     // total: one-of-one
		0,     // decimals: indivisible
		false, // defaultFrozen
		addr,  // manager
		"",    // reserve
		"",    // freeze
		"",    // clawback
		assetParams.UnitName,
		assetParams.AssetName,
		assetParams.URL,
		"", // metadataHash
	)
	if err != nil {
		return AssetResult{}, fmt.Errorf("build asset create transaction: %w", err)
	}

	txID, confirmed, err := c.signAndSubmit(ctx, txn)
	if err != nil {
		return AssetResult{}, err
	}
	c.logger.Info("asset creation confirmed",
		zap.String("tx_id", txID),
		zap.Uint64("asset_id", confirmed.AssetIndex),
		zap.Uint64("round", confirmed.ConfirmedRound))
	return AssetResult{TxID: txID, AssetID: confirmed.AssetIndex, ConfirmedRound: confirmed.ConfirmedRound}, nil
}

// GetTransactionByID looks the transaction up in the indexer. A 404 from the
// indexer maps to nil, nil.
func (c *AlgorandClient) GetTransactionByID(ctx context.Context, id string) (*Transaction, error) {
	resp, err := c.indexer.LookupTransaction(id).Do(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup transaction %s: %w", id, err)
	}
	tx := fromIndexerTransaction(resp.Transaction)
	return &tx, nil
}

// SearchTransactionsByAddress returns up to limit transactions touching
// address, in indexer order.
func (c *AlgorandClient) SearchTransactionsByAddress(ctx context.Context, address string, limit uint64) ([]Transaction, error) {
	resp, err := c.indexer.SearchForTransactions().
		AddressString(address).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search transactions for %s: %w", address, err)
	}

	txs := make([]Transaction, 0, len(resp.Transactions))
	for _, tx := range resp.Transactions {
		txs = append(txs, fromIndexerTransaction(tx))
	}
	return txs, nil
}

// GetAccountBalance reads holdings from algod, which reflects the latest
// round rather than the indexer's catch-up point.
func (c *AlgorandClient) GetAccountBalance(ctx context.Context, address string) (Balance, error) {
	info, err := c.algod.AccountInformation(address).Do(ctx)
	if err != nil {
		return Balance{}, fmt.Errorf("read account %s: %w", address, err)
	}
	return Balance{Amount: info.Amount, MinBalance: info.MinBalance}, nil
}

func (c *AlgorandClient) signAndSubmit(ctx context.Context, txn types.Transaction) (string, models.PendingTransactionInfoResponse, error) {
	txID, signed, err := crypto.SignTransaction(c.account.PrivateKey, txn)
	if err != nil {
		return "", models.PendingTransactionInfoResponse{}, fmt.Errorf("sign transaction: %w", err)
	}
	if _, err := c.algod.SendRawTransaction(signed).Do(ctx); err != nil {
		return "", models.PendingTransactionInfoResponse{}, fmt.Errorf("submit transaction: %w", err)
	}
	confirmed, err := transaction.WaitForConfirmation(c.algod, txID, c.waitRounds, ctx)
	if err != nil {
		return "", models.PendingTransactionInfoResponse{}, fmt.Errorf("wait for confirmation of %s: %w", txID, err)
	}
	return txID, confirmed, nil
}

func fromIndexerTransaction(tx models.Transaction) Transaction {
	return Transaction{
		ID:             tx.Id,
		ConfirmedRound: tx.ConfirmedRound,
		RoundTime:      tx.RoundTime,
		Sender:         tx.Sender,
		Type:           tx.Type,
		Note:           tx.Note,
		CreatedAssetID: tx.CreatedAssetIndex,
	}
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "not found") || strings.Contains(msg, "no transaction")
}
