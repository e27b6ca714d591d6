package commands

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SagarGupta-30/TrustChain/config"
	ledger "github.com/SagarGupta-30/TrustChain/ledger/client"
	"github.com/SagarGupta-30/TrustChain/proofs/service/core"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var zapCfg zap.Config
	if cfg.Logging.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// newService builds the full stack: Algorand client from config, proof
// service on top. The caller owns the logger.
func newService(cfg *config.Config, logger *zap.Logger) (*core.Service, error) {
	lc, err := ledger.NewAlgorandClient(ledger.Config{
		AlgodURL:     cfg.Algorand.AlgodURL,
		AlgodToken:   cfg.Algorand.AlgodToken,
		IndexerURL:   cfg.Algorand.IndexerURL,
		IndexerToken: cfg.Algorand.IndexerToken,
		Mnemonic:     cfg.Mnemonic(),
		WaitRounds:   cfg.Algorand.WaitRounds,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create ledger client: %w", err)
	}

	return core.NewService(lc, core.Options{
		SpendableThreshold:  cfg.Issuer.SpendableThresholdMicroalgos,
		UnitName:            cfg.Issuer.UnitName,
		AssetURL:            cfg.Issuer.AssetURL,
		MaxUploadBytes:      cfg.Limits.MaxUploadBytes,
		DefaultHistoryLimit: cfg.Limits.DefaultHistoryLimit,
		MaxHistoryLimit:     cfg.Limits.MaxHistoryLimit,
	}, logger), nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
