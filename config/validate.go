package config

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/internal/log"
	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
	"github.com/Klingon-tech/klingnet-hd/pkg/mnemonic"
)

// Validate checks the configuration for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}

	switch cfg.Wallet.Scheme {
	case SchemeEthereum, SchemeKlingnet:
	default:
		return fmt.Errorf("wallet.scheme must be %q or %q", SchemeEthereum, SchemeKlingnet)
	}

	wls, err := mnemonic.DefaultWordlists()
	if err != nil {
		return fmt.Errorf("load wordlists: %w", err)
	}
	if _, err := wls.Get(cfg.Wallet.Locale); err != nil {
		return fmt.Errorf("wallet.locale: %w (available: %v)", err, wls.Locales())
	}

	if cfg.Wallet.Path != "" {
		if _, err := hdnode.ParsePath(cfg.Wallet.Path); err != nil {
			return fmt.Errorf("wallet.path: %w", err)
		}
	}

	switch cfg.Wallet.Words {
	case 12, 15, 18, 21, 24:
	default:
		return fmt.Errorf("wallet.words must be 12, 15, 18, 21 or 24, got %d", cfg.Wallet.Words)
	}

	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
