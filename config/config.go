// Package config handles klingnet-hd configuration.
//
// Settings are resolved in order: built-in defaults, then the .conf file in
// the data directory, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Klingon-tech/klingnet-hd/internal/wallet"
	"github.com/Klingon-tech/klingnet-hd/pkg/address"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Address schemes selectable with wallet.scheme.
const (
	SchemeEthereum = "ethereum"
	SchemeKlingnet = "klingnet"
)

// Config holds runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Wallet
	Wallet WalletConfig

	// Logging
	Log LogConfig

	// Set by Load: the config file consulted and how many keys it held.
	File     string
	FileKeys int
}

// WalletConfig holds key derivation settings.
type WalletConfig struct {
	Locale string `conf:"wallet.locale"` // Mnemonic wordlist locale, e.g. "en".
	Scheme string `conf:"wallet.scheme"` // Address scheme: ethereum or klingnet.
	Path   string `conf:"wallet.path"`   // Default derivation path; empty follows the scheme.
	Words  int    `conf:"wallet.words"`  // Length of generated mnemonics.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// Adapter returns the address adapter for the configured scheme and
// network. Klingnet addresses use the testnet HRP on testnet.
func (c *Config) Adapter() (address.Adapter, error) {
	name := c.Wallet.Scheme
	if name == SchemeKlingnet && c.Network == Testnet {
		name = address.KlingnetTestnetName
	}
	return address.ForName(name)
}

// DerivationPath returns the path "derive" uses when none is given: the
// configured wallet.path, or else the first external address of account 0
// for the scheme's coin type.
func (c *Config) DerivationPath() (string, error) {
	if c.Wallet.Path != "" {
		return c.Wallet.Path, nil
	}
	a, err := c.Adapter()
	if err != nil {
		return "", err
	}
	coinType, err := wallet.CoinTypeFor(a)
	if err != nil {
		return "", err
	}
	p, err := wallet.AddressPath(coinType, 0, wallet.ChangeExternal, 0)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-hd
//	macOS:   ~/Library/Application Support/KlingnetHD
//	Windows: %APPDATA%\KlingnetHD
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-hd"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetHD")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetHD")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetHD")
	default:
		return filepath.Join(home, ".klingnet-hd")
	}
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "klingnet-hd.conf")
}
