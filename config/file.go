package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration from a .conf file. A missing file yields an
// empty map.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(strings.ToLower(value))
	case "datadir":
		cfg.DataDir = value

	// Wallet
	case "wallet.locale":
		cfg.Wallet.Locale = value
	case "wallet.scheme":
		cfg.Wallet.Scheme = strings.ToLower(value)
	case "wallet.path":
		cfg.Wallet.Path = value
	case "wallet.words":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Wallet.Words = n

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file. It refuses to
// overwrite an existing file.
func WriteDefaultConfig(path string, network NetworkType) error {
	cfg := Default(network)
	content := `# klingnet-hd configuration

# Network: mainnet or testnet
network = ` + string(network) + `

# Data directory (default: ~/.klingnet-hd)
# datadir = ~/.klingnet-hd

# ============================================================================
# Wallet
# ============================================================================

# Mnemonic wordlist: en, es, fr, it, ja, ko, cs, zh_cn, zh_tw
wallet.locale = ` + cfg.Wallet.Locale + `

# Address scheme: ethereum or klingnet
wallet.scheme = ` + cfg.Wallet.Scheme + `

# Derivation path used by "derive" when none is given
# (default: m/44'/coin'/0'/0/0, coin 60' for ethereum and 8888' for klingnet)
# wallet.path = m/44'/60'/0'/0/0

# Words in newly generated mnemonics: 12, 15, 18, 21 or 24
wallet.words = ` + strconv.Itoa(cfg.Wallet.Words) + `

# ============================================================================
# Logging
# ============================================================================

log.level = ` + cfg.Log.Level + `
# log.file =
log.json = false
`
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
