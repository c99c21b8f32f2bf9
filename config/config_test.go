package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Klingon-tech/klingnet-hd/pkg/address"
	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "klingnet-hd.conf")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	main := Default(Mainnet)
	if err := Validate(main); err != nil {
		t.Fatalf("Validate(mainnet defaults) error: %v", err)
	}
	if main.Wallet.Path != "" {
		t.Errorf("default path = %q, want empty", main.Wallet.Path)
	}

	test := Default(Testnet)
	if test.Network != Testnet {
		t.Errorf("network = %q, want %q", test.Network, Testnet)
	}
	if err := Validate(test); err != nil {
		t.Fatalf("Validate(testnet defaults) error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConf(t, `
# comment
network = testnet
wallet.locale = "es"
wallet.path='m/44'/60'/1'/0/0'
wallet.words = 12
log.json = yes
`)
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	cfg := Default(Mainnet)
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("Network = %q, want testnet", cfg.Network)
	}
	if cfg.Wallet.Locale != "es" {
		t.Errorf("Locale = %q, want es", cfg.Wallet.Locale)
	}
	if cfg.Wallet.Path != "m/44'/60'/1'/0/0" {
		t.Errorf("Path = %q", cfg.Wallet.Path)
	}
	if cfg.Wallet.Words != 12 {
		t.Errorf("Words = %d, want 12", cfg.Wallet.Words)
	}
	if !cfg.Log.JSON {
		t.Error("log.json should be true")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("got %d values, want 0", len(values))
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := writeConf(t, "network testnet\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for line without '='")
	}

	cfg := Default(Mainnet)
	if err := ApplyFileConfig(cfg, map[string]string{"wallet.words": "many"}); err == nil {
		t.Error("expected error for non-numeric wallet.words")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"network", func(c *Config) { c.Network = "regtest" }},
		{"scheme", func(c *Config) { c.Wallet.Scheme = "bitcoin" }},
		{"locale", func(c *Config) { c.Wallet.Locale = "xx" }},
		{"path", func(c *Config) { c.Wallet.Path = "m/01" }},
		{"words", func(c *Config) { c.Wallet.Words = 13 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	if err := Validate(nil); err == nil {
		t.Error("expected error for nil config")
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(Mainnet)
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_PathError(t *testing.T) {
	cfg := Default(Mainnet)
	cfg.Wallet.Path = "m/2147483648"
	if err := Validate(cfg); !errors.Is(err, hdnode.ErrIndexOutOfRange) {
		t.Errorf("Validate() error = %v, want %v", err, hdnode.ErrIndexOutOfRange)
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{
		"--testnet", "--scheme=Klingnet", "--words", "12", "--log-json=false",
		"derive", "--path", "m/0",
	}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if f.Network != string(Testnet) {
		t.Errorf("Network = %q, want testnet", f.Network)
	}
	if !f.SetLogJSON || f.LogJSON {
		t.Errorf("log-json set=%v value=%v, want set and false", f.SetLogJSON, f.LogJSON)
	}
	if len(f.Args) != 3 || f.Args[0] != "derive" {
		t.Errorf("Args = %v, want command and its arguments", f.Args)
	}

	cfg := Default(Mainnet)
	cfg.Log.JSON = true
	ApplyFlags(cfg, f)
	if cfg.Network != Testnet || cfg.Wallet.Scheme != SchemeKlingnet || cfg.Wallet.Words != 12 {
		t.Errorf("ApplyFlags() = %+v", cfg)
	}
	if cfg.Log.JSON {
		t.Error("explicit --log-json=false should override")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, err := ParseFlags([]string{"--help"}, io.Discard); !errors.Is(err, ErrHelp) {
		t.Errorf("ParseFlags(--help) error = %v, want %v", err, ErrHelp)
	}
	if _, err := ParseFlags([]string{"--bogus"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := ParseFlags([]string{"--testnet", "--network=mainnet"}, io.Discard); err == nil {
		t.Error("expected error for conflicting network flags")
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConf(t, "wallet.scheme = klingnet\nwallet.words = 18\nlog.level = info\n")

	f, err := ParseFlags([]string{"--config", path, "--words", "21"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Wallet.Scheme != SchemeKlingnet {
		t.Errorf("Scheme = %q, want file value", cfg.Wallet.Scheme)
	}
	if cfg.Wallet.Words != 21 {
		t.Errorf("Words = %d, want flag value 21", cfg.Wallet.Words)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want file value", cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConf(t, "wallet.locale = tlh\n")
	f, err := ParseFlags([]string{"-c", path}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if _, err := Load(f); err == nil {
		t.Error("expected error for unknown locale")
	}
}

func TestAdapter(t *testing.T) {
	tests := []struct {
		network NetworkType
		scheme  string
		want    string
	}{
		{Mainnet, SchemeEthereum, address.EthereumName},
		{Testnet, SchemeEthereum, address.EthereumName},
		{Mainnet, SchemeKlingnet, address.KlingnetName},
		{Testnet, SchemeKlingnet, address.KlingnetTestnetName},
	}
	for _, tt := range tests {
		cfg := Default(tt.network)
		cfg.Wallet.Scheme = tt.scheme
		a, err := cfg.Adapter()
		if err != nil {
			t.Fatalf("Adapter() error: %v", err)
		}
		if a.Name() != tt.want {
			t.Errorf("%s/%s: Adapter() = %s, want %s", tt.network, tt.scheme, a.Name(), tt.want)
		}
	}
}

func TestDerivationPath(t *testing.T) {
	tests := []struct {
		network NetworkType
		scheme  string
		path    string
		want    string
	}{
		{Mainnet, SchemeEthereum, "", hdnode.DefaultPath},
		{Testnet, SchemeEthereum, "", hdnode.DefaultPath},
		{Mainnet, SchemeKlingnet, "", "m/44'/8888'/0'/0/0"},
		{Testnet, SchemeKlingnet, "", "m/44'/8888'/0'/0/0"},
		{Mainnet, SchemeKlingnet, "m/0'/1", "m/0'/1"},
	}
	for _, tt := range tests {
		cfg := Default(tt.network)
		cfg.Wallet.Scheme = tt.scheme
		cfg.Wallet.Path = tt.path
		got, err := cfg.DerivationPath()
		if err != nil {
			t.Fatalf("DerivationPath() error: %v", err)
		}
		if got != tt.want {
			t.Errorf("%s/%s/%q: DerivationPath() = %q, want %q", tt.network, tt.scheme, tt.path, got, tt.want)
		}
	}

	cfg := Default(Mainnet)
	cfg.Wallet.Scheme = "bitcoin"
	if _, err := cfg.DerivationPath(); !errors.Is(err, address.ErrUnknownAdapter) {
		t.Errorf("DerivationPath() error = %v, want %v", err, address.ErrUnknownAdapter)
	}
}

func TestNetworkCase(t *testing.T) {
	f, err := ParseFlags([]string{"--network", "TESTNET", "--datadir", t.TempDir()}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("Network = %q, want %q", cfg.Network, Testnet)
	}

	if _, err := ParseFlags([]string{"--testnet", "--network", "Testnet"}, io.Discard); err != nil {
		t.Errorf("ParseFlags(--testnet --network Testnet) error: %v", err)
	}

	cfg = Default(Mainnet)
	if err := ApplyFileConfig(cfg, map[string]string{"network": "TestNet"}); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("file Network = %q, want %q", cfg.Network, Testnet)
	}
}

func TestLoad_RecordsFile(t *testing.T) {
	path := writeConf(t, "wallet.words = 12\nlog.level = debug\n")
	f, err := ParseFlags([]string{"--config", path}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.File != path || cfg.FileKeys != 2 {
		t.Errorf("File/FileKeys = %q/%d, want %q/2", cfg.File, cfg.FileKeys, path)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "klingnet-hd.conf")
	if err := WriteDefaultConfig(path, Testnet); err != nil {
		t.Fatalf("WriteDefaultConfig() error: %v", err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default(Mainnet)
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("written config invalid: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("Network = %q, want testnet", cfg.Network)
	}
	if cfg.Wallet.Path != "" {
		t.Errorf("Path = %q, want empty so derive follows the scheme", cfg.Wallet.Path)
	}

	err = WriteDefaultConfig(path, Mainnet)
	if err == nil || !strings.Contains(err.Error(), "exists") {
		t.Errorf("second WriteDefaultConfig() error = %v, want exists error", err)
	}
}
