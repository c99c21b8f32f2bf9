package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Klingon-tech/klingnet-hd/internal/log"
)

// ErrHelp is returned by ParseFlags when -h or --help is given.
var ErrHelp = flag.ErrHelp

// Flags holds parsed global command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	Testnet bool
	DataDir string
	Config  string

	// Wallet
	Locale string
	Scheme string
	Path   string
	Words  int

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args: the command and its arguments.
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetLogJSON bool
}

// ParseFlags parses global flags from args (without the program name).
// Parsing stops at the first non-flag argument, which starts the command.
func ParseFlags(args []string, usage io.Writer) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("klingnet-hd", flag.ContinueOnError)
	fs.SetOutput(usage)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network type (mainnet or testnet)")
	fs.BoolVar(&f.Testnet, "testnet", false, "Use testnet (shorthand for --network=testnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Wallet
	fs.StringVar(&f.Locale, "locale", "", "Mnemonic wordlist locale")
	fs.StringVar(&f.Scheme, "scheme", "", "Address scheme (ethereum or klingnet)")
	fs.StringVar(&f.Path, "path", "", "Default derivation path")
	fs.IntVar(&f.Words, "words", 0, "Words in generated mnemonics")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", fmt.Sprintf("Log level (%s)", strings.Join(log.Levels, ", ")))
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, err
	}

	if f.Testnet {
		if f.Network != "" && !strings.EqualFold(f.Network, string(Testnet)) {
			return nil, fmt.Errorf("--testnet conflicts with --network=%s", f.Network)
		}
		f.Network = string(Testnet)
	}
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()
	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(strings.ToLower(f.Network))
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Wallet
	if f.Locale != "" {
		cfg.Wallet.Locale = f.Locale
	}
	if f.Scheme != "" {
		cfg.Wallet.Scheme = strings.ToLower(f.Scheme)
	}
	if f.Path != "" {
		cfg.Wallet.Path = f.Path
	}
	if f.Words != 0 {
		cfg.Wallet.Words = f.Words
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Load resolves configuration with the following precedence:
// 1. Default values
// 2. Config file (<datadir>/klingnet-hd.conf unless --config is given)
// 3. Command-line flags
//
// A missing config file is not an error.
func Load(f *Flags) (*Config, error) {
	network := Mainnet
	if strings.ToLower(f.Network) == string(Testnet) {
		network = Testnet
	}
	cfg := Default(network)
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	configPath := f.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	ApplyFlags(cfg, f)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.File = configPath
	cfg.FileKeys = len(fileValues)
	return cfg, nil
}
