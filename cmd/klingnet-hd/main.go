// klingnet-hd is a command-line tool for BIP-39 mnemonics and BIP-32/BIP-44
// key derivation.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Klingon-tech/klingnet-hd/config"
	"github.com/Klingon-tech/klingnet-hd/internal/log"
	"github.com/Klingon-tech/klingnet-hd/pkg/address"
	"github.com/Klingon-tech/klingnet-hd/pkg/mnemonic"
	"golang.org/x/term"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, config.ErrHelp) {
			usage(os.Stderr)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the resolved configuration into the command handlers.
type app struct {
	cfg      *config.Config
	wordlist *mnemonic.Wordlist
	adapter  address.Adapter

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags, err := config.ParseFlags(args, stderr)
	if err != nil {
		return err
	}
	if flags.Help {
		return config.ErrHelp
	}
	if flags.Version {
		fmt.Fprintf(stdout, "klingnet-hd version %s\n", version)
		return nil
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer log.Close()
	log.Config.Debug().
		Str("file", cfg.File).
		Int("keys", cfg.FileKeys).
		Str("network", string(cfg.Network)).
		Str("scheme", cfg.Wallet.Scheme).
		Msg("Configuration loaded")

	wls, err := mnemonic.DefaultWordlists()
	if err != nil {
		return err
	}
	wl, err := wls.Get(cfg.Wallet.Locale)
	if err != nil {
		return err
	}
	adapter, err := cfg.Adapter()
	if err != nil {
		return err
	}

	a := &app{
		cfg:      cfg,
		wordlist: wl,
		adapter:  adapter,
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}

	if len(flags.Args) == 0 {
		usage(stderr)
		return errors.New("missing command")
	}
	cmd, cmdArgs := flags.Args[0], flags.Args[1:]
	log.CLI.Debug().Str("command", cmd).Str("network", string(cfg.Network)).Msg("Running command")

	switch cmd {
	case "mnemonic":
		return a.cmdMnemonic(cmdArgs)
	case "seed":
		return a.cmdSeed(cmdArgs)
	case "derive":
		return a.cmdDerive(cmdArgs)
	case "xpub":
		return a.cmdXpub(cmdArgs)
	case "account":
		return a.cmdAccount(cmdArgs)
	case "config":
		return a.cmdConfig(cmdArgs)
	case "version":
		fmt.Fprintf(stdout, "klingnet-hd version %s\n", version)
		return nil
	case "help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: klingnet-hd [global flags] <command> [flags] [mnemonic words...]

Global flags:
  --network <net>     mainnet (default) or testnet
  --testnet           Shorthand for --network=testnet
  --datadir <path>    Data directory (default: ~/.klingnet-hd)
  --config, -c <file> Config file (default: <datadir>/klingnet-hd.conf)
  --locale <code>     Mnemonic wordlist: en, es, fr, it, ja, ko, cs, zh_cn, zh_tw
  --scheme <name>     Address scheme: ethereum (default) or klingnet
  --path <path>       Default derivation path (default: m/44'/60'/0'/0/0)
  --words <n>         Words in generated mnemonics (default: 24)
  --log-level <lvl>   debug, info, warn (default), error
  --log-file <file>   Also write JSON logs to file
  --log-json          Log as JSON

Commands:
  mnemonic new [--words N]            Generate a new mnemonic
  mnemonic check <words...>           Validate a mnemonic
  mnemonic entropy <words...>         Print the entropy encoded by a mnemonic
  mnemonic from-entropy <hex>         Encode entropy as a mnemonic
  seed <words...>                     Print the 64-byte BIP-39 seed
  derive [--path P] <words...>        Derive the key at a path
  xpub [--account N] <words...>       Print the account extended public key
  account [--account N] <words...>    List BIP-44 addresses of an account
  config init                         Write a default config file
  version                             Show version information

Mnemonic words are read from stdin when none are given. Commands that take
a mnemonic accept --passphrase <p> or --ask-passphrase for the BIP-39
passphrase. derive and xpub also accept --xkey <xprv|xpub> instead of a
mnemonic.

Examples:
  klingnet-hd mnemonic new --words 12
  klingnet-hd derive --path "m/44'/60'/0'/0/1" abandon abandon ... about
  klingnet-hd --scheme klingnet --testnet account --count 5 < phrase.txt
`)
}

// readPassword prompts on stderr and reads a line without echo.
var readPassword = func(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// readPhrase joins args into a phrase with the locale separator, or reads
// it from stdin when args is empty.
func (a *app) readPhrase(args []string) (string, error) {
	if len(args) > 0 {
		return a.wordlist.Join(args), nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read mnemonic: %w", err)
	}
	phrase := strings.TrimSpace(string(data))
	if phrase == "" {
		return "", errors.New("no mnemonic given")
	}
	return phrase, nil
}
