package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/klingnet-hd/config"
	"github.com/Klingon-tech/klingnet-hd/internal/log"
	"github.com/Klingon-tech/klingnet-hd/internal/wallet"
	"github.com/Klingon-tech/klingnet-hd/pkg/address"
	"github.com/Klingon-tech/klingnet-hd/pkg/crypto"
	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
	"github.com/Klingon-tech/klingnet-hd/pkg/mnemonic"
)

const mnemonicUsage = "Usage: klingnet-hd mnemonic <new|check|entropy|from-entropy> [args]"

// maxAccountCount bounds the addresses listed by one account command.
const maxAccountCount = 1000

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// passphraseFlags registers --passphrase and --ask-passphrase on fs and
// returns a func resolving the chosen passphrase after parsing.
func passphraseFlags(fs *flag.FlagSet) func() (string, error) {
	pass := fs.String("passphrase", "", "BIP-39 passphrase")
	ask := fs.Bool("ask-passphrase", false, "Prompt for the BIP-39 passphrase")
	return func() (string, error) {
		if !*ask {
			return *pass, nil
		}
		if *pass != "" {
			return "", errors.New("--passphrase and --ask-passphrase are exclusive")
		}
		p, err := readPassword("Passphrase: ")
		if err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
		return string(p), nil
	}
}

// ── mnemonic ────────────────────────────────────────────────────────────

func (a *app) cmdMnemonic(args []string) error {
	if len(args) < 1 {
		return errors.New(mnemonicUsage)
	}

	switch args[0] {
	case "new":
		return a.cmdMnemonicNew(args[1:])
	case "check":
		return a.cmdMnemonicCheck(args[1:])
	case "entropy":
		return a.cmdMnemonicEntropy(args[1:])
	case "from-entropy":
		return a.cmdMnemonicFromEntropy(args[1:])
	default:
		return fmt.Errorf("unknown mnemonic command: %s\n%s", args[0], mnemonicUsage)
	}
}

func (a *app) cmdMnemonicNew(args []string) error {
	fs := a.flagSet("mnemonic new")
	words := fs.Int("words", a.cfg.Wallet.Words, "Number of words (12, 15, 18, 21, 24)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	phrase, err := wallet.GenerateMnemonic(*words, a.wordlist)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, phrase)
	return nil
}

func (a *app) cmdMnemonicCheck(args []string) error {
	phrase, err := a.readPhrase(args)
	if err != nil {
		return err
	}
	if err := wallet.ValidateMnemonic(phrase, a.wordlist); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "valid (%d words, %s)\n", len(a.wordlist.Split(phrase)), a.wordlist.Locale())
	return nil
}

func (a *app) cmdMnemonicEntropy(args []string) error {
	phrase, err := a.readPhrase(args)
	if err != nil {
		return err
	}
	entropy, err := mnemonic.MnemonicToEntropy(phrase, a.wordlist)
	if err != nil {
		return err
	}
	defer crypto.Zero(entropy)
	fmt.Fprintln(a.stdout, hex.EncodeToString(entropy))
	return nil
}

func (a *app) cmdMnemonicFromEntropy(args []string) error {
	if len(args) != 1 {
		return errors.New("Usage: klingnet-hd mnemonic from-entropy <hex>")
	}
	entropy, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return fmt.Errorf("decode entropy: %w", err)
	}
	defer crypto.Zero(entropy)

	phrase, err := mnemonic.EntropyToMnemonic(entropy, a.wordlist)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, phrase)
	return nil
}

// ── seed ────────────────────────────────────────────────────────────────

func (a *app) cmdSeed(args []string) error {
	fs := a.flagSet("seed")
	passphrase := passphraseFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	phrase, err := a.readPhrase(fs.Args())
	if err != nil {
		return err
	}
	pass, err := passphrase()
	if err != nil {
		return err
	}

	done := log.Benchmark("seed")
	seed, err := mnemonic.SeedFromMnemonic(phrase, pass, a.wordlist)
	done()
	if err != nil {
		return err
	}
	defer crypto.Zero(seed)
	fmt.Fprintln(a.stdout, hex.EncodeToString(seed))
	return nil
}

// ── derive / xpub ───────────────────────────────────────────────────────

// keyInfo is the printable view of a derived node.
type keyInfo struct {
	Path        string `json:"path,omitempty"`
	Address     string `json:"address"`
	PublicKey   string `json:"publicKey"`
	PrivateKey  string `json:"privateKey,omitempty"`
	ExtendedKey string `json:"extendedKey"`
	Fingerprint string `json:"fingerprint"`
	Depth       uint8  `json:"depth"`
	Index       uint32 `json:"index"`
}

// rootNode builds the starting node from --xkey or from a mnemonic in
// args/stdin.
func (a *app) rootNode(xkey string, args []string, passphrase func() (string, error)) (*hdnode.Node, error) {
	if xkey != "" {
		if len(args) > 0 {
			return nil, errors.New("--xkey cannot be combined with a mnemonic")
		}
		return hdnode.FromExtendedKey(xkey)
	}

	phrase, err := a.readPhrase(args)
	if err != nil {
		return nil, err
	}
	pass, err := passphrase()
	if err != nil {
		return nil, err
	}
	return hdnode.FromMnemonic(phrase,
		hdnode.WithPassword(pass),
		hdnode.WithWordlist(a.wordlist),
	)
}

func (a *app) cmdDerive(args []string) error {
	defaultPath, err := a.cfg.DerivationPath()
	if err != nil {
		return err
	}
	fs := a.flagSet("derive")
	path := fs.String("path", defaultPath, "Derivation path")
	xkey := fs.String("xkey", "", "Start from an extended key instead of a mnemonic")
	showPrivate := fs.Bool("show-private", false, "Print the private key and xprv")
	asJSON := fs.Bool("json", false, "Print JSON")
	passphrase := passphraseFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	root, err := a.rootNode(*xkey, fs.Args(), passphrase)
	if err != nil {
		return err
	}
	node, err := root.DerivePath(*path)
	if err != nil {
		return err
	}
	log.CLI.Debug().Str("path", *path).Uint8("depth", node.Depth()).Msg("Derived key")

	info, err := a.describe(node, *showPrivate)
	if err != nil {
		return err
	}
	info.Path = node.Path().UnwrapOr("")
	return a.printKey(info, *asJSON)
}

func (a *app) cmdXpub(args []string) error {
	fs := a.flagSet("xpub")
	account := fs.Uint("account", 0, "BIP-44 account number")
	path := fs.String("path", "", "Derivation path (overrides --account)")
	xkey := fs.String("xkey", "", "Start from an extended key instead of a mnemonic")
	passphrase := passphraseFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	root, err := a.rootNode(*xkey, fs.Args(), passphrase)
	if err != nil {
		return err
	}

	p := *path
	if p == "" {
		coinType, err := wallet.CoinTypeFor(a.adapter)
		if err != nil {
			return err
		}
		acct, err := accountNumber(*account)
		if err != nil {
			return err
		}
		indices, err := wallet.AccountPath(coinType, acct)
		if err != nil {
			return err
		}
		p = indices.String()
	}

	node, err := root.DerivePath(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, node.Neuter().ExtendedKey())
	return nil
}

func (a *app) describe(node *hdnode.Node, showPrivate bool) (*keyInfo, error) {
	addr, err := address.ForNode(a.adapter, node)
	if err != nil {
		return nil, err
	}
	fp := node.Fingerprint()
	info := &keyInfo{
		Address:     addr,
		PublicKey:   hex.EncodeToString(node.PublicKey()),
		ExtendedKey: node.Neuter().ExtendedKey(),
		Fingerprint: hex.EncodeToString(fp[:]),
		Depth:       node.Depth(),
		Index:       node.Index(),
	}
	if showPrivate && node.IsPrivate() {
		info.PrivateKey = node.PrivateKeyHex()
		info.ExtendedKey = node.ExtendedKey()
	}
	return info, nil
}

func (a *app) printKey(info *keyInfo, asJSON bool) error {
	if asJSON {
		return a.printJSON(info)
	}
	if info.Path != "" {
		fmt.Fprintf(a.stdout, "Path:         %s\n", info.Path)
	}
	fmt.Fprintf(a.stdout, "Address:      %s\n", info.Address)
	fmt.Fprintf(a.stdout, "Public key:   %s\n", info.PublicKey)
	if info.PrivateKey != "" {
		fmt.Fprintf(a.stdout, "Private key:  %s\n", info.PrivateKey)
	}
	fmt.Fprintf(a.stdout, "Extended key: %s\n", info.ExtendedKey)
	fmt.Fprintf(a.stdout, "Fingerprint:  %s\n", info.Fingerprint)
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ── account ─────────────────────────────────────────────────────────────

// accountInfo is the printable view of a BIP-44 account address.
type accountInfo struct {
	Path       string `json:"path"`
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey,omitempty"`
}

func (a *app) cmdAccount(args []string) error {
	fs := a.flagSet("account")
	account := fs.Uint("account", 0, "BIP-44 account number")
	change := fs.Uint("change", wallet.ChangeExternal, "Chain: 0 = external, 1 = internal")
	index := fs.Uint("index", 0, "First address index")
	count := fs.Uint("count", 1, "Number of addresses")
	showPrivate := fs.Bool("show-private", false, "Print private keys")
	asJSON := fs.Bool("json", false, "Print JSON")
	passphrase := passphraseFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	phrase, err := a.readPhrase(fs.Args())
	if err != nil {
		return err
	}
	pass, err := passphrase()
	if err != nil {
		return err
	}
	w, err := wallet.New(phrase,
		wallet.WithPassword(pass),
		wallet.WithWordlist(a.wordlist),
		wallet.WithAdapter(a.adapter),
	)
	if err != nil {
		return err
	}

	acct, err := accountNumber(*account)
	if err != nil {
		return err
	}
	if *change > wallet.ChangeInternal {
		return fmt.Errorf("change %d: must be %d or %d", *change, wallet.ChangeExternal, wallet.ChangeInternal)
	}
	if *count == 0 || *count > maxAccountCount {
		return fmt.Errorf("count must be between 1 and %d", maxAccountCount)
	}
	if uint64(*index)+uint64(*count) > uint64(hdnode.HardenedOffset) {
		return fmt.Errorf("index %d + count %d: %w", *index, *count, hdnode.ErrIndexOutOfRange)
	}
	accts, err := w.DeriveAccounts(acct, uint32(*change), uint32(*index), uint32(*count))
	if err != nil {
		return err
	}

	out := make([]accountInfo, 0, len(accts))
	for _, ac := range accts {
		info := accountInfo{
			Path:      ac.Path,
			Address:   ac.Address,
			PublicKey: hex.EncodeToString(ac.PublicKey),
		}
		if *showPrivate {
			info.PrivateKey = ac.PrivateKeyHex()
		}
		out = append(out, info)
	}

	if *asJSON {
		return a.printJSON(out)
	}
	for _, info := range out {
		if info.PrivateKey != "" {
			fmt.Fprintf(a.stdout, "%s  %s  %s\n", info.Path, info.Address, info.PrivateKey)
		} else {
			fmt.Fprintf(a.stdout, "%s  %s\n", info.Path, info.Address)
		}
	}
	return nil
}

func accountNumber(v uint) (uint32, error) {
	if uint64(v) >= uint64(hdnode.HardenedOffset) {
		return 0, fmt.Errorf("account %d: %w", v, hdnode.ErrIndexOutOfRange)
	}
	return uint32(v), nil
}

// ── config ──────────────────────────────────────────────────────────────

func (a *app) cmdConfig(args []string) error {
	if len(args) != 1 || args[0] != "init" {
		return errors.New("Usage: klingnet-hd config init")
	}
	if err := os.MkdirAll(a.cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path := a.cfg.ConfigFile()
	if err := config.WriteDefaultConfig(path, a.cfg.Network); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(a.stdout, "Config written: %s\n", path)
	return nil
}
