package wallet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Klingon-tech/klingnet-hd/pkg/address"
	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
	"github.com/Klingon-tech/klingnet-hd/pkg/mnemonic"
)

const abandonAbout = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testWallet(t *testing.T, opts ...Option) *Wallet {
	t.Helper()
	w, err := New(abandonAbout, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return w
}

func TestDeriveAccount_Ethereum(t *testing.T) {
	w := testWallet(t)

	acct, err := w.DeriveAccount(0, ChangeExternal, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	if acct.Path != hdnode.DefaultPath {
		t.Errorf("Path = %q, want %q", acct.Path, hdnode.DefaultPath)
	}
	if got := strings.ToLower(acct.Address); got != "0x9858effd232b4033e47d90003d41ec34ecaeda94" {
		t.Errorf("Address = %s", acct.Address)
	}
	if got := acct.PrivateKeyHex(); got != "0x1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727" {
		t.Errorf("PrivateKeyHex() = %s", got)
	}
	if len(acct.PublicKey) != 33 {
		t.Errorf("PublicKey length = %d, want 33", len(acct.PublicKey))
	}
}

func TestDeriveAccount_MatchesNodePath(t *testing.T) {
	tests := []struct {
		name    string
		adapter address.Adapter
		coin    string
	}{
		{"ethereum", address.Ethereum{}, "60'"},
		{"klingnet", address.Klingnet{HRP: address.MainnetHRP}, "8888'"},
		{"klingnet testnet", address.Klingnet{HRP: address.TestnetHRP}, "8888'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testWallet(t, WithAdapter(tt.adapter))
			acct, err := w.DeriveAccount(2, ChangeInternal, 5)
			if err != nil {
				t.Fatalf("DeriveAccount() error: %v", err)
			}

			wantPath := "m/44'/" + tt.coin + "/2'/1/5"
			if acct.Path != wantPath {
				t.Errorf("Path = %q, want %q", acct.Path, wantPath)
			}

			node, err := w.Root().DerivePath(wantPath)
			if err != nil {
				t.Fatalf("DerivePath() error: %v", err)
			}
			want, err := address.ForNode(tt.adapter, node)
			if err != nil {
				t.Fatalf("ForNode() error: %v", err)
			}
			if acct.Address != want {
				t.Errorf("Address = %s, want %s", acct.Address, want)
			}
			if !bytes.Equal(acct.PublicKey, node.PublicKey()) {
				t.Error("public key mismatch")
			}
		})
	}
}

func TestDeriveAccount_InvalidArgs(t *testing.T) {
	w := testWallet(t)

	if _, err := w.DeriveAccount(0, 2, 0); err == nil {
		t.Error("expected error for change 2")
	}
	if _, err := w.DeriveAccount(hdnode.HardenedOffset, 0, 0); !errors.Is(err, hdnode.ErrIndexOutOfRange) {
		t.Errorf("account 2^31 error = %v, want %v", err, hdnode.ErrIndexOutOfRange)
	}
	if _, err := w.DeriveAccount(0, 0, hdnode.HardenedOffset); !errors.Is(err, hdnode.ErrIndexOutOfRange) {
		t.Errorf("index 2^31 error = %v, want %v", err, hdnode.ErrIndexOutOfRange)
	}
}

func TestDeriveAccounts(t *testing.T) {
	w := testWallet(t)

	accts, err := w.DeriveAccounts(0, ChangeExternal, 3, 4)
	if err != nil {
		t.Fatalf("DeriveAccounts() error: %v", err)
	}
	if len(accts) != 4 {
		t.Fatalf("got %d accounts, want 4", len(accts))
	}

	seen := make(map[string]bool)
	for i, acct := range accts {
		if acct.Index != uint32(3+i) {
			t.Errorf("accts[%d].Index = %d, want %d", i, acct.Index, 3+i)
		}
		if seen[acct.Address] {
			t.Errorf("duplicate address %s", acct.Address)
		}
		seen[acct.Address] = true
	}
}

func TestNew_Options(t *testing.T) {
	plain := testWallet(t)
	withPass := testWallet(t, WithPassword("TREZOR"))

	a, err := plain.DeriveAccount(0, 0, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	b, err := withPass.DeriveAccount(0, 0, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	if a.Address == b.Address {
		t.Error("password should change derived addresses")
	}

	if plain.CoinType() != CoinTypeEthereum {
		t.Errorf("default CoinType = %#x, want %#x", plain.CoinType(), uint32(CoinTypeEthereum))
	}
	if plain.Adapter().Name() != address.EthereumName {
		t.Errorf("default adapter = %s", plain.Adapter().Name())
	}
}

func TestNew_InvalidMnemonic(t *testing.T) {
	_, err := New(strings.Replace(abandonAbout, "about", "abandon", 1))
	if !errors.Is(err, mnemonic.ErrInvalidChecksum) {
		t.Errorf("New() error = %v, want %v", err, mnemonic.ErrInvalidChecksum)
	}

	wls, err := mnemonic.DefaultWordlists()
	if err != nil {
		t.Fatalf("DefaultWordlists() error: %v", err)
	}
	spanish, err := wls.Get(mnemonic.LocaleSpanish)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if _, err := New(abandonAbout, WithWordlist(spanish)); !errors.Is(err, mnemonic.ErrInvalidMnemonicWord) {
		t.Errorf("New(spanish) error = %v, want %v", err, mnemonic.ErrInvalidMnemonicWord)
	}
}

func TestWatchOnly(t *testing.T) {
	w := testWallet(t, WithAdapter(address.Klingnet{HRP: address.TestnetHRP}))

	xpub, err := w.AccountExtendedKey(1)
	if err != nil {
		t.Fatalf("AccountExtendedKey() error: %v", err)
	}
	if !strings.HasPrefix(xpub, "xpub") {
		t.Fatalf("AccountExtendedKey() = %s, want xpub", xpub)
	}

	watch, err := NewWatchOnly(xpub, w.Adapter())
	if err != nil {
		t.Fatalf("NewWatchOnly() error: %v", err)
	}

	for _, change := range []uint32{ChangeExternal, ChangeInternal} {
		got, err := watch.DeriveAccount(change, 7)
		if err != nil {
			t.Fatalf("watch DeriveAccount() error: %v", err)
		}
		want, err := w.DeriveAccount(1, change, 7)
		if err != nil {
			t.Fatalf("DeriveAccount() error: %v", err)
		}
		if got.Address != want.Address || got.Path != want.Path {
			t.Errorf("watch-only = %s %s, want %s %s", got.Path, got.Address, want.Path, want.Address)
		}
		if got.PrivateKeyHex() != "" {
			t.Error("watch-only account should not expose a private key")
		}
	}
}

func TestNewWatchOnly_Invalid(t *testing.T) {
	w := testWallet(t)

	// Master xpub is not an account key.
	if _, err := NewWatchOnly(w.Root().Neuter().ExtendedKey(), address.Ethereum{}); !errors.Is(err, hdnode.ErrInvalidExtendedKey) {
		t.Errorf("NewWatchOnly(master) error = %v, want %v", err, hdnode.ErrInvalidExtendedKey)
	}
	if _, err := NewWatchOnly("xpub-garbage", address.Ethereum{}); !errors.Is(err, hdnode.ErrInvalidExtendedKey) {
		t.Errorf("NewWatchOnly(garbage) error = %v, want %v", err, hdnode.ErrInvalidExtendedKey)
	}
}

func TestAddressPath(t *testing.T) {
	p, err := AddressPath(CoinTypeKlingnet, 0, ChangeExternal, 0)
	if err != nil {
		t.Fatalf("AddressPath() error: %v", err)
	}
	if p.String() != "m/44'/8888'/0'/0/0" {
		t.Errorf("AddressPath() = %s", p)
	}
}
