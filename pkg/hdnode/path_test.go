package hdnode

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		want DerivationPath
	}{
		{"m", DerivationPath{}},
		{"m/0", DerivationPath{0}},
		{"m/0'", DerivationPath{HardenedOffset}},
		{"m/0'/1/2'", DerivationPath{HardenedOffset, 1, HardenedOffset + 2}},
		{DefaultPath, DerivationPath{HardenedOffset + 44, HardenedOffset + 60, HardenedOffset, 0, 0}},
		{"m/2147483647", DerivationPath{HardenedOffset - 1}},
		{"m/2147483647'", DerivationPath{0xffffffff}},
		{"m/1000000000", DerivationPath{1000000000}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tt.path, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
			if got.String() != tt.path {
				t.Errorf("String() = %q, want %q", got.String(), tt.path)
			}
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"empty", "", ErrInvalidPath},
		{"no root", "44'/60'", ErrInvalidPath},
		{"upper root", "M/0", ErrInvalidPath},
		{"relative", "0/1", ErrInvalidPath},
		{"trailing slash", "m/0/", ErrInvalidPath},
		{"double slash", "m//0", ErrInvalidPath},
		{"root slash", "m/", ErrInvalidPath},
		{"letters", "m/abc", ErrInvalidPath},
		{"h marker", "m/0h", ErrInvalidPath},
		{"double apostrophe", "m/0''", ErrInvalidPath},
		{"apostrophe inside", "m/1'2", ErrInvalidPath},
		{"apostrophe only", "m/'", ErrInvalidPath},
		{"negative", "m/-1", ErrInvalidPath},
		{"plus sign", "m/+1", ErrInvalidPath},
		{"space", "m/ 1", ErrInvalidPath},
		{"leading zero", "m/01", ErrInvalidPath},
		{"leading zero hardened", "m/00'", ErrInvalidPath},
		{"too large", "m/2147483648", ErrIndexOutOfRange},
		{"too large hardened", "m/2147483648'", ErrIndexOutOfRange},
		{"uint32 overflow", "m/4294967296", ErrIndexOutOfRange},
		{"very long", "m/99999999999999999999999", ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePath(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParsePath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestDerivePath_InvalidPath(t *testing.T) {
	root := testRoot(t)
	if _, err := root.DerivePath("m/0/x"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("DerivePath() error = %v, want %v", err, ErrInvalidPath)
	}
	if _, err := root.DerivePath("m/2147483648"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("DerivePath() error = %v, want %v", err, ErrIndexOutOfRange)
	}
}

func TestAccountPath(t *testing.T) {
	got, err := AccountPath(0)
	if err != nil {
		t.Fatalf("AccountPath(0) error: %v", err)
	}
	if got != DefaultPath {
		t.Errorf("AccountPath(0) = %q, want %q", got, DefaultPath)
	}

	got, err = AccountPath(7)
	if err != nil {
		t.Fatalf("AccountPath(7) error: %v", err)
	}
	if got != "m/44'/60'/7'/0/0" {
		t.Errorf("AccountPath(7) = %q", got)
	}

	if _, err := AccountPath(HardenedOffset); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("AccountPath(2^31) error = %v, want %v", err, ErrIndexOutOfRange)
	}
}

func FuzzParsePath(f *testing.F) {
	f.Add("m")
	f.Add(DefaultPath)
	f.Add("m/0'/1/2'/2/1000000000")
	f.Add("m/01")
	f.Add("m//")

	f.Fuzz(func(t *testing.T, s string) {
		p, err := ParsePath(s)
		if err != nil {
			if !errors.Is(err, ErrInvalidPath) && !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			return
		}
		// Accepted paths are canonical.
		if p.String() != s {
			t.Fatalf("String() = %q, input %q", p.String(), s)
		}
	})
}
