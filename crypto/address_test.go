package crypto

import (
	"strings"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	addr := NewAddress(PDXPrefix, payload)
	encoded := addr.String()
	if !strings.HasPrefix(encoded, string(PDXPrefix)+"1") {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Equal(addr) {
		t.Fatalf("round trip mismatch: %s != %s", decoded, addr)
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	if _, err := DecodeAddress("not-bech32"); err == nil {
		t.Fatal("expected error for invalid input")
	}
}

func TestModuleAddressDeterministic(t *testing.T) {
	a := ModuleAddress("dex")
	b := ModuleAddress("dex")
	if !a.Equal(b) {
		t.Fatal("module address must be deterministic")
	}
	if a.Equal(ModuleAddress("other")) {
		t.Fatal("distinct module names must yield distinct addresses")
	}
	if len(a.Bytes()) != 20 {
		t.Fatalf("unexpected payload length %d", len(a.Bytes()))
	}
}
