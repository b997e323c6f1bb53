package address_test

import (
	"testing"

	"lampions/internal/address"
)

func TestValid(t *testing.T) {
	for _, addr := range []string{"user@example.org", "first.last@sub.example.org"} {
		if !address.Valid(addr) {
			t.Fatalf("expected %q to be valid", addr)
		}
	}
	for _, addr := range []string{"", "user", "user@", "@example.org", "a b@example.org"} {
		if address.Valid(addr) {
			t.Fatalf("expected %q to be invalid", addr)
		}
	}
}

func TestValidAlias(t *testing.T) {
	if !address.ValidAlias("art.vandelay", "example.org") {
		t.Fatal("expected alias to be valid")
	}
	for _, alias := range []string{"", "two words", "bad@part"} {
		if address.ValidAlias(alias, "example.org") {
			t.Fatalf("expected alias %q to be invalid", alias)
		}
	}
}

func TestHash(t *testing.T) {
	got := address.Hash("hello")
	want := "ea09ae9cc6768c50fcee903ed054556e5bfc8347907f12598aa24193"
	if got != want {
		t.Fatalf("hash mismatch: got %s, want %s", got, want)
	}
}

func TestRouteID(t *testing.T) {
	got := address.RouteID("alias", "user@example.org", "Mon, 02 Jan 2006 15:04:05 GMT")
	want := "c9a6594c842e153deaf86a64a8811376cb1d627427c066253a56b252"
	if got != want {
		t.Fatalf("route id mismatch: got %s, want %s", got, want)
	}
}

func TestParseReply(t *testing.T) {
	alias, hash, err := address.ParseReply("Shop+ABC123@Example.org", "example.org")
	if err != nil {
		t.Fatalf("parse reply: %v", err)
	}
	if alias != "shop" || hash != "abc123" {
		t.Fatalf("unexpected parse result: %s, %s", alias, hash)
	}

	if _, _, err := address.ParseReply("shop+abc@other.org", "example.org"); err == nil {
		t.Fatal("expected error for foreign domain")
	}
	if _, _, err := address.ParseReply("shop@example.org", "example.org"); err == nil {
		t.Fatal("expected error for address without hash")
	}
	if _, _, err := address.ParseReply("not-an-address", "example.org"); err == nil {
		t.Fatal("expected error for malformed address")
	}
}

func TestFormatReplyRoundTrip(t *testing.T) {
	addr := address.FormatReply("shop", address.Hash("corr@example.com"), "example.org")
	alias, hash, err := address.ParseReply(addr, "example.org")
	if err != nil {
		t.Fatalf("parse reply: %v", err)
	}
	if alias != "shop" || hash != address.Hash("corr@example.com") {
		t.Fatalf("round trip mismatch: %s, %s", alias, hash)
	}
}
