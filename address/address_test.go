package address_test

import (
	"testing"

	"github.com/entryhold/node/address"
)

func TestCompute_Deterministic(t *testing.T) {
	a := address.Compute([]byte("hello"))
	b := address.Compute([]byte("hello"))
	if a != b {
		t.Fatalf("expected deterministic hash, got %s != %s", a, b)
	}
	c := address.Compute([]byte("bye"))
	if a == c {
		t.Fatalf("expected different content to hash differently")
	}
}

func TestFromBytes_WrongLength(t *testing.T) {
	if _, err := address.FromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong-length input")
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	a, err := address.FromBytes(make([]byte, address.Size))
	if err != nil {
		t.Fatal(err)
	}
	b := a
	b[address.Size-1] = 1
	if a.Compare(b) >= 0 {
		t.Fatalf("expected a < b")
	}
	if b.Compare(a) <= 0 {
		t.Fatalf("expected b > a")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected a == a")
	}
}

func TestSort(t *testing.T) {
	addrs := []address.Address{
		address.Compute([]byte("c")),
		address.Compute([]byte("a")),
		address.Compute([]byte("b")),
	}
	address.Sort(addrs)
	for i := 1; i < len(addrs); i++ {
		if addrs[i-1].Compare(addrs[i]) > 0 {
			t.Fatalf("addrs not sorted: %v", addrs)
		}
	}
}

func TestParseAddress_RoundTrip(t *testing.T) {
	a := address.Compute([]byte("round-trip"))
	parsed, err := address.ParseAddress(a.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != a {
		t.Fatalf("round trip mismatch: %s != %s", parsed, a)
	}
}
