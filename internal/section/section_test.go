package section

import (
	"os"
	"path/filepath"
	"testing"
)

const testCapture = "====\n" +
	"uf fffff800`10000000\n" +
	"drv!DriverEntry:\n" +
	"e800000000      call    nt!IoCreateDevice (fffff800`12345678)\n" +
	"====\n" +
	"uf fffff800`12345678\n" +
	FlowAnalysisCookie + "\n" +
	"nt!IoCreateDevice:\n" +
	"c3              ret\n"

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantAddr string
		wantSym  string
	}{
		{"plain", "uf fffff800`12345678\ndrv!Foo:\nc3 ret\n", "fffff800`12345678", "drv!Foo"},
		{"flow cookie", "uf fffff800`12345678\n" + FlowAnalysisCookie + "\ndrv!Foo:\nc3 ret\n", "fffff800`12345678", "drv!Foo"},
		{"plain address", "uf 12345678\ndrv!Bar:\n", "12345678", "drv!Bar"},
		{"header only", "uf 12345678", "12345678", ""},
	}
	for _, tt := range tests {
		addr, sym := ParseHeader(tt.raw)
		if addr != tt.wantAddr {
			t.Errorf("%s: address = %q, want %q", tt.name, addr, tt.wantAddr)
		}
		if sym != tt.wantSym {
			t.Errorf("%s: symbol = %q, want %q", tt.name, sym, tt.wantSym)
		}
	}
}

func TestParseHeaderFlowCookieEquivalent(t *testing.T) {
	_, direct := ParseHeader("uf 1\nFoo:\nnop\n")
	_, cookie := ParseHeader("uf 1\n" + FlowAnalysisCookie + "\nFoo:\nnop\n")
	if direct != "Foo" || cookie != direct {
		t.Errorf("direct = %q, cookie = %q, want both %q", direct, cookie, "Foo")
	}
}

func TestSplit(t *testing.T) {
	c := Split(testCapture, "====\n")
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	b := c.Block(1)
	if b.Symbol != "nt!IoCreateDevice" {
		t.Errorf("block 1 symbol = %q", b.Symbol)
	}
	if b.Body != "c3              ret\n" {
		t.Errorf("block 1 body = %q", b.Body)
	}
	if c.Block(0).Body == "" {
		t.Error("block 0 body is empty")
	}
}

func TestLookups(t *testing.T) {
	c := Split(testCapture, "====\n")

	idx, addr, ok := c.FindSymbol("drv!DriverEntry")
	if !ok || idx != 0 || addr != "fffff800`10000000" {
		t.Errorf("FindSymbol = (%d, %q, %v)", idx, addr, ok)
	}
	if _, _, ok := c.FindSymbol("DriverEntry"); ok {
		t.Error("FindSymbol matched a partial symbol")
	}

	idx, sym, ok := c.FindAddress("fffff800`12345678")
	if !ok || idx != 1 || sym != "nt!IoCreateDevice" {
		t.Errorf("FindAddress = (%d, %q, %v)", idx, sym, ok)
	}
	if idx, _, ok := c.FindAddress("deadbeef"); ok || idx != -1 {
		t.Errorf("FindAddress(missing) = (%d, %v)", idx, ok)
	}

	got := c.FindContaining("IoCreateDevice")
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("FindContaining = %v, want [0 1]", got)
	}
}

func TestLoadAndDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.txt")
	if err := os.WriteFile(path, []byte(testCapture), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path, "====\n")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	d := c.Digest()
	if len(d) != 16 {
		t.Errorf("Digest = %q, want 16 hex chars", d)
	}
	if d != Split(testCapture, "====\n").Digest() {
		t.Error("Digest not stable for identical text")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing"), "===="); err == nil {
		t.Error("Load(missing) returned nil error")
	}
}
