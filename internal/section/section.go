// Package section splits a sanitized debugger capture into per-function
// blocks and recovers each block's (address, symbol) header.
package section

import (
	"fmt"
	"os"
	"strings"

	"github.com/zeebo/xxh3"
)

// FlowAnalysisCookie is the debugger's caveat line printed in place of the
// symbol when a function body could not be fully recovered.
const FlowAnalysisCookie = "Flow analysis was incomplete, some code may be missing"

// addressMarker prefixes the first line of every block ("uf <address>").
const addressMarker = "uf "

// Block is one function's disassembly record.
type Block struct {
	Address string // "fffff800`12345678" or a plain hex token
	Symbol  string // "module!Function", colon stripped
	Body    string // instruction text after the header
	Raw     string // the full record, header included
}

// Corpus is the ordered, immutable block sequence of one capture.
// A block's index is its identity for the lifetime of the corpus.
type Corpus struct {
	raw    string
	blocks []Block
}

// Split cuts text on the literal delimiter, discarding empty fragments.
func Split(text, delimiter string) *Corpus {
	c := &Corpus{raw: text}
	var frags []string
	if delimiter == "" {
		frags = []string{text}
	} else {
		frags = strings.Split(text, delimiter)
	}
	for _, f := range frags {
		if f == "" {
			continue
		}
		addr, sym := ParseHeader(f)
		c.blocks = append(c.blocks, Block{
			Address: addr,
			Symbol:  sym,
			Body:    headerBody(f),
			Raw:     f,
		})
	}
	return c
}

// Load reads a capture file once and splits it.
func Load(path, delimiter string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("section: read %s: %w", path, err)
	}
	return Split(string(data), delimiter), nil
}

// ParseHeader extracts the address and symbol of a raw block.
//
//	uf fffff800`12345678
//	drv!Foo:                                 <- symbol line
//
// When the second line is FlowAnalysisCookie the symbol is on the third
// line instead. Missing lines yield empty strings.
func ParseHeader(raw string) (address, symbol string) {
	lines := strings.SplitN(raw, "\n", 3)
	address = strings.TrimPrefix(lines[0], addressMarker)
	if len(lines) < 2 {
		return address, ""
	}
	symbol = lines[1]
	if symbol == FlowAnalysisCookie && len(lines) == 3 {
		symbol = lines[2]
		if i := strings.IndexByte(symbol, '\n'); i >= 0 {
			symbol = symbol[:i]
		}
	}
	return address, strings.TrimSuffix(symbol, ":")
}

// headerBody returns the instruction text following the header lines.
func headerBody(raw string) string {
	lines := strings.SplitN(raw, "\n", 3)
	if len(lines) < 3 {
		return ""
	}
	if lines[1] != FlowAnalysisCookie {
		return lines[2]
	}
	if i := strings.IndexByte(lines[2], '\n'); i >= 0 {
		return lines[2][i+1:]
	}
	return ""
}

// Len returns the number of blocks.
func (c *Corpus) Len() int { return len(c.blocks) }

// Block returns the block at index i.
func (c *Corpus) Block(i int) Block { return c.blocks[i] }

// Blocks returns the block sequence. Callers must not modify it.
func (c *Corpus) Blocks() []Block { return c.blocks }

// FindSymbol returns the first block whose header symbol equals key.
func (c *Corpus) FindSymbol(key string) (index int, address string, ok bool) {
	for i, b := range c.blocks {
		if b.Symbol == key {
			return i, b.Address, true
		}
	}
	return -1, "", false
}

// FindContaining returns every block whose raw text contains key.
func (c *Corpus) FindContaining(key string) []int {
	var out []int
	for i, b := range c.blocks {
		if strings.Contains(b.Raw, key) {
			out = append(out, i)
		}
	}
	return out
}

// FindAddress returns the block whose header address equals addr.
func (c *Corpus) FindAddress(addr string) (index int, symbol string, ok bool) {
	for i, b := range c.blocks {
		if b.Address == addr {
			return i, b.Symbol, true
		}
	}
	return -1, "", false
}

// Digest fingerprints the raw capture text (xxh3-64, hex).
func (c *Corpus) Digest() string {
	return fmt.Sprintf("%016x", xxh3.HashString(c.raw))
}
