// Package indirect recovers the concrete argument of well-known indirect
// and vendor dispatch calls by scanning the instructions just above the
// call site.
package indirect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Decoder renders one captured operand. It is either Raw (the operand is
// already meaningful, e.g. a routine symbol) or NamedConst (the operand is
// a hex immediate selecting a behavior).
type Decoder interface {
	Decode(value string) string
}

// Raw passes the captured operand through unchanged.
type Raw struct{}

func (Raw) Decode(value string) string { return value }

// NamedConst decodes a base-16 immediate against a constant table:
// "0x5C=ExtFunctionGetCurrentProcessorIndex" when defined, "0x5C" otherwise.
// Operands that are not hex immediates are returned unchanged.
type NamedConst struct {
	Table map[int]string
}

func (d NamedConst) Decode(value string) string {
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return value
	}
	if name, ok := d.Table[int(n)]; ok {
		return fmt.Sprintf("0x%s=%s", value, name)
	}
	return "0x" + value
}

// Rule describes one indirect call family.
type Rule struct {
	Name string
	// Target matches the call line, e.g. `call    \w+!KeInitializeDpc`.
	Target string
	// Source matches the value-producing instruction. Every named group
	// is a candidate capture; the first non-empty one wins.
	Source string
	// Lookback bounds the number of arbitrary lines between Source and
	// Target. Each value binds to the nearest following call site.
	Lookback int
	Decoder  Decoder
	// Unreliable marks rules whose narrow immediates can alias an
	// unrelated constant:
	//
	//	mov     r8,1h
	//	lea     ecx,[r8+5Ch]
	//	call    storport!StorPortExtendedFunction
	//
	// decodes as 0x5C=ExtFunctionGetCurrentProcessorIndex. A NamedConst
	// value whose opcode bytes disagree with the text is reported the same
	// way.
	Unreliable bool

	target  *regexp.Regexp
	resolve *regexp.Regexp
}

const (
	symbolOperand = `(?P<value>.+) \([0-9a-f]{8}` + "`" + `[0-9a-f]{8}\)`
)

// DefaultRules is the built-in catalog, in match priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "KeInitializeDpc", Target: `call    \w+!KeInitializeDpc`,
			Source: `lea     rdx,\[` + symbolOperand + `\]`, Lookback: 2, Decoder: Raw{}},
		{Name: "KeInitializeThreadedDpc", Target: `call    \w+!KeInitializeThreadedDpc`,
			Source: `lea     rdx,\[` + symbolOperand + `\]`, Lookback: 2, Decoder: Raw{}},
		{Name: "KeSynchronizeExecution", Target: `call    \w+!KeSynchronizeExecution`,
			Source: `lea     rdx,\[` + symbolOperand + `\]`, Lookback: 5, Decoder: Raw{}},
		{Name: "MmMapMdl", Target: `call    \w+!MmMapMdl`,
			Source: `lea     r8,\[` + symbolOperand + `\]`, Lookback: 5, Decoder: Raw{}},
		{Name: "IoQueueWorkItem", Target: `call    \w+!IoQueueWorkItem \(`,
			Source: `lea     rdx,\[` + symbolOperand + `\]`, Lookback: 5, Decoder: Raw{}},
		{Name: "IoQueueWorkItemEx", Target: `call    \w+!IoQueueWorkItemEx \(`,
			Source: `lea     rdx,\[` + symbolOperand + `\]`, Lookback: 5, Decoder: Raw{}},
		{Name: "StorPortNotification", Target: `call    storport!StorPortNotification`,
			Source: `mov     ecx,(?P<value>.+)h`, Lookback: 8,
			Decoder: NamedConst{Table: ScsiNotificationType}},
		{Name: "StorPortExtendedFunction", Target: `call    storport!StorPortExtendedFunction`,
			Source:   `(?:mov     ecx,(?P<value>[0-9A-F]+)h)|(?:lea     ecx,\[r8\+(?P<offset>[0-9A-F]+)h\])`,
			Lookback: 8, Decoder: NamedConst{Table: StorportFunctionCode}, Unreliable: true},
		{Name: "IoRegisterPlugPlayNotification", Target: `call    \w+!IoRegisterPlugPlayNotification`,
			Source:   `lea     rax,\[` + symbolOperand + `\]\n(?:.+?\n){0,2}[0-9a-f]+?\s+mov     qword ptr \[rsp\+20h\],rax`,
			Lookback: 5, Decoder: Raw{}},
	}
}

// Catalog is an ordered, compiled rule set. It is safe for concurrent
// reads once constructed.
type Catalog struct {
	rules []*Rule
}

// New compiles rules in order.
func New(rules []Rule) (*Catalog, error) {
	c := &Catalog{}
	for i := range rules {
		r := rules[i]
		if r.Decoder == nil {
			r.Decoder = Raw{}
		}
		var err error
		if r.target, err = regexp.Compile(r.Target); err != nil {
			return nil, fmt.Errorf("indirect: rule %s target: %w", r.Name, err)
		}
		pattern := fmt.Sprintf(`(?m)(?:^(?P<%s>[0-9a-f]+)[ \t]+)?(?:%s)\n(?:.+?\n){0,%d}?[0-9a-f]+?\s+%s`,
			opcodeGroup, r.Source, r.Lookback, r.Target)
		if r.resolve, err = regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("indirect: rule %s source: %w", r.Name, err)
		}
		c.rules = append(c.rules, &r)
	}
	return c, nil
}

// Default returns the compiled built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of rules.
func (c *Catalog) Len() int { return len(c.rules) }

// Match returns the first rule whose target pattern matches the call line
// (e.g. "call    nt!KeInitializeDpc (fffff800`12345678)").
func (c *Catalog) Match(callLine string) (*Rule, bool) {
	for _, r := range c.rules {
		if r.target.MatchString(callLine) {
			return r, true
		}
	}
	return nil, false
}

// Resolve scans a whole block for every site of the rule's call and
// returns the decoded arguments joined by commas, first-seen order,
// duplicates removed. Loops can repeat one call site with different
// constants, so all matches are collected. unreliable is true when a
// value was recovered by a rule marked Unreliable, or when a NamedConst
// value disagrees with the immediate decoded from its opcode bytes.
func (r *Rule) Resolve(block string) (values string, unreliable bool) {
	var out []string
	seen := make(map[string]bool)
	_, named := r.Decoder.(NamedConst)
	mismatch := false
	for _, m := range r.resolve.FindAllStringSubmatch(block, -1) {
		v := firstNamed(r.resolve, m)
		if v == "" {
			continue
		}
		if named && !agrees(m[r.resolve.SubexpIndex(opcodeGroup)], v) {
			mismatch = true
		}
		v = r.Decoder.Decode(v)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, ","), r.Unreliable || mismatch
}

// firstNamed returns the first non-empty named submatch.
func firstNamed(re *regexp.Regexp, m []string) string {
	for i, name := range re.SubexpNames() {
		if name != "" && name != opcodeGroup && i < len(m) && m[i] != "" {
			return m[i]
		}
	}
	return ""
}
