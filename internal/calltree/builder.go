package calltree

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"hotpath/internal/indirect"
	"hotpath/internal/section"
)

// ErrKeyNotFound is returned when the key matches no block, neither as an
// exact symbol nor as a substring.
var ErrKeyNotFound = errors.New("calltree: key not found")

// Call sites recognized in a block, in the debugger's column layout:
//
//	call    nt!IoCreateDevice (fffff800`12345678)
//	call    qword ptr [drv!_imp_ExAllocatePoolWithTag (fffff800`1000a000)]
//	call    qword ptr [drv!_guard_dispatch_icall_fptr (fffff800`1000b000)]
//	jmp     qword ptr [drv!_imp_KeBugCheckEx (fffff800`1000c000)]
const callSiteExpr = `call    (?P<call>qword ptr \[\w+!(?:(?:_imp_|_?guard_dispatch_icall).*)\]|\w+!.*)` +
	`|jmp     (?P<jmp>qword ptr \[\w+!_imp_.*\])`

// retpolineSourceExpr captures the table a dispatch target was loaded from:
//
//	mov     rax,qword ptr [drv!CallbackTable (fffff800`10003000)]
//	...
//	call    nt!guard_dispatch_icall (fffff800`20001000)
const retpolineSourceExpr = `mov     rax,qword ptr \[(\w+!.+?)\s.+?\][\s\S]+?call\s+\w+!_?guard_dispatch_icall`

// Options configures one tree construction.
type Options struct {
	// Upcall expands callers instead of callees.
	Upcall bool
	// Depth is the maximum number of expanded levels; 0 keeps the root alone.
	Depth uint
	// StopSymbols are regular expressions; a downcall target whose symbol
	// matches one is not expanded.
	StopSymbols []string
	// Retpoline maps a dispatch-thunk load source to a resolved target. It
	// only annotates Retpoline leaves.
	Retpoline map[string]string
	// Catalog overrides the built-in indirect call rules.
	Catalog *indirect.Catalog
}

// Builder carries the state of one construction run: compiled patterns,
// the corpus and the sticky unreliable advisory.
type Builder struct {
	corpus     *section.Corpus
	opts       Options
	catalog    *indirect.Catalog
	stops      []*regexp.Regexp
	callSites  *regexp.Regexp
	retpoline  *regexp.Regexp
	unreliable bool
}

// NewBuilder compiles the run's patterns. It fails on an invalid stop
// symbol expression.
func NewBuilder(corpus *section.Corpus, opts Options) (*Builder, error) {
	b := &Builder{
		corpus:    corpus,
		opts:      opts,
		catalog:   opts.Catalog,
		callSites: regexp.MustCompile(callSiteExpr),
		retpoline: regexp.MustCompile(retpolineSourceExpr),
	}
	if b.catalog == nil {
		b.catalog = indirect.Default()
	}
	for _, s := range opts.StopSymbols {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("calltree: stop symbol %q: %w", s, err)
		}
		b.stops = append(b.stops, re)
	}
	return b, nil
}

// Unreliable reports whether any indirect decoding of this run used a rule
// whose immediates may alias unrelated constants.
func (b *Builder) Unreliable() bool { return b.unreliable }

// Build constructs and decorates the tree for key. An exact symbol match
// roots the tree at that block. Otherwise every block containing key
// becomes an independent subtree under a synthetic root named key.
func (b *Builder) Build(key string) (*Node, error) {
	var root *Node
	if idx, addr, ok := b.corpus.FindSymbol(key); ok {
		root = b.expand(&Node{Symbol: key, Address: addr, Index: idx}, 0)
	} else {
		matches := b.corpus.FindContaining(key)
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		root = &Node{Symbol: key, Index: NoBlock}
		if b.opts.Depth == 0 {
			root.Class = AtEnd
		} else {
			for _, i := range matches {
				blk := b.corpus.Block(i)
				sub := &Node{Symbol: blk.Symbol, Address: blk.Address, Index: i}
				root.Children = append(root.Children, b.expand(sub, 1))
			}
		}
		slog.Debug("tree.build.substring", "key", key, "roots", len(matches))
	}

	AssignHints(root)
	slog.Debug("tree.build.done", "key", key, "upcall", b.opts.Upcall,
		"depth", b.opts.Depth, "dependencies", CumulatedDependencies(root),
		"unreliable", b.unreliable)
	return root, nil
}

func (b *Builder) expand(n *Node, current uint) *Node {
	if b.opts.Upcall {
		return b.upcall(n, current)
	}
	return b.downcall(n, current)
}

// downcall expands the callees of n, which must have a located block.
func (b *Builder) downcall(n *Node, current uint) *Node {
	if current >= b.opts.Depth {
		n.Class = AtEnd
		return n
	}
	text := b.corpus.Block(n.Index).Raw
	targets := b.callTargets(text)
	if len(targets) == 0 {
		n.Class = BodyNotFound
		n.Index = NoBlock
		return n
	}
	for _, t := range targets {
		n.Children = append(n.Children, b.classify(text, t, current+1))
	}
	return n
}

// callTargets returns the distinct call/jump operands of a block in
// first-seen order.
func (b *Builder) callTargets(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range b.callSites.FindAllStringSubmatch(text, -1) {
		target := m[1]
		if target == "" {
			target = m[2]
		}
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out
}

// classify turns one call operand of the block text into a child node.
// Rules apply in priority order; only a located direct call recurses.
func (b *Builder) classify(text, operand string, next uint) *Node {
	sym, addr := splitOperand(operand)
	child := &Node{Symbol: sym, Index: NoBlock}

	if strings.Contains(sym, "guard_dispatch_icall") {
		child.Class = Retpoline
		if len(b.opts.Retpoline) > 0 {
			child.Symbol = fmt.Sprintf("%s (%s)", sym, b.retpolineTargets(text))
		}
		return child
	}

	if rule, ok := b.catalog.Match("call    " + operand); ok {
		child.Class = Indirect
		if values, unreliable := rule.Resolve(text); values != "" {
			child.Symbol = fmt.Sprintf("%s (%s)", sym, values)
			if unreliable && !b.unreliable {
				b.unreliable = true
				slog.Debug("tree.indirect.unreliable", "rule", rule.Name, "values", values)
			}
		}
		return child
	}

	if strings.Contains(operand, "qword ptr [") {
		child.Class = ImportAddressTable
		child.Address = addr
		return child
	}

	for _, re := range b.stops {
		if re.MatchString(sym) {
			child.Class = StopDisassembly
			return child
		}
	}

	child.Address = addr
	idx, name, ok := b.corpus.FindAddress(addr)
	if !ok {
		child.Class = BodyNotFound
		return child
	}
	child.Symbol = name
	child.Index = idx
	child.Class = HasDependency
	return b.downcall(child, next)
}

// retpolineTargets resolves the load sources feeding the block's guarded
// dispatch calls through the retpoline map. Unmapped sources pass through.
func (b *Builder) retpolineTargets(text string) string {
	var sources []string
	seen := make(map[string]bool)
	for _, m := range b.retpoline.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			sources = append(sources, m[1])
		}
	}
	if len(sources) == 0 {
		return "N/A"
	}
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if dst, ok := b.opts.Retpoline[s]; ok {
			out = append(out, s+"="+dst)
		} else {
			out = append(out, s)
		}
	}
	return strings.Join(out, ",")
}

// upcall expands the callers of n: every block containing a literal call
// to "symbol (address)" becomes a child. Repeated matches are kept.
func (b *Builder) upcall(n *Node, current uint) *Node {
	if current >= b.opts.Depth {
		n.Class = AtEnd
		return n
	}
	needle := fmt.Sprintf("call    %s (%s)", n.Symbol, n.Address)
	for i, blk := range b.corpus.Blocks() {
		if !strings.Contains(blk.Raw, needle) {
			continue
		}
		caller := &Node{Symbol: blk.Symbol, Address: blk.Address, Index: i, Class: HasDependency}
		n.Children = append(n.Children, b.upcall(caller, current+1))
	}
	if len(n.Children) == 0 {
		n.Class = BodyNotFound
		n.Index = NoBlock
	}
	return n
}

// splitOperand separates "sym (addr)" or "qword ptr [sym (addr)]" into its
// bare symbol and address token.
func splitOperand(operand string) (symbol, address string) {
	symbol = operand
	if i := strings.LastIndex(operand, " ("); i >= 0 {
		symbol = operand[:i]
		address = strings.TrimRight(operand[i+2:], ")]")
	}
	return strings.ReplaceAll(symbol, "qword ptr [", ""), address
}

// Result is the outcome of CreateTree.
type Result struct {
	Root       *Node
	Unreliable bool
	Digest     string
	Blocks     int
}

// CreateTree loads the capture at path, splits it on delimiter and builds
// the tree for key.
func CreateTree(path, delimiter, key string, opts Options) (*Result, error) {
	corpus, err := section.Load(path, delimiter)
	if err != nil {
		return nil, err
	}
	b, err := NewBuilder(corpus, opts)
	if err != nil {
		return nil, err
	}
	root, err := b.Build(key)
	if err != nil {
		return nil, err
	}
	return &Result{
		Root:       root,
		Unreliable: b.Unreliable(),
		Digest:     corpus.Digest(),
		Blocks:     corpus.Len(),
	}, nil
}
