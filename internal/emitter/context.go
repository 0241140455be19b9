package emitter

import (
	"fmt"
	"strings"

	"github.com/go-olang/olangc/internal/types"
)

// constantPool is a class-scoped, deduplicated table of wide Integer/Real
// constants that don't fit the compact/byte/short push forms. It mirrors
// the teacher's Chunk.AddConstant: linear scan, reuse on exact match.
type constantPool struct {
	ints  []int64
	reals []float64
}

func (p *constantPool) addInt(v int64) int {
	for i, existing := range p.ints {
		if existing == v {
			return i
		}
	}
	p.ints = append(p.ints, v)
	return len(p.ints) - 1
}

func (p *constantPool) addReal(v float64) int {
	for i, existing := range p.reals {
		if existing == v {
			return i
		}
	}
	p.reals = append(p.reals, v)
	return len(p.reals) - 1
}

// methodContext tracks everything the lowering functions need while
// generating one method or constructor body: local-slot allocation, the
// symbolic operand-stack depth (with its running peak), and a per-method
// label generator. A fresh instance is created for every method and
// constructor, so its label counters never leak across members.
type methodContext struct {
	class    string
	member   string
	pool     *constantPool
	body     strings.Builder
	locals   map[string]int
	nextSlot int
	depth    int
	maxDepth int
	labelSeq int
}

func newMethodContext(className, memberName string, pool *constantPool) *methodContext {
	return &methodContext{
		class:  className,
		member: memberName,
		pool:   pool,
		locals: make(map[string]int),
	}
}

// reserveThis allocates slot 0 for the instance reference, as every
// non-static method and constructor requires.
func (ctx *methodContext) reserveThis() {
	ctx.locals["this"] = 0
	ctx.nextSlot = 1
}

// allocateLocal assigns the next free slot(s) to name, wide types (Real)
// taking two slots, and returns the assigned slot.
func (ctx *methodContext) allocateLocal(name string, t *types.Type) int {
	slot := ctx.nextSlot
	ctx.locals[name] = slot
	if t != nil && t.IsWide() {
		ctx.nextSlot += 2
	} else {
		ctx.nextSlot++
	}
	return slot
}

func (ctx *methodContext) slotOf(name string) (int, bool) {
	slot, ok := ctx.locals[name]
	return slot, ok
}

func (ctx *methodContext) newLabel(purpose string) string {
	ctx.labelSeq++
	return fmt.Sprintf("L_%s_%s_%d", ctx.member, purpose, ctx.labelSeq)
}

// push records that width operand-stack slots were just produced, tracking
// the running peak for the method's eventual .stack limit.
func (ctx *methodContext) push(width int) {
	ctx.depth += width
	if ctx.depth > ctx.maxDepth {
		ctx.maxDepth = ctx.depth
	}
}

// pop records that width operand-stack slots were just consumed.
func (ctx *methodContext) pop(width int) {
	ctx.depth -= width
}

func (ctx *methodContext) emit(format string, args ...any) {
	ctx.body.WriteString("    ")
	fmt.Fprintf(&ctx.body, format, args...)
	ctx.body.WriteString("\n")
}

func (ctx *methodContext) emitLabel(label string) {
	ctx.body.WriteString(label)
	ctx.body.WriteString(":\n")
}

// width reports the operand-stack width of t: 2 for Real, 1 otherwise
// (Void never reaches this; callers guard that separately).
func width(t *types.Type) int {
	if t != nil && t.IsWide() {
		return 2
	}
	return 1
}

// letter is the opcode type-letter for t's load/store/return family: 'i'
// for Integer/Boolean, 'd' for Real, 'a' for an object reference.
func letter(t *types.Type) byte {
	if t == nil {
		return 'a'
	}
	switch t.Kind {
	case types.VoidKind:
		return 'a'
	case types.ArrayKind:
		return 'a'
	default:
		switch t.Name {
		case "Integer", "Boolean":
			return 'i'
		case "Real":
			return 'd'
		default:
			return 'a'
		}
	}
}
