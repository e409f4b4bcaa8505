package compiler

import (
	"encoding/binary"
	"hash"
	"math"
	"strconv"

	"github.com/minio/highwayhash"
)

// hashKey seeds every structural hash computed during a compilation. It
// is fixed rather than random: the equivalence classes CSE computes must
// be deterministic across runs of the same input, matching the
// determinism invariants.
var hashKey = [32]byte{
	0x47, 0x52, 0x6c, 0x61, 0x6e, 0x67, 0x5f, 0x63,
	0x73, 0x65, 0x5f, 0x73, 0x65, 0x65, 0x64, 0x00,
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
}

// structuralHash computes a highwayhash digest of e's shape, ignoring
// source spans, used by computeCanonicalHashes for the shared-
// subexpression extraction the design notes names ("optimization beyond dead-
// input elimination and shared-subexpression extraction"). Two
// expressions in fully normalized form (plain-identifier call arguments,
// no nested fby) that hash identically reference the same buffers/inputs
// and therefore compute the same value at every instant.
func structuralHash(e *Expr) uint64 {
	h, err := highwayhash.New64(hashKey[:])
	assertf(err == nil, "highwayhash key must be 32 bytes: %v", err)
	hashExprInto(h, e)
	return h.Sum64()
}

func writeUint(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func hashExprInto(h hash.Hash64, e *Expr) {
	if e == nil {
		h.Write([]byte{0})
		return
	}
	writeUint(h, uint64(e.Kind))
	h.Write([]byte(e.Name))
	switch e.Kind {
	case EConst:
		h.Write([]byte(formatLit(e)))
	case EIdent:
		writeUint(h, uint64(e.Ref))
	case ECall, EUnitaryCall:
		writeUint(h, uint64(e.CalledComponent))
		h.Write([]byte(e.OutputName))
	case EFieldAccess, ETupleAccess:
		h.Write([]byte(e.Name))
	}
	for _, c := range e.Children {
		hashExprInto(h, c)
	}
	if e.Lambda != nil {
		for _, p := range e.Lambda.Params {
			writeUint(h, uint64(p.Ref))
		}
		hashExprInto(h, e.Lambda.Body)
	}
}

func formatLit(e *Expr) string {
	switch v := e.LitVal.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatUint(math.Float64bits(v), 16)
	default:
		return ""
	}
}

// computeCanonicalHashes implements hash.go's shared-subexpression
// extraction: after normalization reaches a fixed point, statements whose
// normalized rhs hashes identically are unified within each component,
// one kept as canonical (ties broken by the smaller Id, for determinism)
// and the rest removed with references rewritten to the canonical one.
// This only fires within a single component, per the design notes.
func computeCanonicalHashes(ctx *Context) {
	for _, comp := range ctx.Components {
		unifyComponent(ctx, comp)
	}
}

func unifyComponent(ctx *Context, comp *Component) {
	classes := map[uint64][]*Stmt{}
	for _, s := range comp.Statements {
		if s.Kind != SLet || s.Expr == nil || s.Ref == invalidID {
			continue
		}
		hv := structuralHash(s.Expr)
		classes[hv] = append(classes[hv], s)
	}

	alias := map[Id]Id{}
	removed := map[*Stmt]bool{}
	for _, group := range classes {
		if len(group) < 2 {
			continue
		}
		canonical := group[0]
		for _, s := range group[1:] {
			if s.Ref < canonical.Ref {
				canonical = s
			}
		}
		for _, s := range group {
			if s == canonical {
				continue
			}
			alias[s.Ref] = canonical.Ref
			removed[s] = true
		}
	}
	if len(alias) == 0 {
		return
	}

	var kept []*Stmt
	for _, s := range comp.Statements {
		if removed[s] {
			continue
		}
		renameStmt(s, alias)
		kept = append(kept, s)
	}
	comp.Statements = kept
}
