package compiler

// memory.go implements the per-component Memory bookkeeping the design notes
// requires: an ordered buffer list (one per lifted `fby`) plus a map from
// call-site memory Id to called-component Id (one per surviving
// component call after normalization). Buffers and called-component
// entries are required to have unique names within a component
// (the design notes invariant); InsertFresh on the symbol table already
// guarantees that at the Id level, so Memory just records the mapping.

// addBuffer registers a fresh `fby`-lifted buffer in comp's memory and
// returns its Id, per the lift-delayed-subexpressions step:
// "allocate a fresh buffer b ... add b to memory with initial c".
func addBuffer(ctx *Context, comp *Component, typ *Type, initial *Expr) Id {
	id := ctx.Syms.InsertFresh(comp.Name+"_buf", ScopeVeryLocal, typ)
	comp.Memory.Buffers = append(comp.Memory.Buffers, BufferEntry{
		ID: id, Name: ctx.Syms.GetName(id), Typ: typ, Initial: initial,
	})
	return id
}

// registerCalledComponent records that memory cell memID belongs to a
// call of component calleeID, per the Memory definition.
func registerCalledComponent(comp *Component, memID, calleeID Id) {
	comp.Memory.CalledComponent[memID] = calleeID
}

// MemorySoundness checks the invariant that buffers and
// called-component memory entries have unique names within a component;
// used by memory_test.go.
func MemorySoundness(ctx *Context, comp *Component) bool {
	seen := map[string]bool{}
	for _, b := range comp.Memory.Buffers {
		if seen[b.Name] {
			return false
		}
		seen[b.Name] = true
	}
	for memID := range comp.Memory.CalledComponent {
		name := ctx.Syms.GetName(memID)
		if seen[name] {
			return false
		}
		seen[name] = true
	}
	return true
}
