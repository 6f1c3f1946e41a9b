package interp

// Scope is a single lexical frame: an insertion-order-irrelevant
// mapping from name to Value, shared by pointer so a ScopeStack frame
// and any closure that captured it see the same mutations (spec.md §3
// "Scope frames as shared-ownership records").
type Scope struct {
	vars map[string]Value
}

// NewScope builds an empty frame.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]Value)}
}

func (s *Scope) has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

func (s *Scope) snapshot() map[string]Value {
	out := make(map[string]Value, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

func (s *Scope) restore(vars map[string]Value) {
	s.vars = make(map[string]Value, len(vars))
	for k, v := range vars {
		s.vars[k] = v
	}
}

// ScopeStack is the interpreter's stack of lexical frames. Position 0
// is the global scope and is never popped (spec.md §3).
type ScopeStack struct {
	frames []*Scope
}

func newScopeStack(global *Scope) *ScopeStack {
	return &ScopeStack{frames: []*Scope{global}}
}

// enterScope pushes a new frame, using frame if given, else a fresh
// empty one.
func (s *ScopeStack) enterScope(frame *Scope) *Scope {
	if frame == nil {
		frame = NewScope()
	}
	s.frames = append(s.frames, frame)
	return frame
}

// exitScope pops the top frame. The global frame (index 0) is never
// popped.
func (s *ScopeStack) exitScope() {
	if len(s.frames) <= 1 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// findVar searches from the top of the stack down, returning the
// first frame containing name.
func (s *ScopeStack) findVar(name string) (*Scope, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].has(name) {
			return s.frames[i], true
		}
	}
	return nil, false
}

// setVar mutates the existing binding in whichever frame holds name.
func (s *ScopeStack) setVar(name string, value Value) error {
	frame, ok := s.findVar(name)
	if !ok {
		return newRuntimeError(0, "undefined variable: %s", name)
	}
	frame.vars[name] = value
	return nil
}

// defineVar creates a new binding in the top frame. Redefining a name
// already present in the top frame is an error (spec.md §7
// "redefinition in current scope").
func (s *ScopeStack) defineVar(name string, value Value) error {
	top := s.frames[len(s.frames)-1]
	if top.has(name) {
		return newRuntimeError(0, "%q is already defined in this scope", name)
	}
	top.vars[name] = value
	return nil
}

// getVar reads the first binding found from the top down.
func (s *ScopeStack) getVar(name string) (Value, bool) {
	frame, ok := s.findVar(name)
	if !ok {
		return nil, false
	}
	return frame.vars[name], true
}

func (s *ScopeStack) depth() int { return len(s.frames) }

// truncate drops frames back to depth n (never below 1, the global
// frame) — used to restore the scope stack after an exception unwinds
// out of a try block (spec.md §4.3 TryCatch).
func (s *ScopeStack) truncate(n int) {
	if n < 1 {
		n = 1
	}
	if n < len(s.frames) {
		s.frames = s.frames[:n]
	}
}

// snapshotFrames returns the live frame pointers currently on the
// stack — used by closure creation to capture a reference snapshot
// (spec.md §3 Closure: "a reference to the live scope-stack frames").
func (s *ScopeStack) snapshotFrames() []*Scope {
	out := make([]*Scope, len(s.frames))
	copy(out, s.frames)
	return out
}

// replaceFrames swaps in a new frame slice and returns the old one, so
// a closure call can temporarily substitute its captured frames and
// the caller can restore its own afterward.
func (s *ScopeStack) replaceFrames(frames []*Scope) []*Scope {
	old := s.frames
	s.frames = frames
	return old
}
