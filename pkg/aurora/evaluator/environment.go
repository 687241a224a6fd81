package evaluator

// Environment is a chain of scopes mapping names to values, with a
// per-binding const flag. Lookup walks outward through parent pointers;
// definition always targets the current scope.
type Environment struct {
	store  map[string]Object
	consts map[string]bool
	outer  *Environment

	// Filename and Logger are carried from the root environment down into
	// every child scope so builtins and error messages always know where
	// they are running, mirroring how the host threads ambient request
	// context through nested scopes.
	Filename string
	Logger   Logger
}

// NewEnvironment creates a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{
		store:  make(map[string]Object),
		consts: make(map[string]bool),
		Logger: DefaultLogger,
	}
}

// NewEnclosedEnvironment creates a child scope of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	if outer != nil {
		env.Filename = outer.Filename
		env.Logger = outer.Logger
	}
	return env
}

// Define binds name in the current scope. Returns false if name is already
// bound in this scope (redefinition is an error per the invariants).
func (e *Environment) Define(name string, val Object, isConst bool) bool {
	if _, exists := e.store[name]; exists {
		return false
	}
	e.store[name] = val
	if isConst {
		e.consts[name] = true
	}
	return true
}

// Get resolves name by walking the environment chain outward.
func (e *Environment) Get(name string) (Object, bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Assign walks the chain to find the defining scope and updates it there.
// Returns (ok, wasConst); wasConst true means the assignment was rejected
// because the binding is const.
func (e *Environment) Assign(name string, val Object) (ok bool, wasConst bool) {
	if _, exists := e.store[name]; exists {
		if e.consts[name] {
			return false, true
		}
		e.store[name] = val
		return true, false
	}
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return false, false
}

// Names returns every identifier visible from this scope, innermost first,
// for "did you mean" fuzzy-matching on undefined-variable errors.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.outer {
		for n := range env.store {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}
