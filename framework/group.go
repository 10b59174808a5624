package framework

// groupContext is one nesting level of test grouping. Its setup and teardown are composed with
// the parent's at the moment they are assigned, so a test only ever needs to look at the
// innermost group to find its whole chain.
type groupContext struct {
	parent   *groupContext
	name     string
	setUp    Action
	tearDown Action
}

func newRootGroup() *groupContext {
	return &groupContext{}
}

func enterGroup(parent *groupContext, name string) *groupContext {
	g := &groupContext{parent: parent, name: name}
	if parent != nil {
		g.setUp = parent.setUp
		g.tearDown = parent.tearDown
	}
	return g
}

func (g *groupContext) isRoot() bool {
	return g.parent == nil
}

func (g *groupContext) fullName(separator string) string {
	if g.parent == nil || g.parent.isRoot() {
		return g.name
	}
	return joinName(g.parent.fullName(separator), g.name, separator)
}

func (g *groupContext) testName(description, separator string) string {
	return joinName(g.fullName(separator), description, separator)
}

func joinName(prefix, name, separator string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	default:
		return prefix + separator + name
	}
}

// setSetUp makes action run after every setup inherited from enclosing groups.
func (g *groupContext) setSetUp(action Action) {
	var inherited Action
	if g.parent != nil {
		inherited = g.parent.setUp
	}
	g.setUp = sequence(inherited, action)
}

// setTearDown makes action run before every teardown inherited from enclosing groups.
func (g *groupContext) setTearDown(action Action) {
	var inherited Action
	if g.parent != nil {
		inherited = g.parent.tearDown
	}
	g.tearDown = sequence(action, inherited)
}

// sequence composes two actions so that second starts only after first has completed. If first
// is pending, second is started from the suite's loop once first settles; a failure in first
// skips second.
func sequence(first, second Action) Action {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(t *T) *Future {
		f := first(t)
		if f == nil {
			return second(t)
		}
		return t.continueWith(f, second)
	}
}
