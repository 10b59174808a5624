package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupNames(t *testing.T) {
	root := newRootGroup()
	assert.Equal(t, "a test", root.testName("a test", " "))

	outer := enterGroup(root, "outer")
	inner := enterGroup(outer, "inner")
	assert.Equal(t, "outer", outer.fullName(" "))
	assert.Equal(t, "outer/inner", inner.fullName("/"))
	assert.Equal(t, "outer/inner/a test", inner.testName("a test", "/"))
}

func TestGroupNamesOmitEmptySegments(t *testing.T) {
	outer := enterGroup(newRootGroup(), "")
	inner := enterGroup(outer, "inner")
	assert.Equal(t, "inner a test", inner.testName("a test", " "))
	assert.Equal(t, "inner", inner.testName("", " "))
}

func TestSynchronousSetUpAndTearDownComposition(t *testing.T) {
	var order []string
	step := func(name string) Action {
		return Sync(func(*T) { order = append(order, name) })
	}

	outer := enterGroup(newRootGroup(), "outer")
	outer.setSetUp(step("outer setup"))
	outer.setTearDown(step("outer teardown"))
	inner := enterGroup(outer, "inner")
	inner.setSetUp(step("inner setup"))
	inner.setTearDown(step("inner teardown"))

	assert.Nil(t, inner.setUp(nil))
	assert.Nil(t, inner.tearDown(nil))
	assert.Equal(t, []string{"outer setup", "inner setup", "inner teardown", "outer teardown"}, order)
}

func TestGroupWithoutOwnSetUpInheritsParents(t *testing.T) {
	calls := 0
	outer := enterGroup(newRootGroup(), "outer")
	outer.setSetUp(Sync(func(*T) { calls++ }))
	inner := enterGroup(outer, "inner")

	inner.setUp(nil)
	assert.Equal(t, 1, calls)
	assert.Nil(t, inner.tearDown)
}

func TestSetUpIsReplacedNotAccumulated(t *testing.T) {
	var order []string
	g := enterGroup(newRootGroup(), "g")
	g.setSetUp(Sync(func(*T) { order = append(order, "first") }))
	g.setSetUp(Sync(func(*T) { order = append(order, "second") }))

	g.setUp(nil)
	assert.Equal(t, []string{"second"}, order)
}
