package ember

import "testing"

// --- Tree manipulation ---

func TestAddChildSetsParent(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent not set")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("child not in parent's children")
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewDrawable("a")
	b := NewDrawable("b")
	child := NewDrawable("child")

	a.AddChild(child)
	b.AddChild(child)

	if child.Parent != b {
		t.Error("child should belong to b")
	}
	if a.NumChildren() != 0 {
		t.Error("child should have been removed from a")
	}
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil child")
		}
	}()
	NewDrawable("parent").AddChild(nil)
}

func TestAddChildCyclePanics(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for cycle")
		}
	}()
	child.AddChild(parent)
}

func TestRemoveChild(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	if !parent.RemoveChild(child) {
		t.Error("RemoveChild should report true for present child")
	}
	if child.Parent != nil {
		t.Error("child.Parent should be cleared")
	}
	if parent.RemoveChild(child) {
		t.Error("RemoveChild should report false for absent child")
	}
}

func TestRemoveChildren(t *testing.T) {
	parent := NewDrawable("parent")
	a := NewDrawable("a")
	b := NewDrawable("b")
	parent.AddChild(a)
	parent.AddChild(b)

	parent.RemoveChildren()
	if parent.NumChildren() != 0 {
		t.Error("children not cleared")
	}
	if a.Parent != nil || b.Parent != nil {
		t.Error("detached children should have nil parent")
	}
}

func TestRemoveFromParent(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	child.RemoveFromParent()
	if child.Parent != nil || parent.NumChildren() != 0 {
		t.Error("child not detached")
	}

	// No-op without a parent.
	child.RemoveFromParent()
}

// --- World transform ---

func TestWorldTransformParentChild(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	parent.SetPosition(100, 0)
	child.SetPosition(10, 0)

	wx, wy := child.WorldPosition()
	assertNear(t, "child.wx", wx, 110)
	assertNear(t, "child.wy", wy, 0)
}

func TestWorldTransformParentScale(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	parent.SetScale(2, 2)
	child.SetPosition(10, 5)

	wx, wy := child.WorldPosition()
	assertNear(t, "child.wx", wx, 20)
	assertNear(t, "child.wy", wy, 10)
}

func TestWorldTransformCachedUntilDirty(t *testing.T) {
	n := NewDrawable("n")
	n.SetPosition(10, 0)
	n.WorldTransform()

	// Direct field writes bypass the dirty flag; the cache must hold.
	n.X = 999
	assertNear(t, "stale.tx", n.worldTransform[4], 10)
	wx, _ := n.WorldPosition()
	assertNear(t, "cached.wx", wx, 10)

	// MarkDirty forces recomputation.
	n.MarkDirty()
	wx, _ = n.WorldPosition()
	assertNear(t, "fresh.wx", wx, 999)
}

func TestParentMoveDirtiesChild(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	parent.SetPosition(100, 0)
	child.SetPosition(10, 0)
	child.WorldPosition()

	parent.SetPosition(200, 0)
	wx, _ := child.WorldPosition()
	assertNear(t, "child.wx", wx, 210)
}

func TestDeepHierarchy(t *testing.T) {
	nodes := make([]*Drawable, 10)
	for i := range nodes {
		nodes[i] = NewDrawable("")
		nodes[i].SetPosition(10, 0)
		if i > 0 {
			nodes[i-1].AddChild(nodes[i])
		}
	}
	wx, _ := nodes[9].WorldPosition()
	assertNear(t, "deep.wx", wx, 100)
}

func TestWorldToLocalRoundtrip(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	parent.SetPosition(100, 50)
	child.SetPosition(10, 20)
	child.SetScale(2, 3)
	child.SetRotation(30)

	wx, wy := 150.0, 80.0
	lx, ly := child.WorldToLocal(wx, wy)
	wx2, wy2 := child.LocalToWorld(lx, ly)
	assertNearEps(t, "roundtrip.x", wx2, wx, 1e-9)
	assertNearEps(t, "roundtrip.y", wy2, wy, 1e-9)
}

func TestWorldOpacity(t *testing.T) {
	parent := NewDrawable("parent")
	child := NewDrawable("child")
	parent.AddChild(child)

	parent.SetOpacity(0.5)
	child.SetOpacity(0.5)
	assertNear(t, "world opacity", child.WorldOpacity(), 0.25)
}

func TestSetOpacityClamps(t *testing.T) {
	n := NewDrawable("n")
	n.SetOpacity(1.5)
	assertNear(t, "clamped high", n.Opacity, 1)
	n.SetOpacity(-0.2)
	assertNear(t, "clamped low", n.Opacity, 0)
}

// --- Point containment ---

func TestContainsPoint(t *testing.T) {
	n := NewDrawable("n")
	n.SetSize(10, 10)

	if !n.ContainsPoint(5, 5) {
		t.Error("interior point should be inside")
	}
	if !n.ContainsPoint(0, 0) || !n.ContainsPoint(10, 10) {
		t.Error("edge points should be inside")
	}
	if n.ContainsPoint(11, 5) {
		t.Error("exterior point should be outside")
	}
}

func TestContainsPointWorldTranslated(t *testing.T) {
	n := NewDrawable("n")
	n.SetSize(10, 10)
	n.SetPosition(100, 100)

	if !n.ContainsPointWorld(105, 105) {
		t.Error("point over the translated rect should hit")
	}
	if n.ContainsPointWorld(5, 5) {
		t.Error("point at the local rect's old position should miss")
	}
}

func TestContainsPointWorldRotated(t *testing.T) {
	// A 10x10 rect rotated 45 degrees about its center. The rect's former
	// corner area is now outside; a point near the center still hits.
	n := NewDrawable("n")
	n.SetSize(10, 10)
	n.SetOrigin(5, 5)
	n.SetRotation(45)

	if !n.ContainsPointWorld(5, 5) {
		t.Error("center should hit")
	}
	if n.ContainsPointWorld(9.9, 0.1) {
		t.Error("former corner should miss after rotation")
	}
}

func TestContainsPointWorldZeroScale(t *testing.T) {
	n := NewDrawable("n")
	n.SetSize(10, 10)
	n.SetScale(0, 0)

	// Singular inverse degrades to identity; must not panic.
	n.ContainsPointWorld(5, 5)
}

// --- Tags and data ---

func TestTags(t *testing.T) {
	n := NewDrawable("n")
	n.AddTag("enemy")

	if !n.HasTag("enemy") {
		t.Error("tag should be present")
	}
	if n.HasTag("friend") {
		t.Error("absent tag reported present")
	}
	if !n.RemoveTag("enemy") {
		t.Error("RemoveTag should report true")
	}
	if n.RemoveTag("enemy") {
		t.Error("RemoveTag should report false the second time")
	}
}

func TestDataBag(t *testing.T) {
	n := NewDrawable("n")
	n.SetData("hp", 42)

	v, ok := n.Data("hp")
	if !ok || v.(int) != 42 {
		t.Errorf("Data(hp) = %v, %v", v, ok)
	}
	n.DeleteData("hp")
	if _, ok := n.Data("hp"); ok {
		t.Error("deleted key still present")
	}
}

func TestDrawableIDsUnique(t *testing.T) {
	a := NewDrawable("a")
	b := NewDrawable("b")
	if a.ID == b.ID {
		t.Error("IDs should be unique")
	}
}

// --- Benchmarks ---

func BenchmarkWorldTransformClean(b *testing.B) {
	root := NewDrawable("root")
	leaf := root
	for i := 0; i < 10; i++ {
		n := NewDrawable("")
		n.SetPosition(1, 1)
		leaf.AddChild(n)
		leaf = n
	}
	leaf.WorldTransform()
	b.ReportAllocs()
	for b.Loop() {
		_ = leaf.WorldTransform()
	}
}

func BenchmarkWorldTransformDirty(b *testing.B) {
	root := NewDrawable("root")
	leaf := root
	for i := 0; i < 10; i++ {
		n := NewDrawable("")
		n.SetPosition(1, 1)
		leaf.AddChild(n)
		leaf = n
	}
	b.ReportAllocs()
	for b.Loop() {
		root.MarkDirty()
		_ = leaf.WorldTransform()
	}
}
