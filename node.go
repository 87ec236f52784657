package ember

// drawableIDCounter is a plain counter (no atomic — ember is single-threaded
// apart from the effect registry, and IDs are assigned at construction time).
var drawableIDCounter uint32

func nextDrawableID() uint32 {
	drawableIDCounter++
	return drawableIDCounter
}

// Drawable is the scene graph node everything else is built on. A single flat
// struct is used for all drawable kinds to avoid interface dispatch on the hot
// path.
//
// A Drawable has at most one parent. Adding a node to a new parent first
// detaches it from the old one. Children are never implicitly destroyed with
// their parent; ownership must be transferred or released explicitly.
type Drawable struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Drawable
	children []*Drawable

	// Transform (local). Rotation is in degrees; OriginX/OriginY is the pivot
	// relative to the node's top-left corner.
	X, Y             float64
	Width, Height    float64
	ScaleX, ScaleY   float64
	Rotation         float64
	OriginX, OriginY float64

	// Ordering
	Layer    Layer
	Priority int

	// Visibility
	Visible bool
	Opacity float64
	Color   Color

	// Metadata
	tags map[string]struct{}
	data map[string]any

	// Computed world transform, recomputed lazily when dirty.
	worldTransform [6]float64
	worldDirty     bool
}

// NewDrawable creates a drawable with identity transform, full opacity, and
// the middle layer.
func NewDrawable(name string) *Drawable {
	d := &Drawable{Name: name}
	drawableDefaults(d)
	return d
}

// drawableDefaults sets the common default field values shared by all constructors.
func drawableDefaults(d *Drawable) {
	d.ID = nextDrawableID()
	d.ScaleX = 1
	d.ScaleY = 1
	d.Opacity = 1
	d.Color = ColorWhite
	d.Visible = true
	d.Layer = LayerMiddle
	d.worldDirty = true
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (d *Drawable) AddChild(child *Drawable) {
	if child == nil {
		panic("ember: cannot add nil child")
	}
	if isAncestor(child, d) {
		panic("ember: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = d
	d.children = append(d.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node and reports whether the child was
// actually present. Detaching clears the child's parent reference; the caller
// keeps ownership of the detached subtree.
func (d *Drawable) RemoveChild(child *Drawable) bool {
	if child == nil || child.Parent != d {
		return false
	}
	d.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
	return true
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (d *Drawable) RemoveFromParent() {
	if d.Parent == nil {
		return
	}
	d.Parent.RemoveChild(d)
}

// RemoveChildren detaches all children from this node.
func (d *Drawable) RemoveChildren() {
	for _, child := range d.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	d.children = d.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (d *Drawable) Children() []*Drawable {
	return d.children
}

// NumChildren returns the number of children.
func (d *Drawable) NumChildren() int {
	return len(d.children)
}

// ChildAt returns the child at the given index.
func (d *Drawable) ChildAt(index int) *Drawable {
	return d.children[index]
}

// --- Transform property setters ---

// SetPosition sets the node's local X and Y and marks the subtree dirty.
func (d *Drawable) SetPosition(x, y float64) {
	d.X = x
	d.Y = y
	markSubtreeDirty(d)
}

// SetSize sets the node's width and height. Size does not affect the world
// transform, only point containment.
func (d *Drawable) SetSize(w, h float64) {
	d.Width = w
	d.Height = h
}

// SetScale sets the node's ScaleX and ScaleY and marks the subtree dirty.
func (d *Drawable) SetScale(sx, sy float64) {
	d.ScaleX = sx
	d.ScaleY = sy
	markSubtreeDirty(d)
}

// SetRotation sets the node's rotation (in degrees) and marks the subtree dirty.
func (d *Drawable) SetRotation(degrees float64) {
	d.Rotation = degrees
	markSubtreeDirty(d)
}

// SetOrigin sets the node's pivot point and marks the subtree dirty.
func (d *Drawable) SetOrigin(ox, oy float64) {
	d.OriginX = ox
	d.OriginY = oy
	markSubtreeDirty(d)
}

// SetOpacity sets the node's opacity, clamped to [0, 1].
func (d *Drawable) SetOpacity(opacity float64) {
	d.Opacity = clamp01(opacity)
}

// MarkDirty marks the node's world transform as stale, forcing recomputation
// on next access. Useful after bulk-setting transform fields directly.
func (d *Drawable) MarkDirty() {
	markSubtreeDirty(d)
}

// --- Tags and data bag ---

// AddTag adds a string tag to the node.
func (d *Drawable) AddTag(tag string) {
	if d.tags == nil {
		d.tags = make(map[string]struct{})
	}
	d.tags[tag] = struct{}{}
}

// RemoveTag removes a tag and reports whether it was present.
func (d *Drawable) RemoveTag(tag string) bool {
	if _, ok := d.tags[tag]; !ok {
		return false
	}
	delete(d.tags, tag)
	return true
}

// HasTag reports whether the node carries the given tag.
func (d *Drawable) HasTag(tag string) bool {
	_, ok := d.tags[tag]
	return ok
}

// SetData stores an arbitrary value under a string key.
func (d *Drawable) SetData(key string, value any) {
	if d.data == nil {
		d.data = make(map[string]any)
	}
	d.data[key] = value
}

// Data returns the value stored under key and whether it exists.
func (d *Drawable) Data(key string) (any, bool) {
	v, ok := d.data[key]
	return v, ok
}

// DeleteData removes the value stored under key.
func (d *Drawable) DeleteData(key string) {
	delete(d.data, key)
}

// --- World transform ---

// Local returns the node's local transform as a value.
func (d *Drawable) Local() Transform {
	return Transform{
		X: d.X, Y: d.Y,
		Rotation: d.Rotation,
		ScaleX:   d.ScaleX, ScaleY: d.ScaleY,
		OriginX: d.OriginX, OriginY: d.OriginY,
	}
}

// WorldTransform returns the node's affine matrix in world space, composing
// the chain of ancestor transforms. The result is cached; it is recomputed
// only when this node or an ancestor has been mutated since the last call.
// Resolving a node resolves its ancestors first, so each node in a chain is
// recomputed at most once per change.
func (d *Drawable) WorldTransform() [6]float64 {
	if !d.worldDirty {
		return d.worldTransform
	}
	local := d.Local().matrix()
	if d.Parent == nil {
		d.worldTransform = local
	} else {
		d.worldTransform = multiplyAffine(d.Parent.WorldTransform(), local)
	}
	d.worldDirty = false
	return d.worldTransform
}

// WorldPosition returns the node's local origin point (0, 0) mapped to world
// space.
func (d *Drawable) WorldPosition() (x, y float64) {
	return transformPoint(d.WorldTransform(), 0, 0)
}

// WorldOpacity returns the node's opacity multiplied through its ancestors.
func (d *Drawable) WorldOpacity() float64 {
	o := d.Opacity
	for p := d.Parent; p != nil; p = p.Parent {
		o *= p.Opacity
	}
	return clamp01(o)
}

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (d *Drawable) WorldToLocal(wx, wy float64) (lx, ly float64) {
	inv := invertAffine(d.WorldTransform())
	return transformPoint(inv, wx, wy)
}

// LocalToWorld converts a local-space point to world-space.
func (d *Drawable) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(d.WorldTransform(), lx, ly)
}

// --- Point containment ---

// ContainsPoint tests a local-space point against the node's rectangle.
func (d *Drawable) ContainsPoint(x, y float64) bool {
	return Rect{Width: d.Width, Height: d.Height}.Contains(x, y)
}

// ContainsPointWorld tests a world-space point against the node's rectangle.
// Rotation and scale are handled by mapping the point through the inverse
// world transform before the rectangle test.
func (d *Drawable) ContainsPointWorld(wx, wy float64) bool {
	lx, ly := d.WorldToLocal(wx, wy)
	return d.ContainsPoint(lx, ly)
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Drawable) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from d.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (d *Drawable) removeChildByPtr(child *Drawable) {
	for i, c := range d.children {
		if c == child {
			copy(d.children[i:], d.children[i+1:])
			d.children[len(d.children)-1] = nil
			d.children = d.children[:len(d.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets worldDirty on node and all its descendants.
func markSubtreeDirty(node *Drawable) {
	node.worldDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
