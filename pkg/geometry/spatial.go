package geometry

// Spatial is the view of a node the geometry engine needs: its rectangle,
// whether it has been measured yet, and whether it may be selected. The
// graph model satisfies this interface; geometry stays free of entity types.
type Spatial interface {
	// Rect returns the node's rectangle from its computed position and
	// dimensions, both defaulting to zero when unresolved.
	Rect() Rect

	// Measured reports whether the node's dimensions are known.
	Measured() bool

	// CanSelect reports whether selection is permitted. Only an explicit
	// per-node "not selectable" override returns false.
	CanSelect() bool
}

// RectOfNodes returns the smallest rectangle enclosing every node in the
// sequence. An empty sequence yields a degenerate rectangle with infinite
// min corner and negative-infinite extent; callers that may pass an empty
// sequence should check for it rather than expect a crash.
func RectOfNodes[N Spatial](nodes []N) Rect {
	box := emptyBox()
	for _, n := range nodes {
		box = BoundsOfBoxes(box, RectToBox(n.Rect()))
	}
	return BoxToRect(box)
}

// NodesInRect returns the nodes intersecting a screen-space rectangle. The
// rectangle is first projected into graph space using the viewport
// transform. A node that has not been measured yet always qualifies, since
// it cannot be ruled out before it has a size. With partial false a node
// must be fully contained (overlap at least its own area); with partial
// true any positive overlap qualifies. When excludeNonSelectable is set,
// nodes explicitly marked non-selectable are skipped.
func NodesInRect[N Spatial](nodes []N, rect Rect, t Transform, partial, excludeNonSelectable bool) []N {
	paneRect := Rect{
		X:      (rect.X - t.X) / t.Zoom,
		Y:      (rect.Y - t.Y) / t.Zoom,
		Width:  rect.Width / t.Zoom,
		Height: rect.Height / t.Zoom,
	}

	var inside []N
	for _, n := range nodes {
		if excludeNonSelectable && !n.CanSelect() {
			continue
		}

		if !n.Measured() {
			inside = append(inside, n)
			continue
		}

		nodeRect := n.Rect()
		overlap := OverlapArea(paneRect, nodeRect)
		if partial {
			if overlap > 0 {
				inside = append(inside, n)
			}
			continue
		}
		if overlap >= nodeRect.Area() {
			inside = append(inside, n)
		}
	}
	return inside
}
