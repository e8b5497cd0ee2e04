package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/generic"
)

// A drag shorter than this on both axes counts as a click.
const clickThreshold = 5

type selection struct {
	dragging bool
	start    mgl32.Vec2
	current  mgl32.Vec2
}

type rect struct {
	x, y, w, h float32
}

func normalizeRect(a, b mgl32.Vec2) rect {
	r := rect{
		x: min(a.X(), b.X()),
		y: min(a.Y(), b.Y()),
	}
	r.w = max(a.X(), b.X()) - r.x
	r.h = max(a.Y(), b.Y()) - r.y
	return r
}

func (r rect) contains(p mgl32.Vec2) bool {
	return p.X() >= r.x && p.X() <= r.x+r.w && p.Y() >= r.y && p.Y() <= r.y+r.h
}

func (r rect) intersects(o rect) bool {
	return r.x <= o.x+o.w && o.x <= r.x+r.w && r.y <= o.y+o.h && o.y <= r.y+r.h
}

func spriteRect(p *Position, sp *Sprite) rect {
	half := sp.Size * 0.5
	return rect{x: p.X - half, y: p.Y - half, w: sp.Size, h: sp.Size}
}

// SelectionRect is the rectangle being dragged, if any.
func (s *Scene) SelectionRect() (x, y, w, h float32, ok bool) {
	if !s.selection.dragging {
		return 0, 0, 0, 0, false
	}
	r := normalizeRect(s.selection.start, s.selection.current)
	return r.x, r.y, r.w, r.h, true
}

func (s *Scene) updateSelection(in FrameInput) {
	switch {
	case in.leftPressed():
		s.selection = selection{dragging: true, start: in.Mouse, current: in.Mouse}
	case in.LeftDown && s.selection.dragging:
		s.selection.current = in.Mouse
	case in.leftReleased() && s.selection.dragging:
		s.selection.current = in.Mouse
		s.selection.dragging = false
		s.applySelection(normalizeRect(s.selection.start, s.selection.current))
	}

	if in.rightPressed() {
		s.commandSelected(in.Mouse)
	}
}

// applySelection replaces the selection with the units under a click or
// inside a dragged rectangle.
func (s *Scene) applySelection(area rect) {
	s.ClearSelection()

	isClick := area.w < clickThreshold && area.h < clickThreshold
	var picked []ecs.Entity

	// Only units that can move are selectable.
	query := generic.NewFilter3[Position, Sprite, Velocity]().Query(&s.world)
	for query.Next() {
		pos, sprite, _ := query.Get()
		unit := spriteRect(pos, sprite)
		if isClick {
			// Later entities are drawn on top, so the last hit wins.
			if unit.contains(mgl32.Vec2{area.x, area.y}) {
				picked = append(picked[:0], query.Entity())
			}
			continue
		}
		if area.intersects(unit) {
			picked = append(picked, query.Entity())
		}
	}

	for _, e := range picked {
		s.selected.Assign(e, &Selected{})
	}
}

// ClearSelection drops the Selected tag from every unit.
func (s *Scene) ClearSelection() {
	var tagged []ecs.Entity
	query := generic.NewFilter1[Selected]().Query(&s.world)
	for query.Next() {
		tagged = append(tagged, query.Entity())
	}
	// The world is locked while a query runs.
	for _, e := range tagged {
		s.selected.Remove(e)
	}
}

// Select tags one unit, keeping the existing selection.
func (s *Scene) Select(e ecs.Entity) {
	if !s.IsSelected(e) {
		s.selected.Assign(e, &Selected{})
	}
}

func (s *Scene) commandSelected(target mgl32.Vec2) {
	var units []ecs.Entity
	query := generic.NewFilter2[Position, Selected]().Query(&s.world)
	for query.Next() {
		units = append(units, query.Entity())
	}
	for _, e := range units {
		s.SetDestination(e, target.X(), target.Y())
	}
}

// SelectedCount counts tagged units.
func (s *Scene) SelectedCount() int {
	query := generic.NewFilter1[Selected]().Query(&s.world)
	n := query.Count()
	query.Close()
	return n
}
