package queue

import (
	"context"
	"math"

	"github.com/crowdstage/live/internal/models"
)

// SourceKind says where a dragged item came from. Carrying the kind as a
// typed payload (rather than sniffing an id prefix) is what lets one drop
// handler disambiguate "add new" vs "reorder" vs "activate".
type SourceKind int

const (
	// SourceLibrary is a template dragged out of the workspace library.
	SourceLibrary SourceKind = iota
	// SourceQueued is an existing non-active session module.
	SourceQueued
	// SourceActive is the currently active session module.
	SourceActive
)

// DragSource is the typed drag payload.
type DragSource struct {
	Kind SourceKind
	ID   string
	// Library holds the template when Kind is SourceLibrary.
	Library models.WorkspaceModule
}

// Well-known drop zone ids. Any other target id is a queue item.
const (
	ZoneActive = "active-zone"
	ZoneQueue  = "queue-zone"
)

// ActionKind classifies what a drop should do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	// ActionCreate appends a library template to the queue.
	ActionCreate
	// ActionCreateAndActivate creates from the library and activates the
	// new module immediately (dropped on the active zone).
	ActionCreateAndActivate
	// ActionActivate promotes a queued module to active.
	ActionActivate
	// ActionDeactivate demotes the active module back into the queue.
	ActionDeactivate
	// ActionReorder moves a queued module to another queue position.
	ActionReorder
	// ActionMoveToEnd moves a queued module to the back of the queue.
	ActionMoveToEnd
)

// Action is a resolved drop intent.
type Action struct {
	Kind ActionKind
	// TargetID is the queue item involved (ActionReorder) or the module to
	// activate/deactivate/remove.
	TargetID string
	Library  models.WorkspaceModule
}

// ResolveDrop maps a drag source and the drop target's identity to an
// intent. targetID is ZoneActive, ZoneQueue, or a queue item id.
func ResolveDrop(src DragSource, targetID string) Action {
	if targetID == "" {
		return Action{Kind: ActionNone}
	}

	switch src.Kind {
	case SourceLibrary:
		if targetID == ZoneActive {
			return Action{Kind: ActionCreateAndActivate, Library: src.Library}
		}
		return Action{Kind: ActionCreate, Library: src.Library}

	case SourceQueued:
		switch targetID {
		case ZoneActive:
			return Action{Kind: ActionActivate, TargetID: src.ID}
		case ZoneQueue:
			return Action{Kind: ActionMoveToEnd, TargetID: src.ID}
		case src.ID:
			return Action{Kind: ActionNone}
		default:
			return Action{Kind: ActionReorder, TargetID: targetID}
		}

	case SourceActive:
		if targetID == ZoneActive {
			return Action{Kind: ActionNone}
		}
		return Action{Kind: ActionDeactivate, TargetID: src.ID}
	}
	return Action{Kind: ActionNone}
}

// Apply executes a resolved drop against the orchestrator.
func (o *Orchestrator) Apply(ctx context.Context, src DragSource, action Action) error {
	switch action.Kind {
	case ActionCreate:
		_, err := o.AddFromLibrary(ctx, action.Library, false)
		return err
	case ActionCreateAndActivate:
		_, err := o.AddFromLibrary(ctx, action.Library, true)
		return err
	case ActionActivate:
		return o.Activate(ctx, action.TargetID)
	case ActionDeactivate:
		return o.Deactivate(ctx, action.TargetID)
	case ActionReorder:
		o.ReorderQueue(src.ID, action.TargetID)
	case ActionMoveToEnd:
		o.MoveToQueueEnd(action.TargetID)
	}
	return nil
}

// Point is a pointer position in layout coordinates.
type Point struct {
	X, Y float64
}

// Rect is a drop target's bounding box.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Target is a registered drop target with its measured bounds.
type Target struct {
	ID   string
	Rect Rect
}

// ClassifyTarget picks the drop target under the pointer. Strict
// containment wins; only when no target contains the pointer does it fall
// back to nearest-center distance. This avoids ambiguous double-hits when
// zones overlap visually. The first containing target in registration order
// wins a containment tie.
func ClassifyTarget(p Point, targets []Target) (Target, bool) {
	for _, t := range targets {
		if t.Rect.contains(p) {
			return t, true
		}
	}

	best := Target{}
	bestDist := math.Inf(1)
	for _, t := range targets {
		c := t.Rect.center()
		d := math.Hypot(p.X-c.X, p.Y-c.Y)
		if d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
