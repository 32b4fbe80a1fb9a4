package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdstage/live/internal/models"
)

func TestResolveDropLibrarySource(t *testing.T) {
	lib := models.WorkspaceModule{ID: "lib-1", Type: models.ModuleQuestions}
	src := DragSource{Kind: SourceLibrary, ID: "lib-1", Library: lib}

	assert.Equal(t, ActionCreateAndActivate, ResolveDrop(src, ZoneActive).Kind)
	assert.Equal(t, ActionCreate, ResolveDrop(src, ZoneQueue).Kind)
	assert.Equal(t, ActionCreate, ResolveDrop(src, "sm-b").Kind)
}

func TestResolveDropQueuedSource(t *testing.T) {
	src := DragSource{Kind: SourceQueued, ID: "sm-a"}

	assert.Equal(t, Action{Kind: ActionActivate, TargetID: "sm-a"}, ResolveDrop(src, ZoneActive))
	assert.Equal(t, Action{Kind: ActionMoveToEnd, TargetID: "sm-a"}, ResolveDrop(src, ZoneQueue))
	assert.Equal(t, Action{Kind: ActionReorder, TargetID: "sm-b"}, ResolveDrop(src, "sm-b"))
	assert.Equal(t, ActionNone, ResolveDrop(src, "sm-a").Kind, "dropping on itself is a no-op")
	assert.Equal(t, ActionNone, ResolveDrop(src, "").Kind)
}

func TestResolveDropActiveSource(t *testing.T) {
	src := DragSource{Kind: SourceActive, ID: "sm-x"}

	assert.Equal(t, ActionNone, ResolveDrop(src, ZoneActive).Kind)
	assert.Equal(t, Action{Kind: ActionDeactivate, TargetID: "sm-x"}, ResolveDrop(src, ZoneQueue))
	assert.Equal(t, Action{Kind: ActionDeactivate, TargetID: "sm-x"}, ResolveDrop(src, "sm-b"))
}

func TestApplyLibraryDropOnActiveZone(t *testing.T) {
	api := seededAPI()
	o := newOrchestrator(t, api)

	lib := models.WorkspaceModule{ID: "lib-1", Type: models.ModuleQuestions}
	src := DragSource{Kind: SourceLibrary, ID: "lib-1", Library: lib}
	require.NoError(t, o.Apply(context.Background(), src, ResolveDrop(src, ZoneActive)))

	// Exactly one create followed by exactly one activate.
	require.Len(t, api.calls, 2)
	assert.Equal(t, "create:lib-1", api.calls[0])
	assert.Contains(t, api.calls[1], "activate:")
	assertInvariants(t, o)
}

func TestApplyLibraryDropOnQueueZone(t *testing.T) {
	api := seededAPI()
	o := newOrchestrator(t, api)

	lib := models.WorkspaceModule{ID: "lib-1", Type: models.ModuleQuestions}
	src := DragSource{Kind: SourceLibrary, ID: "lib-1", Library: lib}
	require.NoError(t, o.Apply(context.Background(), src, ResolveDrop(src, ZoneQueue)))

	assert.Equal(t, []string{"create:lib-1"}, api.calls, "one create, zero activates")
	assertInvariants(t, o)
}

func TestApplyReorderDrop(t *testing.T) {
	api := seededAPI()
	o := newOrchestrator(t, api)

	src := DragSource{Kind: SourceQueued, ID: "sm-c"}
	require.NoError(t, o.Apply(context.Background(), src, ResolveDrop(src, "sm-a")))

	assert.Equal(t, []string{"sm-c", "sm-a", "sm-b"}, moduleIDs(o.QueueModules()))
	assert.Empty(t, api.calls)
}

func TestClassifyTargetPrefersContainment(t *testing.T) {
	targets := []Target{
		{ID: ZoneActive, Rect: Rect{X: 0, Y: 0, W: 100, H: 50}},
		{ID: ZoneQueue, Rect: Rect{X: 0, Y: 60, W: 100, H: 200}},
		{ID: "sm-a", Rect: Rect{X: 10, Y: 70, W: 80, H: 30}},
	}

	// The pointer is inside both the queue zone and the item; the first
	// containing target in registration order wins, so items must be
	// registered before their enclosing zone by callers that care. Here the
	// zone comes first and wins.
	hit, ok := ClassifyTarget(Point{X: 50, Y: 80}, targets)
	require.True(t, ok)
	assert.Equal(t, ZoneQueue, hit.ID)

	hit, ok = ClassifyTarget(Point{X: 50, Y: 25}, targets)
	require.True(t, ok)
	assert.Equal(t, ZoneActive, hit.ID)
}

func TestClassifyTargetFallsBackToNearestCenter(t *testing.T) {
	targets := []Target{
		{ID: ZoneActive, Rect: Rect{X: 0, Y: 0, W: 100, H: 50}},   // center (50, 25)
		{ID: ZoneQueue, Rect: Rect{X: 0, Y: 100, W: 100, H: 100}}, // center (50, 150)
	}

	// The gap between the zones contains no target; nearest center wins.
	hit, ok := ClassifyTarget(Point{X: 50, Y: 60}, targets)
	require.True(t, ok)
	assert.Equal(t, ZoneActive, hit.ID)

	hit, ok = ClassifyTarget(Point{X: 50, Y: 95}, targets)
	require.True(t, ok)
	assert.Equal(t, ZoneQueue, hit.ID)
}

func TestClassifyTargetNoTargets(t *testing.T) {
	_, ok := ClassifyTarget(Point{X: 1, Y: 1}, nil)
	assert.False(t, ok)
}
