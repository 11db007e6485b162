// Package physics owns the simulation: an arena of boxes addressed by
// handle, the per-tick driver, collision events, raycasts and the snapshot
// published for readers on other goroutines.
package physics

import (
	"cmp"
	"slices"
	"sync"

	"rigidbox/internal/body"
	"rigidbox/internal/collider"
	"rigidbox/internal/engine"
	"rigidbox/internal/logging"
	"rigidbox/internal/resolver"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Pair identifies two colliders in contact, lower handle first.
type Pair struct {
	A, B engine.Handle
}

// MakePair orders a and b so the same two handles always give the same Pair.
func MakePair(a, b engine.Handle) Pair {
	if a > b {
		return Pair{A: b, B: a}
	}
	return Pair{A: a, B: b}
}

func comparePairs(x, y Pair) int {
	if c := cmp.Compare(x.A, y.A); c != 0 {
		return c
	}
	return cmp.Compare(x.B, y.B)
}

// BoxDef describes a box to add to the world.
type BoxDef struct {
	Name        string
	Position    rl.Vector3
	Orientation rl.Quaternion // zero value means identity
	Scale       rl.Vector3    // full extents; zero value means a unit cube
	State       collider.State

	// Mass of the box. Zero (or a Static state) makes it immovable.
	Mass float32

	Velocity        rl.Vector3
	AngularVelocity rl.Vector3
	Acceleration    rl.Vector3 // base acceleration, usually gravity

	// Material overrides body.DefaultMaterial when set.
	Material *body.Material

	Resting  bool
	Platform bool
}

type entry struct {
	name     string
	body     *body.RigidBody
	collider *collider.Collider
}

// arena resolves handles without taking the world lock. It is only used
// from code that already holds it.
type arena map[engine.Handle]*entry

func (a arena) Collider(h engine.Handle) (*collider.Collider, bool) {
	e, ok := a[h]
	if !ok {
		return nil, false
	}
	return e.collider, true
}

// World is safe for concurrent use. Step, the mutators and Update serialise
// on one mutex; Snapshot never blocks.
//
// Event listeners run on the stepping goroutine after the world lock is
// released, so they may call back into the World. Register them before the
// first Step.
type World struct {
	mu       sync.Mutex
	logger   logging.Logger
	handles  engine.HandleAllocator
	entries  arena
	order    []engine.Handle
	scheme   body.Scheme
	resolver *resolver.Resolver

	active  map[Pair]struct{}
	pending []func()

	tick     atomic.Uint64
	snapshot atomic.Pointer[Snapshot]

	OnCollisionEnter engine.EventWithArg[Pair]
	OnCollisionExit  engine.EventWithArg[Pair]
	OnContact        engine.EventWithArg[collider.Contact]
}

// New returns an empty world using semi-implicit Euler and every resolver
// stage. A nil logger discards output.
func New(logger logging.Logger) *World {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	w := &World{
		logger:   logger,
		entries:  make(arena),
		scheme:   body.SemiImplicitEuler,
		resolver: resolver.New(),
		active:   make(map[Pair]struct{}),
	}
	w.snapshot.Store(&Snapshot{})
	return w
}

func (w *World) Scheme() body.Scheme {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scheme
}

func (w *World) SetScheme(s body.Scheme) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s != w.scheme {
		w.logger.Infow("integration scheme changed", "from", w.scheme, "to", s)
	}
	w.scheme = s
}

func (w *World) Stages() resolver.Stages {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolver.Stages
}

func (w *World) SetStages(s resolver.Stages) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resolver.Stages = s
}

// AddBox creates a body and its box collider under a fresh handle.
func (w *World) AddBox(def BoxDef) engine.Handle {
	if def.Scale == (rl.Vector3{}) {
		def.Scale = rl.Vector3{X: 1, Y: 1, Z: 1}
	}

	rb := body.NewRigidBody()
	rb.SetPosition(def.Position)
	rb.SetOrientation(def.Orientation)
	rb.SetVelocity(def.Velocity)
	rb.SetAngularVelocity(def.AngularVelocity)
	rb.SetAcceleration(def.Acceleration)
	if def.Material != nil {
		rb.Material = *def.Material
	}
	rb.Resting = def.Resting
	rb.Platform = def.Platform
	if def.State == collider.Static {
		rb.SetInverseMass(0)
	} else {
		rb.SetMass(def.Mass)
	}
	rb.ComputeInverseInertiaTensorBox(def.Scale)

	w.mu.Lock()
	h := w.handles.Next()
	w.entries[h] = &entry{
		name:     def.Name,
		body:     rb,
		collider: collider.NewBox(h, rb, def.Scale, def.State),
	}
	w.order = append(w.order, h)
	n := len(w.order)
	w.mu.Unlock()

	w.logger.Infow("body added", "handle", h, "name", def.Name, "state", def.State, "bodies", n)
	return h
}

// Remove deletes the body and collider behind h. Triggers that were
// tracking h fire their exit callback on the next Step; associations that
// never entered are dropped at once.
func (w *World) Remove(h engine.Handle) bool {
	w.mu.Lock()
	e, ok := w.entries[h]
	if ok {
		delete(w.entries, h)
		if i, found := slices.BinarySearch(w.order, h); found {
			w.order = slices.Delete(w.order, i, i+1)
		}
		for _, other := range w.entries {
			other.collider.DropTarget(h)
		}
	}
	n := len(w.order)
	w.mu.Unlock()

	if ok {
		w.logger.Infow("body removed", "handle", h, "name", e.name, "bodies", n)
	}
	return ok
}

// Clear removes every body. Handles keep counting up.
func (w *World) Clear() {
	w.mu.Lock()
	n := len(w.order)
	w.entries = make(arena)
	w.order = nil
	w.active = make(map[Pair]struct{})
	w.pending = nil
	w.mu.Unlock()

	w.logger.Infow("world cleared", "removed", n)
}

func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Handles returns every live handle in ascending order.
func (w *World) Handles() []engine.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.order)
}

// Body returns the live body behind h. It must only be touched from the
// stepping goroutine or inside Update.
func (w *World) Body(h engine.Handle) (*body.RigidBody, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[h]
	if !ok {
		return nil, false
	}
	return e.body, true
}

// Collider returns the live collider behind h, with the same caveats as Body.
func (w *World) Collider(h engine.Handle) (*collider.Collider, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries.Collider(h)
}

// Name returns the name given at AddBox.
func (w *World) Name(h engine.Handle) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[h]
	if !ok {
		return "", false
	}
	return e.name, true
}

// Def describes the current state of h as a BoxDef, suitable for AddBox.
func (w *World) Def(h engine.Handle) (BoxDef, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[h]
	if !ok {
		return BoxDef{}, false
	}
	rb := e.body
	mat := rb.Material
	return BoxDef{
		Name:            e.name,
		Position:        rb.Position(),
		Orientation:     rb.Orientation(),
		Scale:           e.collider.Scale(),
		State:           e.collider.State(),
		Mass:            rb.Mass(),
		Velocity:        rb.Velocity(),
		AngularVelocity: rb.AngularVelocity(),
		Acceleration:    rb.Acceleration(),
		Material:        &mat,
		Resting:         rb.Resting,
		Platform:        rb.Platform,
	}, true
}

// Update runs fn against the body behind h while holding the world lock.
// It reports whether h exists.
func (w *World) Update(h engine.Handle, fn func(*body.RigidBody)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[h]
	if !ok {
		return false
	}
	fn(e.body)
	return true
}

// SetTriggerTarget makes trigger report target entering and leaving it.
// Callbacks run after the Step that detected the transition. It reports
// whether both handles exist.
func (w *World) SetTriggerTarget(trigger, target engine.Handle, onEnter, onExit collider.TriggerFunc) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	tr, ok := w.entries[trigger]
	if !ok {
		return false
	}
	if _, ok := w.entries[target]; !ok {
		return false
	}
	tr.collider.SetTriggerTarget(target, w.deferTrigger("enter", onEnter), w.deferTrigger("exit", onExit))
	return true
}

// TriggerTargets lists the targets trigger is still tracking, in handle
// order. Targets drop out once they have left.
func (w *World) TriggerTargets(trigger engine.Handle) []engine.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[trigger]
	if !ok {
		return nil
	}
	return e.collider.TriggerTargets()
}

// deferTrigger queues fn until the lock is released. Called with w.mu held.
func (w *World) deferTrigger(what string, fn collider.TriggerFunc) collider.TriggerFunc {
	return func(trigger, target engine.Handle) {
		w.logger.Debugw("trigger "+what, "trigger", trigger, "target", target)
		if fn != nil {
			w.pending = append(w.pending, func() { fn(trigger, target) })
		}
	}
}

// Step advances the world by dt: trigger exit sweep and integration per
// body, the O(n^2) narrow phase, contact resolution, then snapshot
// publication. Events fire after the lock is released.
func (w *World) Step(dt float32) {
	w.mu.Lock()
	tick := w.tick.Load() + 1

	w.integrate(dt)
	contacts := w.detect()
	w.resolver.ResolveContacts(contacts, dt)
	entered, exited := w.diffPairs(contacts)
	w.publish(tick, dt, len(contacts))
	w.tick.Store(tick)

	pending := w.pending
	w.pending = nil
	w.mu.Unlock()

	if len(contacts) > 0 {
		w.logger.Debugw("step", "tick", tick, "contacts", len(contacts), "entered", len(entered), "exited", len(exited))
	}

	for _, fn := range pending {
		fn()
	}
	for _, c := range contacts {
		w.OnContact.Invoke(c)
	}
	for _, p := range entered {
		w.OnCollisionEnter.Invoke(p)
	}
	for _, p := range exited {
		w.OnCollisionExit.Invoke(p)
	}
}

func (w *World) integrate(dt float32) {
	for _, h := range w.order {
		e := w.entries[h]
		e.collider.Update(dt, w.entries)
		if e.body.Resting {
			continue
		}
		e.body.Integrate(dt, w.scheme)
	}
}

// detect tests every unordered pair once, in handle order.
func (w *World) detect() []collider.Contact {
	cols := make([]*collider.Collider, len(w.order))
	for i, h := range w.order {
		cols[i] = w.entries[h].collider
	}

	var contacts []collider.Contact
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			c, ok := collider.CheckCollision(cols[i], cols[j])
			if !ok {
				continue
			}
			cols[i].RegisterCollision(cols[j])
			contacts = append(contacts, c)
		}
	}
	return contacts
}

// diffPairs compares this tick's solid contacts with the previous tick's.
func (w *World) diffPairs(contacts []collider.Contact) (entered, exited []Pair) {
	current := make(map[Pair]struct{}, len(contacts))
	for _, c := range contacts {
		if c.IsTrigger() {
			continue
		}
		current[MakePair(c.Handles())] = struct{}{}
	}

	for p := range current {
		if _, ok := w.active[p]; !ok {
			entered = append(entered, p)
		}
	}
	for p := range w.active {
		if _, ok := current[p]; !ok {
			exited = append(exited, p)
		}
	}
	slices.SortFunc(entered, comparePairs)
	slices.SortFunc(exited, comparePairs)

	w.active = current
	return entered, exited
}

// Touching reports whether a and b were in solid contact on the last Step.
func (w *World) Touching(a, b engine.Handle) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.active[MakePair(a, b)]
	return ok
}
