package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
	"mirgo/internal/physics"
)

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.3 // units/sec
	SleepAngularThreshold  = 1.0 // deg/sec
	SleepTimeThreshold     = 0.3 // seconds of low velocity before sleeping
)

// Gravity is the downward acceleration applied to bodies with UseGravity.
var Gravity float32 = -9.81

// Rigidbody integrates velocity into its owner's position and bounces off
// a flat floor. Bodies that stay slow long enough go to sleep.
type Rigidbody struct {
	engine.BaseComponent
	Velocity        rl.Vector3
	AngularVelocity rl.Vector3 // degrees per second on each axis
	Mass            float32
	Bounciness      float32 // 0 = no bounce, 1 = perfect bounce
	Friction        float32 // 0 = ice, 1 = stops immediately
	AngularDamping  float32
	UseGravity      bool
	IsKinematic     bool
	CanSleep        bool
	FloorY          float32

	IsSleeping bool
	sleepTimer float32
}

func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		Mass:           1.0,
		Bounciness:     0.5,
		Friction:       0.1,
		AngularDamping: 0.98,
		UseGravity:     true,
		CanSleep:       true,
	}
}

func (r *Rigidbody) TypeName() string {
	return "Rigidbody"
}

func (r *Rigidbody) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Float("mass", &r.Mass).Range(0.001, 1000),
		engine.Float("bounciness", &r.Bounciness).Range(0, 1),
		engine.Float("friction", &r.Friction).Range(0, 1),
		engine.Float("angularDamping", &r.AngularDamping).Range(0, 1),
		engine.Bool("useGravity", &r.UseGravity),
		engine.Bool("isKinematic", &r.IsKinematic),
		engine.Bool("canSleep", &r.CanSleep),
		engine.Float("floorY", &r.FloorY),
		engine.Vector3("velocity", &r.Velocity).Tooltip("Initial velocity"),
		engine.Bool("sleeping", &r.IsSleeping).ReadOnly(),
	}
}

// Wake forces the rigidbody out of sleep.
func (r *Rigidbody) Wake() {
	r.IsSleeping = false
	r.sleepTimer = 0
}

// AddImpulse changes velocity by impulse/mass and wakes the body.
func (r *Rigidbody) AddImpulse(impulse rl.Vector3) {
	if r.IsKinematic || r.Mass <= 0 {
		return
	}
	r.Velocity = rl.Vector3Add(r.Velocity, rl.Vector3Scale(impulse, 1/r.Mass))
	r.Wake()
}

// TrySleep puts the body to sleep after SleepTimeThreshold seconds below both thresholds.
func (r *Rigidbody) TrySleep(deltaTime float32) {
	if !r.CanSleep || r.IsSleeping {
		return
	}

	speed := rl.Vector3Length(r.Velocity)
	angSpeed := rl.Vector3Length(r.AngularVelocity)

	if speed < SleepVelocityThreshold && angSpeed < SleepAngularThreshold {
		r.sleepTimer += deltaTime

		// extra damping near rest reduces jitter
		r.Velocity = rl.Vector3Scale(r.Velocity, 0.9)
		r.AngularVelocity = rl.Vector3Scale(r.AngularVelocity, 0.9)

		if r.sleepTimer >= SleepTimeThreshold {
			r.IsSleeping = true
			r.Velocity = rl.Vector3{}
			r.AngularVelocity = rl.Vector3{}
		}
	} else {
		r.sleepTimer = 0
	}
}

func (r *Rigidbody) Update(deltaTime float32) {
	g := r.GetGameObject()
	if g == nil || r.IsKinematic || r.IsSleeping {
		return
	}

	if r.UseGravity {
		r.Velocity.Y += Gravity * deltaTime
	}

	t := &g.Transform
	t.Position = rl.Vector3Add(t.Position, rl.Vector3Scale(r.Velocity, deltaTime))
	t.Rotation = rl.Vector3Add(t.Rotation, rl.Vector3Scale(r.AngularVelocity, deltaTime))
	r.AngularVelocity = rl.Vector3Scale(r.AngularVelocity, r.AngularDamping)

	grounded := r.resolveStatic(g)
	if r.resolveFloor(g) || grounded {
		r.TrySleep(deltaTime)
	}
	g.Scene().MarkBatchDirty(g.UID())
}

// resolveFloor keeps the body's bounds above FloorY. Reports whether it touched.
func (r *Rigidbody) resolveFloor(g *engine.GameObject) bool {
	bottom := g.WorldPosition().Y
	if box, ok := physics.BoundsOf(g); ok {
		bottom = box.Min.Y
	}
	if bottom > r.FloorY {
		return false
	}

	g.Transform.Position.Y += r.FloorY - bottom
	if r.Velocity.Y < 0 {
		r.Velocity.Y = -r.Velocity.Y * r.Bounciness
	}
	damp := 1 - r.Friction
	r.Velocity.X *= damp
	r.Velocity.Z *= damp
	return true
}

// resolveStatic pushes the body out of static nodes it overlaps. Reports
// whether one of them is holding it up.
func (r *Rigidbody) resolveStatic(g *engine.GameObject) bool {
	box, ok := physics.BoundsOf(g)
	if !ok {
		return false
	}
	grounded := false
	for _, other := range physics.Overlapping(g.Scene(), box) {
		if !other.Static || other == g || isDescendant(other, g) {
			continue
		}
		obox, ok := physics.BoundsOf(other)
		if !ok {
			continue
		}
		push := box.Resolve(obox)
		if push == (rl.Vector3{}) {
			continue
		}
		g.Transform.SetWorldPosition(rl.Vector3Add(g.WorldPosition(), push))
		box.Min = rl.Vector3Add(box.Min, push)
		box.Max = rl.Vector3Add(box.Max, push)

		r.bounce(&r.Velocity.X, push.X)
		r.bounce(&r.Velocity.Y, push.Y)
		r.bounce(&r.Velocity.Z, push.Z)
		if push.Y > 0 {
			grounded = true
			damp := 1 - r.Friction
			r.Velocity.X *= damp
			r.Velocity.Z *= damp
		}
	}
	return grounded
}

// bounce reflects one velocity component moving against push.
func (r *Rigidbody) bounce(v *float32, push float32) {
	if push*(*v) < 0 {
		*v = -*v * r.Bounciness
	}
}

func isDescendant(g, ancestor *engine.GameObject) bool {
	for p := g.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}
