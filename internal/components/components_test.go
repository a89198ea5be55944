package components

import (
	"encoding/binary"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirgo/internal/assets"
	"mirgo/internal/audio"
	"mirgo/internal/engine"
	"mirgo/internal/world"
)

// recorder collects trigger callbacks.
type recorder struct {
	engine.BaseComponent
	entered []string
	exited  int
}

func (r *recorder) TypeName() string { return "Recorder" }

func (r *recorder) OnTriggerEnter(other *engine.GameObject) {
	r.entered = append(r.entered, other.Name)
}

func (r *recorder) OnTriggerExit(other *engine.GameObject) { r.exited++ }

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	r := engine.NewRegistry()
	Register(r)
	r.Register("Recorder", func() engine.Component { return &recorder{} })
	return world.New("components-test", r, nil)
}

func spawn[T engine.Component](t *testing.T, w *world.World, name, typeName string) (*engine.GameObject, T) {
	t.Helper()
	g, err := w.Instantiate(name, nil, typeName)
	require.NoError(t, err)
	c := engine.GetComponent[T](g)
	require.NotNil(t, c)
	return g, c
}

// monoWav builds a 16-bit PCM mono file with n silent samples.
func monoWav(rate, n int) []byte {
	dataLen := n * 2
	b := make([]byte, 0, 44+dataLen)
	b = append(b, "RIFF"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(36+dataLen))
	b = append(b, "WAVEfmt "...)
	b = binary.LittleEndian.AppendUint32(b, 16)
	b = binary.LittleEndian.AppendUint16(b, 1)
	b = binary.LittleEndian.AppendUint16(b, 1)
	b = binary.LittleEndian.AppendUint32(b, uint32(rate))
	b = binary.LittleEndian.AppendUint32(b, uint32(rate*2))
	b = binary.LittleEndian.AppendUint16(b, 2)
	b = binary.LittleEndian.AppendUint16(b, 16)
	b = append(b, "data"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(dataLen))
	return append(b, make([]byte, dataLen)...)
}

func TestRegisterAddsBuiltins(t *testing.T) {
	r := engine.NewRegistry()
	Register(r)
	for _, name := range []string{"PointLight", "Camera", "MeshRenderer", "Rigidbody", "Rotator",
		"Follower", "AudioSource", "TriggerRelay", "CurveAnimator"} {
		c, ok := r.Create(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.TypeName())
	}
	assert.True(t, engine.DefaultRegistry.Has("MeshRenderer"))
}

func TestPointLightMarksBatchDirty(t *testing.T) {
	w := newTestWorld(t)
	g, light := spawn[*PointLight](t, w, "Lamp", "PointLight")
	w.Batches.Reset()

	e, ok := engine.Find(light.Describe(), "intensity")
	require.True(t, ok)
	e.Changed()

	assert.True(t, w.Batches.IsDirty(g.UID()))
	light.Intensity = 2
	assert.InDelta(t, 2.0, light.GetColorFloat()[0], 1e-6)
}

func TestPrimaryCamera(t *testing.T) {
	w := newTestWorld(t)
	_, first := spawn[*Camera](t, w, "Cam1", "Camera")
	_, second := spawn[*Camera](t, w, "Cam2", "Camera")
	first.Primary = false

	assert.Same(t, second, PrimaryCamera(w.Scene))

	second.SetEnabled(false)
	assert.Nil(t, PrimaryCamera(w.Scene))
}

func TestCameraLooksDownNegativeZ(t *testing.T) {
	w := newTestWorld(t)
	g, cam := spawn[*Camera](t, w, "Cam", "Camera")
	g.Transform.Position = rl.Vector3{Y: 3}

	c3d := cam.Camera3D()
	assert.Equal(t, float32(3), c3d.Position.Y)
	assert.InDelta(t, -1.0, c3d.Target.Z, 1e-5)
}

func TestMeshRendererBounds(t *testing.T) {
	w := newTestWorld(t)
	g, mesh := spawn[*MeshRenderer](t, w, "Box", "MeshRenderer")
	g.Transform.Position = rl.Vector3{X: 1}
	g.Transform.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}

	box, ok := mesh.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 0.0, box.Min.X, 1e-5)
	assert.InDelta(t, 2.0, box.Max.X, 1e-5)

	mesh.MeshType = MeshPlane
	box, _ = mesh.Bounds()
	assert.Less(t, box.Max.Y-box.Min.Y, float32(0.1))
}

func TestMeshRendererTintUsesMaterial(t *testing.T) {
	w := newTestWorld(t)
	fs := assets.NewMemFS()
	fs.WriteFile("materials/red.material.yaml", []byte("name: Red\ncolor: Red\n"))
	db := assets.NewDatabase(fs, 1, nil)
	w.SetAssets(db)

	_, mesh := spawn[*MeshRenderer](t, w, "Box", "MeshRenderer")
	assert.Equal(t, rl.White, mesh.Tint(), "no material")

	mesh.Material.ID = db.Import("materials/red.material.yaml")
	assert.Equal(t, rl.White, mesh.Tint(), "material not loaded yet")

	require.NoError(t, db.Request(mesh.Material.ID))
	db.Wait()
	assert.Equal(t, rl.Red, mesh.Tint())
}

func TestRigidbodyFallsToFloor(t *testing.T) {
	w := newTestWorld(t)
	g, err := w.Instantiate("Crate", nil, "MeshRenderer", "Rigidbody")
	require.NoError(t, err)
	g.Transform.Position.Y = 5

	for i := 0; i < 200; i++ {
		w.Update(0.02, true)
		require.GreaterOrEqual(t, g.Transform.Position.Y, float32(0.5)-1e-4, "frame %d", i)
	}
	assert.Less(t, g.Transform.Position.Y, float32(5))
}

func TestRigidbodyLandsOnStaticNode(t *testing.T) {
	w := newTestWorld(t)
	ledge, err := w.Instantiate("Ledge", nil, "MeshRenderer")
	require.NoError(t, err)
	ledge.Static = true
	ledge.Transform.Position.Y = 3
	engine.GetComponent[*MeshRenderer](ledge).Size = rl.Vector3{X: 4, Y: 1, Z: 4}

	crate, err := w.Instantiate("Crate", nil, "MeshRenderer", "Rigidbody")
	require.NoError(t, err)
	crate.Transform.Position.Y = 6

	for i := 0; i < 200; i++ {
		w.Update(0.02, true)
		require.GreaterOrEqual(t, crate.Transform.Position.Y, float32(4)-1e-3, "frame %d", i)
	}
	assert.InDelta(t, 4.0, crate.Transform.Position.Y, 0.05)
	assert.Equal(t, float32(3), ledge.Transform.Position.Y, "static nodes don't move")
}

func TestRigidbodyNotSimulatedWhenStopped(t *testing.T) {
	w := newTestWorld(t)
	g, _ := spawn[*Rigidbody](t, w, "Crate", "Rigidbody")
	g.Transform.Position.Y = 5

	w.Update(0.1, false)

	assert.Equal(t, float32(5), g.Transform.Position.Y)
}

func TestRigidbodySleepAndWake(t *testing.T) {
	rb := NewRigidbody()

	rb.TrySleep(0.1)
	assert.False(t, rb.IsSleeping)
	for i := 0; i < 3; i++ {
		rb.TrySleep(0.1)
	}
	assert.True(t, rb.IsSleeping)

	rb.AddImpulse(rl.Vector3{X: 2})
	assert.False(t, rb.IsSleeping)
	assert.Equal(t, float32(2), rb.Velocity.X)

	rb.TrySleep(0.5)
	assert.False(t, rb.IsSleeping, "fast bodies stay awake")
}

func TestRotatorWrapsAngle(t *testing.T) {
	w := newTestWorld(t)
	g, rot := spawn[*Rotator](t, w, "Fan", "Rotator")
	rot.Speed = 90

	for i := 0; i < 5; i++ {
		w.Update(1, true)
	}

	assert.InDelta(t, 90.0, g.Transform.Rotation.Y, 1e-4)
	assert.Equal(t, float32(0), g.Transform.Rotation.X)
}

func TestFollowerSnapsWithoutSmoothing(t *testing.T) {
	w := newTestWorld(t)
	target, err := w.Instantiate("Target", nil)
	require.NoError(t, err)
	target.Transform.Position = rl.Vector3{X: 4}
	g, f := spawn[*Follower](t, w, "Cam", "Follower")
	f.Target.Set(target)
	f.Offset = rl.Vector3{Y: 1}
	f.Smoothing = 0

	w.Update(0.1, true)

	assert.Equal(t, rl.Vector3{X: 4, Y: 1}, g.WorldPosition())

	w.Scene.Destroy(target)
	w.Update(0.1, true)
	assert.Equal(t, rl.Vector3{X: 4, Y: 1}, g.WorldPosition(), "stale target leaves the node alone")
}

func TestCurveAnimatorSample(t *testing.T) {
	c := NewCurveAnimator()
	c.Keys = []Keyframe{
		{Time: 0},
		{Time: 1, Offset: rl.Vector3{X: 10}},
		{Time: 2, Offset: rl.Vector3{X: 10, Y: 4}},
	}

	assert.InDelta(t, 5.0, c.Sample(0.5).Offset.X, 1e-5)
	assert.InDelta(t, 2.0, c.Sample(1.5).Offset.Y, 1e-5)
	assert.Equal(t, c.Keys[2].Offset, c.Sample(9).Offset)
	assert.Equal(t, float32(2), c.Duration())
}

func TestCurveAnimatorMovesFromStart(t *testing.T) {
	w := newTestWorld(t)
	g, c := spawn[*CurveAnimator](t, w, "Platform", "CurveAnimator")
	g.Transform.Position = rl.Vector3{Y: 1}
	c.Keys = []Keyframe{{Time: 0}, {Time: 2, Offset: rl.Vector3{X: 4}}}

	w.Update(0.5, true)

	assert.InDelta(t, 1.0, g.Transform.Position.X, 1e-5)
	assert.InDelta(t, 1.0, g.Transform.Position.Y, 1e-5)
}

func TestCurveAnimatorKeysAreDescribed(t *testing.T) {
	c := NewCurveAnimator()
	e, ok := engine.Find(c.Describe(), "keys")
	require.True(t, ok)
	list := e.Ref.(*engine.ListRef)

	list.Resize(2)
	require.Len(t, c.Keys, 2)
	elem := list.Elem(1)
	assert.Equal(t, engine.KindObject, elem.Kind())
}

func TestTriggerRelayEnterExit(t *testing.T) {
	w := newTestWorld(t)
	zone, relay := spawn[*TriggerRelay](t, w, "Zone", "TriggerRelay")
	_, rec := spawn[*recorder](t, w, "Listener", "Recorder")
	relay.Targets = []engine.ComponentRef{{}}
	relay.Targets[0].Set(rec)
	relay.Tag = "player"

	player, _ := spawn[*MeshRenderer](t, w, "Player", "MeshRenderer")
	player.Tags = []string{"player"}
	player.Transform.Position = rl.Vector3{X: 10}
	rock, _ := spawn[*MeshRenderer](t, w, "Rock", "MeshRenderer")
	rock.Transform.Position = zone.Transform.Position

	w.Update(0.1, true)
	assert.Empty(t, rec.entered, "rock has no tag, player is far")

	player.Transform.Position = rl.Vector3{X: 1}
	w.Update(0.1, true)
	w.Update(0.1, true)
	assert.Equal(t, []string{"Player"}, rec.entered)
	assert.True(t, relay.Inside(player.UID()))

	player.Transform.Position = rl.Vector3{X: 10}
	w.Update(0.1, true)
	assert.Equal(t, 1, rec.exited)
	assert.False(t, relay.Inside(player.UID()))
}

func TestAudioSourceWaitsForClip(t *testing.T) {
	m := audio.NewMixer(8000)
	m.SetPlayMode(true)
	SetMixer(m)
	defer SetMixer(nil)

	w := newTestWorld(t)
	fs := assets.NewMemFS()
	fs.WriteFile("sfx/hit.wav", monoWav(8000, 800))
	db := assets.NewDatabase(fs, 1, nil)
	w.SetAssets(db)

	g, err := w.Instantiate("Speaker", nil)
	require.NoError(t, err)
	c, err := w.AddComponent(g, "AudioSource")
	require.NoError(t, err)
	src := c.(*AudioSource)
	src.Clip.ID = db.Import("sfx/hit.wav")
	src.PlayOnStart = true

	w.Update(0.016, true)
	assert.True(t, src.Pending())
	assert.False(t, m.IsPlaying(src.UID()))

	db.Wait()
	w.Update(0.016, true)
	assert.True(t, src.IsPlaying())
	assert.True(t, m.IsPlaying(src.UID()))

	w.Scene.RemoveComponent(g, src)
	w.Scene.FlushDeletions()
	assert.Equal(t, 0, m.Len())
}
