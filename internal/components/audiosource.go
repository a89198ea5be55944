package components

import (
	"mirgo/internal/assets"
	"mirgo/internal/audio"
	"mirgo/internal/engine"
)

// AudioSource plays an audio clip through the installed mixer, positioned at
// its owner. A clip that is still loading is retried every frame.
type AudioSource struct {
	engine.BaseComponent

	Clip        engine.AssetRef
	Volume      float32
	MaxDistance float32
	Loop        bool
	PlayOnStart bool
	Spatial     bool

	wantPlay bool
	playing  bool
}

func NewAudioSource() *AudioSource {
	return &AudioSource{
		Volume:      1.0,
		MaxDistance: 50.0,
		Spatial:     true,
	}
}

func (a *AudioSource) TypeName() string {
	return "AudioSource"
}

func (a *AudioSource) Describe() []engine.Entry {
	return []engine.Entry{
		engine.AssetField("clip", &a.Clip),
		engine.Float("volume", &a.Volume).Range(0, 1).Notify(a.configure),
		engine.Float("maxDistance", &a.MaxDistance).Range(0, 500).Notify(a.configure),
		engine.Bool("loop", &a.Loop),
		engine.Bool("playOnStart", &a.PlayOnStart),
		engine.Bool("spatial", &a.Spatial).Notify(a.configure),
	}
}

func (a *AudioSource) Start() {
	if a.PlayOnStart {
		a.Play()
	}
}

func (a *AudioSource) Update(deltaTime float32) {
	if a.wantPlay && !a.playing {
		a.tryPlay()
	}
	if !a.playing || mixer == nil {
		return
	}
	if !mixer.IsPlaying(a.UID()) {
		a.playing = false
		return
	}
	a.configure()
}

// Play starts the clip, or queues it until the clip has loaded.
func (a *AudioSource) Play() {
	a.wantPlay = true
	a.tryPlay()
}

func (a *AudioSource) Stop() {
	a.wantPlay = false
	a.playing = false
	if mixer != nil {
		mixer.Stop(a.UID())
	}
}

func (a *AudioSource) IsPlaying() bool {
	return a.playing
}

// Pending reports whether playback is waiting on the clip.
func (a *AudioSource) Pending() bool {
	return a.wantPlay && !a.playing
}

func (a *AudioSource) OnDetach() {
	a.Stop()
}

type requester interface {
	Request(id engine.ID) error
}

func (a *AudioSource) tryPlay() {
	g := a.GetGameObject()
	if mixer == nil || g == nil {
		return
	}
	resolver := g.Scene().Assets()
	clip, ok := engine.ResolveAsset[*assets.AudioClip](resolver, a.Clip)
	if !ok {
		return
	}
	if clip.Err() != nil {
		// broken clips are not retried
		a.wantPlay = false
		return
	}
	if !clip.Ready() || clip.Buffer == nil {
		if r, ok := resolver.(requester); ok {
			r.Request(a.Clip.ID)
		}
		return
	}
	mixer.Play(a.UID(), clip.Buffer, a.Loop)
	a.playing = true
	a.wantPlay = false
	a.configure()
}

func (a *AudioSource) configure() {
	g := a.GetGameObject()
	if mixer == nil || g == nil {
		return
	}
	pos := g.WorldPosition()
	mixer.Configure(a.UID(), func(src *audio.Source) {
		src.Position = pos
		src.Volume = a.Volume
		src.MaxDistance = a.MaxDistance
		src.Spatial = a.Spatial
	})
}
