package assets

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"gopkg.in/yaml.v3"

	"mirgo/internal/engine"
	"mirgo/internal/serial"
)

// Kind selects the decoder for a file.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAudio
	KindTexture
	KindMaterial
	KindScript
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindTexture:
		return "texture"
	case KindMaterial:
		return "material"
	case KindScript:
		return "script"
	}
	return "unknown"
}

// KindOf picks the asset kind from the file name.
func KindOf(path string) Kind {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".material.yaml"), strings.HasSuffix(lower, ".mat"):
		return KindMaterial
	}
	switch filepath.Ext(lower) {
	case ".wav":
		return KindAudio
	case ".png", ".jpg", ".jpeg", ".bmp", ".tga":
		return KindTexture
	case ".lua":
		return KindScript
	}
	return KindUnknown
}

// asset is the main-thread side of a loaded file. finalize runs on the main
// thread during Flush with the worker's decode result.
type asset interface {
	engine.Asset
	header() *Header
	finalize(decoded any)
}

// Header holds what every asset has in common.
type Header struct {
	id    engine.ID
	path  string
	kind  Kind
	ready bool
	err   error
}

func (h *Header) AssetID() engine.ID { return h.id }
func (h *Header) Path() string       { return h.path }
func (h *Header) Ready() bool        { return h.ready }
func (h *Header) Kind() Kind         { return h.kind }

// Err returns the decode error of the last load, if any.
func (h *Header) Err() error { return h.err }

func (h *Header) header() *Header { return h }

// AudioClip is a decoded WAV file.
type AudioClip struct {
	Header
	SampleRate int
	Channels   int
	Samples    int
	Duration   time.Duration
	// Buffer holds the decoded frames for playback.
	Buffer *beep.Buffer
}

type clipInfo struct {
	rate, channels, samples int
	duration                time.Duration
	buffer                  *beep.Buffer
}

func decodeAudio(data []byte) (any, error) {
	stream, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer stream.Close()
	n := stream.Len()
	buf := beep.NewBuffer(format)
	buf.Append(stream)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	return clipInfo{
		rate:     int(format.SampleRate),
		channels: format.NumChannels,
		samples:  n,
		duration: format.SampleRate.D(n),
		buffer:   buf,
	}, nil
}

func (a *AudioClip) finalize(decoded any) {
	info := decoded.(clipInfo)
	a.SampleRate = info.rate
	a.Channels = info.channels
	a.Samples = info.samples
	a.Duration = info.duration
	a.Buffer = info.buffer
}

// Texture holds a CPU-side decoded image. Uploading to the GPU is the renderer's job.
type Texture struct {
	Header
	Width  int32
	Height int32
	Image  *rl.Image
}

func decodeTexture(path string) func([]byte) (any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	return func(data []byte) (any, error) {
		img := rl.LoadImageFromMemory(ext, data, int32(len(data)))
		if img == nil || img.Data == nil {
			return nil, fmt.Errorf("decode image %s: unsupported or corrupt", ext)
		}
		return img, nil
	}
}

func (t *Texture) finalize(decoded any) {
	if t.Image != nil {
		rl.UnloadImage(t.Image)
	}
	t.Image = decoded.(*rl.Image)
	t.Width = t.Image.Width
	t.Height = t.Image.Height
}

func (t *Texture) unload() {
	if t.Image != nil {
		rl.UnloadImage(t.Image)
		t.Image = nil
	}
}

// Material defines surface properties for rendering.
type Material struct {
	Header
	Name      string
	Color     rl.Color
	Metallic  float32
	Roughness float32
	Emissive  float32
}

func (m *Material) Describe() []engine.Entry {
	return []engine.Entry{
		engine.String("name", &m.Name),
		engine.Color("color", &m.Color),
		engine.Float("metallic", &m.Metallic).Range(0, 1),
		engine.Float("roughness", &m.Roughness).Range(0, 1),
		engine.Float("emissive", &m.Emissive).Range(0, 10),
	}
}

func defaultMaterial() Material {
	return Material{Name: "default", Color: rl.White, Roughness: 0.5}
}

func decodeMaterial(data []byte) (any, error) {
	root, err := serial.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse material: %w", err)
	}
	if c := serial.Lookup(root, "color"); c != nil && c.Kind == yaml.ScalarNode {
		col := LookupColor(c.Value)
		serial.Set(root, "color", colorNode(col))
	}
	m := defaultMaterial()
	issues := (&serial.Decoder{}).Decode(root, m.Describe())
	if len(issues) > 0 {
		return nil, fmt.Errorf("material: %w", issues[0])
	}
	return m, nil
}

func colorNode(c rl.Color) *yaml.Node {
	return (&serial.Encoder{}).Encode([]engine.Entry{engine.Color("color", &c)}).Content[1]
}

func (m *Material) finalize(decoded any) {
	d := decoded.(Material)
	m.Name, m.Color, m.Metallic, m.Roughness, m.Emissive = d.Name, d.Color, d.Metallic, d.Roughness, d.Emissive
}

// Script is Lua source text.
type Script struct {
	Header
	Source string
}

func decodeScript(data []byte) (any, error) {
	return string(data), nil
}

func (s *Script) finalize(decoded any) {
	s.Source = decoded.(string)
}

// Blob is any file without a dedicated decoder.
type Blob struct {
	Header
	Data []byte
}

func (b *Blob) finalize(decoded any) {
	b.Data = decoded.([]byte)
}

func newAsset(id engine.ID, path string) (asset, func([]byte) (any, error)) {
	kind := KindOf(path)
	h := Header{id: id, path: path, kind: kind}
	switch kind {
	case KindAudio:
		return &AudioClip{Header: h}, decodeAudio
	case KindTexture:
		return &Texture{Header: h}, decodeTexture(path)
	case KindMaterial:
		m := defaultMaterial()
		m.Header = h
		return &m, decodeMaterial
	case KindScript:
		return &Script{Header: h}, decodeScript
	}
	return &Blob{Header: h}, func(data []byte) (any, error) { return data, nil }
}

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Gold":      rl.Gold,
	"White":     rl.White,
	"Gray":      rl.Gray,
	"LightGray": rl.LightGray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Pink":      rl.Pink,
	"Maroon":    rl.Maroon,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"SkyBlue":   rl.SkyBlue,
	"DarkBlue":  rl.DarkBlue,
	"Lime":      rl.Lime,
	"DarkGreen": rl.DarkGreen,
}

// LookupColor returns a raylib color from a name string
func LookupColor(name string) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	return rl.White
}
