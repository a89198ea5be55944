// Package settings holds project-wide settings persisted in the sealed
// binary format.
package settings

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"mirgo/internal/assets"
	"mirgo/internal/binfmt"
	"mirgo/internal/engine"
	"mirgo/internal/serial"
)

var magic = [4]byte{'M', 'G', 'P', 'S'}

// Version is bumped when fields are removed or change type. Appending fields
// does not need a bump: older files simply leave them at their defaults.
const Version = 1

var ErrUnsupportedVersion = errors.New("settings: unsupported version")

type Quality int

const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
)

type Physics struct {
	Gravity       rl.Vector3
	FixedTimestep float32
	Iterations    int32
}

func (p *Physics) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Vector3("gravity", &p.Gravity),
		engine.Float("fixed_timestep", &p.FixedTimestep).Range(0.001, 0.1),
		engine.Int32("iterations", &p.Iterations).Range(1, 32),
	}
}

type Audio struct {
	MasterVolume float32
	SampleRate   uint32
}

func (a *Audio) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Float("master_volume", &a.MasterVolume).Range(0, 1),
		engine.Uint32("sample_rate", &a.SampleRate),
	}
}

// Project is the settings object of one game project.
type Project struct {
	Name         string
	Company      string
	StartupScene engine.AssetRef
	ClearColor   rl.Color
	Quality      Quality
	VSync        bool
	Tags         []string
	Physics      Physics
	Audio        Audio
}

// Default returns the settings of a new project.
func Default() *Project {
	return &Project{
		Name:       "Untitled",
		ClearColor: rl.NewColor(30, 30, 40, 255),
		Quality:    QualityHigh,
		VSync:      true,
		Physics: Physics{
			Gravity:       rl.Vector3{Y: -9.81},
			FixedTimestep: 1.0 / 60,
			Iterations:    8,
		},
		Audio: Audio{MasterVolume: 1, SampleRate: 44100},
	}
}

func (p *Project) Describe() []engine.Entry {
	return []engine.Entry{
		engine.String("name", &p.Name),
		engine.String("company", &p.Company),
		engine.AssetField("startup_scene", &p.StartupScene),
		engine.Color("clear_color", &p.ClearColor),
		engine.Enum("quality", &p.Quality, "Low", "Medium", "High"),
		engine.Bool("vsync", &p.VSync),
		engine.List("tags", &p.Tags, engine.String),
		engine.Object("physics", &p.Physics),
		engine.Object("audio", &p.Audio),
	}
}

// Encode returns the sealed binary form of p.
func (p *Project) Encode() []byte {
	w := binfmt.NewWriter()
	w.Raw(serial.EncodeBinary(p.Describe()))
	return w.Seal(magic, Version)
}

// Decode reads data over p. Fields whose stored type no longer matches are
// skipped and returned as issues; a damaged or newer file is an error and
// leaves p untouched.
func (p *Project) Decode(data []byte) ([]serial.Issue, error) {
	r, version, err := binfmt.Open(data, magic)
	if err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return serial.DecodeBinary(r.Rest(), p.Describe())
}

// Save writes p to path on fsys.
func Save(fsys assets.FileSystem, path string, p *Project) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if _, err := f.Write(p.Encode()); err != nil {
		f.Close()
		return fmt.Errorf("save settings: %w", err)
	}
	return f.Close()
}

// Load reads the settings at path. A missing file yields the defaults.
func Load(fsys assets.FileSystem, path string, log *zap.Logger) (*Project, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := Default()
	f, err := fsys.Open(path)
	if errors.Is(err, assets.ErrNotExist) {
		log.Info("no project settings, using defaults", zap.String("path", path))
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	defer f.Close()
	data, err := f.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	issues, err := p.Decode(data)
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		log.Warn("settings field not applied", zap.String("path", path), zap.Error(issue))
	}
	return p, nil
}
