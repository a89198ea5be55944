package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mirgo/internal/assets"
	"mirgo/internal/editor"
	"mirgo/internal/world"
)

// State is the play-mode state of a session.
type State int

const (
	Stopped State = iota
	Starting
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var ErrInvalidTransition = errors.New("game: invalid play state transition")

// Session drives a world through play mode. Entering play saves a snapshot
// of the scene; stopping restores it, so nothing done while playing survives.
type Session struct {
	World   *world.World
	Assets  *assets.Database
	History *editor.History

	// ID identifies the current play run. It changes on every Play from Stopped.
	ID uuid.UUID

	// OnStateChange runs after every transition.
	OnStateChange func(from, to State)

	state    State
	snapshot []byte
	frames   uint64
	base     *zap.Logger
	log      *zap.Logger
}

// NewSession wraps w. db and history may be nil.
func NewSession(w *world.World, db *assets.Database, history *editor.History, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	w.StartOnLoad = false
	return &Session{World: w, Assets: db, History: history, base: log, log: log}
}

func (s *Session) State() State { return s.state }

// Frames returns the number of frames run since the last Play from Stopped.
func (s *Session) Frames() uint64 { return s.frames }

// Running reports whether component updates run this frame.
func (s *Session) Running() bool {
	return s.state == Starting || s.state == Playing
}

// Play enters play mode from Stopped, or resumes from Paused.
func (s *Session) Play() error {
	switch s.state {
	case Paused:
		return s.Resume()
	case Stopped:
	default:
		return fmt.Errorf("%w: play while %s", ErrInvalidTransition, s.state)
	}
	snapshot, err := s.World.SaveBytes()
	if err != nil {
		return fmt.Errorf("snapshot scene: %w", err)
	}
	s.snapshot = snapshot
	s.ID = uuid.New()
	s.frames = 0
	s.log = s.base.With(zap.String("session", s.ID.String()))
	if s.History != nil {
		s.History.ClearTransient()
		s.History.SetTransient(true)
	}
	s.setState(Starting)
	return nil
}

func (s *Session) Pause() error {
	if s.state != Starting && s.state != Playing {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, s.state)
	}
	s.setState(Paused)
	return nil
}

func (s *Session) Resume() error {
	if s.state != Paused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, s.state)
	}
	s.setState(Playing)
	return nil
}

// Stop leaves play mode and restores the scene saved by Play.
func (s *Session) Stop() error {
	if s.state == Stopped {
		return fmt.Errorf("%w: stop while stopped", ErrInvalidTransition)
	}
	startOnLoad := s.World.StartOnLoad
	s.World.StartOnLoad = false
	report, err := s.World.LoadBytes(s.snapshot)
	s.World.StartOnLoad = startOnLoad
	s.snapshot = nil
	if s.History != nil {
		s.History.ClearTransient()
		s.History.SetTransient(false)
	}
	s.setState(Stopped)
	s.log = s.base
	if err != nil {
		return fmt.Errorf("restore scene: %w", err)
	}
	if !report.OK() {
		s.log.Warn("scene restored with problems", zap.String("summary", report.Summary()))
	}
	return nil
}

// Frame runs one frame: finished asset loads are applied first, then the
// scheduler ticks. Deletions are reclaimed in every state.
func (s *Session) Frame(deltaTime float32) {
	if s.Assets != nil {
		s.Assets.Flush()
	}
	if s.state == Paused {
		deltaTime = 0
	}
	s.World.Update(deltaTime, s.Running())
	s.frames++
	if s.state == Starting {
		s.setState(Playing)
	}
}

func (s *Session) setState(next State) {
	prev := s.state
	s.state = next
	s.log.Info("play state changed", zap.Stringer("from", prev), zap.Stringer("to", next))
	if s.OnStateChange != nil {
		s.OnStateChange(prev, next)
	}
}
