package engine

// tracked is a test component that records lifecycle calls into a shared log.
type tracked struct {
	BaseComponent
	label string
	log   *[]string

	Speed  float32
	Target GameObjectRef
}

func (p *tracked) TypeName() string { return "tracked" }

func (p *tracked) Describe() []Entry {
	return []Entry{
		Float("speed", &p.Speed),
		GameObjectField("target", &p.Target),
	}
}

func (p *tracked) record(event string) {
	if p.log != nil {
		*p.log = append(*p.log, p.label+":"+event)
	}
}

func (p *tracked) Start()                   { p.record("start") }
func (p *tracked) Update(deltaTime float32) { p.record("update") }
func (p *tracked) OnAttach()                { p.record("attach") }
func (p *tracked) OnDetach()                { p.record("detach") }

// passive has no lifecycle hooks.
type passive struct {
	BaseComponent
}

func (p *passive) TypeName() string { return "passive" }

func addTracked(s *Scene, g *GameObject, label string, priority int, log *[]string) *tracked {
	p := &tracked{label: label, log: log}
	p.SetPriority(priority)
	if err := s.AttachComponent(g, p); err != nil {
		panic(err)
	}
	s.NotifyAttached(p)
	return p
}
