package domain

import (
	"github.com/proplens/proplens/internal/adapter"
	m "github.com/proplens/proplens/internal/model"
)

// Session ties one host debugger to the debug info of the loaded generated
// units. Commands share a Session; State snapshots are decoded per stop
// and never outlive one command.
type Session struct {
	Host  adapter.HostDebugger
	Infos []*m.DebugInfo

	decoder  *Decoder
	resolver *Resolver
	stepOut  *StepOut
}

// NewSession wires the engine components over a host and the loaded units.
func NewSession(host adapter.HostDebugger, infos ...*m.DebugInfo) *Session {
	decoder := NewDecoder(infos...)

	return &Session{
		Host:     host,
		Infos:    infos,
		decoder:  decoder,
		resolver: NewResolver(infos...),
		stepOut:  NewStepOut(host, decoder),
	}
}

// DecodeCurrent decodes the state of the currently selected frame. The
// returned frame gives printers access to the stop's variables.
func (s *Session) DecodeCurrent() (*m.State, *adapter.FrameSnapshot, error) {
	frame, err := s.Host.SelectedFrame()
	if err != nil {
		return nil, nil, err
	}

	return s.decoder.Decode(frame), frame, nil
}

// Resolver exposes breakpoint resolution.
func (s *Session) Resolver() *Resolver {
	return s.resolver
}

// StepOut exposes the step-out engine.
func (s *Session) StepOut() *StepOut {
	return s.stepOut
}

// SetBreakpoint places a breakpoint at a resolved match, in the generated
// file of the matched property.
func (s *Session) SetBreakpoint(match m.Match) error {
	return s.Host.SetBreakpoint(match.Property.GenFile, match.Line)
}

// AllProperties lists every known property across the loaded units, in
// load order.
func (s *Session) AllProperties() []*m.Property {
	var props []*m.Property

	for _, info := range s.Infos {
		props = append(props, info.Properties...)
	}

	return props
}
