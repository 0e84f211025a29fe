package chip8

/// SoundGate turns the beeper on and off. Enable and Disable are only
/// called on transitions.
///
type SoundGate interface {
	Enable()
	Disable()
}

/// SoundGates fans a transition out to several gates.
///
type SoundGates []SoundGate

/// Enable all gates.
///
func (gates SoundGates) Enable() {
	for _, g := range gates {
		g.Enable()
	}
}

/// Disable all gates.
///
func (gates SoundGates) Disable() {
	for _, g := range gates {
		g.Disable()
	}
}
