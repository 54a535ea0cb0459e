package culling

import "fmt"

// Mode tags which culling strategy produced a CulledObjectSet. Every set
// carries exactly one mode; accessors for the other mode's payload panic.
// The renderer picks a mode per pass at startup, exhaustive switches over
// Mode keep the two code paths from silently diverging.
type Mode int

const (
	// ModeHost culls on the CPU and records classic indexed draws.
	ModeHost Mode = iota
	// ModeDevice culls in a compute shader and records indirect draws.
	ModeDevice
)

// String returns the human-readable name of the mode.
//
// Returns:
//   - string: "host", "device", or a diagnostic for unknown values
func (m Mode) String() string {
	switch m {
	case ModeHost:
		return "host"
	case ModeDevice:
		return "device"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}
