package render

import (
	"testing"

	"github.com/matzehuels/svcmap/pkg/topology"
)

func TestVerdictColor(t *testing.T) {
	tests := []struct {
		name  string
		vs    topology.VerdictSet
		color string
		class string
	}{
		{"empty", 0, ColorUnknown, "unknown"},
		{"unknown only", topology.VerdictsOf(topology.VerdictUnknown), ColorUnknown, "unknown"},
		{"forwarded", topology.VerdictsOf(topology.VerdictForwarded), ColorForwarded, "forwarded"},
		{"forwarded and unknown", topology.VerdictsOf(topology.VerdictForwarded, topology.VerdictUnknown), ColorForwarded, "forwarded"},
		{"error", topology.VerdictsOf(topology.VerdictError), ColorForwarded, "forwarded"},
		{"dropped wins", topology.VerdictsOf(topology.VerdictForwarded, topology.VerdictDropped), ColorDropped, "dropped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerdictColor(tt.vs); got != tt.color {
				t.Errorf("VerdictColor(%v) = %q, want %q", tt.vs, got, tt.color)
			}
			if got := VerdictClass(tt.vs); got != tt.class {
				t.Errorf("VerdictClass(%v) = %q, want %q", tt.vs, got, tt.class)
			}
		})
	}
}
