package render

import "github.com/matzehuels/svcmap/pkg/topology"

// Arrow colors.
const (
	ColorForwarded = "#4c9f70"
	ColorDropped   = "#d9534f"
	ColorUnknown   = "#9a9a9a"
)

// VerdictColor picks the stroke color for a verdict set: red as soon as one
// flow was dropped, grey when nothing but unknown verdicts were seen, green
// otherwise.
func VerdictColor(vs topology.VerdictSet) string {
	switch {
	case vs.Has(topology.VerdictDropped):
		return ColorDropped
	case vs == 0 || vs == topology.VerdictsOf(topology.VerdictUnknown):
		return ColorUnknown
	default:
		return ColorForwarded
	}
}

// VerdictClass is the CSS class matching VerdictColor.
func VerdictClass(vs topology.VerdictSet) string {
	switch VerdictColor(vs) {
	case ColorDropped:
		return "dropped"
	case ColorUnknown:
		return "unknown"
	default:
		return "forwarded"
	}
}
