package topology

import (
	"fmt"
	"slices"
	"strings"
)

// Protocol is the L4 protocol of a link, as reported by the flow source.
type Protocol string

// Known protocols. Any other non-empty value is passed through unchanged.
const (
	ProtocolTCP    Protocol = "TCP"
	ProtocolUDP    Protocol = "UDP"
	ProtocolICMPv4 Protocol = "ICMPv4"
	ProtocolICMPv6 Protocol = "ICMPv6"
)

// Verdict is the observed fate of the flows behind a link.
type Verdict string

const (
	VerdictUnknown   Verdict = "unknown"
	VerdictForwarded Verdict = "forwarded"
	VerdictDropped   Verdict = "dropped"
	VerdictError     Verdict = "error"
)

var verdictBits = map[Verdict]VerdictSet{
	VerdictUnknown:   1 << 0,
	VerdictForwarded: 1 << 1,
	VerdictDropped:   1 << 2,
	VerdictError:     1 << 3,
}

// verdictOrder is the stable output order of VerdictSet.List.
var verdictOrder = []Verdict{VerdictForwarded, VerdictDropped, VerdictError, VerdictUnknown}

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	_, ok := verdictBits[v]
	return ok
}

// VerdictSet is a set of verdicts stored as a bitmask.
// The zero value is the empty set.
type VerdictSet uint8

// VerdictsOf returns the set containing vs. Unknown verdict strings are ignored.
func VerdictsOf(vs ...Verdict) VerdictSet {
	var s VerdictSet
	for _, v := range vs {
		s = s.Add(v)
	}
	return s
}

// Add returns s with v added.
func (s VerdictSet) Add(v Verdict) VerdictSet { return s | verdictBits[v] }

// Has reports whether v is in s.
func (s VerdictSet) Has(v Verdict) bool {
	bit, ok := verdictBits[v]
	return ok && s&bit != 0
}

// Union returns the verdicts present in s or o.
func (s VerdictSet) Union(o VerdictSet) VerdictSet { return s | o }

// Len returns the number of verdicts in s.
func (s VerdictSet) Len() int {
	n := 0
	for _, v := range verdictOrder {
		if s.Has(v) {
			n++
		}
	}
	return n
}

// List returns the verdicts in s in a fixed order.
func (s VerdictSet) List() []Verdict {
	out := make([]Verdict, 0, 4)
	for _, v := range verdictOrder {
		if s.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

func (s VerdictSet) String() string {
	parts := make([]string, 0, 4)
	for _, v := range s.List() {
		parts = append(parts, string(v))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// AccessPointID returns the identifier of the access point for port on
// serviceID. Two access points with equal (serviceID, port) are the same entity.
func AccessPointID(serviceID string, port int) string {
	return fmt.Sprintf("ap-%s-%d", serviceID, port)
}

// AccessPoint is a (service, port) traffic endpoint on a card.
type AccessPoint struct {
	ServiceID string   `json:"serviceId" yaml:"serviceId"`
	Port      int      `json:"port" yaml:"port"`
	Protocol  Protocol `json:"protocol,omitempty" yaml:"protocol,omitempty"`
}

// ID returns the derived identifier of the access point.
func (ap AccessPoint) ID() string { return AccessPointID(ap.ServiceID, ap.Port) }

// Link is one observed flow-level edge from SourceID to the access point
// (DestinationID, DestinationPort).
//
// Verdict is the verdict of the single observation. Verdicts accumulates the
// verdicts of every observation folded into this link by FoldLinks; for an
// unfolded link it is empty and EffectiveVerdicts falls back to Verdict.
type Link struct {
	ID              string     `json:"id" yaml:"id"`
	SourceID        string     `json:"sourceId" yaml:"sourceId"`
	DestinationID   string     `json:"destinationId" yaml:"destinationId"`
	DestinationPort int        `json:"destinationPort" yaml:"destinationPort"`
	IPProtocol      Protocol   `json:"ipProtocol,omitempty" yaml:"ipProtocol,omitempty"`
	Verdict         Verdict    `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	Verdicts        VerdictSet `json:"-" yaml:"-"`
}

// AccessPointID returns the identifier of the access point the link targets.
func (l Link) AccessPointID() string { return AccessPointID(l.DestinationID, l.DestinationPort) }

// AccessPoint returns the access point the link targets.
func (l Link) AccessPoint() AccessPoint {
	return AccessPoint{ServiceID: l.DestinationID, Port: l.DestinationPort, Protocol: l.IPProtocol}
}

// EffectiveVerdicts returns Verdicts, or the singleton set of Verdict when
// the link was never folded.
func (l Link) EffectiveVerdicts() VerdictSet {
	if l.Verdicts != 0 {
		return l.Verdicts
	}
	v := l.Verdict
	if v == "" {
		v = VerdictUnknown
	}
	return VerdictsOf(v)
}

// Well-known labels used to derive service flags.
const (
	LabelWorld      = "reserved:world"
	LabelHost       = "reserved:host"
	LabelRemoteNode = "reserved:remote-node"
	LabelKubeDNS    = "k8s-app=kube-dns"
	LabelPrometheus = "app=prometheus"
)

// Service describes one card. Labels use the "source:key=value" form; the
// source prefix is optional for key/value labels ("k8s:app=web" and
// "app=web" match the same flag).
type Service struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Namespace string   `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Labels    []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Caption returns the display name of the service.
func (s Service) Caption() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// HasLabel reports whether the service carries label, ignoring the source
// prefix of key/value labels.
func (s Service) HasLabel(label string) bool {
	return slices.ContainsFunc(s.Labels, func(l string) bool {
		if l == label {
			return true
		}
		if src, rest, ok := strings.Cut(l, ":"); ok && src != "reserved" {
			return rest == label
		}
		return false
	})
}

func (s Service) IsWorld() bool      { return s.HasLabel(LabelWorld) }
func (s Service) IsHost() bool       { return s.HasLabel(LabelHost) }
func (s Service) IsRemoteNode() bool { return s.HasLabel(LabelRemoteNode) }
func (s Service) IsKubeDNS() bool    { return s.HasLabel(LabelKubeDNS) }
func (s Service) IsPrometheus() bool { return s.HasLabel(LabelPrometheus) }
