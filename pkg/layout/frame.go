package layout

import (
	"github.com/matzehuels/svcmap/pkg/connector"
	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Card is a placed card in a Frame.
type Card struct {
	ID           string    `json:"id"`
	Caption      string    `json:"caption"`
	Namespace    string    `json:"namespace,omitempty"`
	Flags        []string  `json:"flags,omitempty"`
	Box          geom.XYWH `json:"box"`
	Column       int       `json:"column"`
	Row          int       `json:"row"`
	AccessPoints []string  `json:"accessPoints,omitempty"`
}

// AccessPoint is an anchored access point in a Frame.
type AccessPoint struct {
	ID        string            `json:"id"`
	ServiceID string            `json:"serviceId"`
	Port      int               `json:"port"`
	Protocol  topology.Protocol `json:"protocol,omitempty"`
	Point     geom.XY           `json:"point"`
}

// ArrowKind distinguishes the two arrow families.
type ArrowKind string

const (
	// ArrowSender runs from a sender card to a connector anchor.
	ArrowSender ArrowKind = "sender"
	// ArrowAccessPoint runs from a connector anchor to an access point.
	ArrowAccessPoint ArrowKind = "access-point"
)

// Arrow is a routed arrow in a Frame.
type Arrow struct {
	ID       string             `json:"id"`
	Kind     ArrowKind          `json:"kind"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Points   []geom.XY          `json:"points"`
	Verdicts []topology.Verdict `json:"verdicts,omitempty"`
}

// Frame is a self-contained copy of one view's computed geometry. Every
// list is sorted, so equal layouts encode to equal JSON.
type Frame struct {
	Cards        []Card                `json:"cards"`
	Pending      []string              `json:"pending,omitempty"`
	AccessPoints []AccessPoint         `json:"accessPoints"`
	Connectors   []connector.Connector `json:"connectors"`
	Arrows       []Arrow               `json:"arrows"`
	Bounds       geom.XYWH             `json:"bounds"`
}

// Card returns the card with the given id.
func (f *Frame) Card(id string) (Card, bool) {
	for _, c := range f.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// ConnectorsOf returns the connectors on a receiver card.
func (f *Frame) ConnectorsOf(receiver string) []connector.Connector {
	var out []connector.Connector
	for _, c := range f.Connectors {
		if c.ReceiverID == receiver {
			out = append(out, c)
		}
	}
	return out
}

// serviceFlags lists the label-derived flags of svc.
func serviceFlags(svc topology.Service) []string {
	var flags []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"world", svc.IsWorld()},
		{"host", svc.IsHost()},
		{"remote-node", svc.IsRemoteNode()},
		{"kube-dns", svc.IsKubeDNS()},
		{"prometheus", svc.IsPrometheus()},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	return flags
}
