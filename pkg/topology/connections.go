package topology

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// PeerMap maps a node id to its peers, and each peer to the links between
// the two keyed by access point id.
type PeerMap map[string]map[string]map[string]*Link

// Connections is the pair of adjacency maps built from a link list.
//
// For every link l passed to BuildConnections:
//
//	Outgoings[l.SourceID][l.DestinationID][l.AccessPointID()] ==
//	Incomings[l.DestinationID][l.SourceID][l.AccessPointID()]
//
// Connections is read-only after construction and safe for concurrent reads.
type Connections struct {
	Outgoings PeerMap
	Incomings PeerMap

	accessPoints map[string]map[string]AccessPoint
}

// Pair is one directed (sender, receiver) relation.
type Pair struct {
	Sender   string
	Receiver string
}

// BuildConnections inserts every link into both adjacency maps. No duplicate
// detection is performed: the last link written for a given (sender,
// receiver, access point) key wins.
func BuildConnections(links []Link) *Connections {
	c := &Connections{
		Outgoings:    make(PeerMap),
		Incomings:    make(PeerMap),
		accessPoints: make(map[string]map[string]AccessPoint),
	}
	for i := range links {
		l := links[i]
		apID := l.AccessPointID()
		c.Outgoings.insert(l.SourceID, l.DestinationID, apID, &l)
		c.Incomings.insert(l.DestinationID, l.SourceID, apID, &l)

		aps := c.accessPoints[l.DestinationID]
		if aps == nil {
			aps = make(map[string]AccessPoint)
			c.accessPoints[l.DestinationID] = aps
		}
		aps[apID] = l.AccessPoint()
	}
	return c
}

func (m PeerMap) insert(node, peer, apID string, l *Link) {
	peers := m[node]
	if peers == nil {
		peers = make(map[string]map[string]*Link)
		m[node] = peers
	}
	byAP := peers[peer]
	if byAP == nil {
		byAP = make(map[string]*Link)
		peers[peer] = byAP
	}
	byAP[apID] = l
}

// Link returns the link from sender to receiver through apID.
func (c *Connections) Link(sender, receiver, apID string) (*Link, bool) {
	l, ok := c.Outgoings[sender][receiver][apID]
	return l, ok
}

// AccessPointIDs returns the sorted ids of the access points sender reaches
// on receiver, or nil if sender never sends to receiver.
func (c *Connections) AccessPointIDs(sender, receiver string) []string {
	byAP := c.Outgoings[sender][receiver]
	if len(byAP) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(byAP))
}

// Links returns the links from sender to receiver ordered by access point id.
func (c *Connections) Links(sender, receiver string) []*Link {
	ids := c.AccessPointIDs(sender, receiver)
	out := make([]*Link, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.Outgoings[sender][receiver][id])
	}
	return out
}

// AccessPoints returns every access point on receiver ordered by port, then
// protocol.
func (c *Connections) AccessPoints(receiver string) []AccessPoint {
	aps := slices.Collect(maps.Values(c.accessPoints[receiver]))
	slices.SortFunc(aps, func(a, b AccessPoint) int {
		return cmp.Or(cmp.Compare(a.Port, b.Port), cmp.Compare(a.Protocol, b.Protocol))
	})
	return aps
}

// Senders returns the sorted ids of nodes sending to receiver.
func (c *Connections) Senders(receiver string) []string {
	return slices.Sorted(maps.Keys(c.Incomings[receiver]))
}

// Receivers returns the sorted ids of nodes sender sends to.
func (c *Connections) Receivers(sender string) []string {
	return slices.Sorted(maps.Keys(c.Outgoings[sender]))
}

// Pairs returns every (sender, receiver) relation sorted by sender, then
// receiver.
func (c *Connections) Pairs() []Pair {
	var out []Pair
	for _, s := range slices.Sorted(maps.Keys(c.Outgoings)) {
		for _, r := range c.Receivers(s) {
			out = append(out, Pair{Sender: s, Receiver: r})
		}
	}
	return out
}

// Nodes returns the sorted ids of every node that sends or receives.
func (c *Connections) Nodes() []string {
	seen := make(map[string]struct{}, len(c.Outgoings)+len(c.Incomings))
	for id := range c.Outgoings {
		seen[id] = struct{}{}
	}
	for id := range c.Incomings {
		seen[id] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// CardConnectorID returns the identifier of the connector carrying traffic
// into receiver through the given access points. The ids are sorted before
// joining, so any permutation yields the same connector.
func CardConnectorID(receiver string, apIDs []string) string {
	ids := slices.Clone(apIDs)
	slices.Sort(ids)
	return fmt.Sprintf("cnctr-%s-(%s)", receiver, strings.Join(ids, "/"))
}
