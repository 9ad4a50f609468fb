// Package connector assigns anchor points to the connectors converging on a
// card.
//
// A connector aggregates every link into one receiver through one set of
// access points; senders reaching the same set share one connector, whose
// id is [topology.CardConnectorID]. Each connector gets an anchor to the
// left of its receiver, near the receiver's vertical midpoint.
//
// The [Accumulator] works in two passes. [Accumulator.Accumulate] is called
// for every (sender, receiver) pair of a frame and stacks new connectors
// below the receiver's midpoint, Gap apart. [Accumulator.AdjustVertically]
// then re-centers each receiver's stack, which needs the final connector
// count per receiver and so cannot happen during the first pass:
//
//	acc := connector.New(cfg, conns, store)
//	for _, p := range conns.Pairs() {
//	    acc.Accumulate(p.Sender, p.Receiver) // false: not measured yet
//	}
//	if err := acc.AdjustVertically(); err != nil {
//	    // the accumulator's maps disagree
//	}
//	pt, ok := acc.Point(connectorID)
package connector
