// Package topology holds the service map data model and the connections
// graph built from it.
//
// # Overview
//
// A topology is delivered as a full [Snapshot]: the services (cards) that
// exist and the directed [Link]s observed between them. Each link targets an
// [AccessPoint], the (service, port) endpoint traffic arrives at. Access
// points are never stored on their own; their identity is the derived string
// returned by [AccessPointID].
//
// # Connections
//
// [BuildConnections] folds a link list into two adjacency maps:
//
//	outgoings[sender][receiver][apID] == incomings[receiver][sender][apID]
//
// Both maps hold the same *Link pointer for a given key, so a lookup in either
// direction observes the identical value. The maps are rebuilt wholesale for
// every snapshot; there is no incremental diffing.
//
// # Folding
//
// Flow data usually contains many links for the same (source, destination,
// port) triple. [FoldLinks] merges them into one link per triple and keeps
// the union of observed verdicts in [Link.Verdicts].
//
// # Encoding
//
// [ReadJSON], [ReadYAML] and [ImportSnapshot] decode snapshots and validate
// them; [WriteJSON] and [ExportSnapshot] encode them.
package topology
