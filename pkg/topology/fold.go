package topology

type foldKey struct {
	source, destination string
	port                int
}

// FoldLinks merges links sharing (SourceID, DestinationID, DestinationPort).
// The merged link keeps the id and protocol of the first link seen for its
// key, and Verdicts holds the union of every folded link's verdicts. Output
// order follows the first occurrence of each key.
func FoldLinks(links []Link) []Link {
	index := make(map[foldKey]int, len(links))
	out := make([]Link, 0, len(links))
	for _, l := range links {
		k := foldKey{l.SourceID, l.DestinationID, l.DestinationPort}
		if i, ok := index[k]; ok {
			out[i].Verdicts = out[i].Verdicts.Union(l.EffectiveVerdicts())
			continue
		}
		l.Verdicts = l.EffectiveVerdicts()
		index[k] = len(out)
		out = append(out, l)
	}
	return out
}
