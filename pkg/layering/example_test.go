package layering_test

import (
	"fmt"

	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/layering"
	"github.com/matzehuels/svcmap/pkg/topology"
)

func ExampleLayout() {
	conns := topology.BuildConnections([]topology.Link{
		{SourceID: "a", DestinationID: "b", DestinationPort: 80},
		{SourceID: "a", DestinationID: "c", DestinationPort: 80},
		{SourceID: "b", DestinationID: "d", DestinationPort: 5432},
		{SourceID: "c", DestinationID: "d", DestinationPort: 5432},
	})
	size := func(string) geom.WH { return geom.WH{W: 100, H: 50} }

	res := layering.Layout(conns, nil, size, layering.DefaultConfig())
	for _, id := range []string{"a", "b", "c", "d"} {
		fmt.Println(id, res.Columns[id], res.Positions[id])
	}
	// Output:
	// a 0 (0,0)
	// b 1 (300,0)
	// c 1 (300,100)
	// d 2 (600,0)
}
