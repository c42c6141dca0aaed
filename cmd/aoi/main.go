// aoi canonicalizes free-text research interests against a synonym mapping
// and exports the people↔interest bipartite graph.
package main

import (
	"os"

	"github.com/corey/aoi/cmd/aoi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
