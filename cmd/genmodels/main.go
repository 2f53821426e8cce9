// genmodels writes a sample model bundle for local development when no
// trained artifacts are available.
package main

import (
	"flag"
	"log"

	"github.com/wilson-cheng1110/Comp4436-GP/internal/predict"
)

func main() {
	dir := flag.String("dir", "models", "directory to write sample artifacts into")
	flag.Parse()

	if err := predict.WriteSampleArtifacts(*dir); err != nil {
		log.Fatalf("failed to write sample artifacts: %v", err)
	}
}
