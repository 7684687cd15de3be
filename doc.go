// Package trajsmooth predicts smoothed gene-expression trajectories from
// generalized additive models (GAMs) that were fitted per gene along one or
// more pseudotime lineages.
//
// The library does not fit models. It consumes already-fitted coefficients
// (either a shared design/basis summary covering many genes, or a collection
// of independently fitted per-gene models) and evaluates the smoothers on an
// evenly spaced pseudotime grid per lineage.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/traject-bio/trajsmooth/gam"
//	)
//
//	func main() {
//	    container, err := gam.LoadContainerFile("smoothers.json")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    frame, err := gam.PredictSmooth(container, []string{"Sox9", "Krt19"}, gam.DefaultNPoints)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for i := 0; i < frame.Len(); i++ {
//	        fmt.Println(frame.Gene[i], frame.Lineage[i], frame.Time[i], frame.Prediction[i])
//	    }
//	}
//
// The heavy lifting lives in the gam package. Supporting packages follow the
// layout of the rest of the project: core/parallel for CPU-parallel loops,
// pkg/errors for the typed error taxonomy, pkg/log for structured logging.
package trajsmooth
