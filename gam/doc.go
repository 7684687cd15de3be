// Package gam evaluates fitted generalized additive models for
// gene-expression trajectories on evenly spaced pseudotime grids.
//
// Two input representations are supported and share the same downstream
// machinery:
//
//   - SmootherContainer: one design matrix, one spline basis parameterization
//     and a coefficient table covering many genes. Prediction is a single
//     basis evaluation followed by per-gene coefficient products.
//   - map[string]*GAM: independently fitted per-gene models. Each model
//     evaluates its own basis; a reference model supplies the lineage layout
//     for grid construction.
//
// Both paths produce either a wide gene-by-point matrix (SmoothMatrix) or a
// tidy long table (SmoothFrame). The row and column ordering of the outputs
// is part of the API contract: lineage-major, grid-point-minor.
//
// All predictions go through the inverse log link, so every returned value
// is strictly positive for finite inputs.
package gam
