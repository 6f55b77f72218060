// Package wordvectors loads word2vec embeddings.
//
// This package can load binary and text word2vec files. It also supports
// similarity and analogy queries on the embeddings. Embeddings are
// normalized to unit length when they are loaded, so that similarity
// queries reduce to dot products.
//
// Dot products are computed using gonum's BLAS implementation. Building
// with the netlib tag uses gonum's C BLAS binding instead. The binding
// can be configured using CGO flags. For instance, to link against
// OpenBLAS on Linux:
//
//	CGO_LDFLAGS="-L/path/to/OpenBLAS -lopenblas" go install -tags netlib ./...
//
// or Accelerate on OS X:
//
//	CGO_LDFLAGS="-framework Accelerate" go install -tags netlib ./...
package wordvectors
