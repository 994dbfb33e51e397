package ingest

import "errors"

// ErrMalformedInput is returned for CSV/JSON structural problems that are
// not covered by core's engine-level sentinels: wrong column counts, a
// non-numeric cell, an unparseable edge key, or an unrecognized P-spec
// shape in the JSON side-car.
var ErrMalformedInput = errors.New("ingest: malformed input")
