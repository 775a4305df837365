// Package metrics provides validated, arity-safe construction of Prometheus
// metrics.
//
// The package does not reimplement any collection machinery: counters,
// gauges, histograms and summaries are the ones from
// github.com/prometheus/client_golang, registered against a caller-supplied
// registry. What it adds is a construction layer that makes the usual classes
// of instrumentation mistakes fail at setup time instead of scrape time:
// malformed names, out-of-range summary objectives, and label tuples whose
// length does not match the family's declared label set.
//
// # Validated names
//
// Every metric and label name is a Name, an opaque validated string matching
// [a-zA-Z_:][a-zA-Z0-9_:]*. Names known at build time use MustName in a
// package-level declaration, so a typo fails at process start:
//
//	var reqName = metrics.MustName("http_requests_total")
//
// Names computed at run time use NewName and handle the error. A Name can be
// extended with a validated Suffix, and concatenation of Names is associative.
//
// # Families and label binding
//
// A family couples a registered metric with an extraction function from a
// domain type to its label values:
//
//	type Request struct {
//		Method string
//		Path   string
//	}
//
//	requests, err := metrics.NewCounterFamily(provider,
//		metrics.CounterOpts{Name: reqName, Help: "Total HTTP requests"},
//		func(r Request) []string { return []string{r.Method, r.Path} },
//		metrics.MustName("method"), metrics.MustName("path"),
//	)
//
//	counter, err := requests.Label(Request{Method: "GET", Path: "/users"})
//	counter.Inc(ctx)
//
// Label extracts the values, asserts the count matches the declared label
// set, and resolves the backend child positionally. Equal extractions address
// the same child, so observations sum where they should. Zero-label metrics
// skip the binding step entirely: Provider.NewCounter and friends return
// directly observable handles.
//
// # Execution substitution
//
// Handles record through a Runner, the package's execution-context
// abstraction. A Middleware rewrites one Runner into another without touching
// the binding or the registration, and applications use WithRunner to swap
// execution semantics after construction (sampling, deferral, test capture)
// while the handle keeps addressing the same backend child. Middlewares
// compose with Chain, and the identity middleware changes nothing.
//
// # Backend escape hatch
//
// Collector on a zero-label handle (and on every family) returns the
// registered prometheus.Collector for interop with backend-native APIs. On a
// handle already narrowed to specific label values it returns a NarrowedError:
// the backend registers at family granularity and has no collector for one
// label combination.
//
// # Manifests
//
// A Manifest declares families in YAML; LoadManifest validates everything the
// programmatic constructors would and Apply registers the declared set
// against a provider.
//
// # Concurrency
//
// Handles are immutable values and safe for concurrent use. The package adds
// no locking: registration and per-child bookkeeping are synchronized inside
// the backend.
package metrics
