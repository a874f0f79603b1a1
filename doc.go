// Package logbuilder compares three shapes of the same fluent event-log
// builder so their allocation behaviour can be measured side by side. Every
// variant accumulates an event name, ordered key/value arguments, an optional
// timestamp and optional cancellation/timeout controls, then hands the result
// to an EventLogger in a single terminal Log call.
//
// # Variants
//
//   - ObjectBuilder: allocated on the heap by LogObject. Every chained call
//     mutates the shared instance and returns the same pointer.
//   - CopiedBuilder: a plain value. Every chained call receives a copy,
//     modifies it and returns the copy. Dropping a returned value drops the
//     change. The argument list is allocated separately on the first With and
//     is shared by every copy taken after that point.
//   - ReferencedBuilder: a value kept in an addressable local and mutated in
//     place through pointer-receiver methods. Nothing is copied and nothing but
//     the argument list is allocated.
//
// All three deliver identical LogEvent calls for identical call sequences;
// only allocation count and call-site ergonomics differ.
//
// # Usage
//
//	logger := logbuilder.Stub()
//	logbuilder.LogObject(logger, "checkout").
//		With("user", "alice").
//		WithControls(ctx, logbuilder.TimeoutMillis(15)).
//		Log()
//
// The referenced variant needs a local:
//
//	b := logbuilder.LogReferenced(logger, "checkout")
//	b.With("user", "alice").Log()
//
// Builders are single-use and not safe for concurrent use. Calling Log twice,
// or configuring a builder after Log, is not guarded against.
//
// Adapters for real logging libraries live in the sink subpackage and the
// benchmark driver is cmd/builderbench.
package logbuilder
