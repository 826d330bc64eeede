// Package legacyrand reproduces the BBOB 2009 pseudo-random construction of
// benchmark problem instances.
//
// # Determinism
//
// Every function in this package is a pure function of its arguments. The
// same seed always produces bit-identical output, which is what keeps
// published benchmark results comparable across implementations. Changing a
// constant or the order of any arithmetic step here is a compatibility break,
// even when the statistical quality of the output would improve.
//
// # Seeds
//
// Negative seeds are negated and a seed of zero behaves like one. The
// generator is only defined by the legacy algorithm for seeds below roughly
// 9.6e10; larger seeds still produce deterministic output but have no
// reference to compare against.
package legacyrand
