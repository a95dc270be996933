// Package jimple provides the flat, three-address method body consumed by the
// tree lowering.
//
// Every statement performs at most one operation on simple operands. Branch
// statements reference their targets directly; traps reference the first
// covered statement, the first statement after the covered range, and the
// handler entry.
//
// A RawBody is the class-file-derived form. It is never lowered directly: a
// Normalizer first turns it into a flat Body.
package jimple
