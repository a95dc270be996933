// Package tree provides the tree-shaped method body produced by lowering a flat
// body.
//
// Statements keep the flat statement kinds, but every operand slot (Box) holds
// an expression tree instead of a single flat value. Expression nodes own their
// children exclusively: no subexpression is shared between slots, and there are
// no cycles.
//
// Branch targets and trap boundaries are ir.Unit references. While a body is
// being built they may still point at the flat statements they were copied
// from; once relinked they point at statements of the same tree body.
package tree
