// Package grimp lowers flat method bodies into tree bodies.
//
// NewBody runs four phases over a flat body:
//
//  1. statement translation: one tree statement per flat statement, of the
//     same kind, with operands parked unfolded in their boxes and branch
//     targets still naming the old statements;
//  2. expression folding: every flat operand becomes an expression tree;
//  3. relinking: branch targets, switch tables and trap boundaries are moved
//     from the old statements to their new counterparts;
//  4. aggregation: an ordered pipeline of passes folds single-use locals into
//     their use, merges allocations with their constructor call and drops
//     locals nothing mentions.
//
// Translation is all-or-nothing: any error discards the partially built body.
// Per-call state is private, so NewBody may be called concurrently on
// distinct inputs.
//
// Given a tree body NewBody returns an independent copy instead; see Clone.
package grimp
