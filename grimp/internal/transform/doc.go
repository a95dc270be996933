// Package transform implements the passes run over a tree body after
// lowering: local aggregation, constructor folding and unused local
// elimination.
//
// Every pass mutates the body in place and reports how many rewrites it
// performed. Passes never change the control flow of the body: a removed
// statement has its incoming references redirected first.
package transform
