// Package treeir lowers flat three-address method bodies into tree-shaped
// bodies for a bytecode-analysis framework.
//
// A flat body holds one operation per statement, with every intermediate
// result in a local. The tree form nests expressions inside the statement
// that consumes them, which is easier to read and to pattern-match.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	treeir/
//	├── ir/          Shared vocabulary: types, locals, signatures, flat values, statement identity
//	├── jimple/      Flat input bodies: statements, traps, raw class-file bodies
//	├── tree/        Tree output bodies: expression nodes, operand boxes, statements, traps
//	├── grimp/       Lowering: translate, fold, relink, aggregation pipeline, clone
//	├── errors/      Structured error types for debugging
//	├── source/      YAML class descriptions to flat bodies
//	├── render/      Labelled text rendering of flat and tree bodies
//	└── cmd/grimp/   Command-line translator with watch and interactive modes
//
// # Quick Start
//
// Lower a flat body with the default regime, which aggregates only
// compiler-introduced stack locals:
//
//	body, err := grimp.NewBody(flat, grimp.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(render.Tree(body))
//
// Aggregate user-visible locals too, or skip aggregation entirely:
//
//	grimp.NewBody(flat, grimp.Options{AggregateAllLocals: true})
//	grimp.NewBody(flat, grimp.Options{NoAggregating: true})
//
// # Lowering
//
// NewBody runs four steps on a private copy:
//
//  1. Translation creates one tree statement per flat statement, same kind,
//     with the flat operands parked in boxes and branch targets still
//     pointing at flat statements.
//  2. Folding turns every parked operand into an expression tree.
//  3. Relinking replaces every branch target and trap boundary with the
//     corresponding tree statement.
//  4. The aggregation pipeline merges single-use locals into their use,
//     folds allocation and constructor call into one expression, and drops
//     locals nothing mentions.
//
// Any failure discards the partial body and returns a *errors.Error naming
// the phase, the method and, where one is involved, the statement.
//
// # Concurrency
//
// NewBody keeps all state per call and is safe for concurrent use on
// distinct inputs. The package logger is installed once with grimp.SetLogger.
package treeir
