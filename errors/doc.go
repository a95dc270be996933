// Package errors provides structured error types for the tree-IR lowering stage.
//
// Errors are categorized by Phase (which lowering step failed) and Kind (error category).
// The Error type carries the method being lowered, the offending statement, a
// source path for input-format errors, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTranslate, errors.KindInvalidStatement).
//		Method("<Foo: void run()>").
//		Stmt(3, "goto #9").
//		Detail("no tree counterpart").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidStatement(errors.PhaseTranslate, 3, "goto #9")
//	err := errors.UnresolvedTarget(errors.PhaseRelink, "if r0 == null goto #9")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
