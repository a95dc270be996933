// Package render prints flat and tree method bodies as labelled text.
//
// Statements that are entered by a jump, and statements that bound or handle
// a trap, get a label line. Branches, switch cases and traps refer to those
// labels instead of statement numbers. Styles, when set, colour the output
// for terminals.
package render
