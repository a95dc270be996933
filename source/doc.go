// Package source reads flat method bodies from YAML class descriptions.
//
// A document names a class and lists its methods. Each method declares its
// parameters, return type and locals, a body of statements written one per
// line in the same syntax the bodies print with, and its traps:
//
//	class: Example
//	methods:
//	  - name: abs
//	    static: true
//	    params: [int]
//	    return: int
//	    locals:
//	      - {name: i0, type: int}
//	    body:
//	      - "i0 := @parameter0"
//	      - "if i0 >= 0 goto done"
//	      - "i0 = neg i0"
//	      - "done: return i0"
//
// A statement may be prefixed with "label:"; branch targets, switch cases and
// trap boundaries refer to statements by label. Labels are resolved after the
// whole body has been read, so forward references are allowed.
package source
