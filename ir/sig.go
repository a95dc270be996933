package ir

import (
	"fmt"
	"strings"
)

// Constructor method name.
const InitName = "<init>"

// MethodRef identifies a method by declaring class, name and descriptor.
type MethodRef struct {
	Class  string
	Name   string
	Return Type
	Params []Type
}

// IsConstructor reports whether m names an instance initializer.
func (m *MethodRef) IsConstructor() bool {
	return m.Name == InitName
}

// Signature renders m as <Class: ret name(p1,p2)>.
func (m *MethodRef) Signature() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(m.Class)
	b.WriteString(": ")
	b.WriteString(string(m.Return))
	b.WriteByte(' ')
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(p))
	}
	b.WriteString(")>")
	return b.String()
}

func (m *MethodRef) String() string { return m.Signature() }

// Method is the method that owns a body.
type Method struct {
	MethodRef
	Static bool
}

// FieldRef identifies a field by declaring class, type and name.
type FieldRef struct {
	Class string
	Name  string
	Type  Type
}

// Signature renders f as <Class: type name>.
func (f *FieldRef) Signature() string {
	return "<" + f.Class + ": " + string(f.Type) + " " + f.Name + ">"
}

func (f *FieldRef) String() string { return f.Signature() }

// ParseMethodRef parses a signature of the form <Class: ret name(p1,p2)>.
func ParseMethodRef(sig string) (*MethodRef, error) {
	inner, ok := trimAngles(sig)
	if !ok {
		return nil, fmt.Errorf("method signature %q: missing angle brackets", sig)
	}
	class, rest, ok := strings.Cut(inner, ": ")
	if !ok || class == "" {
		return nil, fmt.Errorf("method signature %q: missing declaring class", sig)
	}
	ret, rest, ok := strings.Cut(rest, " ")
	if !ok || ret == "" {
		return nil, fmt.Errorf("method signature %q: missing return type", sig)
	}
	open := strings.IndexByte(rest, '(')
	if open <= 0 || !strings.HasSuffix(rest, ")") {
		return nil, fmt.Errorf("method signature %q: malformed parameter list", sig)
	}
	m := &MethodRef{
		Class:  class,
		Name:   rest[:open],
		Return: Type(ret),
	}
	params := strings.TrimSpace(rest[open+1 : len(rest)-1])
	if params != "" {
		for _, p := range strings.Split(params, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				return nil, fmt.Errorf("method signature %q: empty parameter type", sig)
			}
			m.Params = append(m.Params, Type(p))
		}
	}
	return m, nil
}

// ParseFieldRef parses a signature of the form <Class: type name>.
func ParseFieldRef(sig string) (*FieldRef, error) {
	inner, ok := trimAngles(sig)
	if !ok {
		return nil, fmt.Errorf("field signature %q: missing angle brackets", sig)
	}
	class, rest, ok := strings.Cut(inner, ": ")
	if !ok || class == "" {
		return nil, fmt.Errorf("field signature %q: missing declaring class", sig)
	}
	typ, name, ok := strings.Cut(rest, " ")
	if !ok || typ == "" || name == "" {
		return nil, fmt.Errorf("field signature %q: expected \"type name\"", sig)
	}
	return &FieldRef{Class: class, Type: Type(typ), Name: name}, nil
}

func trimAngles(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '<' || s[len(s)-1] != '>' {
		return "", false
	}
	return s[1 : len(s)-1], true
}
