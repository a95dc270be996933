package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/jimple"
	"github.com/wippyai/treeir/tree"
)

// Styles colours the parts of a rendered body.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Keyword lipgloss.Style
	Local   lipgloss.Style
	Trap    lipgloss.Style
}

// DefaultStyles returns the terminal colour scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		Keyword: lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		Local:   lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		Trap:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

// Printer renders bodies.
type Printer struct {
	// Styles colours the output; nil prints plain text.
	Styles *Styles
	// Names supplies label names by statement index. Targets without a name
	// are labelled label0, label1, ... in statement order.
	Names []string
}

// body is the part of a flat or tree body the printer needs.
type body struct {
	signature string
	locals    []*ir.Local
	stmts     []ir.Unit
	traps     []trap
}

type trap struct {
	exception           ir.Type
	begin, end, handler ir.Unit
}

// Flat writes a flat body to w.
func (p *Printer) Flat(w io.Writer, b *jimple.Body) error {
	v := body{signature: b.Signature(), locals: b.Locals}
	for _, s := range b.Stmts {
		v.stmts = append(v.stmts, s)
	}
	for _, t := range b.Traps {
		v.traps = append(v.traps, trap{exception: t.Exception, begin: t.Begin, end: t.End, handler: t.Handler})
	}
	return p.write(w, &v)
}

// Tree writes a tree body to w.
func (p *Printer) Tree(w io.Writer, b *tree.Body) error {
	v := body{signature: b.Signature(), locals: b.Locals}
	for _, s := range b.Stmts {
		v.stmts = append(v.stmts, s)
	}
	for _, t := range b.Traps {
		v.traps = append(v.traps, trap{exception: t.Exception, begin: t.Begin, end: t.End, handler: t.Handler})
	}
	return p.write(w, &v)
}

// Flat renders a flat body as plain text.
func Flat(b *jimple.Body) string {
	var sb strings.Builder
	_ = (&Printer{}).Flat(&sb, b)
	return sb.String()
}

// Tree renders a tree body as plain text.
func Tree(b *tree.Body) string {
	var sb strings.Builder
	_ = (&Printer{}).Tree(&sb, b)
	return sb.String()
}

func (p *Printer) paint(st lipgloss.Style, s string) string {
	if p.Styles == nil {
		return s
	}
	return st.Render(s)
}

func (p *Printer) style() *Styles {
	if p.Styles == nil {
		return &Styles{}
	}
	return p.Styles
}

func (p *Printer) write(w io.Writer, b *body) error {
	st := p.style()
	labels := p.labels(b)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s {\n", p.paint(st.Header, b.signature))
	for _, decl := range declarations(b.locals) {
		fmt.Fprintf(bw, "    %s\n", p.paint(st.Local, decl))
	}
	if len(b.locals) > 0 && len(b.stmts) > 0 {
		bw.WriteString("\n")
	}
	for _, s := range b.stmts {
		if name, ok := labels[s]; ok {
			fmt.Fprintf(bw, "%s\n", p.paint(st.Label, name+":"))
		}
		fmt.Fprintf(bw, "    %s\n", p.stmt(s, labels))
	}
	if len(b.traps) > 0 {
		bw.WriteString("\n")
	}
	for _, t := range b.traps {
		line := fmt.Sprintf("catch %s from %s to %s with %s",
			t.exception, labelOf(labels, t.begin), labelOf(labels, t.end), labelOf(labels, t.handler))
		fmt.Fprintf(bw, "    %s\n", p.paint(st.Trap, line))
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// labels names every statement that is a branch target or a trap boundary.
func (p *Printer) labels(b *body) map[ir.Unit]string {
	want := make(map[ir.Unit]bool)
	for _, s := range b.stmts {
		for _, t := range s.Branches() {
			want[t] = true
		}
	}
	for _, t := range b.traps {
		want[t.begin], want[t.end], want[t.handler] = true, true, true
	}

	out := make(map[ir.Unit]string, len(want))
	next := 0
	for _, s := range b.stmts {
		if !want[s] {
			continue
		}
		if i := s.Index(); i >= 0 && i < len(p.Names) && p.Names[i] != "" {
			out[s] = p.Names[i]
			continue
		}
		out[s] = fmt.Sprintf("label%d", next)
		next++
	}
	return out
}

func labelOf(labels map[ir.Unit]string, u ir.Unit) string {
	if name, ok := labels[u]; ok {
		return name
	}
	return ir.UnitLabel(u)
}

// stmt renders one statement with its targets replaced by labels.
func (p *Printer) stmt(s ir.Unit, labels map[ir.Unit]string) string {
	kw := func(k string) string { return p.paint(p.style().Keyword, k) }
	target := func(u ir.Unit) string { return labelOf(labels, u) }

	switch s := s.(type) {
	case *jimple.GotoStmt:
		return kw("goto") + " " + target(s.Target)
	case *tree.GotoStmt:
		return kw("goto") + " " + target(s.Target)
	case *jimple.IfStmt:
		return kw("if") + " " + s.Cond.String() + " " + kw("goto") + " " + target(s.Target)
	case *tree.IfStmt:
		return kw("if") + " " + s.Cond.String() + " " + kw("goto") + " " + target(s.Target)
	case *jimple.LookupSwitchStmt:
		return switchText(kw("lookupswitch"), s.Key.String(), len(s.Targets),
			func(i int) int32 { return valueAt(s.Values, i) },
			func(i int) string { return target(s.Targets[i]) }, target(s.Default), kw)
	case *tree.LookupSwitchStmt:
		return switchText(kw("lookupswitch"), s.Key.String(), len(s.Targets),
			func(i int) int32 { return valueAt(s.Values, i) },
			func(i int) string { return target(s.Targets[i]) }, target(s.Default), kw)
	case *jimple.TableSwitchStmt:
		return switchText(kw("tableswitch"), s.Key.String(), len(s.Targets),
			func(i int) int32 { return s.Low + int32(i) },
			func(i int) string { return target(s.Targets[i]) }, target(s.Default), kw)
	case *tree.TableSwitchStmt:
		return switchText(kw("tableswitch"), s.Key.String(), len(s.Targets),
			func(i int) int32 { return s.Low + int32(i) },
			func(i int) string { return target(s.Targets[i]) }, target(s.Default), kw)
	}
	return s.String()
}

func switchText(name, key string, n int, value func(int) int32, target func(int) string, def string, kw func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s) {", name, key)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s %d: %s %s; ", kw("case"), value(i), kw("goto"), target(i))
	}
	fmt.Fprintf(&b, "%s: %s %s}", kw("default"), kw("goto"), def)
	return b.String()
}

// declarations groups locals by type in order of first appearance:
// "int a, b;".
func declarations(locals []*ir.Local) []string {
	var order []ir.Type
	names := make(map[ir.Type][]string)
	for _, l := range locals {
		if _, seen := names[l.Type]; !seen {
			order = append(order, l.Type)
		}
		names[l.Type] = append(names[l.Type], l.Name)
	}
	out := make([]string, len(order))
	for i, t := range order {
		out[i] = fmt.Sprintf("%s %s;", t, strings.Join(names[t], ", "))
	}
	return out
}

func valueAt(values []int32, i int) int32 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
