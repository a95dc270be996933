package source

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/jimple"
	"gopkg.in/yaml.v3"
)

// Class is a decoded class description.
type Class struct {
	Name    string
	Methods []*jimple.Body
	// Labels maps every method signature to its statement labels, by
	// statement index.
	Labels map[string][]string
}

// Method returns the first method with the given name, or nil.
func (c *Class) Method(name string) *jimple.Body {
	for _, m := range c.Methods {
		if m.Method != nil && m.Method.Name == name {
			return m
		}
	}
	return nil
}

type classDoc struct {
	Class   string      `yaml:"class"`
	Methods []methodDoc `yaml:"methods"`
}

type methodDoc struct {
	Name   string     `yaml:"name"`
	Return string     `yaml:"return"`
	Params []string   `yaml:"params"`
	Locals []localDoc `yaml:"locals"`
	Body   []string   `yaml:"body"`
	Traps  []trapDoc  `yaml:"traps"`
	Static bool       `yaml:"static"`
}

type localDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// pendingRef is a label reference together with the document path of the
// statement that made it.
type pendingRef struct {
	labelRef
	at []string
}

type trapDoc struct {
	Exception string `yaml:"exception"`
	Begin     string `yaml:"begin"`
	End       string `yaml:"end"`
	Handler   string `yaml:"handler"`
}

// Load reads and parses a class description file.
func Load(path string) (*Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load(fmt.Sprintf("read %s", path), err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes a class description.
func Parse(data []byte) (*Class, error) {
	var doc classDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ParseFailed("class document", err)
	}
	if doc.Class == "" {
		return nil, errors.InvalidData(errors.PhaseParse, nil, "missing class name")
	}

	c := &Class{Name: doc.Class, Labels: make(map[string][]string)}
	for i := range doc.Methods {
		body, labels, err := buildMethod(doc.Class, &doc.Methods[i])
		if err != nil {
			return nil, err
		}
		c.Methods = append(c.Methods, body)
		c.Labels[body.Signature()] = labels
	}
	return c, nil
}

func buildMethod(class string, md *methodDoc) (*jimple.Body, []string, error) {
	path := []string{class, md.Name}
	if md.Name == "" {
		return nil, nil, errors.InvalidData(errors.PhaseParse, []string{class}, "method without a name")
	}

	m := &ir.Method{
		MethodRef: ir.MethodRef{Class: class, Name: md.Name, Return: ir.Void},
		Static:    md.Static,
	}
	if md.Return != "" {
		m.Return = ir.Type(md.Return)
	}
	for _, p := range md.Params {
		m.Params = append(m.Params, ir.Type(p))
	}

	body := jimple.NewBody(m)
	for _, ld := range md.Locals {
		if ld.Name == "" || ld.Type == "" {
			return nil, nil, errors.InvalidData(errors.PhaseParse, path, "local needs a name and a type")
		}
		if body.Local(ld.Name) != nil {
			return nil, nil, errors.Duplicate(errors.PhaseParse, path, "local", ld.Name)
		}
		body.NewLocal(ld.Name, ir.Type(ld.Type))
	}

	labels := make(map[string]jimple.Stmt)
	names := make([]string, 0, len(md.Body))
	var refs []pendingRef
	for i, line := range md.Body {
		at := append(path[:2:2], fmt.Sprintf("body[%d]", i))
		ps, err := parseStmt(line, body)
		if err != nil {
			return nil, nil, stmtError(at, line, err)
		}
		body.Add(ps.stmt)
		names = append(names, ps.label)
		if ps.label != "" {
			if _, dup := labels[ps.label]; dup {
				return nil, nil, errors.Duplicate(errors.PhaseParse, at, "label", ps.label)
			}
			labels[ps.label] = ps.stmt
		}
		for _, r := range ps.refs {
			refs = append(refs, pendingRef{labelRef: r, at: at})
		}
	}

	for _, r := range refs {
		s, ok := labels[r.name]
		if !ok {
			return nil, nil, errors.NotFound(errors.PhaseParse, r.at, "label", r.name)
		}
		r.set(s)
	}

	for i, td := range md.Traps {
		at := append(path[:2:2], fmt.Sprintf("traps[%d]", i))
		if td.Exception == "" {
			return nil, nil, errors.InvalidData(errors.PhaseParse, at, "trap needs an exception type")
		}
		var bounds [3]jimple.Stmt
		for j, name := range [3]string{td.Begin, td.End, td.Handler} {
			s, ok := labels[name]
			if !ok {
				return nil, nil, errors.NotFound(errors.PhaseParse, at, "label", name)
			}
			bounds[j] = s
		}
		body.AddTrap(ir.Type(td.Exception), bounds[0], bounds[1], bounds[2])
	}
	return body, names, nil
}

func stmtError(at []string, line string, err error) error {
	var undeclared *undeclaredError
	if stderrors.As(err, &undeclared) {
		return errors.NotFound(errors.PhaseParse, at, "local", undeclared.name)
	}
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Path(at...).
		Value(line).
		Detail("%q", line).
		Cause(err).
		Build()
}
