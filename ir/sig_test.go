package ir

import "testing"

func TestParseMethodRef(t *testing.T) {
	tests := []struct {
		sig    string
		class  string
		name   string
		ret    Type
		params []Type
	}{
		{"<Foo: void <init>()>", "Foo", "<init>", Void, nil},
		{"<java.io.PrintStream: void println(java.lang.String)>", "java.io.PrintStream", "println", Void, []Type{String}},
		{"<a.B: int[] pick(int, long[][])>", "a.B", "pick", "int[]", []Type{Int, "long[][]"}},
	}

	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			m, err := ParseMethodRef(tt.sig)
			if err != nil {
				t.Fatalf("ParseMethodRef: %v", err)
			}
			if m.Class != tt.class || m.Name != tt.name || m.Return != tt.ret {
				t.Errorf("got %s %s %s, want %s %s %s", m.Class, m.Return, m.Name, tt.class, tt.ret, tt.name)
			}
			if len(m.Params) != len(tt.params) {
				t.Fatalf("params = %v, want %v", m.Params, tt.params)
			}
			for i := range tt.params {
				if m.Params[i] != tt.params[i] {
					t.Errorf("param %d = %s, want %s", i, m.Params[i], tt.params[i])
				}
			}
		})
	}
}

func TestParseMethodRef_Signature(t *testing.T) {
	const sig = "<a.B: int[] pick(int,long[][])>"
	m, err := ParseMethodRef(sig)
	if err != nil {
		t.Fatal(err)
	}
	if m.Signature() != sig {
		t.Errorf("Signature() = %q, want %q", m.Signature(), sig)
	}
	if m.IsConstructor() {
		t.Error("pick is not a constructor")
	}
}

func TestParseMethodRef_Errors(t *testing.T) {
	for _, sig := range []string{
		"Foo: void run()",
		"<void run()>",
		"<Foo: run>",
		"<Foo: void run>",
		"<Foo: void run(int,)>",
	} {
		if _, err := ParseMethodRef(sig); err == nil {
			t.Errorf("ParseMethodRef(%q) should fail", sig)
		}
	}
}

func TestParseFieldRef(t *testing.T) {
	f, err := ParseFieldRef("<java.lang.System: java.io.PrintStream out>")
	if err != nil {
		t.Fatal(err)
	}
	if f.Class != "java.lang.System" || f.Type != "java.io.PrintStream" || f.Name != "out" {
		t.Errorf("got %+v", f)
	}
	if f.Signature() != "<java.lang.System: java.io.PrintStream out>" {
		t.Errorf("Signature() = %q", f.Signature())
	}

	for _, sig := range []string{"<Foo: int>", "Foo: int x", "<: int x>"} {
		if _, err := ParseFieldRef(sig); err == nil {
			t.Errorf("ParseFieldRef(%q) should fail", sig)
		}
	}
}
