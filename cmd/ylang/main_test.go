package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/runtime"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestRuntime(t *testing.T) *runtime.Runtime {
	t.Helper()
	rt, err := runtime.New(nil)
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	t.Cleanup(func() { rt.Close() })
	return rt
}

// writeConfig writes a ylang.toml into a fresh directory and returns its
// path.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "ylang.toml")
	src := `
[runtime]
preload = ["alpha"]

[bindings]
answer = 42

[image]
output = "snap.image"
store = "snaps.db"
`
	if err := os.WriteFile(p, []byte(src), 0644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

// run executes the CLI with args and returns its output.
func run(t *testing.T, args ...string) string {
	t.Helper()
	configPath, imagePath, verbose = "", "", 0
	imageName, imageEvals = "", nil

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("ylang %s: %v\n%s", strings.Join(args, " "), err, buf.String())
	}
	return buf.String()
}

// ---------------------------------------------------------------------------
// Evaluation
// ---------------------------------------------------------------------------

func TestEvalString(t *testing.T) {
	rt := newTestRuntime(t)
	results, err := evalString(rt, `(list 1 "two") (car (1 2)) t never-bound [x]`)
	if err != nil {
		t.Fatalf("evalString: %v", err)
	}
	var got []string
	for _, v := range results {
		got = append(got, lisp.Sprint(v))
	}
	want := `(1 "two")|1|t|nil|[x]`
	if strings.Join(got, "|") != want {
		t.Errorf("results = %s, want %s", strings.Join(got, "|"), want)
	}
}

func TestEvalStringStopsAtError(t *testing.T) {
	rt := newTestRuntime(t)
	results, err := evalString(rt, "(list 1) (car 5) (list 2)")
	var wt *lisp.WrongTypeError
	if !errors.As(err, &wt) {
		t.Fatalf("error = %v, want *lisp.WrongTypeError", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results before the error, want 1", len(results))
	}

	if _, err := evalString(rt, "(1 2)"); err == nil {
		t.Error("applying a non-symbol should fail")
	}
}

func TestIncomplete(t *testing.T) {
	rt := newTestRuntime(t)
	tests := []struct {
		src  string
		want bool
	}{
		{"(list 1", true},
		{"[1 2", true},
		{`(list "abc`, true},
		{"(a . )", false},
		{")", false},
		{"(list 1)", false},
	}
	for _, tc := range tests {
		_, err := evalString(rt, tc.src)
		if got := incomplete(err); got != tc.want {
			t.Errorf("incomplete(%q) = %v, want %v (err %v)", tc.src, got, tc.want, err)
		}
	}
}

func TestInputRunsFormsOnce(t *testing.T) {
	var out bytes.Buffer
	cfg := runtime.DefaultConfig()
	cfg.Output = &out
	rt, err := runtime.New(cfg)
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	defer rt.Close()

	var in input
	if _, ok := in.add([]byte(`(print 1) (list`)); ok {
		t.Fatal("input with an open list should not be complete")
	}
	if !in.pending() {
		t.Fatal("open input should stay pending")
	}
	if out.Len() != 0 {
		t.Errorf("forms ran before the input was complete: %q", out.String())
	}

	src, ok := in.add([]byte("2)"))
	if !ok {
		t.Fatal("closed input should be complete")
	}
	if in.pending() {
		t.Error("complete input should clear the buffer")
	}
	results, err := evalString(rt, src)
	if err != nil {
		t.Fatalf("evalString(%q): %v", src, err)
	}
	if out.String() != "1\n" {
		t.Errorf("print output = %q, want it once", out.String())
	}
	if got := lisp.Sprint(results[len(results)-1]); got != "(2)" {
		t.Errorf("last result = %s, want (2)", got)
	}
}

func TestInputDoesNotIntern(t *testing.T) {
	rt := newTestRuntime(t)
	before := rt.Table().Len()
	var in input
	in.add([]byte("(list brand-new-name"))
	if after := rt.Table().Len(); after != before {
		t.Errorf("obarray grew from %d to %d while buffering", before, after)
	}
	in.reset()
	if in.pending() {
		t.Error("reset should drop buffered input")
	}
}

func TestDescribe(t *testing.T) {
	rt := newTestRuntime(t)
	if got := describe(rt, "car"); !strings.Contains(got, "function: (car 1)") {
		t.Errorf("describe(car) = %q", got)
	}
	if got := describe(rt, "nil"); !strings.Contains(got, "value: nil") {
		t.Errorf("describe(nil) = %q", got)
	}
	if got := describe(rt, "not-interned-here"); !strings.Contains(got, "is not interned") {
		t.Errorf("describe(not-interned-here) = %q", got)
	}
	if _, ok := rt.Table().Lookup("not-interned-here"); ok {
		t.Error("describe should not intern its argument")
	}
}

func TestHandleREPLCommand(t *testing.T) {
	rt := newTestRuntime(t)
	var buf bytes.Buffer
	handleREPLCommand(&buf, rt, ":subrs")
	if !strings.Contains(buf.String(), "(intern 1..2)") {
		t.Errorf(":subrs output missing intern:\n%s", buf.String())
	}

	buf.Reset()
	handleREPLCommand(&buf, rt, ":atoms")
	if !strings.HasPrefix(buf.String(), "nil t f") {
		t.Errorf(":atoms output = %q", buf.String())
	}

	buf.Reset()
	handleREPLCommand(&buf, rt, ":bogus")
	if !strings.Contains(buf.String(), "Unknown command") {
		t.Errorf(":bogus output = %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func TestCallCommand(t *testing.T) {
	cfg := writeConfig(t)
	if got := run(t, "--config", cfg, "call", "list", "1", `"x"`, "alpha"); got != "(1 \"x\" alpha)\n" {
		t.Errorf("call list = %q", got)
	}
	if got := run(t, "--config", cfg, "call", "intern-soft", `"alpha"`); got != "alpha\n" {
		t.Errorf("call intern-soft = %q", got)
	}
}

func TestSubrsCommand(t *testing.T) {
	out := run(t, "--config", writeConfig(t), "subrs")
	if !strings.Contains(out, "(cons 2)\n") {
		t.Errorf("subrs output missing cons:\n%s", out)
	}
}

func TestImageSaveShow(t *testing.T) {
	cfg := writeConfig(t)
	out := run(t, "--config", cfg, "image", "save")
	path := filepath.Join(filepath.Dir(cfg), "snap.image")
	if !strings.Contains(out, path) {
		t.Errorf("save output = %q, want it to name %s", out, path)
	}

	out = run(t, "--config", cfg, "image", "show")
	if !strings.Contains(out, "answer") || !strings.Contains(out, "42") {
		t.Errorf("show output missing answer binding:\n%s", out)
	}

	out = run(t, "--config", cfg, "--image", path, "atoms")
	if !strings.Contains(out, "alpha") {
		t.Errorf("atoms from image missing alpha:\n%s", out)
	}
}

func TestImageStore(t *testing.T) {
	cfg := writeConfig(t)
	run(t, "--config", cfg, "image", "save", "--name", "first", "-e", "(intern \"beta\")")

	out := run(t, "--config", cfg, "image", "list")
	if !strings.Contains(out, "first") {
		t.Errorf("list output missing first:\n%s", out)
	}

	out = run(t, "--config", cfg, "image", "show", "--name", "first")
	if !strings.Contains(out, "symbols:") {
		t.Errorf("show --name output = %q", out)
	}

	run(t, "--config", cfg, "image", "delete", "first")
	out = run(t, "--config", cfg, "image", "list")
	if strings.Contains(out, "first") {
		t.Errorf("first still listed after delete:\n%s", out)
	}
}
