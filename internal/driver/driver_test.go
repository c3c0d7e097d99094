package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ManifestName, `
[package]
name = "demo"

[build]
sources = ["main.td"]

[[bindings.module]]
name = "mount"
source = "./dom"

[bindings.const]
VERSION = 3
`)
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := m.Package.Name, "demo"; got != want {
		t.Errorf("name = %q, want %q", got, want)
	}
	if got, want := m.Build.Out, "demo.js"; got != want {
		t.Errorf("default out = %q, want %q", got, want)
	}
	if got, want := m.SourcePaths(), []string{filepath.Join(dir, "main.td")}; !reflect.DeepEqual(got, want) {
		t.Errorf("sources = %v, want %v", got, want)
	}
}

func TestLoadManifestRejectsBadKind(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ManifestName, `
[package]
name = "demo"

[build]
sources = ["main.td"]

[[bindings.module]]
name = "x"
source = "./x"
kind = "wildcard"
`)
	if _, err := LoadManifest(dir); err == nil {
		t.Fatal("want error for unknown import kind")
	}
}

func TestLoadManifestRequiresName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ManifestName, `
[build]
sources = ["main.td"]
`)
	if _, err := LoadManifest(dir); err == nil {
		t.Fatal("want error for missing package name")
	}
}

func TestTokenizeAndParseSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "one.td", "def one():\n    return 1\n")

	tr, err := Tokenize(path, 50)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Bag.HasErrors() {
		t.Fatalf("unexpected lex errors: %s", tr.Bag)
	}
	if len(tr.Tokens) == 0 {
		t.Fatal("no tokens")
	}

	pr, err := Parse(path, 50)
	if err != nil {
		t.Fatal(err)
	}
	if pr.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", pr.Bag)
	}
	if got, want := len(pr.Module.Funcs), 1; got != want {
		t.Fatalf("len(funcs) = %d, want %d", got, want)
	}
	if got, want := pr.Module.Funcs[0].Name, "one"; got != want {
		t.Errorf("func name = %q, want %q", got, want)
	}
}

func TestBuildWritesModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "greet.td", `def greet(name):
    return f"Hello, {name}!"

def shout(name):
    return greet(name).upper()
`)
	writeFile(t, dir, "render.td", `def render(el):
    return mount(el, VERSION)
`)
	writeFile(t, dir, ManifestName, `
[package]
name = "demo"

[build]
sources = ["greet.td", "render.td"]
out = "dist/demo.js"

[[bindings.module]]
name = "mount"
source = "./dom"
before = ["./polyfill"]

[[bindings.module]]
source = "./polyfill"
kind = "side-effect"

[bindings.const]
VERSION = 3
`)
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Build(context.Background(), m, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v (bags: %v)", err, res.Bags)
	}
	if got, want := len(res.Units), 3; got != want {
		t.Fatalf("len(units) = %d, want %d", got, want)
	}
	for name, u := range res.Units {
		if got := len(u.Fingerprint()); got != 64 {
			t.Errorf("%s: fingerprint length = %d, want 64", name, got)
		}
	}

	data, err := os.ReadFile(res.OutPath)
	if err != nil {
		t.Fatal(err)
	}
	want := `import "./polyfill";
import { mount } from "./dom";

const $c0 = 3;

export const greet = function(name) {
    return ` + "`Hello, ${name}!`" + `;
};

export const shout = function(name) {
    return greet(name).toUpperCase();
};

export const render = function(el) {
    return mount(el, $c0);
};
`
	if got := string(data); got != want {
		t.Errorf("module text:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildReportsSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.td", "def broken(:\n    return 1\n")
	writeFile(t, dir, ManifestName, `
[package]
name = "demo"

[build]
sources = ["bad.td"]
`)
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Build(context.Background(), m, BuildOptions{})
	if err != ErrBuildFailed {
		t.Fatalf("err = %v, want ErrBuildFailed", err)
	}
	if !res.HasErrors() {
		t.Error("expected diagnostics in the result")
	}
	if res.OutPath != "" {
		t.Error("no output should be written on failure")
	}
}

func TestBuildRejectsDuplicateFunctions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.td", "def same():\n    return 1\n")
	writeFile(t, dir, "b.td", "def same():\n    return 2\n")
	writeFile(t, dir, ManifestName, `
[package]
name = "demo"

[build]
sources = ["a.td", "b.td"]
`)
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Build(context.Background(), m, BuildOptions{})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("err = %v, want duplicate definition error", err)
	}
}

func TestArtifactCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cache, err := OpenArtifactCache("tidal-test")
	if err != nil {
		t.Fatal(err)
	}
	fp := strings.Repeat("ab", 32)
	in := &ArtifactPayload{
		Schema:      artifactSchemaVersion,
		Name:        "greet",
		ParamCount:  1,
		Fingerprint: fp,
		Code:        "function(name) {\n    return name;\n}",
		DepNames:    []string{"mount"},
	}
	if err := cache.Put(in); err != nil {
		t.Fatal(err)
	}

	var out ArtifactPayload
	ok, err := cache.Get(fp, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("cache miss after put")
	}
	if !reflect.DeepEqual(&out, in) {
		t.Errorf("payload = %+v, want %+v", out, *in)
	}

	ok, err = cache.Get(strings.Repeat("cd", 32), &out)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unexpected hit for absent key")
	}
}

func TestArtifactCacheRejectsBadFingerprint(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cache, err := OpenArtifactCache("tidal-test")
	if err != nil {
		t.Fatal(err)
	}
	err = cache.Put(&ArtifactPayload{Fingerprint: "not-a-digest"})
	if err == nil {
		t.Fatal("want error for malformed fingerprint")
	}
}
