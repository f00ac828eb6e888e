package show

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/LegacyCodeHQ/implgen/cmd/show/formatters"
	"github.com/LegacyCodeHQ/implgen/resolver"
)

func writeSources(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "src")
	pkgDir := filepath.Join(dir, "com", "example")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatalf("os.MkdirAll() error = %v", err)
	}

	files := map[string]string{
		"Shape.java": `package com.example;

public abstract class Shape implements Comparable<Shape> {
    private Shape() {}
    public abstract double area();
}
`,
		"Drawable.java": `package com.example;

public interface Drawable {
    void draw(int x, int y);
}
`,
		"Circle.java": `package com.example;

public abstract class Circle implements Drawable {
    public abstract double radius();
    public void draw(int x, int y) {}
}
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(pkgDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("os.WriteFile() error = %v", err)
		}
	}
	return dir
}

func TestShowCommand_Text(t *testing.T) {
	src := writeSources(t)

	cmd := NewCommand()
	cmd.SetArgs([]string{"com.example.Circle", "-s", src})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("cmd.Execute() error = %v", err)
	}

	output := stdout.String()
	for _, want := range []string{
		"type: com.example.Circle\n",
		"kind: abstract class\n",
		"implementation: com.example.CircleImpl\n",
		"  extends java.lang.Object\n",
		"  implements com.example.Drawable\n",
		"constructors:\n  (implicit)\n",
		"required methods:\n  public double radius()\n",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "draw(") {
		t.Fatalf("draw is implemented by Circle and must not be required:\n%s", output)
	}
}

func TestShowCommand_JSON(t *testing.T) {
	src := writeSources(t)

	cmd := NewCommand()
	cmd.SetArgs([]string{"com.example.Drawable", "-s", src, "-f", "json"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("cmd.Execute() error = %v", err)
	}

	var report formatters.Report
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("json.Unmarshal() error = %v\n%s", err, stdout.String())
	}
	if report.Kind != "interface" || len(report.Methods) != 1 || report.Methods[0].Name != "draw" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestShowCommand_PrivateConstructorsFail(t *testing.T) {
	src := writeSources(t)

	cmd := NewCommand()
	cmd.SetArgs([]string{"com.example.Shape", "-s", src})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	if !errors.Is(err, resolver.ErrNoAccessibleConstructor) {
		t.Fatalf("cmd.Execute() error = %v, want ErrNoAccessibleConstructor", err)
	}
}

func TestShowCommand_UnknownFormat(t *testing.T) {
	cmd := NewCommand()
	cmd.SetArgs([]string{"com.example.Shape", "-s", writeSources(t), "-f", "svg"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("cmd.Execute() error = nil, want unknown format error")
	}
}

func TestShowCommand_Mermaid(t *testing.T) {
	cmd := NewCommand()
	cmd.SetArgs([]string{"com.example.Circle", "-s", writeSources(t), "-f", "mermaid"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("cmd.Execute() error = %v", err)
	}

	output := stdout.String()
	for _, want := range []string{
		"flowchart BT\n",
		"    n0[\"com.example.CircleImpl\"]\n",
		"    n1[\"com.example.Circle<br/>abstract class\"]\n",
		"    n0 --> n1\n",
		"    n1 -.-> n3\n",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
}
