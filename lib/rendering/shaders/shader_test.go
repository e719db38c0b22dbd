package shaders_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fosdem/glbootstrap/lib/rendering/shaders"
	"github.com/fosdem/glbootstrap/lib/rendering/shaders/shadertest"
)

const (
	vertexSource   = "#version 430\nvoid main(){gl_Position=vec4(0);}"
	fragmentSource = "#version 430\nout vec4 c; void main(){c=vec4(1);}"
	brokenFragment = "#version 430\nout vec4 c; void main(){c=vec4(1)}"
)

func TestCompileValidSource(t *testing.T) {
	d := shadertest.New()

	s, err := shaders.Compile(d, vertexSource, shaders.VertexStage)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if s.ID() == 0 {
		t.Error("expected a non-zero handle")
	}
	if s.Stage() != shaders.VertexStage {
		t.Errorf("expected vertex stage, got %s", s.Stage())
	}
}

func TestCompileInvalidSource(t *testing.T) {
	d := shadertest.New()

	s, err := shaders.Compile(d, brokenFragment, shaders.FragmentStage)
	if err == nil {
		t.Fatal("expected compile error")
	}
	if s != nil {
		t.Error("expected no shader on failure")
	}

	var compileErr *shaders.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if compileErr.Log == "" {
		t.Error("expected non-empty driver log")
	}
	if !strings.Contains(compileErr.Log, "0:2(") {
		t.Errorf("expected line/column information in log, got %q", compileErr.Log)
	}
	if compileErr.Stage != shaders.FragmentStage {
		t.Errorf("expected fragment stage, got %s", compileErr.Stage)
	}
	if !strings.Contains(err.Error(), compileErr.Log) {
		t.Errorf("error text %q does not carry the driver log", err.Error())
	}
	if d.Live() != 0 {
		t.Errorf("failed shader was not released, %d objects live", d.Live())
	}
}

func TestCompileEmptyLog(t *testing.T) {
	d := shadertest.New()
	d.EmptyLogs = true

	_, err := shaders.Compile(d, brokenFragment, shaders.FragmentStage)
	var compileErr *shaders.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
	if compileErr.Log != "" {
		t.Errorf("expected empty log, got %q", compileErr.Log)
	}
}

func TestCompileStatusQueryFailure(t *testing.T) {
	d := shadertest.New()
	d.FailStatusQuery = true

	_, err := shaders.Compile(d, vertexSource, shaders.VertexStage)
	var queryErr *shaders.StatusQueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("expected *StatusQueryError, got %v", err)
	}
	if queryErr.Code != shadertest.InvalidOperation {
		t.Errorf("expected GL_INVALID_OPERATION, got 0x%x", queryErr.Code)
	}
	if d.Live() != 0 {
		t.Errorf("shader was not released, %d objects live", d.Live())
	}
}

func TestCompileSilentStatusQuery(t *testing.T) {
	d := shadertest.New()
	d.SilentStatusQuery = true

	_, err := shaders.Compile(d, vertexSource, shaders.VertexStage)
	var queryErr *shaders.StatusQueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("expected *StatusQueryError, got %v", err)
	}
	if queryErr.Code != 0 {
		t.Errorf("expected no GL error code, got 0x%x", queryErr.Code)
	}
}

func TestCompileIgnoresStaleErrors(t *testing.T) {
	d := shadertest.New()
	d.Raise(shadertest.InvalidOperation)

	_, err := shaders.Compile(d, vertexSource, shaders.VertexStage)
	if err != nil {
		t.Fatalf("stale GL error leaked into compile: %v", err)
	}
}

func TestCompileReportsDriverError(t *testing.T) {
	d := shadertest.New()
	d.Raise(shadertest.InvalidOperation)
	d.CompileRaises = shadertest.InvalidEnum

	_, err := shaders.Compile(d, vertexSource, shaders.VertexStage)
	var driverErr *shaders.DriverError
	if !errors.As(err, &driverErr) {
		t.Fatalf("expected *DriverError, got %v", err)
	}
	if driverErr.Code != shadertest.InvalidEnum {
		t.Errorf("expected the compile call's GL_INVALID_ENUM, got 0x%x", driverErr.Code)
	}
	if d.Live() != 0 {
		t.Errorf("shader was not released, %d objects live", d.Live())
	}
}

func TestCompileRejectsUnknownStage(t *testing.T) {
	d := shadertest.New()

	_, err := shaders.Compile(d, vertexSource, shaders.Stage(42))
	if err == nil {
		t.Fatal("expected an error for an unknown stage")
	}
	var queryErr *shaders.StatusQueryError
	if errors.As(err, &queryErr) {
		t.Errorf("unknown stage reported as status query failure: %v", err)
	}
	if d.GetError() != 0 {
		t.Error("no driver call should have been made")
	}
	if d.Live() != 0 {
		t.Errorf("expected no driver objects, %d live", d.Live())
	}
}

func TestCompileFromPath(t *testing.T) {
	d := shadertest.New()
	path := filepath.Join(t.TempDir(), "vertex.glsl")
	err := os.WriteFile(path, []byte(vertexSource), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	s, err := shaders.CompileFromPath(d, path, shaders.VertexStage)
	if err != nil {
		t.Fatalf("CompileFromPath returned error: %v", err)
	}
	if s.ID() == 0 {
		t.Error("expected a non-zero handle")
	}
}

func TestCompileFromMissingPath(t *testing.T) {
	d := shadertest.New()
	path := filepath.Join(t.TempDir(), "missing.glsl")

	_, err := shaders.CompileFromPath(d, path, shaders.VertexStage)
	var ioErr *shaders.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %v", err)
	}
	if ioErr.Path != path {
		t.Errorf("expected path %s, got %s", path, ioErr.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected IOError to wrap fs.ErrNotExist")
	}
	if d.Live() != 0 {
		t.Error("no driver object should be created when the file is unreadable")
	}
}

func TestShaderDeleteIsIdempotent(t *testing.T) {
	d := shadertest.New()
	s, err := shaders.Compile(d, vertexSource, shaders.VertexStage)
	if err != nil {
		t.Fatal(err)
	}
	id := s.ID()

	s.Delete()
	s.Delete()

	if !d.ShaderDeleted(id) {
		t.Error("expected shader to be deleted")
	}
	if s.ID() != 0 {
		t.Error("expected handle to be cleared")
	}
}

func TestParseStage(t *testing.T) {
	for _, name := range []string{"vertex", "fragment", "geometry", "compute", "Vertex"} {
		stage, err := shaders.ParseStage(name)
		if err != nil {
			t.Errorf("ParseStage(%q) failed: %v", name, err)
			continue
		}
		if !strings.EqualFold(stage.String(), name) {
			t.Errorf("ParseStage(%q) = %s", name, stage)
		}
	}

	if _, err := shaders.ParseStage("tessellation"); err == nil {
		t.Error("expected error for unknown stage")
	}
}
