package runner

import (
	"context"
	"errors"
	"testing"
)

func TestResultOK(t *testing.T) {
	if !(Result{Status: StatusOK}).OK() {
		t.Error("StatusOK should report OK")
	}
	if (Result{Status: StatusFailed}).OK() {
		t.Error("StatusFailed should not report OK")
	}
	if (Result{Status: StatusToolMissing}).OK() {
		t.Error("StatusToolMissing should not report OK")
	}
}

func TestResultDetail(t *testing.T) {
	r := Result{Stdout: "out", Stderr: "err"}
	if r.Detail() != "err" {
		t.Errorf("Detail = %q, want stderr first", r.Detail())
	}
	r = Result{Stdout: "out"}
	if r.Detail() != "out" {
		t.Errorf("Detail = %q, want stdout", r.Detail())
	}
	r = Result{Err: errors.New("boom")}
	if r.Detail() != "boom" {
		t.Errorf("Detail = %q, want error text", r.Detail())
	}
	if (Result{}).Detail() != "" {
		t.Error("empty result should have empty detail")
	}
}

func TestFuncAdapter(t *testing.T) {
	var gotDir, gotName string
	var gotArgs []string
	f := Func(func(_ context.Context, dir, name string, args ...string) Result {
		gotDir, gotName, gotArgs = dir, name, args
		return Result{Status: StatusOK, Stdout: "done"}
	})

	res := f.Run(context.Background(), "/work", "git", "status", "--short")
	if !res.OK() || res.Stdout != "done" {
		t.Errorf("Run = %+v", res)
	}
	if gotDir != "/work" || gotName != "git" || len(gotArgs) != 2 {
		t.Errorf("arguments not forwarded: %q %q %v", gotDir, gotName, gotArgs)
	}
	if !f.LookPath("anything") {
		t.Error("Func.LookPath should always report present")
	}
}

func TestExecMissingTool(t *testing.T) {
	res := NewExec().Run(context.Background(), t.TempDir(), "relkit-no-such-binary-xyz")
	if res.Status != StatusToolMissing {
		t.Errorf("Status = %v, want StatusToolMissing", res.Status)
	}
	if NewExec().LookPath("relkit-no-such-binary-xyz") {
		t.Error("LookPath should not find a nonexistent binary")
	}
}
