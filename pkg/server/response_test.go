package server

import (
	"net/http/httptest"
	"testing"

	"github.com/vango-dev/datastar/pkg/protocol"
)

func TestWriteHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	p := protocol.NewPatchElements("<li>x</li>").
		WithSelector("#list").
		WithMode(protocol.ModeAppend).
		WithViewTransition(true)

	if err := WriteHTML(rec, p); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}

	checks := map[string]string{
		"Content-Type":                   "text/html; charset=utf-8",
		protocol.HeaderSelector:          "#list",
		protocol.HeaderMode:              "append",
		protocol.HeaderUseViewTransition: "true",
	}
	for k, v := range checks {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
	if rec.Body.String() != "<li>x</li>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestWriteHTMLDefaultsOmitHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteHTML(rec, protocol.NewPatchElements(`<p id="a"></p>`)); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	for _, k := range []string{protocol.HeaderSelector, protocol.HeaderMode, protocol.HeaderUseViewTransition} {
		if got := rec.Header().Get(k); got != "" {
			t.Errorf("header %s = %q, want empty", k, got)
		}
	}
}

func TestWriteSignals(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteSignals(rec, protocol.NewPatchSignals(`{"a":1}`).WithOnlyIfMissing(true)); err != nil {
		t.Fatalf("WriteSignals() error = %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get(protocol.HeaderOnlyIfMissing); got != "true" {
		t.Errorf("%s = %q, want true", protocol.HeaderOnlyIfMissing, got)
	}
	if rec.Body.String() != `{"a":1}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestWriteScript(t *testing.T) {
	rec := httptest.NewRecorder()
	s := protocol.NewExecuteScript("run()").WithAttributes(`type="module"`, "defer")

	if err := WriteScript(rec, s); err != nil {
		t.Fatalf("WriteScript() error = %v", err)
	}

	if got, want := rec.Header().Get(protocol.HeaderScriptAttributes), `{"defer":"true","type":"module"}`; got != want {
		t.Errorf("%s = %q, want %q", protocol.HeaderScriptAttributes, got, want)
	}
	if rec.Body.String() != "run()" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
