package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// WriteHTML answers a Datastar request with a single, non-streaming
// element patch. Patch options travel in datastar-* response headers.
func WriteHTML(w http.ResponseWriter, p protocol.PatchElements) error {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	if p.Selector != "" {
		h.Set(protocol.HeaderSelector, p.Selector)
	}
	if p.Mode != "" && p.Mode != protocol.DefaultElementPatchMode {
		h.Set(protocol.HeaderMode, string(p.Mode))
	}
	if p.UseViewTransition {
		h.Set(protocol.HeaderUseViewTransition, "true")
	}
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte(p.Elements))
	return err
}

// WriteSignals answers a Datastar request with a single, non-streaming
// signal patch.
func WriteSignals(w http.ResponseWriter, p protocol.PatchSignals) error {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	if p.OnlyIfMissing {
		h.Set(protocol.HeaderOnlyIfMissing, "true")
	}
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte(p.Signals))
	return err
}

// WriteScript answers a Datastar request with a script to execute. The
// tag attributes are sent as a JSON object in the
// datastar-script-attributes header.
func WriteScript(w http.ResponseWriter, s protocol.ExecuteScript) error {
	h := w.Header()
	h.Set("Content-Type", "text/javascript")
	if attrs := scriptAttributes(s.Attributes); len(attrs) > 0 {
		encoded, err := json.Marshal(attrs)
		if err != nil {
			return err
		}
		h.Set(protocol.HeaderScriptAttributes, string(encoded))
	}
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte(s.Script))
	return err
}

// scriptAttributes turns `key="value"` strings into a map. Bare names
// map to "true"; values are unquoted when quoted.
func scriptAttributes(attrs []string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		key, value, ok := strings.Cut(strings.TrimSpace(attr), "=")
		if key == "" {
			continue
		}
		if !ok {
			m[key] = "true"
			continue
		}
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		} else {
			value = strings.Trim(value, `'"`)
		}
		m[key] = value
	}
	return m
}
