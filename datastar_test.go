package datastar_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/datastar"
	"github.com/vango-dev/datastar/pkg/dstest"
)

func greet(w http.ResponseWriter, r *http.Request) {
	var sig struct {
		Name string `json:"name"`
	}
	if err := datastar.ReadSignals(r, &sig); err != nil {
		datastar.WriteSignalsError(w, err)
		return
	}
	sse, err := datastar.NewSSE(w, r)
	if err != nil {
		return
	}
	_ = sse.PatchElements(`<div id="greeting">Hello, ` + sig.Name + `</div>`)
	_ = sse.Send(datastar.NewPatchSignals(`{"greeted":true}`).WithID("1"))
}

func TestFacadeRoundTrip(t *testing.T) {
	req := dstest.Post("/").WithSignals(map[string]string{"name": "Ada"}).Build()
	s := dstest.Serve(t, http.HandlerFunc(greet), req)

	require.Equal(t, http.StatusOK, s.Code)
	require.Len(t, s.Events, 2)
	assert.Equal(t, datastar.EventTypePatchElements, s.Events[0].Type)
	assert.Equal(t, []string{`elements <div id="greeting">Hello, Ada</div>`}, s.Events[0].Data)
	assert.Equal(t, "1", s.Events[1].ID)
}

func TestFacadeRejectsMissingSignals(t *testing.T) {
	rec := httptest.NewRecorder()
	greet(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFacadeBuilders(t *testing.T) {
	ev := datastar.NewPatchElements("<li>x</li>").
		WithSelector("#list").
		WithMode(datastar.ModeAppend).
		DatastarEvent()
	assert.Equal(t, "event: datastar-patch-elements\ndata: selector #list\ndata: mode append\ndata: elements <li>x</li>\n\n", ev.String())

	rm := datastar.NewRemoveElements("#gone").DatastarEvent()
	assert.Equal(t, []string{"selector #gone", "mode remove"}, rm.Data)

	p, err := datastar.MarshalPatchSignals(map[string]int{"n": 1})
	require.NoError(t, err)
	out := p.DatastarEvent()
	assert.Equal(t, []string{`signals {"n":1}`}, out.Data)

	script := datastar.NewExecuteScript("go()").WithAutoRemove(false).DatastarEvent()
	assert.True(t, strings.HasSuffix(script.Data[len(script.Data)-1], "<script>go()</script>"))
}

func TestIsDatastarRequest(t *testing.T) {
	assert.True(t, datastar.IsDatastarRequest(dstest.Get("/").Build()))
	assert.False(t, datastar.IsDatastarRequest(httptest.NewRequest(http.MethodGet, "/", nil)))

	var sig map[string]any
	ok, err := datastar.ReadSignalsOptional(httptest.NewRequest(http.MethodGet, "/", nil), &sig)
	assert.NoError(t, err)
	assert.False(t, ok)
}
