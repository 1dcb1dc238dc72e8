package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/svgfx/fegraph/pkg/docstore"
	"github.com/svgfx/fegraph/pkg/editor"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	m := docstore.NewMemory()
	blur, err := m.InsertPrimitive(-1, "feGaussianBlur")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetAttr(blur, "result", "blurred"); err != nil {
		t.Fatal(err)
	}
	offset, err := m.InsertPrimitive(0, "feOffset")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetAttr(offset, "in", "blurred"); err != nil {
		t.Fatal(err)
	}
	m.ClearHistory()

	ed := editor.New(m)
	t.Cleanup(ed.Close)
	return NewServer(ed, "testdata/shadow.svg")
}

func TestHandleGraph(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/graph", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var data GraphData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Nodes) != 2 {
		t.Fatalf("nodes = %+v, want 2", data.Nodes)
	}
	if data.Nodes[0].Kind != "feGaussianBlur" || data.Nodes[1].Kind != "feOffset" {
		t.Errorf("node kinds = %+v", data.Nodes)
	}

	// Blur's input defaults to the base source, offset reads the blur.
	var sawResult, sawSource bool
	for _, e := range data.Edges {
		if e.Kind == "result" && e.Node == 1 && e.From == 0 {
			sawResult = true
			if e.Result != "blurred" {
				t.Errorf("result edge name = %q, want blurred", e.Result)
			}
		}
		if e.Kind == "source" && e.Node == 0 && e.Source == "SourceGraphic" {
			sawSource = true
		}
	}
	if !sawResult || !sawSource {
		t.Errorf("edges = %+v", data.Edges)
	}
}

func TestHandleRenderSVG(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/render.svg", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<svg") || !strings.Contains(body, "<line") {
		t.Errorf("render output does not look like an SVG frame:\n%s", body)
	}
}

func TestHandleHealthz(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["primitives"] != float64(2) {
		t.Errorf("health body = %+v", body)
	}
}

func TestHandleEventsRejectsUnknownTopic(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/events?topic=nope", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestIndexServesPreviewPage(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/render.svg") {
		t.Error("index page does not reference the rendered frame")
	}
}
