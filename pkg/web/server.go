// Package web serves the live pipeline preview: graph JSON for tooling,
// the rendered SVG frame, and an SSE event stream that pushes rebuild
// notifications to the browser page.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/svgfx/fegraph/pkg/editor"
	"github.com/svgfx/fegraph/pkg/logging"
	"github.com/svgfx/fegraph/pkg/primitive"
	"github.com/svgfx/fegraph/pkg/pubsub"
	"github.com/svgfx/fegraph/pkg/ref"
	"github.com/svgfx/fegraph/pkg/render"
	"github.com/svgfx/fegraph/pkg/render/svgout"
)

// GraphNode is one primitive row in the graph JSON
type GraphNode struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Slots int    `json:"slots"`
}

// GraphEdge is one resolved input connection in the graph JSON
type GraphEdge struct {
	Node   int    `json:"node"`
	Slot   int    `json:"slot"`
	Kind   string `json:"kind"`             // "result", "source", "implicit"
	From   int    `json:"from,omitempty"`   // producer row for result/implicit edges
	Result string `json:"result,omitempty"` // producer's result name for result edges
	Source string `json:"source,omitempty"` // keyword for source edges
}

// GraphData holds the pipeline graph for visualization
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Server serves the preview for one editor
type Server struct {
	router    *mux.Router
	editor    *editor.Editor
	publisher pubsub.Publisher
	document  string
	metrics   render.Metrics
}

// NewServer creates a preview server over the given editor. Graph rebuilds
// are pushed to SSE subscribers automatically.
func NewServer(ed *editor.Editor, document string) *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// Late subscribers get the current state, not the full history.
	ssePublisher.RetainLast(pubsub.TopicGraph, pubsub.TopicDocument)

	s := &Server{
		router:    mux.NewRouter(),
		editor:    ed,
		publisher: ssePublisher,
		document:  document,
		metrics:   render.DefaultMetrics(),
	}
	s.setupRoutes()

	ed.OnRebuild(func(g *primitive.Graph) {
		s.publishGraphUpdate(g)
	})
	return s
}

// PublishDocumentStatus publishes a document lifecycle event
func (s *Server) PublishDocumentStatus(state, message string) error {
	return s.publisher.Publish(pubsub.TopicDocument, state, pubsub.DocumentStatus{
		Path:    s.document,
		State:   state,
		Message: message,
	})
}

func (s *Server) publishGraphUpdate(g *primitive.Graph) {
	connections := 0
	for i := 0; i < g.Len(); i++ {
		for slot := 0; slot < g.InputCount(i); slot++ {
			if g.Resolve(i, slot).Kind != primitive.Unresolved {
				connections++
			}
		}
	}
	err := s.publisher.Publish(pubsub.TopicGraph, "rebuilt", pubsub.GraphUpdate{
		Primitives:  g.Len(),
		Connections: connections,
		CanUndo:     s.editor.CanUndo(),
		CanRedo:     s.editor.CanRedo(),
	})
	if err != nil {
		logging.Warn("failed to publish graph update", "error", err)
	}
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestLogger)

	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/events", s.handleEvents).Methods("GET")
	s.router.HandleFunc("/render.svg", s.handleRenderSVG).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buildGraphData(s.editor.Graph(), s.editor.ResultName))
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	g := s.editor.Graph()
	a := render.NewAdapter(g, s.metrics)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	enc := svgout.NewEncoder(svgout.DefaultPalette())
	if err := enc.Encode(w, a.Width(), a.Height(), a.Frame(nil)); err != nil {
		logging.ErrorContext(r.Context(), "failed to encode frame", "error", err)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = pubsub.TopicGraph
	}
	if topic != pubsub.TopicGraph && topic != pubsub.TopicDocument {
		http.Error(w, fmt.Sprintf("unknown topic: %s", topic), http.StatusBadRequest)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Send initial comment to establish connection (Safari compatibility)
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.DebugContext(r.Context(), "SSE client gone", "error", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"document":   s.document,
		"primitives": s.editor.Graph().Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

// buildGraphData flattens the graph into nodes plus resolved edges.
// resultName maps the graph's result ids back to the document's names.
func buildGraphData(g *primitive.Graph, resultName func(int) string) *GraphData {
	data := &GraphData{
		Nodes: make([]GraphNode, 0, g.Len()),
		Edges: make([]GraphEdge, 0),
	}

	for i := 0; i < g.Len(); i++ {
		data.Nodes = append(data.Nodes, GraphNode{
			Index: i,
			Kind:  g.Node(i).Kind.String(),
			Slots: g.InputCount(i),
		})

		for slot := 0; slot < g.InputCount(i); slot++ {
			res := g.Resolve(i, slot)
			switch res.Kind {
			case primitive.Producer:
				data.Edges = append(data.Edges, GraphEdge{
					Node: i, Slot: slot, Kind: "result", From: res.NodeIndex,
					Result: resultName(g.Node(res.NodeIndex).Result),
				})
			case primitive.Standard:
				data.Edges = append(data.Edges, GraphEdge{
					Node: i, Slot: slot, Kind: "source", Source: ref.SourceKeyword(res.Source),
				})
			case primitive.ImplicitPrevious:
				edge := GraphEdge{Node: i, Slot: slot, Kind: "implicit", From: res.NodeIndex}
				if res.NodeIndex < 0 {
					edge.Kind = "source"
					edge.Source = ref.SourceKeyword(0)
				}
				data.Edges = append(data.Edges, edge)
			}
		}
	}

	return data
}

// Router exposes the handler for tests and custom servers.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting preview server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>fegraph preview</title>
<style>
body { font-family: sans-serif; margin: 2em; }
img { border: 1px solid #ccc; }
#status { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Filter pipeline</h1>
<p id="status">connecting&hellip;</p>
<img id="frame" src="/render.svg" alt="filter pipeline">
<script>
const es = new EventSource("/api/events?topic=graph");
es.onopen = () => { document.getElementById("status").textContent = "live"; };
es.onmessage = (m) => {
  const u = JSON.parse(m.data);
  document.getElementById("status").textContent =
    u.data.primitives + " primitives, " + u.data.connections + " connections";
  document.getElementById("frame").src = "/render.svg?t=" + Date.now();
};
es.onerror = () => { document.getElementById("status").textContent = "disconnected"; };
</script>
</body>
</html>
`
