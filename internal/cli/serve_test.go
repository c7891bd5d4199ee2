package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/geometry"
	"github.com/flowgridhq/flowgrid/pkg/store"
)

func testRegistry(t *testing.T) *store.Registry {
	t.Helper()
	r := store.NewRegistry(log.New(io.Discard))
	pos := geometry.XYPosition{X: 0, Y: 0}
	r.Create(store.Options{
		ID: "main",
		Nodes: []flow.NodePatch{
			{ID: "A", Position: &pos},
			{ID: "B", Position: &geometry.XYPosition{X: 100, Y: 0}},
		},
		Edges: []flow.EdgePatch{{Source: "A", Target: "B"}},
	})
	t.Cleanup(r.DisposeAll)
	return r
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestInspectionRouter(t *testing.T) {
	srv := httptest.NewServer(inspectionRouter(testRegistry(t)))
	defer srv.Close()

	t.Run("Instances", func(t *testing.T) {
		resp, body := get(t, srv, "/instances")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var ids []string
		if err := json.Unmarshal(body, &ids); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(ids) != 1 || ids[0] != "main" {
			t.Errorf("ids = %v, want [main]", ids)
		}
	})

	t.Run("InstanceSummary", func(t *testing.T) {
		resp, body := get(t, srv, "/instances/main")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var summary struct {
			ID    string `json:"id"`
			Nodes int    `json:"nodes"`
			Edges int    `json:"edges"`
		}
		if err := json.Unmarshal(body, &summary); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if summary.ID != "main" || summary.Nodes != 2 || summary.Edges != 1 {
			t.Errorf("summary = %+v", summary)
		}
	})

	t.Run("Nodes", func(t *testing.T) {
		_, body := get(t, srv, "/instances/main/nodes")
		var nodes []flow.Node
		if err := json.Unmarshal(body, &nodes); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(nodes) != 2 {
			t.Errorf("got %d nodes, want 2", len(nodes))
		}
	})

	t.Run("Viewport", func(t *testing.T) {
		_, body := get(t, srv, "/instances/main/viewport")
		var tr geometry.Transform
		if err := json.Unmarshal(body, &tr); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if tr.Zoom != 1 {
			t.Errorf("zoom = %v, want 1", tr.Zoom)
		}
	})

	t.Run("UnknownInstance", func(t *testing.T) {
		resp, _ := get(t, srv, "/instances/ghost")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}
