package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/netglobe/model"
)

// SceneFormat selects the scene file encoding.
type SceneFormat string

const (
	SceneJSON SceneFormat = "json"
	SceneYAML SceneFormat = "yaml"
)

// internal file shapes, unexported so the on-disk format can evolve
// without touching model types.
type sceneFile struct {
	Locations []locationJSON `json:"locations,omitempty" yaml:"locations,omitempty"`
	Edges     []edgeJSON     `json:"edges,omitempty" yaml:"edges,omitempty"`
	Planar    *planarJSON    `json:"planar,omitempty" yaml:"planar,omitempty"`
}

type locationJSON struct {
	ID    string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string  `json:"name" yaml:"name"`
	Lat   float64 `json:"lat" yaml:"lat"`
	Lng   float64 `json:"lng" yaml:"lng"`
	Color string  `json:"color" yaml:"color"`
}

type planarJSON struct {
	Nodes []planarNodeJSON `json:"nodes" yaml:"nodes"`
	Edges []edgeJSON       `json:"edges" yaml:"edges"`
}

type planarNodeJSON struct {
	ID    string  `json:"id" yaml:"id"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Color string  `json:"color" yaml:"color"`
	Size  float64 `json:"size" yaml:"size"`
}

// edgeJSON accepts either index pairs or node id pairs.
type edgeJSON struct {
	From   *int   `json:"from,omitempty" yaml:"from,omitempty"`
	To     *int   `json:"to,omitempty" yaml:"to,omitempty"`
	FromID string `json:"from_id,omitempty" yaml:"from_id,omitempty"`
	ToID   string `json:"to_id,omitempty" yaml:"to_id,omitempty"`
}

// FormatFromPath picks a SceneFormat from a file extension, defaulting to JSON.
func FormatFromPath(path string) SceneFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SceneYAML
	default:
		return SceneJSON
	}
}

// LoadSceneFile reads a scene from disk.
func LoadSceneFile(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, fmt.Errorf("LoadSceneFile: %w", err)
	}
	defer f.Close()
	return LoadScene(f, FormatFromPath(path))
}

// LoadScene decodes a scene. It fails on decode errors, on edges that name
// neither an index pair nor an id pair, and on a scene with no nodes.
// Index bounds are checked later, at graph construction.
func LoadScene(r io.Reader, format SceneFormat) (Scene, error) {
	var payload sceneFile
	switch format {
	case SceneYAML:
		if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
			return Scene{}, fmt.Errorf("LoadScene: decode yaml: %w", err)
		}
	case SceneJSON, "":
		if err := json.NewDecoder(r).Decode(&payload); err != nil {
			return Scene{}, fmt.Errorf("LoadScene: decode json: %w", err)
		}
	default:
		return Scene{}, fmt.Errorf("LoadScene: unsupported format %q", format)
	}

	var scene Scene
	for _, l := range payload.Locations {
		scene.Locations = append(scene.Locations, model.Location{
			ID:    l.ID,
			Name:  l.Name,
			Lat:   l.Lat,
			Lng:   l.Lng,
			Color: l.Color,
		})
	}
	edges, err := decodeEdges("edges", payload.Edges)
	if err != nil {
		return Scene{}, err
	}
	scene.SphereEdges = edges

	if payload.Planar != nil {
		for _, n := range payload.Planar.Nodes {
			scene.PlanarNodes = append(scene.PlanarNodes, model.PlanarNode{
				ID:    n.ID,
				Label: n.Label,
				X:     n.X,
				Y:     n.Y,
				Color: n.Color,
				Size:  n.Size,
			})
		}
		edges, err := decodeEdges("planar.edges", payload.Planar.Edges)
		if err != nil {
			return Scene{}, err
		}
		scene.PlanarEdges = edges
	}

	if len(scene.Locations) == 0 && len(scene.PlanarNodes) == 0 {
		return Scene{}, fmt.Errorf("LoadScene: %w", ErrEmptyScene)
	}
	return scene, nil
}

func decodeEdges(field string, in []edgeJSON) ([]model.Edge, error) {
	out := make([]model.Edge, 0, len(in))
	for i, e := range in {
		switch {
		case e.FromID != "" || e.ToID != "":
			if e.FromID == "" || e.ToID == "" {
				return nil, fmt.Errorf("LoadScene: %s[%d]: from_id and to_id must both be set", field, i)
			}
			out = append(out, model.Edge{FromID: e.FromID, ToID: e.ToID})
		case e.From != nil && e.To != nil:
			out = append(out, model.Edge{From: *e.From, To: *e.To})
		default:
			return nil, fmt.Errorf("LoadScene: %s[%d]: need from/to or from_id/to_id", field, i)
		}
	}
	return out, nil
}

// EncodeScene writes a scene in the given format.
func EncodeScene(w io.Writer, scene Scene, format SceneFormat) error {
	payload := sceneFile{
		Edges: encodeEdges(scene.SphereEdges),
	}
	for _, l := range scene.Locations {
		payload.Locations = append(payload.Locations, locationJSON(l))
	}
	if len(scene.PlanarNodes) > 0 {
		payload.Planar = &planarJSON{Edges: encodeEdges(scene.PlanarEdges)}
		for _, n := range scene.PlanarNodes {
			payload.Planar.Nodes = append(payload.Planar.Nodes, planarNodeJSON(n))
		}
	}

	switch format {
	case SceneYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("EncodeScene: %w", err)
		}
		return enc.Close()
	case SceneJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("EncodeScene: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("EncodeScene: unsupported format %q", format)
	}
}

func encodeEdges(edges []model.Edge) []edgeJSON {
	out := make([]edgeJSON, 0, len(edges))
	for _, e := range edges {
		if e.ByID() {
			out = append(out, edgeJSON{FromID: e.FromID, ToID: e.ToID})
			continue
		}
		from, to := e.From, e.To
		out = append(out, edgeJSON{From: &from, To: &to})
	}
	return out
}
