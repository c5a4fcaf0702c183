package testbed

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spaghettifunk/citymesh/engine"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/math"
	"github.com/spaghettifunk/citymesh/engine/metadata"
	"github.com/spaghettifunk/citymesh/engine/systems"
)

// TestHost is a reference host: it turns every imported scene into a node
// graph with palette materials and logs what it built.
type TestHost struct {
	*engine.Host
}

type hostState struct {
	mutex  sync.RWMutex
	graphs map[string][]*SceneGraph
	failed map[string]error
}

// Node is one city object in a scene graph.
type Node struct {
	Name     string
	Mesh     *metadata.Mesh
	Parent   *Node
	Children []*Node
	// One material per semantic surface of the mesh.
	Materials []*metadata.Material
	// Index into Materials per face, -1 uses the default material.
	FaceMaterials []int
}

type SceneGraph struct {
	Name  string
	Roots []*Node
	nodes map[string]*Node
}

// Node returns the node of the given city object.
func (sg *SceneGraph) Node(objectID string) *Node {
	return sg.nodes[objectID]
}

func NewTestHost() (*TestHost, error) {
	th := &TestHost{
		Host: &engine.Host{
			State: &hostState{
				graphs: make(map[string][]*SceneGraph),
				failed: make(map[string]error),
			},
		},
	}

	th.FnInitialize = th.Initialize
	th.FnOnImported = th.OnImported
	th.FnOnFailed = th.OnFailed
	th.FnShutdown = th.Shutdown

	return th, nil
}

func (h *TestHost) Initialize() error {
	core.LogDebug("TestHost Initialize fn....")

	if h.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers ")
	}

	core.EventRegister(core.EVENT_CODE_DOCUMENT_CHANGED, h, h.onDocumentEvent)
	return nil
}

func (h *TestHost) OnImported(result *metadata.ImportResult) error {
	state := h.State.(*hostState)

	graphs := make([]*SceneGraph, 0, len(result.Scenes))
	for _, scene := range result.Scenes {
		graphs = append(graphs, BuildSceneGraph(scene, result.Edges, h.SystemManager.Materials()))
	}

	state.mutex.Lock()
	state.graphs[result.Source] = graphs
	delete(state.failed, result.Source)
	state.mutex.Unlock()

	for _, sg := range graphs {
		logSceneGraph(sg, result.Offset)
	}
	for _, err := range result.Errors {
		core.LogWarn("%s: %s", result.Source, err.Error())
	}
	return nil
}

func (h *TestHost) OnFailed(path string, err error) {
	state := h.State.(*hostState)
	state.mutex.Lock()
	state.failed[path] = err
	state.mutex.Unlock()
	core.LogError("failed to import '%s': %s", path, err.Error())
}

func (h *TestHost) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_DOCUMENT_CHANGED, h)
	state := h.State.(*hostState)
	state.mutex.RLock()
	defer state.mutex.RUnlock()
	core.LogInfo("TestHost shutting down with %d documents, %d failed.", len(state.graphs), len(state.failed))
	return nil
}

// Graphs returns the scene graphs built for the given document.
func (h *TestHost) Graphs(source string) []*SceneGraph {
	state := h.State.(*hostState)
	state.mutex.RLock()
	defer state.mutex.RUnlock()
	return state.graphs[source]
}

func (h *TestHost) onDocumentEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_DOCUMENT_CHANGED {
		core.LogInfo("'%s' changed, re-importing.", data.Path)
	}
	return false
}

/**
 * @brief Builds the node graph of one scene. Every mesh becomes a node,
 * hierarchy edges link them and objects without a parent become roots.
 */
func BuildSceneGraph(scene *metadata.Scene, edges []metadata.HierarchyEdge, ms *systems.MaterialSystem) *SceneGraph {
	sg := &SceneGraph{
		Name:  scene.Name,
		nodes: make(map[string]*Node, len(scene.Meshes)),
	}
	for _, mesh := range scene.Meshes {
		materials, faceMaterials := ms.MaterialsFor(mesh)
		sg.nodes[mesh.ObjectID] = &Node{
			Name:          mesh.ObjectID,
			Mesh:          mesh,
			Materials:     materials,
			FaceMaterials: faceMaterials,
		}
	}

	for child, parent := range systems.EffectiveParents(edges) {
		c, okc := sg.nodes[child]
		p, okp := sg.nodes[parent]
		if !okc || !okp {
			continue
		}
		c.Parent = p
		p.Children = append(p.Children, c)
	}

	for _, mesh := range scene.Meshes {
		n := sg.nodes[mesh.ObjectID]
		sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].Name < n.Children[j].Name })
		if n.Parent == nil {
			sg.Roots = append(sg.Roots, n)
		}
	}
	return sg
}

// Bounds returns the real world extents of every non-empty mesh in the graph.
// It reports false when there is nothing to draw.
func (sg *SceneGraph) Bounds(offset math.Vec3) (math.Extents3D, bool) {
	var vertices []math.Vec3
	for _, n := range sg.nodes {
		if n.Mesh.IsEmpty() {
			continue
		}
		vertices = append(vertices, n.Mesh.Extents.Min, n.Mesh.Extents.Max)
	}
	if len(vertices) == 0 {
		return math.Extents3D{}, false
	}
	return math.ExtentsOf(math.DenormalizeVertices(vertices, offset)), true
}

func logSceneGraph(sg *SceneGraph, offset math.Vec3) {
	extents, ok := sg.Bounds(offset)
	if !ok {
		core.LogInfo("%s: %d objects, nothing to draw.", sg.Name, len(sg.nodes))
		return
	}

	var lods []string
	faces := 0
	for _, n := range sg.nodes {
		faces += n.Mesh.FaceCount()
		if n.Mesh.LOD != "" && !n.Mesh.IsEmpty() {
			lods = append(lods, n.Mesh.LOD)
		}
	}
	lowest, _ := math.MinOf(lods...)
	center := extents.Center()
	core.LogInfo("%s: %d objects, %d roots, %d faces, lowest lod %q, bounds [%.3f %.3f %.3f] - [%.3f %.3f %.3f], center [%.3f %.3f %.3f]",
		sg.Name, len(sg.nodes), len(sg.Roots), faces, lowest,
		extents.Min[0], extents.Min[1], extents.Min[2],
		extents.Max[0], extents.Max[1], extents.Max[2],
		center[0], center[1], center[2])
}
