package systems

import (
	"fmt"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/math"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

// ErrorPolicy decides what a decode pass does with per-object errors.
type ErrorPolicy int

const (
	// ErrorPolicyAccumulate keeps decoding and reports every error in the result.
	ErrorPolicyAccumulate ErrorPolicy = iota
	// ErrorPolicyAbort stops after the first geometry variant that produced an
	// error and returns that error along with the partial result.
	ErrorPolicyAbort
)

func (p ErrorPolicy) String() string {
	if p == ErrorPolicyAbort {
		return "abort"
	}
	return "accumulate"
}

// ParseErrorPolicy accepts "accumulate" and "abort".
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "", "accumulate":
		return ErrorPolicyAccumulate, nil
	case "abort":
		return ErrorPolicyAbort, nil
	default:
		return ErrorPolicyAccumulate, fmt.Errorf("unknown error policy '%s'", s)
	}
}

/** @brief The configuration for the decoder system */
type DecoderSystemConfig struct {
	/** @brief What to do with per-object errors. */
	ErrorPolicy ErrorPolicy
	/** @brief Geometry variant indices to decode; empty means all of them. */
	Variants []int
}

type DecoderSystem struct {
	config    DecoderSystemConfig
	jobSystem *JobSystem
}

// objectJob is the input of one decode job. Everything it points to is
// shared between jobs and must not be written to.
type objectJob struct {
	object   *metadata.CityObject
	variant  int
	vertices []math.Vec3
}

func NewDecoderSystem(config DecoderSystemConfig, js *JobSystem) (*DecoderSystem, error) {
	if js == nil {
		err := fmt.Errorf("func NewDecoderSystem - a job system is required")
		core.LogError(err.Error())
		return nil, err
	}
	for _, v := range config.Variants {
		if v < 0 {
			return nil, fmt.Errorf("func NewDecoderSystem - negative geometry variant %d", v)
		}
	}
	return &DecoderSystem{
		config:    config,
		jobSystem: js,
	}, nil
}

func (ds *DecoderSystem) Shutdown() error {
	return nil
}

/**
 * @brief Decodes a whole document into one scene per geometry variant.
 * Vertices are normalized once up front, every (variant, object) pair is
 * decoded on the job system, and the hierarchy is derived last.
 *
 * @param doc The parsed document. Not modified.
 * @return The result, partial when errors occurred, and the pass error.
 * With ErrorPolicyAccumulate the pass error is nil unless the document
 * as a whole could not be decoded.
 */
func (ds *DecoderSystem) Decode(doc *metadata.Document) (*metadata.ImportResult, error) {
	clock := core.NewClock()
	clock.Start()

	result := &metadata.ImportResult{
		PassID: core.NewPassID(),
		Scenes: make([]*metadata.Scene, 0),
	}
	if doc == nil {
		return result, fmt.Errorf("%w: no document", core.ErrMalformedDocument)
	}

	vertices, offset, err := math.NormalizeVertices(doc.Vertices, doc.Transform)
	if err != nil {
		core.LogError("pass %s: %s", result.PassID, err.Error())
		return result, err
	}
	result.Offset = offset

	ids := doc.ObjectIDs()
	for _, variant := range ds.variantIndices(doc) {
		scene, errs := ds.decodeVariant(doc, ids, vertices, variant)
		result.Scenes = append(result.Scenes, scene)
		result.Errors = append(result.Errors, errs...)
		if len(errs) > 0 && ds.config.ErrorPolicy == ErrorPolicyAbort {
			ds.finish(result, clock, len(doc.Vertices))
			return result, errs[0]
		}
	}

	edges, herrs := BuildHierarchy(doc.CityObjects)
	result.Edges = edges
	for _, herr := range herrs {
		result.Errors = append(result.Errors, &core.DecodeError{
			ObjectID:      hierarchyErrorObject(herr),
			GeometryIndex: -1,
			Err:           herr,
		})
	}
	parents := EffectiveParents(edges)
	for _, scene := range result.Scenes {
		for _, mesh := range scene.Meshes {
			mesh.Parent = parents[mesh.ObjectID]
		}
	}

	ds.finish(result, clock, len(doc.Vertices))
	if len(herrs) > 0 && ds.config.ErrorPolicy == ErrorPolicyAbort {
		return result, result.Errors[len(result.Errors)-len(herrs)]
	}
	return result, nil
}

func (ds *DecoderSystem) finish(result *metadata.ImportResult, clock *core.Clock, vertexCount int) {
	clock.Stop()
	result.Duration = clock.Elapsed()
	meshes, faces := result.Totals()
	core.MetricsRecordImport(meshes, faces, vertexCount, result.Duration, result.Errors)
	core.LogDebug("pass %s: %d scenes, %d meshes, %d faces, %d errors in %s",
		result.PassID, len(result.Scenes), meshes, faces, len(result.Errors), result.Duration)
}

func (ds *DecoderSystem) variantIndices(doc *metadata.Document) []int {
	if len(ds.config.Variants) > 0 {
		return ds.config.Variants
	}
	count := doc.MaxGeometryCount()
	out := make([]int, count)
	for i := range out {
		out[i] = i
	}
	return out
}

// decodeVariant decodes every object for one geometry index. Each job owns
// one slot of meshes/errs, so workers never share output.
func (ds *DecoderSystem) decodeVariant(doc *metadata.Document, ids []string, vertices []math.Vec3, variant int) (*metadata.Scene, []error) {
	meshes := make([]*metadata.Mesh, len(ids))
	slotErrs := make([]error, len(ids))

	jobs := make([]metadata.JobTask, len(ids))
	for i, id := range ids {
		slot := i
		jobs[i] = metadata.JobTask{
			JobType: metadata.JOB_TYPE_DECODE,
			InputParams: &objectJob{
				object:   doc.CityObjects[id],
				variant:  variant,
				vertices: vertices,
			},
			OnStart: decodeObjectJob,
			OnComplete: func(result interface{}) {
				meshes[slot] = result.(*metadata.Mesh)
			},
			OnFailure: func(params interface{}, err error) {
				meshes[slot] = newObjectMesh(params.(*objectJob))
				slotErrs[slot] = err
			},
		}
	}
	ds.jobSystem.SubmitAndWait(jobs)

	var errs []error
	for _, err := range slotErrs {
		if err != nil {
			core.LogWarn(err.Error())
			errs = append(errs, err)
		}
	}
	return &metadata.Scene{
		Name:          metadata.SceneName(variant),
		GeometryIndex: variant,
		Meshes:        meshes,
	}, errs
}

func decodeObjectJob(params interface{}) (interface{}, error) {
	job, ok := params.(*objectJob)
	if !ok {
		return nil, fmt.Errorf("failed to cast params to `*objectJob`")
	}
	return DecodeObject(job.vertices, job.object, job.variant)
}

func newObjectMesh(job *objectJob) *metadata.Mesh {
	return &metadata.Mesh{
		ObjectID:      job.object.ID,
		ObjectType:    job.object.Type,
		GeometryIndex: job.variant,
		Vertices:      make([]math.Vec3, 0),
		Faces:         make([]metadata.MeshFace, 0),
		Attributes:    FlattenAttributes(job.object.Properties),
	}
}

/**
 * @brief Decodes one geometry variant of one city object into a mesh.
 * Objects without a geometry at that index produce an empty mesh.
 *
 * @param vertices The global normalized vertex buffer. Read only.
 * @param obj The city object. Read only.
 * @param variant The geometry index.
 */
func DecodeObject(vertices []math.Vec3, obj *metadata.CityObject, variant int) (*metadata.Mesh, error) {
	mesh := newObjectMesh(&objectJob{object: obj, variant: variant})
	if variant >= len(obj.Geometry) {
		return mesh, nil
	}

	g := &obj.Geometry[variant]
	mesh.LOD = g.LOD
	wrap := func(err error) error {
		return &core.DecodeError{ObjectID: obj.ID, GeometryIndex: variant, Err: err}
	}

	rings, err := ResolveOuterRings(g)
	if err != nil {
		return nil, wrap(err)
	}
	local, faces, err := CompactBuffer(vertices, rings)
	if err != nil {
		return nil, wrap(err)
	}
	surfaces, err := MapSemantics(g.Semantics, g.Type, len(faces))
	if err != nil {
		return nil, wrap(err)
	}

	mesh.Vertices = local
	mesh.Faces = faces
	mesh.Surfaces = surfaces
	if g.Semantics != nil {
		mesh.SurfaceTable = g.Semantics.Surfaces
	}
	mesh.Extents = math.ExtentsOf(local)
	return mesh, nil
}

func hierarchyErrorObject(err error) string {
	if herr, ok := err.(*core.HierarchyError); ok {
		return herr.Child
	}
	return ""
}
