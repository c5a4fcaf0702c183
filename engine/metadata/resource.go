package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief No known resource type. */
	ResourceTypeNone ResourceType = iota
	/** @brief CityJSON document resource type. */
	ResourceTypeCityJSON
	/** @brief Material palette resource type. */
	ResourceTypeMaterial
	/** @brief Custom resource type. Used by loaders outside the core engine. */
	ResourceTypeCustom
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeCityJSON:
		return "cityjson"
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeCustom:
		return "custom"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The type of the loader which handles this resource. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data, *Document or map[SurfaceClass]MaterialConfig. */
	Data interface{}
}
