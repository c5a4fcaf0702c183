package assets

import "github.com/spaghettifunk/citymesh/engine/metadata"

// Loader reads one kind of resource from disk.
type Loader interface {
	Load(path string, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
