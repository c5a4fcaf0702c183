package systems

import (
	"strings"

	"github.com/spaghettifunk/citymesh/engine/metadata"
)

/**
 * @brief Flattens a nested property map into dotted paths, e.g.
 * {"a": {"b": 1}} becomes {"a.b": 1}. The "geometry", "children" and
 * "parents" members are skipped at every level. Nested maps are walked,
 * every other value is bound as is.
 *
 * @param props The property map, may be nil.
 * @param prefix Path segments to prepend to every key.
 */
func FlattenAttributes(props map[string]interface{}, prefix ...string) map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto(out, props, prefix)
	return out
}

func flattenInto(out map[string]interface{}, props map[string]interface{}, prefix []string) {
	for key, value := range props {
		if isReservedKey(key) {
			continue
		}
		path := append(append(make([]string, 0, len(prefix)+1), prefix...), key)
		if nested, ok := value.(map[string]interface{}); ok {
			flattenInto(out, nested, path)
			continue
		}
		out[strings.Join(path, ".")] = value
	}
}

func isReservedKey(key string) bool {
	for _, k := range metadata.ReservedPropertyKeys {
		if k == key {
			return true
		}
	}
	return false
}
