package systems

import (
	"sort"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

/**
 * @brief Derives the parent -> child edges of a document from the
 * "children" and "parents" members of its city objects. It needs the full
 * object set and must only run once every object is known.
 *
 * Edges are emitted from "children" first, then from parents[0] of objects
 * that no "children" list claimed. An object therefore never gets a second
 * parent from its own "parents" member. Both sides are cross checked
 * where both are present; disagreements are reported but the edge from the
 * "children" side is kept.
 *
 * @param objects All city objects by identifier.
 * @return The edges in deterministic order and every problem found.
 */
func BuildHierarchy(objects map[string]*metadata.CityObject) ([]metadata.HierarchyEdge, []error) {
	ids := make([]string, 0, len(objects))
	for id := range objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var edges []metadata.HierarchyEdge
	var errs []error
	seen := make(map[metadata.HierarchyEdge]bool)
	hasParent := make(map[string]bool)
	addEdge := func(e metadata.HierarchyEdge) {
		if !seen[e] {
			seen[e] = true
			hasParent[e.Child] = true
			edges = append(edges, e)
		}
	}

	for _, id := range ids {
		obj := objects[id]
		for _, childID := range obj.Children {
			child, ok := objects[childID]
			if !ok {
				errs = append(errs, &core.HierarchyError{Parent: id, Child: childID, Reason: core.ErrUnknownReference})
				continue
			}
			if child.HasParents() && !contains(child.Parents, id) {
				errs = append(errs, &core.HierarchyError{Parent: id, Child: childID, Reason: core.ErrInconsistentHierarchy})
			}
			addEdge(metadata.HierarchyEdge{Parent: id, Child: childID})
		}
	}

	for _, id := range ids {
		obj := objects[id]
		if len(obj.Parents) == 0 {
			continue
		}
		for _, parentID := range obj.Parents {
			if _, ok := objects[parentID]; !ok {
				errs = append(errs, &core.HierarchyError{Parent: parentID, Child: id, Reason: core.ErrUnknownReference})
			}
		}
		parentID := obj.Parents[0]
		parent, ok := objects[parentID]
		if !ok || hasParent[id] {
			continue
		}
		if parent.HasChildren() {
			// The parent spells out its children and this object is not one of them.
			errs = append(errs, &core.HierarchyError{Parent: parentID, Child: id, Reason: core.ErrInconsistentHierarchy})
			continue
		}
		addEdge(metadata.HierarchyEdge{Parent: parentID, Child: id})
	}

	return edges, errs
}

// EffectiveParents maps every child to the parent its scene node should hang
// from: the first edge naming it as a child.
func EffectiveParents(edges []metadata.HierarchyEdge) map[string]string {
	parents := make(map[string]string, len(edges))
	for _, e := range edges {
		if _, ok := parents[e.Child]; !ok {
			parents[e.Child] = e.Parent
		}
	}
	return parents
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
