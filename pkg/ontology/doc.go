// Package ontology provides the class-hierarchy data model consumed by the
// hierarchy view.
//
// # Overview
//
// An ontology is supplied as a [Registry]: a read-only mapping from class id
// (usually an IRI) to [Node], plus a designated root. Nodes carry their
// children ids, their depth in the full hierarchy and a has_more flag set by
// servers that truncated the tree.
//
// Registries are immutable once built. Operations that "change" a registry,
// such as [Registry.Merge] or [Registry.Subtree], return a new value, so the
// registry pointer doubles as an identity for memoization downstream.
//
// # Boundary Parsing
//
// Tree files arrive as loosely-typed JSON or YAML. [ParseTree] and
// [ReadTreeFile] validate them strictly before the rest of the system sees
// them: a missing root, a node without name or depth, or an empty child id
// fails fast with a coded error from pkg/errors. Missing children lists
// default to empty.
//
//	reg, err := ontology.ReadTreeFile("saref.json")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(reg.Root(), reg.Len())
//
// # Tree Format
//
//	{
//	  "root": "http://www.w3.org/2002/07/owl#Thing",
//	  "nodes": {
//	    "http://www.w3.org/2002/07/owl#Thing": {
//	      "name": "Thing", "label": "Thing", "children": ["..."], "depth": 0, "has_more": false
//	    }
//	  },
//	  "truncated": false,
//	  "total_nodes": 42
//	}
//
// # Import
//
// [Build] turns a flat class list (each class naming its parents) into a
// rooted registry, adding a virtual owl:Thing root when the classes have
// several or no parentless candidates.
package ontology
