// Package structure holds the structural model that drawings are imported into.
//
// A Model is a set of nodes, elements, supports and loads. Nodes are never
// created directly: each element operation registers its two endpoints,
// rounded to geometry.Precision digits, and reuses an existing node when the
// rounded point is already known. Supports and loads refer to nodes by ID,
// which FindNodeID resolves from a drawing coordinate.
//
// Properties are ordered keyword lists taken verbatim from drawing
// annotations. The model interprets a few keys (n, dl, element_type, Fx, Fy,
// rotation, Ty, k, translation) and keeps the rest as given.
//
// SQLiteRepository stores complete models so an import can be inspected
// or reloaded later.
package structure
