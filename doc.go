// Package ecs is the storage core of an archetype-based Entity Component
// System: entities, archetypes, column-oriented tables and a World that
// moves entities between archetypes as their component sets change.
//
// Query iteration, system scheduling and a derive-macro front-end are
// deliberately out of scope; this package only owns entity allocation, the
// archetype graph and the type-erased column storage underneath it.
package ecs
