package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// Bundle is a heterogeneous group of components supplied to an
// insert/remove/take operation. Components returns the bundle's component
// values in a fixed, declared order.
//
// Rust's visitor-callback trait (`for_each_component`/`into_each_component`
// taking `impl Trait` callbacks) has no direct equivalent here: Go interface
// methods cannot be generic. Components() []any is the Go rendering of the
// same contract — see DESIGN.md's Open Question log.
type Bundle interface {
	Components() []any
}

// Single is the one-element static bundle: any single component type is
// itself a bundle.
type Single[T any] struct {
	Value T
}

// Components implements Bundle.
func (s Single[T]) Components() []any { return []any{s.Value} }

// Empty is the zero-element bundle.
type Empty struct{}

// Components implements Bundle.
func (Empty) Components() []any { return nil }

// BundleID is a stable, monotonically assigned identifier for a distinct
// bundle type.
type BundleID uint32

// BundleInfo names a registered bundle type's sorted, deduplicated
// component-id list.
type BundleInfo struct {
	ID           BundleID
	Name         string
	ComponentIDs []ComponentID
}

// Bundles is the type-identity-keyed bundle registry.
type Bundles struct {
	infos  []BundleInfo
	byType map[reflect.Type]BundleID
}

// Insert registers bundle's concrete Go type if it hasn't been seen before,
// registering each of its component types against components along the
// way. Declaring the same component twice in one bundle is a fatal error
// naming every duplicate.
func (b *Bundles) Insert(bundle Bundle, components *Components) *BundleInfo {
	t := reflect.TypeOf(bundle)
	if b.byType == nil {
		b.byType = make(map[reflect.Type]BundleID)
	}
	if id, ok := b.byType[t]; ok {
		return &b.infos[id]
	}

	values := bundle.Components()
	ids := make([]ComponentID, len(values))
	for i, v := range values {
		ids[i] = components.registerDynamic(v)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	unique, duplicates := partitionDedup(ids)
	if len(duplicates) > 0 {
		seen := make(map[ComponentID]struct{}, len(duplicates))
		names := make([]string, 0, len(duplicates))
		for _, id := range duplicates {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			info, _ := components.GetComponentInfo(id)
			names = append(names, info.Descriptor.Name)
		}
		panic(fmt.Sprintf("ecs: bundle %s contains duplicate components: %s", t, joined(", ", names)))
	}

	id := BundleID(len(b.infos))
	info := BundleInfo{ID: id, Name: t.String(), ComponentIDs: unique}
	b.infos = append(b.infos, info)
	b.byType[t] = id
	return &b.infos[id]
}

// Get returns the BundleInfo for bundle's concrete type, if registered.
func (b *Bundles) Get(bundle Bundle) (*BundleInfo, bool) {
	id, ok := b.byType[reflect.TypeOf(bundle)]
	if !ok {
		return nil, false
	}
	return &b.infos[id], true
}

// partitionDedup sorts-adjacent-deduplicates ids in place, returning the
// unique prefix and the duplicate suffix, mirroring the split used by the
// Rust original's util::partition_dedup.
func partitionDedup(ids []ComponentID) (unique, duplicates []ComponentID) {
	if len(ids) == 0 {
		return ids, nil
	}
	write := 1
	for read := 1; read < len(ids); read++ {
		if ids[read] != ids[write-1] {
			if write != read {
				ids[write], ids[read] = ids[read], ids[write]
			}
			write++
		}
	}
	return ids[:write], ids[write:]
}
