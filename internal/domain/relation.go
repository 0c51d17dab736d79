package domain

import (
	"sort"
	"strings"
)

// AttributeValueRelation is the has-many relation holding a job's attribute values.
const AttributeValueRelation = "job_attributes"

// Relation describes how a job reaches a set of related rows.
// PivotTable is empty for has-many relations keyed directly on the job.
type Relation struct {
	Name            string `mapstructure:"name"`
	Table           string `mapstructure:"table"`
	PivotTable      string `mapstructure:"pivot_table"`
	PivotOwnerKey   string `mapstructure:"pivot_owner_key"`
	PivotRelatedKey string `mapstructure:"pivot_related_key"`
	OwnerKey        string `mapstructure:"owner_key"`
	IdentityColumn  string `mapstructure:"identity_column"`
}

// RelationRegistry maps relation names to their definitions.
type RelationRegistry struct {
	relations map[string]Relation
}

// NewRelationRegistry builds a registry from the given relations. Later entries
// replace earlier ones with the same name.
func NewRelationRegistry(relations ...Relation) RelationRegistry {
	reg := RelationRegistry{relations: make(map[string]Relation, len(relations))}
	for _, rel := range relations {
		rel.Name = strings.TrimSpace(rel.Name)
		if rel.Name == "" {
			continue
		}
		if rel.Table == "" {
			rel.Table = rel.Name
		}
		if rel.IdentityColumn == "" {
			rel.IdentityColumn = "name"
		}
		reg.relations[rel.Name] = rel
	}
	return reg
}

// DefaultRelations returns the associations of the jobs table.
func DefaultRelations() []Relation {
	return []Relation{
		{
			Name:            "languages",
			Table:           "languages",
			PivotTable:      "job_language",
			PivotOwnerKey:   "job_id",
			PivotRelatedKey: "language_id",
			IdentityColumn:  "name",
		},
		{
			Name:            "categories",
			Table:           "categories",
			PivotTable:      "job_category",
			PivotOwnerKey:   "job_id",
			PivotRelatedKey: "category_id",
			IdentityColumn:  "name",
		},
		{
			Name:            "locations",
			Table:           "locations",
			PivotTable:      "job_location",
			PivotOwnerKey:   "job_id",
			PivotRelatedKey: "location_id",
			IdentityColumn:  "city",
		},
		{
			Name:     AttributeValueRelation,
			Table:    "job_attributes",
			OwnerKey: "job_id",
		},
	}
}

// DefaultRelationRegistry returns a registry over DefaultRelations.
func DefaultRelationRegistry() RelationRegistry {
	return NewRelationRegistry(DefaultRelations()...)
}

// With returns a copy of the registry with the given relations added or replaced.
func (r RelationRegistry) With(relations ...Relation) RelationRegistry {
	all := make([]Relation, 0, len(r.relations)+len(relations))
	for _, name := range r.Names() {
		all = append(all, r.relations[name])
	}
	all = append(all, relations...)
	return NewRelationRegistry(all...)
}

// Lookup returns the relation registered under name.
func (r RelationRegistry) Lookup(name string) (Relation, bool) {
	rel, ok := r.relations[name]
	return rel, ok
}

// IdentityColumn returns the column used to match related rows by value. The
// attribute value relation has none: it is only reachable through attribute
// conditions.
func (r RelationRegistry) IdentityColumn(name string) (string, bool) {
	if name == AttributeValueRelation {
		return "", false
	}
	rel, ok := r.relations[name]
	if !ok {
		return "", false
	}
	return rel.IdentityColumn, true
}

// Names returns the registered relation names in sorted order.
func (r RelationRegistry) Names() []string {
	names := make([]string, 0, len(r.relations))
	for name := range r.relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
