// Package schema holds the declarative table manifests shared by the row
// hydrator and the relationship query builder. A manifest maps an entity
// struct field to a column and a semantic type; nothing here is introspected
// from the database at runtime.
package schema

import "strings"

// Type is the semantic type of a column.
type Type int

const (
	Int64 Type = iota
	String
	Bool
	UUID
	Time
)

func (t Type) String() string {
	switch t {
	case Int64:
		return "int64"
	case String:
		return "string"
	case Bool:
		return "bool"
	case UUID:
		return "uuid"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Column maps one struct field to one column.
type Column struct {
	Field string // Go struct field name on the entity
	Name  string // column name in the table
	Type  Type
}

// Table is the manifest of one relational table.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []Column
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Resolve finds a column by entity property name ("placeholderIndex"),
// struct field name ("PlaceholderIndex") or column name ("placeholder_index").
func (t *Table) Resolve(property string) (Column, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Field, property) || c.Name == property {
			return c, true
		}
	}
	return Column{}, false
}

// WritableColumns returns every column except the primary key, in manifest
// order.
func (t *Table) WritableColumns() []Column {
	out := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name != t.PrimaryKey {
			out = append(out, c)
		}
	}
	return out
}

// JoinTable is a many-to-many edge table between an owner and a target.
type JoinTable struct {
	Name         string
	OwnerColumn  string
	TargetColumn string
}

// AppUserTable is the manifest of app_user.
var AppUserTable = &Table{
	Name:       "app_user",
	PrimaryKey: "id",
	Columns: []Column{
		{Field: "ID", Name: "id", Type: Int64},
		{Field: "Designation", Name: "designation", Type: String},
		{Field: "SystemUserID", Name: "system_user_id", Type: Int64},
		{Field: "OrganizationID", Name: "organization_id", Type: Int64},
	},
}

// PlaceholderTable is the manifest of placeholder.
var PlaceholderTable = &Table{
	Name:       "placeholder",
	PrimaryKey: "id",
	Columns: []Column{
		{Field: "ID", Name: "id", Type: Int64},
		{Field: "PlaceholderIndex", Name: "placeholder_index", Type: String},
		{Field: "PlaceholderValue", Name: "placeholder_value", Type: String},
		{Field: "ArchetypeID", Name: "archetype_id", Type: Int64},
		{Field: "OrganizationID", Name: "organization_id", Type: Int64},
	},
}

// SystemUserTable is the manifest of the externally owned user table. Only
// the reference projection is read.
var SystemUserTable = &Table{
	Name:       "jhi_user",
	PrimaryKey: "id",
	Columns: []Column{
		{Field: "ID", Name: "id", Type: Int64},
		{Field: "Login", Name: "login", Type: String},
	},
}

// AppUserPlaceholders is the AppUser <-> Placeholder edge table.
var AppUserPlaceholders = JoinTable{
	Name:         "rel_app_user__placeholder",
	OwnerColumn:  "app_user_id",
	TargetColumn: "placeholders_id",
}
