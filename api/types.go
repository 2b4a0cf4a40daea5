package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultDisplayPath labels a mapping item by its first resource name.
const DefaultDisplayPath = "resourceName.0.name"

// ResourceName is one name of a resource.
type ResourceName struct {
	Name         string `json:"name"`
	NameType     string `json:"nameType"`
	NameLanguage string `json:"nameLanguage,omitempty"`
}

// Identifier is an external identifier of a resource.
type Identifier struct {
	ID             string `json:"id"`
	IdentifierType string `json:"identifierType"`
}

// Contact is a contact person or role for a resource.
type Contact struct {
	ContactName             string `json:"contactName,omitempty"`
	ContactIdentifier       string `json:"contactIdentifier,omitempty"`
	ContactIdentifierSystem string `json:"contactIdentifierSystem,omitempty"`
	ContactURI              string `json:"contactUri,omitempty"`
	ContactRole             string `json:"contactRole,omitempty"`
}

// ResourceDate is a dated event of a resource. DateType is one of
// "start date", "end date", "modified".
type ResourceDate struct {
	ResourceDate string `json:"resourceDate"`
	DateType     string `json:"dateType"`
}

// CentreRelation links a resource to a research centre.
type CentreRelation struct {
	HelmholtzCentre string `json:"helmholtzCentre"`
	RelationType    string `json:"relationType"`
}

// Resource status values.
const (
	StatusValid     = "valid"
	StatusInvalid   = "invalid"
	StatusUncertain = "uncertain"
)

// CommonProperties are the fields every mapping item shares.
type CommonProperties struct {
	ResourceName           []ResourceName   `json:"resourceName,omitempty"`
	ResourceDescription    string           `json:"resourceDescription,omitempty"`
	ResourceURI            []string         `json:"resourceUri,omitempty"`
	DocumentationURI       []string         `json:"documentationUri,omitempty"`
	MappingCategory        string           `json:"mappingCategory,omitempty"`
	Identifier             []Identifier     `json:"identifier,omitempty"`
	Contact                []Contact        `json:"contact,omitempty"`
	Keyword                []string         `json:"keyword,omitempty"`
	Date                   []ResourceDate   `json:"date,omitempty"`
	ResourceStatus         string           `json:"resourceStatus,omitempty"`
	RelatedHelmholtzCentre []CentreRelation `json:"relatedHelmholtzCentre,omitempty"`
	ScientificDiscipline   string           `json:"scientificDiscipline,omitempty"`
	HelmholtzResearchField string           `json:"helmholtzResearchField,omitempty"`
}

// Item is a mapping item. Raw keeps the document as received so that fields
// outside CommonProperties survive a read-modify-write cycle.
type Item struct {
	ID string `json:"_id"`
	CommonProperties

	Raw json.RawMessage `json:"-"`
}

type itemFields struct {
	ID string `json:"_id"`
	CommonProperties
}

// UnmarshalJSON decodes the typed fields and keeps a copy of the document.
func (it *Item) UnmarshalJSON(data []byte) error {
	var f itemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	it.ID = f.ID
	it.CommonProperties = f.CommonProperties
	it.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// typedKeys lists the JSON keys owned by the typed fields of Item.
var typedKeys = sync.OnceValue(func() []string {
	var keys []string
	for _, f := range reflect.VisibleFields(reflect.TypeFor[itemFields]()) {
		if f.Anonymous {
			continue
		}
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			keys = append(keys, name)
		}
	}
	return keys
})

// MarshalJSON writes edited typed fields over Raw, so edits to either
// survive. A typed field cleared to its empty value removes its key.
func (it Item) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(itemFields{ID: it.ID, CommonProperties: it.CommonProperties})
	if err != nil || len(it.Raw) == 0 {
		return typed, err
	}

	// Only keys whose typed value differs from what Raw decodes to are
	// rewritten, so an untouched item marshals to Raw unchanged.
	var orig itemFields
	if err := json.Unmarshal(it.Raw, &orig); err != nil {
		return nil, err
	}
	base, err := json.Marshal(orig)
	if err != nil {
		return nil, err
	}

	doc := append([]byte(nil), it.Raw...)
	fields, was := gjson.ParseBytes(typed), gjson.ParseBytes(base)
	for _, key := range typedKeys() {
		v := fields.Get(key)
		if v.Raw == was.Get(key).Raw {
			continue
		}
		if v.Exists() {
			doc, err = sjson.SetRawBytes(doc, key, []byte(v.Raw))
		} else {
			doc, err = sjson.DeleteBytes(doc, key)
		}
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", key, err)
		}
	}
	return doc, nil
}

// Document returns the item's JSON document.
func (it Item) Document() []byte {
	data, err := it.MarshalJSON()
	if err != nil {
		return nil
	}
	return data
}

// Get returns the value at a gjson path.
func (it Item) Get(path string) gjson.Result {
	return gjson.GetBytes(it.Document(), path)
}

// Set writes value at an sjson path and re-decodes the typed fields.
func (it *Item) Set(path string, value any) error {
	doc, err := sjson.SetBytes(it.Document(), path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return it.UnmarshalJSON(doc)
}

// SetRaw writes a raw JSON value at an sjson path.
func (it *Item) SetRaw(path string, raw []byte) error {
	doc, err := sjson.SetRawBytes(it.Document(), path, raw)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return it.UnmarshalJSON(doc)
}

// DisplayName returns the string at path, or the item ID when the path is
// empty or missing.
func (it Item) DisplayName(path string) string {
	if path == "" {
		path = DefaultDisplayPath
	}
	if r := it.Get(path); r.Exists() && r.String() != "" {
		return r.String()
	}
	return it.ID
}

// PaginationParameter restricts a category listing. Nil fields are omitted.
type PaginationParameter struct {
	Limit  *int
	Offset *int
}

// Page returns a PaginationParameter with both fields set.
func Page(limit, offset int) PaginationParameter {
	return PaginationParameter{Limit: &limit, Offset: &offset}
}

// key renders the parameter the way category cache keys expect: unset
// fields render as "undefined".
func (p PaginationParameter) key() (offset, limit string) {
	offset, limit = "undefined", "undefined"
	if p.Offset != nil {
		offset = fmt.Sprint(*p.Offset)
	}
	if p.Limit != nil {
		limit = fmt.Sprint(*p.Limit)
	}
	return offset, limit
}

// PaginationResult is one page of mapping items.
type PaginationResult struct {
	Items  []Item `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// UnmarshalJSON accepts {items: [...]}, {data: [...]} and a bare array.
func (p *PaginationResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = PaginationResult{Items: items, Total: len(items), Limit: len(items)}
		return nil
	}

	var shadow struct {
		Items  []Item `json:"items"`
		Data   []Item `json:"data"`
		Total  *int   `json:"total"`
		Limit  int    `json:"limit"`
		Offset int    `json:"offset"`
	}
	if err := json.Unmarshal(trimmed, &shadow); err != nil {
		return err
	}
	items := shadow.Items
	if items == nil {
		items = shadow.Data
	}
	total := len(items)
	if shadow.Total != nil {
		total = *shadow.Total
	}
	*p = PaginationResult{Items: items, Total: total, Limit: shadow.Limit, Offset: shadow.Offset}
	return nil
}

// SearchParameter is a full text search, optionally restricted to a hub.
type SearchParameter struct {
	SearchText string
	Hub        string
}

// Work item status values.
const (
	WorkInbox   = "inbox"
	WorkWorking = "working"
	WorkOutbox  = "outbox"
)

// WorkItem is a project on the workspace page.
type WorkItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status,omitempty"`
}
