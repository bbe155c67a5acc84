package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Patch carries an optional field of a partial update. An unset Patch leaves
// the stored value untouched; a set Patch replaces it, where the zero value
// (nil slice, nil pointer) clears the column.
//
// Decoding from JSON follows presence-of-key semantics: a key absent from the
// payload yields an unset Patch, while a key present with null or a value
// yields a set Patch.
type Patch[T any] struct {
	set   bool
	value T
}

// Set returns a Patch that replaces the stored value with v.
func Set[T any](v T) Patch[T] { return Patch[T]{set: true, value: v} }

// Clear returns a Patch that resets the stored value to its zero value.
func Clear[T any]() Patch[T] { return Patch[T]{set: true} }

// IsSet reports whether the field is touched by the update.
func (p Patch[T]) IsSet() bool { return p.set }

// Value returns the replacement value; meaningful only when IsSet is true.
func (p Patch[T]) Value() T { return p.value }

// Apply writes the replacement value into dst when the patch is set.
func (p Patch[T]) Apply(dst *T) {
	if p.set {
		*dst = p.value
	}
}

// UnmarshalJSON marks the patch as set. JSON null leaves the zero value.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.set = true
	var zero T
	p.value = zero
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, &p.value)
}

// MarshalJSON renders the replacement value; unset patches render as null and
// should be paired with `omitzero` on the enclosing field.
func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// IsZero lets encoding/json drop unset patches when tagged with omitzero.
func (p Patch[T]) IsZero() bool { return !p.set }

// DocumentPatch is the set of metadata edits allowed on a document.
type DocumentPatch struct {
	FileType      Patch[FileType]           `json:"file_type,omitzero"`
	Title         Patch[*string]            `json:"title,omitzero"`
	Description   Patch[*string]            `json:"description,omitzero"`
	Metadata      Patch[[]MetadataItem]     `json:"metadata,omitzero"`
	Organizations Patch[[]OrganizationRole] `json:"organizations,omitzero"`
}

// Apply mutates d in place with every set field.
func (p DocumentPatch) Apply(d *Document) {
	p.FileType.Apply(&d.FileType)
	p.Title.Apply(&d.Title)
	p.Description.Apply(&d.Description)
	p.Metadata.Apply(&d.Metadata)
	p.Organizations.Apply(&d.Organizations)
}

// CertificatePatch is a partial certificate update.
type CertificatePatch struct {
	Type               Patch[CertificateType] `json:"type,omitzero"`
	Amounts            Patch[[]Amount]        `json:"amounts,omitzero"`
	ExternalIDs        Patch[[]ExternalID]    `json:"external_ids,omitzero"`
	Emissions          Patch[[]EmissionsData] `json:"emissions,omitzero"`
	Links              Patch[[]Link]          `json:"links,omitzero"`
	Documents          Patch[[]string]        `json:"documents,omitzero"`
	ProductionSourceID Patch[*string]         `json:"production_source_id,omitzero"`
}

// Apply mutates c in place with every set field.
func (p CertificatePatch) Apply(c *Certificate) {
	p.Type.Apply(&c.Type)
	p.Amounts.Apply(&c.Amounts)
	p.ExternalIDs.Apply(&c.ExternalIDs)
	p.Emissions.Apply(&c.Emissions)
	p.Links.Apply(&c.Links)
	p.Documents.Apply(&c.Documents)
	p.ProductionSourceID.Apply(&c.ProductionSourceID)
}

// ProductionSourcePatch is a partial production source update.
type ProductionSourcePatch struct {
	Name                     Patch[*string]            `json:"name,omitzero"`
	Description              Patch[*string]            `json:"description,omitzero"`
	Technology               Patch[[]string]           `json:"technology,omitzero"`
	EACTypes                 Patch[[]CertificateType]  `json:"eac_types,omitzero"`
	Labels                   Patch[[]string]           `json:"labels,omitzero"`
	OperationStartDate       Patch[*time.Time]         `json:"operation_start_date,omitzero"`
	Location                 Patch[*Location]          `json:"location,omitzero"`
	Links                    Patch[[]Link]             `json:"links,omitzero"`
	Documents                Patch[[]string]           `json:"documents,omitzero"`
	ExternalIDs              Patch[[]ExternalID]       `json:"external_ids,omitzero"`
	RelatedProductionSources Patch[[]string]           `json:"related_production_sources,omitzero"`
	Organizations            Patch[[]OrganizationRole] `json:"organizations,omitzero"`
	Metadata                 Patch[[]MetadataItem]     `json:"metadata,omitzero"`
	Events                   Patch[[]string]           `json:"events,omitzero"`
}

// Apply mutates s in place with every set field.
func (p ProductionSourcePatch) Apply(s *ProductionSource) {
	p.Name.Apply(&s.Name)
	p.Description.Apply(&s.Description)
	p.Technology.Apply(&s.Technology)
	p.EACTypes.Apply(&s.EACTypes)
	p.Labels.Apply(&s.Labels)
	p.OperationStartDate.Apply(&s.OperationStartDate)
	p.Location.Apply(&s.Location)
	p.Links.Apply(&s.Links)
	p.Documents.Apply(&s.Documents)
	p.ExternalIDs.Apply(&s.ExternalIDs)
	p.RelatedProductionSources.Apply(&s.RelatedProductionSources)
	p.Organizations.Apply(&s.Organizations)
	p.Metadata.Apply(&s.Metadata)
	p.Events.Apply(&s.Events)
}

// OrganizationPatch is a partial organization update.
type OrganizationPatch struct {
	Name        Patch[string]       `json:"name,omitzero"`
	URL         Patch[*string]      `json:"url,omitzero"`
	Description Patch[*string]      `json:"description,omitzero"`
	Contacts    Patch[[]Contact]    `json:"contacts,omitzero"`
	Location    Patch[*Location]    `json:"location,omitzero"`
	ExternalIDs Patch[[]ExternalID] `json:"external_ids,omitzero"`
	Documents   Patch[[]string]     `json:"documents,omitzero"`
}

// Apply mutates o in place with every set field.
func (p OrganizationPatch) Apply(o *Organization) {
	p.Name.Apply(&o.Name)
	p.URL.Apply(&o.URL)
	p.Description.Apply(&o.Description)
	p.Contacts.Apply(&o.Contacts)
	p.Location.Apply(&o.Location)
	p.ExternalIDs.Apply(&o.ExternalIDs)
	p.Documents.Apply(&o.Documents)
}

// EventPatch is a partial event update. The target reference is immutable.
type EventPatch struct {
	Type          Patch[string]             `json:"type,omitzero"`
	Value         Patch[*string]            `json:"value,omitzero"`
	Dates         Patch[*EventDates]        `json:"dates,omitzero"`
	Location      Patch[*Location]          `json:"location,omitzero"`
	Organizations Patch[[]OrganizationRole] `json:"organizations,omitzero"`
	Notes         Patch[*string]            `json:"notes,omitzero"`
	Documents     Patch[[]string]           `json:"documents,omitzero"`
	Links         Patch[[]Link]             `json:"links,omitzero"`
	Metadata      Patch[[]MetadataItem]     `json:"metadata,omitzero"`
}

// Apply mutates e in place with every set field.
func (p EventPatch) Apply(e *Event) {
	p.Type.Apply(&e.Type)
	p.Value.Apply(&e.Value)
	p.Dates.Apply(&e.Dates)
	p.Location.Apply(&e.Location)
	p.Organizations.Apply(&e.Organizations)
	p.Notes.Apply(&e.Notes)
	p.Documents.Apply(&e.Documents)
	p.Links.Apply(&e.Links)
	p.Metadata.Apply(&e.Metadata)
}
