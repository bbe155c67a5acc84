// Package domain defines the persistent entities, value types, store ports and
// error taxonomy shared by the eaccore services.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the type of record stored in the registry.
type EntityType string

// Supported entity type identifiers used in errors, warnings and persistence tables.
const (
	// EntityDocument identifies a stored document (file plus metadata row).
	EntityDocument EntityType = "document"
	// EntityCertificate identifies an environmental attribute certificate.
	EntityCertificate EntityType = "certificate"
	// EntityProductionSource identifies a generation asset or production facility.
	EntityProductionSource EntityType = "production_source"
	// EntityOrganization identifies an organization record.
	EntityOrganization EntityType = "organization"
	// EntityEvent identifies a timeline event attached to a certificate or production source.
	EntityEvent EntityType = "event"
)

// FileType classifies uploaded documents.
type FileType string

// Canonical document kinds. FileTypeOrganizationDocument is the default when none is supplied.
const (
	FileTypeOrganizationDocument     FileType = "ORGANIZATION_DOCUMENT"
	FileTypeCertificate              FileType = "CERTIFICATE"
	FileTypeProductionSourceDocument FileType = "PRODUCTION_SOURCE_DOCUMENT"
	FileTypeContract                 FileType = "CONTRACT"
	FileTypeAuditReport              FileType = "AUDIT_REPORT"
	FileTypeImage                    FileType = "IMAGE"
	FileTypeOther                    FileType = "OTHER"
)

// Valid reports whether the file type is one of the canonical kinds.
func (f FileType) Valid() bool {
	switch f {
	case FileTypeOrganizationDocument, FileTypeCertificate, FileTypeProductionSourceDocument,
		FileTypeContract, FileTypeAuditReport, FileTypeImage, FileTypeOther:
		return true
	}
	return false
}

// CertificateType enumerates the certificate schemes tracked by the registry.
type CertificateType string

// Canonical certificate schemes.
const (
	CertificateREC          CertificateType = "REC"
	CertificateGO           CertificateType = "GO"
	CertificateIREC         CertificateType = "I-REC"
	CertificateTIGR         CertificateType = "TIGR"
	CertificateRTC          CertificateType = "RTC"
	CertificateRNG          CertificateType = "RNG"
	CertificateSAF          CertificateType = "SAF"
	CertificateCarbonCredit CertificateType = "CARBON_CREDIT"
	CertificateOther        CertificateType = "OTHER"
)

// Valid reports whether the certificate type is a known scheme.
func (c CertificateType) Valid() bool {
	switch c {
	case CertificateREC, CertificateGO, CertificateIREC, CertificateTIGR, CertificateRTC,
		CertificateRNG, CertificateSAF, CertificateCarbonCredit, CertificateOther:
		return true
	}
	return false
}

// EventTarget is the discriminator naming the entity kind an event points at.
type EventTarget string

// Event target kinds.
const (
	TargetCertificate      EventTarget = "CERT"
	TargetProductionSource EventTarget = "PSOURCE"
)

// Valid reports whether the target kind is supported.
func (t EventTarget) Valid() bool {
	return t == TargetCertificate || t == TargetProductionSource
}

// Base contains common fields for all registry records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MetadataItem is one ordered key/label/value triple attached to a record.
type MetadataItem struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value *string `json:"value,omitempty"`
}

// OrganizationRole links an organization to a record with a role such as "issuer" or "owner".
type OrganizationRole struct {
	OrgID string `json:"org_id"`
	Role  string `json:"role"`
}

// ExternalID records an identifier assigned to a record by an outside registry.
type ExternalID struct {
	ID                string  `json:"id"`
	OwnerOrgID        *string `json:"owner_org_id,omitempty"`
	Description       *string `json:"description,omitempty"`
	ExternalFieldName *string `json:"external_field_name,omitempty"`
}

// Link is a labelled hyperlink.
type Link struct {
	URL         string  `json:"url"`
	Label       *string `json:"label,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Contact is a typed contact channel for an organization (email, phone, ...).
type Contact struct {
	Type  string  `json:"type"`
	Value string  `json:"value"`
	Label *string `json:"label,omitempty"`
}

// Location is the structured geography record shared by sources, organizations and events.
type Location struct {
	Country     string   `json:"country"`
	Subdivision *string  `json:"subdivision,omitempty"`
	Region      *string  `json:"region,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// CountryKey returns the canonical grouping key for the location's country.
func (l *Location) CountryKey() string {
	if l == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(l.Country))
}

// Amount is one quantity carried by a certificate.
type Amount struct {
	Amount           float64  `json:"amount"`
	Unit             string   `json:"unit"`
	ConversionFactor *float64 `json:"conversion_factor,omitempty"`
	ConversionNotes  *string  `json:"conversion_notes,omitempty"`
}

// EmissionsData captures the emissions factor reported for a certificate.
type EmissionsData struct {
	CarbonIntensity  float64  `json:"carbon_intensity"`
	CO2Equivalent    *float64 `json:"co2_equivalent,omitempty"`
	EmissionsFactor  *float64 `json:"emissions_factor,omitempty"`
	Unit             *string  `json:"unit,omitempty"`
	VerificationNote *string  `json:"verification_note,omitempty"`
}

// EventDates bounds an event in time. Dates are calendar dates (YYYY-MM-DD).
type EventDates struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Document is the metadata row describing one uploaded file. The binary lives
// in the object store under "{ID}/{sanitized file name}".
type Document struct {
	Base
	URL           string             `json:"url"`
	FileType      FileType           `json:"file_type"`
	Title         *string            `json:"title,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Metadata      []MetadataItem     `json:"metadata"`
	Organizations []OrganizationRole `json:"organizations,omitempty"`
}

// Certificate is an environmental attribute certificate.
type Certificate struct {
	Base
	Type               CertificateType `json:"type"`
	Amounts            []Amount        `json:"amounts"`
	ExternalIDs        []ExternalID    `json:"external_ids,omitempty"`
	Emissions          []EmissionsData `json:"emissions,omitempty"`
	Links              []Link          `json:"links,omitempty"`
	Documents          []string        `json:"documents"`
	ProductionSourceID *string         `json:"production_source_id,omitempty"`
}

// ProductionSource is a generation asset or production facility.
type ProductionSource struct {
	Base
	Name                     *string            `json:"name,omitempty"`
	Description              *string            `json:"description,omitempty"`
	Technology               []string           `json:"technology"`
	EACTypes                 []CertificateType  `json:"eac_types,omitempty"`
	Labels                   []string           `json:"labels,omitempty"`
	OperationStartDate       *time.Time         `json:"operation_start_date,omitempty"`
	Location                 *Location          `json:"location,omitempty"`
	Links                    []Link             `json:"links,omitempty"`
	Documents                []string           `json:"documents"`
	ExternalIDs              []ExternalID       `json:"external_ids,omitempty"`
	RelatedProductionSources []string           `json:"related_production_sources"`
	Organizations            []OrganizationRole `json:"organizations,omitempty"`
	Metadata                 []MetadataItem     `json:"metadata,omitempty"`
	Events                   []string           `json:"events,omitempty"`
}

// DisplayName returns the source name, falling back to its id.
func (p ProductionSource) DisplayName() string {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		return *p.Name
	}
	return p.ID
}

// Organization is a market participant (issuer, registry, owner, auditor...).
type Organization struct {
	Base
	Name        string       `json:"name"`
	URL         *string      `json:"url,omitempty"`
	Description *string      `json:"description,omitempty"`
	Contacts    []Contact    `json:"contacts,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	ExternalIDs []ExternalID `json:"external_ids,omitempty"`
	Documents   []string     `json:"documents"`
}

// Event is a timeline entry for a certificate or production source. Target
// and TargetID form a weak polymorphic reference; see Event.Ref.
type Event struct {
	Base
	Target        EventTarget        `json:"target"`
	TargetID      string             `json:"target_id"`
	Type          string             `json:"type"`
	Value         *string            `json:"value,omitempty"`
	Dates         *EventDates        `json:"dates,omitempty"`
	Location      *Location          `json:"location,omitempty"`
	Organizations []OrganizationRole `json:"organizations,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	Documents     []string           `json:"documents"`
	Links         []Link             `json:"links,omitempty"`
	Metadata      []MetadataItem     `json:"metadata,omitempty"`
}
