package core

import (
	"eaccore/internal/refs"
	"eaccore/pkg/domain"
)

// Reference arrays reach the store compacted: blank ids are dropped and an
// empty list becomes nil, which the adapters persist as NULL. Forms already
// project through refs; these cover direct records and patches.

func compactCertificate(c *domain.Certificate) {
	c.Documents = refs.CompactIDs(c.Documents)
	c.ExternalIDs = refs.ProjectExternalIDs(c.ExternalIDs)
}

func compactCertificatePatch(p *domain.CertificatePatch) {
	p.Documents = refs.ProjectPatch(p.Documents, refs.CompactIDs)
	p.ExternalIDs = refs.ProjectPatch(p.ExternalIDs, refs.ProjectExternalIDs)
}

func compactProductionSource(p *domain.ProductionSource) {
	p.Documents = refs.CompactIDs(p.Documents)
	p.RelatedProductionSources = refs.CompactIDs(p.RelatedProductionSources)
	p.Events = refs.CompactIDs(p.Events)
	p.ExternalIDs = refs.ProjectExternalIDs(p.ExternalIDs)
	p.Organizations = refs.CompactRoles(p.Organizations)
}

func compactProductionSourcePatch(p *domain.ProductionSourcePatch) {
	p.Documents = refs.ProjectPatch(p.Documents, refs.CompactIDs)
	p.RelatedProductionSources = refs.ProjectPatch(p.RelatedProductionSources, refs.CompactIDs)
	p.Events = refs.ProjectPatch(p.Events, refs.CompactIDs)
	p.ExternalIDs = refs.ProjectPatch(p.ExternalIDs, refs.ProjectExternalIDs)
	p.Organizations = refs.ProjectPatch(p.Organizations, refs.CompactRoles)
}

func compactOrganization(o *domain.Organization) {
	o.Documents = refs.CompactIDs(o.Documents)
	o.ExternalIDs = refs.ProjectExternalIDs(o.ExternalIDs)
}

func compactOrganizationPatch(p *domain.OrganizationPatch) {
	p.Documents = refs.ProjectPatch(p.Documents, refs.CompactIDs)
	p.ExternalIDs = refs.ProjectPatch(p.ExternalIDs, refs.ProjectExternalIDs)
}

func compactEvent(e *domain.Event) {
	e.Documents = refs.CompactIDs(e.Documents)
	e.Organizations = refs.CompactRoles(e.Organizations)
}

func compactEventPatch(p *domain.EventPatch) {
	p.Documents = refs.ProjectPatch(p.Documents, refs.CompactIDs)
	p.Organizations = refs.ProjectPatch(p.Organizations, refs.CompactRoles)
}
