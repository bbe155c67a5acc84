package core

import (
	"strings"

	"eaccore/pkg/domain"
)

// Patch validators check only the fields a patch sets. They never read the
// stored row, so a failing patch costs no I/O.

func validateCertificatePatch(op string, p domain.CertificatePatch) error {
	if p.Type.IsSet() && !p.Type.Value().Valid() {
		return domain.NewValidationError(op, domain.EntityCertificate, "unknown certificate type %q", p.Type.Value())
	}
	if p.Amounts.IsSet() {
		if err := domain.ValidateAmounts(op, p.Amounts.Value()); err != nil {
			return err
		}
	}
	if p.Emissions.IsSet() {
		if err := domain.ValidateEmissions(op, p.Emissions.Value()); err != nil {
			return err
		}
	}
	if p.Links.IsSet() {
		return domain.ValidateLinks(op, domain.EntityCertificate, p.Links.Value())
	}
	return nil
}

func validateProductionSourcePatch(op string, p domain.ProductionSourcePatch) error {
	if p.EACTypes.IsSet() {
		for _, t := range p.EACTypes.Value() {
			if !t.Valid() {
				return domain.NewValidationError(op, domain.EntityProductionSource, "unknown eac type %q", t)
			}
		}
	}
	if p.Location.IsSet() {
		if err := domain.ValidateLocation(op, domain.EntityProductionSource, p.Location.Value()); err != nil {
			return err
		}
	}
	if p.Links.IsSet() {
		return domain.ValidateLinks(op, domain.EntityProductionSource, p.Links.Value())
	}
	return nil
}

func validateOrganizationPatch(op string, p domain.OrganizationPatch) error {
	if p.Name.IsSet() && strings.TrimSpace(p.Name.Value()) == "" {
		return domain.NewValidationError(op, domain.EntityOrganization, "name is required")
	}
	if p.Contacts.IsSet() {
		for i, c := range p.Contacts.Value() {
			if strings.TrimSpace(c.Value) == "" {
				return domain.NewValidationError(op, domain.EntityOrganization, "contacts[%d]: value is required", i)
			}
		}
	}
	if p.Location.IsSet() {
		return domain.ValidateLocation(op, domain.EntityOrganization, p.Location.Value())
	}
	return nil
}

func validateEventPatch(op string, p domain.EventPatch) error {
	if p.Type.IsSet() && strings.TrimSpace(p.Type.Value()) == "" {
		return domain.NewValidationError(op, domain.EntityEvent, "type is required")
	}
	if p.Dates.IsSet() {
		if d := p.Dates.Value(); d != nil && d.End != nil && d.End.Before(d.Start) {
			return domain.NewValidationError(op, domain.EntityEvent, "dates.end precedes dates.start")
		}
	}
	if p.Location.IsSet() {
		if err := domain.ValidateLocation(op, domain.EntityEvent, p.Location.Value()); err != nil {
			return err
		}
	}
	if p.Links.IsSet() {
		return domain.ValidateLinks(op, domain.EntityEvent, p.Links.Value())
	}
	return nil
}
