package domain

import (
	"math"
	"strings"
)

// ValidateAmounts enforces the certificate quantity invariant: at least one
// entry, every amount a positive finite number with a non-empty unit.
func ValidateAmounts(op string, amounts []Amount) error {
	if len(amounts) == 0 {
		return NewValidationError(op, EntityCertificate, "at least one amount is required")
	}
	for i, a := range amounts {
		if !positive(a.Amount) {
			return NewValidationError(op, EntityCertificate, "amounts[%d]: amount must be greater than zero", i)
		}
		if strings.TrimSpace(a.Unit) == "" {
			return NewValidationError(op, EntityCertificate, "amounts[%d]: unit is required", i)
		}
		if a.ConversionFactor != nil && !positive(*a.ConversionFactor) {
			return NewValidationError(op, EntityCertificate, "amounts[%d]: conversion factor must be greater than zero", i)
		}
	}
	return nil
}

// ValidateEmissions rejects emissions figures that are not finite numbers.
func ValidateEmissions(op string, emissions []EmissionsData) error {
	for i, e := range emissions {
		if !finite(e.CarbonIntensity) {
			return NewValidationError(op, EntityCertificate, "emissions[%d]: carbon intensity must be a finite number", i)
		}
		if e.CO2Equivalent != nil && !finite(*e.CO2Equivalent) {
			return NewValidationError(op, EntityCertificate, "emissions[%d]: co2 equivalent must be a finite number", i)
		}
		if e.EmissionsFactor != nil && !finite(*e.EmissionsFactor) {
			return NewValidationError(op, EntityCertificate, "emissions[%d]: emissions factor must be a finite number", i)
		}
	}
	return nil
}

// ValidateCertificate checks a certificate before it is persisted.
func ValidateCertificate(op string, c Certificate) error {
	if !c.Type.Valid() {
		return NewValidationError(op, EntityCertificate, "unknown certificate type %q", c.Type)
	}
	if err := ValidateAmounts(op, c.Amounts); err != nil {
		return err
	}
	if err := ValidateEmissions(op, c.Emissions); err != nil {
		return err
	}
	return ValidateLinks(op, EntityCertificate, c.Links)
}

// ValidateProductionSource checks a production source before it is persisted.
func ValidateProductionSource(op string, p ProductionSource) error {
	for _, t := range p.EACTypes {
		if !t.Valid() {
			return NewValidationError(op, EntityProductionSource, "unknown eac type %q", t)
		}
	}
	if err := ValidateLocation(op, EntityProductionSource, p.Location); err != nil {
		return err
	}
	return ValidateLinks(op, EntityProductionSource, p.Links)
}

// ValidateOrganization checks an organization before it is persisted.
func ValidateOrganization(op string, o Organization) error {
	if strings.TrimSpace(o.Name) == "" {
		return NewValidationError(op, EntityOrganization, "name is required")
	}
	for i, c := range o.Contacts {
		if strings.TrimSpace(c.Value) == "" {
			return NewValidationError(op, EntityOrganization, "contacts[%d]: value is required", i)
		}
	}
	return ValidateLocation(op, EntityOrganization, o.Location)
}

// ValidateEvent checks an event before it is persisted. The target is only
// checked for shape; existence of the referenced row is never verified.
func ValidateEvent(op string, e Event) error {
	if !e.Target.Valid() {
		return NewValidationError(op, EntityEvent, "unknown target %q", e.Target)
	}
	if strings.TrimSpace(e.TargetID) == "" {
		return NewValidationError(op, EntityEvent, "target_id is required")
	}
	if strings.TrimSpace(e.Type) == "" {
		return NewValidationError(op, EntityEvent, "type is required")
	}
	if e.Dates != nil && e.Dates.End != nil && e.Dates.End.Before(e.Dates.Start) {
		return NewValidationError(op, EntityEvent, "dates.end precedes dates.start")
	}
	if err := ValidateLocation(op, EntityEvent, e.Location); err != nil {
		return err
	}
	return ValidateLinks(op, EntityEvent, e.Links)
}

// ValidateLocation checks the structured location record. A nil location is valid.
func ValidateLocation(op string, entity EntityType, l *Location) error {
	if l == nil {
		return nil
	}
	if strings.TrimSpace(l.Country) == "" {
		return NewValidationError(op, entity, "location.country is required")
	}
	if l.Latitude != nil && !inRange(*l.Latitude, 90) {
		return NewValidationError(op, entity, "location.latitude out of range")
	}
	if l.Longitude != nil && !inRange(*l.Longitude, 180) {
		return NewValidationError(op, entity, "location.longitude out of range")
	}
	return nil
}

// ValidateLinks requires a url on every link.
func ValidateLinks(op string, entity EntityType, links []Link) error {
	for i, l := range links {
		if strings.TrimSpace(l.URL) == "" {
			return NewValidationError(op, entity, "links[%d]: url is required", i)
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func positive(f float64) bool { return finite(f) && f > 0 }

// inRange reports whether f lies in [-limit, limit]. NaN never does.
func inRange(f, limit float64) bool { return f >= -limit && f <= limit }
