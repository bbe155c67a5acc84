package summary

import "eaccore/pkg/domain"

func certificateTypes(types []domain.CertificateType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// Certificates breaks certificates down by scheme and amount unit.
var Certificates = Spec[domain.Certificate]{
	Fields: []Field[domain.Certificate]{
		Scalar("type", func(c domain.Certificate) string { return string(c.Type) }),
		{Name: "unit", Values: func(c domain.Certificate) []string {
			units := make([]string, len(c.Amounts))
			for i, a := range c.Amounts {
				units[i] = a.Unit
			}
			return units
		}},
	},
}

// ProductionSources breaks sources down by technology, EAC scheme and label,
// plus geography.
var ProductionSources = Spec[domain.ProductionSource]{
	Fields: []Field[domain.ProductionSource]{
		{Name: "technology", Values: func(p domain.ProductionSource) []string { return p.Technology }},
		{Name: "eac_types", Values: func(p domain.ProductionSource) []string { return certificateTypes(p.EACTypes) }},
		{Name: "labels", Values: func(p domain.ProductionSource) []string { return p.Labels }},
	},
	Country: func(p domain.ProductionSource) string { return p.Location.CountryKey() },
}

// Events breaks events down by target kind and event type, plus geography.
var Events = Spec[domain.Event]{
	Fields: []Field[domain.Event]{
		Scalar("target", func(e domain.Event) string { return string(e.Target) }),
		Scalar("type", func(e domain.Event) string { return e.Type }),
	},
	Country: func(e domain.Event) string { return e.Location.CountryKey() },
}

// Organizations breaks organizations down by contact type, plus geography.
var Organizations = Spec[domain.Organization]{
	Fields: []Field[domain.Organization]{
		{Name: "contact_type", Values: func(o domain.Organization) []string {
			kinds := make([]string, len(o.Contacts))
			for i, c := range o.Contacts {
				kinds[i] = c.Type
			}
			return kinds
		}},
	},
	Country: func(o domain.Organization) string { return o.Location.CountryKey() },
}
