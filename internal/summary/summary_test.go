package summary

import (
	"testing"

	"eaccore/pkg/domain"
)

type row struct {
	kind    string
	tags    []string
	country string
}

var rowSpec = Spec[row]{
	Fields: []Field[row]{
		Scalar("kind", func(r row) string { return r.kind }),
		{Name: "tags", Values: func(r row) []string { return r.tags }},
	},
	Country: func(r row) string { return r.country },
}

func TestSummarizeTopThreeTieBreak(t *testing.T) {
	var rows []row
	for _, k := range []string{"A", "B", "A", "C", "B", "A"} {
		rows = append(rows, row{kind: k})
	}
	s := Summarize(rows, rowSpec)
	if s.Total != 6 {
		t.Fatalf("total = %d", s.Total)
	}
	kind, ok := s.Field("kind")
	if !ok {
		t.Fatalf("missing kind breakdown")
	}
	want := []Count{{"A", 3}, {"B", 2}, {"C", 1}}
	if len(kind.Top) != 3 || kind.Distinct != 3 {
		t.Fatalf("unexpected breakdown %+v", kind)
	}
	for i := range want {
		if kind.Top[i] != want[i] {
			t.Fatalf("top[%d] = %+v, want %+v", i, kind.Top[i], want[i])
		}
	}

	ties := Summarize([]row{{kind: "Z"}, {kind: "Y"}, {kind: "X"}, {kind: "W"}, {kind: "Y"}, {kind: "Z"}}, rowSpec)
	top, _ := ties.Field("kind")
	if top.Top[0].Value != "Z" || top.Top[1].Value != "Y" || top.Top[2].Value != "X" || len(top.Top) != 3 {
		t.Fatalf("ties must follow first occurrence: %+v", top.Top)
	}
}

func TestSummarizeCountsArrayElements(t *testing.T) {
	s := Summarize([]row{{tags: []string{"solar", "wind"}}, {tags: []string{"solar", " "}}, {}}, rowSpec)
	tags, _ := s.Field("tags")
	if tags.Distinct != 2 || tags.Top[0] != (Count{"solar", 2}) || tags.Top[1] != (Count{"wind", 1}) {
		t.Fatalf("unexpected tags breakdown %+v", tags)
	}
	if _, ok := s.Field("nope"); ok {
		t.Fatalf("unexpected field")
	}
}

func TestSummarizeGeography(t *testing.T) {
	s := Summarize([]row{{country: "US"}, {country: "us"}, {country: "CA"}, {country: ""}}, rowSpec)
	if s.UniqueCountries != 2 {
		t.Fatalf("unique countries = %d", s.UniqueCountries)
	}
	if len(s.TopCountries) != 2 || s.TopCountries[0] != (CountryCount{Key: "us", Name: "United States", Count: 2}) || s.TopCountries[1].Name != "Canada" {
		t.Fatalf("unexpected countries %+v", s.TopCountries)
	}

	named := Summarize([]row{{country: "germany"}, {country: "Atlantis"}, {country: "FRA"}}, rowSpec)
	if named.TopCountries[0].Name != "Germany" || named.TopCountries[1].Name != "atlantis" || named.TopCountries[2].Name != "France" {
		t.Fatalf("unexpected names %+v", named.TopCountries)
	}
}

func TestSummarizeEmptyAndNoGeography(t *testing.T) {
	s := Summarize[row](nil, Spec[row]{Fields: rowSpec.Fields, TopN: 1})
	if s.Total != 0 || len(s.Fields) != 2 || len(s.Fields[0].Top) != 0 || s.TopCountries == nil {
		t.Fatalf("unexpected empty summary %+v", s)
	}
}

func TestCountryName(t *testing.T) {
	cases := map[string]string{"de": "Germany", "DEU": "Germany", "United Kingdom": "United Kingdom", " gb ": "United Kingdom", "Narnia": "narnia"}
	for in, want := range cases {
		if got := CountryName(in); got != want {
			t.Fatalf("CountryName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPresets(t *testing.T) {
	loc := func(c string) *domain.Location { return &domain.Location{Country: c} }
	certs := Summarize([]domain.Certificate{
		{Type: domain.CertificateREC, Amounts: []domain.Amount{{Amount: 1, Unit: "MWh"}}},
		{Type: domain.CertificateGO, Amounts: []domain.Amount{{Amount: 2, Unit: "MWh"}, {Amount: 1, Unit: "tCO2e"}}},
		{Type: domain.CertificateREC},
	}, Certificates)
	if typ, _ := certs.Field("type"); typ.Top[0] != (Count{"REC", 2}) {
		t.Fatalf("unexpected certificate types %+v", typ)
	}
	if unit, _ := certs.Field("unit"); unit.Top[0] != (Count{"MWh", 2}) {
		t.Fatalf("unexpected units %+v", unit)
	}

	sources := Summarize([]domain.ProductionSource{
		{Technology: []string{"solar"}, EACTypes: []domain.CertificateType{domain.CertificateIREC}, Location: loc("BR")},
		{Technology: []string{"solar", "storage"}, Location: loc("br")},
		{Technology: []string{"wind"}},
	}, ProductionSources)
	if tech, _ := sources.Field("technology"); tech.Top[0] != (Count{"solar", 2}) || tech.Distinct != 3 {
		t.Fatalf("unexpected technology %+v", tech)
	}
	if sources.UniqueCountries != 1 || sources.TopCountries[0].Name != "Brazil" {
		t.Fatalf("unexpected source geography %+v", sources.TopCountries)
	}

	events := Summarize([]domain.Event{
		{Target: domain.TargetCertificate, Type: "ISSUANCE"},
		{Target: domain.TargetProductionSource, Type: "AUDIT", Location: loc("NL")},
	}, Events)
	if target, _ := events.Field("target"); target.Distinct != 2 || events.UniqueCountries != 1 {
		t.Fatalf("unexpected event summary %+v", events)
	}

	orgs := Summarize([]domain.Organization{
		{Name: "A", Contacts: []domain.Contact{{Type: "email", Value: "a@x"}}, Location: loc("Japan")},
		{Name: "B", Location: loc("JP")},
	}, Organizations)
	if orgs.UniqueCountries != 2 || orgs.TopCountries[0].Name != "Japan" || orgs.TopCountries[1].Name != "Japan" {
		t.Fatalf("unexpected organization geography %+v", orgs.TopCountries)
	}
}
