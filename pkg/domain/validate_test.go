package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestValidateAmounts(t *testing.T) {
	factor := -1.0
	nanFactor, infFactor := math.NaN(), math.Inf(1)
	cases := map[string][]Amount{
		"empty":       nil,
		"zero amount": {{Amount: 0, Unit: "MWh"}},
		"negative":    {{Amount: -5, Unit: "MWh"}},
		"nan":         {{Amount: math.NaN(), Unit: "MWh"}},
		"no unit":     {{Amount: 1, Unit: "  "}},
		"bad factor":  {{Amount: 1, Unit: "MWh", ConversionFactor: &factor}},
		"nan factor":  {{Amount: 1, Unit: "MWh", ConversionFactor: &nanFactor}},
		"inf factor":  {{Amount: 1, Unit: "MWh", ConversionFactor: &infFactor}},
		"inf amount":  {{Amount: math.Inf(1), Unit: "MWh"}},
		"second bad":  {{Amount: 1, Unit: "MWh"}, {Amount: 2}},
	}
	for name, amounts := range cases {
		err := ValidateAmounts("certificates.create", amounts)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if err := ValidateAmounts("certificates.create", []Amount{{Amount: 10, Unit: "MWh"}}); err != nil {
		t.Fatalf("valid amounts rejected: %v", err)
	}
}

func TestValidateCertificate(t *testing.T) {
	ok := Certificate{Type: CertificateIREC, Amounts: []Amount{{Amount: 1, Unit: "MWh"}}}
	if err := ValidateCertificate("op", ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := ok
	bad.Type = "BOGUS"
	if err := ValidateCertificate("op", bad); !IsKind(err, KindValidation) {
		t.Fatalf("expected unknown type rejection")
	}
	bad = ok
	bad.Links = []Link{{URL: ""}}
	if err := ValidateCertificate("op", bad); err == nil {
		t.Fatalf("expected link rejection")
	}
}

func TestValidateNonFiniteNumbers(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(-1)
	for name, loc := range map[string]*Location{
		"nan latitude":  {Country: "US", Latitude: &nan},
		"inf latitude":  {Country: "US", Latitude: &inf},
		"nan longitude": {Country: "US", Longitude: &nan},
		"inf longitude": {Country: "US", Longitude: &inf},
	} {
		if err := ValidateLocation("op", EntityProductionSource, loc); !IsKind(err, KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	for name, em := range map[string]EmissionsData{
		"intensity": {CarbonIntensity: nan},
		"co2":       {CO2Equivalent: &inf},
		"factor":    {EmissionsFactor: &nan},
	} {
		c := Certificate{Type: CertificateIREC, Amounts: []Amount{{Amount: 1, Unit: "MWh"}}, Emissions: []EmissionsData{em}}
		if err := ValidateCertificate("op", c); !IsKind(err, KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	edge := 90.0
	if err := ValidateLocation("op", EntityEvent, &Location{Country: "US", Latitude: &edge}); err != nil {
		t.Fatalf("boundary latitude rejected: %v", err)
	}
}

func TestValidateEvent(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)
	ok := Event{Target: TargetCertificate, TargetID: "c1", Type: "ISSUANCE", Dates: &EventDates{Start: start}}
	if err := ValidateEvent("op", ok); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	cases := []Event{
		{Target: "ORG", TargetID: "x", Type: "t"},
		{Target: TargetProductionSource, Type: "t"},
		{Target: TargetProductionSource, TargetID: "p"},
		{Target: TargetCertificate, TargetID: "c", Type: "t", Dates: &EventDates{Start: start, End: &before}},
		{Target: TargetCertificate, TargetID: "c", Type: "t", Location: &Location{}},
	}
	for i, e := range cases {
		if err := ValidateEvent("op", e); !IsKind(err, KindValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestValidateOrganizationAndSource(t *testing.T) {
	if err := ValidateOrganization("op", Organization{}); err == nil {
		t.Fatalf("expected missing name")
	}
	if err := ValidateOrganization("op", Organization{Name: "A", Contacts: []Contact{{Type: "email"}}}); err == nil {
		t.Fatalf("expected empty contact rejection")
	}
	lat := 91.0
	if err := ValidateProductionSource("op", ProductionSource{Location: &Location{Country: "US", Latitude: &lat}}); err == nil {
		t.Fatalf("expected latitude rejection")
	}
	lon := 200.0
	if err := ValidateLocation("op", EntityEvent, &Location{Country: "US", Longitude: &lon}); err == nil {
		t.Fatalf("expected longitude rejection")
	}
	if err := ValidateProductionSource("op", ProductionSource{EACTypes: []CertificateType{"X"}}); err == nil {
		t.Fatalf("expected eac type rejection")
	}
	if err := ValidateProductionSource("op", ProductionSource{EACTypes: []CertificateType{CertificateGO}, Location: &Location{Country: "DE"}}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestEnumValidity(t *testing.T) {
	if !FileTypeImage.Valid() || FileType("PDF").Valid() {
		t.Fatalf("file type validity mismatch")
	}
	if !TargetProductionSource.Valid() || EventTarget("ORG").Valid() {
		t.Fatalf("target validity mismatch")
	}
	var l *Location
	if l.CountryKey() != "" {
		t.Fatalf("nil location should have empty key")
	}
	if (&Location{Country: " US "}).CountryKey() != "us" {
		t.Fatalf("expected lower-cased key")
	}
}
