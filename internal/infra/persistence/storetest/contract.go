// Package storetest holds the behavioural contract every domain.PersistentStore
// adapter must satisfy. Adapter packages call Run from their own tests.
package storetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"eaccore/pkg/domain"
)

// Factory builds a fresh, empty store whose partial updates stamp updated_at
// with now.
type Factory func(t *testing.T, now func() time.Time) domain.PersistentStore

// Options relaxes checks a backend cannot honour.
type Options struct {
	// SkipOrdering disables newest-first assertions (stub drivers ignore ORDER BY).
	SkipOrdering bool
}

var (
	t0      = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	patchAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

func base(id string, offset time.Duration) domain.Base {
	return domain.Base{ID: id, CreatedAt: t0.Add(offset), UpdatedAt: t0.Add(offset)}
}

// Run executes the contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory, opts Options) {
	t.Helper()
	clock := func() time.Time { return patchAt }
	t.Run("documents", func(t *testing.T) { documents(t, newStore(t, clock), opts) })
	t.Run("certificates", func(t *testing.T) { certificates(t, newStore(t, clock)) })
	t.Run("production_sources", func(t *testing.T) { productionSources(t, newStore(t, clock)) })
	t.Run("organizations", func(t *testing.T) { organizations(t, newStore(t, clock)) })
	t.Run("events", func(t *testing.T) { events(t, newStore(t, clock), opts) })
	t.Run("empty_references", func(t *testing.T) { emptyReferences(t, newStore(t, clock)) })
}

func sameJSON(t *testing.T, label string, got, want any) {
	t.Helper()
	g, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("%s: marshal got: %v", label, err)
	}
	w, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("%s: marshal want: %v", label, err)
	}
	if string(g) != string(w) {
		t.Fatalf("%s mismatch:\n got: %s\nwant: %s", label, g, w)
	}
}

func documents(t *testing.T, store domain.PersistentStore, opts Options) {
	ctx := context.Background()
	first := domain.Document{
		Base:          base("doc-1", 0),
		URL:           "https://blob.example/doc-1/report.pdf",
		FileType:      domain.FileTypeAuditReport,
		Title:         ptr("Audit 2023"),
		Metadata:      []domain.MetadataItem{{Key: "year", Label: "Year", Value: ptr("2023")}},
		Organizations: []domain.OrganizationRole{{OrgID: "org-1", Role: "auditor"}},
	}
	second := domain.Document{Base: base("doc-2", time.Hour), URL: "https://blob.example/doc-2/x.png", FileType: domain.FileTypeImage}
	for _, d := range []domain.Document{first, second} {
		if _, err := store.InsertDocument(ctx, d); err != nil {
			t.Fatalf("insert %s: %v", d.ID, err)
		}
	}
	if _, err := store.InsertDocument(ctx, first); !domain.IsKind(err, domain.KindPersistence) {
		t.Fatalf("expected persistence error on duplicate id, got %v", err)
	}
	got, err := store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sameJSON(t, "document round trip", got, first)
	got2, err := store.GetDocument(ctx, "doc-2")
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if got2.Metadata != nil || got2.Title != nil || got2.Organizations != nil {
		t.Fatalf("expected unset columns to stay nil, got %+v", got2)
	}
	if _, err := store.GetDocument(ctx, "missing"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	empty, err := store.GetDocumentsByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result for no ids: %v %+v", err, empty)
	}
	some, err := store.GetDocumentsByIDs(ctx, []string{"doc-2", "ghost", "doc-1"})
	if err != nil || len(some) != 2 {
		t.Fatalf("expected two documents: %v %+v", err, some)
	}

	all, err := store.ListDocuments(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("list: %v %+v", err, all)
	}
	if !opts.SkipOrdering && all[0].ID != "doc-2" {
		t.Fatalf("expected newest first, got %s", all[0].ID)
	}

	updated, err := store.UpdateDocument(ctx, "doc-1", domain.DocumentPatch{
		Title:    domain.Set(ptr("Audit 2023 (final)")),
		Metadata: domain.Clear[[]domain.MetadataItem](),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if *updated.Title != "Audit 2023 (final)" || updated.Metadata != nil || len(updated.Organizations) != 1 {
		t.Fatalf("unexpected patch result %+v", updated)
	}
	if !updated.UpdatedAt.Equal(patchAt) || !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected updated_at stamped by clock, got %v / %v", updated.CreatedAt, updated.UpdatedAt)
	}
	reread, _ := store.GetDocument(ctx, "doc-1")
	sameJSON(t, "document after update", reread, updated)
	if _, err := store.UpdateDocument(ctx, "missing", domain.DocumentPatch{}); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}

	if err := store.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetDocument(ctx, "doc-1"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected deleted row gone, got %v", err)
	}
	if err := store.DeleteDocument(ctx, "doc-1"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func certificates(t *testing.T, store domain.PersistentStore) {
	ctx := context.Background()
	cert := domain.Certificate{
		Base:               base("cert-1", 0),
		Type:               domain.CertificateIREC,
		Amounts:            []domain.Amount{{Amount: 12.5, Unit: "MWh", ConversionFactor: ptr(1.0)}},
		ExternalIDs:        []domain.ExternalID{{ID: "EXT-9", OwnerOrgID: ptr("org-1")}},
		Emissions:          []domain.EmissionsData{{CarbonIntensity: 0.02, Unit: ptr("kgCO2e/kWh")}},
		Links:              []domain.Link{{URL: "https://registry.example/cert-1"}},
		ProductionSourceID: ptr("ps-1"),
	}
	if _, err := store.InsertCertificate(ctx, cert); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := store.GetCertificate(ctx, "cert-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sameJSON(t, "certificate round trip", got, cert)
	if got.Documents != nil {
		t.Fatalf("expected nil documents to persist as null, got %#v", got.Documents)
	}
	updated, err := store.UpdateCertificate(ctx, "cert-1", domain.CertificatePatch{Documents: domain.Set([]string{"doc-9"})})
	if err != nil || len(updated.Documents) != 1 || updated.Documents[0] != "doc-9" {
		t.Fatalf("update documents: %v %+v", err, updated)
	}
	cleared, err := store.UpdateCertificate(ctx, "cert-1", domain.CertificatePatch{Documents: domain.Clear[[]string](), ProductionSourceID: domain.Clear[*string]()})
	if err != nil || cleared.Documents != nil || cleared.ProductionSourceID != nil {
		t.Fatalf("clear documents: %v %+v", err, cleared)
	}
	if list, err := store.ListCertificates(ctx); err != nil || len(list) != 1 || len(list[0].Amounts) != 1 {
		t.Fatalf("list: %v %+v", err, list)
	}
	if err := store.DeleteCertificate(ctx, "cert-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetCertificate(ctx, "cert-1"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func productionSources(t *testing.T, store domain.PersistentStore) {
	ctx := context.Background()
	started := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	src := domain.ProductionSource{
		Base:                     base("ps-1", 0),
		Name:                     ptr("Windpark Nord"),
		Technology:               []string{"wind", "onshore"},
		EACTypes:                 []domain.CertificateType{domain.CertificateGO},
		OperationStartDate:       &started,
		Location:                 &domain.Location{Country: "DE", Subdivision: ptr("DE-SH"), Latitude: ptr(54.3), Longitude: ptr(9.7)},
		Documents:                []string{"doc-1"},
		RelatedProductionSources: []string{"ps-2"},
		Events:                   []string{"ev-1"},
	}
	if _, err := store.InsertProductionSource(ctx, src); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := store.GetProductionSource(ctx, "ps-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sameJSON(t, "production source round trip", got, src)
	updated, err := store.UpdateProductionSource(ctx, "ps-1", domain.ProductionSourcePatch{
		Location:           domain.Clear[*domain.Location](),
		OperationStartDate: domain.Clear[*time.Time](),
		Labels:             domain.Set([]string{"community"}),
	})
	if err != nil || updated.Location != nil || updated.OperationStartDate != nil || len(updated.Labels) != 1 {
		t.Fatalf("update: %v %+v", err, updated)
	}
	if list, err := store.ListProductionSources(ctx); err != nil || len(list) != 1 {
		t.Fatalf("list: %v %+v", err, list)
	}
	if err := store.DeleteProductionSource(ctx, "ps-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteProductionSource(ctx, "ps-1"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func organizations(t *testing.T, store domain.PersistentStore) {
	ctx := context.Background()
	org := domain.Organization{
		Base:     base("org-1", 0),
		Name:     "Grid Registry AG",
		URL:      ptr("https://registry.example"),
		Contacts: []domain.Contact{{Type: "email", Value: "ops@registry.example"}},
		Location: &domain.Location{Country: "CH"},
	}
	if _, err := store.InsertOrganization(ctx, org); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := store.GetOrganization(ctx, "org-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sameJSON(t, "organization round trip", got, org)
	updated, err := store.UpdateOrganization(ctx, "org-1", domain.OrganizationPatch{Name: domain.Set("Grid Registry SA")})
	if err != nil || updated.Name != "Grid Registry SA" || updated.URL == nil {
		t.Fatalf("update: %v %+v", err, updated)
	}
	if list, err := store.ListOrganizations(ctx); err != nil || len(list) != 1 {
		t.Fatalf("list: %v %+v", err, list)
	}
	if err := store.DeleteOrganization(ctx, "org-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func events(t *testing.T, store domain.PersistentStore, opts Options) {
	ctx := context.Background()
	end := t0.AddDate(0, 1, 0)
	evs := []domain.Event{
		{Base: base("ev-1", 0), Target: domain.TargetCertificate, TargetID: "cert-1", Type: "ISSUANCE",
			Dates: &domain.EventDates{Start: t0, End: &end}},
		{Base: base("ev-2", time.Hour), Target: domain.TargetCertificate, TargetID: "cert-1", Type: "TRANSFER", Value: ptr("50 MWh")},
		{Base: base("ev-3", 2*time.Hour), Target: domain.TargetProductionSource, TargetID: "cert-1", Type: "COMMISSIONING",
			Location: &domain.Location{Country: "fr"}},
	}
	for _, ev := range evs {
		if _, err := store.InsertEvent(ctx, ev); err != nil {
			t.Fatalf("insert %s: %v", ev.ID, err)
		}
	}
	got, err := store.GetEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sameJSON(t, "event round trip", got, evs[0])
	byTarget, err := store.ListEventsByTarget(ctx, domain.TargetCertificate, "cert-1")
	if err != nil || len(byTarget) != 2 {
		t.Fatalf("expected two certificate events: %v %+v", err, byTarget)
	}
	if !opts.SkipOrdering && byTarget[0].ID != "ev-2" {
		t.Fatalf("expected newest first, got %s", byTarget[0].ID)
	}
	if none, err := store.ListEventsByTarget(ctx, domain.TargetCertificate, "cert-404"); err != nil || len(none) != 0 {
		t.Fatalf("expected no events: %v %+v", err, none)
	}
	updated, err := store.UpdateEvent(ctx, "ev-2", domain.EventPatch{Notes: domain.Set(ptr("partial"))})
	if err != nil || updated.Notes == nil || updated.Target != domain.TargetCertificate {
		t.Fatalf("update: %v %+v", err, updated)
	}
	if all, err := store.ListEvents(ctx); err != nil || len(all) != 3 {
		t.Fatalf("list: %v %+v", err, all)
	}
	if err := store.DeleteEvent(ctx, "ev-3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetEvent(ctx, "ev-3"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// emptyReferences checks that an empty reference list, written on insert, set
// by a patch or cleared, always reads back nil.
func emptyReferences(t *testing.T, store domain.PersistentStore) {
	ctx := context.Background()
	src := domain.ProductionSource{
		Base:                     base("ps-empty", 0),
		Technology:               []string{"solar"},
		Documents:                []string{},
		RelatedProductionSources: []string{},
		Events:                   []string{},
		ExternalIDs:              []domain.ExternalID{},
		Organizations:            []domain.OrganizationRole{},
	}
	created, err := store.InsertProductionSource(ctx, src)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := store.GetProductionSource(ctx, "ps-empty")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for label, p := range map[string]domain.ProductionSource{"insert": created, "get": got} {
		if p.Documents != nil || p.RelatedProductionSources != nil || p.Events != nil || p.ExternalIDs != nil || p.Organizations != nil {
			t.Fatalf("%s: expected nil references, got %+v", label, p)
		}
	}

	if _, err := store.UpdateProductionSource(ctx, "ps-empty", domain.ProductionSourcePatch{
		Documents:                domain.Set([]string{"doc-1"}),
		RelatedProductionSources: domain.Set([]string{"ps-2"}),
		Organizations:            domain.Set([]domain.OrganizationRole{{OrgID: "org-1"}}),
	}); err != nil {
		t.Fatalf("seed references: %v", err)
	}
	if _, err := store.UpdateProductionSource(ctx, "ps-empty", domain.ProductionSourcePatch{
		Documents:                domain.Set([]string{}),
		RelatedProductionSources: domain.Clear[[]string](),
		Organizations:            domain.Set([]domain.OrganizationRole{}),
	}); err != nil {
		t.Fatalf("empty references: %v", err)
	}
	got, err = store.GetProductionSource(ctx, "ps-empty")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Documents != nil || got.RelatedProductionSources != nil || got.Organizations != nil {
		t.Fatalf("expected set-empty and cleared references to read back nil, got %+v", got)
	}

	cert := domain.Certificate{
		Base:      base("cert-empty", 0),
		Type:      domain.CertificateGO,
		Amounts:   []domain.Amount{{Amount: 1, Unit: "MWh"}},
		Documents: []string{"doc-1"},
	}
	if _, err := store.InsertCertificate(ctx, cert); err != nil {
		t.Fatalf("insert certificate: %v", err)
	}
	if _, err := store.UpdateCertificate(ctx, "cert-empty", domain.CertificatePatch{Documents: domain.Set([]string{})}); err != nil {
		t.Fatalf("update certificate: %v", err)
	}
	if c, err := store.GetCertificate(ctx, "cert-empty"); err != nil || c.Documents != nil {
		t.Fatalf("expected nil certificate documents: %v %#v", err, c.Documents)
	}
}
