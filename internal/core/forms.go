package core

import (
	"context"
	"time"

	"eaccore/internal/identity"
	"eaccore/internal/refs"
	"eaccore/pkg/domain"
)

// CertificateForm is a certificate as edited in a form. An empty ID creates a
// new record; otherwise every field replaces the stored value.
type CertificateForm struct {
	ID                 string
	Type               domain.CertificateType
	Amounts            []domain.Amount
	ExternalIDs        []domain.ExternalID
	Emissions          []domain.EmissionsData
	Links              []domain.Link
	Documents          []refs.DocumentItem
	ProductionSourceID *string
}

// ProductionSourceForm is a production source as edited in a form.
type ProductionSourceForm struct {
	ID                       string
	Name                     *string
	Description              *string
	Technology               []string
	EACTypes                 []domain.CertificateType
	Labels                   []string
	OperationStartDate       *time.Time
	Location                 *domain.Location
	Links                    []domain.Link
	Documents                []refs.DocumentItem
	ExternalIDs              []domain.ExternalID
	RelatedProductionSources []refs.SourceItem
	Organizations            []refs.OrganizationItem
	Metadata                 []domain.MetadataItem
}

// OrganizationForm is an organization as edited in a form.
type OrganizationForm struct {
	ID          string
	Name        string
	URL         *string
	Description *string
	Contacts    []domain.Contact
	Location    *domain.Location
	ExternalIDs []domain.ExternalID
	Documents   []refs.DocumentItem
}

// EventForm is an event as edited in a form. The target is fixed once the
// event exists.
type EventForm struct {
	ID            string
	Target        domain.EventTarget
	TargetID      string
	Type          string
	Value         *string
	Dates         *domain.EventDates
	Location      *domain.Location
	Organizations []refs.OrganizationItem
	Notes         *string
	Documents     []refs.DocumentItem
	Links         []domain.Link
	Metadata      []domain.MetadataItem
}

// storeDocuments uploads pending items and returns the id array to persist.
func (s *Service) storeDocuments(ctx context.Context, items []refs.DocumentItem) ([]string, domain.Result, error) {
	stored, res, err := refs.StoreUploads(ctx, s.docs, items)
	if err != nil {
		return nil, res, err
	}
	return refs.ProjectIDs(stored), res, nil
}

// SubmitCertificateForm runs the form flow: validate, upload pending
// documents, project the reference lists to ids, then insert or update.
// Documents uploaded before a later failure stay stored and unreferenced.
func (s *Service) SubmitCertificateForm(ctx context.Context, form CertificateForm) (saved domain.Certificate, res domain.Result, err error) {
	const op = "submit_certificate_form"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		c := domain.Certificate{
			Type:               form.Type,
			Amounts:            form.Amounts,
			ExternalIDs:        refs.ProjectExternalIDs(form.ExternalIDs),
			Emissions:          form.Emissions,
			Links:              refs.ProjectLinks(form.Links),
			ProductionSourceID: form.ProductionSourceID,
		}
		if err := domain.ValidateCertificate(op, c); err != nil {
			return form.ID, err
		}
		ids, r, err := s.storeDocuments(ctx, form.Documents)
		res.Merge(r)
		if err != nil {
			return form.ID, err
		}
		c.Documents = ids
		if form.ID == "" {
			c.Base = s.newBase()
			saved, err = s.store.InsertCertificate(ctx, c)
			return c.ID, persistenceError(op, domain.EntityCertificate, err)
		}
		saved, err = s.store.UpdateCertificate(ctx, form.ID, domain.CertificatePatch{
			Type:               domain.Set(c.Type),
			Amounts:            domain.Set(c.Amounts),
			ExternalIDs:        domain.Set(c.ExternalIDs),
			Emissions:          domain.Set(c.Emissions),
			Links:              domain.Set(c.Links),
			Documents:          domain.Set(c.Documents),
			ProductionSourceID: domain.Set(c.ProductionSourceID),
		})
		return form.ID, persistenceError(op, domain.EntityCertificate, err)
	})
	return saved, res, err
}

func (s *Service) SubmitProductionSourceForm(ctx context.Context, form ProductionSourceForm) (saved domain.ProductionSource, res domain.Result, err error) {
	const op = "submit_production_source_form"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		p := domain.ProductionSource{
			Name:                     form.Name,
			Description:              form.Description,
			Technology:               form.Technology,
			EACTypes:                 form.EACTypes,
			Labels:                   form.Labels,
			OperationStartDate:       form.OperationStartDate,
			Location:                 form.Location,
			Links:                    refs.ProjectLinks(form.Links),
			ExternalIDs:              refs.ProjectExternalIDs(form.ExternalIDs),
			RelatedProductionSources: refs.ProjectRelatedSources(form.RelatedProductionSources),
			Organizations:            refs.ProjectOrganizationRoles(form.Organizations),
			Metadata:                 form.Metadata,
		}
		if err := domain.ValidateProductionSource(op, p); err != nil {
			return form.ID, err
		}
		ids, r, err := s.storeDocuments(ctx, form.Documents)
		res.Merge(r)
		if err != nil {
			return form.ID, err
		}
		p.Documents = ids
		if form.ID == "" {
			p.Base = s.newBase()
			saved, err = s.store.InsertProductionSource(ctx, p)
			return p.ID, persistenceError(op, domain.EntityProductionSource, err)
		}
		saved, err = s.store.UpdateProductionSource(ctx, form.ID, domain.ProductionSourcePatch{
			Name:                     domain.Set(p.Name),
			Description:              domain.Set(p.Description),
			Technology:               domain.Set(p.Technology),
			EACTypes:                 domain.Set(p.EACTypes),
			Labels:                   domain.Set(p.Labels),
			OperationStartDate:       domain.Set(p.OperationStartDate),
			Location:                 domain.Set(p.Location),
			Links:                    domain.Set(p.Links),
			Documents:                domain.Set(p.Documents),
			ExternalIDs:              domain.Set(p.ExternalIDs),
			RelatedProductionSources: domain.Set(p.RelatedProductionSources),
			Organizations:            domain.Set(p.Organizations),
			Metadata:                 domain.Set(p.Metadata),
		})
		return form.ID, persistenceError(op, domain.EntityProductionSource, err)
	})
	return saved, res, err
}

func (s *Service) SubmitOrganizationForm(ctx context.Context, form OrganizationForm) (saved domain.Organization, res domain.Result, err error) {
	const op = "submit_organization_form"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		o := domain.Organization{
			Name:        form.Name,
			URL:         form.URL,
			Description: form.Description,
			Contacts:    form.Contacts,
			Location:    form.Location,
			ExternalIDs: refs.ProjectExternalIDs(form.ExternalIDs),
		}
		if err := domain.ValidateOrganization(op, o); err != nil {
			return form.ID, err
		}
		ids, r, err := s.storeDocuments(ctx, form.Documents)
		res.Merge(r)
		if err != nil {
			return form.ID, err
		}
		o.Documents = ids
		if form.ID == "" {
			o.Base = s.newBase()
			saved, err = s.store.InsertOrganization(ctx, o)
			return o.ID, persistenceError(op, domain.EntityOrganization, err)
		}
		saved, err = s.store.UpdateOrganization(ctx, form.ID, domain.OrganizationPatch{
			Name:        domain.Set(o.Name),
			URL:         domain.Set(o.URL),
			Description: domain.Set(o.Description),
			Contacts:    domain.Set(o.Contacts),
			Location:    domain.Set(o.Location),
			ExternalIDs: domain.Set(o.ExternalIDs),
			Documents:   domain.Set(o.Documents),
		})
		return form.ID, persistenceError(op, domain.EntityOrganization, err)
	})
	return saved, res, err
}

func (s *Service) SubmitEventForm(ctx context.Context, form EventForm) (saved domain.Event, res domain.Result, err error) {
	const op = "submit_event_form"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		e := domain.Event{
			Target:        form.Target,
			TargetID:      form.TargetID,
			Type:          form.Type,
			Value:         form.Value,
			Dates:         form.Dates,
			Location:      form.Location,
			Organizations: refs.ProjectOrganizationRoles(form.Organizations),
			Notes:         form.Notes,
			Links:         refs.ProjectLinks(form.Links),
			Metadata:      form.Metadata,
		}
		if err := domain.ValidateEvent(op, e); err != nil {
			return form.ID, err
		}
		ids, r, err := s.storeDocuments(ctx, form.Documents)
		res.Merge(r)
		if err != nil {
			return form.ID, err
		}
		e.Documents = ids
		if form.ID == "" {
			e.Base = s.newBase()
			saved, err = s.store.InsertEvent(ctx, e)
			return e.ID, persistenceError(op, domain.EntityEvent, err)
		}
		saved, err = s.store.UpdateEvent(ctx, form.ID, domain.EventPatch{
			Type:          domain.Set(e.Type),
			Value:         domain.Set(e.Value),
			Dates:         domain.Set(e.Dates),
			Location:      domain.Set(e.Location),
			Organizations: domain.Set(e.Organizations),
			Notes:         domain.Set(e.Notes),
			Documents:     domain.Set(e.Documents),
			Links:         domain.Set(e.Links),
			Metadata:      domain.Set(e.Metadata),
		})
		return form.ID, persistenceError(op, domain.EntityEvent, err)
	})
	return saved, res, err
}
