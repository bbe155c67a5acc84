// Package refs maps UI-level lists of related items onto the id arrays stored
// on owning records, and back. Projections drop entries without an id and
// return nil (stored as NULL) when nothing remains, so "not set" stays
// distinguishable from an explicit value. No referential integrity is checked.
package refs

import (
	"strings"

	"eaccore/internal/attachments"
	"eaccore/pkg/domain"
)

// DocumentItem is one entry of a documents list as edited in a form. Items
// carrying an Upload have not been stored yet.
type DocumentItem struct {
	ID       string              `json:"id,omitempty"`
	DocID    string              `json:"docId,omitempty"`
	Title    string              `json:"title,omitempty"`
	URL      string              `json:"url,omitempty"`
	FileType domain.FileType     `json:"fileType,omitempty"`
	Upload   *attachments.Upload `json:"-"`
}

// Ref returns the document id the item points at: ID, else DocID.
func (d DocumentItem) Ref() string {
	if id := strings.TrimSpace(d.ID); id != "" {
		return id
	}
	return strings.TrimSpace(d.DocID)
}

// OrganizationItem is an organization picked in a form together with its role.
type OrganizationItem struct {
	OrgID string `json:"orgId"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// SourceItem is a related production source picked in a form.
type SourceItem struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ProjectIDs reduces document items to their ids in order.
func ProjectIDs(items []DocumentItem) []string {
	return project(items, func(d DocumentItem) (string, bool) {
		id := d.Ref()
		return id, id != ""
	})
}

// ProjectRelatedSources reduces source items to their ids in order.
func ProjectRelatedSources(items []SourceItem) []string {
	return project(items, func(s SourceItem) (string, bool) {
		id := strings.TrimSpace(s.ID)
		return id, id != ""
	})
}

// CompactIDs trims raw ids and drops the empty ones. Nothing left means nil,
// so an empty list is stored as NULL.
func CompactIDs(ids []string) []string {
	return project(ids, func(id string) (string, bool) {
		id = strings.TrimSpace(id)
		return id, id != ""
	})
}

// CompactRoles keeps the roles that name an organization.
func CompactRoles(roles []domain.OrganizationRole) []domain.OrganizationRole {
	return project(roles, func(r domain.OrganizationRole) (domain.OrganizationRole, bool) {
		r.OrgID = strings.TrimSpace(r.OrgID)
		return r, r.OrgID != ""
	})
}

// ProjectOrganizationRoles keeps the (org, role) pairs that name an organization.
func ProjectOrganizationRoles(items []OrganizationItem) []domain.OrganizationRole {
	return project(items, func(o OrganizationItem) (domain.OrganizationRole, bool) {
		id := strings.TrimSpace(o.OrgID)
		return domain.OrganizationRole{OrgID: id, Role: strings.TrimSpace(o.Role)}, id != ""
	})
}

// ProjectExternalIDs keeps the external ids that carry an identifier.
func ProjectExternalIDs(items []domain.ExternalID) []domain.ExternalID {
	return project(items, func(e domain.ExternalID) (domain.ExternalID, bool) {
		e.ID = strings.TrimSpace(e.ID)
		return e, e.ID != ""
	})
}

// ProjectLinks keeps the links that carry a URL.
func ProjectLinks(items []domain.Link) []domain.Link {
	return project(items, func(l domain.Link) (domain.Link, bool) {
		l.URL = strings.TrimSpace(l.URL)
		return l, l.URL != ""
	})
}

func project[T, U any](items []T, keep func(T) (U, bool)) []U {
	var out []U
	for _, item := range items {
		if v, ok := keep(item); ok {
			out = append(out, v)
		}
	}
	return out
}

// ProjectPatch carries presence through a projection: an unset patch stays
// unset, a set patch (including null or an empty list) becomes a set patch
// of the projected value.
func ProjectPatch[T, U any](p domain.Patch[T], fn func(T) U) domain.Patch[U] {
	if !p.IsSet() {
		return domain.Patch[U]{}
	}
	return domain.Set(fn(p.Value()))
}
