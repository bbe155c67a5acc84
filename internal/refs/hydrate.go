package refs

import (
	"context"
	"fmt"

	"eaccore/internal/attachments"
	"eaccore/pkg/domain"
)

// HydrateDocuments turns a stored id array back into form items, in id order.
// Ids with no loaded document stay in the list as bare items and are reported
// as dangling references.
func HydrateDocuments(owner domain.EntityType, ownerID string, ids []string, docs []domain.Document) ([]DocumentItem, domain.Result) {
	var res domain.Result
	byID := make(map[string]domain.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	items := make([]DocumentItem, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			res.Add(domain.Warning{
				Code:     domain.WarnDanglingReference,
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("%s %s references missing document %s", owner, ownerID, id),
				Entity:   owner,
				EntityID: ownerID,
			})
			items = append(items, DocumentItem{ID: id})
			continue
		}
		title := ""
		if d.Title != nil {
			title = *d.Title
		}
		items = append(items, DocumentItem{ID: d.ID, Title: title, URL: d.URL, FileType: d.FileType})
	}
	return items, res
}

// Uploader stores a pending upload as a document.
type Uploader interface {
	CreateDocument(ctx context.Context, up attachments.Upload) (domain.Document, domain.Result, error)
}

// StoreUploads persists every item still carrying an Upload, in order, and
// returns the items with their new ids filled in. Uploads stop at the first
// failure; documents stored before it are kept.
func StoreUploads(ctx context.Context, up Uploader, items []DocumentItem) ([]DocumentItem, domain.Result, error) {
	var res domain.Result
	out := make([]DocumentItem, len(items))
	copy(out, items)
	for i, item := range out {
		if item.Upload == nil || item.Ref() != "" {
			continue
		}
		doc, r, err := up.CreateDocument(ctx, *item.Upload)
		res.Merge(r)
		if err != nil {
			return nil, res, err
		}
		out[i] = DocumentItem{ID: doc.ID, URL: doc.URL, FileType: doc.FileType, Title: item.Title}
	}
	return out, res, nil
}
