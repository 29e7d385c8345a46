package brandcloud

import (
	"errors"
	"net/http"
)

// CreateDocumentParams creates a document inside a folder.
type CreateDocumentParams struct {
	Domain          string  `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	Name            string  `json:"name" jsonschema:"Document name (same as page 1 header)"`
	BcFolderID      int64   `json:"bcFolderId" jsonschema:"Folder ID where the document will be created"`
	Rank            *int64  `json:"rank,omitempty" jsonschema:"Display order of the document"`
	AllowComments   *bool   `json:"allowComments,omitempty" jsonschema:"Allow comments on this document"`
	PreviewURL      *string `json:"previewUrl,omitempty" jsonschema:"Preview image URL"`
	PreviewMetaData *string `json:"previewMetaData,omitempty" jsonschema:"Metadata JSON for preview"`
	ImageFileID     *int64  `json:"imageFileId,omitempty" jsonschema:"File ID for document icon image"`
	FilesIDs        []int64 `json:"filesIds,omitempty" jsonschema:"File IDs to create document with"`
	IconText        *string `json:"iconText,omitempty" jsonschema:"Text over image/bg on document icon"`
	IconBgColor     *string `json:"iconBgColor,omitempty" jsonschema:"Document icon background color"`
	IconTextColor   *string `json:"iconTextColor,omitempty" jsonschema:"Document icon text color"`
}

func (p CreateDocumentParams) TenantDomain() string { return p.Domain }

// Request builds POST document.
func (p CreateDocumentParams) Request(policy FieldPolicy) (*Request, error) {
	rank := int64(1)
	if p.Rank != nil {
		rank = *p.Rank
	}

	b := NewBody(policy).
		Set("name", p.Name).
		Set("bc_folder_id", p.BcFolderID).
		Set("rank", rank)
	Optional(b, "allow_comments", p.AllowComments)
	Guarded(b, "preview__url", p.PreviewURL)
	Guarded(b, "preview__meta_data", p.PreviewMetaData)
	Guarded(b, "image__file_id", p.ImageFileID)
	OptionalSlice(b, "files_ids", p.FilesIDs)
	Guarded(b, "icon_text", p.IconText)
	Guarded(b, "icon_bg_color", p.IconBgColor)
	Guarded(b, "icon_text_color", p.IconTextColor)

	return &Request{Method: http.MethodPost, Path: []string{"document"}, Body: b}, nil
}

// UpdateDocumentParams changes an existing document. Only provided fields
// are sent.
type UpdateDocumentParams struct {
	Domain          string  `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	DocumentID      int64   `json:"documentId" jsonschema:"The ID of the document to update"`
	Name            *string `json:"name,omitempty" jsonschema:"New document name"`
	BcFolderID      *int64  `json:"bcFolderId,omitempty" jsonschema:"Move to this folder ID"`
	Rank            *int64  `json:"rank,omitempty" jsonschema:"New display order"`
	AllowComments   *bool   `json:"allowComments,omitempty" jsonschema:"Allow comments on this document"`
	PreviewURL      *string `json:"previewUrl,omitempty" jsonschema:"Preview image URL"`
	PreviewMetaData *string `json:"previewMetaData,omitempty" jsonschema:"Metadata JSON for preview"`
	ImageFileID     *int64  `json:"imageFileId,omitempty" jsonschema:"File ID for document icon image"`
	IconText        *string `json:"iconText,omitempty" jsonschema:"Text over image/bg on document icon"`
	IconBgColor     *string `json:"iconBgColor,omitempty" jsonschema:"Document icon background color"`
	IconTextColor   *string `json:"iconTextColor,omitempty" jsonschema:"Document icon text color"`
}

func (p UpdateDocumentParams) TenantDomain() string { return p.Domain }

// Request builds PUT document/{id}.
func (p UpdateDocumentParams) Request(policy FieldPolicy) (*Request, error) {
	b := NewBody(policy)
	Guarded(b, "name", p.Name)
	Guarded(b, "bc_folder_id", p.BcFolderID)
	Optional(b, "rank", p.Rank)
	Optional(b, "allow_comments", p.AllowComments)
	Guarded(b, "preview__url", p.PreviewURL)
	Guarded(b, "preview__meta_data", p.PreviewMetaData)
	Guarded(b, "image__file_id", p.ImageFileID)
	Guarded(b, "icon_text", p.IconText)
	Guarded(b, "icon_bg_color", p.IconBgColor)
	Guarded(b, "icon_text_color", p.IconTextColor)

	return &Request{
		Method: http.MethodPut,
		Path:   []string{"document", Segment(p.DocumentID)},
		Body:   b,
	}, nil
}

// DeleteDocumentsParams moves documents to trash.
type DeleteDocumentsParams struct {
	Domain      string  `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	DocumentIDs []int64 `json:"documentIds" jsonschema:"Array of document IDs to move to trash"`
}

func (p DeleteDocumentsParams) TenantDomain() string { return p.Domain }

// Request builds DELETE document with {"ids": [...]}.
func (p DeleteDocumentsParams) Request(policy FieldPolicy) (*Request, error) {
	if len(p.DocumentIDs) == 0 {
		return nil, errors.New("documentIds must not be empty")
	}
	return &Request{
		Method:      http.MethodDelete,
		Path:        []string{"document"},
		Body:        NewBody(policy).Set("ids", p.DocumentIDs),
		TrashEntity: "Documents",
	}, nil
}

// ListDocumentsParams filters the document tree.
type ListDocumentsParams struct {
	Domain           string   `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	RootID           *int64   `json:"rootId,omitempty" jsonschema:"List documents from this folder ID"`
	BcID             *int64   `json:"bcId,omitempty" jsonschema:"BrandCloud domain ID to filter by"`
	ContainsElements []string `json:"containsElements,omitempty" jsonschema:"Filter documents containing these elements"`
	ContainsFileExts []string `json:"containsFileExts,omitempty" jsonschema:"Filter documents containing these file extensions"`
}

func (p ListDocumentsParams) TenantDomain() string { return p.Domain }

// Request builds GET document with repeated array filters.
func (p ListDocumentsParams) Request(FieldPolicy) (*Request, error) {
	q := NewQuery().
		AddOptionalInt("rootId", p.RootID).
		AddOptionalInt("bcId", p.BcID).
		AddEach("containsElements", p.ContainsElements).
		AddEach("containsFileExts", p.ContainsFileExts)
	return &Request{Method: http.MethodGet, Path: []string{"document"}, Query: q}, nil
}

// GetDocumentParams identifies one document.
type GetDocumentParams struct {
	Domain     string `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	DocumentID int64  `json:"documentId" jsonschema:"The ID of the document to retrieve"`
}

func (p GetDocumentParams) TenantDomain() string { return p.Domain }

// Request builds GET document/{id}.
func (p GetDocumentParams) Request(FieldPolicy) (*Request, error) {
	return &Request{Method: http.MethodGet, Path: []string{"document", Segment(p.DocumentID)}}, nil
}

// PublishRevisionParams publishes a document revision.
type PublishRevisionParams struct {
	Domain     string `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	DocumentID int64  `json:"documentId" jsonschema:"Document ID"`
	RevisionID int64  `json:"revisionId" jsonschema:"Document revision ID to publish"`
}

func (p PublishRevisionParams) TenantDomain() string { return p.Domain }

// Request builds POST document/{id}/revision/{rev} with no body.
func (p PublishRevisionParams) Request(FieldPolicy) (*Request, error) {
	return &Request{
		Method: http.MethodPost,
		Path:   []string{"document", Segment(p.DocumentID), "revision", Segment(p.RevisionID)},
	}, nil
}
