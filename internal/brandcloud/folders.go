package brandcloud

import (
	"errors"
	"net/http"
)

// CreateFolderParams creates a folder under a parent.
type CreateFolderParams struct {
	Domain           string  `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	Name             string  `json:"name" jsonschema:"Folder name"`
	ParentBcFolderID int64   `json:"parentBcFolderId" jsonschema:"Parent folder ID"`
	Rank             *int64  `json:"rank,omitempty" jsonschema:"Display order of the folder"`
	Link             *string `json:"link,omitempty" jsonschema:"External link URL for the folder"`
	PreviewURL       *string `json:"previewUrl,omitempty" jsonschema:"Preview image URL"`
	PreviewMetaData  *string `json:"previewMetaData,omitempty" jsonschema:"Metadata JSON for preview"`
	ImageFileID      *int64  `json:"imageFileId,omitempty" jsonschema:"File ID for folder icon image"`
	HeaderFileID     *int64  `json:"headerFileId,omitempty" jsonschema:"File ID for folder header image"`
	IconText         *string `json:"iconText,omitempty" jsonschema:"Text over image/bg on folder icon"`
	IconBgColor      *string `json:"iconBgColor,omitempty" jsonschema:"Folder icon background color"`
	IconTextColor    *string `json:"iconTextColor,omitempty" jsonschema:"Folder icon text color"`
}

func (p CreateFolderParams) TenantDomain() string { return p.Domain }

// Request builds POST folder.
func (p CreateFolderParams) Request(policy FieldPolicy) (*Request, error) {
	rank := int64(1)
	if p.Rank != nil {
		rank = *p.Rank
	}

	b := NewBody(policy).
		Set("name", p.Name).
		Set("parent__bc_folder_id", p.ParentBcFolderID).
		Set("rank", rank)
	Guarded(b, "link", p.Link)
	Guarded(b, "preview__url", p.PreviewURL)
	Guarded(b, "preview__meta_data", p.PreviewMetaData)
	Guarded(b, "image__file_id", p.ImageFileID)
	Guarded(b, "header__file_id", p.HeaderFileID)
	Guarded(b, "icon_text", p.IconText)
	Guarded(b, "icon_bg_color", p.IconBgColor)
	Guarded(b, "icon_text_color", p.IconTextColor)

	return &Request{Method: http.MethodPost, Path: []string{"folder"}, Body: b}, nil
}

// UpdateFolderParams changes an existing folder.
type UpdateFolderParams struct {
	Domain           string  `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	FolderID         int64   `json:"folderId" jsonschema:"The ID of the folder to update"`
	Name             *string `json:"name,omitempty" jsonschema:"New folder name"`
	ParentBcFolderID *int64  `json:"parentBcFolderId,omitempty" jsonschema:"Move to this parent folder ID"`
	Rank             *int64  `json:"rank,omitempty" jsonschema:"New display order"`
	Link             *string `json:"link,omitempty" jsonschema:"External link URL"`
	PreviewURL       *string `json:"previewUrl,omitempty" jsonschema:"Preview image URL"`
	PreviewMetaData  *string `json:"previewMetaData,omitempty" jsonschema:"Metadata JSON for preview"`
	ImageFileID      *int64  `json:"imageFileId,omitempty" jsonschema:"File ID for folder icon image"`
	HeaderFileID     *int64  `json:"headerFileId,omitempty" jsonschema:"File ID for folder header image"`
	IconText         *string `json:"iconText,omitempty" jsonschema:"Text over image/bg on folder icon"`
	IconBgColor      *string `json:"iconBgColor,omitempty" jsonschema:"Folder icon background color"`
	IconTextColor    *string `json:"iconTextColor,omitempty" jsonschema:"Folder icon text color"`
}

func (p UpdateFolderParams) TenantDomain() string { return p.Domain }

// Request builds PUT folder/{id}.
func (p UpdateFolderParams) Request(policy FieldPolicy) (*Request, error) {
	b := NewBody(policy)
	Guarded(b, "name", p.Name)
	Guarded(b, "parent__bc_folder_id", p.ParentBcFolderID)
	Optional(b, "rank", p.Rank)
	Guarded(b, "link", p.Link)
	Guarded(b, "preview__url", p.PreviewURL)
	Guarded(b, "preview__meta_data", p.PreviewMetaData)
	Guarded(b, "image__file_id", p.ImageFileID)
	Guarded(b, "header__file_id", p.HeaderFileID)
	Guarded(b, "icon_text", p.IconText)
	Guarded(b, "icon_bg_color", p.IconBgColor)
	Guarded(b, "icon_text_color", p.IconTextColor)

	return &Request{
		Method: http.MethodPut,
		Path:   []string{"folder", Segment(p.FolderID)},
		Body:   b,
	}, nil
}

// DeleteFoldersParams moves folders to trash.
type DeleteFoldersParams struct {
	Domain    string  `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	FolderIDs []int64 `json:"folderIds" jsonschema:"Array of folder IDs to move to trash"`
}

func (p DeleteFoldersParams) TenantDomain() string { return p.Domain }

// Request builds DELETE folder with {"ids": [...]}.
func (p DeleteFoldersParams) Request(policy FieldPolicy) (*Request, error) {
	if len(p.FolderIDs) == 0 {
		return nil, errors.New("folderIds must not be empty")
	}
	return &Request{
		Method:      http.MethodDelete,
		Path:        []string{"folder"},
		Body:        NewBody(policy).Set("ids", p.FolderIDs),
		TrashEntity: "Folders",
	}, nil
}

// ListFoldersParams filters the folder tree.
type ListFoldersParams struct {
	Domain string `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	RootID *int64 `json:"rootId,omitempty" jsonschema:"List folders from this parent folder ID"`
	BcID   *int64 `json:"bcId,omitempty" jsonschema:"BrandCloud domain ID to filter by"`
}

func (p ListFoldersParams) TenantDomain() string { return p.Domain }

// Request builds GET folder.
func (p ListFoldersParams) Request(FieldPolicy) (*Request, error) {
	q := NewQuery().
		AddOptionalInt("rootId", p.RootID).
		AddOptionalInt("bcId", p.BcID)
	return &Request{Method: http.MethodGet, Path: []string{"folder"}, Query: q}, nil
}
