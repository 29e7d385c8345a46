package server

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Bigsy/brandcloud-mcp/internal/brandcloud"
)

// Tool names.
const (
	ToolCreateDocument  = "create-document"
	ToolUpdateDocument  = "update-document"
	ToolDeleteDocuments = "delete-documents"
	ToolListDocuments   = "list-documents"
	ToolGetDocument     = "get-document"
	ToolPublishRevision = "publish-document-revision"
	ToolCreateFolder    = "create-folder"
	ToolUpdateFolder    = "update-folder"
	ToolDeleteFolders   = "delete-folders"
	ToolListFolders     = "list-folders"
	ToolCreateElement   = "create-element"
	ToolUpdateElement   = "update-element"
	ToolDeleteElement   = "delete-element"
	ToolListFiles       = "list-files"
	ToolSearch          = "search-brandcloud"
	ToolGetFileImage    = "get-file-image"
)

// ToolSpec describes one exposed tool.
type ToolSpec struct {
	Name        string
	Title       string
	Description string
	ReadOnly    bool
	Destructive bool
	Idempotent  bool

	// schema builds the input schema for the tool's parameter type.
	schema func() (*jsonschema.Schema, error)
	// tune adjusts the generated schema (enums, defaults).
	tune func(*jsonschema.Schema)
}

// Annotations returns the MCP behaviour hints.
func (t ToolSpec) Annotations() *mcp.ToolAnnotations {
	destructive := t.Destructive
	openWorld := true
	return &mcp.ToolAnnotations{
		Title:           t.Title,
		ReadOnlyHint:    t.ReadOnly,
		DestructiveHint: &destructive,
		IdempotentHint:  t.Idempotent,
		OpenWorldHint:   &openWorld,
	}
}

// InputSchema builds the tool's input schema. defaultDomain, when set,
// becomes the default of the domain property.
func (t ToolSpec) InputSchema(defaultDomain string) (*jsonschema.Schema, error) {
	s, err := t.schema()
	if err != nil {
		return nil, fmt.Errorf("schema for %s: %w", t.Name, err)
	}
	if t.tune != nil {
		t.tune(s)
	}
	if defaultDomain != "" {
		setDefault(s, "domain", defaultDomain)
	}
	return s, nil
}

func schemaFor[T any]() func() (*jsonschema.Schema, error) {
	return func() (*jsonschema.Schema, error) {
		return jsonschema.For[T](nil)
	}
}

func setDefault(s *jsonschema.Schema, prop string, value any) {
	p, ok := s.Properties[prop]
	if !ok {
		return
	}
	if data, err := json.Marshal(value); err == nil {
		p.Default = data
	}
}

// setEnum stores plain strings so validation compares decoded JSON values.
func setEnum[T ~string](s *jsonschema.Schema, prop string, values []T) {
	p, ok := s.Properties[prop]
	if !ok {
		return
	}
	p.Enum = make([]any, 0, len(values))
	for _, v := range values {
		p.Enum = append(p.Enum, string(v))
	}
}

func rankDefault(s *jsonschema.Schema) { setDefault(s, "rank", 1) }

func elementTune(s *jsonschema.Schema) {
	rankDefault(s)
	setEnum(s, "type", brandcloud.ElementTypes)
}

// Catalog returns every tool in registration order.
func Catalog() []ToolSpec {
	return []ToolSpec{
		{
			Name:        ToolCreateDocument,
			Title:       "Create BrandCloud Document",
			Description: "Create a new document in BrandCloud within a specified folder.",
			schema:      schemaFor[brandcloud.CreateDocumentParams](),
			tune:        rankDefault,
		},
		{
			Name:        ToolUpdateDocument,
			Title:       "Update BrandCloud Document",
			Description: "Update an existing document's properties like name, folder location, rank, or icon settings.",
			Idempotent:  true,
			schema:      schemaFor[brandcloud.UpdateDocumentParams](),
		},
		{
			Name:        ToolDeleteDocuments,
			Title:       "Delete BrandCloud Documents",
			Description: "Move multiple documents to trash (soft delete). Documents can be restored later.",
			Destructive: true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.DeleteDocumentsParams](),
		},
		{
			Name:        ToolListDocuments,
			Title:       "List BrandCloud Documents",
			Description: "List documents in BrandCloud. Returns all documents or filtered by folder, domain, elements, or file extensions.",
			ReadOnly:    true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.ListDocumentsParams](),
		},
		{
			Name:        ToolGetDocument,
			Title:       "Get BrandCloud Document Details",
			Description: "Get detailed information about a specific document including all its elements, pages, and content.",
			ReadOnly:    true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.GetDocumentParams](),
		},
		{
			Name:        ToolPublishRevision,
			Title:       "Publish Document Revision",
			Description: "Publish a document revision to make it visible to users. After creating or editing elements in a document, you must publish the revision for changes to take effect.",
			Idempotent:  true,
			schema:      schemaFor[brandcloud.PublishRevisionParams](),
		},
		{
			Name:        ToolCreateFolder,
			Title:       "Create BrandCloud Folder",
			Description: "Create a new folder in BrandCloud within a specified parent folder.",
			schema:      schemaFor[brandcloud.CreateFolderParams](),
			tune:        rankDefault,
		},
		{
			Name:        ToolUpdateFolder,
			Title:       "Update BrandCloud Folder",
			Description: "Update an existing folder's properties like name, parent folder, rank, or icon settings.",
			Idempotent:  true,
			schema:      schemaFor[brandcloud.UpdateFolderParams](),
		},
		{
			Name:        ToolDeleteFolders,
			Title:       "Delete BrandCloud Folders",
			Description: "Move multiple folders to trash (soft delete). Folders and their contents can be restored later.",
			Destructive: true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.DeleteFoldersParams](),
		},
		{
			Name:        ToolListFolders,
			Title:       "List BrandCloud Folders",
			Description: "List folders recursively from a given parent folder or from root. Returns the folder tree structure.",
			ReadOnly:    true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.ListFoldersParams](),
		},
		{
			Name:        ToolCreateElement,
			Title:       "Create Document Element",
			Description: "Create a new element (page, header, text block, color block, embed, etc.) in a BrandCloud document. Use this to add content to documents.",
			schema:      schemaFor[brandcloud.CreateElementParams](),
			tune:        elementTune,
		},
		{
			Name:        ToolUpdateElement,
			Title:       "Update Document Element",
			Description: "Update an existing element (page, header, text block, color block, embed, etc.) in a BrandCloud document.",
			Idempotent:  true,
			schema:      schemaFor[brandcloud.UpdateElementParams](),
			tune:        func(s *jsonschema.Schema) { setEnum(s, "type", brandcloud.ElementTypes) },
		},
		{
			Name:        ToolDeleteElement,
			Title:       "Delete Document Element",
			Description: "Delete an element from a BrandCloud document revision.",
			Destructive: true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.DeleteElementParams](),
		},
		{
			Name:        ToolListFiles,
			Title:       "List BrandCloud Files",
			Description: "List files in BrandCloud storage with optional search and sorting. Returns file metadata including size, type, and upload date.",
			ReadOnly:    true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.ListFilesParams](),
			tune: func(s *jsonschema.Schema) {
				setDefault(s, "limit", 100)
				setDefault(s, "offset", 0)
				setEnum(s, "order", brandcloud.FileOrders)
				setDefault(s, "order", "uploaded")
				setEnum(s, "dir", brandcloud.SortDirections)
				setDefault(s, "dir", "desc")
			},
		},
		{
			Name:        ToolSearch,
			Title:       "Search BrandCloud",
			Description: "Search across all BrandCloud content including folders, documents, and files. Returns matching items with breadcrumbs and previews.",
			ReadOnly:    true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.SearchParams](),
		},
		{
			Name:        ToolGetFileImage,
			Title:       "View BrandCloud Image",
			Description: "Download and view an image file from BrandCloud. Returns the image directly as base64-encoded content for immediate viewing. Useful for viewing logos, photos, brand colors, typography examples, and other visual brand assets.",
			ReadOnly:    true,
			Idempotent:  true,
			schema:      schemaFor[brandcloud.GetFileImageParams](),
			tune: func(s *jsonschema.Schema) {
				setEnum(s, "size", brandcloud.FileSizes)
				setDefault(s, "size", brandcloud.SizeMedium)
				setDefault(s, "saveToWorkspace", false)
			},
		},
	}
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (ToolSpec, bool) {
	for _, t := range Catalog() {
		if t.Name == name {
			return t, true
		}
	}
	return ToolSpec{}, false
}
