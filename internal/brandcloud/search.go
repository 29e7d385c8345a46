package brandcloud

import (
	"errors"
	"net/http"
)

// SearchParams runs a full-text search across a tenant.
type SearchParams struct {
	Domain string `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	Query  string `json:"query" jsonschema:"Search query text"`
}

func (p SearchParams) TenantDomain() string { return p.Domain }

// Request builds GET search/{query}; the query is path-escaped.
func (p SearchParams) Request(FieldPolicy) (*Request, error) {
	if p.Query == "" {
		return nil, errors.New("query must not be empty")
	}
	return &Request{Method: http.MethodGet, Path: []string{"search", p.Query}}, nil
}

// GetFileImageParams is the input of the image retrieval tool.
type GetFileImageParams struct {
	Domain          string `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	FileID          int64  `json:"fileId" jsonschema:"The ID of the file/image to retrieve"`
	Size            string `json:"size,omitempty" jsonschema:"Image size variant to retrieve"`
	SaveToWorkspace bool   `json:"saveToWorkspace,omitempty" jsonschema:"Save to the workspace downloads folder instead of the system temp directory"`
}

func (p GetFileImageParams) TenantDomain() string { return p.Domain }

// FileRequest validates the size and returns the retrieval request.
func (p GetFileImageParams) FileRequest() (FileRequest, error) {
	size, err := ParseFileSize(p.Size)
	if err != nil {
		return FileRequest{}, err
	}
	return FileRequest{FileID: p.FileID, Size: size, SaveToWorkspace: p.SaveToWorkspace}, nil
}
