package brandcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"go.uber.org/zap"
)

// FileSize selects a rendition of a stored file.
type FileSize string

const (
	SizeOriginal FileSize = "original"
	SizeMedium   FileSize = "medium"
	SizeSmall    FileSize = "small"
)

// FileSizes lists the accepted renditions.
var FileSizes = []FileSize{SizeOriginal, SizeMedium, SizeSmall}

// ParseFileSize validates s; an empty string selects SizeMedium.
func ParseFileSize(s string) (FileSize, error) {
	if s == "" {
		return SizeMedium, nil
	}
	for _, size := range FileSizes {
		if string(size) == s {
			return size, nil
		}
	}
	return "", fmt.Errorf("invalid size %q: must be one of original, medium, small", s)
}

const defaultExt = "jpg"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9.-]`)

// SanitizeFileName replaces every character outside [A-Za-z0-9.-] with '_'.
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// usableFileName reports whether name can stand as a file name once
// sanitized. "", "." and ".." would resolve to a directory.
func usableFileName(name string) bool {
	switch SanitizeFileName(name) {
	case "", ".", "..":
		return false
	}
	return true
}

// FileMetadata is the subset of the file resource used for downloads.
type FileMetadata struct {
	Name       string
	Ext        string
	Type       json.RawMessage
	Resolution map[string]json.RawMessage
}

// parseFileMetadata reads the metadata leniently: an error body or a
// non-object response yields empty metadata and the defaults apply.
func parseFileMetadata(raw json.RawMessage) FileMetadata {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return FileMetadata{}
	}

	var md FileMetadata
	_ = json.Unmarshal(fields["name"], &md.Name)
	_ = json.Unmarshal(fields["ext"], &md.Ext)
	if t, ok := fields["type"]; ok && string(t) != "null" {
		md.Type = t
	}
	_ = json.Unmarshal(fields["resolution"], &md.Resolution)
	return md
}

// resolutionFor returns the resolution of the requested size, or of the
// original when the size is missing.
func (m FileMetadata) resolutionFor(size FileSize) json.RawMessage {
	if r, ok := m.Resolution[string(size)]; ok && string(r) != "null" {
		return r
	}
	if r, ok := m.Resolution[string(SizeOriginal)]; ok && string(r) != "null" {
		return r
	}
	return nil
}

// FileRequest asks for one file to be downloaded.
type FileRequest struct {
	FileID          int64
	Size            FileSize
	SaveToWorkspace bool
}

// DownloadedFile is the record of a persisted download.
type DownloadedFile struct {
	FileID       int64
	FileName     string
	SafeFileName string
	Path         string
	Size         FileSize
	Type         json.RawMessage
	Ext          string
	MIMEType     string
	Resolution   json.RawMessage
	DownloadURL  string
	MirroredTo   string
	Data         []byte
}

type fileSummary struct {
	FileID      int64           `json:"fileId"`
	FileName    string          `json:"fileName"`
	SavedAs     string          `json:"savedAs"`
	Path        string          `json:"path"`
	Size        FileSize        `json:"size"`
	SizeBytes   int             `json:"sizeBytes"`
	Type        json.RawMessage `json:"type,omitempty"`
	Ext         string          `json:"ext"`
	Resolution  json.RawMessage `json:"resolution,omitempty"`
	DownloadURL string          `json:"downloadUrl"`
	MirroredTo  string          `json:"mirroredTo,omitempty"`
	Message     string          `json:"message"`
}

// Summary renders the text half of the tool result.
func (f *DownloadedFile) Summary() ([]byte, error) {
	return json.MarshalIndent(fileSummary{
		FileID:      f.FileID,
		FileName:    f.FileName,
		SavedAs:     f.SafeFileName,
		Path:        f.Path,
		Size:        f.Size,
		SizeBytes:   len(f.Data),
		Type:        f.Type,
		Ext:         f.Ext,
		Resolution:  f.Resolution,
		DownloadURL: f.DownloadURL,
		MirroredTo:  f.MirroredTo,
		Message:     "Image retrieved successfully from BrandCloud",
	}, "", "  ")
}

func fileMetadataRequest(fileID int64) *Request {
	return &Request{
		Method: http.MethodGet,
		Path:   []string{"file", Segment(fileID)},
	}
}

func fileDownloadRequest(fileID int64, size FileSize) *Request {
	q := NewQuery()
	if size != SizeOriginal {
		q.Add("size", string(size))
	}
	return &Request{
		Method: http.MethodGet,
		Path:   []string{"file", Segment(fileID), "download"},
		Query:  q,
	}
}

// RetrieveFile fetches a file's metadata, downloads the requested rendition,
// writes it to disk and returns the record. The two calls always run in
// that order; a non-success download status fails the retrieval.
func (c *Client) RetrieveFile(ctx context.Context, t Tenant, r FileRequest) (*DownloadedFile, error) {
	if r.Size == "" {
		r.Size = SizeMedium
	}

	raw, err := c.Do(ctx, "get-file-metadata", t, fileMetadataRequest(r.FileID))
	if err != nil {
		return nil, err
	}
	md := parseFileMetadata(raw)

	dl := fileDownloadRequest(r.FileID, r.Size)
	downloadURL := dl.URL(c.BaseURL(t.Domain), t.APIKey)

	resp, err := c.send(ctx, "download-file", dl, downloadURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DownloadError{FileID: r.FileID, StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "download-file", Method: dl.Method, URL: redactURL(downloadURL), StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	c.observer.AddDownloadedBytes(len(data))

	ext := md.Ext
	if ext == "" {
		ext = defaultExt
	}
	name := md.Name
	if !usableFileName(name) {
		name = fmt.Sprintf("file-%d.%s", r.FileID, ext)
	}
	safe := SanitizeFileName(name)

	dir, err := c.files.Dir(r.SaveToWorkspace)
	if err != nil {
		return nil, err
	}
	path, err := c.files.Write(dir, safe, data)
	if err != nil {
		return nil, err
	}

	file := &DownloadedFile{
		FileID:       r.FileID,
		FileName:     name,
		SafeFileName: safe,
		Path:         path,
		Size:         r.Size,
		Type:         md.Type,
		Ext:          ext,
		MIMEType:     "image/" + ext,
		Resolution:   md.resolutionFor(r.Size),
		DownloadURL:  downloadURL,
		Data:         data,
	}

	if c.mirror != nil {
		loc, err := c.mirror.Put(ctx, t.Domain+"/"+safe, data, file.MIMEType)
		if err != nil {
			return nil, err
		}
		file.MirroredTo = loc
	}

	c.logger.Info("file retrieved",
		zap.Int64("file_id", r.FileID),
		zap.String("size", string(r.Size)),
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return file, nil
}

// ListFilesParams filters the file library.
type ListFilesParams struct {
	Domain string `json:"domain,omitempty" jsonschema:"BrandCloud instance domain name"`
	Query  string `json:"query,omitempty" jsonschema:"Search text in files"`
	Limit  *int64 `json:"limit,omitempty" jsonschema:"Number of items to return"`
	Offset *int64 `json:"offset,omitempty" jsonschema:"Number of items to skip"`
	Order  string `json:"order,omitempty" jsonschema:"Order by column"`
	Dir    string `json:"dir,omitempty" jsonschema:"Order direction"`
}

// FileOrders and SortDirections list the accepted list-files values.
var (
	FileOrders     = []string{"uploaded", "name", "size"}
	SortDirections = []string{"asc", "desc"}
)

func (p ListFilesParams) TenantDomain() string { return p.Domain }

// Request builds GET file?q=&limit=&offset=&order=&dir=.
func (p ListFilesParams) Request(FieldPolicy) (*Request, error) {
	limit := int64(100)
	if p.Limit != nil {
		limit = *p.Limit
	}
	var offset int64
	if p.Offset != nil {
		offset = *p.Offset
	}
	order, err := oneOf("order", p.Order, "uploaded", FileOrders)
	if err != nil {
		return nil, err
	}
	dir, err := oneOf("dir", p.Dir, "desc", SortDirections)
	if err != nil {
		return nil, err
	}

	q := NewQuery().
		AddOptional("q", p.Query).
		AddInt("limit", limit).
		AddInt("offset", offset).
		Add("order", order).
		Add("dir", dir)
	return &Request{Method: http.MethodGet, Path: []string{"file"}, Query: q}, nil
}

// oneOf returns value, or def when value is empty, checking membership.
func oneOf(field, value, def string, allowed []string) (string, error) {
	if value == "" {
		return def, nil
	}
	for _, a := range allowed {
		if a == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q: must be one of %v", field, value, allowed)
}
