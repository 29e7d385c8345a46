package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/Bigsy/brandcloud-mcp/internal/brandcloud"
	"github.com/Bigsy/brandcloud-mcp/internal/credential"
)

// ErrDomainRequired is returned when neither the call nor the config names
// a tenant.
var ErrDomainRequired = errors.New("domain is required: pass the domain argument or set BRANDCLOUD_DOMAIN")

// registrars maps each tool to the function that binds its handler.
var registrars = map[string]func(*Server, *mcp.Tool){
	ToolCreateDocument:  operation[brandcloud.CreateDocumentParams],
	ToolUpdateDocument:  operation[brandcloud.UpdateDocumentParams],
	ToolDeleteDocuments: operation[brandcloud.DeleteDocumentsParams],
	ToolListDocuments:   operation[brandcloud.ListDocumentsParams],
	ToolGetDocument:     operation[brandcloud.GetDocumentParams],
	ToolPublishRevision: operation[brandcloud.PublishRevisionParams],
	ToolCreateFolder:    operation[brandcloud.CreateFolderParams],
	ToolUpdateFolder:    operation[brandcloud.UpdateFolderParams],
	ToolDeleteFolders:   operation[brandcloud.DeleteFoldersParams],
	ToolListFolders:     operation[brandcloud.ListFoldersParams],
	ToolCreateElement:   operation[brandcloud.CreateElementParams],
	ToolUpdateElement:   operation[brandcloud.UpdateElementParams],
	ToolDeleteElement:   operation[brandcloud.DeleteElementParams],
	ToolListFiles:       operation[brandcloud.ListFilesParams],
	ToolSearch:          operation[brandcloud.SearchParams],
	ToolGetFileImage:    (*Server).addFileImage,
}

// operation registers a tool that performs one request and returns the
// upstream JSON as pretty-printed text.
func operation[P brandcloud.Operation](s *Server, tool *mcp.Tool) {
	name := tool.Name
	mcp.AddTool(s.mcp, tool, func(ctx context.Context, req *mcp.CallToolRequest, in P) (*mcp.CallToolResult, any, error) {
		var out json.RawMessage
		err := s.invoke(ctx, name, req, in.TenantDomain(), func(ctx context.Context, t brandcloud.Tenant) error {
			var err error
			out, err = s.client.Call(ctx, name, t, in)
			return err
		})
		if err != nil {
			return nil, nil, err
		}
		text, err := indentJSON(out)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil, nil
	})
}

func (s *Server) addFileImage(tool *mcp.Tool) {
	name := tool.Name
	mcp.AddTool(s.mcp, tool, func(ctx context.Context, req *mcp.CallToolRequest, in brandcloud.GetFileImageParams) (*mcp.CallToolResult, any, error) {
		var file *brandcloud.DownloadedFile
		err := s.invoke(ctx, name, req, in.TenantDomain(), func(ctx context.Context, t brandcloud.Tenant) error {
			fr, err := in.FileRequest()
			if err != nil {
				return err
			}
			file, err = s.client.RetrieveFile(ctx, t, fr)
			return err
		})
		if err != nil {
			return nil, nil, err
		}
		summary, err := file.Summary()
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{Content: []mcp.Content{
			&mcp.ImageContent{Data: file.Data, MIMEType: file.MIMEType},
			&mcp.TextContent{Text: string(summary)},
		}}, nil, nil
	})
}

// invoke resolves the tenant for one call, runs it and records the outcome.
func (s *Server) invoke(ctx context.Context, tool string, req *mcp.CallToolRequest, domain string, call func(context.Context, brandcloud.Tenant) error) error {
	start := time.Now()
	if domain == "" {
		domain = s.cfg.Domain
	}
	logger := s.logger.With(
		zap.String("tool", tool),
		zap.String("invocation_id", uuid.NewString()),
		zap.String("domain", domain))

	var err error
	if domain == "" {
		err = ErrDomainRequired
	} else if err = brandcloud.ValidateDomain(domain); err == nil {
		tc := transportContext(req)
		t := brandcloud.Tenant{Domain: domain, APIKey: s.resolver.Resolve(tc)}
		if t.APIKey == "" {
			logger.Debug("no api key for call", zap.Bool("request_bound", tc != nil))
		}
		err = call(ctx, t)
	}
	s.metrics.RecordToolCall(tool, err)

	elapsed := time.Since(start)
	if err != nil {
		logger.Warn("tool call failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return err
	}
	logger.Info("tool call", zap.Duration("elapsed", elapsed))
	return nil
}

// transportContext is nil for stdio sessions, which carry no HTTP headers.
func transportContext(req *mcp.CallToolRequest) *credential.TransportContext {
	if req == nil || req.Extra == nil || req.Extra.Header == nil {
		return nil
	}
	return credential.FromHeader(req.Extra.Header)
}

func indentJSON(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
