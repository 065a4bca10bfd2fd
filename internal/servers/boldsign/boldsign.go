// Package boldsign wraps the BoldSign e-signature API as dispatchable tools.
// Auth is either an API key (BOLDSIGN_API_KEY) or OAuth2 client credentials
// (BOLDSIGN_CLIENT_ID / BOLDSIGN_CLIENT_SECRET).
package boldsign

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

const (
	serverName = "boldsign"

	defaultBaseURL = "https://api.boldsign.com"
	tokenURL       = "https://account.boldsign.com/connect/token"
)

var invoker = tool.NewInvoker()

// Module returns the boldsign server module.
func Module() tool.Module {
	return tool.Module{
		Manifest: Manifest(),
		Handlers: map[string]tool.Func{
			"listDocuments":       listDocuments,
			"sendReminder":        sendReminder,
			"getEmbeddedSignLink": getEmbeddedSignLink,
		},
	}
}

// Manifest describes the boldsign tools for the registry builder.
func Manifest() registry.ServerManifest {
	return registry.ServerManifest{
		Name:        serverName,
		Description: "BoldSign e-signature document management tools",
		Version:     "1.1.0",
		APIBaseURL:  defaultBaseURL,
		Tools: []registry.ToolDefinition{
			{
				Name:        "list-documents",
				MCPName:     "boldsign_list-documents",
				APIEndpoint: "/v1/document/list",
				Description: "List e-signature documents with paging",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"page":     {Type: "integer", Description: "Page number", Default: 1},
						"pageSize": {Type: "integer", Description: "Documents per page", Default: 10},
					},
				},
				Tags: []string{"esignature", "documents"},
			},
			{
				Name:        "send-reminder",
				MCPName:     "boldsign_send-reminder",
				APIEndpoint: "/v1/document/remind",
				Description: "Send a signing reminder to pending signers of a document",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"documentId": {Type: "string", Description: "Document to remind signers about"},
						"message":    {Type: "string", Description: "Optional reminder message"},
					},
					Required: []string{"documentId"},
				},
				Tags: []string{"esignature", "reminder"},
			},
			{
				Name:        "get-embedded-sign-link",
				MCPName:     "boldsign_get-embedded-sign-link",
				APIEndpoint: "/v1/document/getEmbeddedSignLink",
				Description: "Get an embeddable signing URL for a signer of a document",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"documentId":  {Type: "string", Description: "Document identifier"},
						"signerEmail": {Type: "string", Description: "Signer email address"},
						"redirectUrl": {Type: "string", Description: "URL to redirect to after signing"},
					},
					Required: []string{"documentId", "signerEmail"},
				},
				Tags: []string{"esignature", "embedded", "signing"},
				Examples: []registry.ToolExample{
					{
						Description: "Get a sign link for a contract signer",
						Input:       map[string]any{"documentId": "doc-123", "signerEmail": "signer@example.com"},
					},
				},
			},
		},
	}
}

func baseURL() string {
	if v := os.Getenv("BOLDSIGN_API_BASE_URL"); v != "" {
		return v
	}
	return defaultBaseURL
}

// authHeaders resolves credentials. An API key wins; otherwise OAuth2 client
// credentials fetch a bearer token.
func authHeaders(ctx context.Context) (map[string]string, error) {
	if key := os.Getenv("BOLDSIGN_API_KEY"); key != "" {
		return map[string]string{"X-API-KEY": key}, nil
	}

	id := os.Getenv("BOLDSIGN_CLIENT_ID")
	secret := os.Getenv("BOLDSIGN_CLIENT_SECRET")
	if id == "" || secret == "" {
		return nil, fmt.Errorf("set BOLDSIGN_API_KEY, or BOLDSIGN_CLIENT_ID and BOLDSIGN_CLIENT_SECRET")
	}

	cfg := clientcredentials.Config{
		ClientID:     id,
		ClientSecret: secret,
		TokenURL:     tokenURL,
		Scopes:       []string{"BoldSign.Api.All"},
	}
	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("oauth token request failed: %w", err)
	}
	return map[string]string{"Authorization": "Bearer " + token.AccessToken}, nil
}

func listDocuments(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	headers, err := authHeaders(ctx)
	if err != nil {
		return tool.Failure(serverName, "list-documents", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	endpoint := fmt.Sprintf("%s/v1/document/list?Page=%d&PageSize=%d",
		baseURL(),
		tool.OptionalInt(input, "page", 1),
		tool.OptionalInt(input, "pageSize", 10))

	resp, err := invoker.CallJSON(ctx, "GET", endpoint, headers, nil)
	if err != nil {
		return tool.Failure(serverName, "list-documents", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("list-documents", resp, start), nil
	}
	return tool.Success(serverName, "list-documents", tool.ExecutionAPI, resp.Body, time.Since(start)), nil
}

func sendReminder(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	docID, ok := tool.StringArg(input, "documentId")
	if !ok {
		return tool.Failure(serverName, "send-reminder", tool.ExecutionAPI,
			tool.CodeValidationError, "documentId is required and must be a string", nil, time.Since(start)), nil
	}

	headers, err := authHeaders(ctx)
	if err != nil {
		return tool.Failure(serverName, "send-reminder", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	var body any
	if msg := tool.OptionalString(input, "message", ""); msg != "" {
		body = map[string]any{"message": msg}
	}

	endpoint := fmt.Sprintf("%s/v1/document/remind?documentId=%s", baseURL(), url.QueryEscape(docID))
	resp, err := invoker.CallJSON(ctx, "POST", endpoint, headers, body)
	if err != nil {
		return tool.Failure(serverName, "send-reminder", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("send-reminder", resp, start), nil
	}
	return tool.Success(serverName, "send-reminder", tool.ExecutionAPI,
		map[string]any{"documentId": docID, "reminded": true}, time.Since(start)), nil
}

func getEmbeddedSignLink(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	docID, okDoc := tool.StringArg(input, "documentId")
	email, okEmail := tool.StringArg(input, "signerEmail")
	if !okDoc || !okEmail {
		return tool.Failure(serverName, "get-embedded-sign-link", tool.ExecutionAPI,
			tool.CodeValidationError, "documentId and signerEmail are required", nil, time.Since(start)), nil
	}

	headers, err := authHeaders(ctx)
	if err != nil {
		return tool.Failure(serverName, "get-embedded-sign-link", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	params := url.Values{}
	params.Set("documentId", docID)
	params.Set("signerEmail", email)
	if redirect := tool.OptionalString(input, "redirectUrl", ""); redirect != "" {
		params.Set("redirectUrl", redirect)
	}

	endpoint := fmt.Sprintf("%s/v1/document/getEmbeddedSignLink?%s", baseURL(), params.Encode())
	resp, err := invoker.CallJSON(ctx, "GET", endpoint, headers, nil)
	if err != nil {
		return tool.Failure(serverName, "get-embedded-sign-link", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("get-embedded-sign-link", resp, start), nil
	}
	return tool.Success(serverName, "get-embedded-sign-link", tool.ExecutionAPI, resp.Body, time.Since(start)), nil
}

func apiFailure(toolName string, resp *tool.APIResponse, start time.Time) *tool.Result {
	return tool.Failure(serverName, toolName, tool.ExecutionAPI, tool.CodeAPIError,
		fmt.Sprintf("boldsign returned status %d", resp.StatusCode),
		resp.Body, time.Since(start))
}
