// Package stripe wraps the Stripe payments API as dispatchable tools.
// Requires STRIPE_SECRET_KEY.
package stripe

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

const (
	serverName     = "stripe"
	defaultBaseURL = "https://api.stripe.com/v1"
)

var invoker = tool.NewInvoker()

// Module returns the stripe server module.
func Module() tool.Module {
	return tool.Module{
		Manifest: Manifest(),
		Handlers: map[string]tool.Func{
			"listCustomers":     listCustomers,
			"listProducts":      listProducts,
			"createPaymentLink": createPaymentLink,
		},
	}
}

// Manifest describes the stripe tools for the registry builder.
func Manifest() registry.ServerManifest {
	return registry.ServerManifest{
		Name:        serverName,
		Description: "Stripe payments API tools for customers, products and payment links",
		Version:     "1.0.1",
		APIBaseURL:  defaultBaseURL,
		Tools: []registry.ToolDefinition{
			{
				Name:        "list-customers",
				MCPName:     "stripe_list-customers",
				APIEndpoint: "/customers",
				Description: "List Stripe customers, newest first",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"limit": {Type: "integer", Description: "Maximum customers to return", Default: 10},
						"email": {Type: "string", Description: "Filter by exact email"},
					},
				},
				Tags: []string{"payments", "customers"},
			},
			{
				Name:        "list-products",
				MCPName:     "stripe_list-products",
				APIEndpoint: "/products",
				Description: "List products in the Stripe catalog",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"limit":  {Type: "integer", Description: "Maximum products to return", Default: 10},
						"active": {Type: "boolean", Description: "Only active products"},
					},
				},
				Tags: []string{"payments", "products", "catalog"},
			},
			{
				Name:        "create-payment-link",
				MCPName:     "stripe_create-payment-link",
				APIEndpoint: "/payment_links",
				Description: "Create a shareable payment link for a price",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"priceId":  {Type: "string", Description: "Price identifier (price_...)"},
						"quantity": {Type: "integer", Description: "Line item quantity", Default: 1},
					},
					Required: []string{"priceId"},
				},
				Tags: []string{"payments", "links"},
				Examples: []registry.ToolExample{
					{
						Description: "Create a link selling one unit of a price",
						Input:       map[string]any{"priceId": "price_1N0abc", "quantity": 1},
					},
				},
			},
		},
	}
}

func baseURL() string {
	if v := os.Getenv("STRIPE_API_BASE_URL"); v != "" {
		return v
	}
	return defaultBaseURL
}

func headers() (map[string]string, error) {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY must be set")
	}
	return map[string]string{"Authorization": "Bearer " + key}, nil
}

func listCustomers(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	hdrs, err := headers()
	if err != nil {
		return tool.Failure(serverName, "list-customers", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", tool.OptionalInt(input, "limit", 10)))
	if email := tool.OptionalString(input, "email", ""); email != "" {
		params.Set("email", email)
	}

	resp, err := invoker.CallJSON(ctx, "GET", baseURL()+"/customers?"+params.Encode(), hdrs, nil)
	if err != nil {
		return tool.Failure(serverName, "list-customers", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("list-customers", resp, start), nil
	}
	return tool.Success(serverName, "list-customers", tool.ExecutionAPI, resp.Body, time.Since(start)), nil
}

func listProducts(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	hdrs, err := headers()
	if err != nil {
		return tool.Failure(serverName, "list-products", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", tool.OptionalInt(input, "limit", 10)))
	if active, ok := input["active"].(bool); ok {
		params.Set("active", fmt.Sprintf("%t", active))
	}

	resp, err := invoker.CallJSON(ctx, "GET", baseURL()+"/products?"+params.Encode(), hdrs, nil)
	if err != nil {
		return tool.Failure(serverName, "list-products", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("list-products", resp, start), nil
	}
	return tool.Success(serverName, "list-products", tool.ExecutionAPI, resp.Body, time.Since(start)), nil
}

func createPaymentLink(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	priceID, ok := tool.StringArg(input, "priceId")
	if !ok {
		return tool.Failure(serverName, "create-payment-link", tool.ExecutionAPI,
			tool.CodeValidationError, "priceId is required and must be a string", nil, time.Since(start)), nil
	}

	hdrs, err := headers()
	if err != nil {
		return tool.Failure(serverName, "create-payment-link", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	form := url.Values{}
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", fmt.Sprintf("%d", tool.OptionalInt(input, "quantity", 1)))

	resp, err := invoker.CallForm(ctx, baseURL()+"/payment_links", hdrs, form.Encode())
	if err != nil {
		return tool.Failure(serverName, "create-payment-link", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("create-payment-link", resp, start), nil
	}
	return tool.Success(serverName, "create-payment-link", tool.ExecutionAPI, resp.Body, time.Since(start)), nil
}

func apiFailure(toolName string, resp *tool.APIResponse, start time.Time) *tool.Result {
	return tool.Failure(serverName, toolName, tool.ExecutionAPI, tool.CodeAPIError,
		fmt.Sprintf("stripe returned status %d", resp.StatusCode),
		resp.Body, time.Since(start))
}
