package saleor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/quaylabs/shopsync/pkg/errors"
)

// GraphQL documents. Kept as raw strings so the wire traffic is greppable.
const (
	tokenCreateMutation = `
mutation($email: String!, $password: String!) {
  tokenCreate(email: $email, password: $password) {
    token
    errors { field message }
  }
}`

	productsQuery = `
query($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      node {
        id
        slug
        name
        variants {
          id
          name
          sku
          channelListings {
            channel { id name slug }
            price { amount currency }
          }
        }
      }
      cursor
    }
    pageInfo { hasNextPage endCursor }
  }
}`

	productBySlugQuery = `
query($slug: String!) {
  product(slug: $slug) { id slug name }
}`

	channelsQuery = `
query {
  channels { id name slug }
}`

	channelByIDQuery = `
query($id: ID!) {
  channel(id: $id) { id }
}`

	variantCreateMutation = `
mutation($productId: ID!, $sku: String!, $name: String) {
  productVariantCreate(input: {
    product: $productId
    sku: $sku
    name: $name
    attributes: []
  }) {
    productVariant { id sku }
    errors { field message code }
  }
}`

	publishMutation = `
mutation($productId: ID!, $input: ProductChannelListingUpdateInput!) {
  productChannelListingUpdate(id: $productId, input: $input) {
    product { id }
    errors { field message code }
  }
}`

	priceUpdateMutation = `
mutation($id: ID!, $input: [ProductVariantChannelListingAddInput!]!) {
  productVariantChannelListingUpdate(id: $id, input: $input) {
    errors { field message }
  }
}`
)

// gqlError is one entry of a mutation's errors list.
type gqlError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// envelope is the standard GraphQL response wrapper.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do executes one GraphQL request and unmarshals the data payload into
// target. Transport failures, non-200 statuses, and top-level GraphQL
// errors all surface as typed gateway errors.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, target any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return errors.WrapGateway("encode request", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapGateway("build request", 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "JWT "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapGateway("request", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapGateway("read response", resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &errors.AuthenticationError{
			Endpoint: c.endpoint,
			Message:  "HTTP " + resp.Status + ": " + strings.TrimSpace(string(body)),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &errors.GatewayError{
			Operation:  "decode response",
			StatusCode: resp.StatusCode,
			Message:    "non-JSON response: " + strings.TrimSpace(string(body)),
			Err:        err,
		}
	}

	if len(env.Errors) > 0 && env.Data == nil {
		return &errors.GatewayError{
			Operation:  "graphql",
			StatusCode: resp.StatusCode,
			Message:    joinGQLErrors(env.Errors),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return &errors.GatewayError{
			Operation:  "graphql",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if target != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return errors.WrapParse("json", "graphql data", err)
		}
	}
	return nil
}

// conflictKeywords mark mutation errors that mean the resource already
// exists. Saleor reports duplicate channel listings this way instead of
// using a distinct error code.
var conflictKeywords = []string{"already", "exists", "duplicate"}

// mutationError converts a mutation's errors list into a typed error. When
// every entry matches a conflict keyword the whole failure is a conflict;
// any other entry makes it a plain gateway error.
func mutationError(operation string, errs []gqlError) error {
	message := joinGQLErrors(errs)

	conflict := true
	for _, e := range errs {
		lower := strings.ToLower(e.Message)
		matched := false
		for _, keyword := range conflictKeywords {
			if strings.Contains(lower, keyword) {
				matched = true
				break
			}
		}
		if !matched {
			conflict = false
			break
		}
	}
	if conflict {
		return &errors.ConflictError{Operation: operation, Message: message}
	}
	return &errors.GatewayError{Operation: operation, Message: message}
}

// joinGQLErrors flattens an errors list into one line.
func joinGQLErrors(errs []gqlError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		part := e.Message
		if e.Field != "" {
			part = e.Field + ": " + part
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}
