// Package saleor implements the catalog gateway against a Saleor GraphQL
// endpoint. It owns every wire detail: pagination, the JWT header scheme,
// and Saleor's habit of reporting duplicate listings as mutation errors
// rather than a distinct status, which this package converts into typed
// conflict errors so callers never match on message strings.
package saleor

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/errors"
	"github.com/quaylabs/shopsync/pkg/gateway"
	"github.com/quaylabs/shopsync/pkg/logging"
)

const (
	// DefaultPageSize is the product page size used when fetching the
	// full catalog.
	DefaultPageSize = 100

	// DefaultHTTPTimeout bounds a single GraphQL round trip.
	DefaultHTTPTimeout = 30 * time.Second
)

// Client talks to one Saleor instance. It implements gateway.Gateway.
type Client struct {
	endpoint string
	http     *http.Client
	token    string
	pageSize int
	logger   *zerolog.Logger
}

// Verify interface compliance.
var _ gateway.Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithToken sets a pre-issued API token, skipping Authenticate.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithPageSize sets the catalog fetch page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Saleor gateway client for the given GraphQL endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultHTTPTimeout},
		pageSize: DefaultPageSize,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate exchanges credentials for a JWT and stores it on the client.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	var resp struct {
		TokenCreate struct {
			Token  string     `json:"token"`
			Errors []gqlError `json:"errors"`
		} `json:"tokenCreate"`
	}
	if err := c.do(ctx, tokenCreateMutation, map[string]any{
		"email":    email,
		"password": password,
	}, &resp); err != nil {
		return &errors.AuthenticationError{Endpoint: c.endpoint, Message: "token request failed", Err: err}
	}
	if len(resp.TokenCreate.Errors) > 0 {
		return &errors.AuthenticationError{
			Endpoint: c.endpoint,
			Message:  joinGQLErrors(resp.TokenCreate.Errors),
		}
	}
	if resp.TokenCreate.Token == "" {
		return &errors.AuthenticationError{Endpoint: c.endpoint, Message: "empty token in response"}
	}

	c.token = resp.TokenCreate.Token
	c.logger.Debug().Str("endpoint", c.endpoint).Msg("authenticated")
	return nil
}

// FetchCatalog pages through every product and maps the result to the
// catalog model. Keys are reported as the backend stores them; callers
// normalize case.
func (c *Client) FetchCatalog(ctx context.Context) ([]catalog.Entity, error) {
	var entities []catalog.Entity
	var after *string

	for {
		var resp struct {
			Products struct {
				Edges []struct {
					Node   productNode `json:"node"`
					Cursor string      `json:"cursor"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"products"`
		}

		variables := map[string]any{"first": c.pageSize, "after": after}
		if err := c.do(ctx, productsQuery, variables, &resp); err != nil {
			return nil, err
		}

		for _, edge := range resp.Products.Edges {
			entities = append(entities, edge.Node.toEntity())
		}
		if !resp.Products.PageInfo.HasNextPage {
			break
		}
		cursor := resp.Products.PageInfo.EndCursor
		after = &cursor
	}

	c.logger.Debug().Int("entities", len(entities)).Msg("catalog fetched")
	return entities, nil
}

// FindEntityByKey looks up a single product by slug, exact match. The slug
// comparison is case-sensitive on the Saleor side.
func (c *Client) FindEntityByKey(ctx context.Context, key string) (*catalog.Entity, error) {
	var resp struct {
		Product *productNode `json:"product"`
	}
	if err := c.do(ctx, productBySlugQuery, map[string]any{"slug": key}, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, errors.NewNotFoundError("product", key)
	}

	entity := resp.Product.toEntity()
	return &entity, nil
}

// ListChannels returns every sales channel.
func (c *Client) ListChannels(ctx context.Context) ([]catalog.Channel, error) {
	var resp struct {
		Channels []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"channels"`
	}
	if err := c.do(ctx, channelsQuery, nil, &resp); err != nil {
		return nil, err
	}

	channels := make([]catalog.Channel, 0, len(resp.Channels))
	for _, ch := range resp.Channels {
		channels = append(channels, catalog.Channel{
			ID:   catalog.ChannelID(ch.ID),
			Name: ch.Name,
			Key:  ch.Slug,
		})
	}
	return channels, nil
}

// ChannelExists checks whether a channel identifier is still valid.
func (c *Client) ChannelExists(ctx context.Context, id catalog.ChannelID) (bool, error) {
	if id == "" {
		return false, nil
	}
	var resp struct {
		Channel *struct {
			ID string `json:"id"`
		} `json:"channel"`
	}
	if err := c.do(ctx, channelByIDQuery, map[string]any{"id": string(id)}, &resp); err != nil {
		return false, err
	}
	return resp.Channel != nil, nil
}

// CreateVariant creates a new variant under the given product. The variant
// carries no attributes; name falls back to the SKU when blank.
func (c *Client) CreateVariant(ctx context.Context, entityID catalog.EntityID, variantKey, name string) (catalog.VariantID, error) {
	if name == "" {
		name = variantKey
	}

	var resp struct {
		ProductVariantCreate struct {
			ProductVariant *struct {
				ID  string `json:"id"`
				SKU string `json:"sku"`
			} `json:"productVariant"`
			Errors []gqlError `json:"errors"`
		} `json:"productVariantCreate"`
	}
	err := c.do(ctx, variantCreateMutation, map[string]any{
		"productId": string(entityID),
		"sku":       variantKey,
		"name":      name,
	}, &resp)
	if err != nil {
		return "", err
	}
	if errs := resp.ProductVariantCreate.Errors; len(errs) > 0 {
		return "", mutationError("create variant", errs)
	}
	if resp.ProductVariantCreate.ProductVariant == nil {
		return "", &errors.GatewayError{Operation: "create variant", Message: "no variant in response"}
	}
	return catalog.VariantID(resp.ProductVariantCreate.ProductVariant.ID), nil
}

// PublishEntityToChannel publishes the product into the channel. A conflict
// error means the listing already exists.
func (c *Client) PublishEntityToChannel(ctx context.Context, entityID catalog.EntityID, channelID catalog.ChannelID) error {
	var resp struct {
		ProductChannelListingUpdate struct {
			Product *struct {
				ID string `json:"id"`
			} `json:"product"`
			Errors []gqlError `json:"errors"`
		} `json:"productChannelListingUpdate"`
	}
	err := c.do(ctx, publishMutation, map[string]any{
		"productId": string(entityID),
		"input": map[string]any{
			"updateChannels": []map[string]any{
				{"channelId": string(channelID), "isPublished": true},
			},
		},
	}, &resp)
	if err != nil {
		return err
	}
	if errs := resp.ProductChannelListingUpdate.Errors; len(errs) > 0 {
		return mutationError("publish", errs)
	}
	return nil
}

// SetVariantChannelPrice sets the variant's price in the channel. priceText
// must already be validated and formatted with two decimals.
func (c *Client) SetVariantChannelPrice(ctx context.Context, variantID catalog.VariantID, channelID catalog.ChannelID, priceText string) error {
	var resp struct {
		ProductVariantChannelListingUpdate struct {
			Errors []gqlError `json:"errors"`
		} `json:"productVariantChannelListingUpdate"`
	}
	err := c.do(ctx, priceUpdateMutation, map[string]any{
		"id": string(variantID),
		"input": []map[string]any{
			{"channelId": string(channelID), "price": priceText},
		},
	}, &resp)
	if err != nil {
		return err
	}
	if errs := resp.ProductVariantChannelListingUpdate.Errors; len(errs) > 0 {
		return mutationError("set price", errs)
	}
	return nil
}

// productNode is the wire shape of a product with its variants and listings.
type productNode struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Variants []struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		SKU             string `json:"sku"`
		ChannelListings []struct {
			Channel struct {
				ID   string `json:"id"`
				Name string `json:"name"`
				Slug string `json:"slug"`
			} `json:"channel"`
			Price *struct {
				Amount   float64 `json:"amount"`
				Currency string  `json:"currency"`
			} `json:"price"`
		} `json:"channelListings"`
	} `json:"variants"`
}

func (n productNode) toEntity() catalog.Entity {
	entity := catalog.Entity{
		ID:   catalog.EntityID(n.ID),
		Key:  n.Slug,
		Name: n.Name,
	}
	for _, v := range n.Variants {
		variant := catalog.Variant{
			ID:   catalog.VariantID(v.ID),
			Key:  v.SKU,
			Name: v.Name,
		}
		for _, cl := range v.ChannelListings {
			listing := catalog.Listing{
				Channel: catalog.Channel{
					ID:   catalog.ChannelID(cl.Channel.ID),
					Name: cl.Channel.Name,
					Key:  cl.Channel.Slug,
				},
			}
			if cl.Price != nil {
				listing.Price = catalog.Money{
					Amount:   decimal.NewFromFloat(cl.Price.Amount),
					Currency: cl.Price.Currency,
				}
			}
			variant.Listings = append(variant.Listings, listing)
		}
		entity.Variants = append(entity.Variants, variant)
	}
	return entity
}
