// Package maps resolves delivery addresses to coordinates with the Google
// Geocoding API.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/geo"
)

const (
	defaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultRegion   = "in"
	defaultTimeout  = 5 * time.Second
	errorBodyLimit  = 1 << 10
)

// Geocoding API statuses that are not transport failures.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

var errAPIKeyRequired = errors.New("google maps api key is required")

type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	region   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithEndpoint points the client at another geocode URL, e.g. a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithRegion biases results toward a ccTLD region ("in" unless set).
func WithRegion(region string) Option {
	return func(c *Client) {
		if region = strings.TrimSpace(region); region != "" {
			c.region = strings.ToLower(region)
		}
	}
}

// WithTimeout bounds a single lookup when the default HTTP client is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	c := &Client{
		http:     &http.Client{Timeout: defaultTimeout},
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		region:   defaultRegion,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Match is the top geocoding result for an address.
type Match struct {
	PlaceID          string
	FormattedAddress string
	Location         geo.Point
	// Approximate is true when Google only matched a locality or region.
	Approximate bool
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID          string `json:"place_id"`
		FormattedAddress string `json:"formatted_address"`
		PartialMatch     bool   `json:"partial_match"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode satisfies the order service's geocoder and returns only the point.
func (c *Client) Geocode(ctx context.Context, address string) (*geo.Point, error) {
	m, err := c.Lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	return &m.Location, nil
}

// Lookup geocodes address. No match yields NOT_FOUND; quota, key and
// transport problems yield DEPENDENCY_ERROR.
func (c *Client) Lookup(ctx context.Context, address string) (*Match, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	body, err := c.get(ctx, url.Values{
		"address": {address},
		"region":  {c.region},
		"key":     {c.apiKey},
	})
	if err != nil {
		return nil, err
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}
	switch parsed.Status {
	case statusOK:
	case statusZeroResults:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address could not be located")
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("geocode status %s: %s", parsed.Status, parsed.ErrorMessage), "geocode address")
	}
	if len(parsed.Results) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address could not be located")
	}

	top := parsed.Results[0]
	return &Match{
		PlaceID:          top.PlaceID,
		FormattedAddress: top.FormattedAddress,
		Location:         geo.Point{Lat: top.Geometry.Location.Lat, Lng: top.Geometry.Location.Lng},
		Approximate:      top.PartialMatch || top.Geometry.LocationType == "APPROXIMATE",
	}, nil
}

func (c *Client) get(ctx context.Context, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build geocode request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// the url carries the api key, so only the cause is kept
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call geocode api")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), "call geocode api")
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read geocode response")
	}
	return body, nil
}
