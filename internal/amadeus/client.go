// Package amadeus talks to the third-party hotel API: the OAuth2
// client-credentials token endpoint, the hotels-by-geocode search and the
// multi-hotel offer search.  The token cache in this package shares one
// bearer token across all calls.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client issues HTTP requests against one Amadeus environment.  The host
// selects sandbox vs production and comes from configuration.
type Client struct {
	host         string
	clientID     string
	clientSecret string
	httpc        *http.Client
	verbose      bool
}

// NewClient builds a Client for the given host and credentials.  The auth
// call carries a 10 second timeout; search calls rely on transport
// defaults bounded by the request context.
func NewClient(host, clientID, clientSecret string, verbose bool) *Client {
	return &Client{
		host:         host,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpc:        &http.Client{Timeout: 10 * time.Second},
		verbose:      verbose,
	}
}

// baseURL normalizes the configured host.  Plain hostnames get https; a
// host carrying an explicit scheme is used as-is (tests point this at a
// local server).
func (c *Client) baseURL() string {
	if strings.Contains(c.host, "://") {
		return strings.TrimSuffix(c.host, "/")
	}
	return "https://" + c.host
}

// Grant is the provider's token response.
type Grant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// FetchToken performs the client-credentials grant.  Any failure is a hard
// error for the caller; there is no retry or fallback token.
func (c *Client) FetchToken(ctx context.Context) (Grant, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	endpoint := c.baseURL() + "/v1/security/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Grant{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Grant{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Grant{}, fmt.Errorf("token request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var g Grant
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return Grant{}, fmt.Errorf("token response: %w", err)
	}
	if g.AccessToken == "" {
		return Grant{}, fmt.Errorf("token response: empty access_token")
	}
	if c.verbose {
		log.Printf("amadeus: obtained token, expires_in=%ds", g.ExpiresIn)
	}
	return g, nil
}

// GeocodeParams are the inputs for a hotels-by-geocode search.
type GeocodeParams struct {
	Lat      float64
	Lng      float64
	RadiusKM int
	Ratings  []string // optional star ratings, e.g. "3","4","5"
	Source   string   // optional hotelSource filter
}

// GeoHotel is one entry of the provider's by-geocode result.
type GeoHotel struct {
	Name    string `json:"name"`
	HotelID string `json:"hotelId"`
	GeoCode struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"geoCode"`
	Address struct {
		CountryCode string `json:"countryCode"`
	} `json:"address"`
	Distance struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	} `json:"distance"`
}

// HotelsByGeocode performs the geocode search with the given bearer token.
func (c *Client) HotelsByGeocode(ctx context.Context, token string, p GeocodeParams) ([]GeoHotel, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	if p.RadiusKM > 0 {
		q.Set("radius", strconv.Itoa(p.RadiusKM))
		q.Set("radiusUnit", "KM")
	}
	if len(p.Ratings) > 0 {
		q.Set("ratings", strings.Join(p.Ratings, ","))
	}
	if p.Source != "" {
		q.Set("hotelSource", p.Source)
	}

	var out struct {
		Data []GeoHotel `json:"data"`
	}
	if err := c.getJSON(ctx, token, "/v1/reference-data/locations/hotels/by-geocode", q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// OfferParams are the inputs for a multi-hotel offer search.
type OfferParams struct {
	HotelIDs     []string
	CheckIn      string // YYYY-MM-DD
	CheckOut     string // YYYY-MM-DD
	Adults       int
	RoomQuantity int
	PriceRange   string // e.g. "100-300", provider syntax
	Currency     string
	BoardType    string
	BestRateOnly bool
}

// HotelOffers returns the provider's offer objects without reshaping; the
// frontend consumes them as-is.
func (c *Client) HotelOffers(ctx context.Context, token string, p OfferParams) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("hotelIds", strings.Join(p.HotelIDs, ","))
	if p.CheckIn != "" {
		q.Set("checkInDate", p.CheckIn)
	}
	if p.CheckOut != "" {
		q.Set("checkOutDate", p.CheckOut)
	}
	if p.Adults > 0 {
		q.Set("adults", strconv.Itoa(p.Adults))
	}
	if p.RoomQuantity > 0 {
		q.Set("roomQuantity", strconv.Itoa(p.RoomQuantity))
	}
	if p.PriceRange != "" {
		q.Set("priceRange", p.PriceRange)
		if p.Currency != "" {
			q.Set("currency", p.Currency)
		}
	}
	if p.BoardType != "" {
		q.Set("boardType", p.BoardType)
	}
	if p.BestRateOnly {
		q.Set("bestRateOnly", "true")
	}

	var out struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := c.getJSON(ctx, token, "/v3/shopping/hotel-offers", q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// getJSON issues an authorized GET and decodes the body into dst.
func (c *Client) getJSON(ctx context.Context, token, path string, q url.Values, dst any) error {
	endpoint := c.baseURL() + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
