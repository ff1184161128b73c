package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/config"
	"golang.org/x/time/rate"
)

// MaxResults caps every lookup.
const MaxResults = 5

var ErrLookupFailed = errors.New("place lookup failed")

type Query struct {
	Name      string
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// Place is a lookup hit normalized to what the vendor tracker stores.
type Place struct {
	Name    string
	Address string
	Phone   string
	Website string
	Type    string
}

// Client queries an Overpass interpreter for named places around a point.
type Client struct {
	apiURL  string
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

func New(cfg *config.Config) *Client {
	timeout := cfg.PlacesTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	rps := cfg.PlacesRPS
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		apiURL:  cfg.PlacesAPIURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		timeout: timeout,
	}
}

type overpassResponse struct {
	Elements []struct {
		Type string            `json:"type"`
		ID   int64             `json:"id"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// Search is bounded by the configured timeout, including time spent waiting on the limiter.
func (c *Client) Search(ctx context.Context, q Query) ([]Place, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	form := url.Values{"data": {BuildQuery(q)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrLookupFailed, resp.StatusCode, string(body))
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	result := make([]Place, 0, MaxResults)
	for _, el := range parsed.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		result = append(result, Place{
			Name:    name,
			Address: Address(el.Tags),
			Phone:   firstTag(el.Tags, "phone", "contact:phone"),
			Website: firstTag(el.Tags, "website", "contact:website", "url"),
			Type:    firstTag(el.Tags, "shop", "craft", "amenity", "office", "tourism", "leisure"),
		})
		if len(result) == MaxResults {
			break
		}
	}
	return result, nil
}

// BuildQuery renders the Overpass QL for a case-insensitive name match within the radius.
func BuildQuery(q Query) string {
	radius := int(q.RadiusKm * 1000)
	pattern := regexp.QuoteMeta(strings.TrimSpace(q.Name))
	pattern = strings.ReplaceAll(pattern, `\`, `\\`)
	pattern = strings.ReplaceAll(pattern, `"`, `\"`)
	around := fmt.Sprintf("(around:%d,%f,%f)", radius, q.Latitude, q.Longitude)

	return fmt.Sprintf(`[out:json][timeout:25];
(
  node["name"~"%[1]s",i]%[2]s;
  way["name"~"%[1]s",i]%[2]s;
  relation["name"~"%[1]s",i]%[2]s;
);
out tags center %[3]d;`, pattern, around, MaxResults)
}

// Address joins the addr:* components that are present: "12 Main St, Austin, TX 78701".
func Address(tags map[string]string) string {
	street := strings.TrimSpace(strings.Join(nonEmpty(tags["addr:housenumber"], tags["addr:street"]), " "))
	region := strings.TrimSpace(strings.Join(nonEmpty(tags["addr:state"], tags["addr:postcode"]), " "))
	return strings.Join(nonEmpty(street, tags["addr:city"], region), ", ")
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return ""
}
