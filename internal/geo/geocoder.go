package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"favorx_backend/internal/logger"
)

// Geocoder resolves a free-text place name to coordinates. A failed or empty
// resolution returns (nil, nil): callers degrade to "no location filter"
// instead of erroring.
type Geocoder interface {
	Resolve(ctx context.Context, text string) (*Point, error)
}

type httpGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGeocoder builds a Geocoder against an OpenCage-compatible endpoint.
func NewHTTPGeocoder(baseURL, apiKey string, timeout time.Duration) Geocoder {
	return &httpGeocoder{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *httpGeocoder) Resolve(ctx context.Context, text string) (*Point, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("key", g.apiKey)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		logger.CtxWarn(ctx, "geocoding request build failed", "error", err.Error())
		return nil, nil
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logger.CtxWarn(ctx, "geocoding request failed", "error", err.Error())
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.CtxWarn(ctx, "geocoding returned non-200", "status", resp.StatusCode)
		return nil, nil
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.CtxWarn(ctx, "geocoding response decode failed", "error", err.Error())
		return nil, nil
	}

	if len(body.Results) == 0 {
		return nil, nil
	}

	return &Point{
		Latitude:  body.Results[0].Geometry.Lat,
		Longitude: body.Results[0].Geometry.Lng,
	}, nil
}
