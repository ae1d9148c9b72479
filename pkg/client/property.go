package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"nestbook/pkg/model"
)

type PropertyClient struct {
	httpClient *HttpClient
}

func NewPropertyClient(baseURL string) *PropertyClient {
	return &PropertyClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *PropertyClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/properties", body)
}

func (c *PropertyClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/properties/id/" + url.PathEscape(id))
}

func (c *PropertyClient) GetAll(limit int, offset int64) (*Response, error) {
	return c.httpClient.GET(fmt.Sprintf("/api/v1/properties?limit=%d&offset=%d", limit, offset))
}

func (c *PropertyClient) Update(id string, body any) (*Response, error) {
	return c.httpClient.PATCH("/api/v1/properties/id/"+url.PathEscape(id), body)
}

func (c *PropertyClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE("/api/v1/properties/id/" + url.PathEscape(id))
}

func (c *PropertyClient) Nearby(lat, lng, radiusKm float64, limit int) (*Response, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lng", fmt.Sprintf("%f", lng))
	q.Set("radius_km", fmt.Sprintf("%f", radiusKm))
	q.Set("limit", fmt.Sprintf("%d", limit))
	return c.httpClient.GET("/api/v1/properties/nearby?" + q.Encode())
}

func (c *PropertyClient) Archive(id string, status string) (*Response, error) {
	body := map[string]string{"status": status}
	return c.httpClient.POST("/api/v1/archives/property/"+url.PathEscape(id), body)
}

func (c *PropertyClient) GetArchive(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/archives/id/" + url.PathEscape(id))
}

func (c *PropertyClient) Restore(id string) (*Response, error) {
	return c.httpClient.POST("/api/v1/archives/id/"+url.PathEscape(id)+"/restore", map[string]any{})
}

// SetRestoreWindow restarts the archive's restore window as of the
// given instant; the service derives the deadline from its retention
// window.
func (c *PropertyClient) SetRestoreWindow(id string, asOf time.Time) (*Response, error) {
	body := map[string]string{"as_of": asOf.Format(time.RFC3339)}
	return c.httpClient.PATCH("/api/v1/archives/id/"+url.PathEscape(id)+"/window", body)
}

func (c *PropertyClient) DecodeArchive(resp *Response) (*model.ArchiveRecord, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode archive wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var record model.ArchiveRecord
	if err := json.Unmarshal(wrapper.Data, &record); err != nil {
		return nil, fmt.Errorf("could not decode archive json:\n%+v\n%s", resp.ToString(), err)
	}

	return &record, nil
}

// ExpireArchives triggers the archive expiry sweep on the properties
// service. asOf parameterizes time so re-runs are idempotent.
func (c *PropertyClient) ExpireArchives(asOf time.Time) (*Response, error) {
	body := map[string]string{"as_of": asOf.Format(time.RFC3339)}
	return c.httpClient.POST("/api/v1/archives/sweep/expire", body)
}

func (c *PropertyClient) DecodeProperty(resp *Response) (*model.Property, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode property wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var property model.Property
	if err := json.Unmarshal(wrapper.Data, &property); err != nil {
		return nil, fmt.Errorf("could not decode property json:\n%+v\n%s", resp.ToString(), err)
	}

	return &property, nil
}

func (c *PropertyClient) DecodeProperties(resp *Response) ([]*model.Property, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var properties []*model.Property
	if err := json.Unmarshal(wrapper.Data, &properties); err != nil {
		return nil, nil, fmt.Errorf("could not decode property list:\n%+v\n%s", resp.ToString(), err)
	}

	return properties, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
