package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"nestbook/pkg/model"
)

type AlertClient struct {
	httpClient *HttpClient
}

func NewAlertClient(baseURL string) *AlertClient {
	return &AlertClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *AlertClient) Inbox(receiver string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("receiver", receiver)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET("/api/v1/alerts?" + q.Encode())
}

func (c *AlertClient) MarkRead(id string) (*Response, error) {
	return c.httpClient.POST("/api/v1/alerts/id/"+url.PathEscape(id)+"/read", nil)
}

func (c *AlertClient) DecodeAlerts(resp *Response) ([]*model.Alert, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var alerts []*model.Alert
	if err := json.Unmarshal(wrapper.Data, &alerts); err != nil {
		return nil, nil, fmt.Errorf("could not decode alert list:\n%+v\n%s", resp.ToString(), err)
	}

	return alerts, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
