package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"nestbook/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings", body)
}

func (c *BookingClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/bookings/id/" + url.PathEscape(id))
}

func (c *BookingClient) Search(propertyID string, activeOnly bool, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("property_id", propertyID)
	if activeOnly {
		q.Set("active", "true")
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET("/api/v1/bookings/search?" + q.Encode())
}

func (c *BookingClient) Availability(propertyID string, start, end time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("property_id", propertyID)
	q.Set("start_date", start.Format(time.RFC3339))
	q.Set("end_date", end.Format(time.RFC3339))
	return c.httpClient.GET("/api/v1/availability?" + q.Encode())
}

func (c *BookingClient) Invite(bookingID, actor string, tenantIDs []string) (*Response, error) {
	body := map[string]any{"tenant_ids": tenantIDs}
	return c.httpClient.POSTAs("/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/invite", actor, body)
}

func (c *BookingClient) Respond(bookingID, actor string, accept bool) (*Response, error) {
	body := map[string]any{"accept": accept}
	return c.httpClient.POSTAs("/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/respond", actor, body)
}

func (c *BookingClient) RespondByToken(token string, accept bool) (*Response, error) {
	body := map[string]any{"token": token, "accept": accept}
	return c.httpClient.POST("/api/v1/bookings/respond/token", body)
}

func (c *BookingClient) ApproveViewing(bookingID, actor string, viewingDate *time.Time) (*Response, error) {
	body := map[string]any{}
	if viewingDate != nil {
		body["viewing_date"] = viewingDate.Format(time.RFC3339)
	}
	return c.httpClient.POSTAs("/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/viewing", actor, body)
}

func (c *BookingClient) ApproveBooking(bookingID, actor string) (*Response, error) {
	return c.httpClient.POSTAs("/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/approve", actor, map[string]any{})
}

func (c *BookingClient) Evict(bookingID, actor string, tenantIDs []string) (*Response, error) {
	body := map[string]any{"tenant_ids": tenantIDs}
	return c.httpClient.POSTAs("/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/evict", actor, body)
}

func (c *BookingClient) Decline(bookingID, actor string) (*Response, error) {
	return c.httpClient.POSTAs("/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/decline", actor, map[string]any{})
}

// CompleteSweep moves confirmed bookings whose stay has fully elapsed
// to completed. asOf parameterizes time so re-runs are idempotent.
func (c *BookingClient) CompleteSweep(asOf time.Time) (*Response, error) {
	body := map[string]string{"as_of": asOf.Format(time.RFC3339)}
	return c.httpClient.POST("/api/v1/bookings/sweep/complete", body)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}

	return &booking, nil
}

func (c *BookingClient) DecodeConflictReport(resp *Response) (*model.ConflictReport, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var report model.ConflictReport
	if err := json.Unmarshal(wrapper.Data, &report); err != nil {
		return nil, fmt.Errorf("could not decode availability json:\n%+v\n%s", resp.ToString(), err)
	}

	return &report, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list:\n%+v\n%s", resp.ToString(), err)
	}

	return bookings, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
