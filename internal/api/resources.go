package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vbonduro/cmsadmin/internal/domain"
)

func idPath(prefix, id string, suffix ...string) string {
	p := prefix + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// ApplicationUpdate is the body of PATCH /applications/{id}. Nil fields are
// left unchanged by the server.
type ApplicationUpdate struct {
	Status   *domain.ApplicationStatus `json:"status,omitempty"`
	Priority *domain.Priority          `json:"priority,omitempty"`
	Rating   *int                      `json:"rating,omitempty"`
	Notes    *string                   `json:"notes,omitempty"`
}

func (c *Client) ListApplications(ctx context.Context, p ListParams) (Page[domain.JobApplication], error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/applications", p.Values(), nil)
	if err != nil {
		return Page[domain.JobApplication]{}, err
	}
	return decodeList[domain.JobApplication](body, p.Page, "applications")
}

func (c *Client) UpdateApplication(ctx context.Context, id string, u ApplicationUpdate) (*domain.JobApplication, error) {
	body, err := c.doJSON(ctx, http.MethodPatch, idPath("/applications", id), nil, u)
	if err != nil {
		return nil, err
	}
	return decodeEntity[domain.JobApplication](body, "application")
}

func (c *Client) ListCareers(ctx context.Context, p ListParams) (Page[domain.JobPosting], error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/careers", p.Values(), nil)
	if err != nil {
		return Page[domain.JobPosting]{}, err
	}
	return decodeList[domain.JobPosting](body, p.Page, "careers", "jobs")
}

func (c *Client) GetCareer(ctx context.Context, id string) (*domain.JobPosting, error) {
	body, err := c.doJSON(ctx, http.MethodGet, idPath("/careers", id), nil, nil)
	if err != nil {
		return nil, err
	}
	job, err := decodeEntity[domain.JobPosting](body, "career")
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("career %s: response carried no posting", id)
	}
	return job, nil
}

// CreateCareer posts a job posting payload built by the editor.
func (c *Client) CreateCareer(ctx context.Context, payload any) (*domain.JobPosting, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/careers", nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeEntity[domain.JobPosting](body, "career")
}

// UpdateCareer sends a full or partial posting body to PUT /careers/{id}.
func (c *Client) UpdateCareer(ctx context.Context, id string, payload any) (*domain.JobPosting, error) {
	body, err := c.doJSON(ctx, http.MethodPut, idPath("/careers", id), nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeEntity[domain.JobPosting](body, "career")
}

func (c *Client) ToggleCareerActive(ctx context.Context, id string) (*domain.JobPosting, error) {
	body, err := c.doJSON(ctx, http.MethodPatch, idPath("/careers", id, "toggle-active"), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeEntity[domain.JobPosting](body, "career")
}

func (c *Client) DeleteCareer(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, idPath("/careers", id), nil, nil)
	return err
}

func (c *Client) ListInquiries(ctx context.Context, p ListParams) (Page[domain.DealershipInquiry], error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/dealership-inquiries", p.Values(), nil)
	if err != nil {
		return Page[domain.DealershipInquiry]{}, err
	}
	return decodeList[domain.DealershipInquiry](body, p.Page, "inquiries")
}

func (c *Client) UpdateInquiryStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.DealershipInquiry, error) {
	req := struct {
		Status domain.InquiryStatus `json:"status"`
	}{status}
	body, err := c.doJSON(ctx, http.MethodPatch, idPath("/dealership-inquiries", id, "status"), nil, req)
	if err != nil {
		return nil, err
	}
	return decodeEntity[domain.DealershipInquiry](body, "inquiry")
}

func (c *Client) DeleteInquiry(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, idPath("/dealership-inquiries", id), nil, nil)
	return err
}

func (c *Client) ListProducts(ctx context.Context, p ListParams) (Page[domain.ProductListItem], error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/products", p.Values(), nil)
	if err != nil {
		return Page[domain.ProductListItem]{}, err
	}
	return decodeList[domain.ProductListItem](body, p.Page, "products")
}

func (c *Client) ToggleProductActive(ctx context.Context, id string) (*domain.ProductListItem, error) {
	body, err := c.doJSON(ctx, http.MethodPatch, idPath("/products", id, "toggle-active"), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeEntity[domain.ProductListItem](body, "product")
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, idPath("/products", id), nil, nil)
	return err
}

// ListLeadership returns every member. The endpoint is not paged.
func (c *Client) ListLeadership(ctx context.Context) ([]domain.LeadershipMember, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/leadership", nil, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodeList[domain.LeadershipMember](body, 1, "leadership", "members")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) GetLeader(ctx context.Context, id string) (*domain.LeadershipMember, error) {
	body, err := c.doJSON(ctx, http.MethodGet, idPath("/leadership", id), nil, nil)
	if err != nil {
		return nil, err
	}
	m, err := decodeEntity[domain.LeadershipMember](body, "member")
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("leader %s: response carried no member", id)
	}
	return m, nil
}

func (c *Client) CreateLeader(ctx context.Context, payload any) (*domain.LeadershipMember, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/leadership", nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeEntity[domain.LeadershipMember](body, "member")
}

func (c *Client) UpdateLeader(ctx context.Context, id string, payload any) (*domain.LeadershipMember, error) {
	body, err := c.doJSON(ctx, http.MethodPut, idPath("/leadership", id), nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeEntity[domain.LeadershipMember](body, "member")
}

func (c *Client) DeleteLeader(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, idPath("/leadership", id), nil, nil)
	return err
}

// ReorderLeadership persists the full member order.
func (c *Client) ReorderLeadership(ctx context.Context, ids []string) error {
	req := struct {
		Order []string `json:"order"`
	}{ids}
	_, err := c.doJSON(ctx, http.MethodPut, "/leadership/reorder", nil, req)
	return err
}

func (c *Client) ListMedia(ctx context.Context, p ListParams) (Page[domain.MediaItem], error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/media", p.Values(), nil)
	if err != nil {
		return Page[domain.MediaItem]{}, err
	}
	page, err := decodeList[domain.MediaItem](body, p.Page, "media", "files")
	if err != nil {
		return page, err
	}
	for i := range page.Items {
		if page.Items[i].ID == "" {
			page.Items[i].ID = identityOf(page.Items[i])
		}
	}
	return page, nil
}

func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, idPath("/media", id), nil, nil)
	return err
}

// identityOf falls back to the storage path, then the URL, for media items the
// server lists without an id.
func identityOf(item domain.MediaItem) string {
	if item.Path != "" {
		return item.Path
	}
	return item.URL
}

func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	body, err := c.doJSON(ctx, http.MethodGet, "/dashboard/stats", nil, nil)
	if err != nil {
		return stats, err
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return stats, fmt.Errorf("failed to decode stats: %w", err)
	}
	raw := json.RawMessage(body)
	for _, key := range []string{"data", "stats"} {
		if inner, ok := env[key]; ok && len(inner) > 0 && inner[0] == '{' {
			raw = inner
			break
		}
	}
	if err := json.Unmarshal(raw, &stats); err != nil {
		return stats, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats, nil
}

func (c *Client) RecentInquiries(ctx context.Context, limit int) ([]domain.DealershipInquiry, error) {
	page, err := c.ListInquiries(ctx, ListParams{Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) RecentUsers(ctx context.Context, limit int) ([]domain.UserSummary, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/users", url.Values{"limit": {strconv.Itoa(limit)}}, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodeList[domain.UserSummary](body, 1, "users")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
