package domain

import "time"

// JobSummary is the posting reference embedded in an application.
type JobSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Department string `json:"department,omitempty"`
}

type Interview struct {
	ID          string     `json:"id,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Type        string     `json:"type,omitempty"`
	Interviewer string     `json:"interviewer,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `json:"status,omitempty"`
}

type JobApplication struct {
	ID          string            `json:"id"`
	Job         JobSummary        `json:"job"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone,omitempty"`
	ResumeURL   string            `json:"resumeUrl,omitempty"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	Priority    Priority          `json:"priority"`
	Rating      *int              `json:"rating,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Interviews  []Interview       `json:"interviews,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (a JobApplication) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

type JobPosting struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Department       string         `json:"department"`
	Location         string         `json:"location"`
	JobType          string         `json:"jobType"`
	ExperienceLevel  string         `json:"experienceLevel"`
	Description      string         `json:"description"`
	Requirements     []string       `json:"requirements"`
	Benefits         []string       `json:"benefits"`
	Skills           []string       `json:"skills"`
	IsActive         bool           `json:"isActive"`
	IsHot            bool           `json:"isHot"`
	ApplicationStats map[string]int `json:"applicationStats,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

type DealershipInquiry struct {
	ID              string          `json:"id"`
	CompanyName     string          `json:"companyName"`
	ContactName     string          `json:"contactName"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone,omitempty"`
	City            string          `json:"city,omitempty"`
	State           string          `json:"state,omitempty"`
	BusinessType    string          `json:"businessType,omitempty"`
	YearsInBusiness string          `json:"yearsInBusiness,omitempty"`
	Message         string          `json:"message,omitempty"`
	Status          InquiryStatus   `json:"status"`
	Priority        InquiryPriority `json:"priority"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Social holds the optional profile links of a leadership member.
type Social struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (s *Social) IsEmpty() bool {
	return s == nil || (s.LinkedIn == "" && s.Website == "" && s.Email == "")
}

type LeadershipMember struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Position  string       `json:"position"`
	Bio       string       `json:"bio,omitempty"`
	ImageURL  string       `json:"imageUrl,omitempty"`
	Status    MemberStatus `json:"status"`
	SortOrder int          `json:"sortOrder"`
	Social    *Social      `json:"social,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// MediaItem is a file in the media library. Type is whatever the server sent;
// Kind is the client-side classification derived from it.
type MediaItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Path      string    `json:"path,omitempty"`
	Type      string    `json:"type,omitempty"`
	MimeType  string    `json:"mimeType,omitempty"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	Kind      MediaType `json:"-"`
}

type ProductListItem struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	SKU       string    `json:"sku,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Key returns the identity used by the products list: id, or slug when the
// server omitted the id.
func (p ProductListItem) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Slug
}

type DashboardStats struct {
	TotalProducts     int `json:"totalProducts"`
	ActiveJobs        int `json:"activeJobs"`
	TotalApplications int `json:"totalApplications"`
	PendingInquiries  int `json:"pendingInquiries"`
	TotalUsers        int `json:"totalUsers"`
}

type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
