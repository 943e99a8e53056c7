package form

import (
	"strings"

	"github.com/vbonduro/cmsadmin/internal/domain"
)

// JobPostingDraft is the editable form state of a job posting.
type JobPostingDraft struct {
	Title           string    `json:"title"`
	Department      string    `json:"department"`
	Location        string    `json:"location"`
	JobType         string    `json:"jobType"`
	ExperienceLevel string    `json:"experienceLevel"`
	Description     string    `json:"description"`
	Requirements    ListField `json:"requirements"`
	Benefits        ListField `json:"benefits"`
	Skills          ListField `json:"skills"`
	IsActive        bool      `json:"isActive"`
	IsHot           bool      `json:"isHot"`
}

func NewJobPostingDraft() *JobPostingDraft {
	return &JobPostingDraft{
		JobType:      "full-time",
		Requirements: NewListField(nil),
		Benefits:     NewListField(nil),
		Skills:       NewListField(nil),
		IsActive:     true,
	}
}

func JobPostingDraftFrom(job domain.JobPosting) *JobPostingDraft {
	return &JobPostingDraft{
		Title:           job.Title,
		Department:      job.Department,
		Location:        job.Location,
		JobType:         job.JobType,
		ExperienceLevel: job.ExperienceLevel,
		Description:     job.Description,
		Requirements:    NewListField(job.Requirements),
		Benefits:        NewListField(job.Benefits),
		Skills:          NewListField(job.Skills),
		IsActive:        job.IsActive,
		IsHot:           job.IsHot,
	}
}

// JobPostingPayload is the cleaned body of POST and PUT /careers.
type JobPostingPayload struct {
	Title           string   `json:"title" validate:"required"`
	Department      string   `json:"department" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	JobType         string   `json:"jobType" validate:"required"`
	ExperienceLevel *string  `json:"experienceLevel"`
	Description     string   `json:"description" validate:"required"`
	Requirements    []string `json:"requirements"`
	Benefits        []string `json:"benefits"`
	Skills          []string `json:"skills"`
	IsActive        bool     `json:"isActive"`
	IsHot           bool     `json:"isHot"`
}

func (d *JobPostingDraft) Payload() JobPostingPayload {
	return JobPostingPayload{
		Title:           strings.TrimSpace(d.Title),
		Department:      strings.TrimSpace(d.Department),
		Location:        strings.TrimSpace(d.Location),
		JobType:         strings.TrimSpace(d.JobType),
		ExperienceLevel: Optional(d.ExperienceLevel),
		Description:     strings.TrimSpace(d.Description),
		Requirements:    d.Requirements.Clean(),
		Benefits:        d.Benefits.Clean(),
		Skills:          d.Skills.Clean(),
		IsActive:        d.IsActive,
		IsHot:           d.IsHot,
	}
}

func (d *JobPostingDraft) Validate() error {
	p := d.Payload()
	return check(&p)
}

// LeadershipDraft is the editable form state of a leadership member. The
// social links are flat fields here and one object in the payload.
type LeadershipDraft struct {
	Name      string              `json:"name"`
	Position  string              `json:"position"`
	Bio       string              `json:"bio"`
	ImageURL  string              `json:"imageUrl"`
	Status    domain.MemberStatus `json:"status"`
	SortOrder int                 `json:"sortOrder"`
	LinkedIn  string              `json:"linkedin"`
	Website   string              `json:"website"`
	Email     string              `json:"email"`
}

// NewLeadershipDraft starts an active member placed after the existing ones.
func NewLeadershipDraft(sortOrder int) *LeadershipDraft {
	return &LeadershipDraft{Status: domain.MemberActive, SortOrder: sortOrder}
}

func LeadershipDraftFrom(m domain.LeadershipMember) *LeadershipDraft {
	d := &LeadershipDraft{
		Name:      m.Name,
		Position:  m.Position,
		Bio:       m.Bio,
		ImageURL:  m.ImageURL,
		Status:    m.Status,
		SortOrder: m.SortOrder,
	}
	if d.Status == "" {
		d.Status = domain.MemberActive
	}
	if m.Social != nil {
		d.LinkedIn = m.Social.LinkedIn
		d.Website = m.Social.Website
		d.Email = m.Social.Email
	}
	return d
}

type SocialPayload struct {
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// LeadershipPayload is the cleaned body of POST and PUT /leadership. Social is
// null when all three links are blank.
type LeadershipPayload struct {
	Name      string              `json:"name" validate:"required"`
	Position  string              `json:"position" validate:"required"`
	Bio       *string             `json:"bio"`
	ImageURL  *string             `json:"imageUrl"`
	Status    domain.MemberStatus `json:"status" validate:"required"`
	SortOrder int                 `json:"sortOrder"`
	Social    *SocialPayload      `json:"social"`
}

func (d *LeadershipDraft) Payload() LeadershipPayload {
	p := LeadershipPayload{
		Name:      strings.TrimSpace(d.Name),
		Position:  strings.TrimSpace(d.Position),
		Bio:       Optional(d.Bio),
		ImageURL:  Optional(d.ImageURL),
		Status:    d.Status,
		SortOrder: d.SortOrder,
	}
	social := SocialPayload{
		LinkedIn: strings.TrimSpace(d.LinkedIn),
		Website:  strings.TrimSpace(d.Website),
		Email:    strings.TrimSpace(d.Email),
	}
	if social != (SocialPayload{}) {
		p.Social = &social
	}
	return p
}

func (d *LeadershipDraft) Validate() error {
	p := d.Payload()
	return check(&p)
}
