package domain

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Records from the server may carry enum values this client does not know.
// They decode to the type's Unknown variant instead of failing the whole page.
const (
	StatusUnknown          ApplicationStatus = "unknown"
	PriorityUnknown        Priority          = "unknown"
	InquiryStatusUnknown   InquiryStatus     = "unknown"
	InquiryPriorityUnknown InquiryPriority   = "unknown"
	MemberStatusUnknown    MemberStatus      = "unknown"
)

// ApplicationStatus is the hiring stage of an application. Stages are ordered
// for display only; any transition is allowed.
type ApplicationStatus string

const (
	StatusPending            ApplicationStatus = "pending"
	StatusReviewing          ApplicationStatus = "reviewing"
	StatusShortlisted        ApplicationStatus = "shortlisted"
	StatusInterviewScheduled ApplicationStatus = "interview-scheduled"
	StatusInterviewed        ApplicationStatus = "interviewed"
	StatusOffered            ApplicationStatus = "offered"
	StatusHired              ApplicationStatus = "hired"
	StatusRejected           ApplicationStatus = "rejected"
)

func AllApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusPending, StatusReviewing, StatusShortlisted, StatusInterviewScheduled,
		StatusInterviewed, StatusOffered, StatusHired, StatusRejected,
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

type InquiryStatus string

const (
	InquiryNew        InquiryStatus = "new"
	InquiryInProgress InquiryStatus = "in_progress"
	InquiryResolved   InquiryStatus = "resolved"
	InquiryClosed     InquiryStatus = "closed"
)

func AllInquiryStatuses() []InquiryStatus {
	return []InquiryStatus{InquiryNew, InquiryInProgress, InquiryResolved, InquiryClosed}
}

type InquiryPriority string

const (
	InquiryPriorityLow    InquiryPriority = "low"
	InquiryPriorityMedium InquiryPriority = "medium"
	InquiryPriorityHigh   InquiryPriority = "high"
	InquiryPriorityUrgent InquiryPriority = "urgent"
)

func AllInquiryPriorities() []InquiryPriority {
	return []InquiryPriority{InquiryPriorityLow, InquiryPriorityMedium, InquiryPriorityHigh, InquiryPriorityUrgent}
}

type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberArchived MemberStatus = "archived"
)

func AllMemberStatuses() []MemberStatus {
	return []MemberStatus{MemberActive, MemberArchived}
}

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
	MediaFile     MediaType = "file"
)

func AllMediaTypes() []MediaType {
	return []MediaType{MediaImage, MediaVideo, MediaAudio, MediaDocument, MediaFile}
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	return parseEnum("application status", s, AllApplicationStatuses())
}

func ParsePriority(s string) (Priority, error) {
	return parseEnum("priority", s, AllPriorities())
}

func ParseInquiryStatus(s string) (InquiryStatus, error) {
	return parseEnum("inquiry status", s, AllInquiryStatuses())
}

func ParseInquiryPriority(s string) (InquiryPriority, error) {
	return parseEnum("inquiry priority", s, AllInquiryPriorities())
}

func ParseMemberStatus(s string) (MemberStatus, error) {
	return parseEnum("member status", s, AllMemberStatuses())
}

func ParseMediaType(s string) (MediaType, error) {
	return parseEnum("media type", s, AllMediaTypes())
}

func (s *ApplicationStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseApplicationStatus, StatusUnknown)
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, ParsePriority, PriorityUnknown)
}

func (s *InquiryStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseInquiryStatus, InquiryStatusUnknown)
}

func (p *InquiryPriority) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, ParseInquiryPriority, InquiryPriorityUnknown)
}

func (s *MemberStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseMemberStatus, MemberStatusUnknown)
}

func parseEnum[E ~string](kind, s string, all []E) (E, error) {
	for _, v := range all {
		if string(v) == s {
			return v, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}

// unmarshalEnum decodes a JSON string into dst. An empty string or null leaves
// dst at its zero value so optional fields decode cleanly. A value parse does
// not recognise becomes unknown.
func unmarshalEnum[E ~string](data []byte, dst *E, parse func(string) (E, error), unknown E) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*dst = ""
		return nil
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("unrecognised enum value decoded as unknown", "error", err)
		*dst = unknown
		return nil
	}
	*dst = v
	return nil
}
