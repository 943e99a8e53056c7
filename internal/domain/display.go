package domain

import "fmt"

// Color is a named badge color understood by the console renderer.
type Color string

const (
	ColorGray   Color = "gray"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorIndigo Color = "indigo"
	ColorTeal   Color = "teal"
	ColorOrange Color = "orange"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
)

// Display is the label and badge color for an enum value.
type Display struct {
	Label string
	Color Color
}

// unset describes the zero value, which is what a record decodes to when the
// server omits the field.
var unset = Display{"Unset", ColorGray}

// unknown describes a value the server sent that this client does not know.
var unknown = Display{"Unknown", ColorGray}

// Every Display method switches over all variants. Values only enter the
// program through Parse or UnmarshalJSON, which map anything unrecognised to
// the Unknown variant, so reaching the panic means a variant was added
// without a descriptor.

func (s ApplicationStatus) Display() Display {
	switch s {
	case StatusPending:
		return Display{"Pending", ColorYellow}
	case StatusReviewing:
		return Display{"Reviewing", ColorBlue}
	case StatusShortlisted:
		return Display{"Shortlisted", ColorPurple}
	case StatusInterviewScheduled:
		return Display{"Interview Scheduled", ColorIndigo}
	case StatusInterviewed:
		return Display{"Interviewed", ColorTeal}
	case StatusOffered:
		return Display{"Offered", ColorOrange}
	case StatusHired:
		return Display{"Hired", ColorGreen}
	case StatusRejected:
		return Display{"Rejected", ColorRed}
	case StatusUnknown:
		return unknown
	case "":
		return unset
	}
	panic(fmt.Sprintf("domain: no display for application status %q", string(s)))
}

func (p Priority) Display() Display {
	switch p {
	case PriorityLow:
		return Display{"Low", ColorGray}
	case PriorityMedium:
		return Display{"Medium", ColorYellow}
	case PriorityHigh:
		return Display{"High", ColorRed}
	case PriorityUnknown:
		return unknown
	case "":
		return unset
	}
	panic(fmt.Sprintf("domain: no display for priority %q", string(p)))
}

func (s InquiryStatus) Display() Display {
	switch s {
	case InquiryNew:
		return Display{"New", ColorBlue}
	case InquiryInProgress:
		return Display{"In Progress", ColorYellow}
	case InquiryResolved:
		return Display{"Resolved", ColorGreen}
	case InquiryClosed:
		return Display{"Closed", ColorGray}
	case InquiryStatusUnknown:
		return unknown
	case "":
		return unset
	}
	panic(fmt.Sprintf("domain: no display for inquiry status %q", string(s)))
}

func (p InquiryPriority) Display() Display {
	switch p {
	case InquiryPriorityLow:
		return Display{"Low", ColorGray}
	case InquiryPriorityMedium:
		return Display{"Medium", ColorBlue}
	case InquiryPriorityHigh:
		return Display{"High", ColorOrange}
	case InquiryPriorityUrgent:
		return Display{"Urgent", ColorRed}
	case InquiryPriorityUnknown:
		return unknown
	case "":
		return unset
	}
	panic(fmt.Sprintf("domain: no display for inquiry priority %q", string(p)))
}

func (s MemberStatus) Display() Display {
	switch s {
	case MemberActive:
		return Display{"Active", ColorGreen}
	case MemberArchived:
		return Display{"Archived", ColorGray}
	case MemberStatusUnknown:
		return unknown
	case "":
		return unset
	}
	panic(fmt.Sprintf("domain: no display for member status %q", string(s)))
}

func (m MediaType) Display() Display {
	switch m {
	case MediaImage:
		return Display{"Image", ColorBlue}
	case MediaVideo:
		return Display{"Video", ColorPurple}
	case MediaAudio:
		return Display{"Audio", ColorTeal}
	case MediaDocument:
		return Display{"Document", ColorOrange}
	case MediaFile:
		return Display{"File", ColorGray}
	case "":
		return unset
	}
	panic(fmt.Sprintf("domain: no display for media type %q", string(m)))
}
