package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vbonduro/cmsadmin/internal/domain"
)

func readRows(t *testing.T, data []byte) (string, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return sheet, rows
}

func TestWriteApplications(t *testing.T) {
	four := 4
	apps := []domain.JobApplication{
		{
			FirstName: "Ravi", LastName: "Kumar", Email: "ravi@example.com",
			Job:    domain.JobSummary{Title: "Welder"},
			Status: domain.StatusInterviewScheduled, Priority: domain.PriorityHigh, Rating: &four,
			CreatedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		},
		{FirstName: "Meera", Email: "meera@example.com", Status: domain.StatusPending, Priority: domain.PriorityLow},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Applications", ApplicationColumns(), apps))

	sheet, rows := readRows(t, buf.Bytes())
	assert.Equal(t, "Applications", sheet)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Applicant", "Email", "Phone", "Position", "Status", "Priority", "Rating", "Applied"}, rows[0])
	assert.Equal(t, []string{"Ravi Kumar", "ravi@example.com", "", "Welder", "Interview Scheduled", "High", "4", "2026-03-02 09:30"}, rows[1])
	assert.Equal(t, "Meera", rows[2][0])
	assert.Equal(t, "Pending", rows[2][4])
}

func TestWriteInquiriesResolvedColumn(t *testing.T) {
	resolved := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	inquiries := []domain.DealershipInquiry{
		{CompanyName: "Acme Tractors", Status: domain.InquiryResolved, Priority: domain.InquiryPriorityUrgent, ResolvedAt: &resolved},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Inquiries", InquiryColumns(), inquiries))

	_, rows := readRows(t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme Tractors", rows[1][0])
	assert.Equal(t, "Resolved", rows[1][6])
	assert.Equal(t, "Urgent", rows[1][7])
	assert.Equal(t, "2026-05-01 12:00", rows[1][9])
}

func TestWriteEmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Inquiries", InquiryColumns(), nil))

	_, rows := readRows(t, buf.Bytes())
	require.Len(t, rows, 1)
	assert.Equal(t, "Company", rows[0][0])
}
