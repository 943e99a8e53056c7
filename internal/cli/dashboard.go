package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vbonduro/cmsadmin/internal/service"
)

func newDashboardCmd(r *runner) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show site totals with the latest inquiries and users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := service.NewDashboard(r.app.Client, r.app.Logger)
			if !watch {
				return r.printDashboard(d.Load(cmd.Context()))
			}
			if interval <= 0 {
				interval = r.app.Config.DashRefresh
			}
			var werr error
			d.AutoRefresh(cmd.Context(), interval, func(v service.DashboardView) {
				if werr == nil {
					werr = r.printDashboard(v)
				}
				if werr != nil {
					d.Stop()
				}
			})
			return werr
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep refreshing until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval with --watch (default from CMS_DASHBOARD_REFRESH)")
	return cmd
}

func (r *runner) printDashboard(v service.DashboardView) error {
	out := r.app.Out
	fmt.Fprintf(out, "Dashboard at %s\n\n", v.LoadedAt.Format("2006-01-02 15:04:05"))

	if v.StatsErr != "" {
		fmt.Fprintf(out, "! %s\n", v.StatsErr)
	} else {
		t := newTable(out, "PRODUCTS", "ACTIVE JOBS", "APPLICATIONS", "PENDING INQUIRIES", "USERS")
		s := v.Stats
		t.row(humanize.Comma(int64(s.TotalProducts)), humanize.Comma(int64(s.ActiveJobs)),
			humanize.Comma(int64(s.TotalApplications)), humanize.Comma(int64(s.PendingInquiries)),
			humanize.Comma(int64(s.TotalUsers)))
		if err := t.flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nRecent inquiries")
	if v.InquiriesErr != "" {
		fmt.Fprintf(out, "! %s\n", v.InquiriesErr)
	} else if len(v.Inquiries) == 0 {
		fmt.Fprintln(out, "None")
	} else {
		t := newTable(out, "COMPANY", "CONTACT", "STATUS", "RECEIVED")
		for _, q := range v.Inquiries {
			t.row(q.CompanyName, q.ContactName, label(q.Status), ago(q.CreatedAt))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nRecent users")
	if v.UsersErr != "" {
		fmt.Fprintf(out, "! %s\n", v.UsersErr)
	} else if len(v.Users) == 0 {
		fmt.Fprintln(out, "None")
	} else {
		t := newTable(out, "NAME", "EMAIL", "ROLE", "JOINED")
		for _, u := range v.Users {
			t.row(u.Name, u.Email, dash(u.Role), ago(u.CreatedAt))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)
	return nil
}
