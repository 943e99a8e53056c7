package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/listing"
	"github.com/vbonduro/cmsadmin/internal/service"
)

func newInquiriesCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inquiries",
		Short: "Handle dealership inquiries",
	}
	cmd.AddCommand(newInquiriesListCmd(r), newInquiriesStatusCmd(r), newInquiriesDeleteCmd(r), newInquiriesExportCmd(r))
	return cmd
}

// inquiries builds the page bound to ctx, so cancelling ctx stops its loads.
func (r *runner) inquiries(ctx context.Context, opts ...listing.Option) *service.InquiriesPage {
	opts = append([]listing.Option{listing.WithContext(ctx)}, opts...)
	return service.NewInquiriesPage(r.app.Client, r.console(), r.settings(), r.app.Logger, opts...)
}

func inquiryFilters(cmd *cobra.Command, f *listFlags) {
	addListFlags(cmd, f)
	bindFilter(cmd, f, "status", "status", "Filter by status")
	bindFilter(cmd, f, "priority", "priority", "Filter by priority")
}

func newInquiriesListCmd(r *runner) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inquiries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFilter(f.filters["status"], domain.ParseInquiryStatus); err != nil {
				return err
			}
			if err := checkFilter(f.filters["priority"], domain.ParseInquiryPriority); err != nil {
				return err
			}
			page := r.inquiries(cmd.Context(), f.options()...)
			defer page.List.Close()
			st, err := load(page.List)
			if err != nil {
				return err
			}
			t := newTable(r.app.Out, "ID", "COMPANY", "CONTACT", "LOCATION", "STATUS", "PRIORITY", "RECEIVED")
			for _, q := range st.Items {
				loc := q.City
				if q.State != "" {
					loc = dash(loc) + ", " + q.State
				}
				t.row(q.ID, q.CompanyName, q.ContactName, dash(loc), label(q.Status), label(q.Priority), ago(q.CreatedAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(r.app.Out, st.Page, st.TotalPages, st.Total)
			return nil
		},
	}
	inquiryFilters(cmd, &f)
	return cmd
}

func newInquiriesStatusCmd(r *runner) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an inquiry to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseInquiryStatus(args[1])
			if err != nil {
				return withCode(exitUsage, err)
			}
			p := r.inquiries(cmd.Context(), listing.WithPage(page))
			defer p.List.Close()
			if err := locate(p.List, args[0]); err != nil {
				return err
			}
			q, err := p.UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			r.printf("Inquiry from %s is now %s\n", q.CompanyName, label(q.Status))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to start looking for the inquiry on")
	return cmd
}

func newInquiriesDeleteCmd(r *runner) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an inquiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.inquiries(cmd.Context(), listing.WithPage(page))
			defer p.List.Close()
			if err := locate(p.List, args[0]); err != nil {
				return err
			}
			return p.Delete(cmd.Context(), args[0])
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to start looking for the inquiry on")
	return cmd
}

func newInquiriesExportCmd(r *runner) *cobra.Command {
	var (
		f   listFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the listed inquiries to a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page := r.inquiries(cmd.Context(), f.options()...)
			defer page.List.Close()
			if _, err := load(page.List); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := page.Export(&buf); err != nil {
				return err
			}
			return r.saveExport(cmd, out, "inquiries", &buf)
		},
	}
	inquiryFilters(cmd, &f)
	cmd.Flags().StringVarP(&out, "out", "o", "", "File name inside the export directory")
	return cmd
}
