package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/listing"
	"github.com/vbonduro/cmsadmin/internal/service"
)

func newApplicationsCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Review job applications",
	}
	cmd.AddCommand(newApplicationsListCmd(r), newApplicationsUpdateCmd(r), newApplicationsExportCmd(r))
	return cmd
}

// applications builds the page bound to ctx, so cancelling ctx stops its loads.
func (r *runner) applications(ctx context.Context, opts ...listing.Option) *service.ApplicationsPage {
	opts = append([]listing.Option{listing.WithContext(ctx)}, opts...)
	return service.NewApplicationsPage(r.app.Client, r.console(), r.settings(), r.app.Logger, opts...)
}

func newApplicationsListCmd(r *runner) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFilter(f.filters["status"], domain.ParseApplicationStatus); err != nil {
				return err
			}
			if err := checkFilter(f.filters["priority"], domain.ParsePriority); err != nil {
				return err
			}
			page := r.applications(cmd.Context(), f.options()...)
			defer page.List.Close()
			st, err := load(page.List)
			if err != nil {
				return err
			}
			t := newTable(r.app.Out, "ID", "APPLICANT", "POSITION", "STATUS", "PRIORITY", "RATING", "APPLIED")
			for _, a := range st.Items {
				rating := "-"
				if a.Rating != nil {
					rating = fmt.Sprintf("%d/5", *a.Rating)
				}
				t.row(a.ID, a.FullName(), dash(a.Job.Title), label(a.Status), label(a.Priority), rating, ago(a.CreatedAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(r.app.Out, st.Page, st.TotalPages, st.Total)
			return nil
		},
	}
	addListFlags(cmd, &f)
	bindFilter(cmd, &f, "status", "status", "Filter by status")
	bindFilter(cmd, &f, "priority", "priority", "Filter by priority")
	bindFilter(cmd, &f, "job", "jobId", "Filter by job posting id")
	return cmd
}

func newApplicationsUpdateCmd(r *runner) *cobra.Command {
	var (
		status, priority, notes string
		rating                  int
		page                    int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the status, priority, rating or notes of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			var u api.ApplicationUpdate
			if cmd.Flags().Changed("status") {
				s, err := domain.ParseApplicationStatus(status)
				if err != nil {
					return withCode(exitUsage, err)
				}
				u.Status = &s
			}
			if cmd.Flags().Changed("priority") {
				p, err := domain.ParsePriority(priority)
				if err != nil {
					return withCode(exitUsage, err)
				}
				u.Priority = &p
			}
			if cmd.Flags().Changed("rating") {
				u.Rating = &rating
			}
			if cmd.Flags().Changed("notes") {
				u.Notes = &notes
			}

			p := r.applications(cmd.Context(), listing.WithPage(page))
			defer p.List.Close()
			if err := locate(p.List, id); err != nil {
				return err
			}
			if _, err := p.OpenStatusModal(id); err != nil {
				return err
			}
			a, err := p.UpdateStatus(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			r.printf("%s is now %s (%s priority)\n", a.FullName(), label(a.Status), label(a.Priority))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "New status")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&notes, "notes", "", "Reviewer notes")
	cmd.Flags().IntVar(&page, "page", 1, "Page to start looking for the application on")
	return cmd
}

func newApplicationsExportCmd(r *runner) *cobra.Command {
	var (
		f   listFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the listed applications to a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page := r.applications(cmd.Context(), f.options()...)
			defer page.List.Close()
			if _, err := load(page.List); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := page.Export(&buf); err != nil {
				return err
			}
			return r.saveExport(cmd, out, "applications", &buf)
		},
	}
	addListFlags(cmd, &f)
	bindFilter(cmd, &f, "status", "status", "Filter by status")
	bindFilter(cmd, &f, "priority", "priority", "Filter by priority")
	bindFilter(cmd, &f, "job", "jobId", "Filter by job posting id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "File name inside the export directory")
	return cmd
}

// saveExport writes buf to the export store, defaulting the file name to
// prefix plus a timestamp.
func (r *runner) saveExport(cmd *cobra.Command, name, prefix string, buf *bytes.Buffer) error {
	if r.app.Exports == nil {
		return withCode(exitUsage, fmt.Errorf("no export directory configured"))
	}
	if name == "" {
		name = fmt.Sprintf("%s-%s.xlsx", prefix, time.Now().Format("20060102-150405"))
	}
	size := buf.Len()
	path, err := r.app.Exports.Save(cmd.Context(), name, buf)
	if err != nil {
		return fmt.Errorf("failed to save export: %w", err)
	}
	r.printf("Exported to %s (%s)\n", path, humanBytes(size))
	return nil
}

// checkFilter rejects an enum filter value the server would not recognise.
func checkFilter[E any](v *string, parse func(string) (E, error)) error {
	if v == nil || *v == "" {
		return nil
	}
	if _, err := parse(*v); err != nil {
		return withCode(exitUsage, err)
	}
	return nil
}
