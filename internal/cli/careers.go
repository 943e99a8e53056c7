package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vbonduro/cmsadmin/internal/form"
	"github.com/vbonduro/cmsadmin/internal/listing"
	"github.com/vbonduro/cmsadmin/internal/service"
)

func newCareersCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "careers",
		Aliases: []string{"jobs"},
		Short:   "Manage job postings",
	}
	cmd.AddCommand(
		newCareersListCmd(r),
		newCareersSaveCmd(r, false),
		newCareersSaveCmd(r, true),
		newCareersToggleCmd(r, "toggle", "Switch a posting between active and inactive"),
		newCareersToggleCmd(r, "hot", "Switch the featured flag of a posting"),
		newCareersDeleteCmd(r),
	)
	return cmd
}

// careers builds the page bound to ctx, so cancelling ctx stops its loads.
func (r *runner) careers(ctx context.Context, opts ...listing.Option) *service.CareersPage {
	opts = append([]listing.Option{listing.WithContext(ctx)}, opts...)
	return service.NewCareersPage(r.app.Client, r.console(), r.drafts(), r.settings(), r.app.Logger, opts...)
}

func newCareersListCmd(r *runner) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job postings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page := r.careers(cmd.Context(), f.options()...)
			defer page.List.Close()
			st, err := load(page.List)
			if err != nil {
				return err
			}
			t := newTable(r.app.Out, "ID", "TITLE", "DEPARTMENT", "LOCATION", "TYPE", "ACTIVE", "HOT", "UPDATED")
			for _, j := range st.Items {
				t.row(j.ID, j.Title, j.Department, j.Location, j.JobType, yesNo(j.IsActive), yesNo(j.IsHot), ago(j.UpdatedAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(r.app.Out, st.Page, st.TotalPages, st.Total)
			return nil
		},
	}
	addListFlags(cmd, &f)
	bindFilter(cmd, &f, "department", "department", "Filter by department")
	bindFilter(cmd, &f, "status", "status", "Filter by status (active or inactive)")
	return cmd
}

type postingFlags struct {
	title, department, location, jobType, experience, description string
	requirements, benefits, skills                                []string
	active, hot, resume                                           bool
}

func (f *postingFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Job title")
	fs.StringVar(&f.department, "department", "", "Department")
	fs.StringVar(&f.location, "location", "", "Location")
	fs.StringVar(&f.jobType, "type", "", "Job type, e.g. full-time")
	fs.StringVar(&f.experience, "experience", "", "Experience level")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.StringArrayVar(&f.requirements, "requirement", nil, "Requirement (repeatable)")
	fs.StringArrayVar(&f.benefits, "benefit", nil, "Benefit (repeatable)")
	fs.StringArrayVar(&f.skills, "skill", nil, "Skill (repeatable)")
	fs.BoolVar(&f.active, "active", true, "Accept applications")
	fs.BoolVar(&f.hot, "hot", false, "Feature the posting")
	fs.BoolVar(&f.resume, "resume", false, "Start from the draft kept by an earlier failed save")
}

// apply copies the flags the user set onto d.
func (f *postingFlags) apply(fs *pflag.FlagSet, d *form.JobPostingDraft) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("title", &d.Title, f.title)
	set("department", &d.Department, f.department)
	set("location", &d.Location, f.location)
	set("type", &d.JobType, f.jobType)
	set("experience", &d.ExperienceLevel, f.experience)
	set("description", &d.Description, f.description)
	if fs.Changed("requirement") {
		d.Requirements = form.NewListField(f.requirements)
	}
	if fs.Changed("benefit") {
		d.Benefits = form.NewListField(f.benefits)
	}
	if fs.Changed("skill") {
		d.Skills = form.NewListField(f.skills)
	}
	if fs.Changed("active") {
		d.IsActive = f.active
	}
	if fs.Changed("hot") {
		d.IsHot = f.hot
	}
}

func newCareersSaveCmd(r *runner, edit bool) *cobra.Command {
	var f postingFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job posting",
		Args:  cobra.NoArgs,
	}
	if edit {
		cmd.Use, cmd.Short, cmd.Args = "edit <id>", "Edit a job posting", cobra.ExactArgs(1)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		page := r.careers(cmd.Context())
		defer page.List.Close()

		e := page.NewEditor()
		if edit {
			var err error
			if e, err = page.EditEditor(cmd.Context(), args[0]); err != nil {
				return noToken(err)
			}
		}
		if f.resume {
			found, err := e.Resume(cmd.Context())
			if err != nil {
				return err
			}
			if !found {
				r.printf("No saved draft; starting fresh.\n")
			}
		}
		f.apply(cmd.Flags(), e.Draft)
		if err := r.saveEditor(cmd, e.Save(cmd.Context()), e.Err); err != nil {
			return err
		}
		r.printf("Job posting %q saved.\n", e.Draft.Title)
		return nil
	}
	f.register(cmd.Flags())
	return cmd
}

// saveEditor reports a failed form save. The draft survives in the draft
// store when one is configured.
func (r *runner) saveEditor(cmd *cobra.Command, err error, msg string) error {
	if err == nil {
		return nil
	}
	if msg == "" {
		msg = err.Error()
	}
	if r.app.Drafts != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Draft kept; rerun with --resume to continue.\n")
	}
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		return withCode(exitValidation, errors.New(msg))
	}
	return withCode(ExitCode(noToken(err)), errors.New(msg))
}

func newCareersToggleCmd(r *runner, use, short string) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.careers(cmd.Context(), listing.WithPage(page))
			defer p.List.Close()
			if err := locate(p.List, args[0]); err != nil {
				return err
			}
			toggle := p.ToggleActive
			if use == "hot" {
				toggle = p.ToggleHot
			}
			j, err := toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r.printf("%s: active %s, hot %s\n", j.Title, yesNo(j.IsActive), yesNo(j.IsHot))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to start looking for the posting on")
	return cmd
}

func newCareersDeleteCmd(r *runner) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.careers(cmd.Context(), listing.WithPage(page))
			defer p.List.Close()
			if err := locate(p.List, args[0]); err != nil {
				return err
			}
			return p.Delete(cmd.Context(), args[0])
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to start looking for the posting on")
	return cmd
}
