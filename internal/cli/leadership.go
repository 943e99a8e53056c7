package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/form"
	"github.com/vbonduro/cmsadmin/internal/service"
)

func newLeadershipCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leadership",
		Aliases: []string{"leaders"},
		Short:   "Manage the leadership team",
	}
	cmd.AddCommand(
		newLeadershipListCmd(r),
		newLeadershipMoveCmd(r),
		newLeadershipSaveCmd(r, false),
		newLeadershipSaveCmd(r, true),
		newLeadershipArchiveCmd(r),
		newLeadershipDeleteCmd(r),
	)
	return cmd
}

// leadership returns the page with the team already loaded.
func (r *runner) leadership(cmd *cobra.Command) (*service.LeadershipPage, error) {
	p := service.NewLeadershipPage(r.app.Client, r.console(), r.drafts(), r.app.Logger)
	if err := p.Refresh(cmd.Context()); err != nil {
		return nil, noToken(err)
	}
	return p, nil
}

func (r *runner) printTeam(members []domain.LeadershipMember) error {
	t := newTable(r.app.Out, "#", "ID", "NAME", "POSITION", "STATUS")
	for i, m := range members {
		t.row(i+1, m.ID, m.Name, m.Position, label(m.Status))
	}
	return t.flush()
}

func newLeadershipListCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the team in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := r.leadership(cmd)
			if err != nil {
				return err
			}
			return r.printTeam(p.Members())
		},
	}
}

func newLeadershipMoveCmd(r *runner) *cobra.Command {
	var over string
	cmd := &cobra.Command{
		Use:   "move <id> --over <target-id>",
		Short: "Move a member to the position of another and save the order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := r.leadership(cmd)
			if err != nil {
				return err
			}
			if err := p.Move(cmd.Context(), args[0], over); err != nil {
				return err
			}
			return r.printTeam(p.Members())
		},
	}
	cmd.Flags().StringVar(&over, "over", "", "Id of the member whose position to take")
	_ = cmd.MarkFlagRequired("over")
	return cmd
}

type memberFlags struct {
	name, position, bio, image, status string
	linkedin, website, email           string
	resume                             bool
}

func (f *memberFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Full name")
	fs.StringVar(&f.position, "position", "", "Position")
	fs.StringVar(&f.bio, "bio", "", "Short biography")
	fs.StringVar(&f.image, "image", "", "Portrait image URL")
	fs.StringVar(&f.status, "status", "", "active or archived")
	fs.StringVar(&f.linkedin, "linkedin", "", "LinkedIn profile URL")
	fs.StringVar(&f.website, "website", "", "Personal website URL")
	fs.StringVar(&f.email, "email", "", "Public email address")
	fs.BoolVar(&f.resume, "resume", false, "Start from the draft kept by an earlier failed save")
}

func (f *memberFlags) apply(fs *pflag.FlagSet, d *form.LeadershipDraft) error {
	if fs.Changed("status") {
		s, err := domain.ParseMemberStatus(f.status)
		if err != nil {
			return withCode(exitUsage, err)
		}
		d.Status = s
	}
	for name, pair := range map[string]struct {
		dst *string
		v   string
	}{
		"name":     {&d.Name, f.name},
		"position": {&d.Position, f.position},
		"bio":      {&d.Bio, f.bio},
		"image":    {&d.ImageURL, f.image},
		"linkedin": {&d.LinkedIn, f.linkedin},
		"website":  {&d.Website, f.website},
		"email":    {&d.Email, f.email},
	} {
		if fs.Changed(name) {
			*pair.dst = pair.v
		}
	}
	return nil
}

func newLeadershipSaveCmd(r *runner, edit bool) *cobra.Command {
	var f memberFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a member at the end of the team",
		Args:  cobra.NoArgs,
	}
	if edit {
		cmd.Use, cmd.Short, cmd.Args = "edit <id>", "Edit a member", cobra.ExactArgs(1)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := r.leadership(cmd)
		if err != nil {
			return err
		}
		e := p.NewEditor()
		if edit {
			if e, err = p.EditEditor(cmd.Context(), args[0]); err != nil {
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
		if err := f.apply(cmd.Flags(), e.Draft); err != nil {
			return err
		}
		if err := r.saveEditor(cmd, e.Save(cmd.Context()), e.Err); err != nil {
			return err
		}
		r.printf("%s saved.\n", e.Draft.Name)
		return r.printTeam(p.Members())
	}
	f.register(cmd.Flags())
	return cmd
}

func newLeadershipArchiveCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:     "archive <id>",
		Aliases: []string{"restore"},
		Short:   "Switch a member between active and archived",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := r.leadership(cmd)
			if err != nil {
				return err
			}
			m, err := p.ToggleStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r.printf("%s is now %s\n", m.Name, label(m.Status))
			return nil
		},
	}
}

func newLeadershipDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a member from the team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := r.leadership(cmd)
			if err != nil {
				return err
			}
			return p.Delete(cmd.Context(), args[0])
		},
	}
}
