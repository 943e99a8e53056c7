package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newDraftsCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect form drafts kept after failed saves",
	}
	cmd.AddCommand(newDraftsListCmd(r), newDraftsDiscardCmd(r))
	return cmd
}

var errNoDrafts = errors.New("no drafts database configured")

func newDraftsListCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List kept drafts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.app.Drafts == nil {
				return withCode(exitUsage, errNoDrafts)
			}
			drafts, err := r.app.Drafts.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				r.printf("No drafts.\n")
				return nil
			}
			t := newTable(r.app.Out, "KIND", "KEY", "SAVED")
			for _, d := range drafts {
				t.row(d.Kind, d.Key, ago(d.UpdatedAt))
			}
			return t.flush()
		},
	}
}

func newDraftsDiscardCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <kind> <key>",
		Short: "Delete a kept draft",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if r.app.Drafts == nil {
				return withCode(exitUsage, errNoDrafts)
			}
			if err := r.app.Drafts.DeleteDraft(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			r.printf("Draft %s/%s discarded.\n", args[0], args[1])
			return nil
		},
	}
}
