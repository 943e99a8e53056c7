// Package cli is the cmsadmin command tree. Each command group drives one
// admin page and prints the resulting state.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/config"
	"github.com/vbonduro/cmsadmin/internal/filestore"
	"github.com/vbonduro/cmsadmin/internal/form"
	"github.com/vbonduro/cmsadmin/internal/notify"
	"github.com/vbonduro/cmsadmin/internal/service"
	"github.com/vbonduro/cmsadmin/internal/store"
)

// App holds what the commands run against.
type App struct {
	Config *config.Config
	Client *api.Client
	// Drafts may be nil, in which case failed forms are not persisted.
	Drafts  *store.DraftStore
	Uploads filestore.FileStore
	Exports filestore.FileStore
	Logger  *slog.Logger
	Out     io.Writer
	In      io.Reader
}

type runner struct {
	app *App
	yes bool
}

func (r *runner) console() *notify.Console {
	return notify.NewConsole(r.app.Out, r.app.In, r.yes, r.app.Logger)
}

func (r *runner) settings() service.Settings {
	c := r.app.Config
	return service.Settings{
		PageSize:      c.PageSize,
		MediaPageSize: c.MediaPageSize,
		Debounce:      c.Debounce,
		UploadHold:    c.UploadHold,
		MediaBaseURL:  c.MediaBaseURL,
	}
}

// drafts avoids handing the editor a typed nil.
func (r *runner) drafts() form.DraftRepository {
	if r.app.Drafts == nil {
		return nil
	}
	return r.app.Drafts
}

func (r *runner) printf(format string, args ...any) {
	fmt.Fprintf(r.app.Out, format, args...)
}

func NewRootCmd(app *App) *cobra.Command {
	r := &runner{app: app}
	cmd := &cobra.Command{
		Use:           "cmsadmin",
		Short:         "Administer the company CMS: careers, applications, inquiries, products, leadership and media",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&r.yes, "yes", "y", false, "Answer yes to every confirmation prompt")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return withCode(exitUsage, err) })
	cmd.SetOut(app.Out)
	cmd.SetIn(app.In)

	cmd.AddCommand(newApplicationsCmd(r))
	cmd.AddCommand(newCareersCmd(r))
	cmd.AddCommand(newInquiriesCmd(r))
	cmd.AddCommand(newProductsCmd(r))
	cmd.AddCommand(newLeadershipCmd(r))
	cmd.AddCommand(newMediaCmd(r))
	cmd.AddCommand(newDashboardCmd(r))
	cmd.AddCommand(newDraftsCmd(r))
	return cmd
}

// Execute runs the command line in args and returns the exit code. Errors are
// written to errOut.
func Execute(ctx context.Context, app *App, args []string, errOut io.Writer) int {
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetErr(errOut)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, "Error:", err.Error())
		return ExitCode(err)
	}
	return exitOK
}
