package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/service"
	"github.com/vbonduro/cmsadmin/internal/upload"
)

func newMediaCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Browse, upload and delete media files",
	}
	cmd.AddCommand(newMediaListCmd(r), newMediaUploadCmd(r), newMediaDeleteCmd(r))
	return cmd
}

func (r *runner) media(onProgress func(upload.Progress)) *service.MediaLibrary {
	return service.NewMediaLibrary(r.app.Client, r.console(), r.settings(), r.app.Client.Origin(), onProgress, r.app.Logger)
}

// loadMedia loads page 1 and appends until pages have been loaded, the server
// runs out, or until stop reports true.
func loadMedia(cmd *cobra.Command, lib *service.MediaLibrary, search string, pages int, stop func() bool) error {
	if search != "" {
		lib.Pages.SetSearch(search)
		lib.Pages.Wait()
	} else if err := lib.Pages.LoadPage(cmd.Context(), 1, false); err != nil {
		return mediaErr(err)
	}
	for n := 1; ; n++ {
		st := lib.Pages.State()
		if st.Err != "" {
			return withCode(exitAPI, errors.New(st.Err))
		}
		if st.Page == 0 {
			return withCode(exitAuth, errNoToken)
		}
		if (pages > 0 && n >= pages) || !st.HasMore || (stop != nil && stop()) {
			return nil
		}
		if err := lib.Pages.LoadMore(cmd.Context()); err != nil {
			return mediaErr(err)
		}
	}
}

func mediaErr(err error) error {
	if err = noToken(err); ExitCode(err) == exitFailure {
		return withCode(exitAPI, err)
	}
	return err
}

func newMediaListCmd(r *runner) *cobra.Command {
	var (
		search, kind string
		pages        int
		folders      bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List media files with folder and size totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var want domain.MediaType
			if kind != "" {
				var err error
				if want, err = domain.ParseMediaType(kind); err != nil {
					return withCode(exitUsage, err)
				}
			}
			lib := r.media(nil)
			defer lib.Close()
			if err := loadMedia(cmd, lib, search, pages, nil); err != nil {
				return err
			}

			items := lib.Pages.State().Items
			if want != "" {
				items = lib.OfKind(want)
			}
			t := newTable(r.app.Out, "ID", "NAME", "KIND", "SIZE", "UPLOADED", "URL")
			for _, m := range items {
				t.row(m.ID, m.Name, label(m.Kind), humanize.Bytes(uint64(max(m.Size, 0))), ago(m.CreatedAt), m.URL)
			}
			if err := t.flush(); err != nil {
				return err
			}
			if folders {
				fmt.Fprintln(r.app.Out)
				ft := newTable(r.app.Out, "FOLDER", "FILES")
				for _, g := range lib.Folders() {
					ft.row(g.Key, len(g.Items))
				}
				if err := ft.flush(); err != nil {
					return err
				}
			}
			st := lib.Stats()
			more := ""
			if lib.Pages.State().HasMore {
				more = " (more on the server)"
			}
			r.printf("\n%d files, %s loaded%s\n", st.Count, st.TotalSize, more)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Search text")
	cmd.Flags().StringVar(&kind, "kind", "", "Only show image, video, audio, document or file")
	cmd.Flags().IntVar(&pages, "pages", 1, "Pages to load; 0 loads everything")
	cmd.Flags().BoolVar(&folders, "folders", false, "Also print the folder breakdown")
	return cmd
}

// progressPrinter prints one line as each file starts and one when the batch
// completes.
func progressPrinter(w io.Writer) func(upload.Progress) {
	last := 0
	return func(p upload.Progress) {
		switch {
		case p.Done:
			fmt.Fprintf(w, "[%d/%d] done\n", p.Total, p.Total)
			last = 0
		case p.Current != last && p.Current > 0:
			last = p.Current
			fmt.Fprintf(w, "[%d/%d] %s (%.0f%%)\n", p.Current, p.Total, p.FileName, p.Fraction*100)
		}
	}
}

func newMediaUploadCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files from the upload directory, one at a time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if r.app.Uploads == nil {
				return withCode(exitUsage, errors.New("no upload directory configured"))
			}
			files := make([]upload.File, 0, len(args))
			for _, name := range args {
				info, err := r.app.Uploads.Stat(cmd.Context(), name)
				if err != nil {
					return withCode(exitUsage, fmt.Errorf("cannot upload %s: %w", name, err))
				}
				files = append(files, upload.File{
					Name:     info.Name,
					Size:     info.Size,
					MimeType: info.MimeType,
					Open:     func() (io.ReadCloser, error) { return r.app.Uploads.Open(cmd.Context(), name) },
				})
			}

			lib := r.media(progressPrinter(r.app.Out))
			defer lib.Close()
			res := lib.Upload(cmd.Context(), files)
			if len(res.Failed) > 0 {
				return withCode(exitAPI, fmt.Errorf("%d of %d uploads failed", len(res.Failed), len(files)))
			}
			return nil
		},
	}
}

func newMediaDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := r.media(nil)
			defer lib.Close()
			if len(args) > 1 {
				res, err := lib.BulkDelete(cmd.Context(), args)
				if err != nil {
					return err
				}
				if len(res.Failed) > 0 {
					return withCode(exitAPI, errors.New(res.Summary))
				}
				return nil
			}
			id := args[0]
			found := func() bool { _, ok := lib.Pages.Lookup(id); return ok }
			if err := loadMedia(cmd, lib, "", 0, found); err != nil {
				return err
			}
			if !found() {
				return fmt.Errorf("%s not found", id)
			}
			return lib.Delete(cmd.Context(), id)
		},
	}
}
