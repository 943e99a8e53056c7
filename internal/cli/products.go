package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/vbonduro/cmsadmin/internal/listing"
	"github.com/vbonduro/cmsadmin/internal/service"
)

func newProductsCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(newProductsListCmd(r), newProductsToggleCmd(r), newProductsDeleteCmd(r))
	return cmd
}

// products builds the page bound to ctx, so cancelling ctx stops its loads.
func (r *runner) products(ctx context.Context, opts ...listing.Option) *service.ProductsPage {
	opts = append([]listing.Option{listing.WithContext(ctx)}, opts...)
	return service.NewProductsPage(r.app.Client, r.console(), r.settings(), r.app.Logger, opts...)
}

func newProductsListCmd(r *runner) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page := r.products(cmd.Context(), f.options()...)
			defer page.List.Close()
			st, err := load(page.List)
			if err != nil {
				return err
			}
			t := newTable(r.app.Out, "KEY", "NAME", "CATEGORY", "SKU", "ACTIVE", "ADDED")
			for _, p := range st.Items {
				t.row(p.Key(), p.Name, dash(p.Category), dash(p.SKU), yesNo(p.IsActive), ago(p.CreatedAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(r.app.Out, st.Page, st.TotalPages, st.Total)
			return nil
		},
	}
	addListFlags(cmd, &f)
	bindFilter(cmd, &f, "category", "category", "Filter by category")
	return cmd
}

func newProductsToggleCmd(r *runner) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch a product between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.products(cmd.Context(), listing.WithPage(page))
			defer p.List.Close()
			if err := locate(p.List, args[0]); err != nil {
				return err
			}
			v, err := p.ToggleActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r.printf("%s: active %s\n", v.Name, yesNo(v.IsActive))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to start looking for the product on")
	return cmd
}

// newProductsDeleteCmd deletes one product, or several as one bulk delete
// with a single confirmation and summary.
func newProductsDeleteCmd(r *runner) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.products(cmd.Context(), listing.WithPage(page))
			defer p.List.Close()
			if len(args) == 1 {
				if err := locate(p.List, args[0]); err != nil {
					return err
				}
				return p.Delete(cmd.Context(), args[0])
			}
			if _, err := load(p.List); err != nil {
				return err
			}
			p.Select(args...)
			res, err := p.BulkDelete(cmd.Context())
			if err != nil {
				return err
			}
			if len(res.Failed) > 0 {
				return withCode(exitAPI, errors.New(res.Summary))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page the products are listed on")
	return cmd
}
