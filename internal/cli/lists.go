package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/listing"
)

var errNoToken = errors.New("no API token: set CMS_API_TOKEN")

// listFlags are the query flags shared by the paged list commands.
type listFlags struct {
	search  string
	page    int
	filters map[string]*string
}

func addListFlags(cmd *cobra.Command, f *listFlags) {
	cmd.Flags().StringVar(&f.search, "search", "", "Search text")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
}

// bindFilter registers a filter flag under flagName sending query key.
func bindFilter(cmd *cobra.Command, f *listFlags, flagName, key, usage string) {
	if f.filters == nil {
		f.filters = map[string]*string{}
	}
	v := new(string)
	f.filters[key] = v
	cmd.Flags().StringVar(v, flagName, "", usage)
}

func (f *listFlags) options() []listing.Option {
	filters := make(map[string]string, len(f.filters))
	for k, v := range f.filters {
		filters[k] = *v
	}
	return []listing.Option{listing.WithSearch(f.search), listing.WithPage(f.page), listing.WithFilters(filters)}
}

// load runs one fetch to completion and returns the resulting state.
func load[T any](c *listing.Controller[T]) (listing.State[T], error) {
	c.Load()
	c.Wait()
	return settled(c)
}

func settled[T any](c *listing.Controller[T]) (listing.State[T], error) {
	st := c.State()
	if err := c.Err(); err != nil {
		return st, withCode(exitCancelled, err)
	}
	if st.Err != "" {
		return st, withCode(exitAPI, errors.New(st.Err))
	}
	if !st.Loaded {
		return st, withCode(exitAuth, errNoToken)
	}
	return st, nil
}

// locate loads pages from the current one onwards until id is present, so
// that a mutation can find its target.
func locate[T any](c *listing.Controller[T], id string) error {
	st, err := load(c)
	if err != nil {
		return err
	}
	for page := st.Page; ; page++ {
		if _, ok := c.Lookup(id); ok {
			return nil
		}
		if page >= st.TotalPages {
			return fmt.Errorf("%s not found", id)
		}
		c.SetPage(page + 1)
		c.Wait()
		if st, err = settled(c); err != nil {
			return err
		}
	}
}

// noToken converts the silent no-token path of direct API calls into an error
// the user can act on.
func noToken(err error) error {
	if errors.Is(err, api.ErrNoToken) {
		return withCode(exitAuth, errNoToken)
	}
	return err
}
