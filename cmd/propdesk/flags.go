package main

import (
	"context"
	"fmt"
	"os"

	"github.com/propdesk/propdesk/internal/config"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/format"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// isTerminal reports whether stdin and stdout are both a TTY. Replaced in
// tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveFormat picks the --format flag, falling back to output_format.
func resolveFormat(flag string) (format.FormatterType, error) {
	raw := flag
	if raw == "" {
		raw = config.Get("output_format", string(format.FormatterTypeSimple))
	}
	return format.ParseFormatterType(raw)
}

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "format", "", "Output format: simple, table, json, yaml (default output_format)")
}

// queryFlags are the listing query options shared by list and browse.
type queryFlags struct {
	search  string
	filters domain.FilterOptions
	sortBy  string
	order   string
}

func (f *queryFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("query", pflag.ContinueOnError)
	fs.StringVar(&f.search, "search", "", "Search title, reference, location and permit number")
	fs.StringVar(&f.filters.Category, "category", "", "Filter by category: RESIDENTIAL, COMMERCIAL, LAND")
	fs.StringVar(&f.filters.Purpose, "purpose", "", "Filter by purpose: SALE, RENT")
	fs.StringVar(&f.filters.Location, "location", "", "Filter by location (substring)")
	fs.StringVar(&f.filters.Reference, "reference", "", "Filter by reference")
	fs.StringVar(&f.filters.PermitNumber, "permit", "", "Filter by permit number")
	fs.StringVar(&f.filters.Status, "status", "", "Filter by status")
	fs.StringSliceVar(&f.filters.AgentIDs, "agent", nil, "Filter by agent ID (repeatable)")
	fs.StringSliceVar(&f.filters.PropertyTypes, "type", nil, "Filter by property type (repeatable)")
	fs.StringVar(&f.filters.MinPrice, "min-price", "", "Minimum price")
	fs.StringVar(&f.filters.MaxPrice, "max-price", "", "Maximum price")
	fs.StringVar(&f.filters.MinArea, "min-area", "", "Minimum area in sqft")
	fs.StringVar(&f.filters.MaxArea, "max-area", "", "Maximum area in sqft")
	fs.StringVar(&f.sortBy, "sort", "", "Sort by: createdAt, updatedAt, price, area, propertyTitle, reference")
	fs.StringVar(&f.order, "order", "", "Sort order: asc, desc")
	return fs
}

// query builds the listing query. Sort flags left empty fall back to
// saved.
func (f *queryFlags) query(saved domain.SortOptions) (domain.Query, error) {
	filter, err := f.filters.ToFilter()
	if err != nil {
		return domain.Query{}, err
	}
	sort := saved
	if f.sortBy != "" || f.order != "" {
		field, order := f.sortBy, f.order
		if field == "" {
			field = string(saved.Field)
		}
		if order == "" {
			order = string(saved.Order)
		}
		if sort, err = domain.ParseSortOptions(field, order); err != nil {
			return domain.Query{}, err
		}
	}
	return domain.NewQuery(f.search, filter, sort), nil
}

func (f *queryFlags) hasFilters() bool {
	o := f.filters
	return o.Category != "" || o.Purpose != "" || o.Location != "" || o.Reference != "" ||
		o.PermitNumber != "" || o.Status != "" || len(o.AgentIDs) > 0 || len(o.PropertyTypes) > 0 ||
		o.MinPrice != "" || o.MaxPrice != "" || o.MinArea != "" || o.MaxArea != ""
}

func requireOneArg(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%s requires exactly one argument", name)
		}
		return nil
	}
}
