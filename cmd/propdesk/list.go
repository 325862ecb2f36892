package main

import (
	"fmt"
	"io"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/api"
	"github.com/propdesk/propdesk/internal/config"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/format"
	"github.com/propdesk/propdesk/internal/listing"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/spf13/cobra"
)

type listClient interface {
	API() (*api.Client, error)
	Settings() (*settings.Store, error)
}

const listCommandLong = `List properties with filters, sorting and paging.

USAGE:
    propdesk list [OPTIONS]

OPTIONS:
    --off-plan             List off-plan projects instead of properties
    --all                  Fetch every page
    --page <n>             Page to show (default 1)
    --page-size <n>        Items per page (default page_size)
    --columns <a,b>        Table columns (default from settings)
    --format=<format>      Output format: simple, table, json, yaml
    --search <text>        Search title, reference, location and permit number
    --category <c>         RESIDENTIAL, COMMERCIAL, LAND
    --purpose <p>          SALE, RENT
    --location <text>      Location substring
    --status <s>           Listing status
    --min-price, --max-price, --min-area, --max-area
    --sort <field>         createdAt, updatedAt, price, area, propertyTitle, reference
    --order <asc|desc>     Sort order
    -h, --help             Show this help

Sorting defaults to the order saved by the browser.`

type listOptions struct {
	query    queryFlags
	offPlan  bool
	all      bool
	page     int
	pageSize int
	columns  []string
	format   string
}

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	var opts listOptions
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List properties with filters and formats",
		Long:  listCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, client, opts)
		},
	}

	listCmd.Flags().BoolVar(&opts.offPlan, "off-plan", false, "List off-plan projects")
	listCmd.Flags().BoolVar(&opts.all, "all", false, "Fetch every page")
	listCmd.Flags().IntVar(&opts.page, "page", 1, "Page to show")
	listCmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Items per page")
	listCmd.Flags().StringSliceVar(&opts.columns, "columns", nil, "Table columns")
	addFormatFlag(listCmd, &opts.format)
	listCmd.Flags().AddFlagSet(opts.query.flagSet())

	return listCmd
}

func runList(cmd *cobra.Command, client listClient, opts listOptions) error {
	fmtType, err := resolveFormat(opts.format)
	if err != nil {
		return err
	}
	c, err := client.API()
	if err != nil {
		return err
	}
	store, err := client.Settings()
	if err != nil {
		return err
	}

	q, err := opts.query.query(store.Browse().Sort)
	if err != nil {
		return err
	}
	q.PageSize = opts.pageSize
	if q.PageSize <= 0 {
		q.PageSize = config.GetInt("page_size", domain.DefaultPageSize)
	}

	var source listing.PageSource = c.Properties()
	if opts.offPlan {
		source = c.OffPlan()
	}

	ctx := commandContext(cmd)
	var (
		items []domain.Property
		meta  domain.PageMeta
	)
	if opts.all {
		feed := listing.NewFeed(source, q, listing.WithLogger(logging.With("component", "list")))
		defer feed.Close()
		if items, err = feed.Collect(ctx); err != nil {
			return err
		}
		meta = domain.PageMeta{Page: feed.Pages(), TotalPages: feed.Pages(), Total: feed.TotalCount()}
	} else {
		page := max(1, opts.page)
		p, err := source.FetchPage(ctx, q, page)
		if err != nil {
			return err
		}
		items, meta = p.Items, p.Meta
	}

	columns := opts.columns
	if len(columns) == 0 {
		columns = store.Get().Columns
	}
	if err := format.NewFormatter(fmtType, columns).FormatProperties(items, cmd.OutOrStdout()); err != nil {
		return err
	}

	if fmtType == format.FormatterTypeSimple || fmtType == format.FormatterTypeTable {
		printPageSummary(cmd.ErrOrStderr(), meta, len(items), opts.all)
	}
	return nil
}

func printPageSummary(w io.Writer, meta domain.PageMeta, shown int, all bool) {
	if meta.Total == 0 {
		fmt.Fprintln(w, "No properties found")
		return
	}
	if all || meta.Page >= meta.TotalPages {
		fmt.Fprintf(w, "%d of %d properties\n", shown, meta.Total)
		return
	}
	fmt.Fprintf(w, "Page %d of %d (%d properties). Use --page %d or --all for more.\n",
		meta.Page, meta.TotalPages, meta.Total, meta.Page+1)
}

func init() {
	cmd.RootCmd.AddCommand(NewListCmd(svc))
}
