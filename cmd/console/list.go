package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go-admin-console/internal/columns"
	"go-admin-console/internal/console"
	"go-admin-console/internal/data"
	"go-admin-console/internal/service"
	"go-admin-console/internal/stats"
	"go-admin-console/internal/table"
	"go-admin-console/internal/validation"

	"github.com/spf13/cobra"
)

var (
	listSearch  string
	listSort    string
	listDesc    bool
	listPage    int
	listPerPage int
)

var listCmd = &cobra.Command{
	Use:   "list <users|posts>",
	Short: "Print one page of users or posts",
	Long: `Print the stats and one page of the users or posts table, searched,
sorted and paginated the same way as the web console.`,
	Example: `  console list posts --search access
  console list users --sort username --desc --page 2 --per-page 3`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"users", "posts"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := data.ParseEntityType(args[0])
		if !ok {
			return fmt.Errorf("unknown entity %q: want users or posts", args[0])
		}

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		perPage := listPerPage
		if perPage <= 0 {
			perPage = cfg.Table.ItemsPerPage
		}
		validator := validation.New()
		page := console.New(
			service.NewUserService(data.NewSQLUserRepository(db), validator, nil),
			service.NewPostService(data.NewSQLPostRepository(db), validator, nil),
			console.Options{ItemsPerPage: perPage, Language: cfg.Table.Language, Logger: log},
		)
		if err := page.SwitchEntity(cmd.Context(), kind); err != nil {
			return fmt.Errorf("load %s: %w", kind, err)
		}

		state := listState()
		out := cmd.OutOrStdout()
		printStats(out, page.Stats())
		if kind == data.EntityUser {
			t := page.UserTable(cmd.Context())
			t.Restore(state)
			return printTable(out, t)
		}
		t := page.PostTable(cmd.Context())
		t.Restore(state)
		return printTable(out, t)
	},
}

func init() {
	flags := listCmd.Flags()
	flags.StringVarP(&listSearch, "search", "s", "", "only rows containing this text")
	flags.StringVar(&listSort, "sort", "", "column key to sort by")
	flags.BoolVar(&listDesc, "desc", false, "sort descending")
	flags.IntVarP(&listPage, "page", "p", 1, "page number")
	flags.IntVar(&listPerPage, "per-page", 0, "rows per page (default: table.items_per_page)")
}

func listState() table.State {
	s := table.State{SearchTerm: listSearch, CurrentPage: listPage}
	if listSort != "" {
		s.SortColumn = listSort
		s.SortDirection = table.SortAsc
		if listDesc {
			s.SortDirection = table.SortDesc
		}
	}
	return s
}

func printStats(w io.Writer, s []stats.Stat) {
	parts := make([]string, len(s))
	for i, st := range s {
		parts[i] = fmt.Sprintf("%s: %d", st.Label, st.Value)
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
	fmt.Fprintln(w)
}

// printTable writes the visible page of t as aligned text. Action columns
// are left out.
func printTable[T any](w io.Writer, t *table.Table[T]) error {
	v := t.View()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	var cols []table.Column[T]
	for _, c := range v.Columns {
		if c.Value != nil {
			cols = append(cols, c)
		}
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = strings.ToUpper(c.Header)
		if c.Key == v.SortColumn {
			headers[i] += " (" + string(v.SortDirection) + ")"
		}
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range v.Rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = columns.Render(c, row).String()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if v.TotalItems == 0 {
		fmt.Fprintln(w, "No data")
		return nil
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d rows)\n", v.CurrentPage, max(v.TotalPages, 1), v.TotalItems)
	return nil
}
