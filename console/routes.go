package console

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waypoint/internal"
)

// Row is one line of route:list.
type Row struct {
	Method     string
	URL        string
	Callback   string
	Middleware []string
	Pattern    string
	Name       string
	Namespace  string
}

// Rows lists every route of r, methods in table order and routes in match
// order. A route whose template does not compile shows the error as its
// pattern.
func Rows(r *internal.Router) []Row {
	var rows []Row
	for _, method := range r.RegisteredMethods() {
		for _, rt := range r.Routes(method) {
			attrs := rt.Attributes()
			pattern := attrs.Domain + attrs.Path
			if p, err := rt.Pattern(); err != nil {
				pattern = "error: " + err.Error()
			} else if internal.HasPlaceholder(pattern) {
				pattern = p.String()
			}
			rows = append(rows, Row{
				Method:     method,
				URL:        attrs.Domain + attrs.Path,
				Callback:   attrs.Handler,
				Middleware: attrs.Middleware,
				Pattern:    pattern,
				Name:       attrs.Name,
				Namespace:  attrs.Namespace,
			})
		}
	}
	return rows
}

// RouteListCommand prints the route table the app would serve.
func RouteListCommand(k Kernel) *cobra.Command {
	var (
		method string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "route:list",
		Short: "List all registered routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := k()
			if err != nil {
				return err
			}

			rows := slices.DeleteFunc(Rows(app.Router()), func(row Row) bool {
				if method != "" && !strings.EqualFold(row.Method, method) {
					return true
				}
				return name != "" && !strings.Contains(row.Name, name)
			})

			out := cmd.OutOrStdout()
			if g := app.Router().GlobalMiddleware(); len(g) > 0 {
				fmt.Fprintf(out, "Global middleware: %s\n", strings.Join(g, ", "))
			}
			renderRows(out, rows)
			fmt.Fprintf(out, "%d routes (source: %s)\n", len(rows), app.Source())
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "Only list routes for this HTTP method")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Only list routes whose name contains this value")

	return cmd
}

func renderRows(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Method", "Url", "Callback", "Middleware", "Pattern", "Name", "Namespace"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, r := range rows {
		table.Append([]string{
			r.Method,
			r.URL,
			r.Callback,
			strings.Join(r.Middleware, ", "),
			r.Pattern,
			r.Name,
			r.Namespace,
		})
	}
	table.Render()
}
