package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/delish/app/routes"
	"github.com/shashiranjanraj/delish/pkg/router"
)

// RouteTable returns every route without booting the application.
func RouteTable() []router.RouteInfo {
	r := router.New()
	routes.Register(r, routes.Controllers{})
	return r.Routes()
}

// PrintRoutes writes the route table as aligned columns.
func PrintRoutes(out io.Writer, table []router.RouteInfo) error {
	if len(table) == 0 {
		_, err := fmt.Fprintln(out, "No routes registered.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range table {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
