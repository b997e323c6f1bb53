package presentation

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"lampions/internal/domain"
)

// RoutesTable renders the route list as a table, newest routes assumed
// first. Timestamps are shown in a compact UTC form when they parse.
func RoutesTable(routes []domain.Route, mailDomain string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Address", "Forward", "Created", "Active")

	for i, route := range routes {
		created := route.CreatedAt
		if parsed := route.Created(); !parsed.IsZero() {
			created = parsed.UTC().Format("2006-01-02 15:04")
		}
		active := "✗"
		if route.Active {
			active = "✓"
		}
		t.Row(
			strconv.Itoa(i+1),
			route.Alias+"@"+mailDomain,
			route.Forward,
			created,
			active,
		)
	}
	return t.String()
}
