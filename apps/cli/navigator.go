package main

import (
	"fmt"
	"io"

	"github.com/trezcool/classdesk/core/access"
)

// navigator stands for the browser location: it remembers the current route
// and tells the user where to go next.
type navigator struct {
	out   io.Writer
	route access.Route
}

var _ access.Navigator = (*navigator)(nil)

func newNavigator(out io.Writer) *navigator {
	return &navigator{out: out, route: access.RouteLogin}
}

func (n *navigator) Navigate(route access.Route) {
	n.route = route
	switch route {
	case access.RouteTeacher:
		fmt.Fprintln(n.out, "→ teacher dashboard: try `assignments`")
	case access.RouteStudent:
		fmt.Fprintln(n.out, "→ student dashboard: try `published`")
	case access.RouteRegister:
		fmt.Fprintln(n.out, "→ register: try `register -name NAME -email EMAIL`")
	default:
		fmt.Fprintln(n.out, "→ please log in: try `login -email EMAIL`")
	}
}
