package access

import (
	"github.com/trezcool/classdesk/core"
)

// Navigator moves the client to another route.
type Navigator interface {
	Navigate(route Route)
}

// Coordinator applies the navigation policy for errors coming back from the API:
// an expired authentication sends the client to the public entry.
type Coordinator struct {
	nav    Navigator
	logger core.Logger
}

func NewCoordinator(nav Navigator, logger core.Logger) *Coordinator {
	return &Coordinator{nav: nav, logger: logger}
}

// Handle acts on err and returns it unchanged.
func (c *Coordinator) Handle(err error) error {
	if err == nil {
		return nil
	}
	if core.IsAuthExpired(err) {
		c.logger.Info("session expired, back to login")
		c.nav.Navigate(RouteLogin)
	}
	return err
}
