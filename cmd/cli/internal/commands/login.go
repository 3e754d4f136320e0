package commands

import (
	"context"
	"fmt"

	"github.com/fieldkpi/qualdash/internal/nav"
)

// LoginCmd authenticates against the backend and persists the session.
type LoginCmd struct {
	Username string `arg:"" help:"Account username"`
	Password string `help:"Password (prompted when omitted)" env:"QUALDASH_PASSWORD"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	// Visiting login with a live session lands on the default view instead.
	route, err := app.router.Navigate(ctx, "/login")
	if err != nil {
		return err
	}
	if route.Name != nav.RouteLogin {
		fmt.Println("Already logged in.")
		return nil
	}

	password := c.Password
	if password == "" {
		password, err = promptPassword("Password")
		if err != nil {
			return err
		}
	}

	if err := app.session.Login(ctx, c.Username, password); err != nil {
		return err
	}

	user := app.session.User()
	fmt.Printf("Logged in as %s (%s).\n", user.Username, user.Role)

	// Settle on the role-appropriate landing view.
	if _, err := app.router.Navigate(ctx, "/"); err != nil {
		return err
	}
	return nil
}

// LogoutCmd clears the local session.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	app.session.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}
