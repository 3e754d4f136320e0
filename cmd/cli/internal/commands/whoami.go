package commands

import (
	"context"
	"fmt"
)

// WhoamiCmd fetches and prints the authoritative profile.
type WhoamiCmd struct {
	JSON bool `help:"Output JSON"`
}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/"); err != nil {
		return err
	}

	if err := app.session.FetchCurrentUser(ctx); err != nil {
		return err
	}
	user := app.session.User()

	if c.JSON {
		return printJSON(user)
	}

	fmt.Printf("Username:      %s\n", user.Username)
	fmt.Printf("Display name:  %s\n", user.DisplayName)
	fmt.Printf("Email:         %s\n", orDash(user.Email))
	fmt.Printf("Role:          %s\n", user.Role)
	fmt.Printf("Active:        %v\n", user.IsActive)
	fmt.Printf("Last login:    %s\n", orDash(user.LastLogin))

	return nil
}

// PasswdCmd changes the current user's password.
type PasswdCmd struct{}

func (c *PasswdCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/"); err != nil {
		return err
	}

	oldPassword, err := promptPassword("Old password")
	if err != nil {
		return err
	}
	newPassword, err := promptPassword("New password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm new password")
	if err != nil {
		return err
	}
	if newPassword != confirm {
		return fmt.Errorf("passwords do not match")
	}

	user, err := app.clients.Auth.ChangePassword(ctx, oldPassword, newPassword)
	if err != nil {
		return err
	}

	fmt.Printf("Password updated for %s.\n", user.Username)
	return nil
}
