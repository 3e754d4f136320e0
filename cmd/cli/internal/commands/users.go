package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fieldkpi/qualdash/internal/api"
)

const adminUsersPath = "/admin/users"

// UsersCmd manages user accounts. Admin only.
type UsersCmd struct {
	List          UsersListCmd          `cmd:"" help:"List users"`
	Create        UsersCreateCmd        `cmd:"" help:"Create a user"`
	Update        UsersUpdateCmd        `cmd:"" help:"Update a user"`
	Delete        UsersDeleteCmd        `cmd:"" help:"Delete a user"`
	ResetPassword UsersResetPasswordCmd `cmd:"" name:"reset-password" help:"Reset a user's password"`
}

// UsersListCmd lists users with optional filtering and paging.
type UsersListCmd struct {
	Q        string `help:"Search text"`
	Role     string `help:"Filter by role" enum:"admin,uploader,viewer,"`
	Page     int    `help:"Page number" default:"1"`
	PageSize int    `help:"Page size" default:"20"`
	JSON     bool   `help:"Output JSON"`
}

func (c *UsersListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, adminUsersPath); err != nil {
		return err
	}

	page, err := app.clients.Admin.ListUsers(ctx, api.ListUsersQuery{
		Q:        c.Q,
		Role:     api.Role(c.Role),
		Page:     c.Page,
		PageSize: c.PageSize,
	})
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(page)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tDISPLAY NAME\tROLE\tACTIVE\tLAST LOGIN")
	for _, u := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\t%s\n",
			u.ID, u.Username, u.DisplayName, u.Role, u.IsActive, orDash(u.LastLogin))
	}
	w.Flush()

	fmt.Printf("\nPage %d, %d of %d users.\n", page.Page, len(page.Items), page.Total)
	return nil
}

// UsersCreateCmd creates an account.
type UsersCreateCmd struct {
	Username    string `arg:"" help:"Account username"`
	DisplayName string `help:"Display name" required:""`
	Email       string `help:"Email address"`
	Role        string `help:"Account role" enum:"admin,uploader,viewer" default:"viewer"`
	Password    string `help:"Initial password (prompted when omitted)"`
}

func (c *UsersCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, adminUsersPath); err != nil {
		return err
	}

	password := c.Password
	if password == "" {
		password, err = promptPassword("Initial password")
		if err != nil {
			return err
		}
	}

	req := api.CreateUserRequest{
		Username:    c.Username,
		DisplayName: c.DisplayName,
		Password:    password,
		Role:        api.Role(c.Role),
	}
	if c.Email != "" {
		req.Email = &c.Email
	}

	user, err := app.clients.Admin.CreateUser(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("User %q created with role %s (id %d).\n", user.Username, user.Role, user.ID)
	return nil
}

// UsersUpdateCmd patches an account; only the provided flags change.
type UsersUpdateCmd struct {
	ID          int64   `arg:"" help:"User ID"`
	DisplayName *string `help:"New display name"`
	Email       *string `help:"New email address"`
	Role        *string `help:"New role" enum:"admin,uploader,viewer"`
	Active      *bool   `help:"Activate or deactivate the account"`
}

func (c *UsersUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	if c.DisplayName == nil && c.Email == nil && c.Role == nil && c.Active == nil {
		return fmt.Errorf("nothing to update: pass at least one of --display-name, --email, --role, --active")
	}

	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, adminUsersPath); err != nil {
		return err
	}

	req := api.UpdateUserRequest{
		DisplayName: c.DisplayName,
		Email:       c.Email,
		IsActive:    c.Active,
	}
	if c.Role != nil {
		role := api.Role(*c.Role)
		req.Role = &role
	}

	user, err := app.clients.Admin.UpdateUser(ctx, c.ID, req)
	if err != nil {
		return err
	}

	fmt.Printf("User %q updated.\n", user.Username)
	return nil
}

// UsersDeleteCmd removes an account.
type UsersDeleteCmd struct {
	ID    int64 `arg:"" help:"User ID"`
	Force bool  `help:"Skip confirmation" default:"false"`
}

func (c *UsersDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, adminUsersPath); err != nil {
		return err
	}

	if !c.Force {
		fmt.Printf("Delete user %d? [y/N]: ", c.ID)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	user, err := app.clients.Admin.DeleteUser(ctx, c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("User %q deleted.\n", user.Username)
	return nil
}

// UsersResetPasswordCmd sets a new password for an account.
type UsersResetPasswordCmd struct {
	ID       int64  `arg:"" help:"User ID"`
	Password string `help:"New password (prompted when omitted)"`
}

func (c *UsersResetPasswordCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, adminUsersPath); err != nil {
		return err
	}

	password := c.Password
	if password == "" {
		password, err = promptPassword("New password")
		if err != nil {
			return err
		}
	}

	user, err := app.clients.Admin.ResetPassword(ctx, c.ID, password)
	if err != nil {
		return err
	}

	fmt.Printf("Password reset for %q.\n", user.Username)
	return nil
}
