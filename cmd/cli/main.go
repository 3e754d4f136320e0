package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/fieldkpi/qualdash/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login  commands.LoginCmd  `cmd:"" help:"Log in to the dashboard backend"`
		Logout commands.LogoutCmd `cmd:"" help:"Log out and clear the local session"`
		Whoami commands.WhoamiCmd `cmd:"" help:"Show the current user profile"`
		Passwd commands.PasswdCmd `cmd:"" help:"Change your password"`
		Users  commands.UsersCmd  `cmd:"" help:"Manage user accounts (admin)"`
		Upload commands.UploadCmd `cmd:"" help:"Upload dataset files and track ingest tasks"`
		Ifir   commands.IfirCmd   `cmd:"" help:"IFIR defect-rate analysis"`
		Ra     commands.RaCmd     `cmd:"" help:"RA defect-rate analysis"`

		Config  string `help:"Config file path" type:"path"`
		Server  string `help:"Override the backend server URL"`
		Debug   bool   `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:   cli.Debug,
		Version: version,
		Config:  cli.Config,
		Server:  cli.Server,
	})
	cmd.FatalIfErrorf(err)
}
