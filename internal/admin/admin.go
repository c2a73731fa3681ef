// Package admin implements the operator commands run by cmd/admin against
// the same database as the server.
package admin

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

var (
	ErrUsage            = errors.New("usage: admin reset-password -u <username>")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyPassword    = errors.New("password must not be empty")
)

// PasswordResetter is satisfied by *services.UserService.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, username, newPassword string) error
}

// Command is a parsed admin invocation.
type Command struct {
	Name     string
	Username string
	// ConfigArgs are the config flags (-c, -env) to hand to config.Load.
	ConfigArgs []string
}

// Parse reads "reset-password -u <username> [-c file] [-env file]".
func Parse(args []string) (*Command, error) {
	if len(args) == 0 || args[0] != "reset-password" {
		return nil, ErrUsage
	}

	var username, configFile, envFile string

	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&username, "u", "", "username")
	fs.StringVar(&configFile, "c", "", "config file")
	fs.StringVar(&configFile, "config", "", "config file")
	fs.StringVar(&envFile, "env", "", "dotenv file")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if username == "" {
		return nil, ErrUsage
	}

	cmd := &Command{Name: args[0], Username: username}
	if configFile != "" {
		cmd.ConfigArgs = append(cmd.ConfigArgs, "-c", configFile)
	}
	if envFile != "" {
		cmd.ConfigArgs = append(cmd.ConfigArgs, "-env", envFile)
	}
	return cmd, nil
}

// ResetPassword prompts twice for the new password and stores it for
// username. Both copies are wiped before returning.
func ResetPassword(ctx context.Context, w io.Writer, r PasswordResetter, username string) error {
	pw, err := GetPassword(w, "New password: ")
	if err != nil {
		return err
	}
	defer WipeByteArray(pw)

	confirm, err := GetPassword(w, "Repeat password: ")
	if err != nil {
		return err
	}
	defer WipeByteArray(confirm)

	if len(pw) == 0 {
		return ErrEmptyPassword
	}
	if !bytes.Equal(pw, confirm) {
		return ErrPasswordMismatch
	}

	if err := r.ResetPassword(ctx, username, string(pw)); err != nil {
		return err
	}

	fmt.Fprintf(w, "Password for %s updated\n", username)
	return nil
}
