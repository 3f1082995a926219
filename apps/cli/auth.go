package main

import (
	"context"
	"fmt"

	"github.com/trezcool/classdesk/apps"
	"github.com/trezcool/classdesk/core/access"
	"github.com/trezcool/classdesk/core/user"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "login")
	email := fs.String("email", "", "The account's email. The password will be prompted next.")
	if err := parse(fs, args); err != nil {
		return err
	}

	if sess := cli.sessions.Current(ctx); sess != nil {
		fmt.Fprintf(cli.out, "Already logged in as %s\n", sess.User.Email)
		cli.nav.Navigate(access.Home(sess.User.Role))
		return nil
	}

	if *email == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := readPassword(cli.out)
	if err != nil {
		return err
	}
	if pwd == "" {
		fs.Usage()
		return errHelp
	}

	sess, err := cli.auth.Login(ctx, *email, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Welcome, %s!\n", sess.User.Name)
	cli.nav.Navigate(access.Home(sess.User.Role))
	return nil
}

func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "register")
	name := fs.String("name", "", "The user's full name.")
	email := fs.String("email", "", "The user's email. The password will be prompted next.")
	role := fs.String("role", user.RoleStudent.String(), "student or teacher.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := cli.enter(ctx, access.RouteRegister); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}
	r, err := user.ParseRole(*role)
	if err != nil {
		return apps.NewArgumentError("role", "must be one of student or teacher")
	}
	pwd, err := readPassword(cli.out)
	if err != nil {
		return err
	}

	nu := user.NewUser{Name: *name, Email: *email, Password: pwd, Role: r}
	if _, err := cli.auth.Register(ctx, nu); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Registration successful! Please login.")
	cli.nav.Navigate(access.RouteLogin)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out")
	cli.nav.Navigate(access.RouteLogin)
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	sess := cli.sessions.Current(ctx)
	if sess == nil {
		fmt.Fprintln(cli.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(cli.out, "%s <%s> (%s)\n", sess.User.Name, sess.User.Email, sess.User.Role)
	return nil
}
