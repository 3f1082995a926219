package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/classdesk/core/access"
	"github.com/trezcool/classdesk/core/assignment"
	"github.com/trezcool/classdesk/core/auth"
	"github.com/trezcool/classdesk/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	confirmFunc      = confirm           // mockable

	errHelp         = errors.New("help provided")
	errCancelled    = errors.New("cancelled")
	errAccessDenied = errors.New("access denied")
)

var stdin io.Reader = os.Stdin // mockable

type commandLine struct {
	out         io.Writer
	sessions    *session.Manager
	auth        *auth.Service
	assignments *assignment.Service
	gate        *access.Gate
	coord       *access.Coordinator
	nav         *navigator
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                                  - log in (the password is prompted)")
	fmt.Fprintln(cli.out, "  register -name NAME -email EMAIL [-role ROLE]       - create an account (student|teacher)")
	fmt.Fprintln(cli.out, "  logout                                              - forget the current session")
	fmt.Fprintln(cli.out, "  whoami                                              - show the logged in user")
	fmt.Fprintln(cli.out, "Teacher:")
	fmt.Fprintln(cli.out, "  assignments [-status ALL|DRAFT|PUBLISHED|COMPLETED] - list my assignments")
	fmt.Fprintln(cli.out, "  create -title TITLE -due YYYY-MM-DD [-description]  - create a draft assignment")
	fmt.Fprintln(cli.out, "  edit -id ID [-title] [-description] [-due]          - edit a draft assignment")
	fmt.Fprintln(cli.out, "  delete -id ID [-yes]                                - delete a draft assignment")
	fmt.Fprintln(cli.out, "  publish -id ID                                      - publish a draft assignment")
	fmt.Fprintln(cli.out, "  close -id ID                                        - close a published assignment")
	fmt.Fprintln(cli.out, "  submissions -id ID                                  - list the submissions to an assignment")
	fmt.Fprintln(cli.out, "Student:")
	fmt.Fprintln(cli.out, "  published                                           - list published assignments")
	fmt.Fprintln(cli.out, "  submit -id ID -answer ANSWER                        - submit (or resubmit) an answer")
	fmt.Fprintln(cli.out, "  mysubmission -id ID                                 - show my submission")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()
	cmd, cmdArgs := args[1], args[2:]

	var err error
	switch cmd {
	case "login":
		err = cli.login(ctx, cmdArgs)
	case "register":
		err = cli.register(ctx, cmdArgs)
	case "logout":
		err = cli.logout(ctx)
	case "whoami":
		err = cli.whoami(ctx)
	case "assignments":
		err = cli.listMine(ctx, cmdArgs)
	case "create":
		err = cli.create(ctx, cmdArgs)
	case "edit":
		err = cli.edit(ctx, cmdArgs)
	case "delete":
		err = cli.delete(ctx, cmdArgs)
	case "publish":
		err = cli.setStatus(ctx, cmd, assignment.ActionPublish, cmdArgs)
	case "close":
		err = cli.setStatus(ctx, cmd, assignment.ActionClose, cmdArgs)
	case "submissions":
		err = cli.listSubmissions(ctx, cmdArgs)
	case "published":
		err = cli.listPublished(ctx)
	case "submit":
		err = cli.submit(ctx, cmdArgs)
	case "mysubmission":
		err = cli.mySubmission(ctx, cmdArgs)
	default:
		cli.printUsage()
		return errHelp
	}
	return cli.coord.Handle(err)
}

// enter runs the Access Gate for route, moving to the redirect target when denied.
func (cli *commandLine) enter(ctx context.Context, route access.Route) error {
	d := cli.gate.Enter(ctx, route)
	if d.Allowed {
		cli.nav.route = route
		return nil
	}
	cli.nav.Navigate(d.Redirect)
	return errAccessDenied
}

func newFlagSet(cli *commandLine, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func readPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func confirm(out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
