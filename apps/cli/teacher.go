package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/classdesk/apps"
	"github.com/trezcool/classdesk/core/access"
	"github.com/trezcool/classdesk/core/assignment"
)

func (cli *commandLine) listMine(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "assignments")
	filter := fs.String("status", "ALL", "ALL, DRAFT, PUBLISHED or COMPLETED.")
	if err := parse(fs, args); err != nil {
		return err
	}
	status, err := assignment.ParseFilter(*filter)
	if err != nil {
		return apps.NewArgumentError("status", "must be one of ALL, DRAFT, PUBLISHED or COMPLETED")
	}
	if err := cli.enter(ctx, access.RouteTeacher); err != nil {
		return err
	}

	as, err := cli.assignments.ListMine(ctx)
	if err != nil {
		return errors.Wrap(err, "Failed to load assignments")
	}
	renderTeacherAssignments(cli.out, assignment.FilterByStatus(as, status))
	return nil
}

func (cli *commandLine) create(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "create")
	title := fs.String("title", "", "The assignment's title.")
	desc := fs.String("description", "", "What students have to do.")
	due := fs.String("due", "", "The due date, as YYYY-MM-DD.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := cli.enter(ctx, access.RouteTeacher); err != nil {
		return err
	}

	f := assignment.Fields{Title: *title, Description: *desc}
	if *due != "" {
		d, err := parseDue(*due)
		if err != nil {
			return err
		}
		f.DueDate = d
	}
	a, err := cli.assignments.Create(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Assignment created successfully!")
	renderTeacherAssignments(cli.out, []assignment.Assignment{a})
	return nil
}

func (cli *commandLine) edit(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "edit")
	id := fs.String("id", "", "The assignment's id.")
	title := fs.String("title", "", "The new title.")
	desc := fs.String("description", "", "The new description.")
	due := fs.String("due", "", "The new due date, as YYYY-MM-DD.")
	if err := parse(fs, args); err != nil {
		return err
	}
	a, err := cli.findMine(ctx, *id, assignment.ActionEdit)
	if err != nil {
		return err
	}

	f := assignment.FieldsOf(a)
	set := setFlags(fs)
	if set["title"] {
		f.Title = *title
	}
	if set["description"] {
		f.Description = *desc
	}
	if set["due"] {
		if f.DueDate, err = parseDue(*due); err != nil {
			return err
		}
	}
	if a, err = cli.assignments.Update(ctx, a.ID, f); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Assignment updated successfully!")
	renderTeacherAssignments(cli.out, []assignment.Assignment{a})
	return nil
}

func (cli *commandLine) delete(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "delete")
	id := fs.String("id", "", "The assignment's id.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	if err := parse(fs, args); err != nil {
		return err
	}
	a, err := cli.findMine(ctx, *id, assignment.ActionDelete)
	if err != nil {
		return err
	}
	if !*yes {
		ok, err := confirmFunc(cli.out, fmt.Sprintf("Delete %q?", a.Title))
		if err != nil {
			return err
		}
		if !ok {
			return errCancelled
		}
	}

	if err := cli.assignments.Delete(ctx, a.ID); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Assignment deleted successfully")
	return nil
}

func (cli *commandLine) setStatus(ctx context.Context, name string, act assignment.Action, args []string) error {
	fs := newFlagSet(cli, name)
	id := fs.String("id", "", "The assignment's id.")
	if err := parse(fs, args); err != nil {
		return err
	}
	a, err := cli.findMine(ctx, *id, act)
	if err != nil {
		return err
	}

	if act == assignment.ActionPublish {
		a, err = cli.assignments.Publish(ctx, a)
	} else {
		a, err = cli.assignments.Complete(ctx, a)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Assignment status updated to %s\n", a.Status)
	return nil
}

func (cli *commandLine) listSubmissions(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "submissions")
	id := fs.String("id", "", "The assignment's id.")
	if err := parse(fs, args); err != nil {
		return err
	}
	a, err := cli.findMine(ctx, *id, assignment.ActionViewSubmissions)
	if err != nil {
		return err
	}

	subs, err := cli.assignments.ListSubmissions(ctx, a.ID)
	if err != nil {
		return errors.Wrap(err, "Failed to fetch submissions")
	}
	fmt.Fprintf(cli.out, "Submissions for %q\n", a.Title)
	renderSubmissions(cli.out, subs)
	return nil
}

// findMine looks id up among the teacher's assignments and checks act is offered for it.
func (cli *commandLine) findMine(ctx context.Context, id string, act assignment.Action) (assignment.Assignment, error) {
	if id == "" {
		return assignment.Assignment{}, apps.NewArgumentError("id", "is required")
	}
	if err := cli.enter(ctx, access.RouteTeacher); err != nil {
		return assignment.Assignment{}, err
	}

	as, err := cli.assignments.ListMine(ctx)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "Failed to load assignments")
	}
	a, ok := lo.Find(as, func(a assignment.Assignment) bool { return a.ID == id })
	if !ok {
		return assignment.Assignment{}, apps.NewArgumentError("id", "no such assignment")
	}
	if !a.Allows(act) {
		return assignment.Assignment{}, fmt.Errorf("cannot %s a %s assignment", verb(act), strings.ToLower(a.Status.String()))
	}
	return a, nil
}

func verb(act assignment.Action) string {
	if act == assignment.ActionViewSubmissions {
		return "view the submissions of"
	}
	return string(act)
}

func parseDue(s string) (assignment.Date, error) {
	d, err := assignment.ParseDate(s)
	if err != nil {
		return assignment.Date{}, apps.NewArgumentError("due", "must be a date as YYYY-MM-DD")
	}
	return d, nil
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
