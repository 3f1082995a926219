package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/apps"
	"github.com/trezcool/classdesk/core/access"
)

func (cli *commandLine) listPublished(ctx context.Context) error {
	if err := cli.enter(ctx, access.RouteStudent); err != nil {
		return err
	}
	as, err := cli.assignments.ListPublished(ctx)
	if err != nil {
		return errors.Wrap(err, "Failed to load assignments")
	}
	renderPublished(cli.out, as)
	return nil
}

func (cli *commandLine) submit(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "submit")
	id := fs.String("id", "", "The assignment's id.")
	answer := fs.String("answer", "", "Your answer. Submitting again replaces the previous one.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return apps.NewArgumentError("id", "is required")
	}
	if err := cli.enter(ctx, access.RouteStudent); err != nil {
		return err
	}

	if _, err := cli.assignments.Submit(ctx, *id, *answer); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Assignment submitted successfully!")

	sub, err := cli.assignments.MySubmission(ctx, *id)
	if err != nil {
		return err
	}
	renderSubmission(cli.out, sub)
	return nil
}

func (cli *commandLine) mySubmission(ctx context.Context, args []string) error {
	fs := newFlagSet(cli, "mysubmission")
	id := fs.String("id", "", "The assignment's id.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return apps.NewArgumentError("id", "is required")
	}
	if err := cli.enter(ctx, access.RouteStudent); err != nil {
		return err
	}

	sub, err := cli.assignments.MySubmission(ctx, *id)
	if err != nil {
		return err
	}
	renderSubmission(cli.out, sub)
	return nil
}
