package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"github.com/trezcool/classdesk/core/assignment"
)

var (
	draftBadge     = color.New(color.FgYellow).SprintFunc()
	publishedBadge = color.New(color.FgGreen).SprintFunc()
	completedBadge = color.New(color.Faint).SprintFunc()
)

func badge(s assignment.Status) string {
	switch s {
	case assignment.StatusDraft:
		return draftBadge(s)
	case assignment.StatusPublished:
		return publishedBadge(s)
	case assignment.StatusCompleted:
		return completedBadge(s)
	default:
		return s.String()
	}
}

var teacherActions = []assignment.Action{
	assignment.ActionEdit,
	assignment.ActionDelete,
	assignment.ActionPublish,
	assignment.ActionClose,
	assignment.ActionViewSubmissions,
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderTeacherAssignments(w io.Writer, as []assignment.Assignment) {
	if len(as) == 0 {
		fmt.Fprintln(w, "No assignments found")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tDUE\tSTATUS\tACTIONS")
	for _, a := range as {
		acts := lo.Filter(teacherActions, func(act assignment.Action, _ int) bool { return a.Allows(act) })
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Title, a.DueDate, badge(a.Status), joinActions(acts))
	}
	_ = tw.Flush()
}

func renderPublished(w io.Writer, as []assignment.Assignment) {
	if len(as) == 0 {
		fmt.Fprintln(w, "No published assignments")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tDUE\tTEACHER")
	for _, a := range as {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Title, a.DueDate, a.Teacher.Name)
	}
	_ = tw.Flush()
}

func renderSubmissions(w io.Writer, subs []assignment.Submission) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "No submissions yet")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "STUDENT\tEMAIL\tSUBMITTED\tANSWER")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Student.Name, s.Student.Email, s.SubmittedDate.Format("2006-01-02 15:04"), oneLine(s.Answer))
	}
	_ = tw.Flush()
}

func renderSubmission(w io.Writer, s *assignment.Submission) {
	if s == nil {
		fmt.Fprintln(w, "Not submitted yet")
		return
	}
	fmt.Fprintf(w, "Submitted on %s\n", s.SubmittedDate.Format("2006-01-02 15:04"))
	fmt.Fprintln(w, s.Answer)
}

func joinActions(acts []assignment.Action) string {
	return strings.Join(lo.Map(acts, func(act assignment.Action, _ int) string { return string(act) }), ",")
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return s
}
