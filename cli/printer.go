package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/krancour/drone-logs/sdk"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/duration"
)

const (
	separator  = "--------------------------"
	timeFormat = "02.01.2006 15:04:05"
)

// printer renders everything the user sees on stdout. It has no influence on
// control flow.
type printer struct {
	out       io.Writer
	apiAddr   string
	output    string
	now       func() time.Time
	highlight func(a ...interface{}) string
}

func newPrinter(out io.Writer, apiAddr string, output string) *printer {
	return &printer{
		out:       out,
		apiAddr:   strings.TrimSuffix(apiAddr, "/"),
		output:    strings.ToLower(output),
		now:       time.Now,
		highlight: color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
}

func (p *printer) Repo(repo sdk.Repository) {
	fmt.Fprintln(p.out, "Repository:")
	table := uitable.New()
	table.AddRow("Owner:", repo.Owner)
	table.AddRow("Name:", repo.Name)
	fmt.Fprintln(p.out, table)
	fmt.Fprintln(p.out, separator)
}

func (p *printer) Build(build sdk.Build) error {
	switch p.output {
	case "yaml":
		yamlBytes, err := yaml.Marshal(build)
		if err != nil {
			return errors.Wrap(err, "error formatting build")
		}
		fmt.Fprint(p.out, string(yamlBytes))
	case "json":
		prettyJSON, err := json.MarshalIndent(build, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting build")
		}
		fmt.Fprintln(p.out, string(prettyJSON))
	default:
		fmt.Fprintln(p.out, "Message:")
		fmt.Fprintln(p.out, strings.TrimRight(build.Message, "\n"))
		fmt.Fprintln(p.out, separator)
		table := uitable.New()
		table.AddRow("Event:", build.Event)
		table.AddRow("Build:", build.Number)
		table.AddRow(
			"Author:",
			fmt.Sprintf("%s <%s>", build.Author, build.AuthorEmail),
		)
		table.AddRow("Commit:", build.LinkURL)
		fmt.Fprintln(p.out, table)
	}
	fmt.Fprintln(p.out, separator)
	return nil
}

// Entry prints a single log entry. Entries without output are skipped. Lines
// starting with "+" (the commands a step runs) are highlighted.
func (p *printer) Entry(entry sdk.LogEntry) {
	if entry.Out == "" {
		return
	}
	out := strings.TrimRight(entry.Out, "\n")
	if strings.HasPrefix(out, "+") {
		out = p.highlight(out)
	}
	fmt.Fprintf(p.out, "%s: %s\n", entry.Proc, out)
}

func (p *printer) JobTiming(job sdk.Job) {
	table := uitable.New()
	table.AddRow("Status:", statusColor(job.Status).Sprint(job.Status))
	table.AddRow("Started:", p.formatTime(job.Started()))
	table.AddRow("Finished:", p.formatTime(job.Finished()))
	fmt.Fprintln(p.out, table)
}

// Link prints the address of the build in the Drone UI, or of the repository
// if no build was located. Nothing is printed if the repository is unknown.
func (p *printer) Link(s session) {
	if s.repo == nil {
		return
	}
	url := fmt.Sprintf("%s/%s/%s", p.apiAddr, s.repo.Owner, s.repo.Name)
	if s.build != nil {
		url = fmt.Sprintf("%s/%d", url, s.build.Number)
	}
	fmt.Fprintln(p.out, separator)
	fmt.Fprintln(p.out, url)
}

func (p *printer) formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf(
		"%s (%s ago)",
		t.Format(timeFormat),
		duration.HumanDuration(p.now().Sub(*t)),
	)
}

func statusColor(status sdk.JobStatus) *color.Color {
	switch status {
	case sdk.JobStatusSuccess:
		return color.New(color.FgGreen)
	case sdk.JobStatusFailure, sdk.JobStatusError:
		return color.New(color.FgRed)
	case sdk.JobStatusKilled:
		return color.New(color.FgYellow)
	case sdk.JobStatusPending, sdk.JobStatusRunning:
		return color.New(color.FgBlue)
	case sdk.JobStatusSkipped:
		return color.New(color.Faint)
	}
	return color.New(color.Reset)
}

func validateOutputFormat(output string) error {
	switch strings.ToLower(output) {
	case "table", "yaml", "json":
		return nil
	}
	return errors.Errorf("unknown output format %q", output)
}
