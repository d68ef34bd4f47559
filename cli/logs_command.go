package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/krancour/drone-logs/internal/git"
	"github.com/krancour/drone-logs/internal/logs"
	"github.com/krancour/drone-logs/sdk"
	"github.com/krancour/drone-logs/sdk/api"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// session is what is known about the current invocation so far. Each stage of
// the pipeline returns a new session rather than modifying the one it was
// given.
type session struct {
	repo  *sdk.Repository
	build *sdk.Build
}

func (s session) withRepo(repo sdk.Repository) session {
	s.repo = &repo
	return s
}

func (s session) withBuild(build sdk.Build) session {
	s.build = &build
	return s
}

type pipeline struct {
	resolve  func(ctx context.Context) (sdk.Repository, error)
	builds   api.BuildsClient
	acquirer *logs.Acquirer
	printer  *printer
	author   string
}

func showLogs(c *cli.Context) error {
	remote := c.String(flagRemote)
	if c.Args().Len() > 0 {
		remote = c.Args().Get(0)
	}
	author := c.String(flagAuthor)
	if c.Args().Len() > 1 {
		author = c.Args().Get(1)
	}
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	cfg, err := getConfig(c)
	if err != nil {
		return errors.Wrap(err, "error retrieving configuration")
	}
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "error finding working directory")
	}

	client := getClient(cfg)
	p := &pipeline{
		resolve: func(ctx context.Context) (sdk.Repository, error) {
			return git.Resolve(ctx, dir, remote)
		},
		builds:   client.Builds(),
		acquirer: logs.NewAcquirer(client.Logs()),
		printer:  newPrinter(c.App.Writer, cfg.APIAddress, output),
		author:   author,
	}
	return p.run(c.Context)
}

// run executes every stage in order. The first failure ends the run; the
// link for whatever was located up to that point is still printed.
func (p *pipeline) run(ctx context.Context) error {
	s, err := p.resolveStage(ctx, session{})
	if err != nil {
		return err
	}
	if s, err = p.locateStage(ctx, s); err != nil {
		p.printer.Link(s)
		return err
	}
	job, err := p.acquireStage(ctx, s)
	if err != nil {
		p.printer.Link(s)
		return err
	}
	p.printer.JobTiming(job)
	p.printer.Link(s)
	return nil
}

func (p *pipeline) resolveStage(
	ctx context.Context,
	s session,
) (session, error) {
	repo, err := p.resolve(ctx)
	if err != nil {
		return s, err
	}
	slog.Debug("resolved repository", "repo", repo.FullName())
	p.printer.Repo(repo)
	return s.withRepo(repo), nil
}

func (p *pipeline) locateStage(
	ctx context.Context,
	s session,
) (session, error) {
	var build sdk.Build
	var err error
	if p.author == "" {
		build, err = p.builds.GetLast(ctx, s.repo.Owner, s.repo.Name)
	} else {
		build, err =
			p.builds.GetLastByAuthor(ctx, s.repo.Owner, s.repo.Name, p.author)
	}
	if err != nil {
		return s, explainLocatorError(*s.repo, err)
	}
	if err = p.printer.Build(build); err != nil {
		return s, err
	}
	return s.withBuild(build), nil
}

func (p *pipeline) acquireStage(
	ctx context.Context,
	s session,
) (sdk.Job, error) {
	job, err := s.build.FirstJob()
	if err != nil {
		return job, err
	}
	return job, p.acquirer.Acquire(ctx, *s.repo, s.build.Number, job, p.printer)
}

func explainLocatorError(repo sdk.Repository, err error) error {
	var notFoundErr *sdk.ErrNotFound
	if errors.As(err, &notFoundErr) {
		return errors.Wrapf(
			err,
			"repository %s is not known to the Drone server or has no builds yet",
			repo.FullName(),
		)
	}
	var internalErr *sdk.ErrInternalServer
	if errors.As(err, &internalErr) {
		return errors.Wrapf(
			err,
			"the Drone server failed while locating the latest build of %s",
			repo.FullName(),
		)
	}
	return err
}
