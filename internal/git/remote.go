// Package git resolves the Drone repository that a local git working copy
// belongs to.
package git

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/krancour/drone-logs/sdk"
)

// ErrResolution represents an error wherein the repository could not be
// determined from the local working copy.
type ErrResolution struct {
	Reason string
	Err    error
}

func (e *ErrResolution) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Could not resolve repository: %s", e.Reason)
	}
	return fmt.Sprintf("Could not resolve repository: %s: %s", e.Reason, e.Err)
}

func (e *ErrResolution) Unwrap() error {
	return e.Err
}

// RemoteURL returns the URL of the named remote of the git working copy at
// dir. If remote is empty, git chooses the remote (the current branch's
// upstream, else "origin").
func RemoteURL(ctx context.Context, dir string, remote string) (string, error) {
	args := []string{"ls-remote", "--get-url"}
	if remote != "" {
		args = append(args, remote)
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &ErrResolution{
			Reason: fmt.Sprintf(
				"git %s failed: %s",
				strings.Join(args, " "),
				strings.TrimSpace(stderr.String()),
			),
			Err: err,
		}
	}
	remoteURL := strings.TrimSpace(stdout.String())
	if remoteURL == "" {
		return "", &ErrResolution{Reason: "git reported an empty remote URL"}
	}
	return remoteURL, nil
}

// ParseRepository extracts the repository owner and name from a remote URL.
// The SSH form host:owner/name.git is expected; URLs with a scheme, like
// https://host/owner/name.git, are understood as well.
func ParseRepository(remoteURL string) (sdk.Repository, error) {
	var path string
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return sdk.Repository{}, &ErrResolution{
				Reason: fmt.Sprintf("unparsable remote URL %q", remoteURL),
				Err:    err,
			}
		}
		path = u.Path
	} else {
		parts := strings.SplitN(remoteURL, ":", 2)
		if len(parts) != 2 {
			return sdk.Repository{}, &ErrResolution{
				Reason: fmt.Sprintf("unparsable remote URL %q", remoteURL),
			}
		}
		path = parts[1]
	}
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return sdk.Repository{}, &ErrResolution{
			Reason: fmt.Sprintf("no owner/name in remote URL %q", remoteURL),
		}
	}
	return sdk.Repository{Owner: segments[0], Name: segments[1]}, nil
}

// Resolve returns the repository that the named remote of the git working copy
// at dir points to.
func Resolve(
	ctx context.Context,
	dir string,
	remote string,
) (sdk.Repository, error) {
	remoteURL, err := RemoteURL(ctx, dir, remote)
	if err != nil {
		return sdk.Repository{}, err
	}
	return ParseRepository(remoteURL)
}
