package sdk

import "fmt"

// ErrAuthentication represents an error wherein the Drone server rejected the
// token it was presented with.
type ErrAuthentication struct {
	Reason string
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("Could not authenticate the request: %s", e.Reason)
}

// ErrAuthorization represents an error wherein the authenticated principal may
// not access the requested resource.
type ErrAuthorization struct{}

func (e *ErrAuthorization) Error() string {
	return "The request is not authorized."
}

type ErrBadRequest struct {
	Reason string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("Bad request: %s", e.Reason)
}

// ErrNotFound represents an error wherein a requested resource (a repository,
// a build, a log, or a log channel) does not exist.
type ErrNotFound struct {
	Path   string
	Reason string
}

func (e *ErrNotFound) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s not found.", e.Path)
	}
	return fmt.Sprintf("%s not found: %s", e.Path, e.Reason)
}

type ErrInternalServer struct {
	Reason string
}

func (e *ErrInternalServer) Error() string {
	if e.Reason == "" {
		return "An internal server error occurred."
	}
	return fmt.Sprintf("An internal server error occurred: %s", e.Reason)
}

// ErrNoBuilds represents an error wherein a repository has no builds, or none
// by the requested author.
type ErrNoBuilds struct {
	Repository Repository
	Author     string
}

func (e *ErrNoBuilds) Error() string {
	if e.Author == "" {
		return fmt.Sprintf("No builds found for %s.", e.Repository.FullName())
	}
	return fmt.Sprintf(
		"No builds by %q found for %s.",
		e.Author,
		e.Repository.FullName(),
	)
}

// ErrNoJobs represents an error wherein a build carries no jobs.
type ErrNoJobs struct {
	Build int64
}

func (e *ErrNoJobs) Error() string {
	return fmt.Sprintf("Build %d has no jobs.", e.Build)
}

// ErrProtocolViolation represents an error wherein a message received over a
// log stream could not be decoded.
type ErrProtocolViolation struct {
	Message string
	Err     error
}

func (e *ErrProtocolViolation) Error() string {
	return fmt.Sprintf("malformed log stream message %q: %s", e.Message, e.Err)
}

func (e *ErrProtocolViolation) Unwrap() error {
	return e.Err
}
