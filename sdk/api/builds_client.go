package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/krancour/drone-logs/sdk"
	"github.com/krancour/drone-logs/sdk/internal/apimachinery"
)

// BuildsClient is the specialized client for locating builds of a repository.
type BuildsClient interface {
	// List returns summaries of the repository's most recent builds, newest
	// first. Summaries carry no jobs.
	List(ctx context.Context, owner, name string) ([]sdk.Build, error)
	// Get returns a single build, including its jobs.
	Get(ctx context.Context, owner, name string, number int64) (sdk.Build, error)
	// GetLast returns the repository's most recent build, including its jobs.
	GetLast(ctx context.Context, owner, name string) (sdk.Build, error)
	// GetLastByAuthor returns the most recent build of the repository that was
	// authored by author, including its jobs.
	GetLastByAuthor(
		ctx context.Context,
		owner string,
		name string,
		author string,
	) (sdk.Build, error)
}

type buildsClient struct {
	*apimachinery.BaseClient
}

// NewBuildsClient returns a specialized client for locating builds.
func NewBuildsClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) BuildsClient {
	return &buildsClient{
		BaseClient: apimachinery.NewBaseClient(apiAddress, apiToken, allowInsecure),
	}
}

func (b *buildsClient) List(
	ctx context.Context,
	owner string,
	name string,
) ([]sdk.Build, error) {
	builds := []sdk.Build{}
	return builds, b.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("api/repos/%s/%s/builds", owner, name),
			AuthHeaders: b.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &builds,
		},
	)
}

func (b *buildsClient) Get(
	ctx context.Context,
	owner string,
	name string,
	number int64,
) (sdk.Build, error) {
	build := sdk.Build{}
	if err := b.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("api/repos/%s/%s/builds/%d", owner, name, number),
			AuthHeaders: b.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &build,
		},
	); err != nil {
		return build, err
	}
	if len(build.Jobs) == 0 {
		return build, &sdk.ErrNoJobs{Build: build.Number}
	}
	return build, nil
}

func (b *buildsClient) GetLast(
	ctx context.Context,
	owner string,
	name string,
) (sdk.Build, error) {
	return b.getFirstMatch(ctx, owner, name, "")
}

func (b *buildsClient) GetLastByAuthor(
	ctx context.Context,
	owner string,
	name string,
	author string,
) (sdk.Build, error) {
	return b.getFirstMatch(ctx, owner, name, author)
}

// getFirstMatch fetches, in full, the newest listed build. If author is
// non-empty, only builds by that author are considered.
func (b *buildsClient) getFirstMatch(
	ctx context.Context,
	owner string,
	name string,
	author string,
) (sdk.Build, error) {
	builds, err := b.List(ctx, owner, name)
	if err != nil {
		return sdk.Build{}, err
	}
	for _, build := range builds {
		if author == "" || build.Author == author {
			return b.Get(ctx, owner, name, build.Number)
		}
	}
	return sdk.Build{}, &sdk.ErrNoBuilds{
		Repository: sdk.Repository{Owner: owner, Name: name},
		Author:     author,
	}
}
