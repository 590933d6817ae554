package scm

import (
	"context"

	git "github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

// GitScm reads repository metadata from a local git checkout.
type GitScm struct {
	repositoryPath string
	context        *ScmContext
}

func NewGitScm(repositoryPath string) *GitScm {
	return &GitScm{
		repositoryPath: repositoryPath,
		context:        CheckGitContext(),
	}
}

// ContributeAttributes never fails, returning the attributes gathered up to
// the first failure.
func (scm *GitScm) ContributeAttributes() []attribute.KeyValue {
	repository, err := scm.openLocalRepository()
	if err != nil {
		return []attribute.KeyValue{}
	}

	// from now on, this is a Git repository
	gitAttributes := []attribute.KeyValue{
		attribute.Key(ScmType).String("git"),
	}
	gitAttributes = append(gitAttributes, scm.context.ContributeAttributes()...)

	origin, err := repository.Remote("origin")
	if err == nil {
		gitAttributes = append(gitAttributes, attribute.Key(ScmRepository).StringSlice(origin.Config().URLs))
	}

	branch, err := repository.Head()
	if err != nil {
		return gitAttributes
	}
	gitAttributes = append(gitAttributes, attribute.Key(ScmBranch).String(branch.Name().Short()))

	if scm.context == nil || scm.context.Commit == "" {
		gitAttributes = append(gitAttributes, attribute.Key(ScmCommit).String(branch.Hash().String()))
	}

	return gitAttributes
}

// Detect implements resource.Detector. A directory that is not a git
// checkout yields an empty resource.
func (scm *GitScm) Detect(ctx context.Context) (*resource.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return resource.NewSchemaless(scm.ContributeAttributes()...), nil
}

func (scm *GitScm) openLocalRepository() (*git.Repository, error) {
	repository, err := git.PlainOpen(scm.repositoryPath)
	if err != nil {
		return nil, errors.Wrapf(err, "not able to open the git repository at %s", scm.repositoryPath)
	}

	return repository, nil
}
