package scm

const (
	ScmBranch        = "scm.branch"
	ScmChangeRequest = "scm.change_request"
	ScmCommit        = "scm.commit"
	ScmProvider      = "scm.provider"
	ScmRepository    = "scm.repository"
	ScmTargetBranch  = "scm.target_branch"
	ScmType          = "scm.type"
)
