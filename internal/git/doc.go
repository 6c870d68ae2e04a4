// Package git shells out to the git executable.
//
// aiknowsys only needs git to find the project root: commands run against
// the top level of the repository that contains the working directory, and
// fall back to the directory itself outside a repository.
//
//	root := git.ProjectRoot(ctx, cwd)
//	top, err := git.RepoRoot(ctx, dir)
//
// Failures are returned as *output.ExitError with ExitSystemError.
package git
