// Package gitinfo reads repository metadata for the run manifest.
// Everything here is best-effort: a missing or broken .git never fails
// a scan.
package gitinfo

import (
	git "github.com/go-git/go-git/v5"
)

// Info is the git identity of a scanned repository.
type Info struct {
	Remote string
	Commit string
}

// Lookup opens the repository at root and returns the origin remote URL
// and HEAD commit hash. Any failure returns a zero Info.
func Lookup(root string) Info {
	var info Info

	repo, err := git.PlainOpen(root)
	if err != nil {
		return info
	}

	if head, err := repo.Head(); err == nil {
		info.Commit = head.Hash().String()
	}
	if remote, err := repo.Remote("origin"); err == nil {
		urls := remote.Config().URLs
		if len(urls) > 0 {
			info.Remote = urls[0]
		}
	}
	return info
}
