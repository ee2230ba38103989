package ports

import "iter"

// Walker enumerates candidate input files.
//
//go:generate mockgen -source=walker.go -destination=mocks/mock_walker.go -package=mocks
type Walker interface {
	// WalkFiles yields every regular file below root. Directories matching
	// ignores and the directories in exclude are not descended into.
	WalkFiles(root string, ignores []string, exclude ...string) iter.Seq[string]
}
