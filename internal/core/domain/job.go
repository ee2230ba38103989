package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Job is a single file scheduled for processing.
type Job struct {
	// Input is the absolute path of the source file.
	Input string
	// Output is the mirrored path the transform writes to.
	Output string
	// Rel is Input relative to the input root, used for display.
	Rel string
	// Kind is the classification of Input.
	Kind AssetKind
}

// MirrorPath re-roots path from inputRoot to outputRoot, preserving the relative structure.
// It returns the new path together with the relative part.
func MirrorPath(inputRoot, outputRoot, path string) (mirrored, rel string, err error) {
	rel, err = filepath.Rel(inputRoot, path)
	if err != nil {
		return "", "", zerr.With(zerr.Wrap(ErrPathOutsideRoot, err.Error()), "path", path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", zerr.With(zerr.Wrap(ErrPathOutsideRoot, "cannot mirror path"), "path", path)
	}
	return filepath.Join(outputRoot, rel), rel, nil
}

// NewJob classifies path and computes its mirrored output.
func NewJob(inputRoot, outputRoot, path string) (Job, error) {
	out, rel, err := MirrorPath(inputRoot, outputRoot, path)
	if err != nil {
		return Job{}, err
	}
	return Job{
		Input:  path,
		Output: out,
		Rel:    filepath.ToSlash(rel),
		Kind:   ClassifyPath(path),
	}, nil
}

// IsBelow reports whether path lies strictly inside root. Both must be clean
// paths of the same kind (both absolute or both relative).
func IsBelow(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
