package pipeline

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is matched (errors.Is) by every EmptyCorpusError.
var ErrEmptyCorpus = errors.New("no matching images")

// EmptyCorpusError means a directory holds no image with the wanted extension.
type EmptyCorpusError struct {
	Dir       string
	Extension string
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("%s: no file matching *%s", e.Dir, e.Extension)
}

func (e *EmptyCorpusError) Is(target error) bool { return target == ErrEmptyCorpus }

// Error reports the file a pipeline run stopped on.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("processing %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
