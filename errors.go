package grafanaimport

import (
	"errors"
	"fmt"
)

// Reasons an import or removal is refused. They are wrapped in an
// [InputRejectedError]; match them with [errors.Is].
var (
	// ErrDifferentFolder: a dashboard with the same title exists in another
	// folder and sibling copies are not allowed.
	ErrDifferentFolder = errors.New("dashboard already exists in another folder and allow_new is disabled")

	// ErrUIDConflict: a dashboard with the same title exists in the target
	// folder under another uid and overwrite is disabled.
	ErrUIDConflict = errors.New("dashboard already exists in this folder with another uid and overwrite is disabled")

	// ErrFoundInAnotherFolder: remove located a dashboard by title whose
	// folder does not match the configured folder.
	ErrFoundInAnotherFolder = errors.New("dashboard name found but in another folder")

	// ErrMissingTitle: the document has no title to match on.
	ErrMissingTitle = errors.New("dashboard has no title")

	// ErrMissingUID: the located dashboard carries no uid to act on.
	ErrMissingUID = errors.New("dashboard has no uid")
)

// ErrUnhealthy is returned by [New] when the server reports its database
// as anything other than "ok".
var ErrUnhealthy = errors.New("grafana is not healthy")

// DashboardNotFoundError is returned when no dashboard matches a title.
type DashboardNotFoundError struct {
	Dashboard string
	Folder    string
}

func (e *DashboardNotFoundError) Error() string {
	return fmt.Sprintf("dashboard not found: %s (folder: %s)", e.Dashboard, e.Folder)
}

// FolderNotFoundError is returned when a non-root folder does not exist
// and the operation does not create folders.
type FolderNotFoundError struct {
	Folder string
}

func (e *FolderNotFoundError) Error() string {
	return fmt.Sprintf("folder not found: %s", e.Folder)
}

// InputRejectedError is returned when the configured policy forbids the
// requested change. Err is one of the Err* reasons above.
type InputRejectedError struct {
	Dashboard string
	Folder    string
	Err       error
}

func (e *InputRejectedError) Error() string {
	if e.Folder != "" {
		return fmt.Sprintf("dashboard %q rejected (folder %q): %v", e.Dashboard, e.Folder, e.Err)
	}
	return fmt.Sprintf("dashboard %q rejected: %v", e.Dashboard, e.Err)
}

func (e *InputRejectedError) Unwrap() error {
	return e.Err
}

func rejected(dashboard, folder string, reason error) error {
	return &InputRejectedError{Dashboard: dashboard, Folder: folder, Err: reason}
}
