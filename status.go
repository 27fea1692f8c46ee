package grafanaimport

// Action describes how an import was reconciled against the server.
//
// Action is a string type so it logs and serialises readably:
// [ActionCreate], [ActionUpdate], [ActionOverwrite] or [ActionCopy].
type Action string

const (
	// ActionCreate means no dashboard with the same title existed; a new one
	// is created and the server assigns its identity.
	ActionCreate Action = "create"

	// ActionUpdate means a dashboard with the same title and uid exists in
	// the target folder and is replaced in place.
	ActionUpdate Action = "update"

	// ActionOverwrite means a dashboard with the same title but another uid
	// exists in the target folder; the existing identity is adopted and the
	// dashboard is overwritten.
	ActionOverwrite Action = "overwrite"

	// ActionCopy means a dashboard with the same title lives in another
	// folder; a sibling is created in the target folder.
	ActionCopy Action = "copy"
)

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// ImportResult holds the outcome of [Importer.Import].
type ImportResult struct {
	// Action is the reconciliation decision that was sent to the server.
	Action Action

	// Title is the dashboard title.
	Title string

	// Folder is the target folder title.
	Folder string

	// FolderID is the target folder id; 0 for the root folder.
	FolderID int64

	// UID is the uid reported by the server after the save.
	UID string

	// Imported is the server's status normalised to a boolean.
	Imported bool
}
