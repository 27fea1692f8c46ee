package grafanaimport

import "github.com/jpalmerr/grafana-import/grafana"

// importMessage is recorded as the version message of every save.
const importMessage = "imported from grafana-import."

// policy is the subset of the importer configuration that drives reconcile.
type policy struct {
	overwrite bool
	allowNew  bool
	keepUID   bool
}

// reconcile decides how dash is saved into the folder with id folderID,
// given the same-titled dashboard already on the server (nil if none).
//
// dash is mutated in place. The returned error is one of the rejection
// reasons ([ErrDifferentFolder], [ErrUIDConflict]); no request must be
// sent when it is non-nil.
//
//	existing   folder   uid            policy          action
//	none       -        -              -               create (identity cleared, version 1)
//	found      differs  -              allowNew        copy (identity cleared)
//	found      differs  -              !allowNew       reject
//	found      same     equal/absent   -               update
//	found      same     differs        overwrite       overwrite (existing identity adopted)
//	found      same     differs        !overwrite      reject
func reconcile(dash grafana.Dashboard, folderID int64, existing *grafana.DashboardSummary, p policy) (grafana.SaveRequest, Action, error) {
	req := grafana.SaveRequest{
		Dashboard: dash,
		FolderID:  folderID,
		Message:   importMessage,
	}

	if existing == nil {
		if !p.keepUID || dash.UID() == "" {
			dash.ClearUID()
		}
		dash.ClearID()
		dash.SetVersion(1)
		return req, ActionCreate, nil
	}

	if existing.FolderID != folderID {
		if !p.allowNew {
			return grafana.SaveRequest{}, "", ErrDifferentFolder
		}
		dash.ClearIdentity()
		return req, ActionCopy, nil
	}

	if uid := dash.UID(); uid == "" || uid == existing.UID {
		req.Overwrite = true
		return req, ActionUpdate, nil
	}

	if !p.overwrite {
		return grafana.SaveRequest{}, "", ErrUIDConflict
	}
	if !p.keepUID {
		dash.SetUID(existing.UID)
	}
	if existing.ID != 0 {
		dash.SetID(existing.ID)
	} else {
		dash.ClearID()
	}
	req.Overwrite = true
	return req, ActionOverwrite, nil
}
