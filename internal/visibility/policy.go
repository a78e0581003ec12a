// Package visibility decides what client-side actors may observe: which files
// are exposed to the client hub and which contact records belong there. It is
// the single sanctioned read path for client-facing file and contact lists.
package visibility

import (
	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/policy"
)

// PermFilesManage gates file visibility toggles.
const PermFilesManage policy.PermissionKey = "files:manage"

// ForbiddenError rejects an unauthorized visibility toggle.
type ForbiddenError struct {
	ActorID string
}

func (e *ForbiddenError) Error() string {
	return "actor " + e.ActorID + " may not manage file visibility"
}

// SetClientVisibility applies an authorized visibility toggle. The returned
// bool reports whether the record actually changed: toggling to the value the
// file already holds is a legal no-op, and callers must not emit a change
// event for it.
func SetClientVisibility(eval *policy.Evaluator, actor domain.Actor, file domain.FileRecord, makeVisible bool) (domain.FileRecord, bool, error) {
	if !eval.Allows(actor, PermFilesManage) {
		return domain.FileRecord{}, false, &ForbiddenError{ActorID: actor.ID}
	}
	if file.VisibleToClient == makeVisible {
		return file, false, nil
	}
	file.VisibleToClient = makeVisible
	return file, true, nil
}

// FilterForClient projects a file list down to the records a client actor may
// see. Client-facing code must never read the raw list; this projection is
// the place redaction of further fields would live.
func FilterForClient(files []domain.FileRecord) []domain.FileRecord {
	visible := make([]domain.FileRecord, 0, len(files))
	for _, file := range files {
		if file.VisibleToClient {
			visible = append(visible, file)
		}
	}
	return visible
}

// ContactVisible reports whether a contact belongs in the work order's hub:
// either the designated primary contact or the holder of an explicit
// additional-contact grant.
func ContactVisible(order domain.WorkOrder, contact domain.Contact, granted map[string]bool) bool {
	if order.PMID != nil && *order.PMID == contact.ID {
		return true
	}
	return granted[contact.ID]
}

// FilterContacts projects a contact list down to the hub-visible records.
func FilterContacts(order domain.WorkOrder, contacts []domain.Contact, granted map[string]bool) []domain.Contact {
	visible := make([]domain.Contact, 0, len(contacts))
	for _, contact := range contacts {
		if ContactVisible(order, contact, granted) {
			visible = append(visible, contact)
		}
	}
	return visible
}
