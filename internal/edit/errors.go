package edit

import (
	"errors"
	"fmt"
)

// RejectionCode categorizes why a command could not be applied.
type RejectionCode string

const (
	// RejectCollision indicates the resulting interval would overlap
	// another item on the same track.
	RejectCollision RejectionCode = "REJECT_COLLISION"

	// RejectSplitPoint indicates a split time outside the item's interior
	// (or so close to an edge that a fragment would fall below the
	// minimum duration).
	RejectSplitPoint RejectionCode = "REJECT_SPLIT_POINT"

	// RejectNotFound indicates the referenced track or item does not exist.
	RejectNotFound RejectionCode = "REJECT_NOT_FOUND"

	// RejectBadArgs indicates a geometrically meaningless argument, such
	// as a non-positive playback rate or negative source offset.
	RejectBadArgs RejectionCode = "REJECT_BAD_ARGS"
)

// Rejection is returned by Engine.Apply when a command is refused. The
// model is guaranteed unchanged whenever a Rejection is returned.
type Rejection struct {
	Code    RejectionCode
	Message string
	TrackID string
	ItemID  string
}

// Error implements the error interface.
func (e *Rejection) Error() string {
	switch {
	case e.TrackID != "" && e.ItemID != "":
		return fmt.Sprintf("%s: %s (track=%s, item=%s)", e.Code, e.Message, e.TrackID, e.ItemID)
	case e.TrackID != "":
		return fmt.Sprintf("%s: %s (track=%s)", e.Code, e.Message, e.TrackID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsRejection reports whether err is (or wraps) a command rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// CodeOf extracts the rejection code from an error, or "" if the error is
// not a rejection.
func CodeOf(err error) RejectionCode {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Code
	}
	return ""
}

func rejectCollision(trackID, itemID, msg string) *Rejection {
	return &Rejection{Code: RejectCollision, Message: msg, TrackID: trackID, ItemID: itemID}
}

func rejectSplitPoint(trackID, itemID, msg string) *Rejection {
	return &Rejection{Code: RejectSplitPoint, Message: msg, TrackID: trackID, ItemID: itemID}
}

func rejectNotFound(trackID, itemID, msg string) *Rejection {
	return &Rejection{Code: RejectNotFound, Message: msg, TrackID: trackID, ItemID: itemID}
}

func rejectBadArgs(trackID, itemID, msg string) *Rejection {
	return &Rejection{Code: RejectBadArgs, Message: msg, TrackID: trackID, ItemID: itemID}
}
