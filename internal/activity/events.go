package activity

import (
	"github.com/nfrund/vrcadmin/internal/pubsub"
	"github.com/nfrund/vrcadmin/internal/scan"
)

// Change describes an admin edit to one record.
type Change struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	Label  string `json:"label"`
	Value  string `json:"value,omitempty"`
}

// Attendance is a day-pass attendance mark.
type Attendance struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	ServiceType string `json:"serviceType"`
}

var (
	// RecordAssigned fires after an assign control is saved.
	RecordAssigned = pubsub.NewEvent[Change]("record.assigned")
	// RecordDeleted fires after a confirmed delete.
	RecordDeleted = pubsub.NewEvent[Change]("record.deleted")
	// AttendanceMarked fires when a volunteer marks attendance.
	AttendanceMarked = pubsub.NewEvent[Attendance]("attendance.marked")
	// ScanSettled fires once per scan session.
	ScanSettled = pubsub.NewEvent[scan.Outcome]("scan.settled")
)
