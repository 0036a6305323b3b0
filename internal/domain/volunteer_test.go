package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignedService_UnmarshalJSON(t *testing.T) {
	t.Run("object form", func(t *testing.T) {
		var v Volunteer
		err := json.Unmarshal([]byte(`{"name":"Rama","assignedService":{"_id":"c1","serviceName":"Prasadam","coordinatorName":"Gauranga","coordinatorNumber":"999"}}`), &v)
		require.NoError(t, err)
		require.NotNil(t, v.AssignedService)
		assert.Equal(t, "c1", v.AssignedService.ID)
		assert.True(t, v.AssignedService.IsAssigned())
		assert.Equal(t, "Prasadam", v.ServiceName())
	})

	t.Run("bare id form", func(t *testing.T) {
		var v Volunteer
		err := json.Unmarshal([]byte(`{"name":"Rama","assignedService":"c2"}`), &v)
		require.NoError(t, err)
		require.NotNil(t, v.AssignedService)
		assert.Equal(t, "c2", v.AssignedService.ID)
		assert.False(t, v.AssignedService.IsAssigned(), "an id without coordinator details is not a usable assignment")
		assert.Equal(t, "General", v.ServiceName())
	})
}

func TestAssignedService_IsAssigned(t *testing.T) {
	var nilService *AssignedService
	assert.False(t, nilService.IsAssigned())

	nan := &AssignedService{ID: "c1", ServiceName: "nan", CoordinatorName: "A", CoordinatorNumber: "1"}
	assert.False(t, nan.IsAssigned())

	missing := &AssignedService{ID: "c1", ServiceName: "Parking", CoordinatorName: "A"}
	assert.False(t, missing.IsAssigned())
}

func TestVolunteer_AttendedOn(t *testing.T) {
	v := Volunteer{Attendance: []AttendanceRecord{
		{Date: "July 4", ServiceType: "General", Attended: true},
		{Date: "July 5", ServiceType: "General", Attended: false},
	}}

	assert.True(t, v.AttendedOn("July 4", "General"))
	assert.False(t, v.AttendedOn("July 5", "General"))
	assert.False(t, v.AttendedOn("July 4", "Parking"))
}

func TestNormalizeWhatsApp(t *testing.T) {
	assert.Equal(t, "919876543210", NormalizeWhatsApp("+91 98765-43210"))
	assert.Equal(t, "", NormalizeWhatsApp("n/a"))
}
