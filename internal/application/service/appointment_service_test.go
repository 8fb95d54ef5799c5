package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
)

type apptFixture struct {
	svc      *AppointmentService
	appts    *fakeApptRepo
	patients *fakePatientRepo
	users    *fakeUserRepo

	centerID uuid.UUID
	patient  *entity.Patient
	doctor   *entity.User
	ctx      context.Context
}

func newApptFixture(t *testing.T) *apptFixture {
	t.Helper()
	f := &apptFixture{
		appts:    newFakeApptRepo(),
		patients: newFakePatientRepo(),
		users:    newFakeUserRepo(),
		centerID: uuid.New(),
	}
	f.svc = NewAppointmentService(f.appts, f.patients, f.users)
	f.patient = f.patients.put(&entity.Patient{CenterID: f.centerID, MRN: "MRN-001", FirstName: "Asha"})
	f.doctor = f.users.put(&entity.User{FirstName: "Dr", LastName: "Iyer"})
	f.ctx = centerCtx(f.centerID)
	return f
}

func TestBookAppointment(t *testing.T) {
	f := newApptFixture(t)
	slot := time.Now().Add(48 * time.Hour)

	appt, err := f.svc.BookAppointment(f.ctx, &BookAppointmentInput{
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: slot,
	})
	require.NoError(t, err)

	assert.Equal(t, enum.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, f.centerID, appt.CenterID)
	assert.Equal(t, 15, appt.DurationMin, "default duration")
	assert.Equal(t, "consultation", appt.ConsultationType, "default type")
	assert.True(t, appt.ScheduledAt.Equal(slot))
}

func TestBookAppointment_DoctorConflict(t *testing.T) {
	f := newApptFixture(t)
	slot := time.Now().Add(48 * time.Hour)

	f.appts.put(&entity.Appointment{
		CenterID:    f.centerID,
		PatientID:   uuid.New(),
		DoctorID:    f.doctor.ID,
		ScheduledAt: slot,
		DurationMin: 30,
		Status:      enum.AppointmentStatusScheduled,
	})

	// Starts inside the existing 30 minute slot
	_, err := f.svc.BookAppointment(f.ctx, &BookAppointmentInput{
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: slot.Add(20 * time.Minute),
		DurationMin: 15,
	})
	assert.Error(t, err)

	// Starts exactly when the existing one ends
	appt, err := f.svc.BookAppointment(f.ctx, &BookAppointmentInput{
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: slot.Add(30 * time.Minute),
		DurationMin: 15,
	})
	require.NoError(t, err)
	assert.NotNil(t, appt)
}

func TestBookAppointment_CancelledSlotIsFree(t *testing.T) {
	f := newApptFixture(t)
	slot := time.Now().Add(48 * time.Hour)

	f.appts.put(&entity.Appointment{
		CenterID:    f.centerID,
		PatientID:   uuid.New(),
		DoctorID:    f.doctor.ID,
		ScheduledAt: slot,
		DurationMin: 30,
		Status:      enum.AppointmentStatusCancelled,
	})

	_, err := f.svc.BookAppointment(f.ctx, &BookAppointmentInput{
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: slot,
	})
	assert.NoError(t, err)
}

func TestBookAppointment_Guards(t *testing.T) {
	f := newApptFixture(t)
	future := time.Now().Add(48 * time.Hour)

	_, err := f.svc.BookAppointment(f.ctx, &BookAppointmentInput{
		PatientID: uuid.New(), DoctorID: f.doctor.ID, ScheduledAt: future,
	})
	assert.Error(t, err, "unknown patient")

	_, err = f.svc.BookAppointment(f.ctx, &BookAppointmentInput{
		PatientID: f.patient.ID, DoctorID: uuid.New(), ScheduledAt: future,
	})
	assert.Error(t, err, "unknown doctor")

	_, err = f.svc.BookAppointment(f.ctx, &BookAppointmentInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID, ScheduledAt: time.Now().Add(-time.Hour),
	})
	assert.Error(t, err, "past slot")

	_, err = f.svc.BookAppointment(context.Background(), &BookAppointmentInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID, ScheduledAt: future,
	})
	assert.Error(t, err, "no center context")
}

func TestRescheduleAppointment(t *testing.T) {
	f := newApptFixture(t)
	appt := f.appts.put(&entity.Appointment{
		CenterID:    f.centerID,
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		DurationMin: 15,
		Status:      enum.AppointmentStatusScheduled,
	})

	newSlot := time.Now().Add(72 * time.Hour)
	moved, err := f.svc.RescheduleAppointment(f.ctx, appt.ID, newSlot, 30)
	require.NoError(t, err)
	assert.True(t, moved.ScheduledAt.Equal(newSlot))
	assert.Equal(t, 30, moved.DurationMin)
}

func TestRescheduleAppointment_Guards(t *testing.T) {
	f := newApptFixture(t)
	future := time.Now().Add(72 * time.Hour)
	originalAt := time.Now().Add(24 * time.Hour)

	appt := f.appts.put(&entity.Appointment{
		CenterID:    f.centerID,
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: originalAt,
		DurationMin: 15,
		Status:      enum.AppointmentStatusScheduled,
	})

	_, err := f.svc.RescheduleAppointment(f.ctx, appt.ID, time.Now().Add(-time.Hour), 0)
	assert.Error(t, err, "into the past")

	_, err = f.svc.RescheduleAppointment(f.ctx, uuid.New(), future, 0)
	assert.Error(t, err, "unknown appointment")

	appt.Status = enum.AppointmentStatusCompleted
	_, err = f.svc.RescheduleAppointment(f.ctx, appt.ID, future, 0)
	assert.Error(t, err, "completed visit")

	// Another booking occupies the target slot
	other := f.appts.put(&entity.Appointment{
		CenterID:    f.centerID,
		PatientID:   uuid.New(),
		DoctorID:    f.doctor.ID,
		ScheduledAt: future,
		DurationMin: 30,
		Status:      enum.AppointmentStatusScheduled,
	})
	appt.Status = enum.AppointmentStatusScheduled
	_, err = f.svc.RescheduleAppointment(f.ctx, appt.ID, future.Add(10*time.Minute), 15)
	assert.Error(t, err, "conflicts with %s", other.ID)

	// The rejected move must not leak into the stored appointment
	assert.True(t, appt.ScheduledAt.Equal(originalAt))
	assert.Equal(t, 15, appt.DurationMin)

	// Rescheduling within its own slot is never a self-conflict
	_, err = f.svc.RescheduleAppointment(f.ctx, other.ID, future.Add(5*time.Minute), 30)
	assert.NoError(t, err)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	f := newApptFixture(t)
	appt := f.appts.put(&entity.Appointment{
		CenterID:    f.centerID,
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      enum.AppointmentStatusScheduled,
	})

	require.NoError(t, f.svc.UpdateAppointmentStatus(f.ctx, appt.ID, enum.AppointmentStatusCheckedIn))
	stored, _ := f.appts.GetByID(f.ctx, appt.ID)
	assert.Equal(t, enum.AppointmentStatusCheckedIn, stored.Status)

	assert.Error(t, f.svc.UpdateAppointmentStatus(f.ctx, appt.ID, enum.AppointmentStatus("bogus")))
	assert.Error(t, f.svc.UpdateAppointmentStatus(f.ctx, uuid.New(), enum.AppointmentStatusCompleted))
}

func TestCancelAppointment(t *testing.T) {
	f := newApptFixture(t)
	reason := "patient travelling"
	appt := f.appts.put(&entity.Appointment{
		CenterID:    f.centerID,
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      enum.AppointmentStatusScheduled,
	})

	require.NoError(t, f.svc.CancelAppointment(f.ctx, appt.ID, &reason))
	stored, _ := f.appts.GetByID(f.ctx, appt.ID)
	assert.Equal(t, enum.AppointmentStatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)
	require.NotNil(t, stored.CancelReason)
	assert.Equal(t, reason, *stored.CancelReason)

	assert.Error(t, f.svc.CancelAppointment(f.ctx, appt.ID, nil), "already cancelled")
}
