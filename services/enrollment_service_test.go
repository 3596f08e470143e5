package services

import (
	"database/sql/driver"
	"regexp"
	"testing"

	"residency-management-api/models"
)

func TestComputeEnrollmentStatusFeeExempt(t *testing.T) {
	// Fee-exempt programs must complete on both validations no matter what
	// the payment fields say.
	for _, paid := range []bool{true, false} {
		got := ComputeEnrollmentStatus(true, true, paid, false)
		if got != models.EnrollmentComplete {
			t.Fatalf("fee-exempt with both validations (paid=%v): got %q want %q", paid, got, models.EnrollmentComplete)
		}
	}
}

func TestComputeEnrollmentStatusFeeBasedNeverCompletesUnpaid(t *testing.T) {
	for _, coord := range []bool{true, false} {
		for _, dean := range []bool{true, false} {
			got := ComputeEnrollmentStatus(coord, dean, false, true)
			if got == models.EnrollmentComplete {
				t.Fatalf("fee-based unpaid (coord=%v dean=%v) must not be complete", coord, dean)
			}
		}
	}
}

func TestComputeEnrollmentStatusTable(t *testing.T) {
	tests := []struct {
		name                    string
		coord, dean, paid, fees bool
		want                    string
	}{
		{"all pending", false, false, false, true, models.EnrollmentPending},
		{"coordination only", true, false, false, true, models.EnrollmentCoordinationApproved},
		{"dean only", false, true, false, true, models.EnrollmentDeanApproved},
		{"both awaiting payment", true, true, false, true, models.EnrollmentAwaitingPayment},
		{"both paid", true, true, true, true, models.EnrollmentComplete},
		{"payment before validations", false, false, true, true, models.EnrollmentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEnrollmentStatus(tt.coord, tt.dean, tt.paid, tt.fees)
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestSaveByIDDerivesStatusFromOwnProgram(t *testing.T) {
	// The fee category must come from the program the enrollment points at,
	// so the program lookup must join on the enrollment's program_id rather
	// than its own primary key. With a fee-based program and no validated
	// payment, validating both administrative steps stops at awaiting
	// payment.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `enrollments` WHERE enrollment_id = \\?"),
			columns: []string{"enrollment_id", "application_id", "student_id", "program_id", "coordination_validated", "dean_validated", "payment_validated", "status"},
			rows: [][]driver.Value{{
				int64(9), int64(3), int64(5), int64(2), int64(0), int64(1), int64(0), models.EnrollmentDeanApproved,
			}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `programs` WHERE `programs`\\.`program_id` = \\?"),
			args:    []driver.Value{int64(2)},
			columns: []string{"program_id", "is_fee_based"},
			rows:    [][]driver.Value{{int64(2), int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `enrollments` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewEnrollmentService(db)
	enrollment, err := svc.SaveByID(9, func(e *models.Enrollment) {
		e.CoordinationValidated = true
	})
	if err != nil {
		t.Fatalf("SaveByID returned error: %v", err)
	}
	if enrollment.Status != models.EnrollmentAwaitingPayment {
		t.Fatalf("status: got %q want %q", enrollment.Status, models.EnrollmentAwaitingPayment)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestComputeEnrollmentStatusPaymentArrivalCompletes(t *testing.T) {
	// A fee-based enrollment stuck awaiting payment flips to complete once
	// the payment is validated.
	before := ComputeEnrollmentStatus(true, true, false, true)
	if before != models.EnrollmentAwaitingPayment {
		t.Fatalf("before payment: got %q want %q", before, models.EnrollmentAwaitingPayment)
	}
	after := ComputeEnrollmentStatus(true, true, true, true)
	if after != models.EnrollmentComplete {
		t.Fatalf("after payment: got %q want %q", after, models.EnrollmentComplete)
	}
}
