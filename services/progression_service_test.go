package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"residency-management-api/models"
)

func outcomeWith(outcome string, coursework, internship, attendance bool) *models.YearlyOutcome {
	return &models.YearlyOutcome{
		Outcome:        outcome,
		CourseworkDone: coursework,
		InternshipDone: internship,
		AttendanceOK:   attendance,
	}
}

func TestCanAdvanceGates(t *testing.T) {
	tests := []struct {
		name          string
		paymentStatus string
		prior         *models.YearlyOutcome
		want          bool
	}{
		{"all gates hold", models.PaymentValidated, outcomeWith(models.OutcomeAdmitted, true, true, true), true},
		{"payment not validated", models.PaymentSubmitted, outcomeWith(models.OutcomeAdmitted, true, true, true), false},
		{"no prior outcome", models.PaymentValidated, nil, false},
		{"prior year repeated", models.PaymentValidated, outcomeWith(models.OutcomeRepeat, true, true, true), false},
		{"coursework missing", models.PaymentValidated, outcomeWith(models.OutcomeAdmitted, false, true, true), false},
		{"internship missing", models.PaymentValidated, outcomeWith(models.OutcomeAdmitted, true, false, true), false},
		{"attendance missing", models.PaymentValidated, outcomeWith(models.OutcomeAdmitted, true, true, false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAdvance(tt.paymentStatus, tt.prior); got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestSubmitCreatesPayment(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `yearly_payments` WHERE student_id = \\? AND program_id = \\? AND year_number = \\?"),
			columns: []string{"payment_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `yearly_payments`"),
			result:  scriptedResult{lastInsertID: 7, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewProgressionService(db)
	payment := &models.YearlyPayment{StudentID: 5, ProgramID: 2, YearNumber: 3, Amount: 350000}
	if err := svc.Submit(payment); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if payment.Status != models.PaymentSubmitted {
		t.Fatalf("status: got %q want %q", payment.Status, models.PaymentSubmitted)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitRejectsDuplicateYear(t *testing.T) {
	// A submitted or validated payment for the same year blocks a second one;
	// nothing is inserted.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `yearly_payments` WHERE student_id = \\? AND program_id = \\? AND year_number = \\?"),
			columns: []string{"payment_id", "student_id", "program_id", "year_number", "status"},
			rows:    [][]driver.Value{{int64(4), int64(5), int64(2), int64(3), models.PaymentSubmitted}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewProgressionService(db)
	err := svc.Submit(&models.YearlyPayment{StudentID: 5, ProgramID: 2, YearNumber: 3, Amount: 350000})
	if !errors.Is(err, ErrPaymentAlreadyOnFile) {
		t.Fatalf("got %v want ErrPaymentAlreadyOnFile", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitPropagatesLookupError(t *testing.T) {
	// A failing duplicate lookup must surface as an error, not pass as
	// "no duplicate found".
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `yearly_payments` WHERE student_id = \\? AND program_id = \\? AND year_number = \\?"),
			err:     errors.New("connection reset"),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewProgressionService(db)
	err := svc.Submit(&models.YearlyPayment{StudentID: 5, ProgramID: 2, YearNumber: 3, Amount: 350000})
	if err == nil {
		t.Fatalf("expected error from failing lookup")
	}
	if errors.Is(err, ErrPaymentAlreadyOnFile) {
		t.Fatalf("lookup failure misread as duplicate: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestValidatePaymentRevalidationSkipsAdvancement(t *testing.T) {
	// A payment already in the validated state can be re-saved (e.g. staff
	// fixing the validator reference) without rerunning year advancement.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `yearly_payments` WHERE payment_id = \\?"),
			columns: []string{"payment_id", "student_id", "program_id", "year_number", "status"},
			rows:    [][]driver.Value{{int64(4), int64(5), int64(2), int64(3), models.PaymentValidated}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `programs`"),
			columns: []string{"program_id", "is_fee_based"},
			rows:    [][]driver.Value{{int64(2), int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `yearly_payments` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewProgressionService(db)
	payment, err := svc.ValidatePayment(4, 9)
	if err != nil {
		t.Fatalf("ValidatePayment returned error: %v", err)
	}
	if payment.Status != models.PaymentValidated {
		t.Fatalf("status: got %q want %q", payment.Status, models.PaymentValidated)
	}

	// No outcome lookup or class update may follow a re-validation.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestValidatePaymentTransitionChecksGates(t *testing.T) {
	// The first transition into validated looks up the prior year's outcome;
	// a missing or non-admitted outcome blocks advancement silently.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `yearly_payments` WHERE payment_id = \\?"),
			columns: []string{"payment_id", "student_id", "program_id", "year_number", "status"},
			rows:    [][]driver.Value{{int64(4), int64(5), int64(2), int64(3), models.PaymentSubmitted}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `programs`"),
			columns: []string{"program_id", "is_fee_based"},
			rows:    [][]driver.Value{{int64(2), int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `yearly_payments` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `yearly_outcomes`"),
			columns: []string{"outcome_id", "student_id", "program_id", "year_number", "outcome"},
			rows:    [][]driver.Value{{int64(8), int64(5), int64(2), int64(2), models.OutcomeRepeat}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewProgressionService(db)
	payment, err := svc.ValidatePayment(4, 9)
	if err != nil {
		t.Fatalf("ValidatePayment returned error: %v", err)
	}
	if payment.ValidatedBy == nil || *payment.ValidatedBy != 9 {
		t.Fatalf("validated_by: got %v want 9", payment.ValidatedBy)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAdvanceToNextYearCreatesOutcomeAndUpdatesClass(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `yearly_outcomes`"),
			columns: []string{"outcome_id", "student_id", "program_id", "year_number", "outcome", "coursework_done", "internship_done", "attendance_ok"},
			rows: [][]driver.Value{{
				int64(8), int64(5), int64(2), int64(2), models.OutcomeAdmitted, int64(1), int64(1), int64(1),
			}},
		},
		// inside the transaction: target year outcome missing, so create it
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `yearly_outcomes`"),
			columns: []string{"outcome_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `yearly_outcomes`"),
			result:  scriptedResult{lastInsertID: 9, rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `classes`"),
			columns: []string{"class_id", "program_id", "year_number", "label"},
			rows:    [][]driver.Value{{int64(3), int64(2), int64(3), "DES3-2026"}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `users` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewProgressionService(db)
	payment := &models.YearlyPayment{
		PaymentID:  4,
		StudentID:  5,
		ProgramID:  2,
		YearNumber: 3,
		Status:     models.PaymentValidated,
	}

	advanced, err := svc.AdvanceToNextYear(payment)
	if err != nil {
		t.Fatalf("AdvanceToNextYear returned error: %v", err)
	}
	if !advanced {
		t.Fatalf("expected advancement when all gates hold")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
