package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"residency-management-api/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestFinalScore(t *testing.T) {
	tests := []struct {
		name      string
		exam      *float64
		interview *float64
		want      *float64
	}{
		{"both scores", floatPtr(12), floatPtr(16), floatPtr(14)},
		{"exam only", floatPtr(13.5), nil, floatPtr(13.5)},
		{"interview only", nil, floatPtr(11), floatPtr(11)},
		{"neither", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FinalScore(tt.exam, tt.interview)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("got %v want %v", *got, *tt.want)
			}
		})
	}
}

func admissionDecideSteps(decisionRow []driver.Value, examRows [][]driver.Value, postTx []*queryStep) []*queryStep {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `application_files` WHERE application_id = \\?"),
			columns: []string{"application_id", "applicant_id", "program_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(5), int64(2), "verified"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `users`"),
			columns: []string{"user_id", "user_fname", "user_lname", "email"},
			rows:    [][]driver.Value{{int64(5), "Awa", "Diallo", "awa@example.org"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `programs`"),
			columns: []string{"program_id", "program_name", "is_fee_based"},
			rows:    [][]driver.Value{{int64(2), "DES Family Medicine", int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `written_exams`"),
			columns: []string{"exam_id", "application_id", "score", "pass_threshold"},
			rows:    examRows,
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `interviews`"),
			columns: []string{"interview_id", "application_id", "score"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `admission_decisions`"),
			columns: []string{"decision_id", "application_id", "decision", "notified"},
			rows:    [][]driver.Value{decisionRow},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `admission_decisions` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `admission_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}
	return append(steps, postTx...)
}

func TestDecideDoesNotResendOnceNotified(t *testing.T) {
	// Re-saving an already admitted decision must not trigger the email or
	// the account-provisioning step again.
	steps := admissionDecideSteps(
		[]driver.Value{int64(11), int64(7), models.DecisionAdmitted, int64(1)},
		[][]driver.Value{{int64(3), int64(7), 14.0, 10.0}},
		nil,
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	sendCount := 0
	svc := &AdmissionService{db: db, sendMail: func([]string, string, string) error {
		sendCount++
		return nil
	}}

	decision, err := svc.Decide(DecideInput{
		ApplicationID: 7,
		Decision:      models.DecisionAdmitted,
		DecidedBy:     9,
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}

	if sendCount != 0 {
		t.Fatalf("expected no email, got %d sends", sendCount)
	}
	if !decision.Notified {
		t.Fatalf("notified flag must survive the re-save")
	}
	if decision.FinalScore == nil || *decision.FinalScore != 14 {
		t.Fatalf("final score: got %v want 14", decision.FinalScore)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDecideMailFailureLeavesNotifiedUnset(t *testing.T) {
	postTx := []*queryStep{
		// ensureStudentAccount: applicant already has an account
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `users` WHERE user_id = \\?"),
			columns: []string{"user_id", "email", "role_id"},
			rows:    [][]driver.Value{{int64(5), "awa@example.org", int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `users` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}
	steps := admissionDecideSteps(
		[]driver.Value{int64(11), int64(7), models.DecisionPending, int64(0)},
		[][]driver.Value{{int64(3), int64(7), 14.0, 10.0}},
		postTx,
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	sendCount := 0
	svc := &AdmissionService{db: db, sendMail: func([]string, string, string) error {
		sendCount++
		return errors.New("smtp unreachable")
	}}

	decision, err := svc.Decide(DecideInput{
		ApplicationID: 7,
		Decision:      models.DecisionAdmitted,
		DecidedBy:     9,
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}

	if sendCount != 1 {
		t.Fatalf("expected exactly one send attempt, got %d", sendCount)
	}
	if decision.Notified {
		t.Fatalf("notified flag must stay unset after a failed send")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDecideTransitionSendsOnce(t *testing.T) {
	postTx := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `users` WHERE user_id = \\?"),
			columns: []string{"user_id", "email", "role_id"},
			rows:    [][]driver.Value{{int64(5), "awa@example.org", int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `users` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		// notified flag persisted after the successful send
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `admission_decisions` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}
	steps := admissionDecideSteps(
		[]driver.Value{int64(11), int64(7), models.DecisionWaitlisted, int64(0)},
		[][]driver.Value{},
		postTx,
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	sendCount := 0
	svc := &AdmissionService{db: db, sendMail: func(to []string, subject, _ string) error {
		sendCount++
		if len(to) != 1 || to[0] != "awa@example.org" {
			t.Fatalf("unexpected recipients: %v", to)
		}
		return nil
	}}

	decision, err := svc.Decide(DecideInput{
		ApplicationID: 7,
		Decision:      models.DecisionAdmitted,
		DecidedBy:     9,
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}

	if sendCount != 1 {
		t.Fatalf("expected exactly one email, got %d", sendCount)
	}
	if !decision.Notified {
		t.Fatalf("notified flag should be set after a successful send")
	}
	if decision.FinalScore != nil {
		t.Fatalf("no scores recorded, final score should be nil, got %v", *decision.FinalScore)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
