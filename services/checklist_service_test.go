package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
)

func checklistSteps(uploadRows [][]driver.Value) []*queryStep {
	return []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `application_files` WHERE application_id = \\?"),
			columns: []string{"application_id", "applicant_id", "program_id"},
			rows:    [][]driver.Value{{int64(7), int64(5), int64(2)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `required_documents`"),
			columns: []string{"required_document_id", "program_id", "code", "mandatory"},
			rows: [][]driver.Value{
				{int64(1), int64(2), "DIPLOMA", int64(1)},
				{int64(2), int64(2), "ID_CARD", int64(1)},
				{int64(3), int64(2), "TRANSCRIPT", int64(1)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `uploaded_documents`"),
			columns: []string{"uploaded_document_id", "application_id", "required_document_id", "status"},
			rows:    uploadRows,
		},
	}
}

func TestChecklistIncompleteListsMissingCodes(t *testing.T) {
	steps := checklistSteps([][]driver.Value{
		{int64(10), int64(7), int64(1), "validated"},
	})

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewChecklistService(db)
	result, err := svc.Evaluate(7)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if result.Complete {
		t.Fatalf("checklist should be incomplete")
	}
	if len(result.MissingCodes) != 2 || result.MissingCodes[0] != "ID_CARD" || result.MissingCodes[1] != "TRANSCRIPT" {
		t.Fatalf("missing codes: got %v", result.MissingCodes)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestChecklistCompleteWhenAllMandatoryValidated(t *testing.T) {
	steps := checklistSteps([][]driver.Value{
		{int64(10), int64(7), int64(1), "validated"},
		{int64(11), int64(7), int64(2), "validated"},
		{int64(12), int64(7), int64(3), "validated"},
	})

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewChecklistService(db)
	result, err := svc.Evaluate(7)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if !result.Complete {
		t.Fatalf("checklist should be complete, missing %v", result.MissingCodes)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
