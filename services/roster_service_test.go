package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"residency-management-api/models"
)

func TestIdentityNormalizeFoldsAccentsAndCase(t *testing.T) {
	a := Identity{StudentNumber: " M-2019/114 ", FirstName: "Aïcha", LastName: "TRAORÉ"}.Normalize()
	b := Identity{StudentNumber: "m-2019/114", FirstName: "aicha", LastName: "Traore"}.Normalize()
	if a != b {
		t.Fatalf("folded identities differ: %+v vs %+v", a, b)
	}
}

func TestRosterEntryGraceWindow(t *testing.T) {
	closeDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entry := models.RosterEntry{RosterCloseDate: closeDate, Active: true}

	if !entry.WithinGracePeriod(closeDate.AddDate(0, 0, 89)) {
		t.Fatalf("grant must be honored before close+90d")
	}
	if !entry.WithinGracePeriod(closeDate.AddDate(0, 0, 90)) {
		t.Fatalf("grant must be honored on the last grace day")
	}
	if entry.WithinGracePeriod(closeDate.AddDate(0, 0, 91)) {
		t.Fatalf("grant must be denied after close+90d")
	}
}

func rosterMatchSteps(closeDate time.Time) []*queryStep {
	return []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `roster_entries` WHERE student_number = \\?"),
			columns: []string{"entry_id", "student_number", "normalized_first", "normalized_last", "roster_close_date", "active"},
			rows: [][]driver.Value{{
				int64(2), "m-2019/114", "aicha", "traore", closeDate, int64(1),
			}},
		},
	}
}

func TestMatchHonorsWindowNotActiveFlag(t *testing.T) {
	closeDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Before the window closes, an accent/case variant of the identity
	// matches.
	db, state, cleanup := newScriptedGormDB(t, rosterMatchSteps(closeDate))
	svc := NewRosterService(db)
	entry, err := svc.Match(Identity{StudentNumber: "M-2019/114", FirstName: "AÏCHA", LastName: "Traoré"},
		closeDate.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if entry == nil {
		t.Fatalf("expected roster match inside the grace window")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
	cleanup()

	// 91 days after close the same entry is denied even though active is
	// still set.
	db, state, cleanup = newScriptedGormDB(t, rosterMatchSteps(closeDate))
	defer cleanup()
	svc = NewRosterService(db)
	entry, err = svc.Match(Identity{StudentNumber: "M-2019/114", FirstName: "Aïcha", LastName: "TRAORE"},
		closeDate.AddDate(0, 0, 91))
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no match after the grace window")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMatchRejectsPartialIdentity(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewRosterService(db)
	entry, err := svc.Match(Identity{StudentNumber: "M-2019/114", FirstName: "", LastName: "Traoré"}, time.Now())
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if entry != nil {
		t.Fatalf("partial identities must never match")
	}
}

func TestDetectRosterHeader(t *testing.T) {
	rows := [][]string{
		{"Faculté de Médecine"},
		{"", "Liste Med6 2026"},
		{"Matricule", "Prénom", "Nom"},
		{"M-2019/114", "Aïcha", "Traoré"},
	}

	idx, headers := detectRosterHeader(rows)
	if idx != 2 {
		t.Fatalf("header row: got %d want 2", idx)
	}
	if headers["matricule"] != 0 || headers["prénom"] != 1 || headers["nom"] != 2 {
		t.Fatalf("unexpected header map: %v", headers)
	}
}

func TestDetectRosterHeaderMissingColumn(t *testing.T) {
	rows := [][]string{
		{"Matricule", "Nom"},
		{"M-2019/114", "Traoré"},
	}

	if idx, headers := detectRosterHeader(rows); headers != nil {
		t.Fatalf("expected no header detection, got row %d", idx)
	}
}
