package userimport

import (
	"context"
	"strings"
	"testing"

	"rollcall-hq/rollcall/pkg/tenant"
)

func TestImporter_ValidFile(t *testing.T) {
	store := tenant.NewMemoryStore()
	importer := NewImporter(store)

	csv := `name,email,role,supervisor_email
Dana Boss,dana@acme.example,Supervisor,
Kim Lee,kim@acme.example,Subordinate,dana@acme.example
Ravi Patel,ravi@acme.example,Subordinate,dana@acme.example
`
	report, err := importer.Import(context.Background(), "t1", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if report.Imported != 3 || report.Skipped != 0 || len(report.Errors) != 0 {
		t.Fatalf("report = %+v", report)
	}

	users, err := store.ListUsers(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("stored %d users, want 3", len(users))
	}

	var dana, kim *tenant.User
	for _, u := range users {
		switch u.Email {
		case "dana@acme.example":
			dana = u
		case "kim@acme.example":
			kim = u
		}
	}
	if dana == nil || kim == nil {
		t.Fatal("imported users missing")
	}
	if kim.SupervisorID != dana.ID {
		t.Errorf("supervisor reference not resolved: %q != %q", kim.SupervisorID, dana.ID)
	}
	if kim.Status != tenant.UserInvited {
		t.Errorf("Status = %q, want Invited", kim.Status)
	}
}

func TestImporter_BadRowsDoNotAbort(t *testing.T) {
	store := tenant.NewMemoryStore()
	importer := NewImporter(store)

	csv := `name,email,role,supervisor_email
Good One,good@acme.example,Supervisor,
,noname@acme.example,Subordinate,
Bad Email,not-an-email,Subordinate,
Bad Role,role@acme.example,Manager,
Ghost Sup,ghost@acme.example,Subordinate,absent@acme.example
Good Two,two@acme.example,Subordinate,good@acme.example
`
	report, err := importer.Import(context.Background(), "t1", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}

	if report.Imported != 2 {
		t.Errorf("Imported = %d, want 2", report.Imported)
	}
	if report.Skipped != 4 || len(report.Errors) != 4 {
		t.Errorf("Skipped = %d, Errors = %v", report.Skipped, report.Errors)
	}

	// Row numbers count the header line.
	wantRows := []int{3, 4, 5, 6}
	for i, re := range report.Errors {
		if re.Row != wantRows[i] {
			t.Errorf("Errors[%d].Row = %d, want %d", i, re.Row, wantRows[i])
		}
	}

	users, _ := store.ListUsers(context.Background(), "t1")
	if len(users) != 2 {
		t.Errorf("stored %d users, want only the valid ones", len(users))
	}
}

func TestImporter_DuplicateEmails(t *testing.T) {
	store := tenant.NewMemoryStore()
	importer := NewImporter(store)

	// Pre-existing directory entry.
	if err := store.PutUser(context.Background(), &tenant.User{
		ID: "u-existing", TenantID: "t1", Name: "Old", Email: "kim@acme.example",
		Role: tenant.RoleAdmin, Status: tenant.UserActive,
	}); err != nil {
		t.Fatalf("PutUser() failed: %v", err)
	}

	csv := `name,email,role,supervisor_email
Kim Again,kim@acme.example,Subordinate,
Kim Twice,fresh@acme.example,Subordinate,
Kim Thrice,FRESH@acme.example,Subordinate,
`
	report, err := importer.Import(context.Background(), "t1", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if report.Imported != 1 {
		t.Errorf("Imported = %d, want 1", report.Imported)
	}
	if report.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2 duplicates", report.Skipped)
	}
}

func TestImporter_BadHeaderFailsWholeImport(t *testing.T) {
	importer := NewImporter(tenant.NewMemoryStore())
	csv := `full_name,mail,role
Kim,kim@acme.example,Admin
`
	if _, err := importer.Import(context.Background(), "t1", strings.NewReader(csv)); err == nil {
		t.Fatal("a malformed header must fail the import")
	}
}
