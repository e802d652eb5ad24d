package tests

import (
	"net/http"
	"testing"
)

func tryoutBody(email string) map[string]string {
	return map[string]string{
		"athleteFirstName": "  Avery ",
		"athleteLastName":  "Johnson",
		"DoB":              "2015-06-12",
		"experienceYears":  "3",
		"hoursPerWeek":     "12",
		"contactName":      "Pat Johnson",
		"contactEmail":     email,
		"contactPhone":     "555-0142",
	}
}

func TestTryoutSubmit(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	tryout, _, err := c.submitTryout(tryoutBody("pat@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	if tryout.AthleteFirstName != "Avery" {
		t.Fatalf("string fields should be trimmed: %q", tryout.AthleteFirstName)
	}
	if tryout.ExperienceYears != 3 || tryout.HoursPerWeek != 12 {
		t.Fatalf("numeric fields not parsed: %+v", tryout)
	}
	if tryout.DoB.Year() != 2015 {
		t.Fatalf("DoB not parsed: %v", tryout.DoB)
	}
	if tryout.ReadStatus {
		t.Fatal("new submissions start unread")
	}
}

func TestTryoutHoneypot(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	body := tryoutBody("bot@example.com")
	body["honeypot"] = "filled by a bot"

	_, _, err := c.submitTryout(body)
	serr, ok := expectStatus(err, http.StatusBadRequest)
	if !ok {
		t.Fatalf("expected 400 for honeypot submission, got %v", err)
	}
	if serr.Message != "Spam detected" {
		t.Fatalf("unexpected honeypot error message: %v", serr.Message)
	}

	tryouts, err := c.listTryouts()
	if err != nil {
		t.Fatal(err)
	}
	if len(tryouts) != 0 {
		t.Fatal("honeypot submissions must not reach the database")
	}
}

func TestTryoutDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	if _, _, err := c.submitTryout(tryoutBody("dup@example.com")); err != nil {
		t.Fatal(err)
	}

	// The duplicate is reported as a 200 with a message, not an error.
	_, message, err := c.submitTryout(tryoutBody("dup@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if message != "Email already exists" {
		t.Fatalf("unexpected duplicate message: %v", message)
	}

	tryouts, err := c.listTryouts()
	if err != nil {
		t.Fatal(err)
	}
	if len(tryouts) != 1 {
		t.Fatalf("duplicate submission must not insert a second row, got %d rows", len(tryouts))
	}
}

func TestTryoutLenientNumericParsing(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	body := tryoutBody("lenient@example.com")
	body["experienceYears"] = "several"
	body["hoursPerWeek"] = ""
	body["DoB"] = "not a date"

	tryout, _, err := c.submitTryout(body)
	if err != nil {
		t.Fatal(err)
	}
	if tryout.ExperienceYears != 0 || tryout.HoursPerWeek != 0 {
		t.Fatalf("malformed numbers should coerce to zero: %+v", tryout)
	}
	if !tryout.DoB.IsZero() {
		t.Fatalf("malformed DoB should coerce to the zero time: %v", tryout.DoB)
	}
}

func TestTryoutMissingEmail(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	body := tryoutBody("   ")
	_, _, err := c.submitTryout(body)
	if _, ok := expectStatus(err, http.StatusBadRequest); !ok {
		t.Fatalf("expected 400 for missing contact email, got %v", err)
	}
}

func TestTryoutMarkRead(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	tryout, _, err := c.submitTryout(tryoutBody("read@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	if err := c.markTryoutRead(tryout.Id); err != nil {
		t.Fatal(err)
	}

	tryouts, err := c.listTryouts()
	if err != nil {
		t.Fatal(err)
	}
	if len(tryouts) != 1 || !tryouts[0].ReadStatus {
		t.Fatalf("tryout should be marked read: %+v", tryouts)
	}

	err = c.markTryoutRead(999)
	if _, ok := expectStatus(err, http.StatusNotFound); !ok {
		t.Fatalf("expected 404 marking unknown tryout read, got %v", err)
	}
}

func TestTryoutListNewestFirst(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	first, _, err := c.submitTryout(tryoutBody("first@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := c.submitTryout(tryoutBody("second@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	tryouts, err := c.listTryouts()
	if err != nil {
		t.Fatal(err)
	}
	if len(tryouts) != 2 {
		t.Fatalf("expected 2 tryouts, got %d", len(tryouts))
	}
	if tryouts[0].Id != second.Id || tryouts[1].Id != first.Id {
		t.Fatalf("tryouts should be listed newest first: %+v", tryouts)
	}
}
