package tests

import (
	"fmt"
	"net/http"
	"testing"
)

func TestUserAggregateCreate(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	form := newForm().Fields(map[string]string{
		"name":             "Jordan Miles",
		"isCoach":          "true",
		"isAthlete":        "true",
		"isActive":         "true",
		"coachTitle":       "Head Coach",
		"coachDescription": "Runs the competitive program",
		"isSeniorStaff":    "true",
		"athleteLevel":     "Level 9",
	})
	form.File("staffImg", "jordan.png", "image/png", []byte("png-bytes"))

	user, err := c.createUser(form)
	if err != nil {
		t.Fatal(err)
	}

	if user.Id != 1 {
		t.Fatalf("expected first user to have id 1, got %d", user.Id)
	}
	if user.Name != "Jordan Miles" || !user.IsCoach || !user.IsAthlete || !user.IsActive {
		t.Fatalf("user fields not persisted: %+v", user)
	}
	if user.IsProspect || user.IsAlumni {
		t.Fatal("roles that were not requested should be false")
	}

	if user.Coach == nil || user.Coach.Title != "Head Coach" || !user.Coach.IsSeniorStaff {
		t.Fatalf("coach row not created correctly: %+v", user.Coach)
	}
	if user.Athlete == nil || user.Athlete.Level != "Level 9" {
		t.Fatalf("athlete row not created correctly: %+v", user.Athlete)
	}
	if user.Prospect != nil || user.Alumni != nil {
		t.Fatal("prospect/alumni rows should not exist")
	}

	if user.Images == nil || user.Images.StaffUrl == "" {
		t.Fatalf("staff image url not recorded: %+v", user.Images)
	}
	if user.Images.AthleteUrl != "" {
		t.Fatal("no athlete image was uploaded, url should be empty")
	}

	users, err := c.listUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Id != user.Id {
		t.Fatalf("expected listing to return the created user, got %+v", users)
	}
}

func TestUserBooleanFieldsOnlyAcceptLiteralTrue(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	user, err := c.createUser(newForm().Fields(map[string]string{
		"name":      "Casey Ford",
		"isCoach":   "True",
		"isAthlete": "1",
		"isActive":  "true",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if user.IsCoach || user.IsAthlete {
		t.Fatalf("only the literal string \"true\" should enable a role: %+v", user)
	}
	if !user.IsActive {
		t.Fatal("isActive=true should be enabled")
	}
}

func TestUserCreateRequiresName(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	_, err := c.createUser(newForm().Field("isCoach", "true"))
	if _, ok := expectStatus(err, http.StatusBadRequest); !ok {
		t.Fatalf("expected 400 for missing name, got %v", err)
	}
}

func TestUserProspectFieldCoercion(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	user, err := c.createUser(newForm().Fields(map[string]string{
		"name":                   "Riley Quinn",
		"isProspect":             "true",
		"prospectSchool":         "Central High",
		"prospectEmail":          "riley@example.com",
		"prospectGPA":            "3.85",
		"prospectGraduationYear": "2027",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if user.Prospect == nil {
		t.Fatal("prospect row not created")
	}
	if user.Prospect.Gpa == nil || *user.Prospect.Gpa != 3.85 {
		t.Fatalf("gpa not parsed: %+v", user.Prospect.Gpa)
	}
	if user.Prospect.GraduationYear == nil || user.Prospect.GraduationYear.Year() != 2027 {
		t.Fatalf("graduation year not parsed: %+v", user.Prospect.GraduationYear)
	}

	// Malformed numeric fields coerce to nil instead of failing the request.
	user2, err := c.createUser(newForm().Fields(map[string]string{
		"name":                   "Devon Park",
		"isProspect":             "true",
		"prospectGPA":            "not-a-number",
		"prospectGraduationYear": "someday",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if user2.Prospect.Gpa != nil || user2.Prospect.GraduationYear != nil {
		t.Fatalf("malformed values should become nil: %+v", user2.Prospect)
	}
}

func TestUserUpdateRoleDiff(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	form := newForm().Fields(map[string]string{
		"name": "Alex Stone", "isCoach": "true", "coachTitle": "Assistant Coach",
	})
	form.File("staffImg", "alex.png", "image/png", []byte("png-bytes"))

	user, err := c.createUser(form)
	if err != nil {
		t.Fatal(err)
	}
	coachId := user.Coach.Id
	if user.Images == nil || user.Images.StaffUrl == "" {
		t.Fatalf("staff image url not recorded: %+v", user.Images)
	}

	// Flag stays true with an existing row: the row is updated in place.
	updated, err := c.updateUser(user.Id, newForm().Fields(map[string]string{
		"name": "Alex Stone", "isCoach": "true", "coachTitle": "Head Coach",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if updated.Coach == nil || updated.Coach.Id != coachId {
		t.Fatalf("coach row should be updated in place, got %+v", updated.Coach)
	}
	if updated.Coach.Title != "Head Coach" {
		t.Fatalf("coach title not updated: %v", updated.Coach.Title)
	}

	// Flag flips false: the row is deleted. Flag flips true: a row is created.
	updated, err = c.updateUser(user.Id, newForm().Fields(map[string]string{
		"name": "Alex Stone", "isAthlete": "true", "athleteLevel": "Level 8",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if updated.Coach != nil {
		t.Fatal("coach row should be deleted when isCoach flips false")
	}
	if updated.Athlete == nil || updated.Athlete.Level != "Level 8" {
		t.Fatalf("athlete row should be created when isAthlete flips true: %+v", updated.Athlete)
	}
	if !updated.IsAthlete || updated.IsCoach {
		t.Fatalf("role flags not updated: %+v", updated)
	}

	// Dropping the coach role clears its image url and removes the stored
	// object after the transaction commits.
	if updated.Images == nil || updated.Images.StaffUrl != "" {
		t.Fatalf("staff image url should be cleared when isCoach flips false: %+v", updated.Images)
	}
	keys, err := env.storedObjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected the staff image object to be deleted, got %v", keys)
	}
}

func TestUserDeleteRemovesAggregateAndStorage(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	form := newForm().Fields(map[string]string{
		"name": "Morgan Reyes", "isAthlete": "true", "athleteLevel": "Level 10",
	})
	form.File("athleteImg", "morgan.jpg", "image/jpeg", []byte("jpeg-bytes"))

	user, err := c.createUser(form)
	if err != nil {
		t.Fatal(err)
	}

	mediaForm := newForm().Field("name", "beam routine")
	mediaForm.File("media", "routine.jpg", "image/jpeg", []byte("media-bytes"))
	if _, err := c.uploadMedia(user.Id, user.Athlete.Id, mediaForm); err != nil {
		t.Fatal(err)
	}

	keys, err := env.storedObjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected role image and media file in storage, got %v", keys)
	}

	if err := c.deleteUser(user.Id); err != nil {
		t.Fatal(err)
	}

	users, err := c.listUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users after delete, got %+v", users)
	}

	_, err = c.getUser(user.Id)
	if _, ok := expectStatus(err, http.StatusNotFound); !ok {
		t.Fatalf("expected 404 for deleted user, got %v", err)
	}

	keys, err = env.storedObjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected storage objects to be removed with the user, got %v", keys)
	}
}

func TestUserInvalidIds(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	for _, id := range []string{"0", "abc", "-1"} {
		err := c.Get(fmt.Sprintf("/users/%v", id)).Do(nil)
		if _, ok := expectStatus(err, http.StatusBadRequest); !ok {
			t.Fatalf("expected 400 for user id %q, got %v", id, err)
		}
	}

	_, err := c.getUser(999)
	if _, ok := expectStatus(err, http.StatusNotFound); !ok {
		t.Fatalf("expected 404 for unknown user, got %v", err)
	}
}
