package tests

import (
	"net/http"
	"testing"

	"clubadmin/club/schema"
)

func TestSponsorRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	form := newForm().Fields(map[string]string{
		"organization": "Summit Outfitters",
		"sponsorLevel": schema.SponsorLevelGold,
		"description":  "Local outdoor gear store",
		"website":      "https://summit.example.com",
	})
	form.File("media", "logo.png", "image/png", []byte("png-bytes"))

	created, err := c.createSponsor(form)
	if err != nil {
		t.Fatal(err)
	}
	if created.SponsorImgUrl == "" {
		t.Fatal("sponsor image url should be set when a media file is submitted")
	}

	sponsors, err := c.listSponsors()
	if err != nil {
		t.Fatal(err)
	}
	if len(sponsors) != 1 {
		t.Fatalf("expected 1 sponsor, got %d", len(sponsors))
	}

	got := sponsors[0]
	if got.Organization != "Summit Outfitters" || got.SponsorLevel != schema.SponsorLevelGold ||
		got.Description != "Local outdoor gear store" || got.Website != "https://summit.example.com" {
		t.Fatalf("sponsor fields did not round trip: %+v", got)
	}
	if got.SponsorImgUrl != created.SponsorImgUrl {
		t.Fatalf("sponsor image url did not round trip: %v != %v", got.SponsorImgUrl, created.SponsorImgUrl)
	}
}

func TestSponsorWithoutImage(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	created, err := c.createSponsor(newForm().Field("organization", "Riverside Dental"))
	if err != nil {
		t.Fatal(err)
	}
	if created.SponsorImgUrl != "" {
		t.Fatal("sponsor image url should be empty when no media file is submitted")
	}
}

func TestSponsorCreateRequiresOrganization(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	_, err := c.createSponsor(newForm().Field("description", "no name"))
	if _, ok := expectStatus(err, http.StatusBadRequest); !ok {
		t.Fatalf("expected 400 for missing organization, got %v", err)
	}
}

func TestSponsorInvalidIds(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	// Id 0, non numeric, and negative ids are all "missing" by convention.
	for _, id := range []string{"0", "NaN", "-3"} {
		_, err := c.updateSponsor(id, newForm().Field("organization", "x"))
		serr, ok := expectStatus(err, http.StatusBadRequest)
		if !ok {
			t.Fatalf("expected 400 updating sponsor id %q, got %v", id, err)
		}
		if serr.Message != "Missing sponsor ID" {
			t.Fatalf("unexpected error message for sponsor id %q: %v", id, serr.Message)
		}

		err = c.deleteSponsor(id)
		serr, ok = expectStatus(err, http.StatusBadRequest)
		if !ok {
			t.Fatalf("expected 400 deleting sponsor id %q, got %v", id, err)
		}
		if serr.Message != "Missing sponsor ID" {
			t.Fatalf("unexpected error message for sponsor id %q: %v", id, serr.Message)
		}
	}
}

func TestSponsorUpdateReplacesImage(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	form := newForm().Field("organization", "Harbor Bank")
	form.File("media", "logo-v1.png", "image/png", []byte("png-v1"))
	created, err := c.createSponsor(form)
	if err != nil {
		t.Fatal(err)
	}

	update := newForm().Fields(map[string]string{
		"organization": "Harbor Bank", "sponsorLevel": schema.SponsorLevelDiamond,
	})
	update.File("media", "logo-v2.png", "image/png", []byte("png-v2"))

	updated, err := c.updateSponsor("1", update)
	if err != nil {
		t.Fatal(err)
	}

	if updated.SponsorImgUrl == created.SponsorImgUrl {
		t.Fatal("a new media file should replace the sponsor image url")
	}
	if updated.SponsorLevel != schema.SponsorLevelDiamond {
		t.Fatalf("sponsor level not updated: %v", updated.SponsorLevel)
	}

	// Only the replacement object remains.
	keys, err := env.storedObjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected old sponsor image to be deleted after replacement, got %v", keys)
	}
}

func TestSponsorDelete(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	form := newForm().Field("organization", "Peak Physio")
	form.File("media", "logo.png", "image/png", []byte("png-bytes"))
	if _, err := c.createSponsor(form); err != nil {
		t.Fatal(err)
	}

	if err := c.deleteSponsor("1"); err != nil {
		t.Fatal(err)
	}

	sponsors, err := c.listSponsors()
	if err != nil {
		t.Fatal(err)
	}
	if len(sponsors) != 0 {
		t.Fatalf("expected no sponsors after delete, got %+v", sponsors)
	}

	keys, err := env.storedObjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected sponsor image to be deleted, got %v", keys)
	}

	err = c.deleteSponsor("1")
	if _, ok := expectStatus(err, http.StatusNotFound); !ok {
		t.Fatalf("expected 404 deleting unknown sponsor, got %v", err)
	}
}
