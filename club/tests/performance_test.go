package tests

import (
	"net/http"
	"testing"
)

func TestScores(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	userId, athleteId, err := c.newAthleteUser("Lane Porter")
	if err != nil {
		t.Fatal(err)
	}

	score, err := c.createScore(userId, athleteId, newForm().Fields(map[string]string{
		"event": "beam", "value": "9.45", "competition": "State Championships", "date": "2026-04-12",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if score.Event != "beam" || score.Value != 9.45 {
		t.Fatalf("score not recorded correctly: %+v", score)
	}

	scores, err := c.listScores(userId, athleteId)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Id != score.Id {
		t.Fatalf("expected the created score in the list, got %+v", scores)
	}

	if err := c.deleteScore(userId, athleteId, score.Id); err != nil {
		t.Fatal(err)
	}
	scores, err = c.listScores(userId, athleteId)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected no scores after delete, got %+v", scores)
	}

	err = c.deleteScore(userId, athleteId, score.Id)
	if _, ok := expectStatus(err, http.StatusNotFound); !ok {
		t.Fatalf("expected 404 deleting unknown score, got %v", err)
	}
}

func TestAchievements(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	userId, athleteId, err := c.newAthleteUser("Skye Tran")
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.createAchievement(userId, athleteId, newForm().Field("year", "2026"))
	if _, ok := expectStatus(err, http.StatusBadRequest); !ok {
		t.Fatalf("expected 400 for missing title, got %v", err)
	}

	achievement, err := c.createAchievement(userId, athleteId, newForm().Fields(map[string]string{
		"title": "Regional All-Around Champion", "year": "2026",
	}))
	if err != nil {
		t.Fatal(err)
	}

	achievements, err := c.listAchievements(userId, athleteId)
	if err != nil {
		t.Fatal(err)
	}
	if len(achievements) != 1 || achievements[0].Title != "Regional All-Around Champion" {
		t.Fatalf("expected the created achievement in the list, got %+v", achievements)
	}

	if err := c.deleteAchievement(userId, athleteId, achievement.Id); err != nil {
		t.Fatal(err)
	}
}

func TestVideos(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	userId, athleteId, err := c.newAthleteUser("Rowan Ellis")
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.createVideo(userId, athleteId, newForm().Field("title", "no url"))
	if _, ok := expectStatus(err, http.StatusBadRequest); !ok {
		t.Fatalf("expected 400 for missing url, got %v", err)
	}

	video, err := c.createVideo(userId, athleteId, newForm().Fields(map[string]string{
		"url": "https://video.example.com/vault", "title": "Vault finals",
	}))
	if err != nil {
		t.Fatal(err)
	}

	videos, err := c.listVideos(userId, athleteId)
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 || videos[0].Url != "https://video.example.com/vault" {
		t.Fatalf("expected the created video in the list, got %+v", videos)
	}

	if err := c.deleteVideo(userId, athleteId, video.Id); err != nil {
		t.Fatal(err)
	}
}

func TestPerformanceUnknownAthlete(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	userId, _, err := c.newAthleteUser("Ari Walsh")
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.listScores(userId, 999)
	if _, ok := expectStatus(err, http.StatusNotFound); !ok {
		t.Fatalf("expected 404 listing scores for unknown athlete, got %v", err)
	}

	_, err = c.createVideo(userId, 999, newForm().Field("url", "https://x"))
	if _, ok := expectStatus(err, http.StatusNotFound); !ok {
		t.Fatalf("expected 404 creating video for unknown athlete, got %v", err)
	}
}
