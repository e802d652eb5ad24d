package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"clubadmin/club/schema"
	"clubadmin/utils"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// PerformanceService manages the competition records owned by an athlete:
// scores, achievements, and videos.
type PerformanceService struct {
	db *gorm.DB
}

func (s *PerformanceService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/scores", s.ListScores)
	r.Post("/scores", s.CreateScore)
	r.Delete("/scores/{score_id}", s.DeleteScore)

	r.Get("/achievements", s.ListAchievements)
	r.Post("/achievements", s.CreateAchievement)
	r.Delete("/achievements/{achievement_id}", s.DeleteAchievement)

	r.Get("/videos", s.ListVideos)
	r.Post("/videos", s.CreateVideo)
	r.Delete("/videos/{video_id}", s.DeleteVideo)

	return r
}

func (s *PerformanceService) athleteId(w http.ResponseWriter, r *http.Request) (uint, bool) {
	athleteId, err := utils.URLParamID(r, "athlete_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}

	if _, err := schema.GetAthlete(athleteId, s.db); err != nil {
		if errors.Is(err, schema.ErrAthleteNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
		} else {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return 0, false
	}

	return athleteId, true
}

func listRows[T any](s *PerformanceService, w http.ResponseWriter, r *http.Request, what string) {
	athleteId, ok := s.athleteId(w, r)
	if !ok {
		return
	}

	var rows []T
	result := s.db.Find(&rows, "athlete_id = ?", athleteId)
	if result.Error != nil {
		slog.Error("sql error listing athlete rows", "what", what, "athlete_id", athleteId, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error listing %v: %v", what, schema.ErrDbAccessFailed))
		return
	}

	utils.WriteJsonResponse(w, rows)
}

func (s *PerformanceService) createRow(w http.ResponseWriter, row interface{}, what string) {
	if result := s.db.Create(row); result.Error != nil {
		slog.Error("sql error creating athlete row", "what", what, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error creating %v: %v", what, schema.ErrDbAccessFailed))
		return
	}
	utils.WriteJsonResponse(w, row)
}

func (s *PerformanceService) deleteRow(w http.ResponseWriter, r *http.Request, param string, model interface{}, what string) {
	id, err := utils.URLParamID(r, param)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.db.Delete(model, "id = ?", id)
	if result.Error != nil {
		slog.Error("sql error deleting athlete row", "what", what, "id", id, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error deleting %v: %v", what, schema.ErrDbAccessFailed))
		return
	}
	if result.RowsAffected == 0 {
		utils.WriteError(w, http.StatusNotFound, fmt.Sprintf("%v not found", what))
		return
	}

	utils.WriteSuccess(w)
}

func formDateOrNow(r *http.Request, key string) time.Time {
	if d := utils.FormDate(r, key); d != nil {
		return *d
	}
	return time.Now().UTC()
}

func (s *PerformanceService) ListScores(w http.ResponseWriter, r *http.Request) {
	listRows[schema.Score](s, w, r, "scores")
}

func (s *PerformanceService) CreateScore(w http.ResponseWriter, r *http.Request) {
	athleteId, ok := s.athleteId(w, r)
	if !ok {
		return
	}
	if !parseMultipartForm(w, r) {
		return
	}

	var value float64
	if v := utils.FormFloat(r, "value"); v != nil {
		value = *v
	}

	score := schema.Score{
		AthleteId:   athleteId,
		Event:       r.FormValue("event"),
		Value:       value,
		Competition: r.FormValue("competition"),
		Date:        formDateOrNow(r, "date"),
	}
	s.createRow(w, &score, "score")
}

func (s *PerformanceService) DeleteScore(w http.ResponseWriter, r *http.Request) {
	s.deleteRow(w, r, "score_id", &schema.Score{}, "score")
}

func (s *PerformanceService) ListAchievements(w http.ResponseWriter, r *http.Request) {
	listRows[schema.Achievement](s, w, r, "achievements")
}

func (s *PerformanceService) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	athleteId, ok := s.athleteId(w, r)
	if !ok {
		return
	}
	if !parseMultipartForm(w, r) {
		return
	}

	achievement := schema.Achievement{
		AthleteId:   athleteId,
		Title:       r.FormValue("title"),
		Year:        r.FormValue("year"),
		Description: r.FormValue("description"),
	}
	if achievement.Title == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing achievement title")
		return
	}
	s.createRow(w, &achievement, "achievement")
}

func (s *PerformanceService) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	s.deleteRow(w, r, "achievement_id", &schema.Achievement{}, "achievement")
}

func (s *PerformanceService) ListVideos(w http.ResponseWriter, r *http.Request) {
	listRows[schema.Video](s, w, r, "videos")
}

func (s *PerformanceService) CreateVideo(w http.ResponseWriter, r *http.Request) {
	athleteId, ok := s.athleteId(w, r)
	if !ok {
		return
	}
	if !parseMultipartForm(w, r) {
		return
	}

	video := schema.Video{
		AthleteId: athleteId,
		Url:       r.FormValue("url"),
		Title:     r.FormValue("title"),
		Date:      formDateOrNow(r, "date"),
	}
	if video.Url == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing video url")
		return
	}
	s.createRow(w, &video, "video")
}

func (s *PerformanceService) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	s.deleteRow(w, r, "video_id", &schema.Video{}, "video")
}
