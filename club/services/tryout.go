package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"clubadmin/club/schema"
	"clubadmin/utils"
	"clubadmin/utils/logging"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type TryoutService struct {
	db *gorm.DB
}

func (s *TryoutService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.List)
	r.Post("/", s.Submit)

	r.Put("/{tryout_id}/read", s.MarkRead)

	return r
}

func (s *TryoutService) List(w http.ResponseWriter, r *http.Request) {
	var tryouts []schema.Tryout
	result := s.db.Order("created_at DESC, id DESC").Find(&tryouts)
	if result.Error != nil {
		slog.Error("sql error listing tryouts", "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error listing tryouts: %v", schema.ErrDbAccessFailed))
		return
	}

	utils.WriteJsonResponse(w, tryouts)
}

type tryoutRequest struct {
	AthleteFirstName string `json:"athleteFirstName"`
	AthleteLastName  string `json:"athleteLastName"`
	DoB              string `json:"DoB"`
	ExperienceYears  string `json:"experienceYears"`
	HoursPerWeek     string `json:"hoursPerWeek"`
	ContactName      string `json:"contactName"`
	ContactEmail     string `json:"contactEmail"`
	ContactPhone     string `json:"contactPhone"`
	Honeypot         string `json:"honeypot"`
}

var tryoutDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseTryoutDate(value string) time.Time {
	for _, layout := range tryoutDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return t
		}
	}
	return time.Time{}
}

func atoiLenient(value string) int {
	i := 0
	fmt.Sscanf(strings.TrimSpace(value), "%d", &i)
	return i
}

// Submit handles the public intake form. A filled honeypot field marks the
// submission as automated and is rejected before any db access. Duplicate
// emails are detected by the unique index on contact_email, not by a
// check-then-insert read.
func (s *TryoutService) Submit(w http.ResponseWriter, r *http.Request) {
	var params tryoutRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.Honeypot != "" {
		tryoutSpam.Inc()
		slog.Warn("tryout submission rejected by honeypot", "code", logging.INTAKE_SPAM)
		utils.WriteError(w, http.StatusBadRequest, "Spam detected")
		return
	}

	tryout := schema.Tryout{
		AthleteFirstName: strings.TrimSpace(params.AthleteFirstName),
		AthleteLastName:  strings.TrimSpace(params.AthleteLastName),
		DoB:              parseTryoutDate(params.DoB),
		ExperienceYears:  atoiLenient(params.ExperienceYears),
		HoursPerWeek:     atoiLenient(params.HoursPerWeek),
		ContactName:      strings.TrimSpace(params.ContactName),
		ContactEmail:     strings.TrimSpace(params.ContactEmail),
		ContactPhone:     strings.TrimSpace(params.ContactPhone),
	}

	if tryout.ContactEmail == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing contact email")
		return
	}

	result := s.db.Create(&tryout)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			tryoutDuplicates.Inc()
			slog.Info("duplicate tryout submission", "code", logging.INTAKE_DUPLICATE)
			utils.WriteMessage(w, "Email already exists")
			return
		}
		slog.Error("sql error creating tryout", "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to submit tryout form")
		return
	}

	tryoutSubmissions.Inc()
	slog.Info("tryout submitted", "tryout_id", tryout.Id)
	utils.WriteJsonResponse(w, tryout)
}

func (s *TryoutService) MarkRead(w http.ResponseWriter, r *http.Request) {
	tryoutId, err := utils.URLParamID(r, "tryout_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.db.Model(&schema.Tryout{}).Where("id = ?", tryoutId).Update("read_status", true)
	if result.Error != nil {
		slog.Error("sql error updating tryout read status", "tryout_id", tryoutId, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error updating tryout: %v", schema.ErrDbAccessFailed))
		return
	}
	if result.RowsAffected == 0 {
		utils.WriteError(w, http.StatusNotFound, schema.ErrTryoutNotFound.Error())
		return
	}

	utils.WriteSuccess(w)
}
