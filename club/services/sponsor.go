package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"clubadmin/club/schema"
	"clubadmin/club/storage"
	"clubadmin/utils"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type SponsorService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func (s *SponsorService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.List)
	r.With(checkSufficientStorage(s.store)).Post("/", s.Create)

	r.Put("/{sponsor_id}", s.Update)
	r.Delete("/{sponsor_id}", s.Delete)

	return r
}

func (s *SponsorService) List(w http.ResponseWriter, r *http.Request) {
	var sponsors []schema.Sponsor
	result := s.db.Order("organization").Find(&sponsors)
	if result.Error != nil {
		slog.Error("sql error listing sponsors", "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error listing sponsors: %v", schema.ErrDbAccessFailed))
		return
	}

	utils.WriteJsonResponse(w, sponsors)
}

func (s *SponsorService) Create(w http.ResponseWriter, r *http.Request) {
	if !parseMultipartForm(w, r) {
		return
	}

	organization := r.FormValue("organization")
	if organization == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing sponsor organization")
		return
	}

	imgUrl := ""
	if header, ok := formFileHeader(r, "media"); ok {
		url, _, err := uploadFormFile(r.Context(), s.store, r, "media", storage.SponsorKey(header.Filename))
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		imgUrl = url
	}

	sponsor := schema.Sponsor{
		Organization:  organization,
		SponsorLevel:  r.FormValue("sponsorLevel"),
		Description:   r.FormValue("description"),
		Website:       r.FormValue("website"),
		SponsorImgUrl: imgUrl,
	}
	if result := s.db.Create(&sponsor); result.Error != nil {
		slog.Error("sql error creating sponsor", "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error creating sponsor: %v", schema.ErrDbAccessFailed))
		return
	}

	slog.Info("created sponsor", "sponsor_id", sponsor.Id, "organization", organization)
	utils.WriteJsonResponse(w, sponsor)
}

// sponsorId validates the url parameter; ids 0 and below, empty, and non
// numeric values are all "missing" by convention.
func sponsorId(r *http.Request) (uint, bool) {
	id, err := utils.URLParamID(r, "sponsor_id")
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *SponsorService) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := sponsorId(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Missing sponsor ID")
		return
	}

	if !parseMultipartForm(w, r) {
		return
	}

	sponsor, err := schema.GetSponsor(id, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrSponsorNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	oldImgUrl := ""
	if header, ok := formFileHeader(r, "media"); ok {
		url, _, err := uploadFormFile(r.Context(), s.store, r, "media", storage.SponsorKey(header.Filename))
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		oldImgUrl = sponsor.SponsorImgUrl
		sponsor.SponsorImgUrl = url
	}

	sponsor.Organization = r.FormValue("organization")
	sponsor.SponsorLevel = r.FormValue("sponsorLevel")
	sponsor.Description = r.FormValue("description")
	sponsor.Website = r.FormValue("website")

	if result := s.db.Save(&sponsor); result.Error != nil {
		slog.Error("sql error updating sponsor", "sponsor_id", id, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error updating sponsor: %v", schema.ErrDbAccessFailed))
		return
	}

	if oldImgUrl != "" {
		deleteObjects(r.Context(), s.store, []string{oldImgUrl})
	}

	utils.WriteJsonResponse(w, sponsor)
}

func (s *SponsorService) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sponsorId(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Missing sponsor ID")
		return
	}

	sponsor, err := schema.GetSponsor(id, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrSponsorNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if result := s.db.Delete(&schema.Sponsor{}, "id = ?", id); result.Error != nil {
		slog.Error("sql error deleting sponsor", "sponsor_id", id, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error deleting sponsor: %v", schema.ErrDbAccessFailed))
		return
	}

	deleteObjects(r.Context(), s.store, []string{sponsor.SponsorImgUrl})

	slog.Info("deleted sponsor", "sponsor_id", id)
	utils.WriteSuccess(w)
}
