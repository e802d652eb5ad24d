package services

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"clubadmin/club/media"
	"clubadmin/club/schema"
	"clubadmin/club/storage"
	"clubadmin/utils"
	"clubadmin/utils/logging"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type MediaService struct {
	db        *gorm.DB
	store     storage.ObjectStore
	extractor media.FrameExtractor
}

func (s *MediaService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Put("/", s.Update)
	r.Delete("/", s.Delete)

	r.Get("/{athlete_id}", s.List)
	r.With(checkSufficientStorage(s.store)).Post("/{athlete_id}", s.Upload)

	return r
}

func (s *MediaService) listForAthlete(athleteId uint) ([]schema.Media, error) {
	var rows []schema.Media
	result := s.db.Order("date DESC, id DESC").Find(&rows, "athlete_id = ?", athleteId)
	if result.Error != nil {
		slog.Error("sql error listing media", "athlete_id", athleteId, "error", result.Error)
		return nil, schema.ErrDbAccessFailed
	}
	return rows, nil
}

func (s *MediaService) List(w http.ResponseWriter, r *http.Request) {
	athleteId, err := utils.URLParamID(r, "athlete_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.listForAthlete(athleteId)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error listing media: %v", err))
		return
	}

	utils.WriteJsonResponse(w, rows)
}

// Upload stores the raw file, extracts a thumbnail frame when the file is a
// video, inserts the media row, and responds with the full refreshed media
// list for the athlete. Callers replace their local list rather than append.
func (s *MediaService) Upload(w http.ResponseWriter, r *http.Request) {
	athleteId, err := utils.URLParamID(r, "athlete_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !parseMultipartForm(w, r) {
		return
	}

	if _, err := schema.GetAthlete(athleteId, s.db); err != nil {
		if errors.Is(err, schema.ErrAthleteNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Missing media file")
		return
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")

	mediaUrl, err := s.store.Put(r.Context(), storage.MediaKey(header.Filename), file, header.Size, mediaType)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error uploading media: %v", err))
		return
	}
	objectUploads.Inc()

	thumbnailUrl := ""
	if strings.HasPrefix(mediaType, "video/") {
		if _, err := file.Seek(0, 0); err != nil {
			utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error rewinding video file: %v", err))
			return
		}

		frame, err := s.extractor.ExtractFrame(r.Context(), file)
		if err != nil {
			slog.Error("video thumbnail extraction failed", "code", logging.MEDIA_THUMBNAIL, "athlete_id", athleteId, "error", err)
			utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error extracting video thumbnail: %v", err))
			return
		}

		thumbnailUrl, err = s.store.Put(r.Context(), storage.ThumbnailKey(), bytes.NewReader(frame), int64(len(frame)), "image/jpeg")
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error uploading video thumbnail: %v", err))
			return
		}
		objectUploads.Inc()
		thumbnailExtractions.Inc()
	}

	date := time.Now().UTC()
	if d := utils.FormDate(r, "date"); d != nil {
		date = *d
	}

	row := schema.Media{
		AthleteId:      athleteId,
		MediaUrl:       mediaUrl,
		MediaType:      mediaType,
		VideoThumbnail: thumbnailUrl,
		Name:           r.FormValue("name"),
		Description:    r.FormValue("description"),
		Category:       r.FormValue("category"),
		Date:           date,
	}
	if result := s.db.Create(&row); result.Error != nil {
		slog.Error("sql error creating media row", "athlete_id", athleteId, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error creating media: %v", schema.ErrDbAccessFailed))
		return
	}

	rows, err := s.listForAthlete(athleteId)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error listing media: %v", err))
		return
	}

	slog.Info("uploaded media", "athlete_id", athleteId, "media_id", row.Id, "media_type", mediaType)
	utils.WriteJsonResponse(w, rows)
}

func (s *MediaService) Update(w http.ResponseWriter, r *http.Request) {
	mediaId, err := utils.QueryParamID(r, "mediaId")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !parseMultipartForm(w, r) {
		return
	}

	row, err := schema.GetMedia(mediaId, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrMediaNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	row.Name = r.FormValue("name")
	row.Description = r.FormValue("description")
	row.Category = r.FormValue("category")
	if d := utils.FormDate(r, "date"); d != nil {
		row.Date = *d
	}

	if result := s.db.Save(&row); result.Error != nil {
		slog.Error("sql error updating media row", "media_id", mediaId, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error updating media: %v", schema.ErrDbAccessFailed))
		return
	}

	utils.WriteJsonResponse(w, row)
}

func (s *MediaService) Delete(w http.ResponseWriter, r *http.Request) {
	mediaId, err := utils.QueryParamID(r, "mediaId")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := schema.GetMedia(mediaId, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrMediaNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if result := s.db.Delete(&schema.Media{}, "id = ?", mediaId); result.Error != nil {
		slog.Error("sql error deleting media row", "media_id", mediaId, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error deleting media: %v", schema.ErrDbAccessFailed))
		return
	}

	deleteObjects(r.Context(), s.store, []string{row.MediaUrl, row.VideoThumbnail})

	slog.Info("deleted media", "media_id", mediaId)
	utils.WriteSuccess(w)
}
