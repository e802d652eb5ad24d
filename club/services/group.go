package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"clubadmin/club/schema"
	"clubadmin/utils"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type GroupService struct {
	db *gorm.DB
}

func (s *GroupService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Put("/{program_id}/{group_id}", s.Update)
	r.Delete("/{program_id}/{group_id}", s.Delete)

	return r
}

type groupResponse struct {
	Group          schema.Group           `json:"group"`
	CoachGroupLine *schema.CoachGroupLine `json:"coachGroupLine"`
}

func groupIds(r *http.Request) (programId, groupId uint, err error) {
	programId, err = utils.URLParamID(r, "program_id")
	if err != nil {
		return 0, 0, fmt.Errorf("invalid program id: %w", err)
	}
	groupId, err = utils.URLParamID(r, "group_id")
	if err != nil {
		return 0, 0, fmt.Errorf("invalid group id: %w", err)
	}
	return programId, groupId, nil
}

// Update edits the group row and manages its single coach assignment. When a
// coachId field is present the line is created if missing or updated in place
// (keeping its id); without coachId no line is written and the response
// carries coachGroupLine as null.
func (s *GroupService) Update(w http.ResponseWriter, r *http.Request) {
	programId, groupId, err := groupIds(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !parseMultipartForm(w, r) {
		return
	}

	group, err := schema.GetGroup(programId, groupId, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrGroupNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var line *schema.CoachGroupLine

	err = s.db.Transaction(func(txn *gorm.DB) error {
		group.Name = r.FormValue("name")
		group.Description = r.FormValue("description")
		if result := txn.Omit("CoachGroupLine").Save(&group); result.Error != nil {
			slog.Error("sql error updating group", "group_id", groupId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		coachParam := r.FormValue("coachId")
		if coachParam == "" {
			return nil
		}

		coachId, err := utils.ParseID(coachParam)
		if err != nil {
			return CodedError(fmt.Errorf("invalid coach id: %w", err), http.StatusBadRequest)
		}

		if group.CoachGroupLine != nil {
			line = group.CoachGroupLine
			line.CoachId = coachId
		} else {
			line = &schema.CoachGroupLine{GroupId: group.Id, CoachId: coachId}
		}
		if result := txn.Save(line); result.Error != nil {
			slog.Error("sql error saving coach group line", "group_id", groupId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, GetResponseCode(err), fmt.Sprintf("error updating group %v: %v", groupId, err))
		return
	}

	group.CoachGroupLine = nil
	utils.WriteJsonResponse(w, groupResponse{Group: group, CoachGroupLine: line})
}

func (s *GroupService) Delete(w http.ResponseWriter, r *http.Request) {
	programId, groupId, err := groupIds(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	group, err := schema.GetGroup(programId, groupId, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrGroupNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		if result := txn.Delete(&schema.CoachGroupLine{}, "group_id = ?", group.Id); result.Error != nil {
			slog.Error("sql error deleting coach group line", "group_id", groupId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}
		if result := txn.Delete(&schema.Group{}, "id = ?", group.Id); result.Error != nil {
			slog.Error("sql error deleting group", "group_id", groupId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}
		return nil
	})

	if err != nil {
		utils.WriteError(w, GetResponseCode(err), fmt.Sprintf("error deleting group %v: %v", groupId, err))
		return
	}

	slog.Info("deleted group", "group_id", groupId, "program_id", programId)
	utils.WriteSuccess(w)
}
