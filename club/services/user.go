package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"clubadmin/club/schema"
	"clubadmin/club/storage"
	"clubadmin/utils"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	store storage.ObjectStore

	media       *MediaService
	performance *PerformanceService
}

func (s *UserService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.List)
	r.With(checkSufficientStorage(s.store)).Post("/", s.Create)

	r.Route("/{user_id}", func(r chi.Router) {
		r.Get("/", s.Get)
		r.Put("/", s.Update)
		r.Delete("/", s.Delete)

		r.Mount("/media", s.media.Routes())
		r.Mount("/athlete/{athlete_id}", s.performance.Routes())
	})

	return r
}

// userForm carries the coerced multipart fields for the user aggregate. Role
// booleans only accept the literal string "true"; numeric and date fields
// parse leniently to nil.
type userForm struct {
	Name string

	IsCoach    bool
	IsAthlete  bool
	IsProspect bool
	IsAlumni   bool
	IsActive   bool
	IsScouted  bool

	CoachTitle       string
	CoachDescription string
	IsSeniorStaff    bool

	AthleteLevel string

	ProspectSchool         string
	ProspectEmail          string
	ProspectPhone          string
	ProspectGpa            *float64
	ProspectGraduationYear *time.Time
	ProspectInstagram      string
	ProspectTwitter        string

	AlumniSchool      string
	AlumniYear        string
	AlumniDescription string
}

func parseUserForm(r *http.Request) userForm {
	return userForm{
		Name: r.FormValue("name"),

		IsCoach:    utils.FormBool(r, "isCoach"),
		IsAthlete:  utils.FormBool(r, "isAthlete"),
		IsProspect: utils.FormBool(r, "isProspect"),
		IsAlumni:   utils.FormBool(r, "isAlumni"),
		IsActive:   utils.FormBool(r, "isActive"),
		IsScouted:  utils.FormBool(r, "isScouted"),

		CoachTitle:       r.FormValue("coachTitle"),
		CoachDescription: r.FormValue("coachDescription"),
		IsSeniorStaff:    utils.FormBool(r, "isSeniorStaff"),

		AthleteLevel: r.FormValue("athleteLevel"),

		ProspectSchool:         r.FormValue("prospectSchool"),
		ProspectEmail:          r.FormValue("prospectEmail"),
		ProspectPhone:          r.FormValue("prospectPhone"),
		ProspectGpa:            utils.FormFloat(r, "prospectGPA"),
		ProspectGraduationYear: utils.FormDate(r, "prospectGraduationYear"),
		ProspectInstagram:      r.FormValue("prospectInstagram"),
		ProspectTwitter:        r.FormValue("prospectTwitter"),

		AlumniSchool:      r.FormValue("alumniSchool"),
		AlumniYear:        r.FormValue("alumniYear"),
		AlumniDescription: r.FormValue("alumniDescription"),
	}
}

// roleImages maps multipart file fields to the UserImages column they fill.
var roleImageFields = []struct {
	field string
	role  string
}{
	{"staffImg", "staff"},
	{"athleteImg", "athlete"},
	{"prospectImg", "prospect"},
	{"alumniImg", "alumni"},
}

func setRoleUrl(images *schema.UserImages, role, url string) string {
	var old string
	switch role {
	case "staff":
		old, images.StaffUrl = images.StaffUrl, url
	case "athlete":
		old, images.AthleteUrl = images.AthleteUrl, url
	case "prospect":
		old, images.ProspectUrl = images.ProspectUrl, url
	case "alumni":
		old, images.AlumniUrl = images.AlumniUrl, url
	}
	return old
}

// uploadRoleImages stores every provided role image before any rows are
// written, so the db only ever references objects that exist. Returns the new
// url per role.
func (s *UserService) uploadRoleImages(r *http.Request) (map[string]string, error) {
	urls := make(map[string]string)
	for _, ri := range roleImageFields {
		header, ok := formFileHeader(r, ri.field)
		if !ok {
			continue
		}
		url, _, err := uploadFormFile(r.Context(), s.store, r, ri.field, storage.UserImageKey(ri.role, header.Filename))
		if err != nil {
			return nil, err
		}
		urls[ri.role] = url
	}
	return urls, nil
}

func (s *UserService) List(w http.ResponseWriter, r *http.Request) {
	var users []schema.User
	result := s.db.Preload("Coach").Preload("Athlete").Preload("Prospect").Preload("Alumni").Preload("Images").Find(&users)
	if result.Error != nil {
		slog.Error("sql error listing users", "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error listing users: %v", schema.ErrDbAccessFailed))
		return
	}

	utils.WriteJsonResponse(w, users)
}

func (s *UserService) Get(w http.ResponseWriter, r *http.Request) {
	userId, err := utils.URLParamID(r, "user_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The user row and its images row are independent reads, fetch them
	// concurrently.
	var user schema.User
	var images schema.UserImages
	var imagesFound bool

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		result := s.db.WithContext(ctx).Preload("Coach").Preload("Athlete").Preload("Prospect").Preload("Alumni").First(&user, "id = ?", userId)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return CodedError(schema.ErrUserNotFound, http.StatusNotFound)
			}
			slog.Error("sql error loading user", "user_id", userId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}
		return nil
	})
	g.Go(func() error {
		result := s.db.WithContext(ctx).First(&images, "user_id = ?", userId)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			slog.Error("sql error loading user images", "user_id", userId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}
		imagesFound = true
		return nil
	})

	if err := g.Wait(); err != nil {
		utils.WriteError(w, GetResponseCode(err), fmt.Sprintf("error getting user %v: %v", userId, err))
		return
	}

	if imagesFound {
		user.Images = &images
	}
	utils.WriteJsonResponse(w, user)
}

func (s *UserService) Create(w http.ResponseWriter, r *http.Request) {
	if !parseMultipartForm(w, r) {
		return
	}

	form := parseUserForm(r)
	if form.Name == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing user name")
		return
	}

	urls, err := s.uploadRoleImages(r)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var userId uint
	err = s.db.Transaction(func(txn *gorm.DB) error {
		user := schema.User{
			Name:       form.Name,
			IsCoach:    form.IsCoach,
			IsAthlete:  form.IsAthlete,
			IsProspect: form.IsProspect,
			IsAlumni:   form.IsAlumni,
			IsActive:   form.IsActive,
			IsScouted:  form.IsScouted,
		}
		if result := txn.Create(&user); result.Error != nil {
			slog.Error("sql error creating user", "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}
		userId = user.Id

		if form.IsCoach {
			coach := schema.Coach{UserId: user.Id, Title: form.CoachTitle, Description: form.CoachDescription, IsSeniorStaff: form.IsSeniorStaff}
			if result := txn.Create(&coach); result.Error != nil {
				slog.Error("sql error creating coach", "user_id", user.Id, "error", result.Error)
				return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
			}
		}

		if form.IsAthlete {
			athlete := schema.Athlete{UserId: user.Id, Level: form.AthleteLevel}
			if result := txn.Create(&athlete); result.Error != nil {
				slog.Error("sql error creating athlete", "user_id", user.Id, "error", result.Error)
				return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
			}
		}

		if form.IsProspect {
			prospect := schema.Prospect{
				UserId: user.Id, School: form.ProspectSchool, Email: form.ProspectEmail,
				Phone: form.ProspectPhone, Gpa: form.ProspectGpa, GraduationYear: form.ProspectGraduationYear,
				Instagram: form.ProspectInstagram, Twitter: form.ProspectTwitter,
			}
			if result := txn.Create(&prospect); result.Error != nil {
				slog.Error("sql error creating prospect", "user_id", user.Id, "error", result.Error)
				return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
			}
		}

		if form.IsAlumni {
			alumni := schema.Alumni{UserId: user.Id, School: form.AlumniSchool, Year: form.AlumniYear, Description: form.AlumniDescription}
			if result := txn.Create(&alumni); result.Error != nil {
				slog.Error("sql error creating alumni", "user_id", user.Id, "error", result.Error)
				return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
			}
		}

		images := schema.UserImages{UserId: user.Id}
		for role, url := range urls {
			setRoleUrl(&images, role, url)
		}
		if result := txn.Create(&images); result.Error != nil {
			slog.Error("sql error creating user images", "user_id", user.Id, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, GetResponseCode(err), fmt.Sprintf("error creating user: %v", err))
		return
	}

	user, err := schema.GetUser(userId, s.db)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error loading created user: %v", err))
		return
	}

	slog.Info("created user", "user_id", userId, "name", form.Name)
	utils.WriteJsonResponse(w, user)
}

// Update diffs the desired role set against the existing sub rows inside one
// transaction: a flag turning true creates the missing row, true with an
// existing row updates it, false deletes it. Storage objects of deleted rows
// are removed only after the transaction commits.
func (s *UserService) Update(w http.ResponseWriter, r *http.Request) {
	userId, err := utils.URLParamID(r, "user_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !parseMultipartForm(w, r) {
		return
	}
	form := parseUserForm(r)

	existing, err := schema.GetUser(userId, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrUserNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	newUrls, err := s.uploadRoleImages(r)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var staleUrls []string
	err = s.db.Transaction(func(txn *gorm.DB) error {
		user := existing
		user.Name = form.Name
		user.IsCoach = form.IsCoach
		user.IsAthlete = form.IsAthlete
		user.IsProspect = form.IsProspect
		user.IsAlumni = form.IsAlumni
		user.IsActive = form.IsActive
		user.IsScouted = form.IsScouted
		if result := txn.Omit("Coach", "Athlete", "Prospect", "Alumni", "Images").Save(&user); result.Error != nil {
			slog.Error("sql error updating user", "user_id", userId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		stale, err := s.syncRoles(txn, &existing, form, newUrls)
		if err != nil {
			return err
		}
		staleUrls = stale
		return nil
	})

	if err != nil {
		utils.WriteError(w, GetResponseCode(err), fmt.Sprintf("error updating user %v: %v", userId, err))
		return
	}

	deleteObjects(r.Context(), s.store, staleUrls)

	user, err := schema.GetUser(userId, s.db)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("error loading updated user: %v", err))
		return
	}

	slog.Info("updated user", "user_id", userId)
	utils.WriteJsonResponse(w, user)
}

// syncRoles applies the role diff for an update. It returns the storage urls
// that became unreferenced and must be deleted after commit.
func (s *UserService) syncRoles(txn *gorm.DB, existing *schema.User, form userForm, newUrls map[string]string) ([]string, error) {
	var stale []string

	fail := func(what string, err error) error {
		slog.Error("sql error syncing user roles", "what", what, "user_id", existing.Id, "error", err)
		return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
	}

	images := existing.Images
	if images == nil {
		images = &schema.UserImages{UserId: existing.Id}
	}

	// coach
	switch {
	case form.IsCoach && existing.Coach != nil:
		coach := *existing.Coach
		coach.Title, coach.Description, coach.IsSeniorStaff = form.CoachTitle, form.CoachDescription, form.IsSeniorStaff
		if err := txn.Save(&coach).Error; err != nil {
			return nil, fail("update coach", err)
		}
	case form.IsCoach:
		coach := schema.Coach{UserId: existing.Id, Title: form.CoachTitle, Description: form.CoachDescription, IsSeniorStaff: form.IsSeniorStaff}
		if err := txn.Create(&coach).Error; err != nil {
			return nil, fail("create coach", err)
		}
	case existing.Coach != nil:
		if err := txn.Delete(existing.Coach).Error; err != nil {
			return nil, fail("delete coach", err)
		}
		stale = append(stale, setRoleUrl(images, "staff", ""))
	}

	// athlete; dropping the athlete role removes its media, scores,
	// achievements, and videos as well
	switch {
	case form.IsAthlete && existing.Athlete != nil:
		athlete := *existing.Athlete
		athlete.Level = form.AthleteLevel
		if err := txn.Omit("Media", "Scores", "Achievements", "Videos").Save(&athlete).Error; err != nil {
			return nil, fail("update athlete", err)
		}
	case form.IsAthlete:
		athlete := schema.Athlete{UserId: existing.Id, Level: form.AthleteLevel}
		if err := txn.Create(&athlete).Error; err != nil {
			return nil, fail("create athlete", err)
		}
	case existing.Athlete != nil:
		urls, err := deleteAthleteRows(txn, existing.Athlete.Id)
		if err != nil {
			return nil, fail("delete athlete rows", err)
		}
		stale = append(stale, urls...)
		if err := txn.Delete(&schema.Athlete{}, "id = ?", existing.Athlete.Id).Error; err != nil {
			return nil, fail("delete athlete", err)
		}
		stale = append(stale, setRoleUrl(images, "athlete", ""))
	}

	// prospect
	switch {
	case form.IsProspect && existing.Prospect != nil:
		prospect := *existing.Prospect
		prospect.School, prospect.Email, prospect.Phone = form.ProspectSchool, form.ProspectEmail, form.ProspectPhone
		prospect.Gpa, prospect.GraduationYear = form.ProspectGpa, form.ProspectGraduationYear
		prospect.Instagram, prospect.Twitter = form.ProspectInstagram, form.ProspectTwitter
		if err := txn.Save(&prospect).Error; err != nil {
			return nil, fail("update prospect", err)
		}
	case form.IsProspect:
		prospect := schema.Prospect{
			UserId: existing.Id, School: form.ProspectSchool, Email: form.ProspectEmail,
			Phone: form.ProspectPhone, Gpa: form.ProspectGpa, GraduationYear: form.ProspectGraduationYear,
			Instagram: form.ProspectInstagram, Twitter: form.ProspectTwitter,
		}
		if err := txn.Create(&prospect).Error; err != nil {
			return nil, fail("create prospect", err)
		}
	case existing.Prospect != nil:
		if err := txn.Delete(existing.Prospect).Error; err != nil {
			return nil, fail("delete prospect", err)
		}
		stale = append(stale, setRoleUrl(images, "prospect", ""))
	}

	// alumni
	switch {
	case form.IsAlumni && existing.Alumni != nil:
		alumni := *existing.Alumni
		alumni.School, alumni.Year, alumni.Description = form.AlumniSchool, form.AlumniYear, form.AlumniDescription
		if err := txn.Save(&alumni).Error; err != nil {
			return nil, fail("update alumni", err)
		}
	case form.IsAlumni:
		alumni := schema.Alumni{UserId: existing.Id, School: form.AlumniSchool, Year: form.AlumniYear, Description: form.AlumniDescription}
		if err := txn.Create(&alumni).Error; err != nil {
			return nil, fail("create alumni", err)
		}
	case existing.Alumni != nil:
		if err := txn.Delete(existing.Alumni).Error; err != nil {
			return nil, fail("delete alumni", err)
		}
		stale = append(stale, setRoleUrl(images, "alumni", ""))
	}

	for role, url := range newUrls {
		if old := setRoleUrl(images, role, url); old != "" {
			stale = append(stale, old)
		}
	}

	if err := txn.Save(images).Error; err != nil {
		return nil, fail("save user images", err)
	}

	return stale, nil
}

// deleteAthleteRows removes all rows owned by an athlete and returns the
// storage urls they referenced.
func deleteAthleteRows(txn *gorm.DB, athleteId uint) ([]string, error) {
	var mediaRows []schema.Media
	if err := txn.Find(&mediaRows, "athlete_id = ?", athleteId).Error; err != nil {
		return nil, err
	}

	urls := lo.FlatMap(mediaRows, func(m schema.Media, _ int) []string {
		return []string{m.MediaUrl, m.VideoThumbnail}
	})

	for _, model := range []interface{}{&schema.Media{}, &schema.Score{}, &schema.Achievement{}, &schema.Video{}} {
		if err := txn.Delete(model, "athlete_id = ?", athleteId).Error; err != nil {
			return nil, err
		}
	}

	return urls, nil
}

// Delete removes the user row and every dependent row in one transaction,
// then removes the referenced storage objects best effort.
func (s *UserService) Delete(w http.ResponseWriter, r *http.Request) {
	userId, err := utils.URLParamID(r, "user_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := schema.GetUser(userId, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrUserNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var urls []string
	if user.Images != nil {
		urls = append(urls, user.Images.StaffUrl, user.Images.AthleteUrl, user.Images.ProspectUrl, user.Images.AlumniUrl)
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		fail := func(what string, err error) error {
			slog.Error("sql error deleting user rows", "what", what, "user_id", userId, "error", err)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		if user.Athlete != nil {
			mediaUrls, err := deleteAthleteRows(txn, user.Athlete.Id)
			if err != nil {
				return fail("athlete rows", err)
			}
			urls = append(urls, mediaUrls...)
		}

		for _, model := range []interface{}{&schema.Alumni{}, &schema.Prospect{}, &schema.Athlete{}, &schema.Coach{}, &schema.UserImages{}} {
			if err := txn.Delete(model, "user_id = ?", userId).Error; err != nil {
				return fail("sub rows", err)
			}
		}

		if err := txn.Delete(&schema.User{}, "id = ?", userId).Error; err != nil {
			return fail("user", err)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, GetResponseCode(err), fmt.Sprintf("error deleting user %v: %v", userId, err))
		return
	}

	deleteObjects(r.Context(), s.store, urls)

	slog.Info("deleted user", "user_id", userId)
	utils.WriteSuccess(w)
}
