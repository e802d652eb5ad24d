package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"

	"clubadmin/club/schema"

	"github.com/go-chi/chi/v5"
)

// statusError is returned when a request fails so tests can assert on the
// exact status code and error message.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %v", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type multipartForm struct {
	buf *bytes.Buffer
	w   *multipart.Writer
}

func newForm() *multipartForm {
	buf := new(bytes.Buffer)
	return &multipartForm{buf: buf, w: multipart.NewWriter(buf)}
}

func (f *multipartForm) Field(key, value string) *multipartForm {
	if err := f.w.WriteField(key, value); err != nil {
		panic(err)
	}
	return f
}

func (f *multipartForm) Fields(fields map[string]string) *multipartForm {
	for key, value := range fields {
		f.Field(key, value)
	}
	return f
}

// File attaches form file content with an explicit content type, which the
// media routes use to decide whether an upload is a video.
func (f *multipartForm) File(field, filename, contentType string, data []byte) *multipartForm {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%v"; filename="%v"`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := f.w.CreatePart(header)
	if err != nil {
		panic(err)
	}
	if _, err := part.Write(data); err != nil {
		panic(err)
	}
	return f
}

type httpTestRequest struct {
	api http.Handler

	method      string
	endpoint    string
	json        interface{}
	body        io.Reader
	contentType string
}

func newHttpTestRequest(api http.Handler, method, endpoint string) *httpTestRequest {
	return &httpTestRequest{api: api, method: method, endpoint: endpoint}
}

func (r *httpTestRequest) Json(data interface{}) *httpTestRequest {
	r.json = data
	return r
}

func (r *httpTestRequest) Form(form *multipartForm) *httpTestRequest {
	if err := form.w.Close(); err != nil {
		panic(err)
	}
	r.body = form.buf
	r.contentType = form.w.FormDataContentType()
	return r
}

// Do sends the request and parses the response envelope, unmarshalling the
// data payload into result when it is non nil. Non 200 responses become a
// statusError carrying the envelope's error message.
func (r *httpTestRequest) Do(result interface{}) error {
	env, err := r.send()
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("error parsing %v response from endpoint %v: %w", r.method, r.endpoint, err)
		}
	}

	return nil
}

// DoMessage is like Do but returns the envelope message field, used by the
// endpoints that respond with a message instead of data.
func (r *httpTestRequest) DoMessage() (string, error) {
	env, err := r.send()
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (r *httpTestRequest) send() (envelope, error) {
	if r.json != nil {
		body := new(bytes.Buffer)
		err := json.NewEncoder(body).Encode(r.json)
		if err != nil {
			return envelope{}, fmt.Errorf("error encoding json body for endpoint %v: %w", r.endpoint, err)
		}
		r.body = body
		r.contentType = "application/json"
	}

	req := httptest.NewRequest(r.method, r.endpoint, r.body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	w := httptest.NewRecorder()

	r.api.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("error parsing %v response from endpoint %v: %w", r.method, r.endpoint, err)
	}

	if res.StatusCode != http.StatusOK {
		return envelope{}, &statusError{Status: res.StatusCode, Message: env.Error}
	}

	return env, nil
}

type client struct {
	api chi.Router
}

func (c *client) Get(endpoint string) *httpTestRequest {
	return newHttpTestRequest(c.api, "GET", endpoint)
}

func (c *client) Post(endpoint string) *httpTestRequest {
	return newHttpTestRequest(c.api, "POST", endpoint)
}

func (c *client) Put(endpoint string) *httpTestRequest {
	return newHttpTestRequest(c.api, "PUT", endpoint)
}

func (c *client) Delete(endpoint string) *httpTestRequest {
	return newHttpTestRequest(c.api, "DELETE", endpoint)
}

func (c *client) listUsers() ([]schema.User, error) {
	var res []schema.User
	err := c.Get("/users").Do(&res)
	return res, err
}

func (c *client) getUser(userId uint) (schema.User, error) {
	var res schema.User
	err := c.Get(fmt.Sprintf("/users/%d", userId)).Do(&res)
	return res, err
}

func (c *client) createUser(form *multipartForm) (schema.User, error) {
	var res schema.User
	err := c.Post("/users").Form(form).Do(&res)
	return res, err
}

func (c *client) updateUser(userId uint, form *multipartForm) (schema.User, error) {
	var res schema.User
	err := c.Put(fmt.Sprintf("/users/%d", userId)).Form(form).Do(&res)
	return res, err
}

func (c *client) deleteUser(userId uint) error {
	return c.Delete(fmt.Sprintf("/users/%d", userId)).Do(nil)
}

func (c *client) listMedia(userId, athleteId uint) ([]schema.Media, error) {
	var res []schema.Media
	err := c.Get(fmt.Sprintf("/users/%d/media/%d", userId, athleteId)).Do(&res)
	return res, err
}

func (c *client) uploadMedia(userId, athleteId uint, form *multipartForm) ([]schema.Media, error) {
	var res []schema.Media
	err := c.Post(fmt.Sprintf("/users/%d/media/%d", userId, athleteId)).Form(form).Do(&res)
	return res, err
}

func (c *client) updateMedia(userId, mediaId uint, form *multipartForm) (schema.Media, error) {
	var res schema.Media
	err := c.Put(fmt.Sprintf("/users/%d/media?mediaId=%d", userId, mediaId)).Form(form).Do(&res)
	return res, err
}

func (c *client) deleteMedia(userId, mediaId uint) error {
	return c.Delete(fmt.Sprintf("/users/%d/media?mediaId=%d", userId, mediaId)).Do(nil)
}

func (c *client) listSponsors() ([]schema.Sponsor, error) {
	var res []schema.Sponsor
	err := c.Get("/sponsors").Do(&res)
	return res, err
}

func (c *client) createSponsor(form *multipartForm) (schema.Sponsor, error) {
	var res schema.Sponsor
	err := c.Post("/sponsors").Form(form).Do(&res)
	return res, err
}

func (c *client) updateSponsor(sponsorId string, form *multipartForm) (schema.Sponsor, error) {
	var res schema.Sponsor
	err := c.Put(fmt.Sprintf("/sponsors/%v", sponsorId)).Form(form).Do(&res)
	return res, err
}

func (c *client) deleteSponsor(sponsorId string) error {
	return c.Delete(fmt.Sprintf("/sponsors/%v", sponsorId)).Do(nil)
}

func (c *client) submitTryout(body map[string]string) (schema.Tryout, string, error) {
	env, err := c.Post("/tryouts").Json(body).send()
	if err != nil {
		return schema.Tryout{}, "", err
	}
	var tryout schema.Tryout
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &tryout); err != nil {
			return schema.Tryout{}, "", err
		}
	}
	return tryout, env.Message, nil
}

func (c *client) listTryouts() ([]schema.Tryout, error) {
	var res []schema.Tryout
	err := c.Get("/tryouts").Do(&res)
	return res, err
}

func (c *client) markTryoutRead(tryoutId uint) error {
	return c.Put(fmt.Sprintf("/tryouts/%d/read", tryoutId)).Do(nil)
}

type groupResult struct {
	Group          schema.Group           `json:"group"`
	CoachGroupLine *schema.CoachGroupLine `json:"coachGroupLine"`
}

func (c *client) updateGroup(programId, groupId string, form *multipartForm) (groupResult, error) {
	var res groupResult
	err := c.Put(fmt.Sprintf("/groups/%v/%v", programId, groupId)).Form(form).Do(&res)
	return res, err
}

func (c *client) deleteGroup(programId, groupId string) error {
	return c.Delete(fmt.Sprintf("/groups/%v/%v", programId, groupId)).Do(nil)
}

func (c *client) listScores(userId, athleteId uint) ([]schema.Score, error) {
	var res []schema.Score
	err := c.Get(fmt.Sprintf("/users/%d/athlete/%d/scores", userId, athleteId)).Do(&res)
	return res, err
}

func (c *client) createScore(userId, athleteId uint, form *multipartForm) (schema.Score, error) {
	var res schema.Score
	err := c.Post(fmt.Sprintf("/users/%d/athlete/%d/scores", userId, athleteId)).Form(form).Do(&res)
	return res, err
}

func (c *client) deleteScore(userId, athleteId, scoreId uint) error {
	return c.Delete(fmt.Sprintf("/users/%d/athlete/%d/scores/%d", userId, athleteId, scoreId)).Do(nil)
}

func (c *client) listAchievements(userId, athleteId uint) ([]schema.Achievement, error) {
	var res []schema.Achievement
	err := c.Get(fmt.Sprintf("/users/%d/athlete/%d/achievements", userId, athleteId)).Do(&res)
	return res, err
}

func (c *client) createAchievement(userId, athleteId uint, form *multipartForm) (schema.Achievement, error) {
	var res schema.Achievement
	err := c.Post(fmt.Sprintf("/users/%d/athlete/%d/achievements", userId, athleteId)).Form(form).Do(&res)
	return res, err
}

func (c *client) deleteAchievement(userId, athleteId, achievementId uint) error {
	return c.Delete(fmt.Sprintf("/users/%d/athlete/%d/achievements/%d", userId, athleteId, achievementId)).Do(nil)
}

func (c *client) listVideos(userId, athleteId uint) ([]schema.Video, error) {
	var res []schema.Video
	err := c.Get(fmt.Sprintf("/users/%d/athlete/%d/videos", userId, athleteId)).Do(&res)
	return res, err
}

func (c *client) createVideo(userId, athleteId uint, form *multipartForm) (schema.Video, error) {
	var res schema.Video
	err := c.Post(fmt.Sprintf("/users/%d/athlete/%d/videos", userId, athleteId)).Form(form).Do(&res)
	return res, err
}

func (c *client) deleteVideo(userId, athleteId, videoId uint) error {
	return c.Delete(fmt.Sprintf("/users/%d/athlete/%d/videos/%d", userId, athleteId, videoId)).Do(nil)
}

// newAthleteUser creates a user with the athlete role and returns the user
// and athlete ids.
func (c *client) newAthleteUser(name string) (uint, uint, error) {
	user, err := c.createUser(newForm().Fields(map[string]string{
		"name": name, "isAthlete": "true", "isActive": "true", "athleteLevel": "Level 10",
	}))
	if err != nil {
		return 0, 0, err
	}
	if user.Athlete == nil {
		return 0, 0, fmt.Errorf("created user %v has no athlete row", user.Id)
	}
	return user.Id, user.Athlete.Id, nil
}

// expectStatus extracts the statusError from a failed request so tests can
// assert on the exact code and message.
func expectStatus(err error, status int) (*statusError, bool) {
	var serr *statusError
	if !errors.As(err, &serr) {
		return nil, false
	}
	return serr, serr.Status == status
}
