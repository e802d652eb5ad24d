package utils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("17")
	assert.NoError(t, err)
	assert.Equal(t, uint(17), id)

	// Ids start at 1, so 0, empty, and non numeric values are all invalid.
	for _, param := range []string{"", "0", "-1", "NaN", "abc", "1.5"} {
		_, err := ParseID(param)
		assert.Error(t, err, "param %q should be invalid", param)
	}
}

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestFormBool(t *testing.T) {
	r := formRequest(url.Values{
		"a": {"true"}, "b": {"True"}, "c": {"1"}, "d": {""},
	})

	assert.True(t, FormBool(r, "a"))
	assert.False(t, FormBool(r, "b"))
	assert.False(t, FormBool(r, "c"))
	assert.False(t, FormBool(r, "d"))
	assert.False(t, FormBool(r, "missing"))
}

func TestFormFloat(t *testing.T) {
	r := formRequest(url.Values{
		"gpa": {" 3.85 "}, "bad": {"threeish"}, "empty": {""},
	})

	gpa := FormFloat(r, "gpa")
	assert.NotNil(t, gpa)
	assert.Equal(t, 3.85, *gpa)

	assert.Nil(t, FormFloat(r, "bad"))
	assert.Nil(t, FormFloat(r, "empty"))
	assert.Nil(t, FormFloat(r, "missing"))
}

func TestFormDate(t *testing.T) {
	r := formRequest(url.Values{
		"full": {"2026-05-01T10:30:00Z"},
		"day":  {"2026-05-01"},
		"year": {"2027"},
		"bad":  {"next tuesday"},
	})

	full := FormDate(r, "full")
	assert.NotNil(t, full)
	assert.Equal(t, time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC), *full)

	day := FormDate(r, "day")
	assert.NotNil(t, day)
	assert.Equal(t, 2026, day.Year())

	year := FormDate(r, "year")
	assert.NotNil(t, year)
	assert.Equal(t, 2027, year.Year())

	assert.Nil(t, FormDate(r, "bad"))
	assert.Nil(t, FormDate(r, "missing"))
}

func TestResponseEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJsonResponse(w, map[string]int{"id": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "data": {"id": 1}}`, w.Body.String())

	w = httptest.NewRecorder()
	WriteMessage(w, "Email already exists")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "message": "Email already exists"}`, w.Body.String())

	w = httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "Spam detected")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success": false, "error": "Spam detected"}`, w.Body.String())
}
