package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/middleware"
	"strings"
	"time"

	"github.com/gorilla/schema"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}

func currentUserID(r *http.Request) string {
	userID, _ := middleware.UserIDFromContext(r.Context())
	return userID
}

func isForm(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// decodeRequest reads a JSON body, or an HTML form when the request carries
// one. Form fields use the same names as the JSON keys.
func decodeRequest(r *http.Request, dst any) error {
	if isForm(r) {
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		return formDecoder.Decode(dst, r.PostForm)
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respond answers form posts with a redirect to the listing page and
// everything else with JSON.
func respond(w http.ResponseWriter, r *http.Request, status int, body any, redirectTo string) {
	if redirectTo != "" && isForm(r) {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}
	writeJSON(w, status, body)
}

func writeStoreError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, notFound, http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// trimmed returns nil for a missing or blank optional text field.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// parseDate accepts a plain calendar date or an RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("date must be YYYY-MM-DD or RFC 3339")
	}
	return t.UTC(), nil
}

// parseMonth accepts YYYY-MM or a full date and returns the first of that
// month.
func parseMonth(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01", value); err == nil {
		return t, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return time.Time{}, errors.New("month must be YYYY-MM")
	}
	return db.MonthStart(t), nil
}

// percent returns part/whole as a percentage rounded to one decimal place.
func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
