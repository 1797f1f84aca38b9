package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/povertyline/server/internal/handlers/testutil"
)

type referenceItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func seededReferences(t *testing.T, env *testutil.Env, token string) (referenceItem, referenceItem) {
	t.Helper()

	w := env.Request(http.MethodGet, "/api/regions", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var regions []referenceItem
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &regions)
	require.NotEmpty(t, regions)

	w = env.Request(http.MethodGet, "/api/social-backgrounds", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var backgrounds []referenceItem
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &backgrounds)
	require.NotEmpty(t, backgrounds)

	return regions[0], backgrounds[0]
}

type recordPayload struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	Income           float64 `json:"income"`
	EducationLevel   string  `json:"education_level"`
	EmploymentStatus string  `json:"employment_status"`
	Region           *struct {
		Name string `json:"name"`
	} `json:"region"`
	SocialBackground *struct {
		Name string `json:"name"`
	} `json:"social_background"`
}

func TestRecordHandler_CreateAndGet(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateVerifiedUser("RecordPassw0rd!")
	token := env.Login(user.Username, "RecordPassw0rd!").AccessToken
	region, background := seededReferences(t, env, token)

	created := env.Request(http.MethodPost, "/api/records", map[string]any{
		"region_id":            region.ID,
		"social_background_id": background.ID,
		"income":               120.5,
		"education_level":      "Secondary",
		"employment_status":    "Informal",
	}, token)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	var record recordPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, created).Data, &record)
	require.Equal(t, user.ID, record.UserID)
	require.Equal(t, 120.5, record.Income)
	require.NotNil(t, record.Region)
	require.Equal(t, region.Name, record.Region.Name)
	require.NotNil(t, record.SocialBackground)
	require.Equal(t, background.Name, record.SocialBackground.Name)

	// Any authenticated user can read a record with references resolved
	reader := env.CreateVerifiedUser("RecordPassw0rd!")
	readerToken := env.Login(reader.Username, "RecordPassw0rd!").AccessToken
	got := env.Request(http.MethodGet, "/api/records/"+record.ID, nil, readerToken)
	require.Equal(t, http.StatusOK, got.Code)

	var fetched recordPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, got).Data, &fetched)
	require.Equal(t, record.ID, fetched.ID)
	require.Equal(t, region.Name, fetched.Region.Name)
}

func TestRecordHandler_CreateRejectsBadReference(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateVerifiedUser("RecordPassw0rd!")
	token := env.Login(user.Username, "RecordPassw0rd!").AccessToken
	_, background := seededReferences(t, env, token)

	w := env.Request(http.MethodPost, "/api/records", map[string]any{
		"region_id":            "missing-region",
		"social_background_id": background.ID,
		"income":               10,
	}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "REFERENCE_NOT_FOUND", testutil.DecodeResponse(t, w).Error.Code)
}

func TestRecordHandler_OwnerOnlyMutation(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateVerifiedUser("RecordPassw0rd!")
	ownerToken := env.Login(owner.Username, "RecordPassw0rd!").AccessToken
	region, background := seededReferences(t, env, ownerToken)

	created := env.Request(http.MethodPost, "/api/records", map[string]any{
		"region_id":            region.ID,
		"social_background_id": background.ID,
		"income":               300,
	}, ownerToken)
	require.Equal(t, http.StatusCreated, created.Code)
	var record recordPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, created).Data, &record)

	intruder := env.CreateVerifiedUser("RecordPassw0rd!")
	intruderToken := env.Login(intruder.Username, "RecordPassw0rd!").AccessToken

	// Foreign mutation is indistinguishable from a missing record
	update := env.Request(http.MethodPut, "/api/records/"+record.ID, map[string]any{
		"income": 1,
	}, intruderToken)
	require.Equal(t, http.StatusNotFound, update.Code)
	require.Equal(t, "RECORD_NOT_FOUND", testutil.DecodeResponse(t, update).Error.Code)

	del := env.Request(http.MethodDelete, "/api/records/"+record.ID, nil, intruderToken)
	require.Equal(t, http.StatusNotFound, del.Code)

	// The owner can still update and delete
	update = env.Request(http.MethodPut, "/api/records/"+record.ID, map[string]any{
		"employment_status": "Seasonal",
	}, ownerToken)
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())
	var updated recordPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, update).Data, &updated)
	require.Equal(t, "Seasonal", updated.EmploymentStatus)
	require.Equal(t, 300.0, updated.Income)

	del = env.Request(http.MethodDelete, "/api/records/"+record.ID, nil, ownerToken)
	require.Equal(t, http.StatusOK, del.Code)

	gone := env.Request(http.MethodGet, "/api/records/"+record.ID, nil, ownerToken)
	require.Equal(t, http.StatusNotFound, gone.Code)
}

func TestRecordHandler_ListWithFilters(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateVerifiedUser("RecordPassw0rd!")
	token := env.Login(user.Username, "RecordPassw0rd!").AccessToken
	region, background := seededReferences(t, env, token)

	for _, income := range []float64{0, 75.25, 150, 225} {
		w := env.Request(http.MethodPost, "/api/records", map[string]any{
			"region_id":            region.ID,
			"social_background_id": background.ID,
			"income":               income,
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.Request(http.MethodGet, "/api/records?min_income=75.25&max_income=150", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	require.Equal(t, int64(2), resp.Meta.Total)

	// min_income=0 is a real bound, not an absent filter
	w = env.Request(http.MethodGet, "/api/records?min_income=0", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(4), testutil.DecodeResponse(t, w).Meta.Total)

	// Pagination clamps per_page and reports totals for empty pages
	w = env.Request(http.MethodGet, "/api/records?page=2&per_page=3", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = testutil.DecodeResponse(t, w)
	var items []recordPayload
	testutil.DecodeInto(t, resp.Data, &items)
	require.Len(t, items, 1)
	require.Equal(t, int64(4), resp.Meta.Total)
	require.Equal(t, 2, resp.Meta.TotalPages)

	// A malformed bound is rejected
	w = env.Request(http.MethodGet, "/api/records?min_income=abc", nil, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// A region filter that matches nothing yields an empty page
	w = env.Request(http.MethodGet, "/api/records?region=atlantis", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(0), testutil.DecodeResponse(t, w).Meta.Total)
}
