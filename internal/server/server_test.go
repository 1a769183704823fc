package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clique/internal/config"
	"clique/internal/matching"
	"clique/internal/middleware"
	"clique/internal/models"
	"clique/internal/repository"
	"clique/internal/scheduling"
	"clique/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "test",
		StoreDriver:        config.DriverMemory,
		RateLimitPerMinute: 60,
	}
}

func profile(id string, gender models.Gender, age int, interests ...string) models.UserProfile {
	return models.UserProfile{
		ID:        id,
		Name:      id,
		Age:       age,
		Gender:    gender,
		Bio:       "Thích đi cà phê cuối tuần",
		Email:     id + "@example.com",
		Interests: interests,
		Location:  "Hà Nội",
	}
}

func fixtureDoc() *models.Document {
	doc := models.NewDocument()
	doc.Users = []models.UserProfile{
		profile("an", models.GenderMale, 25, "coffee", "music"),
		profile("binh", models.GenderFemale, 27, "coffee", "gaming"),
		profile("chi", models.GenderFemale, 26, "coffee", "music"),
	}
	return doc
}

func newTestServer(t *testing.T, cfg *config.Config, doc *models.Document, rdb *redis.Client) *Server {
	t.Helper()
	st := store.New(repository.NewMemoryDocumentRepository(), store.DefaultKey)
	if doc != nil {
		require.NoError(t, st.Save(context.Background(), doc))
	}
	return NewServer(cfg, st, rdb)
}

func do(t *testing.T, s *Server, method, path, session string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, testConfig(), nil, nil)

	resp := do(t, s, "GET", "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, s, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "memory", checks["backend"])
	assert.Equal(t, "unavailable", checks["redis"])

	resp = do(t, s, "GET", "/metrics", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReadinessIgnoresRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s := newTestServer(t, testConfig(), nil, rdb)

	resp := do(t, s, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	checks := decode[map[string]any](t, resp)["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["redis"])

	mr.Close()
	start := time.Now()
	resp = do(t, s, "GET", "/health/ready", "", nil)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", body["status"])
	checks = body["checks"].(map[string]any)
	assert.Equal(t, "unhealthy", checks["redis"])
	assert.Equal(t, "healthy", checks["store"])
}

func TestSignupLoginAndMe(t *testing.T) {
	s := newTestServer(t, testConfig(), nil, nil)

	form := map[string]any{
		"name":      "Minh Anh",
		"age":       24,
		"gender":    "female",
		"bio":       "Mê phim và những buổi cà phê cuối tuần.",
		"email":     "minhanh@example.com",
		"location":  "Hà Nội",
		"interests": []string{"movies", "coffee"},
	}
	resp := do(t, s, "POST", "/api/users", "", form)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[models.UserProfile](t, resp)
	assert.NotEmpty(t, created.ID)

	resp = do(t, s, "POST", "/api/users", "", form)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, models.CodeConflict, decode[models.ErrorResponse](t, resp).Code)

	resp = do(t, s, "POST", "/api/session", "", map[string]string{"email": "MinhAnh@example.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decode[models.UserProfile](t, resp).ID)

	resp = do(t, s, "POST", "/api/session", "", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = do(t, s, "GET", "/api/me", "minhanh@example.com", nil)
	me := decode[map[string]*models.UserProfile](t, resp)
	require.NotNil(t, me["user"])
	assert.Equal(t, created.ID, me["user"].ID)

	resp = do(t, s, "GET", "/api/me", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, decode[map[string]*models.UserProfile](t, resp)["user"])

	resp = do(t, s, "GET", "/api/users/"+created.ID, "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = do(t, s, "GET", "/api/users/nobody", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSignupRejectsBadBody(t *testing.T) {
	s := newTestServer(t, testConfig(), nil, nil)

	req := httptest.NewRequest("POST", "/api/users", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, decode[models.ErrorResponse](t, resp).Code)
}

func TestDiscoveryAndSwipes(t *testing.T) {
	s := newTestServer(t, testConfig(), fixtureDoc(), nil)

	resp := do(t, s, "GET", "/api/discovery", "an@example.com", nil)
	feed := decode[[]matching.Candidate](t, resp)
	require.Len(t, feed, 2)
	assert.Equal(t, "chi", feed[0].Profile.ID)
	assert.Equal(t, 60, feed[0].Score)
	assert.Equal(t, "binh", feed[1].Profile.ID)
	assert.Equal(t, 50, feed[1].Score)

	resp = do(t, s, "GET", "/api/discovery?exclude=chi&limit=5", "an@example.com", nil)
	feed = decode[[]matching.Candidate](t, resp)
	require.Len(t, feed, 1)
	assert.Equal(t, "binh", feed[0].Profile.ID)

	resp = do(t, s, "GET", "/api/discovery", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]matching.Candidate](t, resp))

	resp = do(t, s, "POST", "/api/swipes/binh/like", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, models.CodeNoSession, decode[models.ErrorResponse](t, resp).Code)

	resp = do(t, s, "POST", "/api/swipes/binh/like", "an@example.com", nil)
	assert.False(t, decode[map[string]any](t, resp)["matched"].(bool))

	resp = do(t, s, "POST", "/api/swipes/an/like", "binh@example.com", nil)
	result := decode[map[string]any](t, resp)
	assert.True(t, result["matched"].(bool))
	assert.Equal(t, "an", result["partner"].(map[string]any)["id"])

	resp = do(t, s, "POST", "/api/swipes/chi/pass", "an@example.com", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, s, "GET", "/api/discovery/next", "an@example.com", nil)
	next := decode[map[string]*matching.Candidate](t, resp)
	assert.Nil(t, next["candidate"])

	resp = do(t, s, "POST", "/api/swipes/an/like", "an@example.com", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, s, "GET", "/api/matches", "an@example.com", nil)
	matches := decode[map[string]any](t, resp)
	assert.Len(t, matches["matches"], 1)
	assert.EqualValues(t, 0, matches["pendingLikes"])
}

func TestConversationFlow(t *testing.T) {
	doc := fixtureDoc()
	doc, _ = matching.ApplyLike(doc, "an", "binh")
	doc, _ = matching.ApplyLike(doc, "binh", "an")
	s := newTestServer(t, testConfig(), doc, nil)

	resp := do(t, s, "POST", "/api/conversations/chi/messages", "an@example.com", map[string]string{"content": "hi"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, models.CodeNotMatched, decode[models.ErrorResponse](t, resp).Code)

	resp = do(t, s, "POST", "/api/conversations/binh/messages", "an@example.com", map[string]string{"content": "chào em"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = do(t, s, "GET", "/api/conversations/an/messages", "binh@example.com", nil)
	msgs := decode[[]models.ChatMessage](t, resp)
	require.Len(t, msgs, 1)
	assert.Equal(t, "chào em", msgs[0].Content)

	resp = do(t, s, "GET", "/api/conversations", "binh@example.com", nil)
	inbox := decode[[]map[string]any](t, resp)
	require.Len(t, inbox, 1)
	assert.Equal(t, "an_binh", inbox[0]["conversationId"])
}

func TestSchedulingFlow(t *testing.T) {
	doc := fixtureDoc()
	doc, _ = matching.ApplyLike(doc, "an", "binh")
	doc, _ = matching.ApplyLike(doc, "binh", "an")
	s := newTestServer(t, testConfig(), doc, nil)

	day := time.Now().AddDate(0, 0, 2).Format(scheduling.DateLayout)
	evening := models.TimeSlot{Date: day, StartTime: "19:00", EndTime: "21:00"}
	morning := models.TimeSlot{Date: day, StartTime: "08:00", EndTime: "09:00"}

	resp := do(t, s, "PUT", "/api/availability", "an@example.com", map[string]any{"slots": []models.TimeSlot{evening, morning}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	saved := decode[map[string][]models.TimeSlot](t, resp)["slots"]
	require.Len(t, saved, 2)
	assert.NotEmpty(t, saved[0].Label)

	resp = do(t, s, "PUT", "/api/availability", "binh@example.com", map[string]any{"slots": []models.TimeSlot{evening}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, s, "PUT", "/api/availability", "", map[string]any{"slots": []models.TimeSlot{evening}})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = do(t, s, "GET", "/api/conversations/binh/schedule", "an@example.com", nil)
	view := decode[map[string]any](t, resp)
	assert.Len(t, view["commonSlots"], 1)

	resp = do(t, s, "POST", "/api/conversations/binh/selection", "an@example.com", morning)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeSlotNotShared, decode[models.ErrorResponse](t, resp).Code)

	resp = do(t, s, "POST", "/api/conversations/binh/selection", "an@example.com", evening)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = do(t, s, "POST", "/api/conversations/an/selection", "binh@example.com", evening)
	view = decode[map[string]any](t, resp)
	assert.NotNil(t, view["confirmed"])

	resp = do(t, s, "GET", "/api/appointments", "an@example.com", nil)
	appts := decode[[]map[string]any](t, resp)
	require.Len(t, appts, 1)
	assert.Equal(t, "binh", appts[0]["partner"].(map[string]any)["id"])

	resp = do(t, s, "GET", "/api/availability", "", nil)
	assert.Empty(t, decode[map[string][]models.TimeSlot](t, resp)["slots"])
}

func TestCatalogAndFlags(t *testing.T) {
	cfg := testConfig()
	cfg.FeatureFlags = "exclusive_swipes=on"
	s := newTestServer(t, cfg, fixtureDoc(), nil)

	resp := do(t, s, "GET", "/api/catalog", "", nil)
	catalog := decode[map[string]any](t, resp)
	assert.Len(t, catalog["hobbies"], len(models.Hobbies))
	assert.Len(t, catalog["provinces"], len(models.Provinces))

	resp = do(t, s, "GET", "/api/feature-flags", "an@example.com", nil)
	flags := decode[map[string]map[string]any](t, resp)
	assert.Equal(t, true, flags["evaluated"]["exclusive_swipes"])
	assert.Equal(t, "on", flags["raw"]["exclusive_swipes"])
}

func TestMutationsRateLimitedPerSession(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	cfg.Env = "production"
	cfg.RateLimitPerMinute = 2
	s := newTestServer(t, cfg, fixtureDoc(), rdb)

	assert.Equal(t, fiber.StatusNoContent, do(t, s, "POST", "/api/swipes/binh/pass", "an@example.com", nil).StatusCode)
	assert.Equal(t, fiber.StatusNoContent, do(t, s, "POST", "/api/swipes/chi/pass", "an@example.com", nil).StatusCode)
	resp := do(t, s, "POST", "/api/swipes/chi/pass", "an@example.com", nil)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, models.CodeRateLimited, decode[models.ErrorResponse](t, resp).Code)

	assert.Equal(t, fiber.StatusOK, do(t, s, "GET", "/api/discovery", "an@example.com", nil).StatusCode)
}
