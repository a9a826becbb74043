package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pulseboard/internal/config"
	"pulseboard/internal/geoip"
	"pulseboard/internal/models"
	"pulseboard/internal/notifications"
	"pulseboard/internal/poll"
	"pulseboard/internal/repository"
	"pulseboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a Server on an in-memory database with routes
// registered, plus a stub geolocation endpoint so no test ever leaves the
// process.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Vote{}, &models.Comment{}, &models.CommentLike{}))

	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","country":"Japan","city":"Tokyo","regionName":"Tokyo"}`))
	}))
	t.Cleanup(geoSrv.Close)

	cfg := &config.Config{
		Port:           "3000",
		Env:            "test",
		GeoIPURL:       geoSrv.URL,
		GeoIPTimeoutMS: 1000,
	}

	voteRepo := repository.NewVoteRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:      cfg,
		db:          db,
		voteRepo:    voteRepo,
		commentRepo: commentRepo,
		geo:         geoip.NewResolver(geoSrv.URL, time.Second, nil),
		hub:         notifications.NewHub(),
	}
	s.voteService = service.NewVoteService(voteRepo, poll.Default())
	s.commentService = service.NewCommentService(commentRepo, s.voteService)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &decoded))
	}
	return resp, decoded
}
