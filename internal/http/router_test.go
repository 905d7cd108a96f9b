package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/data/repos"
	"github.com/yungbote/slideforge-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/slideforge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/slideforge-backend/internal/http/middleware"
	"github.com/yungbote/slideforge-backend/internal/llm/mock"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/pipeline/orchestrator"
	"github.com/yungbote/slideforge-backend/internal/pipeline/profile"
	"github.com/yungbote/slideforge-backend/internal/realtime"
	"github.com/yungbote/slideforge-backend/internal/services"
)

type stubSearcher struct{}

func (stubSearcher) Configured() bool { return true }

func (stubSearcher) Search(ctx context.Context, query, orientation string, perPage int) ([]deck.Photo, error) {
	return []deck.Photo{{ID: 1, Photographer: "Ana", Alt: "calm " + query, Src: deck.PhotoSources{Large: "https://img/" + query}}}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(db, log)
	presentationRepo := repos.NewPresentationRepo(db, log)
	historyRepo := repos.NewPromptHistoryRepo(db, log)
	linkRepo := repos.NewTransferLinkRepo(db, log)

	set, err := profile.Load("")
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	pipe := orchestrator.NewForProfile(log, profile.PromptProfile{Profile: set.Default(), Gateway: mock.New()}, stubSearcher{}, nil, 2, nil)
	hub := realtime.NewSSEHub(log)

	authService := services.NewAuthService(db, log, userRepo, "router-secret", time.Hour)
	generation := services.NewGenerationService(db, log, pipe, presentationRepo, historyRepo, &services.HubEmitter{Hub: hub})

	r := NewRouter(RouterConfig{
		Log:                 log,
		AuthHandler:         httpH.NewAuthHandler(authService),
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, authService),
		RealtimeHandler:     httpH.NewRealtimeHandler(log, hub),
		GenerationHandler:   httpH.NewGenerationHandler(log, generation),
		PresentationHandler: httpH.NewPresentationHandler(services.NewPresentationService(log, presentationRepo)),
		DesignHandler:       httpH.NewDesignHandler(services.NewDesignService(log, stubSearcher{})),
		TransferHandler:     httpH.NewTransferHandler(services.NewTransferService(db, log, userRepo, presentationRepo, historyRepo, linkRepo)),
		HealthHandler:       httpH.NewHealthHandler(db),
	})
	return r, authService
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID     string `json:"id"`
		IsDemo bool   `json:"is_demo"`
	} `json:"user"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
}

func streamBody() map[string]any {
	return map[string]any{
		"presentationTitle": "Sunday",
		"theme":             "worship",
		"style":             "warm",
		"numSlides":         3,
		"slides": []map[string]string{
			{"id": "1", "content": "God is good"},
			{"id": "2", "content": "He never fails"},
			{"id": "3", "content": "Trust Him always"},
		},
		"useUniformDesign": false,
		"useVerbatim":      true,
	}
}

func TestHealthAndAuthRequired(t *testing.T) {
	r, _ := newTestRouter(t)
	if rec := do(t, r, http.MethodGet, "/healthcheck", "", nil); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health: %d %s", rec.Code, rec.Body)
	}
	if rec := do(t, r, http.MethodGet, "/api/presentations", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/api/presentations", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodPost, "/api/register", "", map[string]string{"email": "ana@example.com", "password": "correct-horse"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body)
	}
	rec = do(t, r, http.MethodPost, "/api/register", "", map[string]string{"email": "ana@example.com", "password": "correct-horse"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d", rec.Code)
	}
	rec = do(t, r, http.MethodPost, "/api/login", "", map[string]string{"email": "ana@example.com", "password": "nope-nope"})
	if rec.Code != http.StatusUnauthorized || decode[errorResponse](t, rec).Error.Code != "invalid_credentials" {
		t.Fatalf("bad login: %d %s", rec.Code, rec.Body)
	}
	rec = do(t, r, http.MethodPost, "/api/login", "", map[string]string{"email": "ana@example.com", "password": "correct-horse"})
	if rec.Code != http.StatusOK || decode[tokenResponse](t, rec).AccessToken == "" {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}
}

func TestStreamingGenerationAndPresentations(t *testing.T) {
	r, _ := newTestRouter(t)
	demo := decode[tokenResponse](t, do(t, r, http.MethodPost, "/api/demo-user", "", nil))
	if !demo.User.IsDemo || demo.AccessToken == "" {
		t.Fatalf("demo user: %+v", demo)
	}

	rec := do(t, r, http.MethodPost, "/api/generate-slides/stream", demo.AccessToken, streamBody())
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/event-stream") {
		t.Fatalf("stream: %d %v", rec.Code, rec.Header())
	}
	var events []deck.Progress
	sc := bufio.NewScanner(rec.Body)
	sc.Buffer(make([]byte, 0, 64<<10), 8<<20)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var p deck.Progress
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &p); err != nil {
			t.Fatalf("frame %q: %v", line, err)
		}
		events = append(events, p)
	}
	if len(events) == 0 || events[0].Step != deck.StepInit {
		t.Fatalf("events: %+v", events)
	}
	last := events[len(events)-1]
	if last.Type != deck.ProgressComplete || last.Percentage != 100 {
		t.Fatalf("last: %+v", last)
	}
	seen := map[int]bool{}
	for _, ev := range events {
		if ev.SlideIndex > 0 {
			seen[ev.SlideIndex] = true
		}
	}
	if len(seen) != 3 {
		t.Fatalf("slide indexes: %v", seen)
	}

	list := decode[struct {
		Presentations []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"presentations"`
	}](t, do(t, r, http.MethodGet, "/api/presentations", demo.AccessToken, nil))
	if len(list.Presentations) != 1 || list.Presentations[0].Title != "Sunday" {
		t.Fatalf("list: %+v", list)
	}
	id := list.Presentations[0].ID

	rec = do(t, r, http.MethodGet, "/api/presentations/"+id+"/editor?theme=minimal-light", demo.AccessToken, nil)
	doc := decode[struct {
		Slides []struct {
			Elements []struct {
				ID      string `json:"id"`
				Content string `json:"content"`
			} `json:"elements"`
			Meta struct {
				Theme string `json:"theme"`
			} `json:"meta"`
		} `json:"slides"`
	}](t, rec)
	if len(doc.Slides) != 3 || doc.Slides[0].Meta.Theme != "minimal-light" {
		t.Fatalf("editor doc: %s", rec.Body)
	}

	rec = do(t, r, http.MethodPatch, "/api/presentations", demo.AccessToken, map[string]string{"title": "Renamed"})
	if rec.Code != http.StatusBadRequest || decode[errorResponse](t, rec).Error.Message != "Presentation ID required" {
		t.Fatalf("patch without id: %d %s", rec.Code, rec.Body)
	}
	rec = do(t, r, http.MethodPatch, "/api/presentations", demo.AccessToken, map[string]string{"id": id, "title": "Renamed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", rec.Code, rec.Body)
	}

	// A real account claims the demo deck.
	real := decode[tokenResponse](t, do(t, r, http.MethodPost, "/api/register", "", map[string]string{"email": "real@example.com", "password": "correct-horse"}))
	rec = do(t, r, http.MethodPost, "/api/transfer-demo-data", demo.AccessToken, map[string]string{"demo_user_id": demo.User.ID})
	if rec.Code != http.StatusBadRequest || decode[errorResponse](t, rec).Error.Message != "Cannot transfer from demo user" {
		t.Fatalf("demo caller: %d %s", rec.Code, rec.Body)
	}
	rec = do(t, r, http.MethodPost, "/api/transfer-demo-data", real.AccessToken, map[string]string{"demo_user_id": demo.User.ID})
	if rec.Code != http.StatusOK || decode[map[string]any](t, rec)["success"] != true {
		t.Fatalf("transfer: %d %s", rec.Code, rec.Body)
	}
	if rec = do(t, r, http.MethodGet, "/api/presentations/"+id, real.AccessToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("claimed deck: %d", rec.Code)
	}

	if rec = do(t, r, http.MethodDelete, "/api/presentations", real.AccessToken, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("delete without id: %d", rec.Code)
	}
	rec = do(t, r, http.MethodDelete, "/api/presentations?id="+id, real.AccessToken, nil)
	if rec.Code != http.StatusOK || decode[map[string]any](t, rec)["success"] != true {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body)
	}
}

func TestStreamingValidationBeforeStreamOpens(t *testing.T) {
	r, _ := newTestRouter(t)
	demo := decode[tokenResponse](t, do(t, r, http.MethodPost, "/api/demo-user", "", nil))
	body := streamBody()
	body["numSlides"] = 40
	rec := do(t, r, http.MethodPost, "/api/generate-slides/stream", demo.AccessToken, body)
	if rec.Code != http.StatusBadRequest || strings.HasPrefix(rec.Header().Get("Content-Type"), "text/event-stream") {
		t.Fatalf("expected JSON 400, got %d %v", rec.Code, rec.Header())
	}
	er := decode[errorResponse](t, rec)
	if er.Error.Code != "validation_error" || len(er.Error.Details) != 1 || er.Error.Details[0].Field != "numSlides" {
		t.Fatalf("error: %+v", er)
	}
}

func TestBatchGeneration(t *testing.T) {
	r, _ := newTestRouter(t)
	demo := decode[tokenResponse](t, do(t, r, http.MethodPost, "/api/demo-user", "", nil))
	rec := do(t, r, http.MethodPost, "/api/generate-slides", demo.AccessToken, map[string]any{
		"title":             "Grace",
		"style":             "corporate",
		"notes":             "Grace finds us first.\nIt never lets go.",
		"presentationTitle": "Weekday",
		"numSlides":         2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("batch: %d %s", rec.Code, rec.Body)
	}
	out := decode[struct {
		Presentation struct {
			Title      string          `json:"title"`
			SlidesJSON json.RawMessage `json:"slides_json"`
		} `json:"presentation"`
	}](t, rec)
	var doc services.SlidesDocument
	if err := json.Unmarshal(out.Presentation.SlidesJSON, &doc); err != nil || len(doc.Slides) != 2 {
		t.Fatalf("slides_json: %s %v", out.Presentation.SlidesJSON, err)
	}
}

func TestDesignRoutes(t *testing.T) {
	r, _ := newTestRouter(t)
	demo := decode[tokenResponse](t, do(t, r, http.MethodPost, "/api/demo-user", "", nil))

	rec := do(t, r, http.MethodGet, "/api/design/images", demo.AccessToken, nil)
	if rec.Code != http.StatusBadRequest || decode[errorResponse](t, rec).Error.Message != "Query parameter required" {
		t.Fatalf("images without q: %d %s", rec.Code, rec.Body)
	}
	rec = do(t, r, http.MethodGet, "/api/design/images?q=sunrise", demo.AccessToken, nil)
	if photos := decode[[]deck.Photo](t, rec); len(photos) != 1 {
		t.Fatalf("images: %s", rec.Body)
	}

	rec = do(t, r, http.MethodPost, "/api/design/blob", demo.AccessToken, map[string]any{"color": "#ff0000", "seed": "abc"})
	if blob := decode[map[string]string](t, rec); !strings.Contains(blob["svg"], `fill="#ff0000"`) || blob["seed"] != "abc" {
		t.Fatalf("blob: %s", rec.Body)
	}
	rec = do(t, r, http.MethodPost, "/api/design/blob?format=png", demo.AccessToken, map[string]any{"seed": "abc"})
	if rec.Header().Get("Content-Type") != "image/png" || !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("png blob: %v", rec.Header())
	}

	rec = do(t, r, http.MethodGet, "/api/design/gradient?style=dark", demo.AccessToken, nil)
	if g := decode[deck.Gradient](t, rec); g.Primary() != "#0a0a0a" {
		t.Fatalf("gradient: %s", rec.Body)
	}
}

func TestBodyTagsReportFieldDetails(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/register", "", map[string]string{"email": "not-an-email", "password": "short"})
	er := decode[errorResponse](t, rec)
	if rec.Code != http.StatusBadRequest || er.Error.Code != "validation_error" || len(er.Error.Details) != 2 ||
		er.Error.Details[0].Field != "email" || er.Error.Details[1].Field != "password" {
		t.Fatalf("register: %d %+v", rec.Code, er)
	}

	rec = do(t, r, http.MethodPost, "/api/login", "", map[string]string{"email": "nobody@example.com", "password": "x"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login should not apply register rules: %d %s", rec.Code, rec.Body)
	}

	demo := decode[tokenResponse](t, do(t, r, http.MethodPost, "/api/demo-user", "", nil))
	rec = do(t, r, http.MethodPost, "/api/design/blob", demo.AccessToken, map[string]any{"color": `#fff"></path><script>alert(1)</script><path fill="`})
	er = decode[errorResponse](t, rec)
	if rec.Code != http.StatusBadRequest || len(er.Error.Details) != 1 || er.Error.Details[0].Field != "color" {
		t.Fatalf("blob color: %d %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Fatalf("markup echoed back: %s", rec.Body)
	}
}
