package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/apiclient"
	"user-console/internal/domain"
	"user-console/internal/repo"
	"user-console/internal/transport/http/handler"
	mdw "user-console/internal/transport/http/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

type orderMod struct {
	name string
	prio int
	seen *[]string
}

func (m orderMod) Priority() int { return m.prio }
func (m orderMod) MountAPI(*gin.RouterGroup) {
	*m.seen = append(*m.seen, m.name)
}

type plainMod struct{ seen *[]string }

func (m plainMod) MountAPI(*gin.RouterGroup) { *m.seen = append(*m.seen, "plain") }

func TestMountAllAPIOrdersByPriority(t *testing.T) {
	var seen []string
	MountAllAPI(gin.New().Group("/"),
		plainMod{&seen},
		orderMod{"late", 200, &seen},
		orderMod{"early", 1, &seen},
	)
	if strings.Join(seen, ",") != "early,plain,late" {
		t.Fatalf("order = %v", seen)
	}
}

func TestAPIEngineServesContract(t *testing.T) {
	mem := repo.NewMemoryUserRepo()
	r := NewAPIEngine(zap.NewNop(), DefaultLimits(), handler.NewUserHandler(mem, zap.NewNop()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Header().Get(mdw.KeyRequestID) == "" {
		t.Fatalf("health: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, APIPrefix+"/addUser", bytes.NewBufferString(`{"name":"Kurtis","email":"telly@billy.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, APIPrefix+"/userUpdate/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("cors headers = %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatal("metrics not exposed")
	}
}

func TestAPIEngineRejectsLargeBody(t *testing.T) {
	lim := DefaultLimits()
	lim.MaxBody = 32
	r := NewAPIEngine(zap.NewNop(), lim, handler.NewUserHandler(repo.NewMemoryUserRepo(), zap.NewNop()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, APIPrefix+"/addUser",
		bytes.NewBufferString(`{"name":"`+strings.Repeat("x", 64)+`","email":"a@b.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d", rec.Code)
	}
}

// 控制台 + 参考后端端到端
func TestConsoleAgainstReferenceBackend(t *testing.T) {
	mem := repo.NewMemoryUserRepo(domain.User{
		ID: "a1", Name: "Leanne Graham", Email: "sincere@april.com",
		Address: []domain.Address{{City: "Gwenborough", Zipcode: "929983", Geo: []float64{}}},
	})
	backend := httptest.NewServer(NewAPIEngine(zap.NewNop(), DefaultLimits(), handler.NewUserHandler(mem, zap.NewNop())))
	t.Cleanup(backend.Close)

	api, err := apiclient.New(backend.URL + APIPrefix)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	tmpl, err := handler.ParseTemplates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	console := httptest.NewServer(NewConsoleEngine(zap.NewNop(), tmpl, handler.NewConsoleHandler(api, zap.NewNop(), handler.ConsoleOptions{})))
	t.Cleanup(console.Close)

	res, err := http.PostForm(console.URL+"/users", url.Values{
		"token": {"e2e-create"},
		"name":  {"Chelsey Dietrich"}, "email": {"lucio@annie.com"}, "phone": {"2549541289"},
		"company": {"Keebler LLC"}, "city": {"Roscoeview"}, "zipcode": {"33263"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	page, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK || !strings.Contains(string(page), "Chelsey Dietrich") {
		t.Fatalf("list after create: %d %s", res.StatusCode, page)
	}

	us, _ := mem.List(t.Context())
	if len(us) != 2 {
		t.Fatalf("users = %+v", us)
	}
	created := us[1]

	res, err = http.PostForm(console.URL+"/users/"+created.ID+"/delete", url.Values{"confirm": {"yes"}})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	res.Body.Close()
	if u, _ := mem.FindByID(t.Context(), created.ID); u != nil {
		t.Fatal("user not deleted")
	}

	res, err = http.Get(console.URL + "/users/a1")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	page, _ = io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK || !strings.Contains(string(page), "Gwenborough") {
		t.Fatalf("detail: %d %s", res.StatusCode, page)
	}

	res, err = http.Get(console.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	var h map[string]any
	_ = json.NewDecoder(res.Body).Decode(&h)
	res.Body.Close()
	if h["ok"] != float64(1) {
		t.Fatalf("health = %v", h)
	}
}
