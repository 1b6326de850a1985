//go:build integration || !unit

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "colonial_vip/internal/adapters/http_server"
	redisad "colonial_vip/internal/adapters/redis"
	"colonial_vip/internal/app"
	"colonial_vip/internal/domain"
	mysqlrepo "colonial_vip/internal/storage/mysql"
)

// ---------- helpers ----------
func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func seedTiers(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, row := range []struct {
		id   int64
		name string
		req  int64
	}{
		{1, "Bronze", 0},
		{2, "Silver", 100},
		{3, "Gold", 500},
	} {
		if _, err := db.Exec(
			`INSERT INTO loyalty_tiers (id, name, points_requirement) VALUES (?, ?, ?)`,
			row.id, row.name, row.req); err != nil {
			t.Fatalf("seed tier %s: %v", row.name, err)
		}
	}
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

// ---------- the test ----------
func TestHTTP_EndToEnd_TierTransitions(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=loyalty",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "loyalty")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	seedTiers(t, db)

	// Real wiring: repo + redis cache + services + router.
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	repo := mysqlrepo.New(db)

	h := &httpserver.Handlers{
		Reservations: app.NewReservationService(repo, repo, repo, cache),
		Customers:    app.NewCustomerService(repo, repo, cache, 5*time.Minute),
		Benefits:     app.NewBenefitService(repo, cache, 5*time.Minute),
	}
	srv := httpserver.New(0, 0) // rate limiter off for the test
	srv.MountHandlers(h)
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// Enroll a member; the floor tier comes from the catalog.
	res := doJSON(t, http.MethodPost, ts.URL+"/clients", map[string]any{
		"ID": "cust-e2e", "Email": "e2e@example.com", "Country": "CO",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create client status %d", res.StatusCode)
	}
	c := decode[domain.Customer](t, res)
	if c.TierID != 1 || c.Points != 0 {
		t.Fatalf("unexpected enrollment: %+v", c)
	}

	// A 120-point reservation promotes to Silver.
	res = doJSON(t, http.MethodPost, ts.URL+"/reservations", map[string]any{
		"CustomerID": "cust-e2e", "Nights": 2, "Points": 120,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create reservation status %d", res.StatusCode)
	}
	rv := decode[domain.Reservation](t, res)

	res = doJSON(t, http.MethodGet, ts.URL+"/clients/cust-e2e", nil)
	c = decode[domain.Customer](t, res)
	if c.Points != 120 || c.TierID != 2 {
		t.Fatalf("expected Silver after reservation, got %+v", c)
	}

	// Raising the reservation past 500 skips straight to Gold.
	res = doJSON(t, http.MethodPut, fmt.Sprintf("%s/reservations/%d", ts.URL, rv.ID), map[string]any{
		"Points": 600,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update reservation status %d", res.StatusCode)
	}
	res = doJSON(t, http.MethodGet, ts.URL+"/clients/cust-e2e", nil)
	c = decode[domain.Customer](t, res)
	if c.Points != 600 || c.TierID != 3 {
		t.Fatalf("expected Gold after update, got %+v", c)
	}

	// Deleting the only reservation demotes back to the floor.
	res = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/reservations/%d", ts.URL, rv.ID), nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete reservation status %d", res.StatusCode)
	}
	res.Body.Close()
	res = doJSON(t, http.MethodGet, ts.URL+"/clients/cust-e2e", nil)
	c = decode[domain.Customer](t, res)
	if c.Points != 0 || c.TierID != 1 {
		t.Fatalf("expected Bronze after delete, got %+v", c)
	}

	// Error mapping: unknown ids are problem+json 404s.
	res = doJSON(t, http.MethodGet, ts.URL+"/reservations/424242", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem+json, got %s", ct)
	}
	res.Body.Close()

	// Benefits ride the same tier catalog.
	res = doJSON(t, http.MethodPost, ts.URL+"/benefits/tier/2", map[string]any{"Title": "Late checkout"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create benefit status %d", res.StatusCode)
	}
	res.Body.Close()
	res = doJSON(t, http.MethodGet, ts.URL+"/benefits/tier/2", nil)
	benefits := decode[[]domain.Benefit](t, res)
	if len(benefits) != 1 || benefits[0].Title != "Late checkout" {
		t.Fatalf("unexpected benefits: %+v", benefits)
	}
}
