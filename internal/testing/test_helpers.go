// test_helpers.go - end-to-end suite running the storefront on a temporary database
package testing

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/data"
	"storefront/internal/server"
)

// TestConfig holds configuration for test runs
type TestConfig struct {
	DBPath      string
	CatalogPath string
	TestDataDir string
}

// TestSuite provides utilities for integration testing
type TestSuite struct {
	Config  TestConfig
	App     *server.App
	Server  *httptest.Server
	Client  *http.Client
	DB      *sql.DB
	Catalog *catalog.Document
}

// NewTestSuite seeds a fresh database from TestCatalog and serves the full
// application from it.
func NewTestSuite(t *testing.T) *TestSuite {
	t.Helper()

	testDir := t.TempDir()
	cfg := TestConfig{
		DBPath:      filepath.Join(testDir, "storefront.db"),
		CatalogPath: filepath.Join(testDir, "catalog.yaml"),
		TestDataDir: testDir,
	}

	if err := writeTestCatalog(cfg.CatalogPath, TestCatalog()); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}

	suite := &TestSuite{
		Config: cfg,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
	t.Cleanup(suite.Cleanup)

	if err := suite.InitDatabase(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	app, err := server.New(suite.ServerConfig(), suite.DB)
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}
	suite.App = app
	suite.Server = httptest.NewServer(app.Handler())

	return suite
}

// ServerConfig is the configuration the suite runs the application with.
func (ts *TestSuite) ServerConfig() *config.Config {
	return &config.Config{
		Environment:   "test",
		ServerHost:    "127.0.0.1",
		ServerPort:    "0",
		DatabasePath:  ts.Config.DBPath,
		CatalogSeed:   ts.Config.CatalogPath,
		AllowedOrigin: "https://shop.example",
		DefaultShopID: ShopEnglish,
		Menu: config.MenuConfig{
			Levels:       config.DefaultMenuLevels,
			ColumnAmount: config.DefaultMenuColumnAmount,
			HoverDelay:   config.DefaultMenuHoverDelay,
		},
	}
}

// InitDatabase creates the schema and seeds the catalog file the same way
// the service does on first start.
func (ts *TestSuite) InitDatabase() error {
	if err := data.InitDB(ts.Config.DBPath); err != nil {
		return fmt.Errorf("failed to init data package: %w", err)
	}
	if err := data.CreateTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	db, err := data.GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	ts.DB = db

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seeded, err := data.NewCatalogRepository(db).Seed(ctx, ts.Config.CatalogPath)
	if err != nil {
		return err
	}
	if !seeded {
		return fmt.Errorf("fresh database already held a catalog")
	}
	ts.Catalog = TestCatalog()
	return nil
}

// Cleanup stops the test server and closes the database
func (ts *TestSuite) Cleanup() {
	if ts.Server != nil {
		ts.Server.Close()
	}
	if err := data.CloseDB(); err != nil {
		fmt.Printf("Warning: failed to close data package database: %v\n", err)
	}
}

// Get issues a GET request against the test server
func (ts *TestSuite) Get(path string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return ts.Client.Do(req)
}

// GetAPI requests path and decodes the data member of the API envelope into dest.
func (ts *TestSuite) GetAPI(t *testing.T, path string, dest interface{}) *http.Response {
	t.Helper()

	resp, err := ts.Get(path, nil)
	ts.AssertNoError(t, err)

	envelope := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{}
	ts.AssertNoError(t, ts.ParseJSONResponse(resp, &envelope))
	if resp.StatusCode == http.StatusOK && dest != nil {
		ts.AssertNoError(t, json.Unmarshal(envelope.Data, dest))
	}
	return resp
}

// ParseJSONResponse parses a JSON response into the provided interface
func (ts *TestSuite) ParseJSONResponse(resp *http.Response, dest interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dest)
}

// AssertStatusCode checks if response has expected status code
func (ts *TestSuite) AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d", expected, resp.StatusCode)
	}
}

// AssertNoError fails the test if error is not nil
func (ts *TestSuite) AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// writeTestCatalog writes doc as a YAML catalog file
func writeTestCatalog(path string, doc *catalog.Document) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}
