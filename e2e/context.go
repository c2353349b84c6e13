package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"brewleaf/internal/app"
	"brewleaf/internal/catalog/seed"
	"brewleaf/internal/platform/config"
	"brewleaf/internal/platform/logger"
	"brewleaf/pkg/requestcontext"
)

const cartSessionHeader = "X-Cart-Session"

// TestContext drives one scenario against a freshly seeded in-memory
// storefront. It remembers the bearer token and guest cart session between
// requests the way a browser would.
type TestContext struct {
	router      http.Handler
	token       string
	cartSession string
	status      int
	body        []byte
	productIDs  map[string]string
}

func NewTestContext(ctx context.Context) (*TestContext, error) {
	cfg := config.FromEnv()
	cfg.Database.URL = ""
	cfg.Redis.URL = ""
	a, err := app.New(cfg, app.Backends{}, logger.Discard(), prometheus.NewRegistry(), app.WithHashCost(bcrypt.MinCost))
	if err != nil {
		return nil, err
	}
	doc, err := seed.Default()
	if err != nil {
		return nil, err
	}
	if _, err := a.Seed(requestcontext.WithTime(ctx, time.Now()), doc); err != nil {
		return nil, err
	}
	return &TestContext{router: a.Router, productIDs: make(map[string]string)}, nil
}

func (tc *TestContext) Request(method, path string, body any) error {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}
	if tc.cartSession != "" {
		req.Header.Set(cartSessionHeader, tc.cartSession)
	}

	rec := httptest.NewRecorder()
	tc.router.ServeHTTP(rec, req)
	tc.status = rec.Code
	tc.body = rec.Body.Bytes()
	if s := rec.Header().Get(cartSessionHeader); s != "" {
		tc.cartSession = s
	}
	return nil
}

func (tc *TestContext) Status() int { return tc.status }

func (tc *TestContext) Body() string { return string(tc.body) }

func (tc *TestContext) SetToken(token string) { tc.token = token }

func (tc *TestContext) Token() string { return tc.token }

// ResetSession forgets the signed-in user and the guest cart.
func (tc *TestContext) ResetSession() {
	tc.token = ""
	tc.cartSession = ""
}

// Field resolves a dotted path such as "pricing.total" or "items.0.quantity"
// in the last JSON response.
func (tc *TestContext) Field(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.body, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", tc.body)
	}
	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, tc.body)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q", path)
		}
	}
	return cur, nil
}

// ProductID looks a product up by slug once and caches its id.
func (tc *TestContext) ProductID(slug string) (string, error) {
	if pid, ok := tc.productIDs[slug]; ok {
		return pid, nil
	}
	req := httptest.NewRequest(http.MethodGet, "/products/"+slug, nil)
	rec := httptest.NewRecorder()
	tc.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("product %q: status %d", slug, rec.Code)
	}
	var p struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		return "", err
	}
	tc.productIDs[slug] = p.ID
	return p.ID, nil
}
