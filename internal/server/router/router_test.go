package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/inventory-console/internal/domain/models"
	"github.com/mamadbah2/inventory-console/internal/server/handlers"
	"github.com/mamadbah2/inventory-console/internal/server/router"
	"github.com/mamadbah2/inventory-console/internal/service/console"
	"github.com/mamadbah2/inventory-console/internal/testutil/fakebackend"
	"github.com/mamadbah2/inventory-console/pkg/clients/inventory"
)

type staticStatus struct {
	status models.BackendStatus
}

func (s staticStatus) Status() models.BackendStatus {
	return s.status
}

type state struct {
	Form    models.FormFields        `json:"form"`
	Message string                   `json:"message"`
	Results []models.InventoryRecord `json:"results"`
	Backend models.BackendStatus     `json:"backend"`
}

func setup(t *testing.T) (http.Handler, *fakebackend.Backend) {
	t.Helper()

	backend := fakebackend.New()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := inventory.NewClient(inventory.Options{BaseURL: srv.URL, EscapeQuery: true}, nil)
	svc := console.NewService(client, console.Options{EscapeQuery: true}, nil)
	t.Cleanup(svc.Close)

	handler := handlers.NewConsoleHandler(svc, staticStatus{models.BackendStatus{Healthy: true, Message: "Healthy"}}, nil)
	return router.New(handler, nil), backend
}

func post(t *testing.T, h http.Handler, action string, form url.Values, asJSON bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/console/"+action, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) state {
	t.Helper()
	var s state
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestActionRedirectsBrowserPosts(t *testing.T) {
	h, backend := setup(t)

	rec := post(t, h, "create", url.Values{
		"inventory_name":          {"apple"},
		"inventory_category":      {"fruit"},
		"inventory_quantity":      {"10"},
		"inventory_condition":     {"NEW"},
		"inventory_restock_level": {"5"},
	}, false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 1, backend.Len())
}

func TestActionReturnsStateForJSONClients(t *testing.T) {
	h, backend := setup(t)
	items := backend.Seed(fakebackend.Item{Name: "apple", Category: "fruit", Quantity: 3, Condition: "NEW", RestockLevel: 5})
	id := models.FormatInt(models.IntPtr(items[0].ID))

	rec := post(t, h, "retrieve", url.Values{"inventory_id": {id}}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	s := decodeState(t, rec)
	assert.Equal(t, console.MessageSuccess, s.Message)
	assert.Equal(t, "apple", s.Form.Name)
	assert.Equal(t, "3", s.Form.Quantity)
	assert.True(t, s.Backend.Healthy)
}

func TestActionSurfacesServerMessage(t *testing.T) {
	h, _ := setup(t)

	rec := post(t, h, "retrieve", url.Values{"inventory_id": {"999"}, "inventory_name": {"ghost"}}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	s := decodeState(t, rec)
	assert.Equal(t, "Item with id '999' was not found.", s.Message)
	assert.Equal(t, "999", s.Form.ID)
	assert.Empty(t, s.Form.Name)
}

func TestClearIgnoresPostedFields(t *testing.T) {
	h, _ := setup(t)
	post(t, h, "search", url.Values{"inventory_id": {"7"}, "inventory_name": {"apple"}}, true)

	rec := post(t, h, "clear", url.Values{"inventory_name": {"ignored"}}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	s := decodeState(t, rec)
	assert.Empty(t, s.Form)
	assert.Empty(t, s.Message)
}

func TestUnknownActionIsNotFound(t *testing.T) {
	h, backend := setup(t)

	rec := post(t, h, "purge", url.Values{}, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, backend.Requests())
}

func TestIndexRendersFlashAndResults(t *testing.T) {
	h, backend := setup(t)
	backend.Seed(
		fakebackend.Item{Name: "apple", Category: "fruit", Quantity: 3, Condition: "NEW", RestockLevel: 5},
		fakebackend.Item{Name: "pear", Category: "fruit", Quantity: 8, Condition: "USED", RestockLevel: 2},
	)
	post(t, h, "search", url.Values{"inventory_category": {"fruit"}}, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div id="flash_message">Success</div>`)
	assert.Contains(t, body, `id="row_0"`)
	assert.Contains(t, body, `id="row_1"`)
	assert.NotContains(t, body, `id="row_2"`)
	assert.Contains(t, body, "<th>Restock_level</th>")
	assert.Contains(t, body, `value="apple"`)
	assert.Contains(t, body, "Backend: healthy (Healthy)")
}

func TestHealthz(t *testing.T) {
	h, _ := setup(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status  string               `json:"status"`
		Backend models.BackendStatus `json:"backend"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "Healthy", body.Backend.Message)
}

func TestStateEndpoint(t *testing.T) {
	h, _ := setup(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/console/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	s := decodeState(t, rec)
	assert.Empty(t, s.Message)
	assert.Empty(t, s.Form)
}
