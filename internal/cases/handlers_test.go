package cases_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldoetobex/legal-trust-ledger/internal/api"
	"github.com/aldoetobex/legal-trust-ledger/internal/cases"
	"github.com/aldoetobex/legal-trust-ledger/internal/parties"
	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/database/dbtest"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// newTestApp registers static paths before parameterized ones so /:id
// never shadows them.
func newTestApp(t *testing.T) (*fiber.App, *models.Person, *models.Person) {
	t.Helper()
	db := dbtest.Open(t)
	stores := repos.NewStores(db, logger.Nop())
	svc := cases.NewService(stores, parties.NewGraph(stores, logger.Nop()), 30000, logger.Nop())
	h := cases.NewHandler(svc)

	app := fiber.New(fiber.Config{ErrorHandler: api.ErrorHandler(logger.Nop())})
	app.Get("/api/matter-number", h.MatterNumber)
	app.Get("/api/cases", h.List)
	app.Post("/api/cases", h.Create)
	app.Get("/api/cases/:id", h.Get)
	app.Put("/api/cases/:id", h.Update)
	app.Delete("/api/cases/:id", h.Delete)
	app.Get("/api/people/:id/cases", h.ListForPerson)
	t.Cleanup(func() { _ = app.Shutdown() })

	return app, dbtest.SeedPerson(t, db, "Alice", "Smith"), dbtest.SeedPerson(t, db, "Bob", "Jones")
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func Test_Create_Get_Delete(t *testing.T) {
	app, alice, _ := newTestApp(t)

	code, body := do(t, app, "POST", "/api/cases", `{"client_id":"`+alice.ID.String()+`","is_litigation":true,"party_designation":"plaintiff"}`)
	require.Equal(t, 201, code, body)
	assert.Equal(t, "Smith-001", body["case_name"])
	assert.Equal(t, "Open", body["status"])
	id := body["id"].(string)

	code, body = do(t, app, "GET", "/api/cases/"+id, "")
	require.Equal(t, 200, code)
	assert.Equal(t, true, body["is_litigation"])

	code, body = do(t, app, "GET", "/api/matter-number?last_name=Smith", "")
	require.Equal(t, 200, code)
	assert.Equal(t, "Smith-002", body["matter_number"])

	code, _ = do(t, app, "DELETE", "/api/cases/"+id, "")
	assert.Equal(t, 204, code)

	code, body = do(t, app, "GET", "/api/cases/"+id, "")
	assert.Equal(t, 404, code)
	assert.Equal(t, true, body["error"])
}

func Test_List_Pagination(t *testing.T) {
	app, alice, bob := newTestApp(t)

	for _, id := range []uuid.UUID{alice.ID, bob.ID, alice.ID} {
		code, body := do(t, app, "POST", "/api/cases", `{"client_id":"`+id.String()+`"}`)
		require.Equal(t, 201, code, body)
	}

	code, body := do(t, app, "GET", "/api/cases?page=2&pageSize=2", "")
	require.Equal(t, 200, code)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["pages"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Smith-002", items[0].(map[string]any)["case_name"])
	assert.Equal(t, "Alice Smith", items[0].(map[string]any)["client_name"])

	code, body = do(t, app, "GET", "/api/cases?page=9", "")
	require.Equal(t, 200, code)
	assert.Empty(t, body["items"])
}

func Test_Create_Validation(t *testing.T) {
	app, alice, _ := newTestApp(t)

	code, body := do(t, app, "POST", "/api/cases", `{"client_id":"nope","status":"Pending","billing_rate_cents":-5}`)
	assert.Equal(t, 400, code)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "client_id")
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "billing_rate_cents")

	code, _ = do(t, app, "POST", "/api/cases", `{"client_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, 404, code)

	code, body = do(t, app, "POST", "/api/cases", `{"client_id":"`+alice.ID.String()+`","party_designation":"plaintiff"}`)
	assert.Equal(t, 400, code)
	assert.Contains(t, body["errors"], "party_designation")

	code, _ = do(t, app, "GET", "/api/cases/not-a-uuid", "")
	assert.Equal(t, 400, code)
}
