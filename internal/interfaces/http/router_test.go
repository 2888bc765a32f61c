package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/projectdesk-api/internal/application/auth"
	"github.com/jhoicas/projectdesk-api/internal/application/billing"
	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/application/ports"
	"github.com/jhoicas/projectdesk-api/internal/application/project"
	"github.com/jhoicas/projectdesk-api/internal/application/usecase"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/etimad"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/projectdesk-api/internal/interfaces/http"
	"github.com/jhoicas/projectdesk-api/pkg/money"
)

type stubLLM struct{}

func (stubLLM) SummarizeMeeting(context.Context, ports.MeetingTranscript) (*dto.MeetingSummaryDTO, error) {
	return &dto.MeetingSummaryDTO{Summary: "short", Decisions: []string{"ship"}}, nil
}

func (stubLLM) Provider() string { return "stub" }

// buildAPI arma el router completo sobre el almacén en memoria.
func buildAPI(t *testing.T, llm ports.LLMService) *fiber.App {
	t.Helper()
	blobs := memory.NewBlobStore()
	store := project.NewStore(blobs)
	f, err := money.New("SAR", "en")
	require.NoError(t, err)

	invoiceUC := billing.NewInvoiceUseCase(store, f, zerolog.Nop(), nil)
	seller := billing.Seller{Name: "Acme", VATNumber: "300000000000003"}
	docUC := billing.NewDocumentUseCase(invoiceUC, pdf.NewMarotoPDFGenerator(), etimad.NewUBLBuilder(), seller, "SAR")
	authUC := auth.NewAuthUseCase(memory.NewUserStore(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5})

	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		InvoiceUC:   invoiceUC,
		DocumentUC:  docUC,
		MeetingUC:   usecase.NewMeetingUseCase(llm, store, 0, zerolog.Nop()),
		SummaryRepo: blobs,
		JWTSecret:   testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
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

// ─── Invoices ─────────────────────────────────────────────────────────────────

func TestInvoiceRoutes_EmailLifecycle(t *testing.T) {
	app := buildAPI(t, nil)
	base := "/api/projects/p1/invoices"

	resp := call(t, app, http.MethodPost, base, "manager", map[string]any{
		"invoiceNumber": "INV-1",
		"party":         "Ministry",
		"amount":        "1500.50",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, "SAR 1,500.50", created.AmountDisplay)
	assert.NotEmpty(t, created.NextAction)

	resp = call(t, app, http.MethodPost, base+"/"+created.ID+"/advance", "manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sent", decode[dto.InvoiceResponse](t, resp).Status)

	resp = call(t, app, http.MethodPost, base+"/"+created.ID+"/advance", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	collected := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "collected", collected.Status)
	assert.True(t, collected.Collected)

	resp = call(t, app, http.MethodGet, base+"/summary", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.SummaryResponse](t, resp)
	assert.Equal(t, "SAR 1,500.50", sum.CollectedDisplay)
	assert.Equal(t, "SAR", sum.Currency)

	resp = call(t, app, http.MethodGet, "/api/summaries", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProjectSummaryListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "p1", list.Items[0].ProjectID)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestInvoiceRoutes_ViewerCannotWrite(t *testing.T) {
	app := buildAPI(t, nil)
	resp := call(t, app, http.MethodPost, "/api/projects/p1/invoices", "viewer", map[string]any{"invoiceNumber": "X"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/projects/p1/invoices", "viewer", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[dto.InvoiceListResponse](t, resp).Total)
}

func TestInvoiceRoutes_RequireToken(t *testing.T) {
	app := buildAPI(t, nil)
	resp := call(t, app, http.MethodGet, "/api/projects/p1/invoices", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInvoiceRoutes_ErrorMapping(t *testing.T) {
	app := buildAPI(t, nil)
	base := "/api/projects/p1/invoices"

	resp := call(t, app, http.MethodPost, base, "admin", map[string]any{"invoiceNumber": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodGet, base+"/missing", "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, base, "admin", map[string]any{"invoiceNumber": "E-1", "deliveryMethod": "etimad"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	etimadInv := decode[dto.InvoiceResponse](t, resp)

	resp = call(t, app, http.MethodPost, base+"/"+etimadInv.ID+"/advance", "admin", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "WRONG_DELIVERY_METHOD", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, base+"/"+etimadInv.ID+"/custom-stage", "admin", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, base+"/"+etimadInv.ID+"/etimad-stage", "admin", map[string]string{"stage": "bogus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPut, base+"/"+etimadInv.ID, "admin", map[string]any{"invoiceNumber": "E-1", "deliveryMethod": "email"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestInvoiceRoutes_EtimadStagesAndExports(t *testing.T) {
	app := buildAPI(t, nil)
	base := "/api/projects/p1/invoices"

	resp := call(t, app, http.MethodPost, base, "admin", map[string]any{
		"invoiceNumber":  "E/7",
		"deliveryMethod": "etimad",
		"items": []map[string]any{
			{"description": "Design", "quantity": "2", "unitPrice": "100"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "submitted", inv.EtimadStage)
	assert.Equal(t, "200", inv.Amount.String())

	resp = call(t, app, http.MethodPost, base+"/"+inv.ID+"/etimad-stage", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "underReview", decode[dto.InvoiceResponse](t, resp).EtimadStage)

	resp = call(t, app, http.MethodPost, base+"/"+inv.ID+"/etimad-stage", "admin", map[string]string{"stage": "collected"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, base+"/"+inv.ID+"/etimad-stage", "admin", map[string]string{"stage": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, base+"/"+inv.ID+"/etimad-stage", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "collected", done.Status)
	assert.NotNil(t, done.DateCollected)

	resp = call(t, app, http.MethodGet, base+"/"+inv.ID+"/etimad-xml", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get(apphttp.InvoiceHeaderHash), 64)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_E_7.xml")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.HasPrefix(string(body), "<?xml"))

	resp = call(t, app, http.MethodGet, base+"/"+inv.ID+"/pdf", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestInvoiceRoutes_Delete(t *testing.T) {
	app := buildAPI(t, nil)
	base := "/api/projects/p1/invoices"
	resp := call(t, app, http.MethodPost, base, "admin", map[string]any{"invoiceNumber": "D-1"})
	inv := decode[dto.InvoiceResponse](t, resp)

	resp = call(t, app, http.MethodDelete, base+"/"+inv.ID, "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, base+"/"+inv.ID, "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── Meetings ─────────────────────────────────────────────────────────────────

func TestMeetingRoutes(t *testing.T) {
	app := buildAPI(t, stubLLM{})
	base := "/api/projects/p1/meetings"

	resp := call(t, app, http.MethodPost, base+"/summarize", "manager", map[string]string{"title": "Weekly", "transcript": "..."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	m := decode[dto.MeetingResponse](t, resp)
	assert.Equal(t, "stub", m.Provider)

	resp = call(t, app, http.MethodGet, base, "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Items []dto.MeetingResponse `json:"items"`
	}](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, m.ID, list.Items[0].ID)
}

func TestMeetingRoutes_NoProvider(t *testing.T) {
	app := buildAPI(t, nil)
	resp := call(t, app, http.MethodPost, "/api/projects/p1/meetings/summarize", "admin", map[string]string{"transcript": "..."})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "AI_UNAVAILABLE", decode[dto.ErrorResponse](t, resp).Code)
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

func TestLoginRoute(t *testing.T) {
	users := memory.NewUserStore()
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5})
	_, err := authUC.EnsureAdmin(context.Background(), "admin@example.com", "correct-horse")
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{AuthUC: authUC, JWTSecret: testJWTSecret})

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, "admin", out.User.Role)

	assert.NotEmpty(t, out.AccessToken)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// ─── Keep-alive connections ───────────────────────────────────────────────────

func TestSummaries_SurviveReusedConnection(t *testing.T) {
	app := buildAPI(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	// Una sola conexión en el pool, así cada request reusa los mismos buffers del servidor.
	client := &http.Client{Transport: &http.Transport{MaxConnsPerHost: 1, MaxIdleConnsPerHost: 1}}
	base := "http://" + ln.Addr().String()
	send := func(method, path, role string, body any) *http.Response {
		t.Helper()
		var r io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
		req, err := http.NewRequest(method, base+path, r)
		require.NoError(t, err)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Authorization", tokenForRole(t, role))
		resp, err := client.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := send(http.MethodPost, "/api/projects/aaaa/invoices", "manager", map[string]any{
		"invoiceNumber": "INV-1",
		"amount":        "10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	for i := 0; i < 5; i++ {
		resp = send(http.MethodGet, "/api/projects/bbbb/invoices", "viewer", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	resp = send(http.MethodGet, "/api/summaries", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProjectSummaryListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "aaaa", list.Items[0].ProjectID)
	assert.Equal(t, 1, list.Items[0].InvoiceCount)

	resp = send(http.MethodGet, "/api/projects/aaaa/invoices", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	invoices := decode[dto.InvoiceListResponse](t, resp)
	require.Len(t, invoices.Items, 1)
	assert.Equal(t, "INV-1", invoices.Items[0].InvoiceNumber)
}
