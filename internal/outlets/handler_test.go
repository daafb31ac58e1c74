package outlets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/upstream"
)

type fakePreviewer struct {
	url string
	err error
}

func (f *fakePreviewer) PreviewURL(ctx context.Context, task *Task) (string, error) {
	return f.url, f.err
}

func testRouter(up *fakeUpstream, previewer Previewer) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc := testService(up)
	if previewer == nil {
		previewer = &fakePreviewer{url: "https://signed.example.com/doc.pdf"}
	}
	h := NewHandler(svc, previewer, zap.NewNop())

	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	return r, svc
}

func doRequest(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestListEndpoint(t *testing.T) {
	now := time.Now()
	up := newFakeUpstream()
	seedList(up, now)
	r, _ := testRouter(up, nil)

	w := doRequest(r, http.MethodGet, "/nso/outlets", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Koramangala")
	assert.Contains(t, w.Body.String(), `"tabs"`)
	assert.Contains(t, w.Body.String(), `"dashboard"`)

	// Search narrows by name or address.
	w = doRequest(r, http.MethodGet, "/nso/outlets?search=indira", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Indiranagar")
	assert.NotContains(t, w.Body.String(), `"outletName":"HSR Layout"`)

	// Tab filter keeps only one status bucket; the urgent section is not
	// affected by it.
	w = doRequest(r, http.MethodGet, "/nso/outlets?tab=rejected", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jayanagar")
	assert.NotContains(t, w.Body.String(), `"outletName":"Indiranagar"`)
}

func TestDetailEndpoint(t *testing.T) {
	up := newFakeUpstream()
	up.responses["/nso/outlets/7"] = detailOutlet()
	r, _ := testRouter(up, nil)

	w := doRequest(r, http.MethodGet, "/nso/outlets/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pipeline"`)
	assert.Contains(t, w.Body.String(), `"timeline"`)
	assert.Contains(t, w.Body.String(), "Documentation")

	w = doRequest(r, http.MethodGet, "/nso/outlets/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetailEndpointNotFound(t *testing.T) {
	up := newFakeUpstream()
	up.errs["/nso/outlets/99"] = upstream.ErrNotFound
	r, _ := testRouter(up, nil)

	w := doRequest(r, http.MethodGet, "/nso/outlets/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Outlet not found")
}

func TestTimelineEndpoint(t *testing.T) {
	up := newFakeUpstream()
	up.responses["/nso/outlets/7"] = detailOutlet()
	r, _ := testRouter(up, nil)

	w := doRequest(r, http.MethodGet, "/nso/outlets/7/timeline.svg", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg ")
	assert.Contains(t, w.Body.String(), "Onboarding")
}

func TestStagePanelEndpoint(t *testing.T) {
	up := newFakeUpstream()
	up.responses["/nso/outlets/7"] = detailOutlet()
	r, _ := testRouter(up, nil)

	w := doRequest(r, http.MethodGet, "/nso/outlets/7/stages/Legal", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stepNumber":2`)

	w = doRequest(r, http.MethodGet, "/nso/outlets/7/stages/Demolition", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveEndpoint(t *testing.T) {
	up := newFakeUpstream()
	up.responses["/nso/outlets/7"] = detailOutlet()
	r, _ := testRouter(up, nil)

	w := doRequest(r, http.MethodPatch, "/nso/outlets/7/approval", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Outlet approved successfully.")

	require.Len(t, up.patchCalls, 1)
	assert.Equal(t, "/outlets/7/approval", up.patchCalls[0].path)
}

func TestRejectEndpoint(t *testing.T) {
	up := newFakeUpstream()
	up.responses["/nso/outlets/7"] = detailOutlet()
	r, _ := testRouter(up, nil)

	// Missing remarks are refused before any mutation.
	w := doRequest(r, http.MethodPatch, "/nso/outlets/7/reject", `{"remarks":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please provide a reason.")
	assert.Empty(t, up.patchCalls)

	w = doRequest(r, http.MethodPatch, "/nso/outlets/7/reject", `{"remarks":"Location not viable"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Outlet rejected!")

	require.Len(t, up.patchCalls, 1)
	assert.Equal(t, "/outlets/7/reject", up.patchCalls[0].path)
}

func TestRejectEndpointChunkedBody(t *testing.T) {
	up := newFakeUpstream()
	up.responses["/nso/outlets/7"] = detailOutlet()
	r, _ := testRouter(up, nil)

	// A chunked request reports no Content-Length; the remarks must still
	// be read.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/nso/outlets/7/reject",
		strings.NewReader(`{"remarks":"No footfall"}`))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, up.patchCalls, 1)
	assert.Equal(t, map[string]string{"rejectionReason": "No footfall"}, up.patchCalls[0].body)
}

func TestRejectEndpointAcceptsUpstreamFieldName(t *testing.T) {
	up := newFakeUpstream()
	up.responses["/nso/outlets/7"] = detailOutlet()
	r, _ := testRouter(up, nil)

	w := doRequest(r, http.MethodPatch, "/nso/outlets/7/reject", `{"rejectionReason":"No footfall"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, up.patchCalls, 1)
	assert.Equal(t, map[string]string{"rejectionReason": "No footfall"}, up.patchCalls[0].body)
}

func TestDecideEndpointRefusesDecidedOutlet(t *testing.T) {
	up := newFakeUpstream()
	decided := detailOutlet()
	decided.OutletStatus = StatusApproved
	up.responses["/nso/outlets/7"] = decided
	r, _ := testRouter(up, nil)

	w := doRequest(r, http.MethodPatch, "/nso/outlets/7/approval", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPreviewEndpoint(t *testing.T) {
	up := newFakeUpstream()
	outlet := detailOutlet()
	outlet.Stages[1].Tasks[0].Document = &Document{FileID: "f1", FileURL: "s3://b/loi.pdf"}
	up.responses["/nso/outlets/7"] = outlet
	r, _ := testRouter(up, &fakePreviewer{url: "https://signed.example.com/loi.pdf"})

	w := doRequest(r, http.MethodGet, "/nso/outlets/7/documents/21/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://signed.example.com/loi.pdf")

	w = doRequest(r, http.MethodGet, "/nso/outlets/7/documents/999/preview", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewEndpointUnavailableDocument(t *testing.T) {
	up := newFakeUpstream()
	up.responses["/nso/outlets/7"] = detailOutlet()
	r, _ := testRouter(up, &fakePreviewer{err: assert.AnError})

	w := doRequest(r, http.MethodGet, "/nso/outlets/7/documents/22/preview", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Document not available for preview")
}
