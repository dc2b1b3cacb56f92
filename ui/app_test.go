package ui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, provider snapshots) http.Handler {
	t.Helper()
	a, err := NewApp(testDeps(t, provider))
	require.NoError(t, err)
	return a.Handler()
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboard_Index(t *testing.T) {
	h := newTestApp(t, snapshots{snap: testSnapshot(t)})

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Outcome column <strong>y</strong>")
	assert.Contains(t, body, `<option value="job">job (admin., services)</option>`)
	assert.Contains(t, body, "</html>")
}

func TestDashboard_Inference(t *testing.T) {
	h := newTestApp(t, snapshots{snap: testSnapshot(t)})

	rec := get(h, "/inference?mode=proportion&group=job")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Two-proportion z-test: admin. vs services")
	assert.Contains(t, body, "Chi-square test of independence")
	assert.Contains(t, body, "fail to reject H0")

	rec = get(h, "/inference?mode=mean&numeric=age")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welch's t-test")

	rec = get(h, "/inference?group=marital")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_GROUP_SIZE")
}

func TestDashboard_InferenceAdvisoryStatus(t *testing.T) {
	h := newTestApp(t, snapshots{snap: testSnapshot(t)})

	rec := get(h, "/inference?group=age")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_USABLE_DATA")

	rec = get(h, "/inference?mode=median")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestDashboard_Describe(t *testing.T) {
	h := newTestApp(t, snapshots{snap: testSnapshot(t)})

	rec := get(h, "/describe?row=job&col=y")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Pearson correlation")
	assert.Contains(t, body, "job × y")
	assert.Contains(t, body, "44.0000")
}

func TestDashboard_Notes(t *testing.T) {
	h := newTestApp(t, snapshots{snap: testSnapshot(t)})

	rec := get(h, "/notes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<h1 id="methodology">Methodology</h1>`)
	assert.Contains(t, rec.Body.String(), "<strong>Wilson score interval</strong>")
}

func TestDashboard_LoadFailure(t *testing.T) {
	h := newTestApp(t, snapshots{err: fmt.Errorf("load bank.csv: timeout")})

	rec := get(h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "load bank.csv: timeout")
}

func TestMarkdownToHTML(t *testing.T) {
	out := string(markdownToHTML([]byte("## Means\n\n- **Welch** test\n")))
	assert.Contains(t, out, `<h2 id="means">Means</h2>`)
	assert.Contains(t, out, "<li><strong>Welch</strong> test</li>")
}
