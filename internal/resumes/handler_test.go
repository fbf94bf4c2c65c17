package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, userID string) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t, false)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, svc
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateAndGetResume(t *testing.T) {
	r, _ := newTestRouter(t, "u1")

	resp := doJSON(r, http.MethodPost, "/api/resumes", `{"title":"Mine","sections":[{"type":"summary","content":"Hello"},{"type":"personal","content":{"name":"Jane"}}]}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created Resume
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, KeyValue{"name": "Jane"}, created.Sections[1].Content)

	resp = doJSON(r, http.MethodGet, "/api/resumes/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"template":"modern"`)
}

func TestCreateRejectsBadContent(t *testing.T) {
	r, _ := newTestRouter(t, "u1")

	resp := doJSON(r, http.MethodPost, "/api/resumes", `{"title":"Mine","sections":[{"type":"summary","content":42}]}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "validation_error")
}

func TestCapReturns403(t *testing.T) {
	r, svc := newTestRouter(t, "u1")
	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), "u1", CreateInput{Title: "r"})
		require.NoError(t, err)
	}

	resp := doJSON(r, http.MethodPost, "/api/resumes", `{"title":"one more"}`)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "resume_cap_reached")
}

func TestUpdateAndDeleteResume(t *testing.T) {
	r, svc := newTestRouter(t, "u1")
	created, err := svc.Create(context.Background(), "u1", CreateInput{Title: "r"})
	require.NoError(t, err)

	resp := doJSON(r, http.MethodPut, "/api/resumes/"+created.ID, `{"template":"minimal"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"template":"minimal"`)

	resp = doJSON(r, http.MethodDelete, "/api/resumes/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(r, http.MethodGet, "/api/resumes/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestImportEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, "u1")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cv.docx")
	require.NoError(t, err)
	_, err = part.Write(docxBytes(t, "Imported text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resumes/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "Imported text")
}
