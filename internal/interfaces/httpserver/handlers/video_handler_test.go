package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipstream/internal/config"
	"clipstream/internal/domain/stream"
	"clipstream/internal/domain/video"
	"clipstream/internal/infrastructure/medialib"
	"clipstream/internal/infrastructure/repository/snapshot"
	"clipstream/internal/interfaces/httpserver"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	cfg := &config.Config{
		VideoDir:             filepath.Join(root, "video"),
		ThumbnailDir:         filepath.Join(root, "thumbnails"),
		SnapshotPath:         filepath.Join(root, "data.json"),
		MaxUploadBytes:       1 << 20,
		CleanupMediaOnDelete: false,
	}

	log := zerolog.Nop()
	store, err := snapshot.New(cfg.SnapshotPath, log)
	require.NoError(t, err)
	lib, err := medialib.New(cfg, log)
	require.NoError(t, err)

	service := video.NewService(store, log)
	responder := stream.NewResponder(lib, log)

	// Full server so requests pass through the real middleware stack.
	return httpserver.New(cfg, log, service, lib, responder).Engine()
}

// mp4Payload is a minimal ftyp box so content sniffing resolves video/mp4,
// padded to 256 bytes.
func mp4Payload() []byte {
	header := []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
		'i', 's', 'o', 'm', 'm', 'p', '4', '1',
	}
	return append(header, make([]byte, 256-len(header))...)
}

// pngPayload is the PNG signature plus padding so sniffing resolves image/png.
func pngPayload() []byte {
	sig := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return append(sig, make([]byte, 64)...)
}

// uploadBody builds a multipart request body with the three upload fields.
// Empty filenames drop the corresponding file part.
func uploadBody(t *testing.T, videoName, thumbName, jsonData string) (*bytes.Buffer, string) {
	t.Helper()
	return uploadBodyWith(t, videoName, mp4Payload(), thumbName, pngPayload(), jsonData)
}

func uploadBodyWith(t *testing.T, videoName string, videoBytes []byte, thumbName string, thumbBytes []byte, jsonData string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if videoName != "" {
		part, err := w.CreateFormFile("videoData", videoName)
		require.NoError(t, err)
		_, err = part.Write(videoBytes)
		require.NoError(t, err)
	}
	if thumbName != "" {
		part, err := w.CreateFormFile("thumbnailData", thumbName)
		require.NoError(t, err)
		_, err = part.Write(thumbBytes)
		require.NoError(t, err)
	}
	if jsonData != "" {
		require.NoError(t, w.WriteField("jsonData", jsonData))
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doUpload(t *testing.T, router *gin.Engine, jsonData string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := uploadBody(t, "clip.mp4", "clip.png", jsonData)
	req := httptest.NewRequest(http.MethodPost, "/upload/video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func uploadRecord(t *testing.T, router *gin.Engine, title string) video.VideoRecord {
	t.Helper()
	rec := doUpload(t, router, fmt.Sprintf(`{"title": %q}`, title))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var stored video.VideoRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	return stored
}

func TestUpload_Created(t *testing.T) {
	router := newTestRouter(t)

	rec := doUpload(t, router, `{"title": "My Clip", "description": "demo", "tags": ["go"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := rec.Body.String()
	assert.Contains(t, body, `"like":0`)
	assert.Contains(t, body, `"comment":[]`)
	assert.Contains(t, body, `"title":"My Clip"`)

	var stored video.VideoRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.True(t, strings.HasPrefix(stored.ID, "vid_"), "id %q lacks vid_ prefix", stored.ID)
	assert.Equal(t, stored.ID+".mp4", stored.VideoFilename)
	assert.Equal(t, stored.ID+".png", stored.ThumbnailFilename)
}

func TestUpload_MissingFiles(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := uploadBody(t, "", "", `{"title": "t"}`)
	req := httptest.NewRequest(http.MethodPost, "/upload/video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Video and thumbnail required")
}

func TestUpload_EmptyTitle(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		jsonData string
	}{
		{"no jsonData", ""},
		{"empty title", `{"title": ""}`},
		{"whitespace title", `{"title": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doUpload(t, router, tt.jsonData)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Title Empty")
		})
	}
}

func TestUpload_RejectsWrongMediaTypes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		videoBytes []byte
		thumbBytes []byte
		wantErr    string
	}{
		{"video part is not a video", pngPayload(), pngPayload(), "videoData must be a video file"},
		{"thumbnail part is not an image", mp4Payload(), mp4Payload(), "thumbnailData must be an image file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := uploadBodyWith(t, "clip.mp4", tt.videoBytes, "clip.png", tt.thumbBytes, `{"title": "t"}`)
			req := httptest.NewRequest(http.MethodPost, "/upload/video", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantErr)
		})
	}
}

func TestUpload_MalformedJSONData(t *testing.T) {
	router := newTestRouter(t)

	rec := doUpload(t, router, `{"title": `)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid jsonData")
}

func TestLike_IncrementsAndReturnsRecord(t *testing.T) {
	router := newTestRouter(t)
	stored := uploadRecord(t, router, "likeable")

	for want := int64(1); want <= 3; want++ {
		req := httptest.NewRequest(http.MethodPut, "/video/like/"+stored.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var updated video.VideoRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, want, updated.LikeCount)
	}
}

func TestLike_MissingRecord(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/video/like/vid_nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComment_Appends(t *testing.T) {
	router := newTestRouter(t)
	stored := uploadRecord(t, router, "commentable")

	req := httptest.NewRequest(http.MethodPost, "/video/"+stored.ID+"/comment",
		strings.NewReader(`{"comment": "first!"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated video.VideoRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "first!", updated.Comments[0].Text)
	assert.True(t, strings.HasPrefix(updated.Comments[0].ID, "cmt_"))
	assert.False(t, updated.Comments[0].CreatedAt.IsZero())
}

func TestComment_MissingBody(t *testing.T) {
	router := newTestRouter(t)
	stored := uploadRecord(t, router, "commentable")

	req := httptest.NewRequest(http.MethodPost, "/video/"+stored.ID+"/comment",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_EmptyAndPopulated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/video/list", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), "empty store must serve a JSON array")

	first := uploadRecord(t, router, "one")
	second := uploadRecord(t, router, "two")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/video/list", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []video.VideoRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
}

func TestDetail_FoundAndMissing(t *testing.T) {
	router := newTestRouter(t)
	stored := uploadRecord(t, router, "detail")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/video/detail/"+stored.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/video/detail/vid_nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestDelete_ByStringID(t *testing.T) {
	router := newTestRouter(t)
	stored := uploadRecord(t, router, "doomed")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/"+stored.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var removed video.VideoRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.Equal(t, stored.ID, removed.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/video/detail/"+stored.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_Missing(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/vid_nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Item not found")
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/video/list", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Range")
}

func TestWatch_StreamsUploadedVideo(t *testing.T) {
	router := newTestRouter(t)
	stored := uploadRecord(t, router, "watchable")

	req := httptest.NewRequest(http.MethodGet, "/video/watch/"+stored.VideoFilename, nil)
	req.Header.Set("Range", "bytes=0-99")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 0-99/256", rec.Header().Get("Content-Range"))
	assert.Equal(t, 100, rec.Body.Len())
}
