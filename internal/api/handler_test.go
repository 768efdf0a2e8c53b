package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchboard/internal/auth"
	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/session"
	"github.com/inamate/sketchboard/internal/store"
)

type testServer struct {
	router *mux.Router
	hub    *session.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	snapshots := store.NewMemoryStore()
	hub := session.NewHub(session.Config{Width: 800, Height: 600, Editor: engine.DefaultOptions()}, snapshots)
	go hub.Run()
	t.Cleanup(hub.Stop)

	h := NewHandler(hub, auth.NewService("test-secret"), snapshots, t.TempDir())
	r := mux.NewRouter()
	h.Register(r)
	return &testServer{router: r, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) create(t *testing.T) createResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.SessionID, "sess_"))
	require.NotEmpty(t, resp.Token)
	return resp
}

func callBody(t *testing.T, method string, args ...any) []byte {
	t.Helper()
	payload := session.CallPayload{Method: method}
	for _, a := range args {
		raw, err := json.Marshal(a)
		require.NoError(t, err)
		payload.Args = append(payload.Args, raw)
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return data
}

func TestSessionCallAndSnapshot(t *testing.T) {
	srv := newTestServer(t)
	sess := srv.create(t)
	base := "/sessions/" + sess.SessionID

	rec := srv.do(t, http.MethodPost, base+"/call", sess.Token, callBody(t, "setFill", "#00ff00"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, base+"/call", sess.Token, callBody(t, "addRect"))
	require.Equal(t, http.StatusOK, rec.Code)
	var res session.ResultPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "addRect", res.Method)
	assert.NotEmpty(t, res.Result)

	rec = srv.do(t, http.MethodGet, base+"/snapshot", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap struct {
		Objects []struct {
			Type  string `json:"type"`
			Style struct {
				Fill string `json:"fill"`
			} `json:"style"`
		} `json:"objects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Objects, 1)
	assert.Equal(t, "Rectangle", snap.Objects[0].Type)
	assert.Equal(t, "#00ff00", snap.Objects[0].Style.Fill)

	rec = srv.do(t, http.MethodPost, base+"/call", sess.Token, callBody(t, "explode"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, base+"/call", sess.Token, callBody(t, "setStrokeWidth"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, base+"/call", sess.Token, []byte("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutSnapshot(t *testing.T) {
	srv := newTestServer(t)
	sess := srv.create(t)
	base := "/sessions/" + sess.SessionID

	doc := `{"version":1,"width":800,"height":600,"objects":[
		{"type":"Circle","transform":{"left":10,"top":10},"style":{"fill":"#ff0000","stroke":"#000000","strokeWidth":1,"opacity":1},"circle":{"radius":5}},
		{"type":"Rectangle","transform":{"left":30,"top":30},"style":{"fill":"#00ff00","stroke":"#000000","strokeWidth":1,"opacity":1},"rect":{"width":10,"height":10}}
	]}`
	rec := srv.do(t, http.MethodPut, base+"/snapshot", sess.Token, []byte(doc))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"objectCount":2}`, rec.Body.String())

	rec = srv.do(t, http.MethodPut, base+"/snapshot", sess.Token, []byte(`{"objects":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, base+"/call", sess.Token, callBody(t, "countObjects"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"method":"countObjects","result":2}`, rec.Body.String())
}

func TestSaveAndLatestSnapshot(t *testing.T) {
	srv := newTestServer(t)
	sess := srv.create(t)
	base := "/sessions/" + sess.SessionID

	rec := srv.do(t, http.MethodGet, base+"/snapshots/latest", sess.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	srv.do(t, http.MethodPost, base+"/call", sess.Token, callBody(t, "addCircle"))
	rec = srv.do(t, http.MethodPost, base+"/snapshots", sess.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved store.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, int32(1), saved.Version)
	assert.Equal(t, sess.SessionID, saved.SessionID)

	rec = srv.do(t, http.MethodGet, base+"/snapshots/latest", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"Circle"`)
}

func TestSessionAuth(t *testing.T) {
	srv := newTestServer(t)
	a := srv.create(t)
	b := srv.create(t)

	rec := srv.do(t, http.MethodGet, "/sessions/"+a.SessionID+"/snapshot", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/sessions/"+a.SessionID+"/snapshot", b.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t)
	token, err := auth.NewService("test-secret").IssueToken("sess_01h455vb4pex5vsknk084sn02q")
	require.NoError(t, err)

	rec := srv.do(t, http.MethodGet, "/sessions/sess_01h455vb4pex5vsknk084sn02q/snapshot", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportImportSVG(t *testing.T) {
	srv := newTestServer(t)
	sess := srv.create(t)
	base := "/sessions/" + sess.SessionID

	rec := srv.do(t, http.MethodPost, base+"/import.svg", sess.Token,
		[]byte(`<svg><rect x="5" y="5" width="20" height="20" fill="#123456"/></svg>`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"objectCount":1}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, base+"/export.svg", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "fill:#123456")
}

func TestUploadBackground(t *testing.T) {
	srv := newTestServer(t)
	sess := srv.create(t)
	base := "/sessions/" + sess.SessionID

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var pngData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="bg.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(pngData.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/background", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var asset struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	assert.Equal(t, 4, asset.Width)
	assert.Equal(t, 3, asset.Height)

	rec = srv.do(t, http.MethodGet, base+"/snapshot", sess.Token, nil)
	assert.Contains(t, rec.Body.String(), `"backgroundImage":"`+asset.URL+`"`)

	rec = srv.do(t, http.MethodGet, asset.URL, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err = png.Decode(rec.Body)
	assert.NoError(t, err)
}

func TestWebSocketSession(t *testing.T) {
	srv := newTestServer(t)
	sess := srv.create(t)

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/session/" + sess.SessionID
	_, resp, err := websocket.Dial(ctx, url, nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	conn, _, err := websocket.Dial(ctx, url+"?token="+sess.Token, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	read := func() session.Message {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var msg session.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	welcome := read()
	require.Equal(t, session.TypeWelcome, welcome.Type)
	assert.Equal(t, sess.SessionID, welcome.SessionID)

	call, err := json.Marshal(session.Message{Type: session.TypeEditorCall, Seq: 42, Payload: callBody(t, "addCircle")})
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, call))

	seen := map[string]bool{}
	for !seen[session.TypeEditorResult] || !seen[session.TypeRenderFrame] {
		msg := read()
		seen[msg.Type] = true
		if msg.Type == session.TypeEditorResult {
			assert.Equal(t, int64(42), msg.Seq)
		}
	}
	assert.True(t, seen[session.TypeSelectionCreated])

	bad, err := json.Marshal(session.Message{Type: "dance", Seq: 43})
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, bad))
	for {
		msg := read()
		if msg.Type == session.TypeError {
			assert.Equal(t, int64(43), msg.Seq)
			break
		}
	}
}
