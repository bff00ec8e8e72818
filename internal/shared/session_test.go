package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageDoc struct {
	FilterOpen bool   `json:"filter_open"`
	Code       string `json:"codigo"`
}

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", "secret", time.Hour, false), mr
}

func commit(t *testing.T, sm *SessionManager, sess *Session) *http.Cookie {
	t.Helper()
	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), res, sess))
	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func loadWith(t *testing.T, sm *SessionManager, cookie *http.Cookie) *Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	return sess
}

func TestSessionPageStateSurvivesCommit(t *testing.T) {
	sm, mr := newTestManager(t)

	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.True(t, sess.IsNew())
	require.NoError(t, sess.Encode("search.state", pageDoc{FilterOpen: true, Code: "CIM001"}))
	sess.AddFlash(FlashMessage{Kind: FlashSuccess, Message: "Item cadastrado com sucesso!"})

	cookie := commit(t, sm, sess)
	assert.True(t, strings.HasPrefix(cookie.Value, sess.ID+"."))
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, mr.Exists(sessionKeyPrefix+sess.ID))

	loaded := loadWith(t, sm, cookie)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.False(t, loaded.IsNew())

	var doc pageDoc
	require.True(t, loaded.Decode("search.state", &doc))
	assert.Equal(t, pageDoc{FilterOpen: true, Code: "CIM001"}, doc)
	assert.False(t, loaded.Decode("newitem.state", &doc))

	flash := loaded.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, FlashSuccess, flash.Kind)
	assert.Nil(t, loaded.PopFlash())

	again := loadWith(t, sm, commit(t, sm, loaded))
	assert.Nil(t, again.PopFlash())
}

func TestSessionLoadSlidesExpiry(t *testing.T) {
	sm, mr := newTestManager(t)

	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := commit(t, sm, sess)

	mr.FastForward(50 * time.Minute)
	loadWith(t, sm, cookie)
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL(sessionKeyPrefix+sess.ID).Seconds(), 1)
}

func TestSessionTamperedCookieStartsFresh(t *testing.T) {
	sm, _ := newTestManager(t)

	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, sess.Encode("k", "v"))
	commit(t, sm, sess)

	for _, value := range []string{sess.ID, sess.ID + ".forged", "expired"} {
		loaded := loadWith(t, sm, &http.Cookie{Name: sm.CookieName(), Value: value})
		assert.NotEqual(t, sess.ID, loaded.ID, value)
		assert.True(t, loaded.IsNew(), value)
	}
}

func TestSessionExpiredStartsFresh(t *testing.T) {
	sm, mr := newTestManager(t)

	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := commit(t, sm, sess)
	mr.FastForward(2 * time.Hour)

	loaded := loadWith(t, sm, cookie)
	assert.NotEqual(t, sess.ID, loaded.ID)
}

func TestSessionDecodeMismatchedDocument(t *testing.T) {
	sess := &Session{ID: "s"}
	require.NoError(t, sess.Encode("search.state", "not an object"))

	var doc pageDoc
	assert.False(t, sess.Decode("search.state", &doc))
}

func TestSessionContext(t *testing.T) {
	assert.Nil(t, SessionFromContext(context.Background()))
	sess := &Session{ID: "s"}
	assert.Same(t, sess, SessionFromContext(ContextWithSession(context.Background(), sess)))
}
