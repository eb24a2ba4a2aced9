package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_IsInvolution(t *testing.T) {
	for _, l := range []Language{En, Zh} {
		assert.Equal(t, l, Toggle(Toggle(l)))
		assert.NotEqual(t, l, Toggle(l))
	}
	assert.Equal(t, Zh, Toggle(En))
	assert.Equal(t, En, Toggle(Zh))
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"en", En, true},
		{" ZH ", Zh, true},
		{"fr", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := Parse(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "🇺🇸 EN", En.Label())
	assert.Equal(t, "🇨🇳 中文", Zh.Label())
}

func TestFromRequest(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, En, FromRequest(req))
	})
	t.Run("cookie wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "en-US")
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "zh"})
		assert.Equal(t, Zh, FromRequest(req))
	})
	t.Run("unrecognized cookie falls through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "klingon"})
		assert.Equal(t, En, FromRequest(req))
	})
	t.Run("accept-language", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
		assert.Equal(t, Zh, FromRequest(req))
	})
	t.Run("nil request", func(t *testing.T) {
		assert.Equal(t, En, FromRequest(nil))
	})
}

func TestPersist_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	Persist(rec, Toggle(En))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "zh", c.Value)
	assert.Equal(t, 365*24*60*60, c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	assert.Equal(t, Zh, FromRequest(req))
}

func TestPrinter_Localizes(t *testing.T) {
	assert.Equal(t, "Database Connection Test", Printer(En).Sprintf(MsgPageTitle))
	assert.Equal(t, "数据库连接测试", Printer(Zh).Sprintf(MsgPageTitle))
}
