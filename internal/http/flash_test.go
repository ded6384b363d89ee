package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func popWith(c *FlashCodec, cookies []*http.Cookie) (Flash, bool, *httptest.ResponseRecorder) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		r.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	f, ok := c.Pop(w, r)
	return f, ok, w
}

func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestFlashRoundTrip(t *testing.T) {
	c, err := NewFlashCodec([]byte("secret"))
	if err != nil {
		t.Fatalf("NewFlashCodec: %v", err)
	}
	w := httptest.NewRecorder()
	c.Set(w, Flash{Severity: SeveritySuccess, Message: "Transaksi berhasil ditambahkan!"})

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != 60 || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookie %+v", cookies)
	}

	f, ok, rec := popWith(c, cookies)
	if !ok || f.Severity != SeveritySuccess || f.Message != "Transaksi berhasil ditambahkan!" {
		t.Fatalf("Pop = %+v, %v", f, ok)
	}
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("Pop must clear the cookie, got %+v", cleared)
	}
}

func TestFlashRejectsTampering(t *testing.T) {
	c, _ := NewFlashCodec([]byte("secret"))
	w := httptest.NewRecorder()
	c.Set(w, Flash{Severity: SeverityInfo, Message: "ok"})
	ck := w.Result().Cookies()[0]

	forged := *ck
	forged.Value = flipChar(ck.Value, len(ck.Value)/2)
	if _, ok, _ := popWith(c, []*http.Cookie{&forged}); ok {
		t.Fatal("modified payload must be rejected")
	}

	other, _ := NewFlashCodec([]byte("other"))
	if _, ok, _ := popWith(other, []*http.Cookie{ck}); ok {
		t.Fatal("a different key must not verify")
	}

	garbage := &http.Cookie{Name: flashCookieName, Value: "not-a-signed-value"}
	if _, ok, _ := popWith(c, []*http.Cookie{garbage}); ok {
		t.Fatal("malformed cookie must be rejected")
	}
}

func TestFlashExpires(t *testing.T) {
	c, _ := NewFlashCodec([]byte("secret"))
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	w := httptest.NewRecorder()
	c.Set(w, Flash{Severity: SeverityError, Message: "Data telah dihapus."})
	cookies := w.Result().Cookies()

	c.now = func() time.Time { return base.Add(59 * time.Second) }
	if _, ok, _ := popWith(c, cookies); !ok {
		t.Fatal("notice must survive within its lifetime")
	}
	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok, _ := popWith(c, cookies); ok {
		t.Fatal("expired notice must be dropped")
	}
}

func TestFlashNoCookie(t *testing.T) {
	c, err := NewFlashCodec(nil)
	if err != nil {
		t.Fatalf("NewFlashCodec: %v", err)
	}
	f, ok, rec := popWith(c, nil)
	if ok || f != (Flash{}) {
		t.Fatalf("unexpected flash %+v", f)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("nothing to clear without a cookie")
	}
}
