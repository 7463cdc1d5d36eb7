package devserver

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

var closingBody = []byte("</body>")

// injectScript buffers HTML responses from next and inserts the live reload
// client before the closing body tag. Only complete GET responses are
// rewritten; HEAD and range requests pass through untouched.
func injectScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if r.Method != http.MethodGet || r.Header.Get("Range") != "" ||
			p != "/" && !strings.HasSuffix(p, "/") && !strings.HasSuffix(p, ".html") {
			next.ServeHTTP(w, r)
			return
		}

		rec := &bufferedResponse{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		rec.finish()
	})
}

type bufferedResponse struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bufferedResponse) WriteHeader(code int) {
	b.status = code
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedResponse) finish() {
	body := b.body.Bytes()
	if b.status == http.StatusOK && strings.HasPrefix(b.Header().Get("Content-Type"), "text/html") {
		body = insertScript(body)
		b.Header().Set("Content-Length", strconv.Itoa(len(body)))
	}
	b.ResponseWriter.WriteHeader(b.status)
	_, _ = b.ResponseWriter.Write(body)
}

// insertScript places the script tag before the last </body>, or appends it
// when the document has none.
func insertScript(html []byte) []byte {
	tag := []byte(`<script src="` + ScriptPath + `"></script>`)
	i := bytes.LastIndex(html, closingBody)
	if i < 0 {
		return append(html, tag...)
	}

	out := make([]byte, 0, len(html)+len(tag))
	out = append(out, html[:i]...)
	out = append(out, tag...)
	return append(out, html[i:]...)
}
