package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestHTTP_Listen(t *testing.T) {
	proxy := NewHTTP("127.0.0.1:0")
	proxy.RegisterHandler("/fake", fakeHandler)

	go proxy.Listen()
	defer proxy.Stop()

	waitAddr(t, proxy)

	res, err := http.Get("http://" + proxy.GetAddr().String() + "/fake")
	require.NoError(t, err)

	defer res.Body.Close()

	output, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, "hello", string(output))
	require.Len(t, res.Header.Get(RequestIDHeader), 20)
}

func TestHTTP_Listen_KeepRequestID(t *testing.T) {
	proxy := NewHTTP("127.0.0.1:0")
	proxy.RegisterHandler("/fake", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(RequestID(r)))
	})

	go proxy.Listen()
	defer proxy.Stop()

	waitAddr(t, proxy)

	req, err := http.NewRequest(http.MethodGet, "http://"+proxy.GetAddr().String()+"/fake", nil)
	require.NoError(t, err)

	req.Header.Set(RequestIDHeader, "abc")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer res.Body.Close()

	output, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, "abc", string(output))
	require.Equal(t, "abc", res.Header.Get(RequestIDHeader))
}

func TestHTTP_Listen_BadAddr(t *testing.T) {
	proxy := NewHTTP("bad://xx")

	out := new(bytes.Buffer)
	proxy.logger = zerolog.New(out)

	func() {
		defer func() {
			res := recover()
			require.Regexp(t, "^failed to create conn 'bad://xx': ", res)
		}()

		proxy.Listen()
	}()

	require.Contains(t, out.String(), "failed to create conn 'bad://xx'")
	require.Nil(t, proxy.GetAddr())
}

func TestHTTP_GetAddr(t *testing.T) {
	proxy := NewHTTP("127.0.0.1:0")
	require.Nil(t, proxy.GetAddr())

	go proxy.Listen()
	defer proxy.Stop()

	waitAddr(t, proxy)

	require.True(t, strings.HasPrefix(proxy.GetAddr().String(), "127.0.0.1:"))
}

func TestRequestID_Missing(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	require.Equal(t, "", RequestID(req))
}

// -----------------------------------------------------------------------------
// Utility functions

func fakeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("hello"))
}

func waitAddr(t *testing.T, proxy *HTTP) {
	for i := 0; i < 50 && proxy.GetAddr() == nil; i++ {
		time.Sleep(20 * time.Millisecond)
	}

	require.NotNil(t, proxy.GetAddr())
}
