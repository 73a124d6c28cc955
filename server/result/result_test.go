package result

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Result_Write(t *testing.T) {
	testCases := []struct {
		name         string
		input        Result
		expectStatus int
		expectBody   string
		expectHeader map[string]string
	}{
		{
			name:         "ok",
			input:        OK(map[string]int{"count": 2}, "counted"),
			expectStatus: http.StatusOK,
			expectBody:   `{"count":2}`,
			expectHeader: map[string]string{"Content-Type": "application/json"},
		},
		{
			name:         "error",
			input:        BadRequest("name is blank", "blank name from %s", "client"),
			expectStatus: http.StatusBadRequest,
			expectBody:   `{"error":"name is blank","status":400}`,
		},
		{
			name:         "unprocessable",
			input:        Fail(http.StatusUnprocessableEntity, "too big", "size limit"),
			expectStatus: http.StatusUnprocessableEntity,
			expectBody:   `{"error":"too big","status":422}`,
		},
		{
			name:         "text error",
			input:        Text(http.StatusInternalServerError, "oh no", "panic"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "oh no",
			expectHeader: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		},
		{
			name:         "redirect",
			input:        Redirect("/api/v1/info"),
			expectStatus: http.StatusPermanentRedirect,
			expectHeader: map[string]string{"Location": "/api/v1/info", "Content-Type": ""},
		},
		{
			name:         "extra header",
			input:        Created(map[string]string{}, "made").WithHeader("Location", "/api/v1/grammars/1"),
			expectStatus: http.StatusCreated,
			expectBody:   `{}`,
			expectHeader: map[string]string{"Location": "/api/v1/grammars/1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			w := httptest.NewRecorder()

			tc.input.Write(w)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectBody, w.Body.String())
			for k, v := range tc.expectHeader {
				assert.Equal(v, w.Header().Get(k))
			}
		})
	}
}

func Test_Result_InternalMsg(t *testing.T) {
	testCases := []struct {
		name      string
		input     Result
		expectMsg string
		expectErr bool
	}{
		{name: "formatted", input: OK(nil, "got %d grammars", 3), expectMsg: "got 3 grammars"},
		{name: "not found", input: NotFound(), expectMsg: "not found", expectErr: true},
		{name: "server error", input: InternalServerError("db: %s", "gone"), expectMsg: "db: gone", expectErr: true},
		{name: "redirect", input: Redirect("/x"), expectMsg: "redirect -> /x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expectMsg, tc.input.InternalMsg)
			assert.Equal(tc.expectErr, tc.input.IsErr())
		})
	}
}

func Test_Result_WithHeader_DoesNotShare(t *testing.T) {
	assert := assert.New(t)

	base := OK(nil, "ok").WithHeader("X-One", "1")
	_ = base.WithHeader("X-Two", "2")

	w := httptest.NewRecorder()
	base.Write(w)

	assert.Equal("1", w.Header().Get("X-One"))
	assert.Empty(w.Header().Get("X-Two"))
}

func Test_Result_Prepare(t *testing.T) {
	assert := assert.New(t)

	bad := OK(make(chan int), "unencodable")
	assert.Error(bad.Prepare())
	assert.Panics(func() {
		bad.Write(httptest.NewRecorder())
	})

	assert.Panics(func() {
		Result{}.Write(httptest.NewRecorder())
	})
}
