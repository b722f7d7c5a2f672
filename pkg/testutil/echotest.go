package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ResponseRecorder 包装 httptest.ResponseRecorder, 增加 JSON 解析
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

func (r *ResponseRecorder) BodyJson() (map[string]any, error) {
	var response map[string]any
	if err := json.Unmarshal(r.Body.Bytes(), &response); err != nil {
		return nil, err
	}
	return response, nil
}

func (r *ResponseRecorder) BodyArrayJson() ([]map[string]any, error) {
	var response []map[string]any
	if err := json.Unmarshal(r.Body.Bytes(), &response); err != nil {
		return nil, err
	}
	return response, nil
}

// Decode 解析到指定的结构
func (r *ResponseRecorder) Decode(v any) error {
	return json.Unmarshal(r.Body.Bytes(), v)
}

// NewRequest 经过完整的中间件链执行一个模拟请求
func NewRequest(e *echo.Echo, method, path string, body io.Reader, header http.Header) *ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()

	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}
	e.ServeHTTP(rec, req)
	return &ResponseRecorder{rec}
}

func Get(e *echo.Echo, path string, query url.Values) *ResponseRecorder {
	return GetWithHeader(e, path, query, nil)
}

func GetWithHeader(e *echo.Echo, path string, query url.Values, header http.Header) *ResponseRecorder {
	if query != nil {
		path = path + "?" + query.Encode()
	}
	return NewRequest(e, http.MethodGet, path, nil, header)
}

func Post(e *echo.Echo, path string, jsonBody string) *ResponseRecorder {
	return PostWithHeader(e, path, jsonBody, nil)
}

func PostWithHeader(e *echo.Echo, path string, jsonBody string, header http.Header) *ResponseRecorder {
	return NewRequest(e, http.MethodPost, path, strings.NewReader(jsonBody), header)
}

// Bearer 认证头
func Bearer(token string) http.Header {
	h := http.Header{}
	h.Set(echo.HeaderAuthorization, "Bearer "+token)
	return h
}
