package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func record(h gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	h(c)
	return w
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{20, 10, 2},
		{21, 10, 3},
		{5, 0, 1},
	}
	for _, tc := range cases {
		if got := NewPagination(tc.total, 1, tc.pageSize).TotalPages; got != tc.want {
			t.Errorf("total=%d page_size=%d 期望 %d 页，实际: %d", tc.total, tc.pageSize, tc.want, got)
		}
	}
}

func TestOKPage(t *testing.T) {
	w := record(func(c *gin.Context) { OKPage(c, []int{1, 2}, 21, 3, 10) })

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Code int      `json:"code"`
		Data PageData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	p := body.Data.Pagination
	if body.Code != CodeOK || p.Page != 3 || p.Total != 21 || p.TotalPages != 3 {
		t.Errorf("分页信息不符: %+v", p)
	}
}

func TestCreated(t *testing.T) {
	w := record(func(c *gin.Context) { Created(c, map[string]string{"id": "x"}) })

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAttachment(t *testing.T) {
	w := record(func(c *gin.Context) { Attachment(c, "report_04_03_2024.pdf", "application/pdf", []byte("%PDF")) })

	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=report_04_03_2024.pdf" {
		t.Errorf("Content-Disposition 不符: %s", cd)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("期望禁止缓存")
	}
	if w.Header().Get("Content-Type") != "application/pdf" || w.Body.String() != "%PDF" {
		t.Errorf("文件内容不符: %s %q", w.Header().Get("Content-Type"), w.Body.String())
	}
}

func TestAttachment_NonASCIIName(t *testing.T) {
	w := record(func(c *gin.Context) { Attachment(c, "дневник.pdf", "application/pdf", nil) })

	cd := strings.ToLower(w.Header().Get("Content-Disposition"))
	if !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "filename*=utf-8''") {
		t.Errorf("期望 RFC 2231 编码文件名，实际: %s", cd)
	}
}

func TestErrorWithDetails(t *testing.T) {
	w := record(func(c *gin.Context) {
		ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", "subject_id")
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != 10001 || resp.Details != "subject_id" || resp.Data != nil {
		t.Errorf("错误响应不符: %+v", resp)
	}
}

func TestInternalError(t *testing.T) {
	w := record(InternalError)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != CodeInternal || resp.Message != "服务器内部错误" {
		t.Errorf("错误响应不符: %+v", resp)
	}
}
