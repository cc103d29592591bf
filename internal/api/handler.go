// Package api 暴露本地 issue 视图的只读 HTTP 接口。
// 写操作（创建/更新 record）不在这里暴露，属于上层 UI 的职责。
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/qiniu/reviewsync/internal/issue"
	syncpkg "github.com/qiniu/reviewsync/internal/sync"

	"github.com/qiniu/x/xlog"
)

type Handler struct {
	synchronizer *syncpkg.Synchronizer
}

func NewHandler(synchronizer *syncpkg.Synchronizer) *Handler {
	return &Handler{synchronizer: synchronizer}
}

// Register 注册全部路由
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/issues", h.handleList)
	mux.HandleFunc("/api/issues/", h.handleGet)
}

// handleHealth 健康检查，附带同步状态
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"loading": h.synchronizer.Loading(),
	})
}

// handleList 返回当前快照中的全部 issue，按编号升序
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.synchronizer.Snapshot()
	issues := make([]*issue.Issue, 0, len(snapshot))
	for _, i := range snapshot {
		issues = append(issues, i)
	}
	sort.Slice(issues, func(a, b int) bool {
		return issues[a].Number < issues[b].Number
	})

	writeJSON(w, http.StatusOK, issues)
}

// handleGet 返回单条 issue
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	xl := xlog.NewWith(r.Context())

	numberStr := strings.TrimPrefix(r.URL.Path, "/api/issues/")
	number, err := strconv.Atoi(numberStr)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid issue number"))
		return
	}

	found, err := h.synchronizer.Get(r.Context(), number)
	if err != nil {
		xl.Errorf("Failed to get issue #%d: %v", number, err)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("failed to fetch issue"))
		return
	}
	if found == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
