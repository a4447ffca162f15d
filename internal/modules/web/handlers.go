package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"alpha_bot/internal/models"
	settingssvc "alpha_bot/internal/modules/settings/service"
	signalsvc "alpha_bot/internal/modules/signals/service"
	tradersvc "alpha_bot/internal/modules/trader/service"
	"alpha_bot/internal/runner"
	"alpha_bot/pkg/logger"

	"github.com/bytedance/sonic"
)

const defaultHistoryLimit = 100

// Server — публичный HTTP API: настройки, история сигналов и позиций, ручной
// запуск тика.
type Server struct {
	settings     *settingssvc.Store
	signals      *signalsvc.Store
	positions    tradersvc.PositionStore
	orchestrator *runner.Orchestrator

	appCtx context.Context
}

func NewServer(
	settings *settingssvc.Store,
	signals *signalsvc.Store,
	positions tradersvc.PositionStore,
	orchestrator *runner.Orchestrator,
	appCtx context.Context,
) *Server {
	return &Server{
		settings:     settings,
		signals:      signals,
		positions:    positions,
		orchestrator: orchestrator,
		appCtx:       appCtx,
	}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/signals", s.handleSignals)
	mux.HandleFunc("/api/positions", s.handlePositions)
	mux.HandleFunc("/api/run", s.handleRun)
	return mux
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.settings.Snapshot())
	case http.MethodPost:
		// только целиком: частичных апдейтов у конфигурации нет
		var next models.Settings
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&next); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		if err := s.settings.Replace(r.Context(), &next); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, s.settings.Snapshot())
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filter, err := historyFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.signals.History(r.Context(), filter)
	if err != nil {
		logger.Error("web: signals history: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filter, err := historyFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.positions.History(r.Context(), filter)
	if err != nil {
		logger.Error("web: positions history: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	// тик живёт на контексте приложения, а не запроса: закрытый сокет не
	// обрывает пайплайн посреди записи
	go func() {
		if err := s.orchestrator.RunNow(s.appCtx); err != nil {
			logger.Error("web: manual tick: %v", err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func historyFilter(r *http.Request) (models.HistoryFilter, error) {
	q := r.URL.Query()
	filter := models.HistoryFilter{
		Symbol: q.Get("symbol"),
		Status: q.Get("status"),
		Limit:  defaultHistoryLimit,
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			return filter, &badParam{name: "limit", value: v}
		}
		filter.Limit = int32(n)
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, &badParam{name: "from", value: v}
		}
		filter.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, &badParam{name: "to", value: v}
		}
		filter.To = t
	}
	return filter, nil
}

type badParam struct {
	name  string
	value string
}

func (e *badParam) Error() string { return "bad query param " + e.name + "=" + e.value }

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body, err := sonic.Marshal(v)
	if err != nil {
		logger.Error("web: marshal response: %v", err)
		return
	}
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
