package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"jiaban/internal/core"
)

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, apiResponse{Status: "success", Message: message})
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, apiResponse{Status: "error", Message: message})
}

// writeServiceError maps domain errors to HTTP status codes. Validation
// failures become 400s, everything else is a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "日期格式无效，请使用 YYYY-MM-DD。")
	case errors.Is(err, core.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, "月份无效，必须在 1 到 12 之间。")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"url", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("操作失败：%v", err))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求数据")
		return false
	}
	return true
}

type updateScheduleRequest struct {
	Date      string `json:"date"`
	IsWorkday *bool  `json:"is_workday"`
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req updateScheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date == "" {
		writeError(w, http.StatusBadRequest, "没有提供日期")
		return
	}
	if req.IsWorkday == nil {
		writeError(w, http.StatusBadRequest, "没有提供 is_workday")
		return
	}

	res, err := s.svc.UpdateSchedule(r.Context(), req.Date, *req.IsWorkday)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, res.Message())
}

type populateMonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (s *Server) handlePopulateMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req populateMonthRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Year == 0 {
		writeError(w, http.StatusBadRequest, "没有提供年份")
		return
	}

	res, err := s.svc.PopulateMonth(r.Context(), req.Year, req.Month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, res.Message())
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res, err := s.svc.ClockOut(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, res.Message())
}

func (s *Server) handleGetSuggestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res, err := s.svc.DailySuggestion(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, res.Message())
}

type commandRequest struct {
	Command    string          `json:"command"`
	Parameters json.RawMessage `json:"parameters"`
}

// handleCommand is the structured entry point for the external intent
// parser: it carries a command name plus tool parameters.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req commandRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch req.Command {
	case "update_schedule":
		var params struct {
			TargetDate string `json:"target_date"`
			IsWorkday  *bool  `json:"is_workday"`
		}
		if err := json.Unmarshal(req.Parameters, &params); err != nil || params.TargetDate == "" || params.IsWorkday == nil {
			writeError(w, http.StatusBadRequest, "update_schedule 需要 target_date 和 is_workday 参数")
			return
		}
		res, err := s.svc.UpdateSchedule(r.Context(), params.TargetDate, *params.IsWorkday)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, res.Message())

	case "populate_month":
		var params struct {
			Year  int `json:"year"`
			Month int `json:"month"`
		}
		if err := json.Unmarshal(req.Parameters, &params); err != nil || params.Year == 0 {
			writeError(w, http.StatusBadRequest, "populate_month 需要 year 和 month 参数")
			return
		}
		res, err := s.svc.PopulateMonth(r.Context(), params.Year, params.Month)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, res.Message())

	case "clock_out":
		res, err := s.svc.ClockOut(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, res.Message())

	case "get_suggestion":
		res, err := s.svc.DailySuggestion(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, res.Message())

	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("未知命令：%s", req.Command))
	}
}
