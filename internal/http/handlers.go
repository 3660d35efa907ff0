package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budget/internal/core"
)

const categoryCacheKey = "all"

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	if cats, found := s.categoryCache.Get(categoryCacheKey); found {
		slog.DebugContext(r.Context(), "Category cache hit", "count", len(cats))
		respondJSON(w, http.StatusOK, cats)
		return
	}

	cats, err := s.store.AllCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories error", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	s.categoryCache.Set(categoryCacheKey, cats)
	respondJSON(w, http.StatusOK, cats)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := sanitizeInput(req.Name)
	if name == "" {
		errorJSON(w, http.StatusUnprocessableEntity, "category name is required")
		return
	}

	cat, err := s.ledger.CreateCategory(r.Context(), name)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create category error", "error", err, "name", name)
		errorJSON(w, http.StatusConflict, "failed to create category")
		return
	}

	// New category invalidates the cached list.
	s.categoryCache.Delete(categoryCacheKey)

	respondJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := parseUserID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err, "user_id", user)
		errorJSON(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

type createTransactionRequest struct {
	UserID     int64  `json:"user_id"`
	Kind       string `json:"kind"`
	CategoryID int64  `json:"category_id"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	Name       string `json:"name"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		errorJSON(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		errorJSON(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx := core.Transaction{
		Owner:      core.UserID(req.UserID),
		Kind:       core.TransactionKind(req.Kind),
		CategoryID: req.CategoryID,
		Amount:     amount,
		Date:       date,
		Name:       sanitizeInput(req.Name),
	}

	saved, err := s.ledger.RecordTransaction(r.Context(), tx)
	if err != nil {
		status := statusForDomainError(err)
		slog.ErrorContext(r.Context(), "Create transaction error",
			"error", err, "user_id", req.UserID, "kind", req.Kind)
		errorJSON(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := parseUserID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), user, id); err != nil {
		slog.WarnContext(r.Context(), "Delete transaction failed",
			"error", err, "user_id", user, "id", id)
		errorJSON(w, http.StatusNotFound, "transaction not found")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type createGoalRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Target string `json:"target"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Goal targets may be zero; parseAmount rejects that, so parse zero
	// explicitly.
	var target core.Money
	if trimmed := strings.TrimSpace(req.Target); trimmed != "" && !isZeroAmount(trimmed) {
		var err error
		target, err = parseAmount(trimmed)
		if err != nil {
			errorJSON(w, http.StatusUnprocessableEntity, "invalid target amount")
			return
		}
	}

	goal := core.Goal{
		Owner:  core.UserID(req.UserID),
		Name:   sanitizeInput(req.Name),
		Target: target,
	}

	saved, err := s.ledger.CreateGoal(r.Context(), goal)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create goal error", "error", err, "user_id", req.UserID)
		errorJSON(w, statusForDomainError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

type createContributionRequest struct {
	GoalID int64  `json:"goal_id"`
	UserID int64  `json:"user_id"`
	Amount string `json:"amount"`
}

func (s *Server) handleCreateContribution(w http.ResponseWriter, r *http.Request) {
	var req createContributionRequest
	if err := decodeJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		errorJSON(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	contribution := core.Contribution{
		GoalID:      req.GoalID,
		Contributor: core.UserID(req.UserID),
		Amount:      amount,
	}

	saved, err := s.ledger.AddContribution(r.Context(), contribution)
	if err != nil {
		if errors.Is(err, core.ErrInvalidGoal) {
			errorJSON(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.ErrorContext(r.Context(), "Create contribution error",
			"error", err, "goal_id", req.GoalID, "user_id", req.UserID)
		errorJSON(w, statusForDomainError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

// handleReport computes the dashboard report for a user. The reference date
// defaults to today and can be overridden with ?date=YYYY-MM-DD, which keeps
// report output reproducible.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	user, err := parseUserID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	ref := time.Now()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	rep, err := s.engine.BuildReport(r.Context(), user, ref)
	if err != nil {
		slog.ErrorContext(r.Context(), "Build report error", "error", err, "user_id", user)
		errorJSON(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, rep)
}

// isZeroAmount reports whether s parses as exactly zero, e.g. "0" or "0.00".
func isZeroAmount(s string) bool {
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f == 0
}

// statusForDomainError maps validation sentinels to 422 and everything else
// to 500.
func statusForDomainError(err error) int {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidKind,
		core.ErrInvalidTarget,
		core.ErrEmptyName,
		core.ErrNameTooLong,
		core.ErrInvalidCategory,
		core.ErrInvalidGoal,
		core.ErrInvalidUser,
	} {
		if errors.Is(err, sentinel) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}
