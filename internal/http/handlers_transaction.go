package http

import (
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type transactionRequest struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Kind        string     `json:"kind"`
	CategoryID  string     `json:"category_id"`
	Date        string     `json:"date"`
	Notes       string     `json:"notes"`
}

type transactionResponse struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	Amount       core.Money `json:"amount"`
	Kind         string     `json:"kind"`
	CategoryID   string     `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	Date         string     `json:"date"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		Description:  t.Description,
		Amount:       t.Amount,
		Kind:         string(t.Kind),
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		Date:         t.Date.UTC().Format("2006-01-02"),
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
	}
}

func (req transactionRequest) toInput() (services.TransactionInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return services.TransactionInput{}, err
	}
	return services.TransactionInput{
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        core.TransactionKind(strings.ToLower(strings.TrimSpace(req.Kind))),
		CategoryID:  req.CategoryID,
		Date:        date,
		Notes:       req.Notes,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	t, err := s.transactions.Create(r.Context(), userID(r), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := paging(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := storage.TransactionFilter{
		CategoryID: strings.TrimSpace(r.URL.Query().Get("category_id")),
		Page:       page,
		PageSize:   pageSize,
	}
	if kind := strings.TrimSpace(r.URL.Query().Get("kind")); kind != "" {
		k := core.TransactionKind(strings.ToLower(kind))
		if !core.ValidKind(k) {
			respondError(w, http.StatusBadRequest, "invalid kind parameter")
			return
		}
		filter.Kind = k
	}
	if v := strings.TrimSpace(r.URL.Query().Get("start_date")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
			return
		}
		filter.StartDate = d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("end_date")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
			return
		}
		// Make the end date inclusive of its whole day.
		filter.EndDate = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	txs, err := s.transactions.List(r.Context(), userID(r), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	t, err := s.transactions.Update(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
