package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finflio/internal/core"
	"finflio/internal/log"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto transactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeFailure(w, r, http.StatusBadRequest, "Invalid Transaction")
		return
	}

	userID := userIDFromContext(r.Context())
	txn, err := s.txns.Create(r.Context(), userID, dto.input())
	if err != nil {
		s.writeTransactionError(w, r, err)
		return
	}

	s.invalidateStats(userID)
	created := toDTO(txn)
	writeJSON(w, r, http.StatusCreated, transactionResponse{
		Status:      http.StatusCreated,
		Message:     "Successful",
		Transaction: &created,
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeFailure(w, r, http.StatusBadRequest, "Transaction ID is missing")
		return
	}

	txn, err := s.txns.Get(r.Context(), id)
	if err != nil {
		s.writeTransactionError(w, r, err)
		return
	}

	dto := toDTO(txn)
	writeJSON(w, r, http.StatusOK, transactionResponse{
		Status:      http.StatusOK,
		Message:     "Successful",
		Transaction: &dto,
	})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeFailure(w, r, http.StatusBadRequest, "Transaction ID is missing")
		return
	}

	var dto transactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeFailure(w, r, http.StatusBadRequest, "Invalid Transaction")
		return
	}

	userID := userIDFromContext(r.Context())
	if err := s.txns.Update(r.Context(), userID, id, dto.input()); err != nil {
		s.writeTransactionError(w, r, err)
		return
	}

	s.invalidateStats(userID)
	dto.ID = id
	writeJSON(w, r, http.StatusOK, transactionResponse{
		Status:      http.StatusOK,
		Message:     "Successful",
		Transaction: &dto,
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeFailure(w, r, http.StatusBadRequest, "Transaction ID is missing")
		return
	}

	userID := userIDFromContext(r.Context())
	if err := s.txns.Delete(r.Context(), userID, id); err != nil {
		s.writeTransactionError(w, r, err)
		return
	}

	s.invalidateStats(userID)
	writeJSON(w, r, http.StatusOK, transactionResponse{
		Status:  http.StatusOK,
		Message: "Transaction Deleted Successfully",
	})
}

func (s *Server) handleListFiltered(w http.ResponseWriter, r *http.Request) {
	monthParam := r.URL.Query().Get("month")
	if monthParam == "" {
		writeFailure(w, r, http.StatusBadRequest, "Month is missing")
		return
	}
	month, err := parseMonth(monthParam)
	if err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}

	year := time.Now().UTC().Year()
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err = strconv.Atoi(yearParam)
		if err != nil {
			writeFailure(w, r, http.StatusBadRequest, "Invalid year")
			return
		}
	}

	page, ok := s.pageParam(w, r)
	if !ok {
		return
	}

	result, err := s.txns.ListFiltered(r.Context(), userIDFromContext(r.Context()), year, month, page)
	if err != nil {
		s.writeListError(w, r, err)
		return
	}
	writePage(w, r, result)
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageParam(w, r)
	if !ok {
		return
	}

	result, err := s.txns.ListAll(r.Context(), userIDFromContext(r.Context()), page)
	if err != nil {
		s.writeListError(w, r, err)
		return
	}
	writePage(w, r, result)
}

func (s *Server) handleListUnsettled(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageParam(w, r)
	if !ok {
		return
	}

	result, err := s.txns.ListUnsettled(r.Context(), userIDFromContext(r.Context()), page)
	if err != nil {
		s.writeListError(w, r, err)
		return
	}
	writePage(w, r, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	ref := time.Now().UTC()
	cacheKey := userID + ":" + ref.Format("2006-01-02")

	if cached, ok := s.statsCache.Get(cacheKey); ok {
		writeJSON(w, r, http.StatusOK, statsResponse{
			Status:  http.StatusOK,
			Message: "Successful",
			Stats:   &cached,
		})
		return
	}

	stats, err := s.txns.GetStats(r.Context(), userID, ref)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Stats aggregation failed",
			log.FieldUserID, userID,
			log.FieldError, err)
		writeFailure(w, r, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	s.statsCache.Set(cacheKey, stats)
	writeJSON(w, r, http.StatusOK, statsResponse{
		Status:  http.StatusOK,
		Message: "Successful",
		Stats:   &stats,
	})
}

func (s *Server) handlePostBatch(w http.ResponseWriter, r *http.Request) {
	var dtos []transactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		writeFailure(w, r, http.StatusBadRequest, "Invalid Transaction")
		return
	}

	ins := make([]core.TransactionInput, 0, len(dtos))
	for _, dto := range dtos {
		ins = append(ins, dto.input())
	}

	userID := userIDFromContext(r.Context())
	if err := s.txns.CreateBatch(r.Context(), userID, ins); err != nil {
		s.writeTransactionError(w, r, err)
		return
	}

	s.invalidateStats(userID)
	writeJSON(w, r, http.StatusOK, transactionsResponse{
		Status:       http.StatusOK,
		Message:      "Successful",
		Transactions: dtos,
	})
}

// pageParam reads the mandatory page query parameter.
func (s *Server) pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	pageParam := r.URL.Query().Get("page")
	if pageParam == "" {
		writeFailure(w, r, http.StatusBadRequest, "Page no is missing")
		return 0, false
	}
	page, err := strconv.Atoi(pageParam)
	if err != nil {
		writeFailure(w, r, http.StatusBadRequest, "Invalid page number")
		return 0, false
	}
	return page, true
}

// parseMonth accepts a month number (3) or an English month name (March).
func parseMonth(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("invalid month %d", n)
		}
		return n, nil
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(s, m.String()) {
			return int(m), nil
		}
	}
	return 0, fmt.Errorf("invalid month %q", s)
}

func writePage(w http.ResponseWriter, r *http.Request, p core.Page) {
	writeJSON(w, r, http.StatusOK, transactionsResponse{
		Status:       http.StatusOK,
		Message:      "Successful",
		MonthTotal:   p.MonthTotal,
		Transactions: toDTOs(p.Items),
		TotalPages:   p.TotalPages,
	})
}

// writeTransactionError maps single-transaction failures onto the envelope.
func (s *Server) writeTransactionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsConflict(err):
		writeFailure(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrTransactionNotFound):
		writeFailure(w, r, http.StatusNotFound, "Transaction not Found. Invalid ID")
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Transaction operation failed",
			log.FieldError, err)
		writeFailure(w, r, http.StatusInternalServerError, "Something went wrong!")
	}
}

// writeListError maps listing failures. An empty result set is reported as
// a not-found envelope with an empty transactions array.
func (s *Server) writeListError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNoTransactions):
		writeJSON(w, r, http.StatusNotFound, transactionsResponse{
			Status:       http.StatusNotFound,
			Message:      "No Transactions",
			Transactions: []transactionDTO{},
		})
	case errors.Is(err, core.ErrInvalidPage):
		writeFailure(w, r, http.StatusBadRequest, err.Error())
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Transaction listing failed",
			log.FieldError, err)
		writeFailure(w, r, http.StatusInternalServerError, "Something went wrong!")
	}
}

func (s *Server) invalidateStats(userID string) {
	s.statsCache.DeletePrefix(userID + ":")
}
