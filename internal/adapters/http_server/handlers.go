package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"colonial_vip/internal/app"
	"colonial_vip/internal/domain"
)

type Handlers struct {
	Reservations *app.ReservationService
	Customers    *app.CustomerService
	Benefits     *app.BenefitService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/clients", func(r chi.Router) {
		r.Post("/", h.createCustomer)
		r.Get("/", h.listCustomers)
		r.Get("/search", h.searchCustomers)
		r.Get("/statistics", h.customerStatistics)
		r.Get("/{id}", h.getCustomer)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.deleteCustomer)
		r.Get("/{id}/reservations", h.listCustomerReservations)
	})

	s.mux.Route("/reservations", func(r chi.Router) {
		r.Post("/", h.createReservation)
		r.Get("/", h.listReservations)
		r.Get("/{id}", h.getReservation)
		r.Put("/{id}", h.updateReservation)
		r.Delete("/{id}", h.deleteReservation)
	})

	s.mux.Route("/benefits", func(r chi.Router) {
		r.Get("/", h.listBenefits)
		r.Get("/tier/{tierID}", h.listBenefitsByTier)
		r.Post("/tier/{tierID}", h.createBenefit)
		r.Put("/{id}", h.updateBenefit)
		r.Delete("/{id}", h.deleteBenefit)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps the domain error kinds onto HTTP statuses. A partial
// application is reported (never hidden behind a 2xx) with the ids the
// reconciler needs.
func writeError(w http.ResponseWriter, err error) {
	var pe *domain.PartialError
	switch {
	case errors.As(err, &pe):
		writeProblem(w, http.StatusInternalServerError, "Recompute Failed",
			fmt.Sprintf("reservation %d was applied but the loyalty recompute for customer %s failed; run reconciliation", pe.ReservationID, pe.CustomerID))
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "the referenced entity does not exist")
	case errors.Is(err, domain.ErrNoTiersConfigured):
		writeProblem(w, http.StatusInternalServerError, "No Tiers Configured", "the loyalty tier catalog is empty")
	case errors.Is(err, domain.ErrStorageUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Storage Unavailable", "persistence is unavailable, retry later")
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
}

func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ---- reservations ----

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var rv domain.Reservation
	if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if rv.CustomerID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "customerID is required")
		return
	}
	if rv.Points < 0 || rv.Nights < 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "points and nights must be non-negative")
		return
	}
	rv.ID = 0 // ids are issued by storage
	created, err := h.Reservations.CreateReservation(r.Context(), rv)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	rv, err := h.Reservations.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reservations.ListReservations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var upd domain.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if (upd.Points != nil && *upd.Points < 0) || (upd.Nights != nil && *upd.Nights < 0) {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "points and nights must be non-negative")
		return
	}
	updated, err := h.Reservations.UpdateReservation(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) deleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	deleted, err := h.Reservations.DeleteReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

// ---- customers ----

func (h *Handlers) createCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if c.ID == "" || c.Email == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "id and email are required")
		return
	}
	created, err := h.Customers.CreateCustomer(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.Customers.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Customers.ListCustomers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) searchCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("clientData")
	if q == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", "clientData is required")
		return
	}
	out, err := h.Customers.SearchCustomersByEmail(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var upd domain.CustomerUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	c, err := h.Customers.UpdateCustomerProfile(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.Customers.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listCustomerReservations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reservations.ListReservationsByCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// parseDate accepts date-only or RFC3339 values.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (h *Handlers) customerStatistics(w http.ResponseWriter, r *http.Request) {
	var f domain.StatsFilter
	q := r.URL.Query()
	if v := q.Get("country"); v != "" {
		f.Country = &v
	}
	if v := q.Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Query", "startDate must be YYYY-MM-DD or RFC3339")
			return
		}
		f.From = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Query", "endDate must be YYYY-MM-DD or RFC3339")
			return
		}
		f.To = &t
	}
	if v := q.Get("tierId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Query", "tierId must be a number")
			return
		}
		f.TierID = &id
	}
	out, err := h.Customers.Statistics(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- benefits ----

func (h *Handlers) listBenefits(w http.ResponseWriter, r *http.Request) {
	out, err := h.Benefits.ListBenefits(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listBenefitsByTier(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.ParseInt(chi.URLParam(r, "tierID"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "tierID must be a number")
		return
	}
	out, err := h.Benefits.ListBenefitsByTier(r.Context(), tierID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createBenefit(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.ParseInt(chi.URLParam(r, "tierID"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "tierID must be a number")
		return
	}
	var b domain.Benefit
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if b.Title == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "title is required")
		return
	}
	b.ID = 0
	b.TierID = tierID
	created, err := h.Benefits.CreateBenefit(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) updateBenefit(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var upd domain.BenefitUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	updated, err := h.Benefits.UpdateBenefit(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) deleteBenefit(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	deleted, err := h.Benefits.DeleteBenefit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}
