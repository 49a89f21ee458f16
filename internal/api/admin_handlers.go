package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wanderstay/internal/service"
)

type AdminHandler struct {
	Service *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, err := h.Service.ListReservations(q.Get("date"), q.Get("resource_kind"), q.Get("status"), limit, offset)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type verifyRequest struct {
	Verified bool `json:"verified"`
}

func (h *AdminHandler) VerifyHotel(w http.ResponseWriter, r *http.Request) {
	h.verifyResource(w, r, h.Service.SetHotelVerified)
}

func (h *AdminHandler) VerifyGuide(w http.ResponseWriter, r *http.Request) {
	h.verifyResource(w, r, h.Service.SetGuideVerified)
}

func (h *AdminHandler) verifyResource(w http.ResponseWriter, r *http.Request, set func(int, bool) error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := set(id, req.Verified); err != nil {
		http.Error(w, "Could not update verification status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification status updated"})
}
