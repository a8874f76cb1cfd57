package assignments

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pd-assess/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func isAdmin(r *http.Request) bool {
	admin, _ := r.Context().Value("is_admin").(bool)
	return admin
}

// ── Assignments ─────────────────────────────────────────

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	adminID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.EngineerID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "engineer_id is required"})
		return
	}
	if !models.ValidTopics[models.Topic(req.Topic)] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "topic must be 'sta', 'cts', or 'signoff'"})
		return
	}
	if req.Count < 0 || req.Count > 50 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "count must be between 1 and 50, or 0 for the default"})
		return
	}

	assignment, err := h.service.CreateAssignment(adminID, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Engineer not found"})
			return
		}
		log.Printf("[assignments] create failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create assignment"})
		return
	}

	writeJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	assignments, err := h.service.ListAssignments(userID, isAdmin(r))
	if err != nil {
		log.Printf("[assignments] list failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list assignments"})
		return
	}

	writeJSON(w, http.StatusOK, models.AssignmentListResponse{
		Assignments: assignments,
		Total:       len(assignments),
	})
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid assignment ID"})
		return
	}

	assignment, err := h.service.GetAssignment(userID, isAdmin(r), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Assignment not found"})
		case errors.Is(err, ErrForbidden):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Not your assignment"})
		default:
			log.Printf("[assignments] get failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load assignment"})
		}
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

func (h *Handler) ListEngineers(w http.ResponseWriter, r *http.Request) {
	engineers, err := h.service.ListEngineers()
	if err != nil {
		log.Printf("[assignments] list engineers failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list engineers"})
		return
	}
	writeJSON(w, http.StatusOK, engineers)
}

// ── Submissions ─────────────────────────────────────────

func (h *Handler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid assignment ID"})
		return
	}

	var req models.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if len(req.Answers) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "answers are required"})
		return
	}

	resp, err := h.service.SubmitAnswers(userID, id, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Assignment not found"})
		case errors.Is(err, ErrForbidden):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Not your assignment"})
		case errors.Is(err, ErrAlreadySubmitted):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Assignment already submitted"})
		default:
			log.Printf("[assignments] submit failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit answers"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) PendingSubmissions(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.PendingSubmissions()
	if err != nil {
		log.Printf("[assignments] pending failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list pending submissions"})
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid submission ID"})
		return
	}

	review, err := h.service.Review(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Submission not found"})
			return
		}
		log.Printf("[assignments] review failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load review"})
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	adminID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid submission ID"})
		return
	}

	var req models.GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.FinalScore != nil && (*req.FinalScore < 0 || *req.FinalScore > 10) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "final_score must be between 0 and 10"})
		return
	}

	resp, err := h.service.Grade(adminID, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Submission not found"})
			return
		}
		if errors.Is(err, ErrAlreadyGraded) {
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Submission already graded"})
			return
		}
		log.Printf("[assignments] grade failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to grade submission"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
