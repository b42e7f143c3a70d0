package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vbonduro/fridgekeep/internal/domain"
	"github.com/vbonduro/fridgekeep/internal/recipes"
	"github.com/vbonduro/fridgekeep/internal/service"
)

const dateLayout = "2006-01-02"

// maxPhotoBytes caps photo uploads at 10 MiB.
const maxPhotoBytes = 10 << 20

type itemJSON struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Quantity       float64  `json:"quantity"`
	Unit           string   `json:"unit"`
	DateAdded      string   `json:"date_added"`
	ExpirationDate *string  `json:"expiration_date"`
	Storage        string   `json:"storage"`
	Status         string   `json:"status"`
	AddedBy        string   `json:"added_by"`
	DetectionLabel string   `json:"detection_label,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	ImagePath      string   `json:"image_path,omitempty"`
	LocationSlot   string   `json:"location_slot,omitempty"`
}

func toItemJSON(v *domain.ItemView) itemJSON {
	out := itemJSON{
		ID:             v.ID,
		Name:           v.FoodName,
		Category:       v.FoodCategory,
		Quantity:       v.Quantity,
		Unit:           v.Unit,
		DateAdded:      v.DateAdded.Format(dateLayout),
		Storage:        string(v.Storage),
		Status:         string(v.Status),
		AddedBy:        string(v.AddedBy),
		DetectionLabel: v.DetectionLabel,
		Confidence:     v.Confidence,
		ImagePath:      v.ImagePath,
		LocationSlot:   v.LocationSlot,
	}
	if v.ExpirationDate != nil {
		s := v.ExpirationDate.Format(dateLayout)
		out.ExpirationDate = &s
	}
	return out
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	views, err := s.inventory.ListWithStatus(r.Context(), r.URL.Query().Get("storage"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeItems(w, http.StatusOK, views)
}

func (s *Server) handleExpiring(w http.ResponseWriter, r *http.Request) {
	days := 2
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be an integer"})
			return
		}
		days = parsed
	}

	views, err := s.inventory.ExpiringWithin(r.Context(), days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeItems(w, http.StatusOK, views)
}

type addItemRequest struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Storage        string  `json:"storage"`
	ExpirationDate string  `json:"expiration_date"`
	Category       string  `json:"category"`
	ShelfLifeDays  *int    `json:"shelf_life_days"`
	LocationSlot   string  `json:"location_slot"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	params := service.AddItemParams{
		Name:          req.Name,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Storage:       req.Storage,
		Category:      req.Category,
		ShelfLifeDays: req.ShelfLifeDays,
		LocationSlot:  req.LocationSlot,
	}
	if req.ExpirationDate != "" {
		exp, err := time.Parse(dateLayout, req.ExpirationDate)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expiration_date must be YYYY-MM-DD"})
			return
		}
		params.ExpirationDate = &exp
	}

	view, err := s.inventory.AddItem(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toItemJSON(view))
}

func (s *Server) handleAddItemFromPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "photo file is required"})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error("failed to close upload", "error", err)
		}
	}()

	image, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read photo"})
		return
	}

	quantity := 1.0
	if v := r.FormValue("quantity"); v != "" {
		quantity, err = strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be a number"})
			return
		}
	}
	storage := r.FormValue("storage")
	if storage == "" {
		storage = string(domain.StorageFridge)
	}

	view, err := s.inventory.AddItemFromPhoto(r.Context(), image, header.Header.Get("Content-Type"),
		quantity, r.FormValue("unit"), storage, r.FormValue("location_slot"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toItemJSON(view))
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	rc, mimeType, err := s.photoStore.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "photo not found"})
		return
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.logger.Error("failed to close photo", "error", err)
		}
	}()

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to write photo", "error", err)
	}
}

type consumeRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	ItemID   *int64  `json:"item_id"`
}

func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	result, err := s.inventory.Consume(r.Context(), req.Name, req.Quantity, req.ItemID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"result":    string(result.Outcome),
		"item_id":   result.ItemID,
		"remaining": result.Remaining,
	})
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	maxCount := 0
	if v := r.URL.Query().Get("max"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max must be an integer"})
			return
		}
		maxCount = parsed
	}

	ranked, err := s.recipes.SuggestionsForUser(r.Context(), maxCount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"recipes": ranked})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeItems(w http.ResponseWriter, status int, views []*domain.ItemView) {
	items := make([]itemJSON, 0, len(views))
	for _, v := range views {
		items = append(items, toItemJSON(v))
	}
	s.writeJSON(w, status, map[string]any{"items": items})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps typed service errors to HTTP statuses. Anything unmapped
// is a 500: store failures propagate, they are not the caller's fault.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		validation   *service.ValidationError
		notFound     *service.NotFoundError
		ambiguous    *service.AmbiguousTargetError
		insufficient *service.InsufficientQuantityError
		malformed    *recipes.MalformedRecipeError
	)

	switch {
	case errors.As(err, &validation):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": validation.Error()})
	case errors.As(err, &notFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": notFound.Error()})
	case errors.As(err, &ambiguous):
		s.writeJSON(w, http.StatusConflict, map[string]any{
			"error":         ambiguous.Error(),
			"candidate_ids": ambiguous.CandidateIDs,
		})
	case errors.As(err, &insufficient):
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": insufficient.Error()})
	case errors.As(err, &malformed):
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": malformed.Error()})
	case errors.Is(err, service.ErrConflict):
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("internal error", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
