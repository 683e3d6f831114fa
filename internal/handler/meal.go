package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"whosfordinner/internal/photo"
	"whosfordinner/internal/store"
	ws "whosfordinner/internal/websocket"
)

const maxPhotoBytes = 10 << 20

// MealHandler serves the meal catalogue page and its add, edit, delete
// and restore intents. Photos ride along on add and edit as multipart
// uploads; photos may be nil when no bucket is configured.
type MealHandler struct {
	meals     *store.MealStore
	photos    *photo.Store
	hub       *ws.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewMealHandler(meals *store.MealStore, photos *photo.Store, hub *ws.Hub, templates *template.Template, logger *slog.Logger) *MealHandler {
	return &MealHandler{
		meals:     meals,
		photos:    photos,
		hub:       hub,
		templates: templates,
		logger:    logger,
	}
}

func (h *MealHandler) MealsPage(w http.ResponseWriter, r *http.Request) {
	meals, err := h.meals.List()
	if err != nil {
		h.logger.Error("list meals", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Meals":         meals,
		"PhotosEnabled": h.photos != nil,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "meals.html", data); err != nil {
		h.logger.Error("render meals", "error", err)
	}
}

// Intent dispatches the meal form posts.
func (h *MealHandler) Intent(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	switch intent := r.FormValue("intent"); intent {
	case "add":
		h.add(w, r)
	case "edit":
		h.edit(w, r)
	case "delete":
		h.delete(w, r)
	case "restore":
		h.restore(w, r)
	default:
		http.Error(w, "unknown intent: "+intent, http.StatusBadRequest)
	}
}

func (h *MealHandler) add(w http.ResponseWriter, r *http.Request) {
	meal, err := h.meals.Create(
		r.FormValue("name"),
		nil,
		optionalField(r, "description"),
		optionalField(r, "shoppingList"),
	)
	if errors.Is(err, store.ErrNameRequired) {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.serverError(w, "create meal", err)
		return
	}

	h.attachPhoto(r, meal.ID)
	h.broadcast("meal", "created", meal.ID)
	http.Redirect(w, r, "/meals", http.StatusSeeOther)
}

func (h *MealHandler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mealID(w, r)
	if !ok {
		return
	}

	meal, err := h.meals.GetByID(id)
	if err != nil {
		h.serverError(w, "look up meal", err)
		return
	}
	if meal == nil {
		http.Error(w, "meal not found", http.StatusNotFound)
		return
	}

	err = h.meals.Update(
		id,
		r.FormValue("name"),
		meal.PhotoKey,
		optionalField(r, "description"),
		optionalField(r, "shoppingList"),
	)
	if errors.Is(err, store.ErrNameRequired) {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.serverError(w, "update meal", err)
		return
	}

	h.attachPhoto(r, id)
	h.broadcast("meal", "updated", id)
	http.Redirect(w, r, "/meals", http.StatusSeeOther)
}

// delete removes the meal outright when no dinner has ever planned it,
// and archives it otherwise so history keeps its label.
func (h *MealHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mealID(w, r)
	if !ok {
		return
	}

	referenced, err := h.meals.IsReferenced(id)
	if err != nil {
		h.serverError(w, "check references", err)
		return
	}

	if referenced {
		err = h.meals.Archive(id)
	} else {
		err = h.meals.Delete(id)
		if errors.Is(err, store.ErrMealReferenced) {
			// planned between the check and the delete
			err = h.meals.Archive(id)
			referenced = true
		}
	}
	if err != nil {
		h.serverError(w, "remove meal", err)
		return
	}

	if referenced {
		h.broadcast("meal", "archived", id)
	} else {
		h.broadcast("meal", "deleted", id)
	}
	http.Redirect(w, r, "/meals", http.StatusSeeOther)
}

func (h *MealHandler) restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mealID(w, r)
	if !ok {
		return
	}

	if err := h.meals.Restore(id); err != nil {
		h.serverError(w, "restore meal", err)
		return
	}

	h.broadcast("meal", "restored", id)
	http.Redirect(w, r, "/meals", http.StatusSeeOther)
}

// attachPhoto uploads a photo riding on the form, if any, and points the
// meal at it. Upload failures only log; the meal save already happened
// and a missing photo is not worth failing the whole submit for.
func (h *MealHandler) attachPhoto(r *http.Request, mealID int64) {
	if h.photos == nil || r.MultipartForm == nil {
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			h.logger.Warn("read photo upload", "error", err)
		}
		return
	}
	defer file.Close()

	key := photo.Key(mealID, header.Filename)
	if err := h.photos.Put(r.Context(), key, file, contentType(header)); err != nil {
		h.logger.Error("upload photo", "meal", mealID, "error", err)
		return
	}
	if err := h.meals.SetPhotoKey(mealID, key); err != nil {
		h.logger.Error("set photo key", "meal", mealID, "error", err)
	}
}

func (h *MealHandler) mealID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid meal id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *MealHandler) broadcast(entity, action string, id int64) {
	if h.hub != nil {
		h.hub.Broadcast(ws.NewMessage(entity, action, id, ""))
	}
}

func (h *MealHandler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func optionalField(r *http.Request, name string) *string {
	if v := strings.TrimSpace(r.FormValue(name)); v != "" {
		return &v
	}
	return nil
}

func contentType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}
