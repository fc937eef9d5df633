package handlers

import (
	"net/http"

	"finance-tracker/internal/favorites"
	applog "finance-tracker/internal/log"
	"finance-tracker/internal/models"
)

// FavoriteItem represents a favorite in the catalog view.
type FavoriteItem struct {
	models.Favorite
	CategoryStyle CategoryStyle
}

// FavoritesViewModel is the data passed to the favorites template.
type FavoritesViewModel struct {
	Page
	Favorites  []FavoriteItem
	Categories []CategoryDef
}

// ListFavorites renders the favorites page.
func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := GetUserFromContext(r)
	page := h.page(w, r)

	favs, err := h.svc.Favorites.List(ctx, user.ID)
	if err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentFavorites).ErrorContext(ctx, "Failed to list favorites",
			applog.FieldError, err, applog.FieldOperation, applog.OpList)
		page.Flashes = append(page.Flashes, Flash{Kind: FlashDanger, Message: "Could not load favorites."})
	}

	items := make([]FavoriteItem, 0, len(favs))
	for _, f := range favs {
		items = append(items, FavoriteItem{Favorite: f, CategoryStyle: getCategoryStyle(f.Category)})
	}
	h.render(w, r, "favorites.html", FavoritesViewModel{Page: page, Favorites: items, Categories: categories})
}

// AddFavorite saves a favorite from the favorites form.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentFavorites)
	user := GetUserFromContext(r)

	form, err := parseFavoriteForm(w, r)
	if err != nil {
		h.redirect(w, r, "/favorites", validationFlash(err))
		return
	}

	f, err := h.svc.Favorites.Add(ctx, user.ID, favorites.Input{
		Name:     form.Name,
		Amount:   form.Amount,
		Type:     form.Type,
		Category: form.Category,
	})
	if err != nil {
		h.redirect(w, r, "/favorites", h.failureFlash(r, logger, err, applog.OpCreate, "Could not save favorite."))
		return
	}

	logger.InfoContext(ctx, "Favorite added", applog.FieldID, f.ID, applog.FieldOperation, applog.OpCreate)
	h.redirect(w, r, "/favorites", Flash{Kind: FlashSuccess, Message: "Favorite \"" + f.Name + "\" saved."})
}

// DeleteFavorite removes one favorite.
func (h *Handlers) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentFavorites)
	user := GetUserFromContext(r)

	id, ok := parseID(r)
	if !ok {
		h.redirect(w, r, "/favorites", Flash{Kind: FlashWarning, Message: "Favorite not found."})
		return
	}

	if err := h.svc.Favorites.Delete(ctx, user.ID, id); err != nil {
		h.redirect(w, r, "/favorites", h.failureFlash(r, logger, err, applog.OpDelete, "Could not delete favorite."))
		return
	}

	logger.InfoContext(ctx, "Favorite deleted", applog.FieldID, id, applog.FieldOperation, applog.OpDelete)
	h.redirect(w, r, "/favorites", Flash{Kind: FlashSuccess, Message: "Favorite deleted."})
}
