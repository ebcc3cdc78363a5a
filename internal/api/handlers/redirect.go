package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"snipr/internal/engine/alias"
	"snipr/internal/engine/urls"
	apierrors "snipr/internal/pkg/errors"
)

type RedirectHandler struct {
	repo    *urls.Repository
	codec   *alias.Codec
	cache   *urls.ResolveCache
	baseURL string
}

func NewRedirectHandler(repo *urls.Repository, codec *alias.Codec, cache *urls.ResolveCache, baseURL string) *RedirectHandler {
	return &RedirectHandler{
		repo:    repo,
		codec:   codec,
		cache:   cache,
		baseURL: baseURL,
	}
}

// Redirect resolves a root-level alias path and issues a 302. It is
// mounted as the router's fallback because a wildcard at the root
// would shadow the static routes.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		apierrors.WriteError(w, http.StatusMethodNotAllowed,
			apierrors.ErrCodeInvalidInput, "Method not allowed", nil)
		return
	}

	raw := strings.Trim(r.URL.Path, "/")
	if raw == "" || strings.Contains(raw, "/") {
		h.notFound(w)
		return
	}

	a, err := h.codec.Parse(raw)
	if err != nil {
		h.notFound(w)
		return
	}

	if target, ok := h.cache.Get(a.String()); ok {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	u, err := h.repo.GetByAlias(r.Context(), a)
	if err != nil {
		if errors.Is(err, urls.ErrNotFound) {
			h.notFound(w)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Str("alias", raw).Msg("alias lookup failed")
		apierrors.WriteError(w, http.StatusInternalServerError,
			apierrors.ErrCodeInternal, "Failed to resolve alias", nil)
		return
	}

	h.cache.Set(a.String(), u.Target)
	http.Redirect(w, r, u.Target, http.StatusFound)
}

type previewResponse struct {
	Alias      string `json:"alias"`
	Target     string `json:"target"`
	ShortURL   string `json:"short_url"`
	PreviewURL string `json:"preview_url"`
}

// Preview returns the stored target without redirecting.
func (h *RedirectHandler) Preview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	u, ok := h.lookup(w, r, ps.ByName("alias"))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(previewResponse{
		Alias:      u.Alias.String(),
		Target:     u.Target,
		ShortURL:   u.ShortURL(h.baseURL),
		PreviewURL: u.PreviewURL(h.baseURL),
	})
}

// QRCode renders a PNG QR code for the short URL.
func (h *RedirectHandler) QRCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	u, ok := h.lookup(w, r, ps.ByName("alias"))
	if !ok {
		return
	}

	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			apierrors.WriteError(w, http.StatusBadRequest,
				apierrors.ErrCodeInvalidInput, "Invalid size parameter", nil)
			return
		}
		size = n
	}

	png, err := urls.GenerateQRCode(u.ShortURL(h.baseURL), size)
	if err != nil {
		apierrors.WriteError(w, http.StatusBadRequest,
			apierrors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *RedirectHandler) lookup(w http.ResponseWriter, r *http.Request, raw string) (*urls.TargetURL, bool) {
	a, err := h.codec.Parse(raw)
	if err != nil {
		h.notFound(w)
		return nil, false
	}

	u, err := h.repo.GetByAlias(r.Context(), a)
	if err != nil {
		if errors.Is(err, urls.ErrNotFound) {
			h.notFound(w)
			return nil, false
		}
		log.Ctx(r.Context()).Error().Err(err).Str("alias", raw).Msg("alias lookup failed")
		apierrors.WriteError(w, http.StatusInternalServerError,
			apierrors.ErrCodeInternal, "Failed to resolve alias", nil)
		return nil, false
	}
	return u, true
}

func (h *RedirectHandler) notFound(w http.ResponseWriter) {
	apierrors.WriteError(w, http.StatusNotFound,
		apierrors.ErrCodeNotFound, "Short URL not found", nil)
}
