package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"snipr/internal/engine/alias"
	"snipr/internal/engine/screening"
	"snipr/internal/engine/urls"
	apierrors "snipr/internal/pkg/errors"
)

type ShortenHandler struct {
	store         urls.Store
	codec         *alias.Codec
	screener      *screening.Screener // nil when screening is disabled
	baseURL       string
	retryLimit    int
	warnThreshold int
}

func NewShortenHandler(store urls.Store, codec *alias.Codec, screener *screening.Screener, baseURL string, retryLimit, warnThreshold int) *ShortenHandler {
	return &ShortenHandler{
		store:         store,
		codec:         codec,
		screener:      screener,
		baseURL:       baseURL,
		retryLimit:    retryLimit,
		warnThreshold: warnThreshold,
	}
}

type shortenRequest struct {
	URL string `json:"url"`
}

type shortenResponse struct {
	Alias      string `json:"alias"`
	Target     string `json:"target"`
	ShortURL   string `json:"short_url"`
	PreviewURL string `json:"preview_url"`
	New        bool   `json:"new"`
}

func (h *ShortenHandler) Shorten(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	target, ok := h.readTarget(w, r)
	if !ok {
		return
	}

	if err := urls.ValidateTarget(target); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest,
			apierrors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	if h.screener != nil {
		if msg := h.screener.MessageIfBlacklisted(ctx, target); msg != "" {
			log.Ctx(ctx).Info().Str("target", target).Msg("target rejected by screening")
			apierrors.WriteError(w, http.StatusUnprocessableEntity,
				apierrors.ErrCodeSpamRejected, msg, nil)
			return
		}
	}

	reg := urls.NewRegistry(h.store, h.codec, h.retryLimit, h.warnThreshold)

	u, err := reg.GetOrCreate(ctx, target)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("lookup failed")
		apierrors.WriteError(w, http.StatusInternalServerError,
			apierrors.ErrCodeInternal, "Failed to shorten URL", nil)
		return
	}
	if err := reg.CommitPending(ctx); err != nil {
		if errors.Is(err, urls.ErrRegistrationFailed) {
			apierrors.WriteError(w, http.StatusServiceUnavailable,
				apierrors.ErrCodeRegistrationFailed,
				"Could not assign an alias, please resubmit", nil)
			return
		}
		log.Ctx(ctx).Error().Err(err).Msg("registration failed")
		apierrors.WriteError(w, http.StatusInternalServerError,
			apierrors.ErrCodeInternal, "Failed to shorten URL", nil)
		return
	}

	status := http.StatusCreated
	if u.Existed() {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(shortenResponse{
		Alias:      u.Alias.String(),
		Target:     u.Target,
		ShortURL:   u.ShortURL(h.baseURL),
		PreviewURL: u.PreviewURL(h.baseURL),
		New:        !u.Existed(),
	})
}

// readTarget accepts either a JSON body or a form post with a "url" field.
func (h *ShortenHandler) readTarget(w http.ResponseWriter, r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			apierrors.WriteError(w, http.StatusBadRequest,
				apierrors.ErrCodeInvalidInput, "Invalid form body", nil)
			return "", false
		}
		return r.FormValue("url"), true
	}

	var req shortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest,
			apierrors.ErrCodeInvalidInput, "Invalid JSON body", nil)
		return "", false
	}
	return req.URL, true
}
