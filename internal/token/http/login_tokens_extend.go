package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openkms/tokend/internal/token/service"
	"github.com/openkms/tokend/internal/token/store"
	"github.com/openkms/tokend/pkg/httpx"
	"github.com/openkms/tokend/pkg/slogx"
	"github.com/openkms/tokend/pkg/tokensdk"
)

type ExtendTokenHandler struct {
	IssueService *service.IssueService
}

// ServeHTTP godoc
//
//	@Summary		Extend Login Token
//	@Description	Push a login token's expiration out by the server's configured lifetime, measured from its current expiration.
//	@Description	An unknown token is reported as a fault inside a 200 response so callers can tell "token absent" from "server error".
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tokensdk.ExtendLoginTokenRequest	true	"Token to extend"
//	@Success		200		{object}	tokensdk.ExtendLoginTokenResponse	"authorization_token, not_after, faults"
//	@Failure		400		{object}	tokensdk.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	tokensdk.ErrorResponse				"error, error_description"
//	@Router			/v1/login/tokens/extend [post].
func (h *ExtendTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req tokensdk.ExtendLoginTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, tokensdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.AuthorizationToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, tokensdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "authorization_token is required",
		})
		return
	}

	notAfter, err := h.IssueService.ExtendToken(ctx, req.AuthorizationToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusOK, tokensdk.ExtendLoginTokenResponse{
				Faults: []tokensdk.Fault{{
					Type:        tokensdk.FaultTypeTokenNotFound,
					Description: "token not found",
				}},
			})
			return
		}
		log.Error("failed to extend login token", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, tokensdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to extend token",
		})
		return
	}

	w.Header().Set("Authorization-Token", req.AuthorizationToken)
	httpx.WriteJSON(w, http.StatusOK, tokensdk.ExtendLoginTokenResponse{
		AuthorizationToken: req.AuthorizationToken,
		NotAfter:           &notAfter,
		Faults:             []tokensdk.Fault{},
	})
}
