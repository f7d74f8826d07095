package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/service"
	"github.com/openkms/tokend/pkg/httpx"
	"github.com/openkms/tokend/pkg/slogx"
	"github.com/openkms/tokend/pkg/tokensdk"
)

type LoginTokensHandler struct {
	IssueService *service.IssueService
}

// isSecureChannel reports whether the request arrived over TLS, either
// directly or via a proxy that terminated it.
func isSecureChannel(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// ServeHTTP godoc
//
//	@Summary		Create Login Tokens
//	@Description	Mint one login token per entry in the request body, bound to the caller's identity and permissions.
//	@Description	Omitted attributes are defaulted server-side and the resolved values are echoed back in request order.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tokensdk.CreateLoginTokenRequest	true	"Token requests"
//	@Success		200		{object}	tokensdk.CreateLoginTokenResponse	"data"
//	@Failure		400		{object}	tokensdk.ErrorResponse				"error, error_description"
//	@Failure		401		{object}	tokensdk.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	tokensdk.ErrorResponse				"error, error_description"
//	@Security		TokenAuth
//	@Router			/v1/login/tokens [post].
func (h *LoginTokensHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req tokensdk.CreateLoginTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, tokensdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if len(req.Data) == 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, tokensdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "data must contain at least one token request",
		})
		return
	}

	caller := domain.Principal{
		Username:    httpx.UsernameFromContext(ctx),
		Permissions: httpx.PermissionsFromContext(ctx),
	}

	reqs := make([]service.TokenRequest, 0, len(req.Data))
	for _, item := range req.Data {
		reqs = append(reqs, service.TokenRequest{
			NotBefore:   item.NotBefore,
			NotAfter:    item.NotAfter,
			NotMoreThan: item.NotMoreThan,
		})
	}

	issued, err := h.IssueService.IssueTokens(ctx, caller, reqs, isSecureChannel(r))
	if err != nil {
		if errors.Is(err, service.ErrInsecureChannel) {
			// 401 without a challenge header, and the same body as any
			// other authentication failure: the response must not reveal
			// why the request was refused.
			httpx.WriteJSON(w, http.StatusUnauthorized, tokensdk.ErrorResponse{
				Error:            "unauthorized",
				ErrorDescription: "Authentication required",
			})
			return
		}
		log.Error("failed to issue login tokens", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, tokensdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to issue tokens",
		})
		return
	}

	response := tokensdk.CreateLoginTokenResponse{
		Data: make([]tokensdk.IssuedToken, 0, len(issued)),
	}
	for _, tok := range issued {
		response.Data = append(response.Data, tokensdk.IssuedToken{
			Token: tok.Token,
			Attributes: tokensdk.TokenAttributes{
				NotBefore:   tok.NotBefore,
				NotAfter:    tok.NotAfter,
				NotMoreThan: tok.NotMoreThan,
			},
		})
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
