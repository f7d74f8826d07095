package tokend_test

import (
	"testing"
	"time"

	"github.com/openkms/tokend/pkg/tokensdk"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupTokendContainer(t)
	defer cleanup()

	client := tokensdk.NewClient(baseURL, "")

	health, err := client.Livez(t.Context())
	assertHealthy(t, health, err)

	ready, err := client.Readyz(t.Context())
	assertHealthy(t, ready, err)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Store)
}

func TestCreateTokensOrdered(t *testing.T) {
	baseURL, cleanup := setupTokendContainer(t)
	defer cleanup()

	resp := mintTokens(t, baseURL, []tokensdk.TokenRequest{
		{NotMoreThan: intPtr(1)},
		{NotMoreThan: intPtr(2)},
		{NotMoreThan: intPtr(3)},
	})

	seen := make(map[string]struct{})
	for i, tok := range resp.Data {
		require.NotEmpty(t, tok.Token)
		require.NotContains(t, seen, tok.Token, "tokens must be unique")
		seen[tok.Token] = struct{}{}

		// Each response entry echoes its own request, in order.
		require.Equal(t, i+1, *tok.Attributes.NotMoreThan)
		require.WithinDuration(t, time.Now(), tok.Attributes.NotBefore, time.Minute)
		require.WithinDuration(t,
			tok.Attributes.NotBefore.Add(30*time.Minute),
			tok.Attributes.NotAfter,
			time.Second,
		)
	}
}

func TestMintedTokenAuthenticates(t *testing.T) {
	baseURL, cleanup := setupTokendContainer(t)
	defer cleanup()

	resp := mintTokens(t, baseURL, []tokensdk.TokenRequest{{}})
	minted := resp.Data[0].Token

	// A token minted by the bootstrap principal inherits its permissions
	// and can itself create tokens.
	client := tokensdk.NewClient(baseURL, minted)
	created, err := client.CreateLoginTokens(t.Context(), tokensdk.CreateLoginTokenRequest{
		Data: []tokensdk.TokenRequest{{}},
	})
	require.NoError(t, err)
	require.Len(t, created.Data, 1)
}

func TestUnknownTokenRejected(t *testing.T) {
	baseURL, cleanup := setupTokendContainer(t)
	defer cleanup()

	client := tokensdk.NewClient(baseURL, "not-a-real-token")
	_, err := client.CreateLoginTokens(t.Context(), tokensdk.CreateLoginTokenRequest{
		Data: []tokensdk.TokenRequest{{}},
	})
	require.Error(t, err)

	var apiErr *tokensdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)
}

func TestUsageLimitExhaustion(t *testing.T) {
	baseURL, cleanup := setupTokendContainer(t)
	defer cleanup()

	resp := mintTokens(t, baseURL, []tokensdk.TokenRequest{{NotMoreThan: intPtr(2)}})
	limited := resp.Data[0].Token

	client := tokensdk.NewClient(baseURL, limited)
	req := tokensdk.CreateLoginTokenRequest{Data: []tokensdk.TokenRequest{{}}}

	// The first two authentications consume the budget.
	_, err := client.CreateLoginTokens(t.Context(), req)
	require.NoError(t, err)
	_, err = client.CreateLoginTokens(t.Context(), req)
	require.NoError(t, err)

	// The third is rejected like any unknown token.
	_, err = client.CreateLoginTokens(t.Context(), req)
	require.Error(t, err)

	var apiErr *tokensdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)
}

func TestExtendToken(t *testing.T) {
	baseURL, cleanup := setupTokendContainer(t)
	defer cleanup()

	resp := mintTokens(t, baseURL, []tokensdk.TokenRequest{{}})
	minted := resp.Data[0]

	client := tokensdk.NewClient(baseURL, "")

	t.Run("known token", func(t *testing.T) {
		extended, err := client.ExtendLoginToken(t.Context(), minted.Token)
		require.NoError(t, err)
		require.Equal(t, minted.Token, extended.AuthorizationToken)
		require.Empty(t, extended.Faults)
		require.NotNil(t, extended.NotAfter)
		// The new expiration is the old one pushed out by the configured
		// lifetime, and the response carries the new value.
		require.WithinDuration(t,
			minted.Attributes.NotAfter.Add(30*time.Minute),
			*extended.NotAfter,
			time.Second,
		)
	})

	t.Run("unknown token is a soft fault", func(t *testing.T) {
		extended, err := client.ExtendLoginToken(t.Context(), "not-a-real-token")
		require.NoError(t, err, "unknown tokens fault inside a 200, not at protocol level")
		require.Empty(t, extended.AuthorizationToken)
		require.Nil(t, extended.NotAfter)
		require.Len(t, extended.Faults, 1)
		require.Equal(t, tokensdk.FaultTypeTokenNotFound, extended.Faults[0].Type)
	})
}
