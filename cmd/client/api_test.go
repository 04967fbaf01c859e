package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"legifai-be/internal/dto"
	"legifai-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/v1/invoke", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req dto.InvokeRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		_ = json.NewEncoder(w).Encode(serverutils.SuccessResponse("ok", dto.InvokeResponse{
			Reply: "Hola", SessionId: req.SessionId, TurnIndex: 1, Stage: "INITIAL",
		}))
	}))
	defer srv.Close()

	res, err := newAPIClient(srv.URL+"/", "tok").Invoke(context.Background(), "s1", "hola")

	require.NoError(t, err)
	assert.Equal(t, "Hola", res.Reply)
	assert.Equal(t, "s1", res.SessionId)
}

func TestErrorEnvelopeBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(serverutils.ErrorResponse(409, "session busy: s1"))
	}))
	defer srv.Close()

	_, err := newAPIClient(srv.URL, "").Invoke(context.Background(), "s1", "hola")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "session busy")
}
