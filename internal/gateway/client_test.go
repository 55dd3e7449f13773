package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchSeats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/seats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"seat_number":1,"status":"booked"},{"seat_number":2,"status":"available"}],"booked":1}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL+"/", time.Second).FetchSeats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []SeatState{{1, "booked"}, {2, "available"}}, got)
}

func TestClient_BookSeats(t *testing.T) {
	var body struct {
		Seats []int `json:"seats"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/seats/book", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"reference":"abc","seats":[8,9]}`))
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, time.Second).BookSeats(context.Background(), []int{8, 9}))
	assert.Equal(t, []int{8, 9}, body.Seats)
}

func TestClient_ErrorStatusWrapsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"some seats are already booked"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).BookSeats(context.Background(), []int{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayFailure)
	assert.Contains(t, err.Error(), "status 409")
	assert.Contains(t, err.Error(), "some seats are already booked")
}

func TestClient_ResetSeats(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = r.Method == http.MethodPost && r.URL.Path == "/v1/seats/reset"
		_, _ = w.Write([]byte(`{"reset":3}`))
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, time.Second).ResetSeats(context.Background()))
	assert.True(t, called)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchSeats(context.Background())
	assert.ErrorIs(t, err, ErrGatewayFailure)
}

func TestClient_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchSeats(context.Background())
	assert.ErrorIs(t, err, ErrGatewayFailure)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "plain text", errorMessage([]byte("plain text\n")))
}
