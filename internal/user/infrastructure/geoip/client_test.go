package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ip":"203.0.113.7"}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(srv.URL, srv.URL+"/"))
	ip, err := c.PublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestPublicIP_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(srv.URL, srv.URL+"/"))
	_, err := c.PublicIP(context.Background())
	assert.Error(t, err)
}

func TestPublicIP_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(srv.URL, srv.URL+"/"))
	_, err := c.PublicIP(context.Background())
	assert.Error(t, err)
}

func TestCountry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/203.0.113.7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","country":"Germany"}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(srv.URL, srv.URL+"/json/"))
	country, err := c.Country(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "Germany", country)
}

func TestCountry_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(srv.URL, srv.URL+"/json/"))
	_, err := c.Country(context.Background(), "203.0.113.7")
	assert.Error(t, err)
}

func TestCountry_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(srv.URL, srv.URL+"/json/"), WithTimeout(50*time.Millisecond))
	_, err := c.Country(context.Background(), "203.0.113.7")
	assert.Error(t, err)
}
