package leadsync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["accessId"] == "caller1" && req["password"] == "hunter2" {
			fmt.Fprint(w, `{"success":true,"token":"tok-abc"}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"success":false,"message":"Invalid credentials"}`)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)

	assert.NoError(t, c.Login(context.Background(), "caller1", "hunter2"))
	assert.Equal(t, "tok-abc", c.Token)

	err := c.Login(context.Background(), "caller1", "wrong")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestFetchLeadsSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[{"id":"ChIJ-one","name":"Cafe Aroma"}]`)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	c.Token = "tok-abc"

	leads, err := c.FetchLeads(context.Background())

	assert.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Equal(t, "Cafe Aroma", leads[0].Name)
}

func TestPatchLeadSendsSparseBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)

	err := c.PatchLead(context.Background(), "ChIJ-one", map[string]interface{}{"remarks": "Called back"})

	assert.NoError(t, err)
	assert.Equal(t, "/lead/ChIJ-one", gotPath)
	assert.Equal(t, map[string]interface{}{"remarks": "Called back"}, gotBody)
}

func TestPatchLeadSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"lead not found"}`)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)

	err := c.PatchLead(context.Background(), "ghost", map[string]interface{}{"remarks": "x"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
}
