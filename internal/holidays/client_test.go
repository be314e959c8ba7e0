package holidays

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
	"england-and-wales": {
		"division": "england-and-wales",
		"events": [
			{"title": "Christmas Day", "date": "2023-12-25"},
			{"title": "Boxing Day", "date": "2023-12-26"}
		]
	},
	"scotland": {
		"division": "scotland",
		"events": [
			{"title": "2nd January", "date": "2024-01-02"}
		]
	}
}`

func TestClientFetchDecodesDivision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	set, err := client.Fetch(context.Background(), DivisionEnglandAndWales)

	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.True(t, set.Contains(time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)))
	assert.False(t, set.Contains(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)))
}

func TestClientFetchUnknownDivision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Fetch(context.Background(), DivisionNorthernIreland)
	assert.Error(t, err)
}

func TestClientFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Fetch(context.Background(), DivisionEnglandAndWales)
	assert.Error(t, err)
}
