package booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCollectsSpotsInEventOrder(t *testing.T) {
	var detailTokens []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/v1/events/schedule/"):
			// Sunday classes so neither the weekday rule nor holidays
			// interfere; one closed and one foreign entry must drop.
			fmt.Fprint(w, `{"results": [
				{"instructor": 525, "closed_at": null, "start_time": "2025-11-16T10:00:00-03:00", "token": "tok-a"},
				{"instructor": 525, "closed_at": "2025-11-10T00:00:00-03:00", "start_time": "2025-11-16T11:00:00-03:00", "token": "tok-closed"},
				{"instructor": 999, "closed_at": null, "start_time": "2025-11-16T12:00:00-03:00", "token": "tok-foreign"},
				{"instructor": 525, "closed_at": null, "start_time": "2025-11-16T13:00:00-03:00", "token": "tok-b"}
			]}`)

		case strings.HasPrefix(r.URL.Path, "/api/v1/events/events/"):
			token := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/events/events/"), "/")
			detailTokens = append(detailTokens, token)

			switch token {
			case "tok-a":
				fmt.Fprint(w, `{"token": "tok-a", "name": "Morning Ride", "map_spots": [
					{"code": "A1", "bookings": [], "maintenance": false},
					{"code": "A2", "bookings": [{"id": 1}], "maintenance": false},
					{"code": "A3", "bookings": [], "maintenance": false}
				]}`)
			case "tok-b":
				fmt.Fprint(w, `{"token": "tok-b", "name": "Midday Ride", "map_spots": [
					{"code": "B1", "bookings": [], "maintenance": false}
				]}`)
			default:
				t.Errorf("unexpected detail token %q", token)
				http.NotFound(w, r)
			}

		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv, 1)

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, res)

	// The detail calls match the filter output exactly, no duplicates.
	assert.Equal(t, []string{"tok-a", "tok-b"}, detailTokens)
	require.Len(t, res.Events, 2)
	assert.Equal(t, "tok-a", res.Events[0].Token)
	assert.Equal(t, "tok-b", res.Events[1].Token)

	require.Len(t, res.Spots, 3)
	assert.Equal(t, "A1", *res.Spots[0].SpotCode)
	assert.Equal(t, "A3", *res.Spots[1].SpotCode)
	assert.Equal(t, "B1", *res.Spots[2].SpotCode)

	assert.False(t, res.StartedAt.IsZero())
	assert.False(t, res.FinishedAt.IsZero())
	assert.False(t, res.FinishedAt.Before(res.StartedAt))
	assert.GreaterOrEqual(t, res.Elapsed(), time.Duration(0))
}

func TestRunEmptyScheduleYieldsEmptySpotList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v1/events/events/") {
			t.Errorf("no detail fetch expected, got %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	res, err := Run(context.Background(), testConfig(srv, 1))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Events)
	assert.NotNil(t, res.Spots)
	assert.Empty(t, res.Spots)
}

func TestRunAbortsOnDetailFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v1/events/events/") {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"results": [
			{"instructor": 525, "closed_at": null, "start_time": "2025-11-16T10:00:00-03:00", "token": "tok-a"}
		]}`)
	}))
	defer srv.Close()

	res, err := Run(context.Background(), testConfig(srv, 1))
	require.Error(t, err)
	assert.Nil(t, res)

	var tErr *TransportError
	assert.ErrorAs(t, err, &tErr)
}

func TestRunAbortsOnMalformedStartTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [
			{"instructor": 525, "closed_at": null, "start_time": "not-a-date", "token": "tok-bad"}
		]}`)
	}))
	defer srv.Close()

	res, err := Run(context.Background(), testConfig(srv, 1))
	require.Error(t, err)
	assert.Nil(t, res)

	var stErr *StartTimeError
	assert.ErrorAs(t, err, &stErr)
}
