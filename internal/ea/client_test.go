package ea

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	json "github.com/goccy/go-json"
)

// newTestClient points a client at a test server with the rate limiter
// disabled, so retry behavior is the only timing under test.
func newTestClient(server *httptest.Server) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		base:       server.URL,
		warmupURLs: nil,
	}
}

func TestGetRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	body, err := c.get(context.Background(), "/clubs/info", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetForbiddenAfterBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := newTestClient(server)
	_, err := c.get(context.Background(), "/clubs/matches", nil)

	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "/clubs/matches", forbidden.Path)
	assert.Equal(t, int32(maxAttempts), calls.Load(), "retry budget must be exhausted before 403 surfaces")
}

func TestGetAPIErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server)
	_, err := c.get(context.Background(), "/members/stats", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "/members/stats", apiErr.Path)
}

func TestGetContextCancelStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(server)
	_, err := c.get(ctx, "/clubs/info", nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestClubInfoFallsBackToAlternatePlatform(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("platform") == PlatformGen5 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[{"clubId":"12","name":"Test FC","skillRating":"1500"}]`))
	}))
	defer server.Close()

	c := newTestClient(server)
	club, platform, err := c.ClubInfo(context.Background(), PlatformGen5, 12)

	require.NoError(t, err)
	assert.Equal(t, PlatformGen4, platform)
	assert.Equal(t, "Test FC", string(club.Name))
	assert.Equal(t, 1500, int(club.SkillRating))
}

func TestClubInfoNoFallbackOnForbidden(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := newTestClient(server)
	_, _, err := c.ClubInfo(context.Background(), PlatformGen5, 12)

	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, int32(maxAttempts), calls.Load(), "a 403 must not trigger the alternate-platform retry")
}

func TestClubInfoMapShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"12":{"name":"Map FC","skillRating":1400}}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	club, _, err := c.ClubInfo(context.Background(), PlatformGen5, 12)

	require.NoError(t, err)
	assert.Equal(t, "Map FC", string(club.Name))
	assert.Equal(t, int64(12), int64(club.ClubID), "club id is filled in from the map key")
}

func TestLatestMatchEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newTestClient(server)
	m, err := c.LatestMatch(context.Background(), PlatformGen5, 12, MatchTypeLeague)

	require.NoError(t, err)
	assert.Nil(t, m, "no matches is a normal state, not an error")
}

func TestMatchesWrappedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[{"matchId":"55","timestamp":1700000000}]}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	matches, err := c.Matches(context.Background(), PlatformGen5, 12, MatchTypeLeague, 5)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "55", string(matches[0].ID))
	assert.Equal(t, 1700000000, int(matches[0].Timestamp))
}

func TestMatchesHistoryKeepsOrder(t *testing.T) {
	var gotCount string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCount = r.URL.Query().Get("maxResultCount")
		w.Write([]byte(`[
			{"matchId":"3","timestamp":1700000300},
			{"matchId":"2","timestamp":1700000200},
			{"matchId":"1","timestamp":1700000100}
		]`))
	}))
	defer server.Close()

	c := newTestClient(server)
	matches, err := c.Matches(context.Background(), PlatformGen5, 12, MatchTypeLeague, 5)

	require.NoError(t, err)
	assert.Equal(t, "5", gotCount)
	require.Len(t, matches, 3)
	// EA returns newest first; callers rely on that order.
	assert.Equal(t, "3", string(matches[0].ID))
	assert.Equal(t, "1", string(matches[2].ID))
}

func TestMemberStatsParamAndShapes(t *testing.T) {
	body := `[{"name":"Sana","gamesPlayed":"210","goals":"118","ratingAve":"7.9"}]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// This endpoint takes clubId where the others take clubIds.
		assert.Equal(t, "12", r.URL.Query().Get("clubId"))
		assert.Empty(t, r.URL.Query().Get("clubIds"))
		w.Write([]byte(body))
	}))
	defer server.Close()

	c := newTestClient(server)
	members, err := c.MemberStats(context.Background(), PlatformGen5, 12)

	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Sana", string(members[0].Name))
	assert.Equal(t, 210, int(members[0].GamesPlayed))
	assert.InDelta(t, 7.9, float64(members[0].RatingAve), 0.001)
}

func TestMemberStatsWrappedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"members":[{"name":"Sana"},{"name":"Momo"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	members, err := c.MemberStats(context.Background(), PlatformGen5, 12)

	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestWarmupSwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server)
	c.warmupURLs = []string{server.URL + "/", "http://127.0.0.1:1/unreachable"}

	// Must not panic or block; warmup is best-effort.
	c.Warmup(context.Background())
}

func TestParseClubID(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12345", 12345},
		{" 12345 ", 12345},
		{"https://proclubs.ea.com/fc/clubs/overview?platform=common-gen5&clubId=98765", 98765},
		{"https://proclubs.ea.com/fc?clubId=42&x=1", 42},
		{"not a club", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseClubID(tt.in), "input %q", tt.in)
	}
}

func TestResultLetter(t *testing.T) {
	assert.Equal(t, "W", ResultLetter("1"))
	assert.Equal(t, "L", ResultLetter("2"))
	assert.Equal(t, "D", ResultLetter("3"))
	assert.Equal(t, "L", ResultLetter("4"), "DNF counts as a loss")
	assert.Equal(t, "L", ResultLetter("garbage"))
}

func TestFlexibleNumericDecoding(t *testing.T) {
	var m Match
	err := json.Unmarshal([]byte(`{
		"matchId": "9",
		"timestamp": "1700000000",
		"clubs": {"12": {"score": "3", "result": 1}}
	}`), &m)

	require.NoError(t, err)
	assert.Equal(t, 1700000000, int(m.Timestamp))
	assert.Equal(t, 3, int(m.Clubs["12"].Score))
	assert.Equal(t, "1", string(m.Clubs["12"].Result))
}
