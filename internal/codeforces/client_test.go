package codeforces

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thinkscotty/cfdash/internal/cache"
	"github.com/thinkscotty/cfdash/internal/config"
	"github.com/thinkscotty/cfdash/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, c cache.Cache) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.DefaultConfig().Codeforces
	cfg.BaseURL = srv.URL + "/"
	return New(cfg, c, time.Minute)
}

func TestUserInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user.info" || r.URL.Query().Get("handles") != "tourist" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Write([]byte(`{"status":"OK","result":[{"handle":"tourist","rating":3800,"maxRating":3979,"rank":"legendary grandmaster","registrationTimeSeconds":1265987288}]}`))
	}, nil)

	u, err := client.UserInfo(context.Background(), "tourist")
	if err != nil {
		t.Fatal(err)
	}
	if u.Handle != "tourist" || u.Rating.OrZero() != 3800 || u.MaxRating.OrZero() != 3979 {
		t.Errorf("UserInfo() = %+v", u)
	}
	if u.RegisteredAt.Year() != 2010 {
		t.Errorf("RegisteredAt = %v", u.RegisteredAt)
	}
}

func TestUnratedUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":[{"handle":"newbie"}]}`))
	}, nil)
	u, err := client.UserInfo(context.Background(), "newbie")
	if err != nil {
		t.Fatal(err)
	}
	if u.Rating.Defined() || u.RankOrUnrated() != models.UnratedLabel {
		t.Errorf("UserInfo() = %+v, want unrated", u)
	}
}

func TestFailedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"FAILED","comment":"handle: User with handle nobody_x not found"}`))
	}, nil)

	_, err := client.UserSubmissions(context.Background(), "nobody_x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Method != "user.status" || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false")
	}
}

func TestNonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>down</html>", http.StatusServiceUnavailable)
	}, nil)
	_, err := client.UserRating(context.Background(), "tourist")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("error = %v", err)
	}
	if IsNotFound(err) {
		t.Error("IsNotFound() = true for an outage")
	}
}

func TestUserSubmissions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":[
			{"id":2,"contestId":1,"creationTimeSeconds":1700000000,"problem":{"contestId":1,"index":"A","name":"Watermelon","rating":800,"tags":["math"]},"programmingLanguage":"GNU C++17","verdict":"OK","passedTestCount":20},
			{"id":1,"contestId":1,"creationTimeSeconds":1699990000,"problem":{"contestId":1,"index":"B","name":"Other","tags":[]}}
		]}`))
	}, nil)

	subs, err := client.UserSubmissions(context.Background(), "tourist")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Fatalf("len = %d, want 2", len(subs))
	}
	if !subs[0].Verdict.Accepted() || subs[0].Problem.Rating.OrZero() != 800 || subs[0].CreatedAt.Unix() != 1700000000 {
		t.Errorf("subs[0] = %+v", subs[0])
	}
	if subs[1].Verdict != models.VerdictPending || subs[1].Problem.Rating.Defined() {
		t.Errorf("subs[1] = %+v", subs[1])
	}
}

func TestUserRating(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":[{"contestId":10,"contestName":"Round 10","rank":42,"ratingUpdateTimeSeconds":1700000000,"oldRating":1500,"newRating":1580}]}`))
	}, nil)
	history, err := client.UserRating(context.Background(), "tourist")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Delta() != 80 || history[0].Name != "Round 10" {
		t.Errorf("UserRating() = %+v", history)
	}
}

func TestProblemsMergesStatistics(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{
			"problems":[{"contestId":1,"index":"A","name":"Watermelon","rating":800,"tags":["math"]},{"contestId":2,"index":"B","name":"Unrated one","tags":[]}],
			"problemStatistics":[{"contestId":1,"index":"A","solvedCount":500000}]
		}}`))
	}, nil)

	ps, err := client.Problems(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 2 {
		t.Fatalf("len = %d", len(ps))
	}
	if ps[0].SolvedCount != 500000 || ps[1].SolvedCount != 0 || ps[1].Rating.Defined() {
		t.Errorf("Problems() = %+v", ps)
	}
}

func TestUpcomingContests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":[
			{"id":3,"name":"Later","phase":"BEFORE","startTimeSeconds":2000,"durationSeconds":7200},
			{"id":2,"name":"Done","phase":"FINISHED","startTimeSeconds":100},
			{"id":1,"name":"Sooner","phase":"BEFORE","startTimeSeconds":1000,"durationSeconds":5400}
		]}`))
	}, nil)

	cs, err := client.UpcomingContests(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 2 || cs[0].ID != 1 || cs[1].ID != 3 {
		t.Fatalf("UpcomingContests() = %+v", cs)
	}
	if cs[0].Duration != 90*time.Minute {
		t.Errorf("Duration = %v", cs[0].Duration)
	}
}

func TestGlobalEndpointsAreCached(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/contest.list":
			w.Write([]byte(`{"status":"OK","result":[]}`))
		default:
			w.Write([]byte(`{"status":"OK","result":[{"handle":"tourist"}]}`))
		}
	}, cache.NewMemory())

	ctx := context.Background()
	for range 3 {
		if _, err := client.UpcomingContests(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("contest.list hits = %d, want 1", got)
	}

	for range 2 {
		if _, err := client.UserInfo(ctx, "tourist"); err != nil {
			t.Fatal(err)
		}
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("total hits = %d, want 3 (user data is never cached)", got)
	}
}

func TestCanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent despite canceled context")
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Problems(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRateLimitSpacesRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":[]}`))
	}, nil)
	client.minInterval = 50 * time.Millisecond

	start := time.Now()
	for range 3 {
		if _, err := client.UserRating(context.Background(), "x"); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("3 requests took %v, want at least 100ms", elapsed)
	}
}
