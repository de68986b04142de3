package fse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/data?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "/data" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestNewClient_RequiresAccessKey(t *testing.T) {
	if _, err := NewClient("", "   ", 0); err == nil {
		t.Fatalf("NewClient returned nil error, want error")
	}
}

func TestClient_FetchEncodesQueries(t *testing.T) {
	t.Parallel()

	var got []url.Values
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.Query())
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Id,FromIcao\n1,KJFK\n"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "secret", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	calls := []struct {
		endpoint Endpoint
		params   map[string]string
		search   string
		param    string
		value    string
	}{
		{AssignmentsByICAO, map[string]string{ParamICAO: "KJFK"}, "jobsfrom", ParamICAO, "KJFK"},
		{AircraftByMakeModel, map[string]string{ParamMakeModel: "Cessna 172 Skyhawk"}, "makemodel", ParamMakeModel, "Cessna 172 Skyhawk"},
		{AircraftByOwner, map[string]string{ParamOwner: "pilot"}, "ownername", ParamOwner, "pilot"},
		{AircraftConfigs, nil, "configs", "", ""},
	}
	for _, call := range calls {
		if _, err := c.Fetch(ctx, call.endpoint, call.params); err != nil {
			t.Fatalf("Fetch(%s) returned error: %v", call.endpoint, err)
		}
	}

	if len(got) != len(calls) {
		t.Fatalf("server saw %d requests, want %d", len(got), len(calls))
	}
	for i, call := range calls {
		q := got[i]
		if q.Get("userkey") != "secret" || q.Get("format") != "csv" || q.Get("search") != call.search {
			t.Fatalf("request %d query = %v, want userkey/format/search set", i, q)
		}
		if call.param != "" && q.Get(call.param) != call.value {
			t.Fatalf("request %d %s = %q, want %q", i, call.param, q.Get(call.param), call.value)
		}
	}
	if got[0].Get("query") != "icao" || got[1].Get("query") != "aircraft" {
		t.Fatalf("query params = %q/%q, want icao/aircraft", got[0].Get("query"), got[1].Get("query"))
	}
	if !strings.HasPrefix(gotUserAgent, "fsefeed/") {
		t.Fatalf("User-Agent = %q, want fsefeed/*", gotUserAgent)
	}
}

func TestClient_FetchRequiresEndpointParam(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", "key", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Fetch(context.Background(), AircraftByOwner, map[string]string{ParamOwner: " "})
	if err == nil || !strings.Contains(err.Error(), ParamOwner) {
		t.Fatalf("Fetch error = %v, want missing %s error", err, ParamOwner)
	}
}

func TestClient_HTTPErrorAndFeedError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("icaos") {
		case "KBOS":
			http.Error(w, "nope", http.StatusInternalServerError)
		case "EGLL":
			_, _ = w.Write([]byte("<Error>Too many requests</Error>"))
		default:
			_, _ = w.Write([]byte("Id\n"))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "key", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Fetch(context.Background(), AssignmentsByICAO, map[string]string{ParamICAO: "KBOS"})
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Fetch error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError || fetchErr.Subject != "KBOS" {
		t.Fatalf("FetchError = %#v, want status 500 for KBOS", fetchErr)
	}
	if !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Fetch error = %q, want status text", err.Error())
	}

	_, err = c.Fetch(context.Background(), AssignmentsByICAO, map[string]string{ParamICAO: "EGLL"})
	if !errors.As(err, &fetchErr) || !errors.Is(err, errFeedRejected) {
		t.Fatalf("Fetch error = %v, want feed rejection", err)
	}
	if !strings.Contains(fetchErr.Body, "Too many requests") {
		t.Fatalf("FetchError body = %q, want feed message", fetchErr.Body)
	}

	rows, err := c.Fetch(context.Background(), AssignmentsByICAO, map[string]string{ParamICAO: "KJFK"})
	if err != nil || len(rows) != 0 {
		t.Fatalf("Fetch header-only = %v, %v, want no rows and no error", rows, err)
	}
}

func TestClient_TransportErrorHidesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, "topsecretkey", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Fetch(context.Background(), AircraftConfigs, nil)
	if err == nil {
		t.Fatalf("Fetch returned nil error, want transport error")
	}
	if strings.Contains(err.Error(), "topsecretkey") {
		t.Fatalf("Fetch error leaks access key: %q", err.Error())
	}
}

func TestDecodeRows_TrailingCommasAndBOM(t *testing.T) {
	body := []byte("\xef\xbb\xbfMakeModel,Crew,Seats,\n\"Cessna 172 Skyhawk\",0,4,\nShort,1\n\n")
	rows, err := decodeRows(body)
	if err != nil {
		t.Fatalf("decodeRows returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("decodeRows returned %d rows, want 2", len(rows))
	}
	if rows[0]["MakeModel"] != "Cessna 172 Skyhawk" || rows[0]["Seats"] != "4" {
		t.Fatalf("row 0 = %#v", rows[0])
	}
	if _, ok := rows[0][""]; ok {
		t.Fatalf("row 0 has an empty column key: %#v", rows[0])
	}
	if _, ok := rows[1]["Seats"]; ok {
		t.Fatalf("short row should omit missing columns: %#v", rows[1])
	}
}

func TestDecodeRows_EmptyBody(t *testing.T) {
	rows, err := decodeRows([]byte("  \n"))
	if err != nil || rows != nil {
		t.Fatalf("decodeRows(empty) = %v, %v, want nil, nil", rows, err)
	}
}
