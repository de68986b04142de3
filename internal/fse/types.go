package fse

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Endpoint identifies one logical feed query.
type Endpoint int

const (
	AssignmentsByICAO Endpoint = iota + 1
	AircraftByMakeModel
	AircraftByOwner
	AircraftConfigs
)

// Parameter names understood by Fetch.
const (
	ParamICAO      = "icaos"
	ParamMakeModel = "makemodel"
	ParamOwner     = "ownername"
)

type endpointSpec struct {
	name   string
	query  string
	search string
	param  string
}

var endpoints = map[Endpoint]endpointSpec{
	AssignmentsByICAO:   {name: "assignments-by-icao", query: "icao", search: "jobsfrom", param: ParamICAO},
	AircraftByMakeModel: {name: "aircraft-by-makemodel", query: "aircraft", search: "makemodel", param: ParamMakeModel},
	AircraftByOwner:     {name: "aircraft-by-owner", query: "aircraft", search: "ownername", param: ParamOwner},
	AircraftConfigs:     {name: "aircraft-configs", query: "aircraft", search: "configs"},
}

func (e Endpoint) String() string {
	if ep, ok := endpoints[e]; ok {
		return ep.name
	}
	return fmt.Sprintf("endpoint(%d)", int(e))
}

// Row is one loosely-typed feed record keyed by CSV column header.
type Row map[string]string

var errFeedRejected = errors.New("feed returned an error document")

// FetchError reports a failed feed request. The access key is never included.
type FetchError struct {
	Endpoint   Endpoint
	Subject    string // value of the endpoint parameter, e.g. the ICAO
	StatusCode int    // zero when the request never completed
	Body       string // trimmed excerpt of the response body
	Err        error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("fetch ")
	b.WriteString(e.Endpoint.String())
	if e.Subject != "" {
		fmt.Fprintf(&b, " %q", e.Subject)
	}
	switch {
	case e.Err != nil && e.Body != "":
		fmt.Fprintf(&b, ": %v: %s", e.Err, e.Body)
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	default:
		fmt.Fprintf(&b, ": returned status %d", e.StatusCode)
	}
	return b.String()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// decodeRows converts a CSV body into header-keyed rows. The configs feed ends
// every line with a comma, so a trailing empty field beyond the header is dropped.
func decodeRows(body []byte) ([]Row, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header = trimTrailingEmpty(header, 0)
	for i, h := range header {
		header[i] = strings.Trim(strings.TrimSpace(h), "'\"")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		record = trimTrailingEmpty(record, len(header))
		row := make(Row, len(header))
		for i, name := range header {
			if name == "" || i >= len(record) {
				continue
			}
			row[name] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func trimTrailingEmpty(record []string, want int) []string {
	if len(record) > want && len(record) > 0 && strings.TrimSpace(record[len(record)-1]) == "" {
		return record[:len(record)-1]
	}
	return record
}
