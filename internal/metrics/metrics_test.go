package metrics

import (
	"net/http"
	"testing"
)

// Sanity checks: recording must never panic, handler must serve.

func TestRecorders(t *testing.T) {
	RecordRefresh("ok")
	RecordRefresh("error")
	RecordRefresh("stale_discarded")
	RecordCacheLookup("detail", true)
	RecordCacheLookup("detail", false)
	RecordViewRequest("month")
	RecordMalformedRow()
}

func TestHandler(t *testing.T) {
	var h http.Handler = Handler()
	if h == nil {
		t.Fatal("Handler returned nil")
	}
}
