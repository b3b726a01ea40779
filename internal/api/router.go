// Package api serves the current view as JSON for a grid front end.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/interpose/middleware"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/juliandevatbs/SRLIMS/internal/view"
)

// Opener loads a new view from a workbook or a database batch.
type Opener interface {
	OpenWorkbook(path string) (*view.ChainView, error)
	OpenBatch(ctx context.Context, batchID string) (*view.ChainView, error)
}

type handler struct {
	session *view.Session
	opener  Opener
	log     logrus.FieldLogger
}

// Router returns the handler for all routes. Requests are logged to stdout
// in the combined log format when accessLog is set.
func Router(session *view.Session, opener Opener, log logrus.FieldLogger, accessLog bool) http.Handler {
	router := mux.NewRouter()
	POST := router.Methods("POST").Subrouter()
	GET := router.Methods("GET", "HEAD").Subrouter()
	PUT := router.Methods("PUT").Subrouter()

	h := handler{session: session, opener: opener, log: log}

	POST.HandleFunc("/sources/workbook", h.OpenWorkbook)
	POST.HandleFunc("/sources/batch", h.OpenBatch)

	GET.HandleFunc("/custody", h.Custody)
	GET.HandleFunc("/matrix", h.Matrix)
	GET.HandleFunc("/selected", h.Selected)

	PUT.HandleFunc("/custody/{row:[0-9]+}/include", h.SetInclude)
	PUT.HandleFunc("/custody/include", h.IncludeOnly)
	PUT.HandleFunc("/custody/selection", h.Select)

	if !accessLog {
		return router
	}

	standard := alice.New(
		// Log all requests to STDOUT
		middleware.GorillaLog(),
	)

	return standard.Then(router)
}
