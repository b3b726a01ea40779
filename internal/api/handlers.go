package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/juliandevatbs/SRLIMS/internal/display"
	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/juliandevatbs/SRLIMS/internal/view"
)

// Summary describes the view installed by a source request.
type Summary struct {
	Source      string `json:"source"`
	CustodyRows int    `json:"custody_rows"`
	MatrixRows  int    `json:"matrix_rows"`
}

// CustodyGrid is the custody grid with the selected row, -1 when no row is
// selected.
type CustodyGrid struct {
	display.Grid
	Selected int `json:"selected"`
}

func (h handler) OpenWorkbook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	v, err := h.opener.OpenWorkbook(req.Path)
	h.install(w, v, err)
}

func (h handler) OpenBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BatchID string `json:"batch_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	v, err := h.opener.OpenBatch(r.Context(), req.BatchID)
	h.install(w, v, err)
}

func (h handler) install(w http.ResponseWriter, v *view.ChainView, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}

	summary := Summary{Source: v.Source(), CustodyRows: v.Custody().Len(), MatrixRows: v.Matrix().Len()}
	if err := h.session.Install(v); err != nil {
		// The new view is installed; only releasing the old one failed.
		h.log.Warnf("Error releasing previous view: %s", err)
	}

	h.respond(w, http.StatusCreated, summary)
}

func (h handler) Custody(w http.ResponseWriter, r *http.Request) {
	var grid CustodyGrid
	err := h.session.Do(func(v *view.ChainView) error {
		grid.Grid = display.NewGrid(v.Custody())
		grid.Selected = -1
		if i, ok := v.Selected(); ok {
			grid.Selected = i
		}
		return nil
	})
	h.reply(w, grid, err)
}

// Matrix returns the matrix rows of the selected sample, or every matrix row
// with ?all=true.
func (h handler) Matrix(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	var grid display.Grid
	err := h.session.Do(func(v *view.ChainView) error {
		if all {
			grid = display.NewGrid(v.Matrix())
		} else {
			grid = display.NewGrid(v.FilteredMatrix())
		}
		return nil
	})
	h.reply(w, grid, err)
}

func (h handler) Selected(w http.ResponseWriter, r *http.Request) {
	var grid display.Grid
	err := h.session.Do(func(v *view.ChainView) error {
		grid = display.NewGrid(v.SelectedChainData())
		return nil
	})
	h.reply(w, grid, err)
}

func (h handler) SetInclude(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(mux.Vars(r)["row"])
	if err != nil {
		h.fail(w, errors.Wrap(table.ErrInvalidInput, err.Error()))
		return
	}

	var req struct {
		Include *bool `json:"include"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Include == nil {
		h.fail(w, errors.Wrap(table.ErrInvalidInput, "include is required"))
		return
	}

	var grid display.Grid
	err = h.session.Do(func(v *view.ChainView) error {
		if err := v.SetInclude(row, *req.Include); err != nil {
			return err
		}
		grid = display.NewGrid(v.SelectedChainData())
		return nil
	})
	h.reply(w, grid, err)
}

func (h handler) IncludeOnly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rows []int `json:"rows"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	var grid display.Grid
	err := h.session.Do(func(v *view.ChainView) error {
		if err := v.IncludeOnly(req.Rows); err != nil {
			return err
		}
		grid = display.NewGrid(v.SelectedChainData())
		return nil
	})
	h.reply(w, grid, err)
}

// Select selects the custody row given as {"row": n}; {"row": null} clears the
// selection. The answer is the matrix of the new selection.
func (h handler) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Row *int `json:"row"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	var grid display.Grid
	err := h.session.Do(func(v *view.ChainView) error {
		if req.Row == nil {
			v.ClearSelection()
		} else if err := v.Select(*req.Row); err != nil {
			return err
		}
		grid = display.NewGrid(v.FilteredMatrix())
		return nil
	})
	h.reply(w, grid, err)
}

func (h handler) decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		h.fail(w, errors.Wrapf(table.ErrInvalidInput, "bad request body: %s", err))
		return false
	}
	return true
}

func (h handler) reply(w http.ResponseWriter, body interface{}, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, body)
}

func (h handler) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("Request failed: %s", err)
	}
	h.respond(w, status, map[string]string{"error": err.Error()})
}

func (h handler) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Warnf("Error writing response: %s", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, table.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, table.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
