package manager

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bank-manager-with-go/worker"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const shutdownTimeout = 5 * time.Second

// Api serves the state of the manager over HTTP.
type Api struct {
	Address string
	Port    int
	Manager *Manager
	Router  *chi.Mux
	Logger  logrus.FieldLogger

	collectStats func() (*worker.Stats, error)
}

type ErrResponse struct {
	HTTPStatusCode int    `json:"status"`
	Message        string `json:"message"`
}

type stateResponse struct {
	State string `json:"state"`
}

func NewApi(address string, port int, m *Manager, logger logrus.FieldLogger) *Api {
	a := &Api{
		Address:      address,
		Port:         port,
		Manager:      m,
		Logger:       logger,
		collectStats: worker.CollectStats,
	}
	a.initRouter()
	return a
}

func (a *Api) initRouter() {
	a.Router = chi.NewRouter()
	a.Router.Use(middleware.RequestID, middleware.Recoverer)
	a.Router.Route("/runs", func(r chi.Router) {
		r.Get("/", a.GetRunsHandler)
		r.Get("/last", a.GetLastRunHandler)
	})
	a.Router.Get("/pools", a.GetPoolsHandler)
	a.Router.Get("/state", a.GetStateHandler)
	a.Router.Get("/stats", a.GetStatsHandler)
}

// Start serves until ctx is done.
func (a *Api) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.Address, a.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.WithField("addr", srv.Addr).Info("status api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "status api")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *Api) GetRunsHandler(w http.ResponseWriter, _ *http.Request) {
	history := a.Manager.History()
	if history == nil {
		history = []Summary{}
	}
	a.writeJSON(w, http.StatusOK, history)
}

func (a *Api) GetLastRunHandler(w http.ResponseWriter, _ *http.Request) {
	last, ok := a.Manager.Last()
	if !ok {
		a.writeError(w, http.StatusNotFound, "no run has closed yet")
		return
	}
	a.writeJSON(w, http.StatusOK, last)
}

func (a *Api) GetPoolsHandler(w http.ResponseWriter, _ *http.Request) {
	pools := a.Manager.Pools()
	if pools == nil {
		pools = []worker.PoolStats{}
	}
	a.writeJSON(w, http.StatusOK, pools)
}

func (a *Api) GetStateHandler(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, stateResponse{State: a.Manager.State().String()})
}

func (a *Api) GetStatsHandler(w http.ResponseWriter, _ *http.Request) {
	stats, err := a.collectStats()
	if err != nil {
		a.Logger.WithError(err).Warn("collect host stats")
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, stats)
}

func (a *Api) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, ErrResponse{HTTPStatusCode: status, Message: msg})
}

func (a *Api) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Logger.WithError(err).Error("encode response")
	}
}
